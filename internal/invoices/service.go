package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/umkmdelicious/backend/internal/catalog"
	"github.com/umkmdelicious/backend/pkg/db"
	"github.com/umkmdelicious/backend/pkg/db/models"
	"github.com/umkmdelicious/backend/pkg/enums"
	pkgerrors "github.com/umkmdelicious/backend/pkg/errors"
)

// Service exposes the order engine.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Invoice, error)
	CreateSingleItem(ctx context.Context, input SingleItemInput) (*models.Invoice, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InvoiceStatus) (*models.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	ListByCustomer(ctx context.Context, phone string) ([]models.Invoice, error)
}

// ItemInput is one order line as submitted by the caller.
type ItemInput struct {
	FoodID   uuid.UUID
	Quantity int
	Price    int
}

// CreateInput holds the validated payload for a multi-line order.
type CreateInput struct {
	CustomerName  string
	CustomerPhone string
	Items         []ItemInput
}

// SingleItemInput is the public storefront order: one food, unit price read
// from the catalog.
type SingleItemInput struct {
	CustomerName  string
	CustomerPhone string
	FoodID        uuid.UUID
	Quantity      int
}

// UpdateInput holds optional mutation values for an invoice. A non-nil Items
// slice replaces every line wholesale.
type UpdateInput struct {
	CustomerName  *string
	CustomerPhone *string
	Status        *enums.InvoiceStatus
	Items         *[]ItemInput
}

type salesRecorder interface {
	ApplyDelta(ctx context.Context, tx *gorm.DB, amount int, isNewOrder bool) error
}

type service struct {
	repo        *Repository
	catalogRepo *catalog.Repository
	sales       salesRecorder
	dbClient    *db.Client
	now         func() time.Time
}

// NewService constructs the order engine.
func NewService(repo *Repository, catalogRepo *catalog.Repository, salesSvc salesRecorder, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if salesSvc == nil {
		return nil, fmt.Errorf("sales service required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:        repo,
		catalogRepo: catalogRepo,
		sales:       salesSvc,
		dbClient:    dbClient,
		now:         time.Now,
	}, nil
}

// Create places a multi-line order: stock check, snapshot lines, conditional
// stock decrement, and sales delta all commit or roll back together.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Invoice, error) {
	if err := validateCustomer(input.CustomerName, input.CustomerPhone); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		if item.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
	}

	var created *models.Invoice
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		invoice, err := s.placeOrder(ctx, tx, input)
		if err != nil {
			return err
		}
		created = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateSingleItem places a storefront order for one food, pricing the line
// from the catalog.
func (s *service) CreateSingleItem(ctx context.Context, input SingleItemInput) (*models.Invoice, error) {
	if err := validateCustomer(input.CustomerName, input.CustomerPhone); err != nil {
		return nil, err
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var created *models.Invoice
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		food, err := s.catalogRepo.WithTx(tx).FindByID(ctx, input.FoodID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "food not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food")
		}

		invoice, err := s.placeOrder(ctx, tx, CreateInput{
			CustomerName:  input.CustomerName,
			CustomerPhone: input.CustomerPhone,
			Items: []ItemInput{{
				FoodID:   food.ID,
				Quantity: input.Quantity,
				Price:    food.Price,
			}},
		})
		if err != nil {
			return err
		}
		created = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// placeOrder runs the shared order pipeline inside the caller's transaction.
func (s *service) placeOrder(ctx context.Context, tx *gorm.DB, input CreateInput) (*models.Invoice, error) {
	catalogRepo := s.catalogRepo.WithTx(tx)

	ids := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.FoodID)
	}
	foods, err := catalogRepo.LookupBatch(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup foods")
	}

	total := 0
	lines := make([]models.InvoiceItem, 0, len(input.Items))
	for _, item := range input.Items {
		food, ok := foods[item.FoodID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "food not found").
				WithDetails(map[string]any{"food_id": item.FoodID})
		}
		if food.StockQuantity < item.Quantity {
			return nil, insufficientStock(food.Name, food.StockQuantity, item.Quantity)
		}

		foodID := food.ID
		subtotal := item.Quantity * item.Price
		total += subtotal
		lines = append(lines, models.InvoiceItem{
			ID:       uuid.New(),
			FoodID:   &foodID,
			FoodName: food.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Subtotal: subtotal,
		})
	}

	now := s.now()
	invoice := &models.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: GenerateInvoiceNumber(now),
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		TotalAmount:   total,
		Status:        enums.InvoiceStatusWaiting,
	}

	repo := s.repo.WithTx(tx)
	if err := repo.CreateHeader(ctx, invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert invoice")
	}
	for i := range lines {
		lines[i].InvoiceID = invoice.ID
	}
	if err := repo.CreateItems(ctx, lines); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert invoice items")
	}

	// The conditional decrement is the authoritative stock gate: the earlier
	// read-side check only produces friendlier details.
	for i, item := range input.Items {
		applied, err := catalogRepo.DecrementStock(ctx, item.FoodID, item.Quantity)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
		}
		if !applied {
			food := foods[item.FoodID]
			return nil, insufficientStock(lines[i].FoodName, food.StockQuantity, item.Quantity)
		}
	}

	if err := s.sales.ApplyDelta(ctx, tx, total, true); err != nil {
		return nil, err
	}

	invoice.Items = lines
	return invoice, nil
}

// Update applies header edits and, when Items is set, replaces every line and
// re-points the sales totals at the new amount. Stock is not re-adjusted for
// edits.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Invoice, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", *input.Status))
	}
	if input.Items != nil {
		if len(*input.Items) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "items cannot be empty")
		}
		for _, item := range *input.Items {
			if item.Quantity < 1 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
			}
			if item.Price < 0 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
			}
		}
	}

	var updated *models.Invoice
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		invoice, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
		}

		oldTotal := invoice.TotalAmount

		if input.CustomerName != nil {
			if strings.TrimSpace(*input.CustomerName) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "customer_name cannot be empty")
			}
			invoice.CustomerName = strings.TrimSpace(*input.CustomerName)
		}
		if input.CustomerPhone != nil {
			if strings.TrimSpace(*input.CustomerPhone) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "customer_phone cannot be empty")
			}
			invoice.CustomerPhone = strings.TrimSpace(*input.CustomerPhone)
		}
		if input.Status != nil {
			s.applyStatus(invoice, *input.Status)
		}

		if input.Items != nil {
			lines, total, err := s.buildLines(ctx, tx, invoice.ID, *input.Items)
			if err != nil {
				return err
			}
			if err := repo.DeleteItemsByInvoice(ctx, invoice.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear invoice items")
			}
			if err := repo.CreateItems(ctx, lines); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert invoice items")
			}
			invoice.TotalAmount = total
			invoice.Items = lines
		}

		if err := repo.Save(ctx, invoice); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update invoice")
		}

		if delta := invoice.TotalAmount - oldTotal; delta != 0 {
			if err := s.sales.ApplyDelta(ctx, tx, delta, false); err != nil {
				return err
			}
		}

		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// buildLines snapshots update lines from the catalog without touching stock.
func (s *service) buildLines(ctx context.Context, tx *gorm.DB, invoiceID uuid.UUID, items []ItemInput) ([]models.InvoiceItem, int, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.FoodID)
	}
	foods, err := s.catalogRepo.WithTx(tx).LookupBatch(ctx, ids)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup foods")
	}

	total := 0
	lines := make([]models.InvoiceItem, 0, len(items))
	for _, item := range items {
		food, ok := foods[item.FoodID]
		if !ok {
			return nil, 0, pkgerrors.New(pkgerrors.CodeNotFound, "food not found").
				WithDetails(map[string]any{"food_id": item.FoodID})
		}
		foodID := food.ID
		subtotal := item.Quantity * item.Price
		total += subtotal
		lines = append(lines, models.InvoiceItem{
			ID:        uuid.New(),
			InvoiceID: invoiceID,
			FoodID:    &foodID,
			FoodName:  food.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  subtotal,
		})
	}
	return lines, total, nil
}

// UpdateStatus sets the lifecycle status, then re-reads the row and fails with
// a retryable error when the write did not stick.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InvoiceStatus) (*models.Invoice, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", status))
	}

	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}

	s.applyStatus(invoice, status)
	if err := s.repo.Save(ctx, invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save invoice status")
	}

	reloaded, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload invoice")
	}
	if reloaded.Status != status {
		return nil, pkgerrors.New(pkgerrors.CodeVerification,
			fmt.Sprintf("invoice status is %q after writing %q", reloaded.Status, status))
	}
	return reloaded, nil
}

func (s *service) applyStatus(invoice *models.Invoice, status enums.InvoiceStatus) {
	if invoice.Status == status {
		return
	}
	now := s.now()
	invoice.Status = status
	switch status {
	case enums.InvoiceStatusProcessing:
		invoice.ProcessedAt = &now
	case enums.InvoiceStatusDone:
		invoice.CompletedAt = &now
	}
}

// Delete removes the invoice and its lines, backing the amount out of the
// sales totals in the same transaction.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		invoice, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
		}

		if err := s.sales.ApplyDelta(ctx, tx, -invoice.TotalAmount, false); err != nil {
			return err
		}
		if err := repo.DeleteItemsByInvoice(ctx, invoice.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete invoice items")
		}
		deleted, err := repo.Delete(ctx, invoice.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete invoice")
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil
	})
}

// List returns all invoices, newest first.
func (s *service) List(ctx context.Context) ([]models.Invoice, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices")
	}
	return rows, nil
}

// Get loads a single invoice with items.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	return invoice, nil
}

// ListByCustomer returns a customer's order history by phone number.
func (s *service) ListByCustomer(ctx context.Context, phone string) ([]models.Invoice, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	rows, err := s.repo.ListByCustomer(ctx, phone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer invoices")
	}
	return rows, nil
}

func validateCustomer(name, phone string) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer_name is required")
	}
	if strings.TrimSpace(phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer_phone is required")
	}
	return nil
}

func insufficientStock(name string, available, requested int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for %s", name)).
		WithDetails(map[string]any{
			"food":      name,
			"available": available,
			"requested": requested,
		})
}
