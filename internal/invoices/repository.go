package invoices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/umkmdelicious/backend/pkg/db/models"
	"github.com/umkmdelicious/backend/pkg/enums"
)

// PopularItem aggregates ordered quantity per menu item for the dashboard.
type PopularItem struct {
	FoodName      string `json:"food_name"`
	TotalQuantity int64  `json:"total_quantity"`
}

// Repository wires together invoice persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateHeader inserts the invoice row without its items.
func (r *Repository) CreateHeader(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Omit("Items").Create(invoice).Error
}

// CreateItems inserts the snapshot lines.
func (r *Repository) CreateItems(ctx context.Context, items []models.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// Save persists header mutations.
func (r *Repository) Save(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Omit("Items").Save(invoice).Error
}

// DeleteItemsByInvoice removes every line belonging to the invoice.
func (r *Repository) DeleteItemsByInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&models.InvoiceItem{}).
		Error
}

// Delete removes the invoice header and reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Invoice{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindByID loads an invoice with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&invoice, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// List returns all invoices with items, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Invoice, error) {
	var rows []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListByCustomer returns a customer's invoices by phone number, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, phone string) ([]models.Invoice, error) {
	var rows []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_phone = ?", phone).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// CountByStatus returns invoice counts keyed by status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.InvoiceStatus]int64, error) {
	type statusCount struct {
		Status enums.InvoiceStatus
		Count  int64
	}
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.InvoiceStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Recent returns the latest invoices with items.
func (r *Repository) Recent(ctx context.Context, limit int) ([]models.Invoice, error) {
	var rows []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// PopularItems returns the most ordered menu items by total quantity.
func (r *Repository) PopularItems(ctx context.Context, limit int) ([]PopularItem, error) {
	var rows []PopularItem
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceItem{}).
		Select("food_name, SUM(quantity) AS total_quantity").
		Group("food_name").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rows).
		Error
	return rows, err
}

// AdvanceWaiting moves invoices stuck in waiting past the threshold into
// processing, stamping processed_at. Returns the number of rows moved.
func (r *Repository) AdvanceWaiting(ctx context.Context, olderThan time.Time, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("status = ? AND created_at <= ?", enums.InvoiceStatusWaiting, olderThan).
		Updates(map[string]any{
			"status":       enums.InvoiceStatusProcessing,
			"processed_at": now,
			"updated_at":   now,
		})
	return res.RowsAffected, res.Error
}

// AdvanceProcessing moves invoices processed before the threshold into done,
// stamping completed_at. Returns the number of rows moved.
func (r *Repository) AdvanceProcessing(ctx context.Context, olderThan time.Time, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("status = ? AND processed_at IS NOT NULL AND processed_at <= ?", enums.InvoiceStatusProcessing, olderThan).
		Updates(map[string]any{
			"status":       enums.InvoiceStatusDone,
			"completed_at": now,
			"updated_at":   now,
		})
	return res.RowsAffected, res.Error
}
