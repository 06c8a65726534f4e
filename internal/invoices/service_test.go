package invoices

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/umkmdelicious/backend/internal/catalog"
	"github.com/umkmdelicious/backend/internal/sales"
	"github.com/umkmdelicious/backend/pkg/db"
	"github.com/umkmdelicious/backend/pkg/db/models"
	"github.com/umkmdelicious/backend/pkg/enums"
	pkgerrors "github.com/umkmdelicious/backend/pkg/errors"
)

type testEnv struct {
	conn  *gorm.DB
	svc   Service
	sales sales.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:invoices_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Food{}, &models.Invoice{}, &models.InvoiceItem{}, &models.Sale{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	client := db.NewFromConn(conn)
	salesSvc, err := sales.NewService(sales.NewRepository(conn), client)
	if err != nil {
		t.Fatalf("sales service: %v", err)
	}
	svc, err := NewService(NewRepository(conn), catalog.NewRepository(conn), salesSvc, client)
	if err != nil {
		t.Fatalf("invoice service: %v", err)
	}
	return &testEnv{conn: conn, svc: svc, sales: salesSvc}
}

func (e *testEnv) seedFood(t *testing.T, name string, price, stock int) *models.Food {
	t.Helper()
	food := &models.Food{
		ID:            uuid.New(),
		Name:          name,
		Price:         price,
		Category:      enums.FoodCategoryAyamGoreng,
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := e.conn.Create(food).Error; err != nil {
		t.Fatalf("seed food %s: %v", name, err)
	}
	return food
}

func (e *testEnv) foodStock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var food models.Food
	if err := e.conn.First(&food, "id = ?", id).Error; err != nil {
		t.Fatalf("reload food: %v", err)
	}
	return food.StockQuantity
}

func (e *testEnv) salesRow(t *testing.T) *models.Sale {
	t.Helper()
	var sale models.Sale
	if err := e.conn.First(&sale).Error; err != nil {
		t.Fatalf("load sales row: %v", err)
	}
	return &sale
}

func TestCreateOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	ayam := env.seedFood(t, "Ayam Goreng Original", 18000, 100)
	nasi := env.seedFood(t, "Nasi Putih", 5000, 30)

	invoice, err := env.svc.Create(ctx, CreateInput{
		CustomerName:  "Budi",
		CustomerPhone: "081234567890",
		Items: []ItemInput{
			{FoodID: ayam.ID, Quantity: 2, Price: 18000},
			{FoodID: nasi.ID, Quantity: 2, Price: 5000},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if invoice.TotalAmount != 46000 {
		t.Fatalf("expected total 46000, got %d", invoice.TotalAmount)
	}
	if invoice.Status != enums.InvoiceStatusWaiting {
		t.Fatalf("expected waiting status, got %s", invoice.Status)
	}
	if len(invoice.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(invoice.Items))
	}
	if invoice.Items[0].FoodName != "Ayam Goreng Original" || invoice.Items[0].Subtotal != 36000 {
		t.Fatalf("unexpected snapshot line: %+v", invoice.Items[0])
	}

	if got := env.foodStock(t, ayam.ID); got != 98 {
		t.Fatalf("expected ayam stock 98, got %d", got)
	}
	if got := env.foodStock(t, nasi.ID); got != 28 {
		t.Fatalf("expected nasi stock 28, got %d", got)
	}

	sale := env.salesRow(t)
	if sale.TotalSales != 46000 || sale.TotalOrders != 1 {
		t.Fatalf("unexpected sales totals: %+v", sale)
	}
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	ayam := env.seedFood(t, "Ayam Goreng Original", 18000, 100)
	sambal := env.seedFood(t, "Sambal Terasi", 3000, 1)

	_, err := env.svc.Create(ctx, CreateInput{
		CustomerName:  "Siti",
		CustomerPhone: "081200000001",
		Items: []ItemInput{
			{FoodID: ayam.ID, Quantity: 5, Price: 18000},
			{FoodID: sambal.ID, Quantity: 3, Price: 3000},
		},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %#v", typed.Details())
	}
	if details["food"] != "Sambal Terasi" || details["available"] != 1 || details["requested"] != 3 {
		t.Fatalf("unexpected details: %#v", details)
	}

	// Nothing from the aborted order may persist.
	var invoiceCount, itemCount int64
	if err := env.conn.Model(&models.Invoice{}).Count(&invoiceCount).Error; err != nil {
		t.Fatalf("count invoices: %v", err)
	}
	if err := env.conn.Model(&models.InvoiceItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if invoiceCount != 0 || itemCount != 0 {
		t.Fatalf("expected rollback, found %d invoices and %d items", invoiceCount, itemCount)
	}
	if got := env.foodStock(t, ayam.ID); got != 100 {
		t.Fatalf("ayam stock must be untouched, got %d", got)
	}
}

func TestCreateOrderUnknownFood(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.svc.Create(context.Background(), CreateInput{
		CustomerName:  "Budi",
		CustomerPhone: "081234567890",
		Items:         []ItemInput{{FoodID: uuid.New(), Quantity: 1, Price: 1000}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateSingleItemUsesCatalogPrice(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	paket := env.seedFood(t, "Paket Hemat 1", 25000, 10)

	invoice, err := env.svc.CreateSingleItem(ctx, SingleItemInput{
		CustomerName:  "Andi",
		CustomerPhone: "081200000002",
		FoodID:        paket.ID,
		Quantity:      3,
	})
	if err != nil {
		t.Fatalf("create single item order: %v", err)
	}
	if invoice.TotalAmount != 75000 {
		t.Fatalf("expected catalog-priced total 75000, got %d", invoice.TotalAmount)
	}
	if len(invoice.Items) != 1 || invoice.Items[0].Price != 25000 {
		t.Fatalf("unexpected line: %+v", invoice.Items)
	}
	if got := env.foodStock(t, paket.ID); got != 7 {
		t.Fatalf("expected stock 7, got %d", got)
	}

	_, err = env.svc.CreateSingleItem(ctx, SingleItemInput{
		CustomerName:  "Andi",
		CustomerPhone: "081200000002",
		FoodID:        uuid.New(),
		Quantity:      1,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown food, got %v", err)
	}
}

func TestUpdateReplacesLinesWithoutTouchingStock(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	ayam := env.seedFood(t, "Ayam Goreng Original", 18000, 100)
	teh := env.seedFood(t, "Es Teh Manis", 5000, 50)

	invoice, err := env.svc.Create(ctx, CreateInput{
		CustomerName:  "Budi",
		CustomerPhone: "081234567890",
		Items:         []ItemInput{{FoodID: ayam.ID, Quantity: 2, Price: 18000}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	newItems := []ItemInput{
		{FoodID: ayam.ID, Quantity: 1, Price: 18000},
		{FoodID: teh.ID, Quantity: 2, Price: 5000},
	}
	newName := "Budi Santoso"
	updated, err := env.svc.Update(ctx, invoice.ID, UpdateInput{
		CustomerName: &newName,
		Items:        &newItems,
	})
	if err != nil {
		t.Fatalf("update invoice: %v", err)
	}
	if updated.CustomerName != "Budi Santoso" {
		t.Fatalf("name not updated: %+v", updated)
	}
	if updated.TotalAmount != 28000 || len(updated.Items) != 2 {
		t.Fatalf("unexpected recomputed invoice: total=%d items=%d", updated.TotalAmount, len(updated.Items))
	}

	// Edits never re-adjust stock.
	if got := env.foodStock(t, ayam.ID); got != 98 {
		t.Fatalf("ayam stock changed on edit: %d", got)
	}
	if got := env.foodStock(t, teh.ID); got != 50 {
		t.Fatalf("teh stock changed on edit: %d", got)
	}

	// Sales move by the difference only, without a new order.
	sale := env.salesRow(t)
	if sale.TotalSales != 28000 || sale.TotalOrders != 1 {
		t.Fatalf("unexpected sales totals after edit: %+v", sale)
	}

	var itemCount int64
	if err := env.conn.Model(&models.InvoiceItem{}).Where("invoice_id = ?", invoice.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if itemCount != 2 {
		t.Fatalf("old lines must be replaced, found %d", itemCount)
	}
}

func TestUpdateStatusStampsTimestamps(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	ayam := env.seedFood(t, "Ayam Goreng Original", 18000, 10)

	invoice, err := env.svc.Create(ctx, CreateInput{
		CustomerName:  "Budi",
		CustomerPhone: "081234567890",
		Items:         []ItemInput{{FoodID: ayam.ID, Quantity: 1, Price: 18000}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	processing, err := env.svc.UpdateStatus(ctx, invoice.ID, enums.InvoiceStatusProcessing)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if processing.Status != enums.InvoiceStatusProcessing || processing.ProcessedAt == nil {
		t.Fatalf("expected stamped processing invoice: %+v", processing)
	}

	done, err := env.svc.UpdateStatus(ctx, invoice.ID, enums.InvoiceStatusDone)
	if err != nil {
		t.Fatalf("update status to done: %v", err)
	}
	if done.Status != enums.InvoiceStatusDone || done.CompletedAt == nil {
		t.Fatalf("expected stamped done invoice: %+v", done)
	}

	if _, err := env.svc.UpdateStatus(ctx, invoice.ID, "cancelled"); err == nil {
		t.Fatal("expected validation error for unknown status")
	}
	if _, err := env.svc.UpdateStatus(ctx, uuid.New(), enums.InvoiceStatusDone); err == nil {
		t.Fatal("expected not found for unknown invoice")
	} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteBacksOutSales(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	ayam := env.seedFood(t, "Ayam Goreng Original", 18000, 10)

	keep, err := env.svc.Create(ctx, CreateInput{
		CustomerName:  "Budi",
		CustomerPhone: "081234567890",
		Items:         []ItemInput{{FoodID: ayam.ID, Quantity: 1, Price: 18000}},
	})
	if err != nil {
		t.Fatalf("create first order: %v", err)
	}
	doomed, err := env.svc.Create(ctx, CreateInput{
		CustomerName:  "Siti",
		CustomerPhone: "081200000001",
		Items:         []ItemInput{{FoodID: ayam.ID, Quantity: 2, Price: 18000}},
	})
	if err != nil {
		t.Fatalf("create second order: %v", err)
	}

	if err := env.svc.Delete(ctx, doomed.ID); err != nil {
		t.Fatalf("delete invoice: %v", err)
	}

	if _, err := env.svc.Get(ctx, doomed.ID); err == nil {
		t.Fatal("expected deleted invoice to be gone")
	}
	var orphaned int64
	if err := env.conn.Model(&models.InvoiceItem{}).Where("invoice_id = ?", doomed.ID).Count(&orphaned).Error; err != nil {
		t.Fatalf("count orphaned items: %v", err)
	}
	if orphaned != 0 {
		t.Fatalf("expected items removed with invoice, found %d", orphaned)
	}

	sale := env.salesRow(t)
	if sale.TotalSales != int64(keep.TotalAmount) {
		t.Fatalf("expected totals back to %d, got %d", keep.TotalAmount, sale.TotalSales)
	}

	if err := env.svc.Delete(ctx, doomed.ID); err == nil {
		t.Fatal("expected not found on second delete")
	}
}

func TestDeleteAfterDailyResetDrivesWindowNegative(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	ayam := env.seedFood(t, "Ayam Goreng Original", 18000, 50)

	created, err := env.svc.Create(ctx, CreateInput{
		CustomerName:  "Sari",
		CustomerPhone: "081200000001",
		Items:         []ItemInput{{FoodID: ayam.ID, Quantity: 2, Price: 15000}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := env.sales.ResetDaily(ctx); err != nil {
		t.Fatalf("reset daily: %v", err)
	}

	// Yesterday's order is still deletable after its window was zeroed; the
	// reversal pushes the window counter below zero rather than failing.
	if err := env.svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete after reset: %v", err)
	}
	if _, err := env.svc.Get(ctx, created.ID); err == nil {
		t.Fatal("expected deleted invoice to be gone")
	}

	sale := env.salesRow(t)
	if sale.DailySales != -30000 {
		t.Fatalf("expected daily_sales -30000, got %d", sale.DailySales)
	}
	if sale.TotalSales != 0 {
		t.Fatalf("expected total_sales back to 0, got %d", sale.TotalSales)
	}
}

func TestListByCustomer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	ayam := env.seedFood(t, "Ayam Goreng Original", 18000, 50)

	for _, phone := range []string{"0811", "0811", "0822"} {
		if _, err := env.svc.Create(ctx, CreateInput{
			CustomerName:  "Pelanggan",
			CustomerPhone: phone,
			Items:         []ItemInput{{FoodID: ayam.ID, Quantity: 1, Price: 18000}},
		}); err != nil {
			t.Fatalf("create order for %s: %v", phone, err)
		}
	}

	history, err := env.svc.ListByCustomer(ctx, "0811")
	if err != nil {
		t.Fatalf("list by customer: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 orders for 0811, got %d", len(history))
	}

	if _, err := env.svc.ListByCustomer(ctx, "  "); err == nil {
		t.Fatal("expected validation error for blank phone")
	}
}
