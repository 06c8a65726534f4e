package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/umkmdelicious/backend/pkg/enums"
)

// Both test fixtures and dev tooling auto-migrate these structs against
// sqlite, so every tag has to stay portable across dialects.
func TestModelsAutoMigrateOnSQLite(t *testing.T) {
	t.Parallel()

	dsn := "file:models_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Food{}, &Invoice{}, &InvoiceItem{}, &Sale{}, &User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	food := &Food{
		ID:            uuid.New(),
		Name:          "Ayam Goreng Original",
		Price:         18000,
		Category:      enums.FoodCategoryAyamGoreng,
		StockQuantity: 50,
		IsActive:      true,
	}
	if err := db.Create(food).Error; err != nil {
		t.Fatalf("create food: %v", err)
	}

	invoice := &Invoice{
		ID:            uuid.New(),
		InvoiceNumber: "ORD-20250810-0001",
		CustomerName:  "Sari",
		CustomerPhone: "081200000001",
		TotalAmount:   36000,
		Status:        enums.InvoiceStatusWaiting,
	}
	if err := db.Create(invoice).Error; err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	item := &InvoiceItem{
		ID:        uuid.New(),
		InvoiceID: invoice.ID,
		FoodID:    &food.ID,
		FoodName:  food.Name,
		Quantity:  2,
		Price:     18000,
		Subtotal:  36000,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create invoice item: %v", err)
	}

	if err := db.Create(&Sale{ID: uuid.New()}).Error; err != nil {
		t.Fatalf("create sale: %v", err)
	}

	user := &User{
		ID:           uuid.New(),
		Name:         "Admin",
		Email:        "admin@warung.id",
		PasswordHash: "x",
		IsAdmin:      true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
}
