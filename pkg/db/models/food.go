package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/umkmdelicious/backend/pkg/enums"
)

// Food represents a sellable menu item.
type Food struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name          string             `gorm:"column:name;not null" json:"name"`
	Description   *string            `gorm:"column:description" json:"description,omitempty"`
	Price         int                `gorm:"column:price;not null" json:"price"`
	Category      enums.FoodCategory `gorm:"column:category;not null" json:"category"`
	ImageURL      *string            `gorm:"column:image_url" json:"image_url,omitempty"`
	StockQuantity int                `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	Ingredients   pq.StringArray     `gorm:"column:ingredients;type:text[]" json:"ingredients,omitempty"`
	// No gorm default here: a default makes gorm skip the zero value on
	// insert, silently turning is_active=false into true.
	IsActive      bool               `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
