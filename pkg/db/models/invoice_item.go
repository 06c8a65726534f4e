package models

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceItem snapshots one menu item inside an invoice. Name and price are
// copied at order time so later catalog edits never rewrite history.
type InvoiceItem struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	InvoiceID uuid.UUID  `gorm:"column:invoice_id;type:uuid;not null" json:"invoice_id"`
	FoodID    *uuid.UUID `gorm:"column:food_id;type:uuid" json:"food_id,omitempty"`
	FoodName  string     `gorm:"column:food_name;not null" json:"food_name"`
	Quantity  int        `gorm:"column:quantity;not null" json:"quantity"`
	Price     int        `gorm:"column:price;not null" json:"price"`
	Subtotal  int        `gorm:"column:subtotal;not null" json:"subtotal"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
