package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/umkmdelicious/backend/pkg/enums"
)

// Invoice is the order header created for each customer purchase.
type Invoice struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	InvoiceNumber string              `gorm:"column:invoice_number;not null" json:"invoice_number"`
	CustomerName  string              `gorm:"column:customer_name;not null" json:"customer_name"`
	CustomerPhone string              `gorm:"column:customer_phone;not null" json:"customer_phone"`
	TotalAmount   int                 `gorm:"column:total_amount;not null" json:"total_amount"`
	Status        enums.InvoiceStatus `gorm:"column:status;not null;default:'waiting'" json:"status"`
	ProcessedAt   *time.Time          `gorm:"column:processed_at" json:"processed_at,omitempty"`
	CompletedAt   *time.Time          `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Items         []InvoiceItem       `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
