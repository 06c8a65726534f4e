package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the running-totals singleton. First-row semantics: the sales
// service creates it lazily on the first mutation and never deletes it.
type Sale struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TotalSales        int64           `gorm:"column:total_sales;not null;default:0" json:"total_sales"`
	DailySales        int64           `gorm:"column:daily_sales;not null;default:0" json:"daily_sales"`
	MonthlySales      int64           `gorm:"column:monthly_sales;not null;default:0" json:"monthly_sales"`
	YearlySales       int64           `gorm:"column:yearly_sales;not null;default:0" json:"yearly_sales"`
	TotalOrders       int64           `gorm:"column:total_orders;not null;default:0" json:"total_orders"`
	AverageOrderValue decimal.Decimal `gorm:"column:average_order_value;type:numeric(14,2);not null;default:0" json:"average_order_value"`
	LastUpdated       time.Time       `gorm:"column:last_updated;autoUpdateTime" json:"last_updated"`
}
