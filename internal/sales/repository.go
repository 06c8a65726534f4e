package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/umkmdelicious/backend/pkg/db/models"
)

// Repository persists the running sales totals. The table holds a single row
// created lazily on first use.
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

// FetchOrCreate returns the singleton row, creating it when absent.
func (r *Repository) FetchOrCreate(ctx context.Context) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).Order("last_updated ASC").First(&sale).Error
	if err == nil {
		return &sale, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sale = models.Sale{ID: uuid.New()}
	if err := r.db.WithContext(ctx).Create(&sale).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// ApplyDelta adjusts the running totals in one atomic UPDATE. Every expression
// reads the pre-update column values, so the average stays consistent with the
// incremented totals even under concurrent writers.
func (r *Repository) ApplyDelta(ctx context.Context, id uuid.UUID, amount int, isNewOrder bool) error {
	orderInc := 0
	if isNewOrder {
		orderInc = 1
	}

	updates := map[string]any{
		"total_sales":   gorm.Expr("total_sales + ?", amount),
		"daily_sales":   gorm.Expr("daily_sales + ?", amount),
		"monthly_sales": gorm.Expr("monthly_sales + ?", amount),
		"yearly_sales":  gorm.Expr("yearly_sales + ?", amount),
		"total_orders":  gorm.Expr("total_orders + ?", orderInc),
		"average_order_value": gorm.Expr(
			"CASE WHEN total_orders + ? > 0 THEN ROUND((total_sales + ?) * 1.0 / (total_orders + ?), 2) ELSE 0 END",
			orderInc, amount, orderInc,
		),
		"last_updated": time.Now(),
	}

	return r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

// ResetColumns zeroes the named sales counters.
func (r *Repository) ResetColumns(ctx context.Context, id uuid.UUID, columns ...string) error {
	updates := map[string]any{"last_updated": time.Now()}
	for _, column := range columns {
		updates[column] = 0
	}
	return r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}
