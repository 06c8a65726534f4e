package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/umkmdelicious/backend/pkg/db/models"
	"github.com/umkmdelicious/backend/pkg/enums"
)

// ListFilters narrows catalog listings.
type ListFilters struct {
	Category *enums.FoodCategory
	IsActive *bool
	Query    string
}

// Repository wires together food persistence helpers.
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

// Create inserts a new food row.
func (r *Repository) Create(ctx context.Context, food *models.Food) (*models.Food, error) {
	if err := r.db.WithContext(ctx).Create(food).Error; err != nil {
		return nil, err
	}
	return food, nil
}

// Update saves an existing food row.
func (r *Repository) Update(ctx context.Context, food *models.Food) (*models.Food, error) {
	if err := r.db.WithContext(ctx).Save(food).Error; err != nil {
		return nil, err
	}
	return food, nil
}

// Delete removes a food by ID and reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Food{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindByID loads a single food row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	var food models.Food
	if err := r.db.WithContext(ctx).First(&food, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

// List returns foods matching the filters, newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.Food, error) {
	qb := r.db.WithContext(ctx).Model(&models.Food{})

	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if filters.IsActive != nil {
		qb = qb.Where("is_active = ?", *filters.IsActive)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?)", pattern, pattern)
	}

	var rows []models.Food
	err := qb.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// LookupBatch loads the requested foods keyed by ID. Missing IDs are absent
// from the result; the caller decides whether that is an error.
func (r *Repository) LookupBatch(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Food, error) {
	result := make(map[uuid.UUID]models.Food, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []models.Food
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}

// DecrementStock subtracts qty from the food's stock in a single conditional
// statement and reports whether the decrement applied. The guard keeps stock
// non-negative under concurrent orders.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Food{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountActive returns the number of menu items currently on sale, used by
// dashboard stats. Deactivated drafts are not counted.
func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Food{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
