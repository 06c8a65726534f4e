package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/umkmdelicious/backend/pkg/db/models"
	"github.com/umkmdelicious/backend/pkg/enums"
	pkgerrors "github.com/umkmdelicious/backend/pkg/errors"
)

// Service exposes menu management operations.
type Service interface {
	CreateFood(ctx context.Context, input CreateFoodInput) (*models.Food, error)
	UpdateFood(ctx context.Context, id uuid.UUID, input UpdateFoodInput) (*models.Food, error)
	DeleteFood(ctx context.Context, id uuid.UUID) error
	GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error)
	ListFoods(ctx context.Context, filters ListFilters) ([]models.Food, error)
}

// CreateFoodInput holds the validated payload to create a menu item.
type CreateFoodInput struct {
	Name          string
	Description   *string
	Price         int
	Category      enums.FoodCategory
	ImageURL      *string
	StockQuantity int
	Ingredients   []string
	IsActive      bool
}

// UpdateFoodInput holds optional mutation values for a menu item.
type UpdateFoodInput struct {
	Name          *string
	Description   *string
	Price         *int
	Category      *enums.FoodCategory
	ImageURL      *string
	StockQuantity *int
	Ingredients   *[]string
	IsActive      *bool
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// CreateFood validates and persists a new menu item.
func (s *service) CreateFood(ctx context.Context, input CreateFoodInput) (*models.Food, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity cannot be negative")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid category %q", input.Category))
	}

	food := &models.Food{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Price:         input.Price,
		Category:      input.Category,
		ImageURL:      input.ImageURL,
		StockQuantity: input.StockQuantity,
		Ingredients:   pq.StringArray(input.Ingredients),
		IsActive:      input.IsActive,
	}
	if food.Ingredients == nil {
		food.Ingredients = pq.StringArray{}
	}

	created, err := s.repo.Create(ctx, food)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert food")
	}
	return created, nil
}

// UpdateFood applies a partial update to an existing menu item.
func (s *service) UpdateFood(ctx context.Context, id uuid.UUID, input UpdateFoodInput) (*models.Food, error) {
	food, err := s.loadFood(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		food.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		food.Description = input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		food.Price = *input.Price
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid category %q", *input.Category))
		}
		food.Category = *input.Category
	}
	if input.ImageURL != nil {
		food.ImageURL = input.ImageURL
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity cannot be negative")
		}
		food.StockQuantity = *input.StockQuantity
	}
	if input.Ingredients != nil {
		food.Ingredients = pq.StringArray(*input.Ingredients)
	}
	if input.IsActive != nil {
		food.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, food)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update food")
	}
	return updated, nil
}

// DeleteFood removes a menu item.
func (s *service) DeleteFood(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete food")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "food not found")
	}
	return nil
}

// GetFood loads a single menu item.
func (s *service) GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	return s.loadFood(ctx, id)
}

// ListFoods returns menu items matching the filters.
func (s *service) ListFoods(ctx context.Context, filters ListFilters) ([]models.Food, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list foods")
	}
	return rows, nil
}

func (s *service) loadFood(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	food, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "food not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food")
	}
	return food, nil
}
