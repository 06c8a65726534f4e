package controllers

import (
	"net/http"
	"strings"

	"github.com/umkmdelicious/backend/api/responses"
	"github.com/umkmdelicious/backend/api/validators"
	catalogsvc "github.com/umkmdelicious/backend/internal/catalog"
	"github.com/umkmdelicious/backend/pkg/enums"
	pkgerrors "github.com/umkmdelicious/backend/pkg/errors"
	"github.com/umkmdelicious/backend/pkg/logger"
)

// ListFoods serves the public menu. Category, active flag and free-text search
// come from query parameters.
func ListFoods(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := foodFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		foods, err := svc.ListFoods(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, foods)
	}
}

func GetFood(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		food, err := svc.GetFood(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, food)
	}
}

type createFoodRequest struct {
	Name          string   `json:"name" validate:"required"`
	Description   *string  `json:"description,omitempty"`
	Price         int      `json:"price" validate:"min=0"`
	Category      string   `json:"category" validate:"required"`
	ImageURL      *string  `json:"image_url,omitempty"`
	StockQuantity int      `json:"stock_quantity" validate:"min=0"`
	Ingredients   []string `json:"ingredients,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

func (req createFoodRequest) toInput() (catalogsvc.CreateFoodInput, error) {
	category, err := enums.ParseFoodCategory(strings.TrimSpace(req.Category))
	if err != nil {
		return catalogsvc.CreateFoodInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return catalogsvc.CreateFoodInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      category,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		Ingredients:   req.Ingredients,
		IsActive:      isActive,
	}, nil
}

func AdminCreateFood(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createFoodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		food, err := svc.CreateFood(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "food created", food)
	}
}

type updateFoodRequest struct {
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Price         *int      `json:"price,omitempty" validate:"omitempty,min=0"`
	Category      *string   `json:"category,omitempty"`
	ImageURL      *string   `json:"image_url,omitempty"`
	StockQuantity *int      `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
	Ingredients   *[]string `json:"ingredients,omitempty"`
	IsActive      *bool     `json:"is_active,omitempty"`
}

func (req updateFoodRequest) toInput() (catalogsvc.UpdateFoodInput, error) {
	input := catalogsvc.UpdateFoodInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		Ingredients:   req.Ingredients,
		IsActive:      req.IsActive,
	}
	if req.Category != nil {
		category, err := enums.ParseFoodCategory(strings.TrimSpace(*req.Category))
		if err != nil {
			return catalogsvc.UpdateFoodInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}
	return input, nil
}

func AdminUpdateFood(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateFoodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		food, err := svc.UpdateFood(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "food updated", food)
	}
}

func AdminDeleteFood(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteFood(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "food deleted", nil)
	}
}

func foodFiltersFromQuery(r *http.Request) (catalogsvc.ListFilters, error) {
	filters := catalogsvc.ListFilters{
		Query: strings.TrimSpace(r.URL.Query().Get("search")),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, err := enums.ParseFoodCategory(raw)
		if err != nil {
			return catalogsvc.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		filters.Category = &category
	}

	isActive, err := validators.ParseQueryBool(r, "is_active")
	if err != nil {
		return catalogsvc.ListFilters{}, err
	}
	filters.IsActive = isActive

	return filters, nil
}
