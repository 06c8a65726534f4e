package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/umkmdelicious/backend/pkg/enums"
	pkgerrors "github.com/umkmdelicious/backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(newTestDB(t)))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateFoodValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateFoodInput
	}{
		{"empty name", CreateFoodInput{Name: "  ", Price: 100, Category: enums.FoodCategoryNasi}},
		{"negative price", CreateFoodInput{Name: "Nasi", Price: -1, Category: enums.FoodCategoryNasi}},
		{"negative stock", CreateFoodInput{Name: "Nasi", Price: 100, Category: enums.FoodCategoryNasi, StockQuantity: -5}},
		{"bad category", CreateFoodInput{Name: "Nasi", Price: 100, Category: "sushi"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateFood(ctx, tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateAndGetFood(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	desc := "Paha bawah, sambal korek"
	created, err := svc.CreateFood(ctx, CreateFoodInput{
		Name:          "Ayam Goreng Sambal",
		Description:   &desc,
		Price:         20000,
		Category:      enums.FoodCategoryAyamGoreng,
		StockQuantity: 25,
		Ingredients:   []string{"ayam", "sambal", "bawang"},
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("create food: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected assigned id")
	}

	loaded, err := svc.GetFood(ctx, created.ID)
	if err != nil {
		t.Fatalf("get food: %v", err)
	}
	if loaded.Name != "Ayam Goreng Sambal" || loaded.Price != 20000 {
		t.Fatalf("unexpected food: %+v", loaded)
	}
	if len(loaded.Ingredients) != 3 {
		t.Fatalf("expected 3 ingredients, got %v", loaded.Ingredients)
	}
}

func TestCreateFoodKeepsInactiveFlag(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateFood(ctx, CreateFoodInput{
		Name:          "Paket Hemat Draft",
		Price:         25000,
		Category:      enums.FoodCategoryPaket,
		StockQuantity: 10,
		IsActive:      false,
	})
	if err != nil {
		t.Fatalf("create food: %v", err)
	}

	reloaded, err := svc.GetFood(ctx, created.ID)
	if err != nil {
		t.Fatalf("get food: %v", err)
	}
	if reloaded.IsActive {
		t.Fatal("expected food created as inactive to stay inactive")
	}
}

func TestUpdateFoodPartial(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateFood(ctx, CreateFoodInput{
		Name:          "Es Jeruk",
		Price:         8000,
		Category:      enums.FoodCategoryMinuman,
		StockQuantity: 40,
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("create food: %v", err)
	}

	newPrice := 9000
	inactive := false
	updated, err := svc.UpdateFood(ctx, created.ID, UpdateFoodInput{
		Price:    &newPrice,
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("update food: %v", err)
	}
	if updated.Price != 9000 || updated.IsActive {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.Name != "Es Jeruk" {
		t.Fatalf("untouched field changed: %+v", updated)
	}
}

func TestUpdateFoodNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	name := "Ghost"
	_, err := svc.UpdateFood(context.Background(), uuid.New(), UpdateFoodInput{Name: &name})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteFoodNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	err := svc.DeleteFood(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
