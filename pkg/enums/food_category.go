package enums

import "fmt"

// FoodCategory groups menu items on the storefront.
type FoodCategory string

const (
	FoodCategoryAyamGoreng FoodCategory = "ayam_goreng"
	FoodCategoryAyamBakar  FoodCategory = "ayam_bakar"
	FoodCategoryNasi       FoodCategory = "nasi"
	FoodCategoryMinuman    FoodCategory = "minuman"
	FoodCategorySnack      FoodCategory = "snack"
	FoodCategoryPaket      FoodCategory = "paket"
)

var validFoodCategories = []FoodCategory{
	FoodCategoryAyamGoreng,
	FoodCategoryAyamBakar,
	FoodCategoryNasi,
	FoodCategoryMinuman,
	FoodCategorySnack,
	FoodCategoryPaket,
}

// String implements fmt.Stringer.
func (c FoodCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known FoodCategory.
func (c FoodCategory) IsValid() bool {
	for _, candidate := range validFoodCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseFoodCategory converts raw input into a FoodCategory.
func ParseFoodCategory(value string) (FoodCategory, error) {
	for _, candidate := range validFoodCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid food category %q", value)
}
