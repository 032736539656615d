package enums

import (
	"fmt"
	"strings"
)

// ProductCategory groups shelf products; Groceries are picked from a list at
// the till while everything else is scanned by barcode.
type ProductCategory string

const (
	ProductCategoryFood        ProductCategory = "Food"
	ProductCategoryElectronics ProductCategory = "Electronics"
	ProductCategoryClothing    ProductCategory = "Clothing"
	ProductCategoryStationery  ProductCategory = "Stationery"
	ProductCategoryGroceries   ProductCategory = "Groceries"
	ProductCategoryToiletries  ProductCategory = "Toiletries"
)

var validProductCategories = []ProductCategory{
	ProductCategoryFood,
	ProductCategoryElectronics,
	ProductCategoryClothing,
	ProductCategoryStationery,
	ProductCategoryGroceries,
	ProductCategoryToiletries,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory. Matching is
// case-insensitive.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductUnit is the stock-keeping unit of a product.
type ProductUnit string

const (
	ProductUnitPiece ProductUnit = "pcs"
	ProductUnitKg    ProductUnit = "kg"
	ProductUnitGram  ProductUnit = "gm"
	ProductUnitLiter ProductUnit = "liter"
	ProductUnitMl    ProductUnit = "ml"
	ProductUnitPack  ProductUnit = "pack"
	ProductUnitBox   ProductUnit = "box"
	ProductUnitCup   ProductUnit = "cup"
)

var validProductUnits = []ProductUnit{
	ProductUnitPiece,
	ProductUnitKg,
	ProductUnitGram,
	ProductUnitLiter,
	ProductUnitMl,
	ProductUnitPack,
	ProductUnitBox,
	ProductUnitCup,
}

// String implements fmt.Stringer.
func (u ProductUnit) String() string {
	return string(u)
}

// IsValid reports whether the value matches a known ProductUnit.
func (u ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// IsFractional reports whether the unit is sold by weight or volume.
func (u ProductUnit) IsFractional() bool {
	switch u {
	case ProductUnitKg, ProductUnitGram, ProductUnitLiter, ProductUnitMl:
		return true
	default:
		return false
	}
}

// Kind is "weight" or "piece"; used as a metrics label.
func (u ProductUnit) Kind() string {
	if u.IsFractional() {
		return "weight"
	}
	return "piece"
}

// ParseProductUnit converts raw input into a ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
