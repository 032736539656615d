package cart

import (
	"github.com/shopspring/decimal"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
)

var thousand = decimal.NewFromInt(1000)

// NormalizeQuantity converts operator input into the product's stock-keeping
// unit. Weight and volume units are entered in grams or millilitres and stored
// in thousands; piece units are whole counts.
func NormalizeQuantity(unit enums.ProductUnit, raw decimal.Decimal) (decimal.Decimal, error) {
	if !raw.IsPositive() {
		return decimal.Zero, InvalidQuantity(raw)
	}
	if unit.IsFractional() {
		return raw.Div(thousand), nil
	}
	if !raw.IsInteger() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "piece units take whole numbers").
			WithDetails(map[string]any{"unit": unit.String(), "quantity": raw.String()})
	}
	return raw, nil
}

// InvalidQuantity reports a non-positive or malformed quantity.
func InvalidQuantity(qty decimal.Decimal) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be greater than zero").
		WithDetails(map[string]any{"quantity": qty.String()})
}

// InsufficientStock reports a request above what is on the shelf.
func InsufficientStock(productID int64, requested, available decimal.Decimal) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "requested quantity exceeds stock").
		WithDetails(map[string]any{
			"product_id": productID,
			"requested":  requested.String(),
			"available":  available.String(),
		})
}
