// Package pricing validates requested quantities and settles tender.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/cart"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
)

// Settlement is the outcome of applying a tender to a total.
type Settlement struct {
	Method   enums.PaymentMethod
	Total    decimal.Decimal
	Received decimal.Decimal
	Change   decimal.Decimal
}

// ValidateLine checks a requested quantity against the product's stock.
func ValidateLine(product models.Product, requested decimal.Decimal) error {
	if !requested.IsPositive() {
		return cart.InvalidQuantity(requested)
	}
	if requested.GreaterThan(product.StockQuantity) {
		return cart.InsufficientStock(product.ID, requested, product.StockQuantity)
	}
	return nil
}

// CartTotal sums quantity times unit price over lines.
func CartTotal(lines []cart.Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Total())
	}
	return total
}

// SettlePayment applies the tender. Cash must cover the total and returns the
// change; every other method is taken as exact payment.
func SettlePayment(method enums.PaymentMethod, total, received decimal.Decimal) (Settlement, error) {
	if !method.IsValid() {
		return Settlement{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]string{"payment_method": method.String()})
	}
	if !method.TakesChange() {
		return Settlement{Method: method, Total: total, Received: total, Change: decimal.Zero}, nil
	}
	if received.LessThan(total) {
		return Settlement{}, pkgerrors.New(pkgerrors.CodeInsufficientPayment, "cash received is less than the total").
			WithDetails(map[string]any{
				"total":    total.StringFixed(2),
				"received": received.StringFixed(2),
			})
	}
	return Settlement{
		Method:   method,
		Total:    total,
		Received: received,
		Change:   received.Sub(total),
	}, nil
}
