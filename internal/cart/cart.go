// Package cart holds the in-memory line items of the transaction in progress.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
)

// Line is one product in the cart. Name, unit and price are captured when the
// product is first added and are not re-read from the catalog.
type Line struct {
	ProductID int64
	Name      string
	Unit      enums.ProductUnit
	UnitPrice decimal.Decimal
	Quantity  decimal.Decimal
}

// Total is quantity times unit price, unrounded.
func (l Line) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Cart keeps at most one line per product id, in insertion order. A Cart is
// not safe for concurrent use; the checkout session serializes access.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddOrMerge adds quantity of product, merging into an existing line. The
// merged quantity must fit the product's current stock; on failure the cart
// is left untouched.
func (c *Cart) AddOrMerge(product models.Product, quantity decimal.Decimal) (Line, error) {
	if !quantity.IsPositive() {
		return Line{}, InvalidQuantity(quantity)
	}

	idx := c.indexOf(product.ID)
	requested := quantity
	if idx >= 0 {
		requested = c.lines[idx].Quantity.Add(quantity)
	}
	if requested.GreaterThan(product.StockQuantity) {
		return Line{}, InsufficientStock(product.ID, requested, product.StockQuantity)
	}

	if idx >= 0 {
		c.lines[idx].Quantity = requested
		return c.lines[idx], nil
	}

	line := Line{
		ProductID: product.ID,
		Name:      product.Name,
		Unit:      product.Unit,
		UnitPrice: product.SellingPrice,
		Quantity:  quantity,
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// UpdateLine overrides a line's quantity and unit price. A quantity of zero or
// less removes the line; ok is false in that case.
func (c *Cart) UpdateLine(productID int64, quantity, unitPrice decimal.Decimal) (line Line, ok bool, err error) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return Line{}, false, lineNotFound(productID)
	}
	if !quantity.IsPositive() {
		c.removeAt(idx)
		return Line{}, false, nil
	}
	if unitPrice.IsNegative() {
		return Line{}, false, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "unit price must not be negative").
			WithDetails(map[string]any{"product_id": productID, "unit_price": unitPrice.String()})
	}

	c.lines[idx].Quantity = quantity
	c.lines[idx].UnitPrice = unitPrice
	return c.lines[idx], true, nil
}

// RemoveLine drops the product's line. It reports whether a line was removed.
func (c *Cart) RemoveLine(productID int64) bool {
	idx := c.indexOf(productID)
	if idx < 0 {
		return false
	}
	c.removeAt(idx)
	return true
}

// Line returns the line for productID, if present.
func (c *Cart) Line(productID int64) (Line, bool) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return Line{}, false
	}
	return c.lines[idx], true
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total sums the line totals, recomputed on every call.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Total())
	}
	return total
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) indexOf(productID int64) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
}

func lineNotFound(productID int64) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeProductNotFound, "product is not in the cart").
		WithDetails(map[string]any{"product_id": productID})
}
