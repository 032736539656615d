package catalog

import (
	"time"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
)

// ProductDTO is the product payload returned to clients. Money is rendered
// with two decimals, quantities as exact decimals.
type ProductDTO struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Barcode       string    `json:"barcode"`
	Category      string    `json:"category"`
	Unit          string    `json:"unit"`
	Fractional    bool      `json:"fractional"`
	PurchasePrice string    `json:"purchase_price"`
	SellingPrice  string    `json:"selling_price"`
	StockQuantity string    `json:"stock_quantity"`
	MinimumStock  string    `json:"minimum_stock"`
	LowStock      bool      `json:"low_stock"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Barcode:       p.Barcode,
		Category:      p.Category.String(),
		Unit:          p.Unit.String(),
		Fractional:    p.Unit.IsFractional(),
		PurchasePrice: p.PurchasePrice.StringFixed(2),
		SellingPrice:  p.SellingPrice.StringFixed(2),
		StockQuantity: p.StockQuantity.String(),
		MinimumStock:  p.MinimumStock.String(),
		LowStock:      p.IsLowStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func NewProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewProductDTO(&rows[i]))
	}
	return out
}
