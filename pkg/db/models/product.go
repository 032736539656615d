package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
)

// Product is a catalog entry. StockQuantity is kept in the product's unit
// (kilograms for kg, pieces for pcs) and is never negative.
type Product struct {
	ID            int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string                `gorm:"column:name;not null"`
	Barcode       string                `gorm:"column:barcode;not null;uniqueIndex:products_barcode_key"`
	Category      enums.ProductCategory `gorm:"column:category;type:varchar(32);not null"`
	Unit          enums.ProductUnit     `gorm:"column:unit;type:varchar(16);not null"`
	PurchasePrice decimal.Decimal       `gorm:"column:purchase_price;type:numeric(12,2);not null;default:0"`
	SellingPrice  decimal.Decimal       `gorm:"column:selling_price;type:numeric(12,2);not null;default:0"`
	StockQuantity decimal.Decimal       `gorm:"column:stock_quantity;type:numeric(14,3);not null;default:0"`
	MinimumStock  decimal.Decimal       `gorm:"column:minimum_stock;type:numeric(14,3);not null;default:0"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// IsLowStock reports whether stock has fallen to the reorder threshold.
func (p Product) IsLowStock() bool {
	return p.StockQuantity.LessThanOrEqual(p.MinimumStock)
}
