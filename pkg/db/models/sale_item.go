package models

import (
	"github.com/shopspring/decimal"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
)

// SaleItem freezes a cart line at commit time, including the product name and
// unit so later catalog edits do not change old receipts.
type SaleItem struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	SaleID      int64             `gorm:"column:sale_id;not null;index"`
	ProductID   int64             `gorm:"column:product_id;not null;index"`
	ProductName string            `gorm:"column:product_name;not null"`
	Unit        enums.ProductUnit `gorm:"column:unit;type:varchar(16);not null"`
	Quantity    decimal.Decimal   `gorm:"column:quantity;type:numeric(14,3);not null"`
	UnitPrice   decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice  decimal.Decimal   `gorm:"column:total_price;type:numeric(14,2);not null"`
}
