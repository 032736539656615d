package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
)

// Sale is the header of a committed transaction. Rows are written once by the
// checkout commit and never updated.
type Sale struct {
	ID             int64               `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID     int64               `gorm:"column:customer_id;not null"`
	EmployeeID     int64               `gorm:"column:employee_id;not null"`
	TotalAmount    decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;type:varchar(16);not null"`
	AmountReceived decimal.Decimal     `gorm:"column:amount_received;type:numeric(12,2);not null"`
	ChangeAmount   decimal.Decimal     `gorm:"column:change_amount;type:numeric(12,2);not null;default:0"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	Items          []SaleItem          `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}
