package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
)

// Employee is staff that can ring up a sale.
type Employee struct {
	ID        int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string             `gorm:"column:name;not null"`
	Role      enums.EmployeeRole `gorm:"column:role;type:varchar(16);not null"`
	Salary    decimal.Decimal    `gorm:"column:salary;type:numeric(12,2);not null;default:0"`
	HiredDate *time.Time         `gorm:"column:hired_date;type:date"`
}
