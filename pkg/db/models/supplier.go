package models

// Supplier is a vendor the shop restocks from.
type Supplier struct {
	ID      int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name    string  `gorm:"column:name;not null"`
	Phone   *string `gorm:"column:phone"`
	Address *string `gorm:"column:address"`
}
