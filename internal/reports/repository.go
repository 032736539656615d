package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRevenue is the revenue one product brought in.
type ProductRevenue struct {
	ProductID   int64           `gorm:"column:product_id"`
	ProductName string          `gorm:"column:product_name"`
	Quantity    decimal.Decimal `gorm:"column:quantity"`
	Revenue     decimal.Decimal `gorm:"column:revenue"`
}

// DailySales aggregates the sales of one calendar day.
type DailySales struct {
	Day       string          `gorm:"column:day"`
	SaleCount int64           `gorm:"column:sale_count"`
	Revenue   decimal.Decimal `gorm:"column:revenue"`
}

type totals struct {
	SaleCount int64           `gorm:"column:sale_count"`
	Revenue   decimal.Decimal `gorm:"column:revenue"`
}

// Repository runs the dashboard aggregates against sales and sale_items.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Totals(ctx context.Context) (int64, decimal.Decimal, error) {
	var out totals
	err := r.db.WithContext(ctx).
		Table("sales").
		Select("COUNT(*) AS sale_count, COALESCE(SUM(total_amount), 0) AS revenue").
		Scan(&out).Error
	return out.SaleCount, out.Revenue, err
}

// Profit is revenue minus the current purchase price of what was sold.
func (r *Repository) Profit(ctx context.Context) (decimal.Decimal, error) {
	var row struct {
		Profit decimal.Decimal `gorm:"column:profit"`
	}
	err := r.db.WithContext(ctx).
		Table("sale_items AS si").
		Joins("JOIN products AS p ON p.id = si.product_id").
		Select("COALESCE(SUM(si.total_price - p.purchase_price * si.quantity), 0) AS profit").
		Scan(&row).Error
	return row.Profit, err
}

// RevenueByProduct ranks products by revenue, highest first.
func (r *Repository) RevenueByProduct(ctx context.Context, limit int) ([]ProductRevenue, error) {
	var rows []ProductRevenue
	query := r.db.WithContext(ctx).
		Table("sale_items").
		Select("product_id, product_name, SUM(quantity) AS quantity, SUM(total_price) AS revenue").
		Group("product_id, product_name").
		Order("revenue DESC").
		Order("product_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SaleStamp is the time and total of one sale.
type SaleStamp struct {
	CreatedAt   time.Time       `gorm:"column:created_at"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount"`
}

// SaleStamps lists every sale's time and total, oldest first. Days are cut
// by the caller in the shop's timezone.
func (r *Repository) SaleStamps(ctx context.Context) ([]SaleStamp, error) {
	var rows []SaleStamp
	err := r.db.WithContext(ctx).
		Table("sales").
		Select("created_at, total_amount").
		Order("created_at ASC").
		Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
