package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
)

const topProducts = 10

type lowStockLister interface {
	ListLowStock(ctx context.Context) ([]models.Product, error)
}

// Summary is the dashboard headline.
type Summary struct {
	SaleCount        int64
	Revenue          decimal.Decimal
	Profit           decimal.Decimal
	RevenueByProduct []ProductRevenue
	LowStock         []models.Product
}

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
	Daily(ctx context.Context) ([]DailySales, error)
}

type service struct {
	repo    *Repository
	catalog lowStockLister
	loc     *time.Location
}

// NewService builds the dashboard service. Daily buckets use loc, the shop's
// timezone, so they agree with the dates printed on receipts; nil means UTC.
func NewService(repo *Repository, catalog lowStockLister, loc *time.Location) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, catalog: catalog, loc: loc}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	count, revenue, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum sales")
	}
	profit, err := s.repo.Profit(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum profit")
	}
	byProduct, err := s.repo.RevenueByProduct(ctx, topProducts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revenue by product")
	}
	lowStock, err := s.catalog.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{
		SaleCount:        count,
		Revenue:          revenue,
		Profit:           profit,
		RevenueByProduct: byProduct,
		LowStock:         lowStock,
	}, nil
}

func (s *service) Daily(ctx context.Context) ([]DailySales, error) {
	stamps, err := s.repo.SaleStamps(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "daily sales")
	}
	return bucketByDay(stamps, s.loc), nil
}

func bucketByDay(stamps []SaleStamp, loc *time.Location) []DailySales {
	days := make([]DailySales, 0)
	for _, stamp := range stamps {
		day := stamp.CreatedAt.In(loc).Format(time.DateOnly)
		if n := len(days); n > 0 && days[n-1].Day == day {
			days[n-1].SaleCount++
			days[n-1].Revenue = days[n-1].Revenue.Add(stamp.TotalAmount)
			continue
		}
		days = append(days, DailySales{Day: day, SaleCount: 1, Revenue: stamp.TotalAmount})
	}
	return days
}
