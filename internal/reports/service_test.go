package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/catalog"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/dbtest"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSummaryAndDaily(t *testing.T) {
	client := dbtest.Open(t)
	rice := &models.Product{Name: "Rice", Barcode: "R", Category: enums.ProductCategoryGroceries, Unit: enums.ProductUnitKg,
		PurchasePrice: dec("70"), SellingPrice: dec("80"), StockQuantity: dec("1"), MinimumStock: dec("2")}
	soap := &models.Product{Name: "Soap", Barcode: "S", Category: enums.ProductCategoryToiletries, Unit: enums.ProductUnitPiece,
		PurchasePrice: dec("25"), SellingPrice: dec("30"), StockQuantity: dec("50"), MinimumStock: dec("5")}
	dbtest.MustCreate(t, client, rice, soap)

	day1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	sales := []*models.Sale{
		{CustomerID: 1, EmployeeID: 1, TotalAmount: dec("150"), PaymentMethod: enums.PaymentMethodCash,
			AmountReceived: dec("150"), CreatedAt: day1, Items: []models.SaleItem{
				{ProductID: rice.ID, ProductName: "Rice", Unit: enums.ProductUnitKg, Quantity: dec("0.75"), UnitPrice: dec("80"), TotalPrice: dec("60")},
				{ProductID: soap.ID, ProductName: "Soap", Unit: enums.ProductUnitPiece, Quantity: dec("3"), UnitPrice: dec("30"), TotalPrice: dec("90")},
			}},
		{CustomerID: 1, EmployeeID: 1, TotalAmount: dec("30"), PaymentMethod: enums.PaymentMethodCard,
			AmountReceived: dec("30"), CreatedAt: day2, Items: []models.SaleItem{
				{ProductID: soap.ID, ProductName: "Soap", Unit: enums.ProductUnitPiece, Quantity: dec("1"), UnitPrice: dec("30"), TotalPrice: dec("30")},
			}},
	}
	for _, sale := range sales {
		dbtest.MustCreate(t, client, sale)
	}

	catalogSvc, err := catalog.NewService(catalog.NewRepository(client.DB()))
	require.NoError(t, err)
	svc, err := NewService(NewRepository(client.DB()), catalogSvc, time.UTC)
	require.NoError(t, err)
	ctx := context.Background()

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, summary.SaleCount)
	require.Equal(t, "180.00", summary.Revenue.StringFixed(2))
	// (60 - 70*0.75) + (90 - 25*3) + (30 - 25*1)
	require.Equal(t, "27.50", summary.Profit.StringFixed(2))
	require.Len(t, summary.RevenueByProduct, 2)
	require.Equal(t, "Soap", summary.RevenueByProduct[0].ProductName)
	require.Equal(t, "120.00", summary.RevenueByProduct[0].Revenue.StringFixed(2))
	require.Len(t, summary.LowStock, 1)
	require.Equal(t, "Rice", summary.LowStock[0].Name)

	daily, err := svc.Daily(ctx)
	require.NoError(t, err)
	require.Len(t, daily, 2)
	require.Equal(t, "2026-03-01", daily[0].Day)
	require.EqualValues(t, 1, daily[0].SaleCount)
	require.Equal(t, "150.00", daily[0].Revenue.StringFixed(2))
	require.Equal(t, "2026-03-02", daily[1].Day)
}

func TestSummaryOnEmptyStore(t *testing.T) {
	client := dbtest.Open(t)
	catalogSvc, err := catalog.NewService(catalog.NewRepository(client.DB()))
	require.NoError(t, err)
	svc, err := NewService(NewRepository(client.DB()), catalogSvc, time.UTC)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Zero(t, summary.SaleCount)
	require.True(t, summary.Revenue.IsZero())
	require.True(t, summary.Profit.IsZero())
	require.Empty(t, summary.RevenueByProduct)
}

func TestDailyUsesShopTimezone(t *testing.T) {
	client := dbtest.Open(t)
	dhaka, err := time.LoadLocation("Asia/Dhaka")
	require.NoError(t, err)

	// 02:30 on the 17th in Dhaka
	late := time.Date(2026, 10, 16, 20, 30, 0, 0, time.UTC)
	// 17:00 on the 16th in Dhaka
	early := time.Date(2026, 10, 16, 11, 0, 0, 0, time.UTC)
	for _, sale := range []*models.Sale{
		{CustomerID: 1, EmployeeID: 1, TotalAmount: dec("40"), PaymentMethod: enums.PaymentMethodCash, AmountReceived: dec("40"), CreatedAt: early},
		{CustomerID: 1, EmployeeID: 1, TotalAmount: dec("60"), PaymentMethod: enums.PaymentMethodCash, AmountReceived: dec("60"), CreatedAt: late},
	} {
		dbtest.MustCreate(t, client, sale)
	}

	catalogSvc, err := catalog.NewService(catalog.NewRepository(client.DB()))
	require.NoError(t, err)
	svc, err := NewService(NewRepository(client.DB()), catalogSvc, dhaka)
	require.NoError(t, err)

	daily, err := svc.Daily(context.Background())
	require.NoError(t, err)
	require.Len(t, daily, 2)
	require.Equal(t, "2026-10-16", daily[0].Day)
	require.Equal(t, "40.00", daily[0].Revenue.StringFixed(2))
	require.Equal(t, "2026-10-17", daily[1].Day)
	require.Equal(t, "60.00", daily[1].Revenue.StringFixed(2))

	utcSvc, err := NewService(NewRepository(client.DB()), catalogSvc, nil)
	require.NoError(t, err)
	utcDaily, err := utcSvc.Daily(context.Background())
	require.NoError(t, err)
	require.Len(t, utcDaily, 1)
	require.EqualValues(t, 2, utcDaily[0].SaleCount)
}
