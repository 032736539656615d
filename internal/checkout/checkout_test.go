package checkout

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/catalog"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/customers"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/employees"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/dbtest"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/logger"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/metrics"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	client   *db.Client
	prom     *prometheus.Registry
	tills    *Registry
	rice     *models.Product
	soap     *models.Product
	customer *models.Customer
	cashier  *models.Employee
}

func newFixture(t *testing.T, stores TxStores) *fixture {
	t.Helper()
	client := dbtest.Open(t)

	rice := &models.Product{
		Name: "Rice", Barcode: "RICE", Category: enums.ProductCategoryGroceries, Unit: enums.ProductUnitKg,
		PurchasePrice: dec("70"), SellingPrice: dec("80"), StockQuantity: dec("10"), MinimumStock: dec("2"),
	}
	soap := &models.Product{
		Name: "Soap", Barcode: "SOAP", Category: enums.ProductCategoryToiletries, Unit: enums.ProductUnitPiece,
		PurchasePrice: dec("25"), SellingPrice: dec("30"), StockQuantity: dec("5"), MinimumStock: dec("1"),
	}
	customer := &models.Customer{Name: "Walk-in"}
	cashier := &models.Employee{Name: "Rahim", Role: enums.EmployeeRoleCashier}
	dbtest.MustCreate(t, client, rice, soap, customer, cashier)

	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard})
	promReg := prometheus.NewRegistry()
	m := metrics.NewCheckoutMetrics(promReg)

	catalogSvc, err := catalog.NewService(catalog.NewRepository(client.DB()))
	require.NoError(t, err)
	customerSvc, err := customers.NewService(customers.NewRepository(client.DB()))
	require.NoError(t, err)
	employeeSvc, err := employees.NewService(employees.NewRepository(client.DB()))
	require.NoError(t, err)
	committer, err := NewCommitter(client, stores, m, logg)
	require.NoError(t, err)

	reg, err := NewRegistry(Deps{
		Catalog:   catalogSvc,
		Customers: customerSvc,
		Employees: employeeSvc,
		Committer: committer,
		Metrics:   m,
		Logger:    logg,
	}, "main")
	require.NoError(t, err)

	return &fixture{
		client:   client,
		prom:     promReg,
		tills:    reg,
		rice:     rice,
		soap:     soap,
		customer: customer,
		cashier:  cashier,
	}
}

func (f *fixture) stock(t *testing.T, id int64) decimal.Decimal {
	t.Helper()
	var p models.Product
	require.NoError(t, f.client.DB().First(&p, "id = ?", id).Error)
	return p.StockQuantity
}

func (f *fixture) counts(t *testing.T) (salesCount, itemCount int64) {
	t.Helper()
	require.NoError(t, f.client.DB().Model(&models.Sale{}).Count(&salesCount).Error)
	require.NoError(t, f.client.DB().Model(&models.SaleItem{}).Count(&itemCount).Error)
	return salesCount, itemCount
}

func (f *fixture) commitsWithOutcome(t *testing.T, outcome string) float64 {
	t.Helper()
	families, err := f.prom.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != "checkout_commits_total" {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "outcome" && label.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

// buildTwoLineCart rings up 750 g of rice and three soaps: 60.00 + 90.00.
func buildTwoLineCart(t *testing.T, f *fixture, s *Session) {
	t.Helper()
	ctx := context.Background()
	_, err := s.Add(ctx, AddInput{Barcode: "RICE", Quantity: dec("750")})
	require.NoError(t, err)
	_, err = s.Add(ctx, AddInput{ProductID: f.soap.ID, Quantity: dec("3")})
	require.NoError(t, err)
	require.NoError(t, s.SelectParties(ctx, f.customer.ID, f.cashier.ID))
}

func TestConfirmCashCommitsAndClearsCart(t *testing.T) {
	f := newFixture(t, nil)
	s := f.tills.Session("")
	ctx := context.Background()

	buildTwoLineCart(t, f, s)
	snap := s.Snapshot()
	require.Equal(t, enums.CheckoutStateBuilding, snap.State)
	require.Equal(t, "150.00", snap.Total.StringFixed(2))

	res, err := s.Confirm(ctx, enums.PaymentMethodCash, dec("200"))
	require.NoError(t, err)
	require.NotZero(t, res.Sale.ID)
	require.Equal(t, "50.00", res.Settlement.Change.StringFixed(2))
	require.Len(t, res.Sale.Items, 2)

	var stored models.Sale
	require.NoError(t, f.client.DB().Preload("Items").First(&stored, "id = ?", res.Sale.ID).Error)
	require.Equal(t, "50.00", stored.ChangeAmount.StringFixed(2))
	require.Equal(t, "150.00", stored.TotalAmount.StringFixed(2))
	require.Len(t, stored.Items, 2)

	require.True(t, f.stock(t, f.rice.ID).Equal(dec("9.25")), "rice stock %s", f.stock(t, f.rice.ID))
	require.True(t, f.stock(t, f.soap.ID).Equal(dec("2")))

	after := s.Snapshot()
	require.Equal(t, enums.CheckoutStateEmpty, after.State)
	require.Empty(t, after.Lines)
	require.Nil(t, after.CustomerID)
	require.NotNil(t, after.EmployeeID)

	_, err = s.Confirm(ctx, enums.PaymentMethodCash, dec("200"))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart), "got %v", err)
	salesCount, _ := f.counts(t)
	require.EqualValues(t, 1, salesCount)
	require.EqualValues(t, 1, f.commitsWithOutcome(t, metrics.OutcomeCommitted))
}

func TestConfirmInsufficientCashNeverCommits(t *testing.T) {
	f := newFixture(t, nil)
	s := f.tills.Session("main")
	buildTwoLineCart(t, f, s)

	_, err := s.Confirm(context.Background(), enums.PaymentMethodCash, dec("149.99"))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientPayment), "got %v", err)

	salesCount, itemCount := f.counts(t)
	require.Zero(t, salesCount)
	require.Zero(t, itemCount)
	snap := s.Snapshot()
	require.Len(t, snap.Lines, 2)
	require.Equal(t, enums.CheckoutStateBuilding, snap.State)
}

func TestConfirmNonCashRecordsExactTender(t *testing.T) {
	f := newFixture(t, nil)
	s := f.tills.Session("main")
	buildTwoLineCart(t, f, s)

	res, err := s.Confirm(context.Background(), enums.PaymentMethodBKash, dec("0"))
	require.NoError(t, err)
	require.True(t, res.Sale.AmountReceived.Equal(dec("150")))
	require.True(t, res.Sale.ChangeAmount.IsZero())
}

type failingStock struct {
	StockStore
}

func (failingStock) DecrementStock(context.Context, int64, decimal.Decimal) (bool, error) {
	return false, errors.New("disk I/O error")
}

func TestCommitRollsBackOnFaultAfterHeaderInsert(t *testing.T) {
	f := newFixture(t, func(tx *gorm.DB) (StockStore, SaleStore) {
		stock, salesStore := RepositoryStores(tx)
		return failingStock{StockStore: stock}, salesStore
	})
	s := f.tills.Session("main")
	buildTwoLineCart(t, f, s)

	_, err := s.Confirm(context.Background(), enums.PaymentMethodCash, dec("200"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "got %v", err)
	require.Equal(t, pkgerrors.CodeCommitFailure, typed.Code())
	require.ErrorContains(t, err, "disk I/O error")

	salesCount, itemCount := f.counts(t)
	require.Zero(t, salesCount)
	require.Zero(t, itemCount)
	require.True(t, f.stock(t, f.rice.ID).Equal(dec("10")))
	require.True(t, f.stock(t, f.soap.ID).Equal(dec("5")))

	snap := s.Snapshot()
	require.Equal(t, enums.CheckoutStateBuilding, snap.State)
	require.Len(t, snap.Lines, 2)
	require.EqualValues(t, 1, f.commitsWithOutcome(t, metrics.OutcomeFailed))
}

func TestCommitRechecksStock(t *testing.T) {
	f := newFixture(t, nil)
	s := f.tills.Session("main")
	buildTwoLineCart(t, f, s)

	// another process sold soap after it was scanned
	require.NoError(t, f.client.DB().Model(&models.Product{}).
		Where("id = ?", f.soap.ID).Update("stock_quantity", dec("2")).Error)

	_, err := s.Confirm(context.Background(), enums.PaymentMethodCash, dec("200"))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock), "got %v", err)

	salesCount, _ := f.counts(t)
	require.Zero(t, salesCount)
	require.True(t, f.stock(t, f.rice.ID).Equal(dec("10")))
	require.Len(t, s.Snapshot().Lines, 2)
	require.EqualValues(t, 1, f.commitsWithOutcome(t, metrics.OutcomeInsufficientStock))
}

func TestGramSalesDrainStockExactly(t *testing.T) {
	f := newFixture(t, nil)
	s := f.tills.Session("main")
	ctx := context.Background()
	require.NoError(t, f.client.DB().Model(&models.Product{}).
		Where("id = ?", f.rice.ID).Update("stock_quantity", dec("0.3")).Error)

	sell := func(grams string) {
		t.Helper()
		_, err := s.Add(ctx, AddInput{ProductID: f.rice.ID, Quantity: dec(grams)})
		require.NoError(t, err)
		require.NoError(t, s.SelectParties(ctx, f.customer.ID, f.cashier.ID))
		_, err = s.Confirm(ctx, enums.PaymentMethodBKash, decimal.Zero)
		require.NoError(t, err)
	}

	sell("100")
	require.Equal(t, "0.2", f.stock(t, f.rice.ID).String())
	sell("200")
	require.True(t, f.stock(t, f.rice.ID).IsZero(), "rice stock %s", f.stock(t, f.rice.ID))

	_, err := s.Add(ctx, AddInput{ProductID: f.rice.ID, Quantity: dec("1")})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock), "got %v", err)
}

type exhaustedStock struct {
	StockStore
}

func (exhaustedStock) DecrementStock(context.Context, int64, decimal.Decimal) (bool, error) {
	return false, nil
}

func TestGuardedDecrementReportsCurrentStock(t *testing.T) {
	f := newFixture(t, func(tx *gorm.DB) (StockStore, SaleStore) {
		stock, salesStore := RepositoryStores(tx)
		return exhaustedStock{StockStore: stock}, salesStore
	})
	s := f.tills.Session("main")
	buildTwoLineCart(t, f, s)

	_, err := s.Confirm(context.Background(), enums.PaymentMethodCash, dec("200"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "got %v", err)
	require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, "10", details["available"])
	require.Equal(t, "0.75", details["requested"])

	salesCount, _ := f.counts(t)
	require.Zero(t, salesCount)
}

func TestAddPieceAboveStockLeavesCartEmpty(t *testing.T) {
	f := newFixture(t, nil)
	s := f.tills.Session("main")

	_, err := s.Add(context.Background(), AddInput{ProductID: f.soap.ID, Quantity: dec("6")})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock), "got %v", err)
	snap := s.Snapshot()
	require.Empty(t, snap.Lines)
	require.Equal(t, enums.CheckoutStateEmpty, snap.State)
}

func TestAddLookupErrors(t *testing.T) {
	f := newFixture(t, nil)
	s := f.tills.Session("main")
	ctx := context.Background()

	_, err := s.Add(ctx, AddInput{Barcode: "MISSING", Quantity: dec("1")})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeBarcodeNotFound))
	_, err = s.Add(ctx, AddInput{ProductID: 999, Quantity: dec("1")})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeProductNotFound))
	_, err = s.Add(ctx, AddInput{Quantity: dec("1")})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	_, err = s.Add(ctx, AddInput{ProductID: f.soap.ID, Quantity: dec("1.5")})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidQuantity))
}

func TestConfirmRequiresParties(t *testing.T) {
	f := newFixture(t, nil)
	s := f.tills.Session("main")
	ctx := context.Background()

	_, err := s.Add(ctx, AddInput{ProductID: f.soap.ID, Quantity: dec("1")})
	require.NoError(t, err)
	_, err = s.Confirm(ctx, enums.PaymentMethodCash, dec("100"))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	err = s.SelectParties(ctx, 404, f.cashier.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateAndRemoveLines(t *testing.T) {
	f := newFixture(t, nil)
	s := f.tills.Session("main")
	ctx := context.Background()

	_, err := s.Add(ctx, AddInput{ProductID: f.rice.ID, Quantity: dec("500")})
	require.NoError(t, err)

	price := dec("76")
	line, ok, err := s.Update(ctx, f.rice.ID, UpdateInput{Quantity: dec("1250"), UnitPrice: &price})
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, line.Quantity.Equal(dec("1.25")))
	require.Equal(t, "95.00", line.Total().StringFixed(2))

	_, _, err = s.Update(ctx, f.rice.ID, UpdateInput{Quantity: dec("20000")})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock))

	_, ok, err = s.Update(ctx, f.rice.ID, UpdateInput{Quantity: decimal.Zero})
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, enums.CheckoutStateEmpty, s.Snapshot().State)

	require.True(t, pkgerrors.HasCode(s.Remove(f.rice.ID), pkgerrors.CodeProductNotFound))
}

func TestCancelResetsSession(t *testing.T) {
	f := newFixture(t, nil)
	s := f.tills.Session("main")
	buildTwoLineCart(t, f, s)

	require.NoError(t, s.Cancel())
	snap := s.Snapshot()
	require.Equal(t, enums.CheckoutStateEmpty, snap.State)
	require.Empty(t, snap.Lines)
	require.Nil(t, snap.CustomerID)
	require.Nil(t, snap.EmployeeID)
}

func TestPreview(t *testing.T) {
	f := newFixture(t, nil)
	s := f.tills.Session("main")

	_, err := s.Preview(enums.PaymentMethodCash, dec("10"))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart))

	buildTwoLineCart(t, f, s)
	settlement, err := s.Preview(enums.PaymentMethodCash, dec("200"))
	require.NoError(t, err)
	require.Equal(t, "50.00", settlement.Change.StringFixed(2))
	require.Len(t, s.Snapshot().Lines, 2)
}

type blockingStock struct {
	StockStore
	entered chan struct{}
	release chan struct{}
}

func (b blockingStock) FindByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	close(b.entered)
	<-b.release
	return b.StockStore.FindByIDs(ctx, ids)
}

func TestMutationsRejectedWhileCommitting(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	f := newFixture(t, func(tx *gorm.DB) (StockStore, SaleStore) {
		stock, salesStore := RepositoryStores(tx)
		return blockingStock{StockStore: stock, entered: entered, release: release}, salesStore
	})
	s := f.tills.Session("main")
	buildTwoLineCart(t, f, s)

	var wg sync.WaitGroup
	wg.Add(1)
	var confirmErr error
	go func() {
		defer wg.Done()
		_, confirmErr = s.Confirm(context.Background(), enums.PaymentMethodCash, dec("150"))
	}()

	<-entered
	require.Equal(t, enums.CheckoutStateCommitting, s.Snapshot().State)
	require.True(t, pkgerrors.HasCode(s.Cancel(), pkgerrors.CodeStateConflict))
	require.True(t, pkgerrors.HasCode(s.Remove(f.soap.ID), pkgerrors.CodeStateConflict))
	close(release)
	wg.Wait()

	require.NoError(t, confirmErr)
	require.Equal(t, enums.CheckoutStateEmpty, s.Snapshot().State)
}

func TestRegistryKeepsSessionPerTill(t *testing.T) {
	f := newFixture(t, nil)
	a := f.tills.Session(" till-a ")
	require.Same(t, a, f.tills.Session("till-a"))
	require.NotSame(t, a, f.tills.Session("till-b"))
	require.Same(t, f.tills.Session(""), f.tills.Session("main"))
	require.Equal(t, []string{"main", "till-a", "till-b"}, f.tills.Tills())

	_, err := NewRegistry(Deps{}, "")
	require.Error(t, err)
}
