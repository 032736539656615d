package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/cart"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/catalog"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/pricing"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/sales"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/logger"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockStore is the catalog surface the commit writes through.
type StockStore interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error)
	DecrementStock(ctx context.Context, id int64, amount decimal.Decimal) (bool, error)
}

// SaleStore persists the sale header and items.
type SaleStore interface {
	InsertSale(ctx context.Context, sale *models.Sale) (int64, error)
	InsertSaleItems(ctx context.Context, saleID int64, items []models.SaleItem) error
}

// TxStores binds the commit stores to an open transaction.
type TxStores func(tx *gorm.DB) (StockStore, SaleStore)

// RepositoryStores binds the catalog and sales repositories to tx.
func RepositoryStores(tx *gorm.DB) (StockStore, SaleStore) {
	return catalog.NewRepository(tx), sales.NewRepository(tx)
}

// Order is a settled cart ready to be written.
type Order struct {
	CustomerID int64
	EmployeeID int64
	Settlement pricing.Settlement
	Lines      []cart.Line
}

// Committer writes a sale, its items and the stock decrements as one unit.
type Committer struct {
	tx      txRunner
	stores  TxStores
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewCommitter builds a committer. A nil stores func uses the gorm repositories.
func NewCommitter(tx txRunner, stores TxStores, m *metrics.CheckoutMetrics, logg *logger.Logger) (*Committer, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if stores == nil {
		stores = RepositoryStores
	}
	return &Committer{
		tx:      tx,
		stores:  stores,
		metrics: m,
		logg:    logg,
		now:     time.Now,
	}, nil
}

// Commit persists the order. Stock is re-read inside the transaction; any
// shortfall aborts with INSUFFICIENT_STOCK and storage faults surface as
// COMMIT_FAILURE. Nothing is written unless everything is.
func (c *Committer) Commit(ctx context.Context, order Order) (*models.Sale, error) {
	if len(order.Lines) == 0 {
		return nil, emptyCart()
	}

	started := time.Now()
	var committed *models.Sale
	err := c.tx.WithTx(ctx, func(tx *gorm.DB) error {
		stock, salesStore := c.stores(tx)

		if err := recheckStock(ctx, stock, order.Lines); err != nil {
			return err
		}

		sale := &models.Sale{
			CustomerID:     order.CustomerID,
			EmployeeID:     order.EmployeeID,
			TotalAmount:    order.Settlement.Total,
			PaymentMethod:  order.Settlement.Method,
			AmountReceived: order.Settlement.Received,
			ChangeAmount:   order.Settlement.Change,
			CreatedAt:      c.now().UTC(),
		}
		saleID, err := salesStore.InsertSale(ctx, sale)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}

		items := buildSaleItems(saleID, order.Lines)
		if err := salesStore.InsertSaleItems(ctx, saleID, items); err != nil {
			return fmt.Errorf("insert sale items: %w", err)
		}

		for _, line := range order.Lines {
			ok, err := stock.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock for product %d: %w", line.ProductID, err)
			}
			if !ok {
				return shortfall(ctx, stock, line)
			}
		}

		sale.Items = items
		committed = sale
		return nil
	})
	elapsed := time.Since(started)

	if err != nil {
		switch {
		case pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock):
			c.metrics.ObserveCommit(metrics.OutcomeInsufficientStock, elapsed)
			c.logg.Warn(c.logg.WithField(ctx, "reason", err.Error()), "sale commit rejected")
			return nil, err
		case pkgerrors.HasCode(err, pkgerrors.CodeProductNotFound):
			// product deleted between scan and confirm
			c.metrics.ObserveCommit(metrics.OutcomeFailed, elapsed)
			c.logg.Warn(c.logg.WithField(ctx, "reason", err.Error()), "sale commit rejected")
			return nil, err
		}
		c.metrics.ObserveCommit(metrics.OutcomeFailed, elapsed)
		c.logg.Error(ctx, "sale commit rolled back", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeCommitFailure, err, "sale could not be committed")
	}

	c.metrics.ObserveCommit(metrics.OutcomeCommitted, elapsed)
	c.metrics.ObserveSaleAmount(committed.TotalAmount.InexactFloat64())
	c.logg.Info(c.logg.WithFields(c.logg.WithSaleID(ctx, committed.ID), map[string]any{
		"total": committed.TotalAmount.StringFixed(2),
		"items": len(committed.Items),
	}), "sale committed")
	return committed, nil
}

func recheckStock(ctx context.Context, stock StockStore, lines []cart.Line) error {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	products, err := stock.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("reload products: %w", err)
	}
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return catalog.ProductNotFound(line.ProductID)
		}
		if err := pricing.ValidateLine(product, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func buildSaleItems(saleID int64, lines []cart.Line) []models.SaleItem {
	items := make([]models.SaleItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.SaleItem{
			SaleID:      saleID,
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Unit:        line.Unit,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.Total(),
		})
	}
	return items
}

func emptyCart() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeEmptyCart, "nothing to commit")
}

// shortfall reports a guarded decrement that matched no row, with the stock
// the product holds now.
func shortfall(ctx context.Context, stock StockStore, line cart.Line) error {
	available := decimal.Zero
	current, err := stock.FindByIDs(ctx, []int64{line.ProductID})
	if err != nil {
		return fmt.Errorf("reload stock for product %d: %w", line.ProductID, err)
	}
	if p, ok := current[line.ProductID]; ok {
		available = p.StockQuantity
	}
	return cart.InsufficientStock(line.ProductID, line.Quantity, available)
}
