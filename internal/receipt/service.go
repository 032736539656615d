package receipt

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/config"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
)

type saleReader interface {
	GetSale(ctx context.Context, id int64) (*models.Sale, error)
}

type customerReader interface {
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
}

// Service loads a committed sale and lays out its receipt. It never writes.
type Service struct {
	shop      config.ShopConfig
	sales     saleReader
	customers customerReader
	loc       *time.Location
	font      []byte
}

func NewService(shop config.ShopConfig, sales saleReader, customers customerReader, loc *time.Location) (*Service, error) {
	if sales == nil {
		return nil, fmt.Errorf("sale reader required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer reader required")
	}
	svc := &Service{shop: shop, sales: sales, customers: customers, loc: loc}
	if shop.ReceiptFont != "" {
		font, err := os.ReadFile(shop.ReceiptFont)
		if err != nil {
			return nil, fmt.Errorf("read receipt font: %w", err)
		}
		svc.font = font
	}
	return svc, nil
}

// WritePDF renders r with the configured receipt font.
func (s *Service) WritePDF(r Receipt, w io.Writer) error {
	return RenderPDF(r, w, PDFOptions{Font: s.font})
}

// ForSale builds the receipt for saleID. A customer that can no longer be
// loaded prints as "Walk-in".
func (s *Service) ForSale(ctx context.Context, saleID int64) (Receipt, error) {
	sale, err := s.sales.GetSale(ctx, saleID)
	if err != nil {
		return Receipt{}, err
	}
	name := "Walk-in"
	customer, err := s.customers.GetCustomer(ctx, sale.CustomerID)
	switch {
	case err == nil:
		name = customer.Name
	case !pkgerrors.HasCode(err, pkgerrors.CodeNotFound):
		return Receipt{}, err
	}
	return Build(s.shop, sale, name, s.loc), nil
}
