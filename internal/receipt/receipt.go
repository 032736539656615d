// Package receipt lays out the cash memo for a committed sale.
package receipt

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/config"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
)

const timestampLayout = "2006-01-02 15:04:05"

// Receipt is everything printed on a cash memo, already formatted.
type Receipt struct {
	ShopName      string
	Address       string
	Mobile        string
	Email         string
	Title         string
	SaleID        int64
	InvoiceNo     string
	Timestamp     string
	CustomerName  string
	PaymentMethod enums.PaymentMethod
	Rows          []Row
	GrandTotal    string
	Received      string
	Change        string
	Footer        []string
}

// Row is one line of the item table.
type Row struct {
	Product   string
	Unit      string
	Qty       string
	UnitPrice string
	Total     string
}

// Build assembles the receipt. It reads only its arguments, so the same sale
// always yields the same receipt.
func Build(shop config.ShopConfig, sale *models.Sale, customerName string, loc *time.Location) Receipt {
	if loc == nil {
		loc = time.UTC
	}
	prefix := shop.InvoicePrefix
	if prefix == "" {
		prefix = "SSS"
	}

	r := Receipt{
		ShopName:      shop.Name,
		Address:       shop.Address,
		Mobile:        shop.Mobile,
		Email:         shop.Email,
		Title:         shop.Title,
		SaleID:        sale.ID,
		InvoiceNo:     fmt.Sprintf("%s-%d", prefix, sale.ID),
		Timestamp:     sale.CreatedAt.In(loc).Format(timestampLayout),
		CustomerName:  customerName,
		PaymentMethod: sale.PaymentMethod,
		GrandTotal:    money(sale.TotalAmount),
		Footer:        append([]string(nil), shop.Footer...),
	}
	if sale.PaymentMethod.TakesChange() {
		r.Received = money(sale.AmountReceived)
		r.Change = money(sale.ChangeAmount)
	}
	for _, item := range sale.Items {
		r.Rows = append(r.Rows, Row{
			Product:   item.ProductName,
			Unit:      item.Unit.String(),
			Qty:       item.Quantity.String(),
			UnitPrice: money(item.UnitPrice),
			Total:     money(item.TotalPrice),
		})
	}
	return r
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
