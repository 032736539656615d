package sales

import (
	"time"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
)

// SaleDTO is the client view of a committed sale. Money uses two decimals.
type SaleDTO struct {
	ID             int64         `json:"id"`
	CustomerID     int64         `json:"customer_id"`
	EmployeeID     int64         `json:"employee_id"`
	TotalAmount    string        `json:"total_amount"`
	PaymentMethod  string        `json:"payment_method"`
	AmountReceived string        `json:"amount_received"`
	ChangeAmount   string        `json:"change_amount"`
	CreatedAt      time.Time     `json:"created_at"`
	Items          []SaleItemDTO `json:"items,omitempty"`
}

type SaleItemDTO struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Unit        string `json:"unit"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
}

func NewSaleDTO(sale *models.Sale) *SaleDTO {
	if sale == nil {
		return nil
	}
	dto := &SaleDTO{
		ID:             sale.ID,
		CustomerID:     sale.CustomerID,
		EmployeeID:     sale.EmployeeID,
		TotalAmount:    sale.TotalAmount.StringFixed(2),
		PaymentMethod:  sale.PaymentMethod.String(),
		AmountReceived: sale.AmountReceived.StringFixed(2),
		ChangeAmount:   sale.ChangeAmount.StringFixed(2),
		CreatedAt:      sale.CreatedAt,
	}
	for _, item := range sale.Items {
		dto.Items = append(dto.Items, SaleItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Unit:        item.Unit.String(),
			Quantity:    item.Quantity.String(),
			UnitPrice:   item.UnitPrice.StringFixed(2),
			TotalPrice:  item.TotalPrice.StringFixed(2),
		})
	}
	return dto
}

func NewSaleDTOs(rows []models.Sale) []SaleDTO {
	out := make([]SaleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewSaleDTO(&rows[i]))
	}
	return out
}
