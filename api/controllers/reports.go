package controllers

import (
	"net/http"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/api/responses"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/catalog"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/reports"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/logger"
)

type productRevenueDTO struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    string `json:"quantity"`
	Revenue     string `json:"revenue"`
}

type summaryDTO struct {
	SaleCount        int64                `json:"sale_count"`
	Revenue          string               `json:"revenue"`
	Profit           string               `json:"profit"`
	RevenueByProduct []productRevenueDTO  `json:"revenue_by_product"`
	LowStock         []catalog.ProductDTO `json:"low_stock"`
}

type dailyDTO struct {
	Day       string `json:"day"`
	SaleCount int64  `json:"sale_count"`
	Revenue   string `json:"revenue"`
}

func ReportSummary(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto := summaryDTO{
			SaleCount:        summary.SaleCount,
			Revenue:          summary.Revenue.StringFixed(2),
			Profit:           summary.Profit.StringFixed(2),
			RevenueByProduct: make([]productRevenueDTO, 0, len(summary.RevenueByProduct)),
			LowStock:         catalog.NewProductDTOs(summary.LowStock),
		}
		for _, row := range summary.RevenueByProduct {
			dto.RevenueByProduct = append(dto.RevenueByProduct, productRevenueDTO{
				ProductID:   row.ProductID,
				ProductName: row.ProductName,
				Quantity:    row.Quantity.String(),
				Revenue:     row.Revenue.StringFixed(2),
			})
		}
		responses.WriteSuccess(w, dto)
	}
}

func ReportDaily(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.Daily(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]dailyDTO, 0, len(rows))
		for _, row := range rows {
			out = append(out, dailyDTO{Day: row.Day, SaleCount: row.SaleCount, Revenue: row.Revenue.StringFixed(2)})
		}
		responses.WriteSuccess(w, out)
	}
}
