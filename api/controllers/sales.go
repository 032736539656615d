package controllers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/api/responses"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/api/validators"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/receipt"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/sales"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/logger"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/pagination"
)

type receiptBuilder interface {
	ForSale(ctx context.Context, saleID int64) (receipt.Receipt, error)
	WritePDF(r receipt.Receipt, w io.Writer) error
}

func SaleList(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListSales(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: validators.ParseQueryString(r, "cursor", 256),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagination.Page[sales.SaleDTO]{
			Items:      sales.NewSaleDTOs(page.Items),
			NextCursor: page.NextCursor,
		})
	}
}

func SaleGet(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.GetSale(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sales.NewSaleDTO(sale))
	}
}

// SaleReceipt renders the cash memo as plain text, or as a PDF download with
// ?format=pdf.
func SaleReceipt(builder receiptBuilder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		format := strings.ToLower(validators.ParseQueryString(r, "format", 8))
		if format != "" && format != "text" && format != "pdf" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "format must be text or pdf").
				WithDetails(map[string]string{"format": "must be one of [text pdf]"}))
			return
		}

		memo, err := builder.ForSale(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if format == "pdf" {
			var buf bytes.Buffer
			if err := builder.WritePDF(memo, &buf); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render receipt pdf"))
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, memo.InvoiceNo))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(buf.Bytes())
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(receipt.RenderText(memo)))
	}
}
