package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/receipt"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubReceipts struct {
	memo receipt.Receipt
	err  error
}

func (s stubReceipts) ForSale(context.Context, int64) (receipt.Receipt, error) {
	return s.memo, s.err
}

func (s stubReceipts) WritePDF(r receipt.Receipt, w io.Writer) error {
	return receipt.RenderPDF(r, w, receipt.PDFOptions{})
}

func withID(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func TestSaleReceiptText(t *testing.T) {
	memo := receipt.Receipt{
		ShopName:      "Sarder Super Shop",
		InvoiceNo:     "SSS-000001",
		Timestamp:     "2026-03-01 10:00:00",
		CustomerName:  "Walk-in",
		PaymentMethod: enums.PaymentMethodCard,
		GrandTotal:    "90.00",
	}
	req := withID(httptest.NewRequest(http.MethodGet, "/api/v1/sales/1/receipt", nil), "id", "1")
	rec := httptest.NewRecorder()
	SaleReceipt(stubReceipts{memo: memo}, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	require.Contains(t, rec.Body.String(), "SSS-000001")
}

func TestSaleReceiptPDFAttachment(t *testing.T) {
	memo := receipt.Receipt{ShopName: "Sarder Super Shop", InvoiceNo: "SSS-000002", Timestamp: "2026-03-01 10:00:00", GrandTotal: "10.00"}
	req := withID(httptest.NewRequest(http.MethodGet, "/api/v1/sales/2/receipt?format=PDF", nil), "id", "2")
	rec := httptest.NewRecorder()
	SaleReceipt(stubReceipts{memo: memo}, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `attachment; filename="SSS-000002.pdf"`, rec.Header().Get("Content-Disposition"))
}

func TestSaleReceiptNotFound(t *testing.T) {
	req := withID(httptest.NewRequest(http.MethodGet, "/api/v1/sales/9/receipt", nil), "id", "9")
	rec := httptest.NewRecorder()
	SaleReceipt(stubReceipts{err: pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")}, testLogger()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmployeeRequestToInput(t *testing.T) {
	date := "2025-02-30"
	_, err := employeeRequest{Name: "Rahim", Role: "Cashier", HiredDate: &date}.toInput()
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = employeeRequest{Name: "Rahim", Role: "Owner"}.toInput()
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	date = "2025-01-10"
	input, err := employeeRequest{Name: "Rahim", Role: "manager", HiredDate: &date}.toInput()
	require.NoError(t, err)
	require.Equal(t, enums.EmployeeRoleManager, input.Role)
	require.True(t, input.Salary.IsZero())
	require.Equal(t, 2025, input.HiredDate.Year())
}

func TestPaymentRequestParse(t *testing.T) {
	method, received, err := paymentRequest{Method: "nagad"}.parse()
	require.NoError(t, err)
	require.Equal(t, enums.PaymentMethodNagad, method)
	require.True(t, received.IsZero())

	_, _, err = paymentRequest{Method: "cheque"}.parse()
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
