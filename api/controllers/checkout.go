package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/api/middleware"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/api/responses"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/api/validators"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/cart"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/checkout"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/pricing"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/sales"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/logger"
)

type lineDTO struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

type snapshotDTO struct {
	TillID     string    `json:"till_id"`
	State      string    `json:"state"`
	Lines      []lineDTO `json:"lines"`
	Total      string    `json:"total"`
	CustomerID *int64    `json:"customer_id,omitempty"`
	EmployeeID *int64    `json:"employee_id,omitempty"`
}

type settlementDTO struct {
	Method   string `json:"payment_method"`
	Total    string `json:"total"`
	Received string `json:"amount_received"`
	Change   string `json:"change"`
}

type confirmDTO struct {
	Sale       *sales.SaleDTO `json:"sale"`
	Settlement settlementDTO  `json:"settlement"`
}

type addLineRequest struct {
	ProductID int64            `json:"product_id,omitempty" validate:"omitempty,gt=0"`
	Barcode   string           `json:"barcode,omitempty" validate:"omitempty,max=64"`
	Quantity  *decimal.Decimal `json:"quantity" validate:"required"`
}

type updateLineRequest struct {
	Quantity  *decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

type partiesRequest struct {
	CustomerID int64 `json:"customer_id" validate:"required,gt=0"`
	EmployeeID int64 `json:"employee_id" validate:"required,gt=0"`
}

type paymentRequest struct {
	Method   string           `json:"payment_method" validate:"required"`
	Received *decimal.Decimal `json:"amount_received,omitempty"`
}

func (p paymentRequest) parse() (enums.PaymentMethod, decimal.Decimal, error) {
	method, err := enums.ParsePaymentMethod(p.Method)
	if err != nil {
		return "", decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method").
			WithDetails(map[string]string{"payment_method": "is invalid"})
	}
	return method, valueOrZero(p.Received), nil
}

// CheckoutSnapshot returns the till's current cart.
func CheckoutSnapshot(reg *checkout.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := reg.Session(middleware.TillIDFromContext(r.Context()))
		responses.WriteSuccess(w, newSnapshotDTO(session.Snapshot()))
	}
}

// CheckoutAddLine adds a product by id or barcode. Weight and volume
// quantities are sent in grams or millilitres.
func CheckoutAddLine(reg *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := reg.Session(middleware.TillIDFromContext(r.Context()))
		if _, err := session.Add(r.Context(), checkout.AddInput{
			ProductID: payload.ProductID,
			Barcode:   payload.Barcode,
			Quantity:  *payload.Quantity,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newSnapshotDTO(session.Snapshot()))
	}
}

func CheckoutUpdateLine(reg *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := reg.Session(middleware.TillIDFromContext(r.Context()))
		if _, _, err := session.Update(r.Context(), productID, checkout.UpdateInput{
			Quantity:  *payload.Quantity,
			UnitPrice: payload.UnitPrice,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSnapshotDTO(session.Snapshot()))
	}
}

func CheckoutRemoveLine(reg *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := reg.Session(middleware.TillIDFromContext(r.Context()))
		if err := session.Remove(productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSnapshotDTO(session.Snapshot()))
	}
}

func CheckoutSelectParties(reg *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload partiesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := reg.Session(middleware.TillIDFromContext(r.Context()))
		if err := session.SelectParties(r.Context(), payload.CustomerID, payload.EmployeeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSnapshotDTO(session.Snapshot()))
	}
}

// CheckoutPaymentPreview computes the change for a tender without committing.
func CheckoutPaymentPreview(reg *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload paymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, received, err := payload.parse()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		settlement, err := reg.Session(middleware.TillIDFromContext(r.Context())).Preview(method, received)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSettlementDTO(settlement))
	}
}

// CheckoutConfirm commits the sale atomically and clears the cart.
func CheckoutConfirm(reg *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload paymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, received, err := payload.parse()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := reg.Session(middleware.TillIDFromContext(r.Context())).Confirm(r.Context(), method, received)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, confirmDTO{
			Sale:       sales.NewSaleDTO(result.Sale),
			Settlement: newSettlementDTO(result.Settlement),
		})
	}
}

func CheckoutCancel(reg *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := reg.Session(middleware.TillIDFromContext(r.Context()))
		if err := session.Cancel(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSnapshotDTO(session.Snapshot()))
	}
}

func newSnapshotDTO(s checkout.Snapshot) snapshotDTO {
	dto := snapshotDTO{
		TillID:     s.TillID,
		State:      s.State.String(),
		Lines:      make([]lineDTO, 0, len(s.Lines)),
		Total:      s.Total.StringFixed(2),
		CustomerID: s.CustomerID,
		EmployeeID: s.EmployeeID,
	}
	for _, l := range s.Lines {
		dto.Lines = append(dto.Lines, newLineDTO(l))
	}
	return dto
}

func newLineDTO(l cart.Line) lineDTO {
	return lineDTO{
		ProductID: l.ProductID,
		Name:      l.Name,
		Unit:      l.Unit.String(),
		Quantity:  l.Quantity.String(),
		UnitPrice: l.UnitPrice.StringFixed(2),
		Total:     l.Total().StringFixed(2),
	}
}

func newSettlementDTO(s pricing.Settlement) settlementDTO {
	return settlementDTO{
		Method:   s.Method.String(),
		Total:    s.Total.StringFixed(2),
		Received: s.Received.StringFixed(2),
		Change:   s.Change.StringFixed(2),
	}
}
