package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/api/responses"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/api/validators"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/catalog"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/logger"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/pagination"
)

// ProductList returns a page of products, optionally filtered by ?category=.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var category enums.ProductCategory
		if raw := validators.ParseQueryString(r, "category", 32); raw != "" {
			parsed, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
					WithDetails(map[string]string{"category": "is invalid"}))
				return
			}
			category = parsed
		}

		page, err := svc.ListByCategory(r.Context(), category, pagination.Params{
			Limit:  limit,
			Cursor: validators.ParseQueryString(r, "cursor", 256),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagination.Page[catalog.ProductDTO]{
			Items:      catalog.NewProductDTOs(page.Items),
			NextCursor: page.NextCursor,
		})
	}
}

func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.NewProductDTO(product))
	}
}

func ProductByBarcode(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.FindByBarcode(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.NewProductDTO(product))
	}
}

func ProductLowStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListLowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.NewProductDTOs(rows))
	}
}

// ProductCreate registers a new product; barcodes are unique.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, catalog.NewProductDTO(product))
	}
}

// ProductUpdate applies a partial update, stock included.
func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.NewProductDTO(product))
	}
}

func ProductRestock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload restockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Restock(r.Context(), id, *payload.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.NewProductDTO(product))
	}
}

type createProductRequest struct {
	Name          string           `json:"name" validate:"required,max=255"`
	Barcode       string           `json:"barcode" validate:"required,max=64"`
	Category      string           `json:"category" validate:"required"`
	Unit          string           `json:"unit" validate:"required"`
	PurchasePrice *decimal.Decimal `json:"purchase_price" validate:"required"`
	SellingPrice  *decimal.Decimal `json:"selling_price" validate:"required"`
	StockQuantity *decimal.Decimal `json:"stock_quantity,omitempty"`
	MinimumStock  *decimal.Decimal `json:"minimum_stock,omitempty"`
}

func (r createProductRequest) toCreateInput() (catalog.CreateProductInput, error) {
	category, err := enums.ParseProductCategory(r.Category)
	if err != nil {
		return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}
	unit, err := enums.ParseProductUnit(r.Unit)
	if err != nil {
		return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
	}

	return catalog.CreateProductInput{
		Name:          r.Name,
		Barcode:       r.Barcode,
		Category:      category,
		Unit:          unit,
		PurchasePrice: *r.PurchasePrice,
		SellingPrice:  *r.SellingPrice,
		StockQuantity: valueOrZero(r.StockQuantity),
		MinimumStock:  valueOrZero(r.MinimumStock),
	}, nil
}

type updateProductRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Barcode       *string          `json:"barcode,omitempty" validate:"omitempty,max=64"`
	Category      *string          `json:"category,omitempty"`
	Unit          *string          `json:"unit,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
	StockQuantity *decimal.Decimal `json:"stock_quantity,omitempty"`
	MinimumStock  *decimal.Decimal `json:"minimum_stock,omitempty"`
}

func (r updateProductRequest) toUpdateInput() (catalog.UpdateProductInput, error) {
	input := catalog.UpdateProductInput{
		Name:          r.Name,
		Barcode:       r.Barcode,
		PurchasePrice: r.PurchasePrice,
		SellingPrice:  r.SellingPrice,
		StockQuantity: r.StockQuantity,
		MinimumStock:  r.MinimumStock,
	}
	if r.Category != nil {
		category, err := enums.ParseProductCategory(*r.Category)
		if err != nil {
			return catalog.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}
	if r.Unit != nil {
		unit, err := enums.ParseProductUnit(*r.Unit)
		if err != nil {
			return catalog.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
		}
		input.Unit = &unit
	}
	return input, nil
}

type restockRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
