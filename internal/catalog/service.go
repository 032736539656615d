package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/pagination"
)

const barcodeConstraint = "products_barcode_key"

// Service exposes catalog reads used at the till and the product admin writes.
type Service interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	ListByCategory(ctx context.Context, category enums.ProductCategory, params pagination.Params) (pagination.Page[models.Product], error)
	ListLowStock(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*models.Product, error)
	Restock(ctx context.Context, id int64, amount decimal.Decimal) (*models.Product, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	Barcode       string
	Category      enums.ProductCategory
	Unit          enums.ProductUnit
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	StockQuantity decimal.Decimal
	MinimumStock  decimal.Decimal
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name          *string
	Barcode       *string
	Category      *enums.ProductCategory
	Unit          *enums.ProductUnit
	PurchasePrice *decimal.Decimal
	SellingPrice  *decimal.Decimal
	StockQuantity *decimal.Decimal
	MinimumStock  *decimal.Decimal
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ProductNotFound(id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	code := strings.TrimSpace(barcode)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	product, err := s.repo.FindByBarcode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeBarcodeNotFound, "no product carries this barcode").
				WithDetails(map[string]any{"barcode": code})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup barcode")
	}
	return product, nil
}

func (s *service) ListByCategory(ctx context.Context, category enums.ProductCategory, params pagination.Params) (pagination.Page[models.Product], error) {
	if category != "" && !category.IsValid() {
		return pagination.Page[models.Product]{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown category").
			WithDetails(map[string]any{"category": category.String()})
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[models.Product]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, category, cursor, params.Limit)
	if err != nil {
		return pagination.Page[models.Product]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return pagination.Trim(rows, params.Limit, func(p models.Product) int64 { return p.ID }), nil
}

func (s *service) ListLowStock(ctx context.Context) ([]models.Product, error) {
	rows, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock")
	}
	return rows, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		Barcode:       strings.TrimSpace(input.Barcode),
		Category:      input.Category,
		Unit:          input.Unit,
		PurchasePrice: input.PurchasePrice,
		SellingPrice:  input.SellingPrice,
		StockQuantity: input.StockQuantity,
		MinimumStock:  input.MinimumStock,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, duplicateBarcode(product.Barcode)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdateToProduct(product, input)
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, duplicateBarcode(product.Barcode)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return product, nil
}

func (s *service) Restock(ctx context.Context, id int64, amount decimal.Decimal) (*models.Product, error) {
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "restock amount must be positive")
	}
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Unit.IsFractional() && !amount.IsInteger() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "piece units restock in whole numbers").
			WithDetails(map[string]any{"unit": product.Unit.String()})
	}

	ok, err := s.repo.IncrementStock(ctx, id, amount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restock product")
	}
	if !ok {
		return nil, ProductNotFound(id)
	}
	return s.GetProduct(ctx, id)
}

// ProductNotFound builds the lookup-miss error for a product id.
func ProductNotFound(id int64) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found").
		WithDetails(map[string]any{"product_id": id})
}

func duplicateBarcode(barcode string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeConflict, "barcode already exists").
		WithDetails(map[string]any{"barcode": barcode, "constraint": barcodeConstraint})
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Barcode != nil {
		product.Barcode = strings.TrimSpace(*input.Barcode)
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.PurchasePrice != nil {
		product.PurchasePrice = *input.PurchasePrice
	}
	if input.SellingPrice != nil {
		product.SellingPrice = *input.SellingPrice
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.MinimumStock != nil {
		product.MinimumStock = *input.MinimumStock
	}
}

func validateProduct(p *models.Product) error {
	fields := map[string]string{}
	if p.Name == "" {
		fields["name"] = "required"
	}
	if p.Barcode == "" {
		fields["barcode"] = "required"
	}
	if !p.Category.IsValid() {
		fields["category"] = "unknown category"
	}
	if !p.Unit.IsValid() {
		fields["unit"] = "unknown unit"
	}
	if p.PurchasePrice.IsNegative() {
		fields["purchase_price"] = "must not be negative"
	}
	if p.SellingPrice.IsNegative() {
		fields["selling_price"] = "must not be negative"
	}
	if p.StockQuantity.IsNegative() {
		fields["stock_quantity"] = "must not be negative"
	} else if p.Unit.IsValid() && !p.Unit.IsFractional() && !p.StockQuantity.IsInteger() {
		fields["stock_quantity"] = "piece units hold whole numbers"
	}
	if p.MinimumStock.IsNegative() {
		fields["minimum_stock"] = "must not be negative"
	}
	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(fields)
	}
	return nil
}
