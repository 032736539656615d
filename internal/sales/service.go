package sales

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/pagination"
)

// Service reads committed sales. Sales are written only by the checkout commit.
type Service interface {
	GetSale(ctx context.Context, id int64) (*models.Sale, error)
	ListSales(ctx context.Context, params pagination.Params) (pagination.Page[models.Sale], error)
}

type service struct {
	repo *Repository
}

// NewService constructs a sales service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetSale(ctx context.Context, id int64) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found").
				WithDetails(map[string]any{"sale_id": id})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}
	return sale, nil
}

func (s *service) ListSales(ctx context.Context, params pagination.Params) (pagination.Page[models.Sale], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[models.Sale]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, cursor, params.Limit)
	if err != nil {
		return pagination.Page[models.Sale]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	return pagination.Trim(rows, params.Limit, func(s models.Sale) int64 { return s.ID }), nil
}
