package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
)

// Service manages staff records. Any employee may be attached to a sale.
type Service interface {
	CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
}

type CreateEmployeeInput struct {
	Name      string
	Role      enums.EmployeeRole
	Salary    decimal.Decimal
	HiredDate *time.Time
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employee repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error) {
	fields := map[string]string{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		fields["name"] = "required"
	}
	if !input.Role.IsValid() {
		fields["role"] = "must be Manager, Cashier or Salesman"
	}
	if input.Salary.IsNegative() {
		fields["salary"] = "must not be negative"
	}
	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid employee").WithDetails(fields)
	}

	employee := &models.Employee{
		Name:      name,
		Role:      input.Role,
		Salary:    input.Salary,
		HiredDate: input.HiredDate,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert employee")
	}
	return employee, nil
}

func (s *service) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found").
				WithDetails(map[string]any{"employee_id": id})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
	}
	return employee, nil
}

func (s *service) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list employees")
	}
	return rows, nil
}
