package employees

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/dbtest"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
)

func TestCreateAndGetEmployee(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t).DB()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, CreateEmployeeInput{
		Name:   "Rahim",
		Role:   enums.EmployeeRoleCashier,
		Salary: decimal.NewFromInt(15000),
	})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}

	got, err := svc.GetEmployee(ctx, created.ID)
	if err != nil {
		t.Fatalf("get employee: %v", err)
	}
	if got.Role != enums.EmployeeRoleCashier {
		t.Fatalf("expected cashier, got %s", got.Role)
	}

	rows, err := svc.ListEmployees(ctx)
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected one employee, got %d err=%v", len(rows), err)
	}

	if _, err := svc.GetEmployee(ctx, 404); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t).DB()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Name:   " ",
		Role:   enums.EmployeeRole("Owner"),
		Salary: decimal.NewFromInt(-1),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := typed.Details().(map[string]string)
	for _, key := range []string{"name", "role", "salary"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("expected %s in details, got %v", key, fields)
		}
	}
}
