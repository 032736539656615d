package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/api/responses"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/api/validators"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/customers"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/employees"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/suppliers"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/logger"
)

const dateLayout = "2006-01-02"

type contactDTO struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

type employeeDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	Salary    string  `json:"salary"`
	HiredDate *string `json:"hired_date,omitempty"`
}

type contactRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address *string `json:"address,omitempty"`
}

type employeeRequest struct {
	Name      string           `json:"name" validate:"required,max=255"`
	Role      string           `json:"role" validate:"required"`
	Salary    *decimal.Decimal `json:"salary,omitempty"`
	HiredDate *string          `json:"hired_date,omitempty"`
}

func CustomerList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListCustomers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]contactDTO, 0, len(rows))
		for _, c := range rows {
			out = append(out, customerDTO(c))
		}
		responses.WriteSuccess(w, out)
	}
}

func CustomerCreate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload contactRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.CreateCustomer(r.Context(), customers.CreateCustomerInput{
			Name:    payload.Name,
			Phone:   payload.Phone,
			Address: payload.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, customerDTO(*customer))
	}
}

func CustomerGet(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.GetCustomer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customerDTO(*customer))
	}
}

func EmployeeList(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListEmployees(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]employeeDTO, 0, len(rows))
		for _, e := range rows {
			out = append(out, newEmployeeDTO(e))
		}
		responses.WriteSuccess(w, out)
	}
}

func EmployeeCreate(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload employeeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employee, err := svc.CreateEmployee(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newEmployeeDTO(*employee))
	}
}

func EmployeeGet(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employee, err := svc.GetEmployee(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newEmployeeDTO(*employee))
	}
}

func SupplierList(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListSuppliers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]contactDTO, 0, len(rows))
		for _, s := range rows {
			out = append(out, supplierDTO(s))
		}
		responses.WriteSuccess(w, out)
	}
}

func SupplierCreate(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload contactRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplier, err := svc.CreateSupplier(r.Context(), suppliers.CreateSupplierInput{
			Name:    payload.Name,
			Phone:   payload.Phone,
			Address: payload.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, supplierDTO(*supplier))
	}
}

func (r employeeRequest) toInput() (employees.CreateEmployeeInput, error) {
	role, err := enums.ParseEmployeeRole(r.Role)
	if err != nil {
		return employees.CreateEmployeeInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role").
			WithDetails(map[string]string{"role": "is invalid"})
	}
	input := employees.CreateEmployeeInput{
		Name:   r.Name,
		Role:   role,
		Salary: valueOrZero(r.Salary),
	}
	if r.HiredDate != nil && *r.HiredDate != "" {
		hired, err := time.Parse(dateLayout, *r.HiredDate)
		if err != nil {
			return employees.CreateEmployeeInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid hired_date").
				WithDetails(map[string]string{"hired_date": "must be YYYY-MM-DD"})
		}
		input.HiredDate = &hired
	}
	return input, nil
}

func customerDTO(c models.Customer) contactDTO {
	return contactDTO{ID: c.ID, Name: c.Name, Phone: c.Phone, Address: c.Address}
}

func supplierDTO(s models.Supplier) contactDTO {
	return contactDTO{ID: s.ID, Name: s.Name, Phone: s.Phone, Address: s.Address}
}

func newEmployeeDTO(e models.Employee) employeeDTO {
	dto := employeeDTO{
		ID:     e.ID,
		Name:   e.Name,
		Role:   e.Role.String(),
		Salary: e.Salary.StringFixed(2),
	}
	if e.HiredDate != nil {
		hired := e.HiredDate.Format(dateLayout)
		dto.HiredDate = &hired
	}
	return dto
}
