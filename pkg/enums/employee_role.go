package enums

import (
	"fmt"
	"strings"
)

// EmployeeRole is the job an employee holds in the shop.
type EmployeeRole string

const (
	EmployeeRoleManager  EmployeeRole = "Manager"
	EmployeeRoleCashier  EmployeeRole = "Cashier"
	EmployeeRoleSalesman EmployeeRole = "Salesman"
)

var validEmployeeRoles = []EmployeeRole{
	EmployeeRoleManager,
	EmployeeRoleCashier,
	EmployeeRoleSalesman,
}

// String implements fmt.Stringer.
func (r EmployeeRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known EmployeeRole.
func (r EmployeeRole) IsValid() bool {
	for _, candidate := range validEmployeeRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseEmployeeRole converts raw input into an EmployeeRole.
func ParseEmployeeRole(value string) (EmployeeRole, error) {
	for _, candidate := range validEmployeeRoles {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid employee role %q", value)
}
