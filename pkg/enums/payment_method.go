package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod records how the customer paid. Amounts are recorded only; no
// gateway is involved.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "Cash"
	PaymentMethodCard   PaymentMethod = "Card"
	PaymentMethodBKash  PaymentMethod = "bKash"
	PaymentMethodNagad  PaymentMethod = "Nagad"
	PaymentMethodRocket PaymentMethod = "Rocket"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodBKash,
	PaymentMethodNagad,
	PaymentMethodRocket,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// TakesChange reports whether the tender may exceed the total.
func (p PaymentMethod) TakesChange() bool {
	return p == PaymentMethodCash
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
