package enums

import "fmt"

// CheckoutState tracks a till's checkout session through its lifecycle.
type CheckoutState string

const (
	CheckoutStateEmpty      CheckoutState = "empty"
	CheckoutStateBuilding   CheckoutState = "building"
	CheckoutStateCommitting CheckoutState = "committing"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateEmpty,
	CheckoutStateBuilding,
	CheckoutStateCommitting,
}

// String implements fmt.Stringer.
func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutState.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
