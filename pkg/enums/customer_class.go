package enums

import "fmt"

// CustomerClass separates consumer and business customers, which carry
// different per-kg pricing.
type CustomerClass string

const (
	CustomerClassConsumer CustomerClass = "b2c"
	CustomerClassBusiness CustomerClass = "b2b"
	CustomerClassAdmin    CustomerClass = "admin"
)

var validCustomerClasses = []CustomerClass{
	CustomerClassConsumer,
	CustomerClassBusiness,
	CustomerClassAdmin,
}

// String implements fmt.Stringer.
func (c CustomerClass) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomerClass.
func (c CustomerClass) IsValid() bool {
	for _, candidate := range validCustomerClasses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerClass converts raw input into a CustomerClass.
func ParseCustomerClass(value string) (CustomerClass, error) {
	for _, candidate := range validCustomerClasses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer class %q", value)
}
