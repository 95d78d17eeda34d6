package enums

import "fmt"

// LoyaltyEventType classifies entries in the loyalty point history.
type LoyaltyEventType string

const (
	LoyaltyEventEarn   LoyaltyEventType = "earn"
	LoyaltyEventSpend  LoyaltyEventType = "spend"
	LoyaltyEventBonus  LoyaltyEventType = "bonus"
	LoyaltyEventExpire LoyaltyEventType = "expire"
)

var validLoyaltyEventTypes = []LoyaltyEventType{
	LoyaltyEventEarn,
	LoyaltyEventSpend,
	LoyaltyEventBonus,
	LoyaltyEventExpire,
}

// String implements fmt.Stringer.
func (l LoyaltyEventType) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LoyaltyEventType.
func (l LoyaltyEventType) IsValid() bool {
	for _, candidate := range validLoyaltyEventTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLoyaltyEventType converts raw input into a LoyaltyEventType.
func ParseLoyaltyEventType(value string) (LoyaltyEventType, error) {
	for _, candidate := range validLoyaltyEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid loyalty event type %q", value)
}
