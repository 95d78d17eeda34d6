package enums

import "fmt"

// VegetableType identifies the crop families the farm grows and sells.
type VegetableType string

const (
	VegetableTypeSquash   VegetableType = "squash"
	VegetableTypeOkra     VegetableType = "okra"
	VegetableTypeEggplant VegetableType = "eggplant"
)

var validVegetableTypes = []VegetableType{
	VegetableTypeSquash,
	VegetableTypeOkra,
	VegetableTypeEggplant,
}

// String implements fmt.Stringer.
func (v VegetableType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VegetableType.
func (v VegetableType) IsValid() bool {
	for _, candidate := range validVegetableTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVegetableType converts raw input into a VegetableType.
func ParseVegetableType(value string) (VegetableType, error) {
	for _, candidate := range validVegetableTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vegetable type %q", value)
}
