package enums

import "fmt"

// PlantingStatus tracks whether a planting is still in the ground.
type PlantingStatus string

const (
	PlantingStatusGrowing   PlantingStatus = "growing"
	PlantingStatusHarvested PlantingStatus = "harvested"
)

var validPlantingStatuses = []PlantingStatus{
	PlantingStatusGrowing,
	PlantingStatusHarvested,
}

// String implements fmt.Stringer.
func (p PlantingStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PlantingStatus.
func (p PlantingStatus) IsValid() bool {
	for _, candidate := range validPlantingStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlantingStatus converts raw input into a PlantingStatus.
func ParsePlantingStatus(value string) (PlantingStatus, error) {
	for _, candidate := range validPlantingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid planting status %q", value)
}
