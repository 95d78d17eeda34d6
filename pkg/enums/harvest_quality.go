package enums

import "fmt"

// HarvestQuality grades a recorded harvest.
type HarvestQuality string

const (
	HarvestQualityExcellent HarvestQuality = "excellent"
	HarvestQualityGood      HarvestQuality = "good"
	HarvestQualityAverage   HarvestQuality = "average"
)

var validHarvestQualities = []HarvestQuality{
	HarvestQualityExcellent,
	HarvestQualityGood,
	HarvestQualityAverage,
}

// String implements fmt.Stringer.
func (h HarvestQuality) String() string {
	return string(h)
}

// IsValid reports whether the value is a known HarvestQuality.
func (h HarvestQuality) IsValid() bool {
	for _, candidate := range validHarvestQualities {
		if candidate == h {
			return true
		}
	}
	return false
}

// ParseHarvestQuality converts raw input into a HarvestQuality.
func ParseHarvestQuality(value string) (HarvestQuality, error) {
	for _, candidate := range validHarvestQualities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid harvest quality %q", value)
}
