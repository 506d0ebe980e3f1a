// Package units converts between natural units (G = 1, a circular speed vo at
// radius ro both equal to 1) and physical units.
package units

// Speed unit constants
const (
	Natural = "natural"
	KMS     = "kms"
	KPCGYR  = "kpcgyr"
)

// ValidUnits contains all valid speed unit values
var ValidUnits = []string{Natural, KMS, KPCGYR}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "natural, kms, kpcgyr"
}

// ConvertSpeed converts a speed in natural units to the target units, with vo
// the velocity unit in km/s.
func ConvertSpeed(speed, vo float64, targetUnits string) float64 {
	switch targetUnits {
	case KMS:
		return speed * vo
	case KPCGYR:
		return speed * vo * GyrInS / KpcInKm
	default:
		return speed // natural if unknown
	}
}
