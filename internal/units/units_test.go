package units

import (
	"math"
	"testing"
)

func TestConvertSpeed(t *testing.T) {
	tests := []struct {
		name     string
		speed    float64
		vo       float64
		units    string
		expected float64
	}{
		{"1 natural to kms", 1.0, 220, KMS, 220},
		{"0.5 natural to kms", 0.5, 220, KMS, 110},
		{"1 natural to kpcgyr", 1.0, 220, KPCGYR, 224.996},
		{"natural unchanged", 0.3, 220, Natural, 0.3},
		{"unknown units default to natural", 0.3, 220, "unknown", 0.3},
		{"zero", 0.0, 220, KMS, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertSpeed(tt.speed, tt.vo, tt.units)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("ConvertSpeed(%f, %f, %s) = %f, want %f", tt.speed, tt.vo, tt.units, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid natural", Natural, true},
		{"valid kms", KMS, true},
		{"valid kpcgyr", KPCGYR, true},
		{"invalid unit", "mph", false},
		{"empty string", "", false},
		{"case sensitive", "KMS", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValid(tt.unit)
			if result != tt.expected {
				t.Errorf("IsValid(%s) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}
}

func TestGetValidUnitsString(t *testing.T) {
	expected := "natural, kms, kpcgyr"
	result := GetValidUnitsString()
	if result != expected {
		t.Errorf("GetValidUnitsString() = %s, want %s", result, expected)
	}
}

func TestGalacticUnits(t *testing.T) {
	// vo = 220 km/s, ro = 8 kpc
	tests := []struct {
		name     string
		got      float64
		expected float64
		tol      float64
	}{
		{"mass unit", MassIn1010Msol(220, 8), 9.0027, 1e-3},
		{"frequency unit", FreqInKmsKpc(220, 8), 27.5, 1e-12},
		{"time unit", TimeInGyr(220, 8), 0.035557, 1e-5},
		{"1e8 Msun subhalo", MassToNatural(1e8, 220, 8), 1e-2 / 9.0027, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.expected) > tt.tol {
				t.Errorf("%s = %g, want %g", tt.name, tt.got, tt.expected)
			}
		})
	}
}
