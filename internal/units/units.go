// Package units provides shared constants and validation for speed units
package units

import "strings"

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

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
	return strings.Join(ValidUnits, ", ")
}

// ConvertSpeed converts a speed from miles per hour to the target units.
// The tracker measures and the database stores speeds in mph.
func ConvertSpeed(speedMPH float64, targetUnits string) float64 {
	switch targetUnits {
	case MPS:
		return speedMPH * 0.44704 // mph to m/s
	case KMPH, KPH:
		return speedMPH * 1.609344 // mph to km/h
	case MPH:
		return speedMPH
	default:
		return speedMPH // default to mph if unknown unit
	}
}

// Label returns the display label for a unit.
func Label(unit string) string {
	switch unit {
	case MPS:
		return "m/s"
	case KMPH, KPH:
		return "km/h"
	default:
		return "mph"
	}
}
