// Package stats turns retired vehicle records into report output: the
// per-run CSV stats file, highlight selection and sink fan-out.
package stats

import (
	"github.com/banshee-data/velocity.camera/internal/config"
	"github.com/banshee-data/velocity.camera/internal/tracking"
)

// SuspectFlag marks implausible speeds in the stats file.
const SuspectFlag = "*****"

// Acceptance decides which records are reported and which are flagged.
type Acceptance struct {
	MinReportSpeed int // mph; slower vehicles are not reported
	CrazySpeed     int // mph; faster vehicles are flagged
}

// AcceptanceFromCalibration builds the thresholds from cfg.
func AcceptanceFromCalibration(cfg *config.CalibrationConfig) Acceptance {
	return Acceptance{
		MinReportSpeed: cfg.GetMinReportSpeed(),
		CrazySpeed:     cfg.GetCrazySpeed(),
	}
}

// Accept reports whether rec belongs in the stats file.
func (a Acceptance) Accept(rec tracking.VehicleRecord) bool {
	return rec.Valid && rec.FinalSpeed >= a.MinReportSpeed
}

// Flag returns SuspectFlag for implausible speeds and "" otherwise.
func (a Acceptance) Flag(rec tracking.VehicleRecord) string {
	if rec.FinalSpeed < 0 || rec.FinalSpeed > a.CrazySpeed {
		return SuspectFlag
	}
	return ""
}

// HighlightSelector picks vehicles worth a second look: speeders within a
// band, and anything large.
type HighlightSelector struct {
	Enabled          bool
	SpeedLower       int
	SpeedUpper       int
	LargeVehicleArea int
}

// HighlightSelectorFromCalibration builds the selector from cfg.
func HighlightSelectorFromCalibration(cfg *config.CalibrationConfig) HighlightSelector {
	return HighlightSelector{
		Enabled:          cfg.GetHighlightsEnabled(),
		SpeedLower:       cfg.GetHighlightsSpeedLower(),
		SpeedUpper:       cfg.GetHighlightsSpeedUpper(),
		LargeVehicleArea: cfg.GetLargeVehicleArea(),
	}
}

// Meets reports whether a vehicle with the given speed and profile area
// qualifies.
func (h HighlightSelector) Meets(speed, area int) bool {
	if !h.Enabled {
		return false
	}
	return (speed >= h.SpeedLower && speed <= h.SpeedUpper) || area >= h.LargeVehicleArea
}
