package tracking

import (
	"github.com/banshee-data/velocity.camera/internal/config"
	"github.com/banshee-data/velocity.camera/internal/geom"
)

// TrackerConfig holds the geometry and tuning constants used by the
// predictor and the manager. Pixel positions are relative to the analysis
// box; the corridor spans [PixelLeft, PixelRight].
type TrackerConfig struct {
	PixelLeft  int
	PixelRight int

	// Speed measuring lines
	SpeedLineLeft  int
	SpeedLineRight int

	// Foreground obstruction [left, right]; empty when right <= left
	Obstruction       [2]int
	ObstructionExtent int

	EntryLookBack     int // initial rear bumper distance behind the first front bumper
	MaxL2RDistOnEntry int // pixels per frame pair
	MaxR2LDistOnEntry int
	DefaultHeight     int

	CalibrationFramesL2R int // frames a 25 mph vehicle takes between the lines
	CalibrationFramesR2L int
	AssumedFPS           float64

	Slop          int // occlusion margin for overlap classification
	GapTolerance  int // max |entryGap - endGap| for a valid measurement
	OverrunMargin int
	MinBlobArea   int

	// Internal tuning, not exposed in the calibration file.
	EdgeMargin      int // rear bumper closer than this to the entry edge is still at the edge
	InitialY        int
	InitialVelocity int
	MinRearSamples  int // rear bumper samples required before regression
	CenterWindow    int // best-profile window around corridor centre
	SampleWindow    int // regression window capacity
}

// DefaultTrackerConfig returns tracker configuration built from the
// compiled-in calibration defaults.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfigFromCalibration(config.DefaultCalibrationConfig())
}

// TrackerConfigFromCalibration builds a TrackerConfig from a loaded
// CalibrationConfig.
func TrackerConfigFromCalibration(cfg *config.CalibrationConfig) TrackerConfig {
	return TrackerConfig{
		PixelLeft:            0,
		PixelRight:           cfg.GetAnalysisBoxWidth(),
		SpeedLineLeft:        cfg.GetSpeedLineLeft(),
		SpeedLineRight:       cfg.GetSpeedLineRight(),
		Obstruction:          cfg.GetObstruction(),
		ObstructionExtent:    cfg.GetObstructionExtent(),
		EntryLookBack:        cfg.GetEntryLookBack(),
		MaxL2RDistOnEntry:    cfg.GetMaxL2RDistOnEntry(),
		MaxR2LDistOnEntry:    cfg.GetMaxR2LDistOnEntry(),
		DefaultHeight:        cfg.GetNextHeight(),
		CalibrationFramesL2R: cfg.GetCalibrationFramesL2R(),
		CalibrationFramesR2L: cfg.GetCalibrationFramesR2L(),
		AssumedFPS:           cfg.GetAssumedFPS(),
		Slop:                 cfg.GetSlop(),
		GapTolerance:         cfg.GetGapTolerance(),
		OverrunMargin:        cfg.GetOverrunMargin(),
		MinBlobArea:          cfg.GetMinBlobArea(),
		EdgeMargin:           45,
		InitialY:             60,
		InitialVelocity:      10,
		MinRearSamples:       5,
		CenterWindow:         70,
		SampleWindow:         8,
	}
}

// ValidGap reports whether the difference between the entry and exit
// measurement gaps is small enough for the speed to be trusted.
func (c TrackerConfig) ValidGap(gap int) bool {
	if gap < 0 {
		gap = -gap
	}
	return gap <= c.GapTolerance
}

func (c TrackerConfig) hasObstruction() bool {
	return c.Obstruction[1] > c.Obstruction[0]
}

// inFrontObstruction reports whether a front bumper at px is hidden by the
// obstruction. The zone is extended on the side the bumper leaves from.
func (c TrackerConfig) inFrontObstruction(d Direction, px int) bool {
	if !c.hasObstruction() {
		return false
	}
	lo, hi := c.Obstruction[0], c.Obstruction[1]
	if d == LeftToRight {
		hi += c.ObstructionExtent
	} else {
		lo -= c.ObstructionExtent
	}
	return px >= lo && px <= hi
}

// inRearObstruction is the rear bumper counterpart of inFrontObstruction.
func (c TrackerConfig) inRearObstruction(d Direction, px int) bool {
	if !c.hasObstruction() {
		return false
	}
	lo, hi := c.Obstruction[0], c.Obstruction[1]
	if d == LeftToRight {
		lo -= c.ObstructionExtent
	} else {
		hi += c.ObstructionExtent
	}
	return px >= lo && px <= hi
}

func (c TrackerConfig) entryEdge(d Direction) int {
	if d == RightToLeft {
		return c.PixelRight
	}
	return c.PixelLeft
}

func (c TrackerConfig) exitEdge(d Direction) int {
	if d == RightToLeft {
		return c.PixelLeft
	}
	return c.PixelRight
}

// entryLine is the first speed line a vehicle in direction d crosses.
func (c TrackerConfig) entryLine(d Direction) int {
	if d == RightToLeft {
		return c.SpeedLineRight
	}
	return c.SpeedLineLeft
}

func (c TrackerConfig) exitLine(d Direction) int {
	if d == RightToLeft {
		return c.SpeedLineLeft
	}
	return c.SpeedLineRight
}

func (c TrackerConfig) maxEntry(d Direction) int {
	if d == RightToLeft {
		return c.MaxR2LDistOnEntry
	}
	return c.MaxL2RDistOnEntry
}

func (c TrackerConfig) calibrationFrames(d Direction) int {
	if d == RightToLeft {
		return c.CalibrationFramesR2L
	}
	return c.CalibrationFramesL2R
}

func (c TrackerConfig) clampPixel(px float64) float64 {
	return geom.ClampFloat(px, float64(c.PixelLeft), float64(c.PixelRight))
}

// frontEdge is the leading edge of r for direction d.
func frontEdge(d Direction, r geom.Rect) int {
	if d == RightToLeft {
		return r.X
	}
	return r.Right()
}

// rearEdge is the trailing edge of r for direction d.
func rearEdge(d Direction, r geom.Rect) int {
	if d == RightToLeft {
		return r.Right()
	}
	return r.X
}

// boxFromBumpers builds the projected box spanning the two bumpers.
func boxFromBumpers(d Direction, front, rear float64, y, h int) geom.Rect {
	if d == RightToLeft {
		return geom.Rect{X: int(front), Y: y, W: int(rear - front), H: h}
	}
	return geom.Rect{X: int(rear), Y: y, W: int(front - rear), H: h}
}
