package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical calibration defaults file.
const DefaultConfigPath = "config/calibration.defaults.json"

// CalibrationConfig is the per-site configuration for one camera. Pixel
// positions are relative to the left edge of the analysis box, so the
// corridor always spans [0, AnalysisBoxWidth].
type CalibrationConfig struct {
	// Analysis box, in full-frame pixels
	AnalysisBoxLeft   *int `json:"analysis_box_left,omitempty"`
	AnalysisBoxTop    *int `json:"analysis_box_top,omitempty"`
	AnalysisBoxWidth  *int `json:"analysis_box_width,omitempty"`
	AnalysisBoxHeight *int `json:"analysis_box_height,omitempty"`

	// Speed measuring lines and foreground obstruction
	SpeedLineLeft     *int    `json:"speed_line_left,omitempty"`
	SpeedLineRight    *int    `json:"speed_line_right,omitempty"`
	Obstruction       *[2]int `json:"obstruction,omitempty"`
	ObstructionExtent *int    `json:"obstruction_extent,omitempty"`

	// Entry behaviour
	EntryLookBack     *int `json:"entry_look_back,omitempty"`
	MaxL2RDistOnEntry *int `json:"max_l2r_dist_on_entry,omitempty"` // pixels per frame pair
	MaxR2LDistOnEntry *int `json:"max_r2l_dist_on_entry,omitempty"` // pixels per frame pair
	NextHeight        *int `json:"next_height,omitempty"`

	// Calibration: frames a 25 mph vehicle needs to cross the speed zone
	CalibrationFramesL2R *int     `json:"calibration_frames_l2r,omitempty"`
	CalibrationFramesR2L *int     `json:"calibration_frames_r2l,omitempty"`
	AssumedFPS           *float64 `json:"assumed_fps,omitempty"`

	// Tracker tolerances
	Slop          *int `json:"slop,omitempty"`
	GapTolerance  *int `json:"gap_tolerance,omitempty"`
	OverrunMargin *int `json:"overrun_margin,omitempty"`

	// Blob pre-filter
	MinBlobArea     *int `json:"min_blob_area,omitempty"`
	MaxBlobsPerLane *int `json:"max_blobs_per_lane,omitempty"`

	// Reporting
	L2RDirection         *string `json:"l2r_direction,omitempty"`
	R2LDirection         *string `json:"r2l_direction,omitempty"`
	LargeVehicleArea     *int    `json:"large_vehicle_area,omitempty"`
	SpeedLimit           *int    `json:"speed_limit,omitempty"`
	MinReportSpeed       *int    `json:"min_report_speed,omitempty"`
	HighlightsEnabled    *bool   `json:"highlights_enabled,omitempty"`
	HighlightsSpeedLower *int    `json:"highlights_speed_lower,omitempty"`
	HighlightsSpeedUpper *int    `json:"highlights_speed_upper,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyCalibrationConfig returns a CalibrationConfig with all fields set to nil.
func EmptyCalibrationConfig() *CalibrationConfig {
	return &CalibrationConfig{}
}

// DefaultCalibrationConfig returns a fully populated config. The values
// match config/calibration.defaults.json.
func DefaultCalibrationConfig() *CalibrationConfig {
	return &CalibrationConfig{
		AnalysisBoxLeft:      ptrInt(10),
		AnalysisBoxTop:       ptrInt(220),
		AnalysisBoxWidth:     ptrInt(1269),
		AnalysisBoxHeight:    ptrInt(190),
		SpeedLineLeft:        ptrInt(350),
		SpeedLineRight:       ptrInt(909),
		Obstruction:          &[2]int{0, 0},
		ObstructionExtent:    ptrInt(30),
		EntryLookBack:        ptrInt(250),
		MaxL2RDistOnEntry:    ptrInt(75),
		MaxR2LDistOnEntry:    ptrInt(75),
		NextHeight:           ptrInt(85),
		CalibrationFramesL2R: ptrInt(35),
		CalibrationFramesR2L: ptrInt(40),
		AssumedFPS:           ptrFloat64(25.0),
		Slop:                 ptrInt(15),
		GapTolerance:         ptrInt(40),
		OverrunMargin:        ptrInt(200),
		MinBlobArea:          ptrInt(30 * 35),
		MaxBlobsPerLane:      ptrInt(30),
		L2RDirection:         ptrString("SE"),
		R2LDirection:         ptrString("NW"),
		LargeVehicleArea:     ptrInt(109),
		SpeedLimit:           ptrInt(25),
		MinReportSpeed:       ptrInt(18),
		HighlightsEnabled:    ptrBool(false),
		HighlightsSpeedLower: ptrInt(35),
		HighlightsSpeedUpper: ptrInt(100),
	}
}

// LoadCalibrationConfig loads a CalibrationConfig from a JSON file.
// Fields omitted from the file fall back to the Get* defaults, so partial
// configs are safe.
func LoadCalibrationConfig(path string) (*CalibrationConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyCalibrationConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches the current directory and common parent directories and
// panics if the file cannot be loaded. Intended for test setup and tools.
func MustLoadDefaultConfig() *CalibrationConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadCalibrationConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from repository root")
}

// Validate checks that the configured geometry is self-consistent.
func (c *CalibrationConfig) Validate() error {
	width := c.GetAnalysisBoxWidth()
	if width <= 0 {
		return fmt.Errorf("analysis_box_width must be positive, got %d", width)
	}
	if c.GetAnalysisBoxHeight() <= 0 {
		return fmt.Errorf("analysis_box_height must be positive, got %d", c.GetAnalysisBoxHeight())
	}

	left, right := c.GetSpeedLineLeft(), c.GetSpeedLineRight()
	if left <= 0 || right >= width || left >= right {
		return fmt.Errorf("speed lines must satisfy 0 < left < right < %d, got left=%d right=%d", width, left, right)
	}

	obs := c.GetObstruction()
	if obs[0] > obs[1] {
		return fmt.Errorf("obstruction must be [left, right] with left <= right, got %v", obs)
	}

	if c.GetCalibrationFramesL2R() <= 0 || c.GetCalibrationFramesR2L() <= 0 {
		return fmt.Errorf("calibration frames must be positive, got l2r=%d r2l=%d",
			c.GetCalibrationFramesL2R(), c.GetCalibrationFramesR2L())
	}
	if c.GetAssumedFPS() <= 0 {
		return fmt.Errorf("assumed_fps must be positive, got %f", c.GetAssumedFPS())
	}
	if c.GetMaxL2RDistOnEntry() <= 0 || c.GetMaxR2LDistOnEntry() <= 0 {
		return fmt.Errorf("max entry distances must be positive, got l2r=%d r2l=%d",
			c.GetMaxL2RDistOnEntry(), c.GetMaxR2LDistOnEntry())
	}
	if c.GetSlop() < 0 {
		return fmt.Errorf("slop must be non-negative, got %d", c.GetSlop())
	}
	if c.GetGapTolerance() < 0 {
		return fmt.Errorf("gap_tolerance must be non-negative, got %d", c.GetGapTolerance())
	}
	if c.GetMinBlobArea() < 0 {
		return fmt.Errorf("min_blob_area must be non-negative, got %d", c.GetMinBlobArea())
	}
	if c.GetMaxBlobsPerLane() <= 0 {
		return fmt.Errorf("max_blobs_per_lane must be positive, got %d", c.GetMaxBlobsPerLane())
	}

	lower, upper := c.GetHighlightsSpeedLower(), c.GetHighlightsSpeedUpper()
	if lower > upper {
		return fmt.Errorf("highlights_speed_lower (%d) exceeds highlights_speed_upper (%d)", lower, upper)
	}

	return nil
}

// HasObstruction reports whether a non-empty obstruction was configured.
func (c *CalibrationConfig) HasObstruction() bool {
	obs := c.GetObstruction()
	return obs[1] > obs[0]
}
