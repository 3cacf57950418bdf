package config

// GetAnalysisBoxLeft returns the analysis_box_left value or the default.
func (c *CalibrationConfig) GetAnalysisBoxLeft() int {
	if c.AnalysisBoxLeft == nil {
		return 10
	}
	return *c.AnalysisBoxLeft
}

// GetAnalysisBoxTop returns the analysis_box_top value or the default.
func (c *CalibrationConfig) GetAnalysisBoxTop() int {
	if c.AnalysisBoxTop == nil {
		return 220
	}
	return *c.AnalysisBoxTop
}

// GetAnalysisBoxWidth returns the analysis_box_width value or the default.
func (c *CalibrationConfig) GetAnalysisBoxWidth() int {
	if c.AnalysisBoxWidth == nil {
		return 1269
	}
	return *c.AnalysisBoxWidth
}

// GetAnalysisBoxHeight returns the analysis_box_height value or the default.
func (c *CalibrationConfig) GetAnalysisBoxHeight() int {
	if c.AnalysisBoxHeight == nil {
		return 190
	}
	return *c.AnalysisBoxHeight
}

// GetSpeedLineLeft returns the speed_line_left value or the default.
func (c *CalibrationConfig) GetSpeedLineLeft() int {
	if c.SpeedLineLeft == nil {
		return 350
	}
	return *c.SpeedLineLeft
}

// GetSpeedLineRight returns the speed_line_right value or the default.
func (c *CalibrationConfig) GetSpeedLineRight() int {
	if c.SpeedLineRight == nil {
		return 909
	}
	return *c.SpeedLineRight
}

// GetObstruction returns the [left, right] obstruction bounds. The default
// [0, 0] means no obstruction.
func (c *CalibrationConfig) GetObstruction() [2]int {
	if c.Obstruction == nil {
		return [2]int{0, 0}
	}
	return *c.Obstruction
}

// GetObstructionExtent returns the obstruction_extent value or the default.
func (c *CalibrationConfig) GetObstructionExtent() int {
	if c.ObstructionExtent == nil {
		return 30
	}
	return *c.ObstructionExtent
}

// GetEntryLookBack returns the entry_look_back value or the default.
func (c *CalibrationConfig) GetEntryLookBack() int {
	if c.EntryLookBack == nil {
		return 250
	}
	return *c.EntryLookBack
}

// GetMaxL2RDistOnEntry returns the max_l2r_dist_on_entry value or the default.
func (c *CalibrationConfig) GetMaxL2RDistOnEntry() int {
	if c.MaxL2RDistOnEntry == nil {
		return 75
	}
	return *c.MaxL2RDistOnEntry
}

// GetMaxR2LDistOnEntry returns the max_r2l_dist_on_entry value or the default.
func (c *CalibrationConfig) GetMaxR2LDistOnEntry() int {
	if c.MaxR2LDistOnEntry == nil {
		return 75
	}
	return *c.MaxR2LDistOnEntry
}

// GetNextHeight returns the next_height value or the default.
func (c *CalibrationConfig) GetNextHeight() int {
	if c.NextHeight == nil {
		return 85
	}
	return *c.NextHeight
}

// GetCalibrationFramesL2R returns the calibration_frames_l2r value or the default.
func (c *CalibrationConfig) GetCalibrationFramesL2R() int {
	if c.CalibrationFramesL2R == nil {
		return 35
	}
	return *c.CalibrationFramesL2R
}

// GetCalibrationFramesR2L returns the calibration_frames_r2l value or the default.
func (c *CalibrationConfig) GetCalibrationFramesR2L() int {
	if c.CalibrationFramesR2L == nil {
		return 40
	}
	return *c.CalibrationFramesR2L
}

// GetAssumedFPS returns the assumed_fps value or the default.
func (c *CalibrationConfig) GetAssumedFPS() float64 {
	if c.AssumedFPS == nil {
		return 25.0
	}
	return *c.AssumedFPS
}

// GetSlop returns the slop value or the default.
func (c *CalibrationConfig) GetSlop() int {
	if c.Slop == nil {
		return 15
	}
	return *c.Slop
}

// GetGapTolerance returns the gap_tolerance value or the default.
func (c *CalibrationConfig) GetGapTolerance() int {
	if c.GapTolerance == nil {
		return 40
	}
	return *c.GapTolerance
}

// GetOverrunMargin returns the overrun_margin value or the default.
func (c *CalibrationConfig) GetOverrunMargin() int {
	if c.OverrunMargin == nil {
		return 200
	}
	return *c.OverrunMargin
}

// GetMinBlobArea returns the min_blob_area value or the default.
func (c *CalibrationConfig) GetMinBlobArea() int {
	if c.MinBlobArea == nil {
		return 30 * 35
	}
	return *c.MinBlobArea
}

// GetMaxBlobsPerLane returns the max_blobs_per_lane value or the default.
func (c *CalibrationConfig) GetMaxBlobsPerLane() int {
	if c.MaxBlobsPerLane == nil {
		return 30
	}
	return *c.MaxBlobsPerLane
}

// GetL2RDirection returns the compass label for left-to-right traffic.
func (c *CalibrationConfig) GetL2RDirection() string {
	if c.L2RDirection == nil || *c.L2RDirection == "" {
		return "SE"
	}
	return *c.L2RDirection
}

// GetR2LDirection returns the compass label for right-to-left traffic.
func (c *CalibrationConfig) GetR2LDirection() string {
	if c.R2LDirection == nil || *c.R2LDirection == "" {
		return "NW"
	}
	return *c.R2LDirection
}

// GetLargeVehicleArea returns the large_vehicle_area value or the default.
func (c *CalibrationConfig) GetLargeVehicleArea() int {
	if c.LargeVehicleArea == nil {
		return 109
	}
	return *c.LargeVehicleArea
}

// GetSpeedLimit returns the speed_limit value (mph) or the default.
func (c *CalibrationConfig) GetSpeedLimit() int {
	if c.SpeedLimit == nil {
		return 25
	}
	return *c.SpeedLimit
}

// GetMinReportSpeed returns the min_report_speed value (mph) or the default.
func (c *CalibrationConfig) GetMinReportSpeed() int {
	if c.MinReportSpeed == nil {
		return 18
	}
	return *c.MinReportSpeed
}

// GetHighlightsEnabled returns the highlights_enabled value or the default.
func (c *CalibrationConfig) GetHighlightsEnabled() bool {
	if c.HighlightsEnabled == nil {
		return false
	}
	return *c.HighlightsEnabled
}

// GetHighlightsSpeedLower returns the highlights_speed_lower value or the default.
func (c *CalibrationConfig) GetHighlightsSpeedLower() int {
	if c.HighlightsSpeedLower == nil {
		return 35
	}
	return *c.HighlightsSpeedLower
}

// GetHighlightsSpeedUpper returns the highlights_speed_upper value or the default.
func (c *CalibrationConfig) GetHighlightsSpeedUpper() int {
	if c.HighlightsSpeedUpper == nil {
		return 100
	}
	return *c.HighlightsSpeedUpper
}

// GetEgregiousSpeed returns the lower bound of egregious speeds: ten over
// the limit.
func (c *CalibrationConfig) GetEgregiousSpeed() int {
	return c.GetSpeedLimit() + 10
}

// GetCrazySpeed returns the speed above which a reported measurement is
// flagged as suspect.
func (c *CalibrationConfig) GetCrazySpeed() int {
	return c.GetEgregiousSpeed() + 20
}
