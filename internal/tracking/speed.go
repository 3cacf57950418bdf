package tracking

// ComputeFinalSpeed converts a measured crossing interval into mph.
//
// Frames are differenced in pairs, so a crossing is only seen to within one
// frame. When the start crossing was seen late and the end crossing early
// (relative to half the estimated velocity) the end frame is pushed out by
// one, and the reverse pulls it in. A non-positive frame delta yields -1.
func ComputeFinalSpeed(cfg TrackerConfig, d Direction, start, end Crossing, estVelocity int) int {
	half := estVelocity / 2
	s := d.sign()
	startLate := s * (start.Pixel - cfg.entryLine(d))
	endLate := s * (end.Pixel - cfg.exitLine(d))

	endFrame := end.Frame
	if startLate > half && endLate < half {
		endFrame++
	} else if startLate < half && endLate > half {
		endFrame--
	}

	delta := endFrame - start.Frame
	if delta <= 0 {
		return -1
	}
	return int(float64(cfg.calibrationFrames(d))/float64(delta)*cfg.AssumedFPS + 0.4999)
}
