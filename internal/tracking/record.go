package tracking

// VehicleRecord is the terminal record of a track, pushed to the stats sink
// when the track is retired.
type VehicleRecord struct {
	TrackID     string
	Direction   Direction
	ReportFrame int // frame pair in which the track was retired
	EntryFrame  int // entry line crossing
	ExitFrame   int // exit line crossing
	FrameCount  int
	EntryPixel  int
	ExitPixel   int
	DeltaPixel  int // distance travelled between the crossings
	ProfileArea int
	FinalSpeed  int // mph, -1 when not measured
	Valid       bool
	Outcome     Outcome
}

// StatsSink receives finalized vehicle records.
type StatsSink interface {
	RecordVehicle(rec VehicleRecord) error
}

// TraceSink receives diagnostic narration, one line per event.
type TraceSink interface {
	Tracef(frame int, format string, args ...any)
}

// newVehicleRecord builds the record for t retired at frame. isOK is false
// for tracks that failed before completing a measurement.
func newVehicleRecord(t *Track, frame int, isOK bool) VehicleRecord {
	return VehicleRecord{
		TrackID:     t.TrackID,
		Direction:   t.Direction,
		ReportFrame: frame,
		EntryFrame:  t.TrackStartFrame,
		ExitFrame:   t.TrackEndFrame,
		FrameCount:  max(t.TrackEndFrame-t.TrackStartFrame, 1),
		EntryPixel:  t.TrackStartPixel,
		ExitPixel:   t.TrackEndPixel,
		DeltaPixel:  t.Direction.sign() * (t.TrackEndPixel - t.TrackStartPixel),
		ProfileArea: t.ProfileArea(),
		FinalSpeed:  t.FinalSpeed,
		Valid:       isOK && t.TrackEndPixel > 0 && t.FinalSpeed > 0,
		Outcome:     t.Outcome,
	}
}
