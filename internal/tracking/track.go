package tracking

import (
	"github.com/banshee-data/velocity.camera/internal/geom"
	"github.com/google/uuid"
)

// TransitStats summarises a track's passage through the corridor. It is
// assembled when the track starts exiting or is terminated.
type TransitStats struct {
	EntryFrame int // frame of the first snapshot
	ExitFrame  int // frame pair before the one that ended the transit
	EntryPixel int // front edge of the first snapshot
	ExitPixel  int // front edge of the last snapshot
}

// Track is the tracker's state for one vehicle.
type Track struct {
	// Identity
	TrackID   string
	Direction Direction

	// Lifecycle
	State   VehicleState
	Outcome Outcome
	Overlap OverlapType

	snaps    []Snapshot
	coasting bool // last snapshot was synthesised for a missing frame pair

	// Regression windows for the front and rear bumpers
	front sampleWindow
	rear  sampleWindow

	FrontSlope     float64
	FrontIntercept float64
	RearSlope      float64
	RearIntercept  float64

	// Projected estimates
	NextFrontBumper float64
	NextRearBumper  float64
	NextHeight      int
	NextY           int
	EstVelocity     int // pixels per frame pair
	BestVelocity    int
	BestHeight      int
	BestWidth       int

	DeadReckonFront bool
	DeadReckonRear  bool

	// Speed measurement bookkeeping
	TrackStartFrame int
	TrackStartPixel int
	TrackEndFrame   int
	TrackEndPixel   int // -1 once the measurement is invalidated
	EntryGap        int
	FinalSpeed      int // mph, -1 until computed
	startRecorded   bool
	endRecorded     bool

	Transit TransitStats
}

// NewTrack creates an empty track for direction d. windowSize bounds the
// regression sample windows.
func NewTrack(d Direction, windowSize int) *Track {
	return &Track{
		TrackID:    uuid.NewString(),
		Direction:  d,
		State:      Entering,
		Outcome:    OK,
		Overlap:    OverlapNone,
		front:      newSampleWindow(windowSize),
		rear:       newSampleWindow(windowSize),
		FinalSpeed: -1,
	}
}

// AddSnapshot appends an observation.
func (t *Track) AddSnapshot(box geom.Rect, frame int) {
	t.snaps = append(t.snaps, Snapshot{Box: box, Frame: frame})
	if len(t.snaps) == 1 {
		t.State = Entering
	}
}

// Snapshots returns a copy of the observation history.
func (t *Track) Snapshots() []Snapshot {
	out := make([]Snapshot, len(t.snaps))
	copy(out, t.snaps)
	return out
}

// SnapshotCount returns the number of observations, synthesised ones
// included.
func (t *Track) SnapshotCount() int { return len(t.snaps) }

// MarkInvalidSpeed closes the speed measurement without a result. Used when
// the vehicle was already past the entry line when first seen.
func (t *Track) MarkInvalidSpeed() {
	t.TrackEndPixel = -1
	t.endRecorded = true
}

// StartRecorded reports whether the entry line crossing has been recorded.
func (t *Track) StartRecorded() bool { return t.startRecorded }

// EndRecorded reports whether the exit line crossing has been handled,
// successfully or not.
func (t *Track) EndRecorded() bool { return t.endRecorded }

// ProfileArea is the scaled cross-section area of the vehicle, taken when it
// was centred in the corridor.
func (t *Track) ProfileArea() int {
	return t.BestHeight * t.BestWidth / 300
}

// frontAhead reports whether the projected front bumper is ahead of the rear
// bumper in the direction of travel.
func (t *Track) frontAhead() bool {
	return t.Direction.fsign()*(t.NextFrontBumper-t.NextRearBumper) > 0
}

func (t *Track) assembleStats(frame int) {
	first, last := t.snaps[0], t.snaps[len(t.snaps)-1]
	t.Transit = TransitStats{
		EntryFrame: first.Frame,
		ExitFrame:  frame - 2,
		EntryPixel: frontEdge(t.Direction, first.Box),
		ExitPixel:  frontEdge(t.Direction, last.Box),
	}
}
