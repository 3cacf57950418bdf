package tracking

import "github.com/banshee-data/velocity.camera/internal/geom"

// Direction is the lane a vehicle travels in, as seen by the camera.
type Direction string

const (
	LeftToRight Direction = "l2r"
	RightToLeft Direction = "r2l"
)

// sign is +1 for LeftToRight and -1 for RightToLeft. Multiplying a pixel
// difference by sign turns "further along the direction of travel" into a
// positive number.
func (d Direction) sign() int {
	if d == RightToLeft {
		return -1
	}
	return 1
}

func (d Direction) fsign() float64 { return float64(d.sign()) }

// VehicleState is the lifecycle state of a track inside the corridor.
type VehicleState string

const (
	Entering VehicleState = "entering" // rear bumper still pinned at the entry edge
	InMiddle VehicleState = "in_middle"
	Exiting  VehicleState = "exiting" // front bumper has reached the exit edge
	Exited   VehicleState = "exited"
)

// Outcome is the sticky health flag of a track.
type Outcome string

const (
	OK               Outcome = "ok"
	LostTrack        Outcome = "lost_track"
	NegativeVelocity Outcome = "negative_velocity"
)

// OverlapType records which bumpers of a track are occluded by opposing
// traffic.
type OverlapType string

const (
	OverlapNone      OverlapType = "none"
	OverlapRearOnly  OverlapType = "rear_only"
	OverlapFrontOnly OverlapType = "front_only"
	OverlapBoth      OverlapType = "both"
)

// frontOccluded reports whether the leading edge is hidden.
func (o OverlapType) frontOccluded() bool {
	return o == OverlapFrontOnly || o == OverlapBoth
}

// rearOccluded reports whether the trailing edge is hidden.
func (o OverlapType) rearOccluded() bool {
	return o == OverlapRearOnly || o == OverlapBoth
}

// GrabPolicy controls how Coalesce treats blobs that straddle the query
// range.
type GrabPolicy string

const (
	GrabGreedy GrabPolicy = "greedy" // union of all touching blobs, unclipped
	GrabStrict GrabPolicy = "strict" // union clipped to the query range
)

// Snapshot is one observed bounding box at one frame number.
type Snapshot struct {
	Box   geom.Rect
	Frame int
}

// Projection is the predicted box, state and velocity of a track for the
// current frame pair.
type Projection struct {
	Box      geom.Rect
	State    VehicleState
	Velocity int // pixels per frame pair
	Frame    int
}

// Crossing is a speed-line crossing: the frame it happened on and the
// projected front bumper pixel at that frame.
type Crossing struct {
	Frame int
	Pixel int
}

// LaneBlobs holds the candidate motion rectangles for one frame pair, one
// set per lane. Rectangles are already filtered by minimum area.
type LaneBlobs struct {
	L2R []geom.Rect
	R2L []geom.Rect
}

// For returns the blobs for the lane serving direction d.
func (b LaneBlobs) For(d Direction) []geom.Rect {
	if d == RightToLeft {
		return b.R2L
	}
	return b.L2R
}

// Total returns the number of blobs over both lanes.
func (b LaneBlobs) Total() int { return len(b.L2R) + len(b.R2L) }
