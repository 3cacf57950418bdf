// Package testutil provides shared test helpers and synthetic traffic
// scenarios.
//
// Scenarios describe constant-speed vehicles in pixel space and produce the
// per-lane blob rectangles a frame differencer would have reported for each
// frame pair.
package testutil

import (
	"testing"

	"github.com/banshee-data/velocity.camera/internal/geom"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// Vehicle is a box moving at constant speed along one lane.
type Vehicle struct {
	LeftToRight bool
	StartFrame  int
	X0          int // left edge at StartFrame
	Width       int
	Y           int
	Height      int
	Speed       int // pixels per frame pair, always positive
}

// BoxAt returns the vehicle's box at frame, clipped to [0, corridor]. ok is
// false before StartFrame or when nothing of the vehicle is visible.
func (v Vehicle) BoxAt(frame, corridor int) (geom.Rect, bool) {
	if frame < v.StartFrame {
		return geom.Rect{}, false
	}
	step := v.Speed * (frame - v.StartFrame) / 2
	x := v.X0 + step
	if !v.LeftToRight {
		x = v.X0 - step
	}
	r := geom.Rect{X: x, Y: v.Y, W: v.Width, H: v.Height}
	if r.Right() <= 0 || r.X >= corridor {
		return geom.Rect{}, false
	}
	return r.ClipX(0, corridor), true
}

// Scenario is a set of vehicles sharing one corridor.
type Scenario struct {
	Corridor int
	MinArea  int
	Vehicles []Vehicle
}

// Blobs returns the visible boxes at frame, split by lane. Boxes smaller
// than MinArea are dropped.
func (s Scenario) Blobs(frame int) (l2r, r2l []geom.Rect) {
	for _, v := range s.Vehicles {
		r, ok := v.BoxAt(frame, s.Corridor)
		if !ok || r.Area() < s.MinArea {
			continue
		}
		if v.LeftToRight {
			l2r = append(l2r, r)
		} else {
			r2l = append(r2l, r)
		}
	}
	return l2r, r2l
}
