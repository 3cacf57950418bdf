package tracking

import "github.com/banshee-data/velocity.camera/internal/geom"

// ClassifyOverlap reports which bumpers of self, moving in direction d, fall
// inside any of the opposing projections. The leading edge is pushed out by
// Slop and the trailing edge by 4*Slop, both clamped to the corridor.
func ClassifyOverlap(cfg TrackerConfig, d Direction, self geom.Rect, opposing []geom.Rect) OverlapType {
	var front, rear int
	if d == LeftToRight {
		rear = max(self.X-4*cfg.Slop, cfg.PixelLeft)
		front = min(rear+self.W+5*cfg.Slop, cfg.PixelRight)
	} else {
		front = max(self.X-cfg.Slop, cfg.PixelLeft)
		rear = min(front+self.W+5*cfg.Slop, cfg.PixelRight)
	}

	var frontHit, rearHit bool
	for _, o := range opposing {
		if front >= o.X && front <= o.Right() {
			frontHit = true
		}
		if rear >= o.X && rear <= o.Right() {
			rearHit = true
		}
	}

	switch {
	case frontHit && rearHit:
		return OverlapBoth
	case frontHit:
		return OverlapFrontOnly
	case rearHit:
		return OverlapRearOnly
	default:
		return OverlapNone
	}
}
