// Package geom provides the small integer rectangle type shared by the
// tracker and its collaborators. It deliberately carries no dependency on
// any vision library.
package geom

// Rect is an axis-aligned pixel rectangle. X grows to the right and Y grows
// downwards, matching image coordinates.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// NoRect is returned by searches that found nothing.
var NoRect = Rect{X: -1}

// IsNone reports whether r is the NoRect sentinel.
func (r Rect) IsNone() bool { return r.X < 0 }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Area returns W*H.
func (r Rect) Area() int { return r.W * r.H }

// OverlapsX reports whether r's horizontal extent touches [lo, hi].
func (r Rect) OverlapsX(lo, hi int) bool {
	return r.X <= hi && r.Right() >= lo
}

// Intersects reports whether r and o share any area, edges included.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.Right() && o.X <= r.Right() &&
		r.Y <= o.Bottom() && o.Y <= r.Bottom()
}

// Union returns the bounding box of r and o.
func (r Rect) Union(o Rect) Rect {
	left := min(r.X, o.X)
	top := min(r.Y, o.Y)
	right := max(r.Right(), o.Right())
	bottom := max(r.Bottom(), o.Bottom())
	return Rect{X: left, Y: top, W: right - left, H: bottom - top}
}

// ClipX limits the horizontal extent of r to [lo, hi]. The result may have
// zero width when r lies outside the range.
func (r Rect) ClipX(lo, hi int) Rect {
	left := max(r.X, lo)
	right := min(r.Right(), hi)
	if right < left {
		right = left
	}
	r.X = left
	r.W = right - left
	return r
}

// Clamp returns v limited to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampFloat returns v limited to [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
