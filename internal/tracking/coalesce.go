package tracking

import "github.com/banshee-data/velocity.camera/internal/geom"

// Coalesce merges every blob whose horizontal extent touches [lo, hi] into
// one bounding box. GrabStrict clips the result to [lo, hi]. It returns
// geom.NoRect when no blob touches the range.
func Coalesce(blobs []geom.Rect, lo, hi int, policy GrabPolicy) geom.Rect {
	out := geom.NoRect
	found := false
	for _, b := range blobs {
		if !b.OverlapsX(lo, hi) {
			continue
		}
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	if !found {
		return geom.NoRect
	}
	if policy == GrabStrict {
		out = out.ClipX(lo, hi)
	}
	return out
}
