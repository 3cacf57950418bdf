package tracking

import (
	"testing"

	"github.com/banshee-data/velocity.camera/internal/geom"
	"github.com/stretchr/testify/assert"
)

func TestClassifyOverlap(t *testing.T) {
	t.Parallel()

	cfg := DefaultTrackerConfig()
	tests := []struct {
		name     string
		dir      Direction
		self     geom.Rect
		opposing []geom.Rect
		want     OverlapType
	}{
		{"no opposing traffic", LeftToRight, geom.Rect{X: 100, W: 100}, nil, OverlapNone},
		{"l2r just clear", LeftToRight, geom.Rect{X: 100, W: 100}, []geom.Rect{{X: 216, W: 100}}, OverlapNone},
		{"l2r front", LeftToRight, geom.Rect{X: 100, W: 100}, []geom.Rect{{X: 214, W: 100}}, OverlapFrontOnly},
		{"l2r rear", LeftToRight, geom.Rect{X: 300, W: 100}, []geom.Rect{{X: 200, W: 50}}, OverlapRearOnly},
		{"l2r both", LeftToRight, geom.Rect{X: 300, W: 100}, []geom.Rect{{X: 200, W: 300}}, OverlapBoth},
		{"l2r both from two boxes", LeftToRight, geom.Rect{X: 300, W: 100}, []geom.Rect{{X: 200, W: 50}, {X: 410, W: 50}}, OverlapBoth},
		{"r2l just clear", RightToLeft, geom.Rect{X: 500, W: 100}, []geom.Rect{{X: 300, W: 184}}, OverlapNone},
		{"r2l front", RightToLeft, geom.Rect{X: 500, W: 100}, []geom.Rect{{X: 300, W: 186}}, OverlapFrontOnly},
		{"r2l rear", RightToLeft, geom.Rect{X: 500, W: 100}, []geom.Rect{{X: 650, W: 100}}, OverlapRearOnly},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClassifyOverlap(cfg, tt.dir, tt.self, tt.opposing))
		})
	}
}

func TestClassifyOverlapClampsToCorridor(t *testing.T) {
	t.Parallel()

	cfg := DefaultTrackerConfig()
	// The trailing edge would be at -40 but is clamped to the corridor edge.
	got := ClassifyOverlap(cfg, LeftToRight, geom.Rect{X: 20, W: 100}, []geom.Rect{{X: 0, W: 10}})
	assert.Equal(t, OverlapRearOnly, got)
}
