package testutil

import (
	"errors"
	"testing"

	"github.com/banshee-data/velocity.camera/internal/geom"
	"github.com/stretchr/testify/assert"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	t.Parallel()
	AssertError(t, errors.New("boom"))
}

func TestVehicleBoxAt(t *testing.T) {
	t.Parallel()

	v := Vehicle{LeftToRight: true, StartFrame: 10, X0: 0, Width: 100, Y: 50, Height: 80, Speed: 20}

	_, ok := v.BoxAt(8, 1269)
	assert.False(t, ok)

	r, ok := v.BoxAt(14, 1269)
	assert.True(t, ok)
	assert.Equal(t, geom.Rect{X: 40, Y: 50, W: 100, H: 80}, r)

	r, ok = v.BoxAt(10+2*60, 1269) // x = 1200, clipped at the corridor edge
	assert.True(t, ok)
	assert.Equal(t, 69, r.W)

	_, ok = v.BoxAt(10+2*70, 1269)
	assert.False(t, ok)
}

func TestVehicleBoxAtRightToLeft(t *testing.T) {
	t.Parallel()

	v := Vehicle{StartFrame: 0, X0: 1200, Width: 100, Y: 0, Height: 80, Speed: 25}
	r, ok := v.BoxAt(4, 1269)
	assert.True(t, ok)
	assert.Equal(t, 1150, r.X)
	assert.Equal(t, 100, r.W)
}

func TestScenarioBlobs(t *testing.T) {
	t.Parallel()

	s := Scenario{
		Corridor: 1269,
		MinArea:  1050,
		Vehicles: []Vehicle{
			{LeftToRight: true, X0: 0, Width: 100, Height: 80, Speed: 20},
			{X0: 1100, Width: 100, Height: 80, Speed: 20},
			{LeftToRight: true, X0: 500, Width: 10, Height: 10, Speed: 20}, // too small
		},
	}
	l2r, r2l := s.Blobs(2)
	assert.Len(t, l2r, 1)
	assert.Len(t, r2l, 1)
	assert.Equal(t, 20, l2r[0].X)
	assert.Equal(t, 1080, r2l[0].X)
}
