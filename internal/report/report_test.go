package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/velocity.camera/internal/tracking"
	"github.com/banshee-data/velocity.camera/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(d tracking.Direction, speed int, valid bool) tracking.VehicleRecord {
	return tracking.VehicleRecord{Direction: d, FinalSpeed: speed, Valid: valid}
}

func sampleRecords() []tracking.VehicleRecord {
	return []tracking.VehicleRecord{
		rec(tracking.LeftToRight, 20, true),
		rec(tracking.LeftToRight, 30, true),
		rec(tracking.LeftToRight, 25, true),
		rec(tracking.LeftToRight, 40, true),
		rec(tracking.LeftToRight, -1, false),
		rec(tracking.RightToLeft, 22, true),
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	got := Summarize(sampleRecords(), units.MPH, 25)
	require.Len(t, got, 2)

	l2r := got[0]
	assert.Equal(t, tracking.LeftToRight, l2r.Direction)
	assert.Equal(t, 5, l2r.Count)
	assert.Equal(t, 4, l2r.Valid)
	assert.InDelta(t, 28.75, l2r.Mean, 1e-9)
	assert.Equal(t, 25.0, l2r.P50)
	assert.Equal(t, 40.0, l2r.P85)
	assert.Equal(t, 40.0, l2r.P98)
	assert.Equal(t, 40.0, l2r.Max)
	assert.Equal(t, 2, l2r.OverLimit)

	r2l := got[1]
	assert.Equal(t, 1, r2l.Valid)
	assert.Equal(t, 22.0, r2l.P50)
	assert.Zero(t, r2l.OverLimit)
}

func TestSummarizeConvertsUnits(t *testing.T) {
	t.Parallel()

	got := Summarize([]tracking.VehicleRecord{rec(tracking.LeftToRight, 25, true)}, units.KPH, 25)
	assert.InDelta(t, 40.2336, got[0].Max, 1e-6)
	assert.Zero(t, got[0].OverLimit)
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	got := Summarize(nil, units.MPH, 25)
	require.Len(t, got, 2)
	assert.Zero(t, got[0].Count)
	assert.Zero(t, got[0].P85)
}

func TestBucket(t *testing.T) {
	t.Parallel()

	labels, counts := bucket([]float64{1, 4.9, 5, 12}, 5)
	assert.Equal(t, []string{"0-5", "5-10", "10-15"}, labels)
	assert.Equal(t, []int{2, 1, 1}, counts)

	labels, counts = bucket(nil, 5)
	assert.Nil(t, labels)
	assert.Nil(t, counts)
}

func TestWriteHistogramPNG(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "speeds.png")
	require.NoError(t, WriteHistogramPNG(path, sampleRecords(), 10, units.MPH))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestWriteHistogramPNGNoData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.png")
	err := WriteHistogramPNG(path, []tracking.VehicleRecord{rec(tracking.LeftToRight, -1, false)}, 10, units.MPH)
	assert.ErrorIs(t, err, ErrNoSpeeds)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, sampleRecords(), HTMLOptions{Title: "Elm Street", Unit: units.MPH}))

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Elm Street")
	assert.Contains(t, out, "20-25")
}
