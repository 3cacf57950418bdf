package stats

import (
	"bytes"
	"errors"
	"testing"

	"github.com/banshee-data/velocity.camera/internal/config"
	"github.com/banshee-data/velocity.camera/internal/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(d tracking.Direction, speed int, valid bool) tracking.VehicleRecord {
	return tracking.VehicleRecord{
		TrackID:     "t1",
		Direction:   d,
		ReportFrame: 130,
		EntryFrame:  20,
		ExitFrame:   76,
		FrameCount:  56,
		EntryPixel:  355,
		ExitPixel:   915,
		DeltaPixel:  560,
		ProfileArea: 32,
		FinalSpeed:  speed,
		Valid:       valid,
		Outcome:     tracking.OK,
	}
}

func TestAcceptanceFromDefaults(t *testing.T) {
	t.Parallel()

	a := AcceptanceFromCalibration(config.DefaultCalibrationConfig())
	assert.Equal(t, Acceptance{MinReportSpeed: 18, CrazySpeed: 55}, a)

	assert.True(t, a.Accept(record(tracking.LeftToRight, 18, true)))
	assert.False(t, a.Accept(record(tracking.LeftToRight, 17, true)))
	assert.False(t, a.Accept(record(tracking.LeftToRight, 30, false)))

	assert.Empty(t, a.Flag(record(tracking.LeftToRight, 55, true)))
	assert.Equal(t, SuspectFlag, a.Flag(record(tracking.LeftToRight, 56, true)))
	assert.Equal(t, SuspectFlag, a.Flag(record(tracking.LeftToRight, -1, true)))
}

func TestHighlightSelector(t *testing.T) {
	t.Parallel()

	h := HighlightSelector{Enabled: true, SpeedLower: 35, SpeedUpper: 100, LargeVehicleArea: 109}
	tests := []struct {
		name        string
		speed, area int
		want        bool
	}{
		{"slow small", 20, 30, false},
		{"lower bound", 35, 30, true},
		{"upper bound", 100, 30, true},
		{"above band", 101, 30, false},
		{"large vehicle", 20, 109, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, h.Meets(tt.speed, tt.area))
		})
	}

	h.Enabled = false
	assert.False(t, h.Meets(50, 500))

	def := HighlightSelectorFromCalibration(config.DefaultCalibrationConfig())
	assert.False(t, def.Enabled)
	assert.Equal(t, 109, def.LargeVehicleArea)
}

func TestCSVSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewCSVSink(&buf, "cam1", Acceptance{MinReportSpeed: 18, CrazySpeed: 55}, "SE", "NW")

	require.NoError(t, sink.RecordVehicle(record(tracking.LeftToRight, 24, true)))
	require.NoError(t, sink.RecordVehicle(record(tracking.RightToLeft, 12, true)))  // too slow
	require.NoError(t, sink.RecordVehicle(record(tracking.RightToLeft, 30, false))) // invalid
	require.NoError(t, sink.RecordVehicle(record(tracking.RightToLeft, 70, true)))

	want := "Source,Frame,Direction,StartFrame,EndFrame,# Frames,StartPix,EndPix,DeltaPix,VehicleArea,estSpeed,Flag\n" +
		"cam1,130,SE,20,76,56,355,915,560,32,24,\n" +
		"cam1,130,NW,20,76,56,355,915,560,32,70,*****\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, 2, sink.Rows())
}

func TestCSVSinkHeaderOnce(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewCSVSink(&buf, "cam1", Acceptance{}, "SE", "NW")
	require.NoError(t, sink.WriteHeader())
	require.NoError(t, sink.WriteHeader())
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("read-only") }

func TestCSVSinkWriteError(t *testing.T) {
	t.Parallel()

	sink := NewCSVSink(errWriter{}, "cam1", Acceptance{MinReportSpeed: 18, CrazySpeed: 55}, "SE", "NW")
	err := sink.RecordVehicle(record(tracking.LeftToRight, 24, true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
}

type countingSink struct {
	n   int
	err error
}

func (c *countingSink) RecordVehicle(tracking.VehicleRecord) error {
	c.n++
	return c.err
}

func TestMultiSink(t *testing.T) {
	t.Parallel()

	a := &countingSink{err: errors.New("first")}
	b := &countingSink{err: errors.New("second")}
	c := &countingSink{}
	m := MultiSink{a, nil, b, c}

	err := m.RecordVehicle(record(tracking.LeftToRight, 24, true))
	require.Error(t, err)
	assert.Equal(t, "first", err.Error())
	assert.Equal(t, []int{1, 1, 1}, []int{a.n, b.n, c.n})

	assert.NoError(t, MultiSink{c}.RecordVehicle(record(tracking.LeftToRight, 24, true)))
}
