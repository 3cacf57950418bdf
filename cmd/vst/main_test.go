package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/velocity.camera/internal/db"
	"github.com/banshee-data/velocity.camera/internal/geom"
	"github.com/banshee-data/velocity.camera/internal/monitoring"
	"github.com/banshee-data/velocity.camera/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBlobLog(t *testing.T, dir string) string {
	t.Helper()
	sc := testutil.Scenario{
		Corridor: 1269,
		Vehicles: []testutil.Vehicle{{LeftToRight: true, X0: 35, Width: 120, Y: 60, Height: 80, Speed: 20}},
	}
	path := filepath.Join(dir, "elm.jsonl")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := json.NewEncoder(f)
	for frame := 0; frame <= 160; frame += 2 {
		l2r, r2l := sc.Blobs(frame)
		entry := map[string]any{"frame": frame, "l2r": wire(l2r), "r2l": wire(r2l)}
		require.NoError(t, enc.Encode(entry))
	}
	return path
}

func wire(rects []geom.Rect) [][4]int {
	out := [][4]int{}
	for _, r := range rects {
		out = append(out, [4]int{r.X, r.Y, r.W, r.H})
	}
	return out
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	// The synthetic vehicle measures 16 mph, below the default report threshold.
	configPath := filepath.Join(dir, "calibration.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"min_report_speed": 10}`), 0o644))

	o := options{
		configPath: configPath,
		blobsPath:  writeBlobLog(t, dir),
		dbPath:     filepath.Join(dir, "vehicles.db"),
		statsPath:  filepath.Join(dir, "stats.csv"),
		tracePath:  filepath.Join(dir, "trace.txt"),
	}

	sum, err := run(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Records)
	assert.Equal(t, 1, sum.ValidRecords)

	store, err := db.OpenDB(o.dbPath)
	require.NoError(t, err)
	defer store.Close()
	n, err := store.CountVehicles(db.VehicleFilter{Source: "elm.jsonl", ValidOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	csv, err := os.ReadFile(o.statsPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csv)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "elm.jsonl,"))
	assert.Contains(t, lines[1], ",SE,")
	assert.Contains(t, lines[1], ",16,")

	trace, err := os.ReadFile(o.tracePath)
	require.NoError(t, err)
	assert.Contains(t, string(trace), "crossed entry line")
}

func TestRunMissingBlobLog(t *testing.T) {
	_, err := run(context.Background(), options{blobsPath: filepath.Join(t.TempDir(), "nope.jsonl")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open blob log")
}

func TestRunBadConfig(t *testing.T) {
	_, err := run(context.Background(), options{configPath: "calibration.yaml", blobsPath: "x"})
	require.Error(t, err)
}

func TestRunSanitizesSourceName(t *testing.T) {
	dir := t.TempDir()
	o := options{
		blobsPath: writeBlobLog(t, dir),
		dbPath:    filepath.Join(dir, "vehicles.db"),
		source:    "Elm St / cam 2",
	}
	_, err := run(context.Background(), o)
	require.NoError(t, err)

	store, err := db.OpenDB(o.dbPath)
	require.NoError(t, err)
	defer store.Close()
	n, err := store.CountVehicles(db.VehicleFilter{Source: "Elm_St_cam_2"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("no space left on device") }

func TestTraceErr(t *testing.T) {
	assert.NoError(t, traceErr(nil))

	var sb strings.Builder
	ok := monitoring.NewTraceLog(&sb)
	ok.Tracef(2, "fine")
	assert.NoError(t, traceErr(ok))

	broken := monitoring.NewTraceLog(failingWriter{})
	broken.Tracef(2, "lost")
	err := traceErr(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write trace")
	assert.Contains(t, err.Error(), "no space left on device")
}
