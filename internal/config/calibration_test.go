package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestEmptyConfigUsesDefaults(t *testing.T) {
	cfg := EmptyCalibrationConfig()
	assert.Equal(t, 1269, cfg.GetAnalysisBoxWidth())
	assert.Equal(t, 350, cfg.GetSpeedLineLeft())
	assert.Equal(t, 909, cfg.GetSpeedLineRight())
	assert.Equal(t, 35, cfg.GetCalibrationFramesL2R())
	assert.Equal(t, 40, cfg.GetCalibrationFramesR2L())
	assert.Equal(t, 25.0, cfg.GetAssumedFPS())
	assert.Equal(t, 1050, cfg.GetMinBlobArea())
	assert.Equal(t, 35, cfg.GetEgregiousSpeed())
	assert.Equal(t, 55, cfg.GetCrazySpeed())
	assert.False(t, cfg.HasObstruction())
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfigMatchesGetters(t *testing.T) {
	def := DefaultCalibrationConfig()
	empty := EmptyCalibrationConfig()
	assert.Equal(t, empty.GetAnalysisBoxWidth(), def.GetAnalysisBoxWidth())
	assert.Equal(t, empty.GetSlop(), def.GetSlop())
	assert.Equal(t, empty.GetGapTolerance(), def.GetGapTolerance())
	assert.Equal(t, empty.GetL2RDirection(), def.GetL2RDirection())
	assert.Equal(t, empty.GetHighlightsSpeedUpper(), def.GetHighlightsSpeedUpper())
}

func TestMustLoadDefaultConfigMatchesDefaults(t *testing.T) {
	loaded := MustLoadDefaultConfig()
	if diff := cmp.Diff(DefaultCalibrationConfig(), loaded); diff != "" {
		t.Errorf("defaults file drifted from DefaultCalibrationConfig (-want +got):\n%s", diff)
	}
}

func TestLoadCalibrationConfig(t *testing.T) {
	t.Run("partial config", func(t *testing.T) {
		path := writeConfig(t, "site.json", `{"speed_line_left": 300, "obstruction": [500, 560]}`)
		cfg, err := LoadCalibrationConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 300, cfg.GetSpeedLineLeft())
		assert.Equal(t, 909, cfg.GetSpeedLineRight())
		assert.True(t, cfg.HasObstruction())
		assert.Equal(t, [2]int{500, 560}, cfg.GetObstruction())
	})

	t.Run("wrong extension", func(t *testing.T) {
		path := writeConfig(t, "site.yaml", `{}`)
		_, err := LoadCalibrationConfig(path)
		assert.ErrorContains(t, err, ".json extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCalibrationConfig(filepath.Join(t.TempDir(), "nope.json"))
		assert.ErrorContains(t, err, "failed to stat")
	})

	t.Run("bad json", func(t *testing.T) {
		path := writeConfig(t, "bad.json", `{"slop": `)
		_, err := LoadCalibrationConfig(path)
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("invalid geometry", func(t *testing.T) {
		path := writeConfig(t, "lines.json", `{"speed_line_left": 950}`)
		_, err := LoadCalibrationConfig(path)
		assert.ErrorContains(t, err, "invalid configuration")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *CalibrationConfig)
		wantErr string
	}{
		{"zero width", func(c *CalibrationConfig) { c.AnalysisBoxWidth = ptrInt(0) }, "analysis_box_width"},
		{"lines reversed", func(c *CalibrationConfig) { c.SpeedLineLeft, c.SpeedLineRight = ptrInt(900), ptrInt(300) }, "speed lines"},
		{"line outside box", func(c *CalibrationConfig) { c.SpeedLineRight = ptrInt(1269) }, "speed lines"},
		{"obstruction reversed", func(c *CalibrationConfig) { c.Obstruction = &[2]int{600, 500} }, "obstruction"},
		{"zero calibration", func(c *CalibrationConfig) { c.CalibrationFramesR2L = ptrInt(0) }, "calibration frames"},
		{"zero fps", func(c *CalibrationConfig) { c.AssumedFPS = ptrFloat64(0) }, "assumed_fps"},
		{"negative slop", func(c *CalibrationConfig) { c.Slop = ptrInt(-1) }, "slop"},
		{"highlight bounds", func(c *CalibrationConfig) { c.HighlightsSpeedLower = ptrInt(120) }, "highlights_speed_lower"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCalibrationConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}
