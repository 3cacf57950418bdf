package security

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePathWithinDirectory(t *testing.T) {
	root := t.TempDir()
	safe := filepath.Join(root, "safe")
	outside := filepath.Join(root, "outside")
	require.NoError(t, os.MkdirAll(safe, 0o755))
	require.NoError(t, os.MkdirAll(outside, 0o755))
	require.NoError(t, os.Symlink(outside, filepath.Join(safe, "link")))

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"new file", filepath.Join(safe, "report.html"), false},
		{"nested new file", filepath.Join(safe, "a", "b", "report.html"), false},
		{"dot dot", filepath.Join(safe, "..", "outside", "x.csv"), true},
		{"sibling", filepath.Join(outside, "x.csv"), true},
		{"through symlink", filepath.Join(safe, "link", "x.csv"), true},
		{"directory itself", safe, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathWithinDirectory(tt.path, safe)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePathWithinAllowedDirs(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	assert.NoError(t, ValidatePathWithinAllowedDirs(filepath.Join(b, "x"), []string{a, b}))
	assert.Error(t, ValidatePathWithinAllowedDirs(filepath.Join(b, "x"), []string{a}))
	assert.Error(t, ValidatePathWithinAllowedDirs(filepath.Join(b, "x"), nil))
}

func TestValidateOutputPath(t *testing.T) {
	assert.NoError(t, ValidateOutputPath(filepath.Join(t.TempDir(), "speeds.png")))
	assert.NoError(t, ValidateOutputPath("speeds.png"))
	assert.Error(t, ValidateOutputPath("/proc/self/speeds.png"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"elm.jsonl", "elm.jsonl"},
		{"Elm St / cam 2.mp4", "Elm_St_cam_2.mp4"},
		{"../../etc/passwd", "etc_passwd"},
		{"__x__", "x"},
		{"", "unknown"},
		{"???", "unknown"},
		{"a__b", "a__b"},
	}
	for _, tt := range tests {
		tt := tt
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), tt.in)
	}
	assert.Len(t, SanitizeFilename(strings.Repeat("x", 300)), maxNameLen)
}
