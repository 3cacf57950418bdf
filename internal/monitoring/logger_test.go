package monitoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("frame %d", 12)
	assert.Equal(t, "frame 12", got)

	// nil installs a no-op
	got = ""
	SetLogger(nil)
	assert.NotPanics(t, func() { Logf("ignored") })
	assert.Empty(t, got)
}

func TestLogf_Default(t *testing.T) {
	assert.NotNil(t, Logf)
	assert.NotPanics(t, func() { Logf("test message: %s", "value") })
}
