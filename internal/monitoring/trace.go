package monitoring

import (
	"fmt"
	"io"
	"sync"
)

// TraceLog writes one line per tracker event, prefixed with the frame
// number: "<frame> <message>". It is safe for concurrent use.
type TraceLog struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewTraceLog returns a TraceLog writing to w.
func NewTraceLog(w io.Writer) *TraceLog {
	return &TraceLog{w: w}
}

// Tracef appends a trace line. After the first write error further lines
// are dropped; the error is available from Err.
func (l *TraceLog) Tracef(frame int, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return
	}
	if _, err := fmt.Fprintf(l.w, "%d %s\n", frame, fmt.Sprintf(format, args...)); err != nil {
		l.err = err
		Logf("trace log write failed: %v", err)
	}
}

// Err returns the first write error, if any.
func (l *TraceLog) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

type discard struct{}

func (discard) Tracef(int, string, ...any) {}

// Discard is a trace sink that drops everything.
var Discard discard
