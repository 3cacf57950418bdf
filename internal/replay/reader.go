// Package replay feeds recorded frame-pair blob logs through the tracker.
//
// A blob log is JSON Lines, one object per differenced frame pair:
//
//	{"frame":12,"l2r":[[x,y,w,h],...],"r2l":[[x,y,w,h],...]}
//
// Coordinates are relative to the analysis box.
package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/banshee-data/velocity.camera/internal/geom"
)

// FramePair is the blob output for one differenced frame pair.
type FramePair struct {
	Frame int
	L2R   []geom.Rect
	R2L   []geom.Rect
}

type wireFrame struct {
	Frame *int     `json:"frame"`
	L2R   [][4]int `json:"l2r"`
	R2L   [][4]int `json:"r2l"`
}

// Reader decodes a blob log.
type Reader struct {
	dec  *json.Decoder
	line int
	last int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: json.NewDecoder(r), last: -1}
}

// Next returns the next frame pair, or io.EOF when the log is exhausted.
// Frame numbers must increase.
func (r *Reader) Next() (FramePair, error) {
	var w wireFrame
	if err := r.dec.Decode(&w); err != nil {
		if errors.Is(err, io.EOF) {
			return FramePair{}, io.EOF
		}
		return FramePair{}, fmt.Errorf("blob log entry %d: %w", r.line+1, err)
	}
	r.line++
	if w.Frame == nil {
		return FramePair{}, fmt.Errorf("blob log entry %d: missing frame", r.line)
	}
	if *w.Frame <= r.last {
		return FramePair{}, fmt.Errorf("blob log entry %d: frame %d does not follow %d", r.line, *w.Frame, r.last)
	}
	r.last = *w.Frame

	l2r, err := toRects(w.L2R)
	if err != nil {
		return FramePair{}, fmt.Errorf("blob log entry %d: l2r: %w", r.line, err)
	}
	r2l, err := toRects(w.R2L)
	if err != nil {
		return FramePair{}, fmt.Errorf("blob log entry %d: r2l: %w", r.line, err)
	}
	return FramePair{Frame: *w.Frame, L2R: l2r, R2L: r2l}, nil
}

func toRects(in [][4]int) ([]geom.Rect, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]geom.Rect, len(in))
	for i, v := range in {
		if v[2] < 0 || v[3] < 0 {
			return nil, fmt.Errorf("blob %d has negative size", i)
		}
		out[i] = geom.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}
	}
	return out, nil
}

// FilterBlobs drops blobs smaller than minArea. A lane reporting
// maxObjects or more raw blobs is too noisy to use and yields none.
func FilterBlobs(rects []geom.Rect, minArea, maxObjects int) []geom.Rect {
	if maxObjects > 0 && len(rects) >= maxObjects {
		return nil
	}
	var out []geom.Rect
	for _, r := range rects {
		if r.Area() >= minArea {
			out = append(out, r)
		}
	}
	return out
}
