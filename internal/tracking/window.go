package tracking

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// sampleWindow is a FIFO of (frame, pixel) bumper samples. Once full, each
// push evicts the oldest sample so the regression stays piecewise.
type sampleWindow struct {
	frames []float64
	pixels []float64
	limit  int
}

func newSampleWindow(limit int) sampleWindow {
	if limit < 2 {
		limit = 2
	}
	return sampleWindow{
		frames: make([]float64, 0, limit),
		pixels: make([]float64, 0, limit),
		limit:  limit,
	}
}

func (w *sampleWindow) push(frame int, pixel float64) {
	if len(w.frames) >= w.limit {
		copy(w.frames, w.frames[1:])
		copy(w.pixels, w.pixels[1:])
		w.frames = w.frames[:len(w.frames)-1]
		w.pixels = w.pixels[:len(w.pixels)-1]
	}
	w.frames = append(w.frames, float64(frame))
	w.pixels = append(w.pixels, pixel)
}

func (w *sampleWindow) len() int { return len(w.frames) }

func (w *sampleWindow) oldestFrame() int {
	if len(w.frames) == 0 {
		return -1
	}
	return int(w.frames[0])
}

// fit returns the least squares line pixel = slope*frame + intercept. ok is
// false when the window cannot define a line.
func (w *sampleWindow) fit() (slope, intercept float64, ok bool) {
	if len(w.frames) < 2 {
		return 0, 0, false
	}
	alpha, beta := stat.LinearRegression(w.frames, w.pixels, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0, 0, false
	}
	return beta, alpha, true
}
