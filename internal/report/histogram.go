package report

import (
	"errors"
	"fmt"

	"github.com/banshee-data/velocity.camera/internal/tracking"
	"github.com/banshee-data/velocity.camera/internal/units"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoSpeeds is returned when there are no valid records to plot.
var ErrNoSpeeds = errors.New("no valid speed measurements")

// WriteHistogramPNG plots the distribution of valid speeds to path. The
// image format follows the file extension.
func WriteHistogramPNG(path string, records []tracking.VehicleRecord, bins int, unit string) error {
	speeds := validSpeeds(records, "", unit)
	if len(speeds) == 0 {
		return ErrNoSpeeds
	}
	if bins <= 0 {
		bins = 20
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Vehicle speeds (n=%d)", len(speeds))
	p.X.Label.Text = fmt.Sprintf("Speed (%s)", units.Label(unit))
	p.Y.Label.Text = "Vehicles"

	h, err := plotter.NewHist(plotter.Values(speeds), bins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save histogram %s: %w", path, err)
	}
	return nil
}
