package report

import (
	"fmt"
	"io"
	"math"

	"github.com/banshee-data/velocity.camera/internal/tracking"
	"github.com/banshee-data/velocity.camera/internal/units"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// HTMLOptions configures RenderHTML.
type HTMLOptions struct {
	Title      string
	Unit       string
	BinWidth   float64 // in Unit; defaults to 5
	AssetsHost string  // optional echarts asset host
}

// RenderHTML writes a page with one speed distribution bar chart per
// direction.
func RenderHTML(w io.Writer, records []tracking.VehicleRecord, o HTMLOptions) error {
	if o.BinWidth <= 0 {
		o.BinWidth = 5
	}
	if o.Title == "" {
		o.Title = "Vehicle speeds"
	}

	page := components.NewPage()
	page.PageTitle = o.Title
	if o.AssetsHost != "" {
		page.SetAssetsHost(o.AssetsHost)
	}

	for _, s := range Summarize(records, o.Unit, math.MaxInt) {
		speeds := validSpeeds(records, s.Direction, o.Unit)
		labels, counts := bucket(speeds, o.BinWidth)

		init := opts.Initialization{Width: "100%", Height: "480px"}
		if o.AssetsHost != "" {
			init.AssetsHost = o.AssetsHost
		}
		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(init),
			charts.WithTitleOpts(opts.Title{
				Title:    fmt.Sprintf("%s: %s", o.Title, s.Direction),
				Subtitle: fmt.Sprintf("n=%d p50=%.1f p85=%.1f %s", s.Valid, s.P50, s.P85, units.Label(o.Unit)),
			}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		)
		data := make([]opts.BarData, len(counts))
		for i, c := range counts {
			data[i] = opts.BarData{Value: c}
		}
		bar.SetXAxis(labels).
			AddSeries(string(s.Direction), data,
				charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
			)
		page.AddCharts(bar)
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// bucket counts speeds into bins of the given width starting at zero.
func bucket(speeds []float64, width float64) ([]string, []int) {
	if len(speeds) == 0 {
		return nil, nil
	}
	hi := 0
	for _, v := range speeds {
		hi = max(hi, int(v/width))
	}
	labels := make([]string, hi+1)
	counts := make([]int, hi+1)
	for i := range labels {
		labels[i] = fmt.Sprintf("%g-%g", float64(i)*width, float64(i+1)*width)
	}
	for _, v := range speeds {
		if v < 0 {
			continue
		}
		counts[int(v/width)]++
	}
	return labels, counts
}
