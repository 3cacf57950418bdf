// Package report summarises stored vehicle records: speed percentiles per
// direction, a PNG histogram and an HTML chart page.
package report

import (
	"sort"

	"github.com/banshee-data/velocity.camera/internal/tracking"
	"github.com/banshee-data/velocity.camera/internal/units"
	"gonum.org/v1/gonum/stat"
)

// DirectionSummary describes the speeds measured in one direction. Speeds
// are in the requested units; counts include invalid records in Count only.
type DirectionSummary struct {
	Direction tracking.Direction
	Count     int
	Valid     int
	Mean      float64
	P50       float64
	P85       float64
	P98       float64
	Max       float64
	OverLimit int // valid records faster than the speed limit
}

// Summarize groups records by direction. speedLimit is in mph.
func Summarize(records []tracking.VehicleRecord, unit string, speedLimit int) []DirectionSummary {
	out := make([]DirectionSummary, 0, 2)
	for _, d := range []tracking.Direction{tracking.LeftToRight, tracking.RightToLeft} {
		s := DirectionSummary{Direction: d}
		var speeds []float64
		for _, rec := range records {
			if rec.Direction != d {
				continue
			}
			s.Count++
			if !rec.Valid {
				continue
			}
			s.Valid++
			if rec.FinalSpeed > speedLimit {
				s.OverLimit++
			}
			speeds = append(speeds, units.ConvertSpeed(float64(rec.FinalSpeed), unit))
		}
		if len(speeds) > 0 {
			sort.Float64s(speeds)
			s.Mean = stat.Mean(speeds, nil)
			s.P50 = stat.Quantile(0.50, stat.Empirical, speeds, nil)
			s.P85 = stat.Quantile(0.85, stat.Empirical, speeds, nil)
			s.P98 = stat.Quantile(0.98, stat.Empirical, speeds, nil)
			s.Max = speeds[len(speeds)-1]
		}
		out = append(out, s)
	}
	return out
}

// validSpeeds returns the converted speeds of valid records in direction d,
// or of every direction when d is empty.
func validSpeeds(records []tracking.VehicleRecord, d tracking.Direction, unit string) []float64 {
	var out []float64
	for _, rec := range records {
		if !rec.Valid || (d != "" && rec.Direction != d) {
			continue
		}
		out = append(out, units.ConvertSpeed(float64(rec.FinalSpeed), unit))
	}
	return out
}
