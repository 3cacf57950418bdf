package stats

import "github.com/banshee-data/velocity.camera/internal/tracking"

// MultiSink fans a record out to several sinks. Every sink sees every
// record; the first error is returned.
type MultiSink []tracking.StatsSink

// RecordVehicle implements tracking.StatsSink.
func (m MultiSink) RecordVehicle(rec tracking.VehicleRecord) error {
	var first error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.RecordVehicle(rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}
