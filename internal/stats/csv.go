package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/banshee-data/velocity.camera/internal/tracking"
)

var csvHeader = []string{
	"Source", "Frame", "Direction", "StartFrame", "EndFrame", "# Frames",
	"StartPix", "EndPix", "DeltaPix", "VehicleArea", "estSpeed", "Flag",
}

// CSVSink writes accepted vehicle records as CSV rows. It implements
// tracking.StatsSink and is safe for concurrent use.
type CSVSink struct {
	mu          sync.Mutex
	w           *csv.Writer
	source      string
	accept      Acceptance
	labels      map[tracking.Direction]string
	wroteHeader bool
	rows        int
}

// NewCSVSink returns a sink writing to w. source fills the first column;
// l2rLabel and r2lLabel are the compass labels written for each direction.
func NewCSVSink(w io.Writer, source string, accept Acceptance, l2rLabel, r2lLabel string) *CSVSink {
	return &CSVSink{
		w:      csv.NewWriter(w),
		source: source,
		accept: accept,
		labels: map[tracking.Direction]string{
			tracking.LeftToRight: l2rLabel,
			tracking.RightToLeft: r2lLabel,
		},
	}
}

// WriteHeader writes the column header. RecordVehicle calls it on first use.
func (s *CSVSink) WriteHeader() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeHeaderLocked()
}

func (s *CSVSink) writeHeaderLocked() error {
	if s.wroteHeader {
		return nil
	}
	s.wroteHeader = true
	if err := s.w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write stats header: %w", err)
	}
	return s.flushLocked()
}

// RecordVehicle writes rec if it passes acceptance.
func (s *CSVSink) RecordVehicle(rec tracking.VehicleRecord) error {
	if !s.accept.Accept(rec) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeHeaderLocked(); err != nil {
		return err
	}

	row := []string{
		s.source,
		strconv.Itoa(rec.ReportFrame),
		s.labels[rec.Direction],
		strconv.Itoa(rec.EntryFrame),
		strconv.Itoa(rec.ExitFrame),
		strconv.Itoa(rec.FrameCount),
		strconv.Itoa(rec.EntryPixel),
		strconv.Itoa(rec.ExitPixel),
		strconv.Itoa(rec.DeltaPixel),
		strconv.Itoa(rec.ProfileArea),
		strconv.Itoa(rec.FinalSpeed),
		s.accept.Flag(rec),
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("failed to write stats row for %s: %w", rec.TrackID, err)
	}
	s.rows++
	return s.flushLocked()
}

func (s *CSVSink) flushLocked() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("failed to flush stats: %w", err)
	}
	return nil
}

// Rows returns the number of records written.
func (s *CSVSink) Rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}
