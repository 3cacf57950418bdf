package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/banshee-data/velocity.camera/internal/timeutil"
	"github.com/banshee-data/velocity.camera/internal/tracking"
	"github.com/google/uuid"
)

// HighlightFunc decides whether a vehicle is flagged for review.
type HighlightFunc func(speed, area int) bool

// Recorder stores vehicle records for one tracker run. It implements
// tracking.StatsSink.
type Recorder struct {
	db        *DB
	runID     string
	source    string
	highlight HighlightFunc
	clock     timeutil.Clock
}

// NewRecorder returns a recorder tagging rows with a fresh run id and the
// given source name. highlight may be nil.
func (db *DB) NewRecorder(source string, highlight HighlightFunc) *Recorder {
	return &Recorder{
		db:        db,
		runID:     uuid.NewString(),
		source:    source,
		highlight: highlight,
		clock:     timeutil.RealClock{},
	}
}

// RunID returns the id stored with every row of this run.
func (r *Recorder) RunID() string { return r.runID }

// RecordVehicle inserts rec.
func (r *Recorder) RecordVehicle(rec tracking.VehicleRecord) error {
	highlight := false
	if r.highlight != nil && rec.Valid {
		highlight = r.highlight(rec.FinalSpeed, rec.ProfileArea)
	}
	_, err := r.db.Exec(
		`INSERT INTO vehicle_records (
			run_id, source, track_id, direction, report_frame, entry_frame,
			exit_frame, frame_count, entry_pixel, exit_pixel, delta_pixel,
			profile_area, speed_mph, valid, outcome, highlight, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.runID, r.source, rec.TrackID, string(rec.Direction), rec.ReportFrame, rec.EntryFrame,
		rec.ExitFrame, rec.FrameCount, rec.EntryPixel, rec.ExitPixel, rec.DeltaPixel,
		rec.ProfileArea, rec.FinalSpeed, rec.Valid, string(rec.Outcome), highlight, r.clock.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert vehicle record %s: %w", rec.TrackID, err)
	}
	return nil
}

// StoredVehicle is a vehicle record as read back from the store.
type StoredVehicle struct {
	ID         int64
	RunID      string
	Source     string
	Highlight  bool
	RecordedAt time.Time
	Record     tracking.VehicleRecord
}

// VehicleFilter narrows ListVehicles and CountVehicles. Zero values match
// everything.
type VehicleFilter struct {
	RunID     string
	Source    string
	Direction tracking.Direction
	ValidOnly bool
	MinSpeed  int
	Limit     int
}

func (f VehicleFilter) where() (string, []any) {
	var clauses []string
	var args []any
	if f.RunID != "" {
		clauses = append(clauses, "run_id = ?")
		args = append(args, f.RunID)
	}
	if f.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, f.Source)
	}
	if f.Direction != "" {
		clauses = append(clauses, "direction = ?")
		args = append(args, string(f.Direction))
	}
	if f.ValidOnly {
		clauses = append(clauses, "valid = 1")
	}
	if f.MinSpeed > 0 {
		clauses = append(clauses, "speed_mph >= ?")
		args = append(args, f.MinSpeed)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ListVehicles returns stored records in insertion order.
func (db *DB) ListVehicles(f VehicleFilter) ([]StoredVehicle, error) {
	where, args := f.where()
	q := `SELECT id, run_id, source, track_id, direction, report_frame, entry_frame,
		exit_frame, frame_count, entry_pixel, exit_pixel, delta_pixel,
		profile_area, speed_mph, valid, outcome, highlight, recorded_at
		FROM vehicle_records` + where + ` ORDER BY id`
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicle records: %w", err)
	}
	defer rows.Close()

	var out []StoredVehicle
	for rows.Next() {
		var v StoredVehicle
		var dir, outcome string
		var recordedAt int64
		rec := &v.Record
		if err := rows.Scan(&v.ID, &v.RunID, &v.Source, &rec.TrackID, &dir, &rec.ReportFrame, &rec.EntryFrame,
			&rec.ExitFrame, &rec.FrameCount, &rec.EntryPixel, &rec.ExitPixel, &rec.DeltaPixel,
			&rec.ProfileArea, &rec.FinalSpeed, &rec.Valid, &outcome, &v.Highlight, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle record: %w", err)
		}
		rec.Direction = tracking.Direction(dir)
		rec.Outcome = tracking.Outcome(outcome)
		v.RecordedAt = time.Unix(recordedAt, 0).UTC()
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vehicle records: %w", err)
	}
	return out, nil
}

// CountVehicles returns the number of stored records matching f. Limit is
// ignored.
func (db *DB) CountVehicles(f VehicleFilter) (int, error) {
	where, args := f.where()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM vehicle_records`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count vehicle records: %w", err)
	}
	return n, nil
}
