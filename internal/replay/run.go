package replay

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/banshee-data/velocity.camera/internal/monitoring"
	"github.com/banshee-data/velocity.camera/internal/tracking"
)

// Source yields frame pairs until io.EOF.
type Source interface {
	Next() (FramePair, error)
}

// Options controls blob filtering during a replay.
type Options struct {
	MinBlobArea     int
	MaxBlobsPerLane int
	// OnStep, if set, is called after every step.
	OnStep func(tracking.StepResult)
}

// Summary counts what happened during a replay.
type Summary struct {
	FramePairs   int
	MotionFrames int
	NewTracks    int
	Records      int
	ValidRecords int
	BailEvents   int
	ActiveAtEnd  int
}

// Run steps mgr through every frame pair from src. It stops at the end of
// the log, on a read error, or when ctx is cancelled between frame pairs.
// Tracks still active at the end are left in mgr.
func Run(ctx context.Context, src Source, mgr *tracking.Manager, opts Options) (Summary, error) {
	var sum Summary
	bailing := false
	for {
		if err := ctx.Err(); err != nil {
			sum.ActiveAtEnd = activeTracks(mgr)
			return sum, err
		}

		fp, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			sum.ActiveAtEnd = activeTracks(mgr)
			return sum, fmt.Errorf("failed to read frame pair: %w", err)
		}

		blobs := tracking.LaneBlobs{
			L2R: FilterBlobs(fp.L2R, opts.MinBlobArea, opts.MaxBlobsPerLane),
			R2L: FilterBlobs(fp.R2L, opts.MinBlobArea, opts.MaxBlobsPerLane),
		}
		res := mgr.Step(fp.Frame, blobs)

		sum.FramePairs++
		if res.MotionDetected {
			sum.MotionFrames++
		}
		sum.NewTracks += res.NewTracks
		for _, rec := range res.Records {
			sum.Records++
			if rec.Valid {
				sum.ValidRecords++
			}
		}
		if res.Bailing && !bailing {
			sum.BailEvents++
		}
		bailing = res.Bailing
		if opts.OnStep != nil {
			opts.OnStep(res)
		}
	}

	sum.ActiveAtEnd = activeTracks(mgr)
	monitoring.Logf("replay: %d frame pairs, %d records (%d valid), %d bail events",
		sum.FramePairs, sum.Records, sum.ValidRecords, sum.BailEvents)
	return sum, nil
}

func activeTracks(mgr *tracking.Manager) int {
	return len(mgr.Tracks(tracking.LeftToRight)) + len(mgr.Tracks(tracking.RightToLeft))
}
