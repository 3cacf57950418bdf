// Command vst replays a frame-pair blob log through the speed tracker and
// records every measured vehicle.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/banshee-data/velocity.camera/internal/config"
	"github.com/banshee-data/velocity.camera/internal/db"
	"github.com/banshee-data/velocity.camera/internal/monitoring"
	"github.com/banshee-data/velocity.camera/internal/replay"
	"github.com/banshee-data/velocity.camera/internal/security"
	"github.com/banshee-data/velocity.camera/internal/stats"
	"github.com/banshee-data/velocity.camera/internal/tracking"
	"github.com/banshee-data/velocity.camera/internal/version"
)

type options struct {
	configPath string
	blobsPath  string
	dbPath     string
	statsPath  string
	tracePath  string
	source     string
}

func main() {
	var o options
	var showVersion bool
	flag.StringVar(&o.configPath, "config", "", "calibration config JSON (defaults to built-in calibration)")
	flag.StringVar(&o.blobsPath, "blobs", "", "frame-pair blob log (JSON Lines), - for stdin")
	flag.StringVar(&o.dbPath, "db", "vehicles.db", "path to sqlite db, empty to disable")
	flag.StringVar(&o.statsPath, "stats", "", "write accepted vehicles as CSV to this file")
	flag.StringVar(&o.tracePath, "trace", "", "write per-frame tracker narration to this file")
	flag.StringVar(&o.source, "source", "", "source name stored with each vehicle (defaults to the blob log name)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.String("vst"))
		return
	}
	if o.blobsPath == "" {
		log.Fatal("-blobs is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := run(ctx, o)
	if err != nil {
		log.Fatalf("vst: %v", err)
	}
	fmt.Printf("frame pairs: %d, vehicles: %d (%d valid), bail events: %d\n",
		sum.FramePairs, sum.Records, sum.ValidRecords, sum.BailEvents)
}

func run(ctx context.Context, o options) (replay.Summary, error) {
	cal := config.DefaultCalibrationConfig()
	if o.configPath != "" {
		var err error
		if cal, err = config.LoadCalibrationConfig(o.configPath); err != nil {
			return replay.Summary{}, err
		}
	}
	if o.source == "" {
		o.source = filepath.Base(o.blobsPath)
	}
	o.source = security.SanitizeFilename(o.source)
	for _, out := range []string{o.statsPath, o.tracePath} {
		if out == "" {
			continue
		}
		if err := security.ValidateOutputPath(out); err != nil {
			return replay.Summary{}, err
		}
	}

	var in io.Reader = os.Stdin
	if o.blobsPath != "-" {
		f, err := os.Open(o.blobsPath)
		if err != nil {
			return replay.Summary{}, fmt.Errorf("failed to open blob log: %w", err)
		}
		defer f.Close()
		in = f
	}

	var sinks stats.MultiSink
	highlight := stats.HighlightSelectorFromCalibration(cal)

	if o.dbPath != "" {
		store, err := db.OpenDB(o.dbPath)
		if err != nil {
			return replay.Summary{}, err
		}
		defer store.Close()
		migrations, err := db.MigrationsFS()
		if err != nil {
			return replay.Summary{}, err
		}
		if err := store.MigrateUp(migrations); err != nil {
			return replay.Summary{}, err
		}
		rec := store.NewRecorder(o.source, highlight.Meets)
		monitoring.Logf("recording run %s to %s", rec.RunID(), o.dbPath)
		sinks = append(sinks, rec)
	}

	if o.statsPath != "" {
		f, err := os.Create(o.statsPath)
		if err != nil {
			return replay.Summary{}, fmt.Errorf("failed to create stats file: %w", err)
		}
		defer f.Close()
		csvSink := stats.NewCSVSink(f, o.source, stats.AcceptanceFromCalibration(cal),
			cal.GetL2RDirection(), cal.GetR2LDirection())
		if err := csvSink.WriteHeader(); err != nil {
			return replay.Summary{}, err
		}
		sinks = append(sinks, csvSink)
	}

	mopts := []tracking.ManagerOption{tracking.WithStatsSink(sinks)}
	var trace *monitoring.TraceLog
	if o.tracePath != "" {
		f, err := os.Create(o.tracePath)
		if err != nil {
			return replay.Summary{}, fmt.Errorf("failed to create trace file: %w", err)
		}
		defer f.Close()
		trace = monitoring.NewTraceLog(f)
		mopts = append(mopts, tracking.WithTraceSink(trace))
	}

	mgr := tracking.NewManager(tracking.TrackerConfigFromCalibration(cal), mopts...)
	sum, err := replay.Run(ctx, replay.NewReader(in), mgr, replay.Options{
		MinBlobArea:     cal.GetMinBlobArea(),
		MaxBlobsPerLane: cal.GetMaxBlobsPerLane(),
	})
	if err != nil {
		return sum, err
	}
	return sum, traceErr(trace)
}

// traceErr reports a trace log that stopped writing part way through the
// run. A nil trace is fine.
func traceErr(trace *monitoring.TraceLog) error {
	if trace == nil {
		return nil
	}
	if err := trace.Err(); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}
	return nil
}
