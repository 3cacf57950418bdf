// Command vst-report summarises the vehicles recorded by vst.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/banshee-data/velocity.camera/internal/config"
	"github.com/banshee-data/velocity.camera/internal/db"
	"github.com/banshee-data/velocity.camera/internal/report"
	"github.com/banshee-data/velocity.camera/internal/security"
	"github.com/banshee-data/velocity.camera/internal/tracking"
	"github.com/banshee-data/velocity.camera/internal/units"
)

type options struct {
	dbPath     string
	unit       string
	pngPath    string
	htmlPath   string
	runID      string
	validOnly  bool
	speedLimit int

	schemaVersion bool
	migrateDown   bool
}

func main() {
	var o options
	flag.StringVar(&o.dbPath, "db", "vehicles.db", "path to sqlite db")
	flag.StringVar(&o.unit, "units", units.MPH, "speed units: "+units.GetValidUnitsString())
	flag.StringVar(&o.pngPath, "png", "", "write a speed histogram image to this file")
	flag.StringVar(&o.htmlPath, "html", "", "write an HTML chart page to this file")
	flag.StringVar(&o.runID, "run", "", "only report this run id")
	flag.BoolVar(&o.validOnly, "valid-only", true, "ignore vehicles without a speed measurement")
	flag.IntVar(&o.speedLimit, "speed-limit", config.DefaultCalibrationConfig().GetSpeedLimit(), "speed limit in mph")
	flag.BoolVar(&o.schemaVersion, "schema-version", false, "print the database schema version and exit")
	flag.BoolVar(&o.migrateDown, "migrate-down", false, "roll the database schema back one migration and exit")
	flag.Parse()

	if err := run(os.Stdout, o); err != nil {
		log.Fatalf("vst-report: %v", err)
	}
}

func run(w io.Writer, o options) error {
	if !units.IsValid(o.unit) {
		return fmt.Errorf("invalid units %q, want one of %s", o.unit, units.GetValidUnitsString())
	}
	for _, out := range []string{o.pngPath, o.htmlPath} {
		if out == "" {
			continue
		}
		if err := security.ValidateOutputPath(out); err != nil {
			return err
		}
	}
	if _, err := os.Stat(o.dbPath); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	store, err := db.OpenDB(o.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if o.schemaVersion || o.migrateDown {
		return schema(w, store, o.migrateDown)
	}

	stored, err := store.ListVehicles(db.VehicleFilter{RunID: o.runID, ValidOnly: o.validOnly})
	if err != nil {
		return err
	}
	records := make([]tracking.VehicleRecord, len(stored))
	for i, v := range stored {
		records[i] = v.Record
	}

	label := units.Label(o.unit)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "direction\tvehicles\tvalid\tmean\tp50\tp85\tp98\tmax\tover limit\n")
	for _, s := range report.Summarize(records, o.unit, o.speedLimit) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%d\n",
			s.Direction, s.Count, s.Valid, s.Mean, s.P50, s.P85, s.P98, s.Max, s.OverLimit)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "speeds in %s\n", label)

	if o.pngPath != "" {
		err := report.WriteHistogramPNG(o.pngPath, records, 20, o.unit)
		switch {
		case errors.Is(err, report.ErrNoSpeeds):
			log.Printf("no valid speeds, skipping %s", o.pngPath)
		case err != nil:
			return err
		}
	}

	if o.htmlPath != "" {
		f, err := os.Create(o.htmlPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", o.htmlPath, err)
		}
		defer f.Close()
		if err := report.RenderHTML(f, records, report.HTMLOptions{Unit: o.unit}); err != nil {
			return err
		}
	}
	return nil
}

// schema prints the schema version, rolling back one migration first when
// down is set.
func schema(w io.Writer, store *db.DB, down bool) error {
	migrations, err := db.MigrationsFS()
	if err != nil {
		return err
	}
	if down {
		if err := store.MigrateDown(migrations); err != nil {
			return err
		}
	}
	version, dirty, err := store.MigrateVersion(migrations)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "schema version %d", version)
	if dirty {
		fmt.Fprint(w, " (dirty)")
	}
	fmt.Fprintln(w)
	return nil
}
