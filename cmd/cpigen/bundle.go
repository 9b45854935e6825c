package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pflow-xyz/go-cpi/bundle"
	"github.com/pflow-xyz/go-cpi/impact"
	"github.com/pflow-xyz/go-cpi/store"
)

func bundleCmd(args []string) error {
	fs := flag.NewFlagSet("bundle", flag.ExitOnError)
	input := fs.String("input", "generated_processes", "Directory with expression files")
	output := fs.String("output", "CPIs", "Directory for bundle files")
	xRange := fs.String("x", "1:10", "X range (min:max)")
	yRange := fs.String("y", "1:10", "Y range (min:max)")
	zRange := fs.String("z", "1:10", "Z range of expression lines (min:max)")
	dimsRange := fs.String("dims", "1:10", "Impact dimension range (min:max)")
	modes := fs.String("modes", "", "Comma-separated generation modes (default all)")
	durationMin := fs.Int("duration-min", 1, "Minimum task duration")
	durationMax := fs.Int("duration-max", 10, "Maximum task duration")
	parallel := fs.Int("parallel", 4, "Number of cells generated concurrently")
	seed := fs.Int64("seed", 0, "Random seed (0 = time-based)")
	dbPath := fs.String("db", "", "Optional catalog database to record the run in")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cpigen bundle [options]

Generate compressed instance bundles over a parameter grid. Each (x,y)
pair reads expressions from <input>/generated_processes_full_<x>_<y>.txt
and produces <output>/cpi_bundle_x<x>_y<y>%s holding one instance per
combination of line index, impact dimension, choice distribution and
generation mode.

Options:
`, bundle.Ext)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Full default grid
  cpigen bundle --input generated_processes --output CPIs

  # Small reproducible slice of the grid, cataloged in SQLite
  cpigen bundle --x 1:2 --y 1:2 --z 1:5 --seed 7 --db catalog.db

  # Only the remove-family modes
  cpigen bundle --modes bagging_remove,bagging_remove_divide
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := bundle.DefaultGridConfig()
	cfg.InputDir = *input
	cfg.OutputDir = *output
	cfg.DurationInterval = [2]int{*durationMin, *durationMax}
	cfg.Parallel = *parallel
	cfg.Progress = os.Stderr

	var err error
	if cfg.XRange, err = parseRange(*xRange); err != nil {
		return fmt.Errorf("parse --x: %w", err)
	}
	if cfg.YRange, err = parseRange(*yRange); err != nil {
		return fmt.Errorf("parse --y: %w", err)
	}
	if cfg.ZRange, err = parseRange(*zRange); err != nil {
		return fmt.Errorf("parse --z: %w", err)
	}
	if cfg.ImpactDims, err = parseRange(*dimsRange); err != nil {
		return fmt.Errorf("parse --dims: %w", err)
	}

	if *modes != "" {
		cfg.Modes = nil
		for _, name := range strings.Split(*modes, ",") {
			mode := impact.Mode(strings.TrimSpace(name))
			if !mode.Valid() {
				return fmt.Errorf("unknown generation mode %q", mode)
			}
			cfg.Modes = append(cfg.Modes, mode)
		}
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	cfg.Seed = *seed

	cells := cfg.XRange.Count() * cfg.YRange.Count()
	fmt.Fprintf(os.Stderr, "Generating %d bundles (seed %d)...\n", cells, cfg.Seed)

	results, err := bundle.GenerateGrid(cfg)
	if err != nil {
		return err
	}

	total := 0
	failures := 0
	for _, res := range results {
		total += res.Instances
		failures += len(res.Errors)
		for _, msg := range res.Errors {
			fmt.Fprintf(os.Stderr, "  x=%d y=%d: %s\n", res.X, res.Y, msg)
		}
	}
	fmt.Printf("✓ Generated %d instances in %d bundles\n", total, len(results))
	if failures > 0 {
		fmt.Printf("  Skipped combinations: %d\n", failures)
	}

	if *dbPath != "" {
		if err := catalogRun(*dbPath, cfg.Seed, results); err != nil {
			return err
		}
	}

	return nil
}

// catalogRun records every generated instance in the catalog database.
func catalogRun(dbPath string, seed int64, results []bundle.CellResult) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := st.CreateRun(seed)
	if err != nil {
		return err
	}

	saved := 0
	for _, res := range results {
		instances, err := bundle.Read(res.Path)
		if err != nil {
			return err
		}
		for _, inst := range instances {
			if _, err := st.SaveInstance(runID, inst); err != nil {
				return err
			}
			saved++
		}
	}
	fmt.Printf("✓ Cataloged %d instances under run %s\n", saved, runID)
	return nil
}

// parseRange parses "min:max" into an inclusive range.
func parseRange(s string) (bundle.Range, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return bundle.Range{}, fmt.Errorf("expected min:max, got %q", s)
	}
	min, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return bundle.Range{}, fmt.Errorf("bad minimum %q", parts[0])
	}
	max, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return bundle.Range{}, fmt.Errorf("bad maximum %q", parts[1])
	}
	if max < min {
		return bundle.Range{}, fmt.Errorf("empty range %q", s)
	}
	return bundle.Range{Min: min, Max: max}, nil
}
