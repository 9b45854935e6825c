package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-cpi/store"
)

func runs(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("db", "catalog.db", "Catalog database path")
	runID := fs.String("run", "", "Show mode breakdown for one run")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cpigen runs [options]

List generation runs recorded in a catalog database, or show the
per-mode breakdown of a single run.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  cpigen runs --db catalog.db
  cpigen runs --db catalog.db --run 4f7c2d...
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if *runID != "" {
		run, err := st.Run(*runID)
		if err != nil {
			return err
		}
		counts, err := st.CountByMode(run.ID)
		if err != nil {
			return err
		}
		fmt.Printf("Run %s\n", run.ID)
		fmt.Printf("  Created:   %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("  Seed:      %d\n", run.Seed)
		fmt.Printf("  Instances: %d\n", run.Instances)
		fmt.Println("  By generation mode:")
		for _, mode := range sortedKeys(counts) {
			fmt.Printf("    %-30s %d\n", mode, counts[mode])
		}
		return nil
	}

	all, err := st.ListRuns()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, run := range all {
		fmt.Printf("%s  %s  seed=%d  instances=%d\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Seed, run.Instances)
	}

	return nil
}
