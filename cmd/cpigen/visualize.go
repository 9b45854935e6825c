package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-cpi/cpi"
	"github.com/pflow-xyz/go-cpi/visualization"
)

func visualize(args []string) error {
	fs := flag.NewFlagSet("visualize", flag.ExitOnError)
	output := fs.String("output", "", "Output DOT file (default stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cpigen visualize <instance.json> [options]

Render a generated process instance as Graphviz DOT. Task nodes are
labeled with duration and impacts, nature nodes with their drawn
probability, and edges with the parent/child relation.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Render to stdout
  cpigen visualize instance.json

  # Render to a file and lay out with dot
  cpigen visualize instance.json --output instance.dot
  dot -Tpng instance.dot -o instance.png
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("instance file required")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read instance: %w", err)
	}

	node := &cpi.Node{}
	if err := json.Unmarshal(data, node); err != nil {
		return fmt.Errorf("parse instance: %w", err)
	}

	if *output == "" {
		fmt.Println(visualization.ToDOT(node))
		return nil
	}
	if err := visualization.SaveDOT(node, *output); err != nil {
		return fmt.Errorf("write DOT: %w", err)
	}
	fmt.Printf("✓ Visualization saved to %s\n", *output)

	return nil
}
