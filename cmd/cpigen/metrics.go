package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-cpi/analysis"
	"github.com/pflow-xyz/go-cpi/parser"
)

func metrics(args []string) error {
	fs := flag.NewFlagSet("metrics", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cpigen metrics <expression>

Compute structural complexity metrics over a process expression:
the maximum nesting depth of exclusive-choice points, and the maximum
number of choice points reachable together in one execution.

Examples:
  cpigen metrics "a^b"
  cpigen metrics "(a^b),(c^d)"
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("expression required")
	}

	ast, err := parser.Parse(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("Max nested XOR:      %d\n", analysis.MaxNestedXor(ast))
	fmt.Printf("Max independent XOR: %d\n", analysis.MaxIndependentXor(ast))

	return nil
}
