package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-cpi/parser"
	"github.com/pflow-xyz/go-cpi/process"
)

func parse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cpigen parse <expression>

Parse a process expression and print its normalized form and node
counts. Fails with a syntax error for malformed input.

Grammar operators, loosest to tightest binding:
  ^    exclusive choice
  ||   parallel composition
  ,    sequencing

Examples:
  cpigen parse "a,b^c"
  cpigen parse "(t1^t2)||t3,t4"
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

	fmt.Printf("Expression: %s\n", ast)
	fmt.Printf("  Tasks: %d\n", process.CountTasks(ast))
	fmt.Printf("  Nodes: %d\n", process.CountNodes(ast))

	return nil
}
