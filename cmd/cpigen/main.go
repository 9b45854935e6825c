package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "parse":
		if err := parse(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "metrics":
		if err := metrics(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "generate":
		if err := generate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "visualize":
		if err := visualize(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "bundle":
		if err := bundleCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "read":
		if err := read(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "runs":
		if err := runs(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("cpigen version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cpigen - randomized process instance generation tool

Usage:
  cpigen <command> [options]

Commands:
  parse      Parse a process expression and print its structure
  metrics    Compute structural complexity metrics for an expression
  generate   Generate one annotated process instance from an expression
  visualize  Render a process instance as Graphviz DOT
  bundle     Generate compressed instance bundles over a parameter grid
  read       Read bundle files and print a summary
  runs       List generation runs recorded in a catalog database
  help       Show this help message
  version    Show version information

Examples:
  # Parse and inspect an expression
  cpigen parse "a,b^(c||d)"

  # Generate a single instance as JSON
  cpigen generate "a,b^c" --dims 3 --seed 42 --output instance.json

  # Render an instance for Graphviz
  cpigen visualize instance.json --output instance.dot

  # Generate bundles for a full parameter grid
  cpigen bundle --input generated_processes --output CPIs --seed 7

For command-specific help, run:
  cpigen <command> --help`)
}
