package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/pflow-xyz/go-cpi/bundle"
	"github.com/pflow-xyz/go-cpi/cpi"
)

func read(args []string) error {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	dir := fs.String("dir", "CPIs", "Directory with bundle files")
	pattern := fs.String("pattern", "", "Only read bundles whose filename contains this")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cpigen read [options]

Read compressed bundle files and print a summary of the instances
they contain.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Summarize every bundle in a directory
  cpigen read --dir CPIs

  # Only the bundles for x=1
  cpigen read --dir CPIs --pattern x1_
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	instances, err := bundle.ReadAll(*dir, *pattern)
	if err != nil {
		return err
	}

	tasks := 0
	byMode := make(map[string]int)
	for _, inst := range instances {
		tasks += inst.Process.CountKind(cpi.KindTask)
		byMode[inst.Metadata.GenerationMode]++
	}

	fmt.Printf("Instances: %d\n", len(instances))
	fmt.Printf("Tasks:     %d\n", tasks)
	fmt.Println("By generation mode:")
	for _, mode := range sortedKeys(byMode) {
		fmt.Printf("  %-30s %d\n", mode, byMode[mode])
	}

	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
