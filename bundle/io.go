package bundle

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the file extension for compressed bundle files.
const Ext = ".cpis.gz"

// ErrLineNotFound reports a request for an expression line past the
// end of its file.
var ErrLineNotFound = errors.New("line not found")

// Filename returns the bundle filename for an (x, y) grid cell.
func Filename(x, y int) string {
	return fmt.Sprintf("cpi_bundle_x%d_y%d%s", x, y, Ext)
}

// ExpressionFilename returns the name of the line-indexed expression
// file for an (x, y) grid cell.
func ExpressionFilename(x, y int) string {
	return fmt.Sprintf("generated_processes_full_%d_%d.txt", x, y)
}

// ExpressionFromFile returns line z (1-based) of the expression file
// for (x, y) under dir, with surrounding whitespace trimmed.
func ExpressionFromFile(dir string, x, y, z int) (string, error) {
	path := filepath.Join(dir, ExpressionFilename(x, y))
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open expression file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if line == z {
			return strings.TrimSpace(scanner.Text()), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return "", fmt.Errorf("%w: %s has %d lines, wanted line %d", ErrLineNotFound, path, line, z)
}

// Write saves instances as a gzip-compressed JSON array.
func Write(path string, instances []*Instance) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(instances); err != nil {
		zw.Close()
		return fmt.Errorf("encode bundle: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close bundle: %w", err)
	}
	return f.Close()
}

// Read loads a single bundle file.
func Read(path string) ([]*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decompress bundle: %w", err)
	}
	defer zr.Close()

	var instances []*Instance
	if err := json.NewDecoder(zr).Decode(&instances); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	return instances, nil
}

// ReadAll loads every bundle under dir whose filename contains
// pattern. An empty pattern matches every bundle file.
func ReadAll(dir, pattern string) ([]*Instance, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read bundle dir: %w", err)
	}

	var all []*Instance
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, Ext) {
			continue
		}
		if pattern != "" && !strings.Contains(name, pattern) {
			continue
		}
		instances, err := Read(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("bundle %s: %w", name, err)
		}
		all = append(all, instances...)
	}
	return all, nil
}
