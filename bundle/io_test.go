package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFilename(t *testing.T) {
	if got := Filename(3, 7); got != "cpi_bundle_x3_y7.cpis.gz" {
		t.Errorf("Filename = %q", got)
	}
	if got := ExpressionFilename(3, 7); got != "generated_processes_full_3_7.txt" {
		t.Errorf("ExpressionFilename = %q", got)
	}
}

func writeExpressionFile(t *testing.T, dir string, x, y int, lines string) {
	t.Helper()
	path := filepath.Join(dir, ExpressionFilename(x, y))
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatalf("write expression file: %v", err)
	}
}

func TestExpressionFromFile(t *testing.T) {
	dir := t.TempDir()
	writeExpressionFile(t, dir, 1, 1, "a,b\na^b^c\n  a||b  \n")

	tests := []struct {
		z    int
		want string
	}{
		{1, "a,b"},
		{2, "a^b^c"},
		{3, "a||b"}, // whitespace trimmed
	}
	for _, tt := range tests {
		got, err := ExpressionFromFile(dir, 1, 1, tt.z)
		if err != nil {
			t.Fatalf("line %d: %v", tt.z, err)
		}
		if got != tt.want {
			t.Errorf("line %d = %q, want %q", tt.z, got, tt.want)
		}
	}
}

func TestExpressionFromFile_LineMissing(t *testing.T) {
	dir := t.TempDir()
	writeExpressionFile(t, dir, 1, 1, "a,b\n")

	_, err := ExpressionFromFile(dir, 1, 1, 5)
	if !errors.Is(err, ErrLineNotFound) {
		t.Errorf("expected ErrLineNotFound, got %v", err)
	}
}

func TestExpressionFromFile_FileMissing(t *testing.T) {
	_, err := ExpressionFromFile(t.TempDir(), 9, 9, 1)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestWriteRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, Filename(1, 1))

	original := []*Instance{sampleInstance(), sampleInstance()}
	original[1].Metadata.Z = 9

	if err := Write(path, original); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	loaded, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(loaded))
	}
	if loaded[0].Metadata.Z != 3 || loaded[1].Metadata.Z != 9 {
		t.Errorf("metadata mismatch: z=%d,%d", loaded[0].Metadata.Z, loaded[1].Metadata.Z)
	}
}

func TestRead_NotGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, Filename(1, 1))
	if err := os.WriteFile(path, []byte("not compressed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("expected error reading uncompressed file")
	}
}

func TestReadAll(t *testing.T) {
	dir := t.TempDir()

	a := []*Instance{sampleInstance()}
	b := []*Instance{sampleInstance(), sampleInstance()}
	if err := Write(filepath.Join(dir, Filename(1, 1)), a); err != nil {
		t.Fatal(err)
	}
	if err := Write(filepath.Join(dir, Filename(2, 1)), b); err != nil {
		t.Fatal(err)
	}
	// Files without the bundle extension are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	all, err := ReadAll(dir, "")
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 instances, got %d", len(all))
	}

	only, err := ReadAll(dir, "x2_")
	if err != nil {
		t.Fatalf("ReadAll with pattern failed: %v", err)
	}
	if len(only) != 2 {
		t.Errorf("expected 2 instances for pattern x2_, got %d", len(only))
	}
}
