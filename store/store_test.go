package store

import (
	"testing"

	"github.com/pflow-xyz/go-cpi/bundle"
	"github.com/pflow-xyz/go-cpi/cpi"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testInstance(z int, mode string) *bundle.Instance {
	return &bundle.Instance{
		Process: &cpi.Node{
			ID:   0,
			Kind: cpi.KindChoice,
			TrueBranch: &cpi.Node{
				ID: 1, Kind: cpi.KindTask, Duration: 3, Impacts: []float64{0.5, 0.1},
			},
			FalseBranch: &cpi.Node{
				ID: 2, Kind: cpi.KindTask, Duration: 5, Impacts: []float64{0.2, 0.9},
			},
		},
		Metadata: bundle.Metadata{
			X: 1, Y: 2, Z: z,
			NumImpacts:         2,
			ChoiceDistribution: 0.5,
			GenerationMode:     mode,
			DurationInterval:   [2]int{1, 10},
		},
	}
}

func TestCreateRunAndList(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateRun(42)
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty run id")
	}

	runs, err := s.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != id || runs[0].Seed != 42 {
		t.Errorf("run mismatch: %+v", runs[0])
	}
	if runs[0].Instances != 0 {
		t.Errorf("fresh run has %d instances", runs[0].Instances)
	}
}

func TestSaveInstance(t *testing.T) {
	s := newTestStore(t)

	runID, err := s.CreateRun(7)
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	if _, err := s.SaveInstance(runID, testInstance(1, "random")); err != nil {
		t.Fatalf("SaveInstance failed: %v", err)
	}
	if _, err := s.SaveInstance(runID, testInstance(2, "random")); err != nil {
		t.Fatalf("SaveInstance failed: %v", err)
	}
	if _, err := s.SaveInstance(runID, testInstance(3, "bagging_divide")); err != nil {
		t.Fatalf("SaveInstance failed: %v", err)
	}

	run, err := s.Run(runID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if run.Instances != 3 {
		t.Errorf("expected 3 instances, got %d", run.Instances)
	}

	records, err := s.Instances(runID)
	if err != nil {
		t.Fatalf("Instances failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	rec := records[0]
	if rec.TaskCount != 2 || rec.NodeCount != 3 {
		t.Errorf("structural counts wrong: tasks=%d nodes=%d", rec.TaskCount, rec.NodeCount)
	}
	if rec.ChoiceCount != 1 || rec.NatureCount != 0 {
		t.Errorf("branch counts wrong: choice=%d nature=%d", rec.ChoiceCount, rec.NatureCount)
	}
	if rec.Metadata.Z != 1 || rec.Metadata.GenerationMode != "random" {
		t.Errorf("metadata mismatch: %+v", rec.Metadata)
	}
}

func TestInstanceRecordRoundTrip(t *testing.T) {
	s := newTestStore(t)

	runID, err := s.CreateRun(7)
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	original := testInstance(4, "bagging_remove")
	if _, err := s.SaveInstance(runID, original); err != nil {
		t.Fatalf("SaveInstance failed: %v", err)
	}

	records, err := s.Instances(runID)
	if err != nil {
		t.Fatalf("Instances failed: %v", err)
	}
	decoded, err := records[0].Instance()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if decoded.Metadata != original.Metadata {
		t.Errorf("metadata mismatch: %+v vs %+v", decoded.Metadata, original.Metadata)
	}
	if decoded.Process.Kind != cpi.KindChoice {
		t.Errorf("process root kind = %s, want choice", decoded.Process.Kind)
	}
	if decoded.Process.TrueBranch.Duration != 3 {
		t.Errorf("true branch duration = %d, want 3", decoded.Process.TrueBranch.Duration)
	}
}

func TestCountByMode(t *testing.T) {
	s := newTestStore(t)

	runID, err := s.CreateRun(7)
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	for _, mode := range []string{"random", "random", "bagging_divide"} {
		if _, err := s.SaveInstance(runID, testInstance(1, mode)); err != nil {
			t.Fatalf("SaveInstance failed: %v", err)
		}
	}

	counts, err := s.CountByMode(runID)
	if err != nil {
		t.Fatalf("CountByMode failed: %v", err)
	}
	if counts["random"] != 2 || counts["bagging_divide"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestRunNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Run("no-such-run"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestRunsAreIsolated(t *testing.T) {
	s := newTestStore(t)

	runA, err := s.CreateRun(1)
	if err != nil {
		t.Fatal(err)
	}
	runB, err := s.CreateRun(2)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.SaveInstance(runA, testInstance(1, "random")); err != nil {
		t.Fatal(err)
	}

	a, err := s.Run(runA)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Run(runB)
	if err != nil {
		t.Fatal(err)
	}
	if a.Instances != 1 || b.Instances != 0 {
		t.Errorf("instance counts leaked across runs: a=%d b=%d", a.Instances, b.Instances)
	}
}
