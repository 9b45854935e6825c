package visualization

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pflow-xyz/go-cpi/cpi"
)

func sampleInstance() *cpi.Node {
	return &cpi.Node{
		ID:   0,
		Kind: cpi.KindSequence,
		Head: &cpi.Node{
			ID:   1,
			Kind: cpi.KindNature,
			TrueBranch: &cpi.Node{
				ID: 2, Kind: cpi.KindTask,
				Duration: 4, Impacts: []float64{0.5, 0.25},
			},
			FalseBranch: &cpi.Node{
				ID: 3, Kind: cpi.KindTask,
				Duration: 2, Impacts: []float64{0.1, 0.9},
			},
			Probability: 0.75,
		},
		Tail: &cpi.Node{
			ID:          4,
			Kind:        cpi.KindParallel,
			FirstSplit:  &cpi.Node{ID: 5, Kind: cpi.KindTask, Duration: 1, Impacts: []float64{1}},
			SecondSplit: &cpi.Node{ID: 6, Kind: cpi.KindTask, Duration: 3, Impacts: []float64{0}},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleInstance())

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("DOT output must open a digraph, got:\n%s", dot)
	}
	if !strings.HasSuffix(dot, "}") {
		t.Error("DOT output must close the digraph")
	}
	if !strings.Contains(dot, "node [shape=box];") {
		t.Error("missing default node shape")
	}

	wantFragments := []string{
		// One node definition per instance node.
		`sequence0 [label="sequence0"];`,
		`parallel4 [label="parallel4"];`,
		`nature1 [label="nature1\np=0.75"];`,
		`task2 [label="task2\nduration: 4\nimpact_1: 0.5\nimpact_2: 0.25"];`,
		// One labeled edge per parent/child relation.
		`sequence0 -> nature1 [label="head"];`,
		`sequence0 -> parallel4 [label="tail"];`,
		`nature1 -> task2 [label="true"];`,
		`nature1 -> task3 [label="false"];`,
		`parallel4 -> task5 [label="first"];`,
		`parallel4 -> task6 [label="second"];`,
	}
	for _, frag := range wantFragments {
		if !strings.Contains(dot, frag) {
			t.Errorf("DOT output missing %q:\n%s", frag, dot)
		}
	}
}

func TestToDOT_ChoiceHasNoProbability(t *testing.T) {
	node := &cpi.Node{
		ID:          0,
		Kind:        cpi.KindChoice,
		TrueBranch:  &cpi.Node{ID: 1, Kind: cpi.KindTask, Duration: 1, Impacts: []float64{0.5}},
		FalseBranch: &cpi.Node{ID: 2, Kind: cpi.KindTask, Duration: 1, Impacts: []float64{0.5}},
	}
	dot := ToDOT(node)

	if !strings.Contains(dot, `choice0 [label="choice0"];`) {
		t.Errorf("choice node mislabeled:\n%s", dot)
	}
	if strings.Contains(dot, "p=") {
		t.Errorf("choice node must not show a probability:\n%s", dot)
	}
}

func TestToDOT_ParentBeforeChildren(t *testing.T) {
	dot := ToDOT(sampleInstance())

	parent := strings.Index(dot, `nature1 [label=`)
	child := strings.Index(dot, `task2 [label=`)
	if parent < 0 || child < 0 {
		t.Fatal("expected both node definitions")
	}
	if parent > child {
		t.Error("parent definition must precede its children")
	}
}

func TestSaveDOT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.dot")
	if err := SaveDOT(sampleInstance(), path); err != nil {
		t.Fatalf("SaveDOT failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != ToDOT(sampleInstance()) {
		t.Error("file contents differ from ToDOT output")
	}
}
