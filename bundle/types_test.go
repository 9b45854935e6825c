package bundle

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pflow-xyz/go-cpi/cpi"
)

func sampleInstance() *Instance {
	return &Instance{
		Process: &cpi.Node{
			ID:   0,
			Kind: cpi.KindSequence,
			Head: &cpi.Node{ID: 1, Kind: cpi.KindTask, Duration: 2, Impacts: []float64{0.5}},
			Tail: &cpi.Node{ID: 2, Kind: cpi.KindTask, Duration: 4, Impacts: []float64{0.25}},
		},
		Metadata: Metadata{
			X:                  1,
			Y:                  2,
			Z:                  3,
			NumImpacts:         1,
			ChoiceDistribution: 0.4,
			GenerationMode:     "bagging_remove",
			DurationInterval:   [2]int{1, 10},
		},
	}
}

func TestInstanceJSON_MetadataMergedIntoObject(t *testing.T) {
	data, err := json.Marshal(sampleInstance())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)

	// Metadata lives inside the instance object, not in a wrapper.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal to map failed: %v", err)
	}
	for _, key := range []string{"type", "id", "head", "tail", "metadata"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("top-level object missing %q:\n%s", key, s)
		}
	}

	wantFragments := []string{
		`"x":1`,
		`"y":2`,
		`"z":3`,
		`"num_impacts":1`,
		`"choice_distribution":0.4`,
		`"generation_mode":"bagging_remove"`,
		`"duration_interval":[1,10]`,
	}
	for _, frag := range wantFragments {
		if !strings.Contains(s, frag) {
			t.Errorf("metadata missing %s:\n%s", frag, s)
		}
	}
}

func TestInstanceJSON_RoundTrip(t *testing.T) {
	original := sampleInstance()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Instance
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.Metadata != original.Metadata {
		t.Errorf("metadata mismatch: %+v vs %+v", decoded.Metadata, original.Metadata)
	}
	if decoded.Process == nil || decoded.Process.Kind != cpi.KindSequence {
		t.Fatalf("process mismatch: %+v", decoded.Process)
	}
	if decoded.Process.Head.Duration != 2 || decoded.Process.Tail.Duration != 4 {
		t.Errorf("task durations lost: %+v", decoded.Process)
	}
}

func TestInstanceJSON_NoProcess(t *testing.T) {
	if _, err := json.Marshal(&Instance{}); err == nil {
		t.Error("expected error marshaling an instance without a process")
	}
}
