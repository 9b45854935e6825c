// Package bundle reads and writes collections of annotated process
// instances. A bundle is a gzip-compressed JSON array, one file per
// (x, y) pair of the generation grid, with each instance carrying the
// parameter metadata it was generated under. The package also reads
// the line-indexed expression files the grid draws from, and drives
// grid generation itself.
package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pflow-xyz/go-cpi/cpi"
)

// Metadata identifies the grid cell and parameters an instance was
// generated from.
type Metadata struct {
	X                  int     `json:"x"`
	Y                  int     `json:"y"`
	Z                  int     `json:"z"`
	NumImpacts         int     `json:"num_impacts"`
	ChoiceDistribution float64 `json:"choice_distribution"`
	GenerationMode     string  `json:"generation_mode"`
	DurationInterval   [2]int  `json:"duration_interval"`
}

// Instance is one generated process instance together with its
// generation metadata. On the wire the metadata is a "metadata" key
// inside the instance's own JSON object, not a wrapper around it.
type Instance struct {
	Process  *cpi.Node
	Metadata Metadata
}

// MarshalJSON merges the metadata into the process node's object.
func (in *Instance) MarshalJSON() ([]byte, error) {
	if in.Process == nil {
		return nil, fmt.Errorf("instance has no process")
	}
	node, err := json.Marshal(in.Process)
	if err != nil {
		return nil, err
	}
	meta, err := json.Marshal(in.Metadata)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(node[:len(node)-1]) // drop closing brace
	buf.WriteString(`,"metadata":`)
	buf.Write(meta)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON splits the flat object back into process and metadata.
func (in *Instance) UnmarshalJSON(data []byte) error {
	var meta struct {
		Metadata Metadata `json:"metadata"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}
	node := &cpi.Node{}
	if err := json.Unmarshal(data, node); err != nil {
		return err
	}
	in.Process = node
	in.Metadata = meta.Metadata
	return nil
}
