// Package cpi builds and represents annotated process instances.
// Translating a parsed expression yields one instance node per AST
// node: tasks carry a random duration and an impact vector, and every
// exclusive-choice point is resolved to either a controllable choice
// or a stochastic nature split with a drawn probability.
package cpi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the instance node variants.
type Kind string

const (
	KindTask     Kind = "task"
	KindSequence Kind = "sequence"
	KindParallel Kind = "parallel"
	KindChoice   Kind = "choice"
	KindNature   Kind = "nature"
)

// Node is one node of an annotated process instance. Exactly the
// fields for its Kind are populated:
//
//	task     — Duration, Impacts
//	sequence — Head, Tail
//	parallel — FirstSplit, SecondSplit
//	choice   — TrueBranch, FalseBranch
//	nature   — TrueBranch, FalseBranch, Probability
//
// IDs are unique across one instance and assigned in pre-order, so
// they form the contiguous range [0, node count).
type Node struct {
	ID   int
	Kind Kind

	Duration int
	Impacts  []float64 // impact_1..impact_N, in key order

	Head *Node
	Tail *Node

	FirstSplit  *Node
	SecondSplit *Node

	TrueBranch  *Node
	FalseBranch *Node
	Probability float64
}

// CountKind returns the number of nodes of the given kind in the
// subtree rooted at n.
func (n *Node) CountKind(kind Kind) int {
	if n == nil {
		return 0
	}
	count := 0
	if n.Kind == kind {
		count = 1
	}
	for _, child := range n.children() {
		count += child.CountKind(kind)
	}
	return count
}

// Count returns the total number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	count := 1
	for _, child := range n.children() {
		count += child.Count()
	}
	return count
}

// Walk visits n and its descendants in pre-order, left child first.
func (n *Node) Walk(visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, child := range n.children() {
		child.Walk(visit)
	}
}

func (n *Node) children() []*Node {
	switch n.Kind {
	case KindSequence:
		return []*Node{n.Head, n.Tail}
	case KindParallel:
		return []*Node{n.FirstSplit, n.SecondSplit}
	case KindChoice, KindNature:
		return []*Node{n.TrueBranch, n.FalseBranch}
	}
	return nil
}

// MarshalJSON emits the wire shape consumed by bundle files and the
// visualization: a "type"-tagged object whose impacts object keeps
// impact_1..impact_N in index order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	writeJSONString(&buf, string(n.Kind))
	fmt.Fprintf(&buf, `,"id":%d`, n.ID)

	switch n.Kind {
	case KindTask:
		fmt.Fprintf(&buf, `,"duration":%d,"impacts":{`, n.Duration)
		for i, v := range n.Impacts {
			if i > 0 {
				buf.WriteByte(',')
			}
			fmt.Fprintf(&buf, `"impact_%d":`, i+1)
			buf.Write(jsonFloat(v))
		}
		buf.WriteByte('}')
	case KindSequence:
		if err := writeChild(&buf, "head", n.Head); err != nil {
			return nil, err
		}
		if err := writeChild(&buf, "tail", n.Tail); err != nil {
			return nil, err
		}
	case KindParallel:
		if err := writeChild(&buf, "first_split", n.FirstSplit); err != nil {
			return nil, err
		}
		if err := writeChild(&buf, "second_split", n.SecondSplit); err != nil {
			return nil, err
		}
	case KindChoice, KindNature:
		if err := writeChild(&buf, "true", n.TrueBranch); err != nil {
			return nil, err
		}
		if err := writeChild(&buf, "false", n.FalseBranch); err != nil {
			return nil, err
		}
		if n.Kind == KindNature {
			buf.WriteString(`,"probability":`)
			buf.Write(jsonFloat(n.Probability))
		}
	default:
		return nil, fmt.Errorf("unknown node kind %q", n.Kind)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeChild(buf *bytes.Buffer, key string, child *Node) error {
	if child == nil {
		return fmt.Errorf("missing %s child", key)
	}
	data, err := child.MarshalJSON()
	if err != nil {
		return err
	}
	buf.WriteByte(',')
	writeJSONString(buf, key)
	buf.WriteByte(':')
	buf.Write(data)
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	data, _ := json.Marshal(s)
	buf.Write(data)
}

func jsonFloat(v float64) []byte {
	data, _ := json.Marshal(v)
	return data
}

// nodeJSON is the decoding shadow of Node.
type nodeJSON struct {
	Type        Kind               `json:"type"`
	ID          int                `json:"id"`
	Duration    int                `json:"duration"`
	Impacts     map[string]float64 `json:"impacts"`
	Head        *Node              `json:"head"`
	Tail        *Node              `json:"tail"`
	FirstSplit  *Node              `json:"first_split"`
	SecondSplit *Node              `json:"second_split"`
	TrueBranch  *Node              `json:"true"`
	FalseBranch *Node              `json:"false"`
	Probability float64            `json:"probability"`
}

// UnmarshalJSON decodes the wire shape. Impact keys are restored to
// index order by their numeric suffix.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.ID = raw.ID
	n.Kind = raw.Type
	n.Duration = raw.Duration
	n.Head = raw.Head
	n.Tail = raw.Tail
	n.FirstSplit = raw.FirstSplit
	n.SecondSplit = raw.SecondSplit
	n.TrueBranch = raw.TrueBranch
	n.FalseBranch = raw.FalseBranch
	n.Probability = raw.Probability

	if len(raw.Impacts) > 0 {
		impacts, err := orderImpacts(raw.Impacts)
		if err != nil {
			return err
		}
		n.Impacts = impacts
	}
	return nil
}

func orderImpacts(m map[string]float64) ([]float64, error) {
	type entry struct {
		index int
		value float64
	}
	entries := make([]entry, 0, len(m))
	for k, v := range m {
		suffix, ok := strings.CutPrefix(k, "impact_")
		if !ok {
			return nil, fmt.Errorf("unexpected impact key %q", k)
		}
		i, err := strconv.Atoi(suffix)
		if err != nil {
			return nil, fmt.Errorf("unexpected impact key %q", k)
		}
		entries = append(entries, entry{index: i, value: v})
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].index < entries[b].index })

	impacts := make([]float64, 0, len(entries))
	for _, e := range entries {
		impacts = append(impacts, e.value)
	}
	return impacts, nil
}
