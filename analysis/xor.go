// Package analysis computes structural complexity metrics over
// expression ASTs. Both metrics are pure functions of tree shape and
// look only at how exclusive-choice points nest and distribute;
// sequencing and parallel composition are transparent except for how
// they aggregate their children.
package analysis

import "github.com/pflow-xyz/go-cpi/process"

// MaxNestedXor returns the length of the longest chain of nested
// exclusive-choice points along any root-to-leaf path. Sequential and
// parallel nodes pass the maximum of their children through without
// adding to it; each Xor adds one level.
func MaxNestedXor(n process.Node) int {
	switch v := n.(type) {
	case *process.Task:
		return 0
	case *process.Sequential:
		return max(MaxNestedXor(v.Left), MaxNestedXor(v.Right))
	case *process.Parallel:
		return max(MaxNestedXor(v.Left), MaxNestedXor(v.Right))
	case *process.Xor:
		return 1 + max(MaxNestedXor(v.Left), MaxNestedXor(v.Right))
	}
	return 0
}

// MaxIndependentXor returns the maximum number of exclusive-choice
// points that can all be reached in one execution. Sequential and
// parallel nodes sum their children, since choice points in disjoint
// or concurrent regions accumulate. An Xor contributes itself but
// only the larger of its alternatives: just one side of it ever runs,
// so nested choices on the two sides never combine.
func MaxIndependentXor(n process.Node) int {
	switch v := n.(type) {
	case *process.Task:
		return 0
	case *process.Sequential:
		return MaxIndependentXor(v.Left) + MaxIndependentXor(v.Right)
	case *process.Parallel:
		return MaxIndependentXor(v.Left) + MaxIndependentXor(v.Right)
	case *process.Xor:
		return max(1, max(MaxIndependentXor(v.Left), MaxIndependentXor(v.Right)))
	}
	return 0
}
