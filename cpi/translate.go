package cpi

import (
	"fmt"
	"math/rand"

	"github.com/pflow-xyz/go-cpi/impact"
	"github.com/pflow-xyz/go-cpi/process"
)

// Options configures one translation of an expression AST into an
// annotated process instance.
type Options struct {
	// ChoiceProbability is the Bernoulli success probability with
	// which an exclusive-choice point resolves to a controllable
	// choice rather than a stochastic nature split.
	ChoiceProbability float64

	// DurationMin and DurationMax bound task durations; each task
	// draws uniformly from the closed interval [min, max].
	DurationMin int
	DurationMax int

	// ImpactDims is the dimension of every task's impact vector.
	ImpactDims int

	// Mode selects the impact-vector perturbation strategy.
	Mode impact.Mode
}

// Translate walks ast once in pre-order and produces the annotated
// instance. IDs are assigned from a counter local to this call, so
// concurrent translations are independent as long as each call owns
// its rng. All impact vectors are drawn up front, one per task, and
// consumed in the same pre-order the IDs are assigned in.
//
// Parameter validation happens before any random draw; a failed call
// never returns a partial instance and never consumes randomness.
func Translate(ast process.Node, opts Options, rng *rand.Rand) (*Node, error) {
	if opts.DurationMin > opts.DurationMax {
		return nil, fmt.Errorf("%w: duration bounds [%d,%d] are inverted",
			impact.ErrInvalidParameter, opts.DurationMin, opts.DurationMax)
	}
	if opts.ImpactDims <= 0 {
		return nil, fmt.Errorf("%w: impact dimension must be positive, got %d",
			impact.ErrInvalidParameter, opts.ImpactDims)
	}

	vectors, err := impact.Generate(rng, process.CountTasks(ast), opts.ImpactDims, opts.Mode)
	if err != nil {
		return nil, err
	}

	tr := &translator{opts: opts, rng: rng, vectors: vectors}
	return tr.node(ast), nil
}

// translator carries the per-call traversal state: the pre-order id
// cursor and the next unconsumed impact vector.
type translator struct {
	opts    Options
	rng     *rand.Rand
	vectors [][]float64

	nextID   int
	nextTask int
}

func (tr *translator) allocID() int {
	id := tr.nextID
	tr.nextID++
	return id
}

func (tr *translator) node(ast process.Node) *Node {
	switch v := ast.(type) {
	case *process.Task:
		id := tr.allocID()
		vector := tr.vectors[tr.nextTask]
		tr.nextTask++
		span := tr.opts.DurationMax - tr.opts.DurationMin + 1
		return &Node{
			ID:       id,
			Kind:     KindTask,
			Duration: tr.opts.DurationMin + tr.rng.Intn(span),
			Impacts:  vector,
		}
	case *process.Sequential:
		id := tr.allocID()
		return &Node{
			ID:   id,
			Kind: KindSequence,
			Head: tr.node(v.Left),
			Tail: tr.node(v.Right),
		}
	case *process.Parallel:
		id := tr.allocID()
		return &Node{
			ID:          id,
			Kind:        KindParallel,
			FirstSplit:  tr.node(v.Left),
			SecondSplit: tr.node(v.Right),
		}
	case *process.Xor:
		id := tr.allocID()
		node := &Node{ID: id}
		if tr.rng.Float64() < tr.opts.ChoiceProbability {
			node.Kind = KindChoice
		} else {
			node.Kind = KindNature
			node.Probability = tr.rng.Float64()
		}
		node.TrueBranch = tr.node(v.Left)
		node.FalseBranch = tr.node(v.Right)
		return node
	}
	return nil
}
