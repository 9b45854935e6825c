// Package impact generates the numeric impact vectors attached to task
// nodes. A batch of vectors is drawn up front, one per task, under one
// of six perturbation modes. Every mode starts from a fresh uniform
// base vector; the bagging modes then subsample, zero or scale
// components via repeated random index selection.
package impact

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidParameter reports a generation request with an unusable
// parameter: a non-positive dimension, a negative vector count, or an
// unknown mode.
var ErrInvalidParameter = errors.New("invalid parameter")

// Mode selects the vector perturbation strategy.
type Mode string

const (
	ModeRandom              Mode = "random"
	ModeBaggingDivide       Mode = "bagging_divide"
	ModeBaggingRemove       Mode = "bagging_remove"
	ModeBaggingRemoveDivide Mode = "bagging_remove_divide"
	ModeBaggingRemoveRev    Mode = "bagging_remove_reverse"
	ModeBaggingRemoveRevDiv Mode = "bagging_remove_reverse_divide"
)

// Modes lists every generation mode, in the order used by grid drivers.
var Modes = []Mode{
	ModeRandom,
	ModeBaggingDivide,
	ModeBaggingRemove,
	ModeBaggingRemoveDivide,
	ModeBaggingRemoveRev,
	ModeBaggingRemoveRevDiv,
}

// Valid reports whether m names a known generation mode.
func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// Generate draws count vectors of the given dimension from rng.
// Vectors are returned in draw order; callers that pair vectors with
// tasks rely on that order.
func Generate(rng *rand.Rand, count, dim int, mode Mode) ([][]float64, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidParameter, dim)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: count must be non-negative, got %d", ErrInvalidParameter, count)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown generation mode %q", ErrInvalidParameter, mode)
	}

	vectors := make([][]float64, 0, count)
	for n := 0; n < count; n++ {
		vector := baseVector(rng, dim)
		if mode != ModeRandom {
			// dim index picks with replacement; repeats are
			// intentional and compound for the divide modes.
			indexes := make([]int, dim)
			for i := range indexes {
				indexes[i] = rng.Intn(dim)
			}

			switch mode {
			case ModeBaggingDivide:
				for _, i := range indexes {
					vector[i] /= 10
				}
			case ModeBaggingRemove:
				next := make([]float64, dim)
				for _, i := range indexes {
					next[i] = vector[i]
				}
				vector = next
			case ModeBaggingRemoveDivide:
				next := make([]float64, dim)
				for _, i := range indexes {
					next[i] = vector[i] / 10
				}
				vector = next
			case ModeBaggingRemoveRev:
				for _, i := range indexes {
					vector[i] = 0
				}
			case ModeBaggingRemoveRevDiv:
				for _, i := range indexes {
					vector[i] = 0
				}
				nonZero := nonZeroIndexes(vector)
				if len(nonZero) > 0 {
					for k := 0; k < dim; k++ {
						vector[nonZero[rng.Intn(len(nonZero))]] /= 10
					}
				}
			}
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

// baseVector draws a fresh uniform [0,1) vector. Each mode derives its
// output from its own base draw; the duplication keeps every mode
// independently comparable against the random baseline.
func baseVector(rng *rand.Rand, dim int) []float64 {
	v := make([]float64, dim)
	for i := range v {
		v[i] = rng.Float64()
	}
	return v
}

func nonZeroIndexes(v []float64) []int {
	var idx []int
	for i, x := range v {
		if x != 0 {
			idx = append(idx, i)
		}
	}
	return idx
}
