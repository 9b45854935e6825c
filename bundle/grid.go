package bundle

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pflow-xyz/go-cpi/cache"
	"github.com/pflow-xyz/go-cpi/cpi"
	"github.com/pflow-xyz/go-cpi/impact"
)

// Range is an inclusive integer interval of grid parameter values.
type Range struct {
	Min int
	Max int
}

// Count returns the number of values in the range.
func (r Range) Count() int {
	if r.Max < r.Min {
		return 0
	}
	return r.Max - r.Min + 1
}

// GridConfig configures bulk generation over a parameter grid. Each
// (x, y) pair identifies one expression file and produces one bundle;
// within a cell, every combination of line index z, impact dimension,
// choice distribution and generation mode yields one instance.
type GridConfig struct {
	XRange     Range
	YRange     Range
	ZRange     Range
	ImpactDims Range

	Modes               []impact.Mode
	ChoiceDistributions []float64
	DurationInterval    [2]int

	// InputDir holds the line-indexed expression files; OutputDir
	// receives the bundle files.
	InputDir  string
	OutputDir string

	// Parallel is the number of cells generated concurrently.
	Parallel int

	// Seed derives one independent random source per cell, so
	// concurrent cells never interleave draws.
	Seed int64

	// Progress, when non-nil, receives human-readable progress.
	Progress io.Writer
}

// DefaultChoiceDistributions returns the standard choice probability
// sweep, 0.1 through 0.9.
func DefaultChoiceDistributions() []float64 {
	dists := make([]float64, 0, 9)
	for i := 1; i <= 9; i++ {
		dists = append(dists, float64(i)/10)
	}
	return dists
}

// DefaultGridConfig returns the standard ten-by-ten grid over all
// generation modes.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		XRange:              Range{1, 10},
		YRange:              Range{1, 10},
		ZRange:              Range{1, 10},
		ImpactDims:          Range{1, 10},
		Modes:               impact.Modes,
		ChoiceDistributions: DefaultChoiceDistributions(),
		DurationInterval:    [2]int{1, 10},
		Parallel:            4,
	}
}

// CellResult reports the outcome of one (x, y) cell.
type CellResult struct {
	X         int
	Y         int
	Path      string
	Instances int

	// Errors lists per-combination failures. A failed combination
	// is skipped; the rest of the cell still generates.
	Errors []string
}

// GenerateCell generates every instance for one (x, y) cell and
// writes its bundle file. Expressions are parsed through the shared
// cache, so each line is parsed once rather than once per parameter
// combination. Per-combination failures are collected in the result;
// only writing the bundle itself is fatal.
func GenerateCell(cfg GridConfig, x, y int, rng *rand.Rand, exprs *cache.ExprCache) (*CellResult, error) {
	res := &CellResult{X: x, Y: y}
	var instances []*Instance

	for z := cfg.ZRange.Min; z <= cfg.ZRange.Max; z++ {
		for dims := cfg.ImpactDims.Min; dims <= cfg.ImpactDims.Max; dims++ {
			for _, dist := range cfg.ChoiceDistributions {
				for _, mode := range cfg.Modes {
					inst, err := generateOne(cfg, x, y, z, dims, dist, mode, rng, exprs)
					if err != nil {
						res.Errors = append(res.Errors,
							fmt.Sprintf("z=%d dims=%d dist=%v mode=%s: %v", z, dims, dist, mode, err))
						continue
					}
					instances = append(instances, inst)
				}
			}
		}
	}

	res.Path = filepath.Join(cfg.OutputDir, Filename(x, y))
	if err := Write(res.Path, instances); err != nil {
		return nil, err
	}
	res.Instances = len(instances)
	return res, nil
}

func generateOne(cfg GridConfig, x, y, z, dims int, dist float64, mode impact.Mode, rng *rand.Rand, exprs *cache.ExprCache) (*Instance, error) {
	expr, err := ExpressionFromFile(cfg.InputDir, x, y, z)
	if err != nil {
		return nil, err
	}
	ast, err := exprs.Parse(expr)
	if err != nil {
		return nil, err
	}
	node, err := cpi.Translate(ast, cpi.Options{
		ChoiceProbability: dist,
		DurationMin:       cfg.DurationInterval[0],
		DurationMax:       cfg.DurationInterval[1],
		ImpactDims:        dims,
		Mode:              mode,
	}, rng)
	if err != nil {
		return nil, err
	}
	return &Instance{
		Process: node,
		Metadata: Metadata{
			X:                  x,
			Y:                  y,
			Z:                  z,
			NumImpacts:         dims,
			ChoiceDistribution: dist,
			GenerationMode:     string(mode),
			DurationInterval:   cfg.DurationInterval,
		},
	}, nil
}

// GenerateGrid generates a bundle for every (x, y) cell of the grid,
// running cells on a fixed-size worker pool. Each cell draws from its
// own random source seeded from cfg.Seed, so results are independent
// of scheduling.
func GenerateGrid(cfg GridConfig) ([]CellResult, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	parallel := cfg.Parallel
	if parallel < 1 {
		parallel = 1
	}

	type cell struct{ x, y int }
	var cells []cell
	for x := cfg.XRange.Min; x <= cfg.XRange.Max; x++ {
		for y := cfg.YRange.Min; y <= cfg.YRange.Max; y++ {
			cells = append(cells, cell{x, y})
		}
	}

	exprs := cache.NewExprCache(0)
	cellChan := make(chan cell, len(cells))
	resultChan := make(chan CellResult, len(cells))
	errChan := make(chan error, len(cells))

	var wg sync.WaitGroup
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range cellChan {
				rng := rand.New(rand.NewSource(cellSeed(cfg.Seed, c.x, c.y)))
				res, err := GenerateCell(cfg, c.x, c.y, rng, exprs)
				if err != nil {
					errChan <- fmt.Errorf("cell x=%d y=%d: %w", c.x, c.y, err)
					continue
				}
				resultChan <- *res
			}
		}()
	}

	for _, c := range cells {
		cellChan <- c
	}
	close(cellChan)

	go func() {
		wg.Wait()
		close(resultChan)
		close(errChan)
	}()

	var results []CellResult
	completed := 0
	for res := range resultChan {
		results = append(results, res)
		completed++
		if cfg.Progress != nil {
			fmt.Fprintf(cfg.Progress, "\rCompleted: %d/%d bundles", completed, len(cells))
		}
	}
	if cfg.Progress != nil && completed > 0 {
		fmt.Fprintf(cfg.Progress, "\n")
	}

	if err := <-errChan; err != nil {
		return results, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].X != results[j].X {
			return results[i].X < results[j].X
		}
		return results[i].Y < results[j].Y
	})
	return results, nil
}

// cellSeed derives a per-cell seed from the base seed. Cells must not
// share a sequence of draws.
func cellSeed(base int64, x, y int) int64 {
	return base ^ (int64(x) << 32) ^ int64(y)
}
