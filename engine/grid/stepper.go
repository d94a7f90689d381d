package grid

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Stepper advances a grid by one generation.
type Stepper interface {
	// Step evaluates rule over every cell of src under topology and writes the result into dst.
	// src and dst must be distinct grids of the same size.
	//
	// Parameters:
	//   - src: the current generation, read only
	//   - dst: the next generation, fully overwritten
	//   - rule: the birth/survival rule
	//   - topology: how neighbours past the edge are resolved
	//
	// Returns:
	//   - error: ErrSizeMismatch if the grids differ in size, or an error if src and dst alias
	Step(src, dst *Grid, rule Rule, topology Topology) error
}

// Step runs one generation on the calling goroutine and returns the new grid.
// It is the reference implementation that GPU output is compared against.
func Step(src *Grid, rule Rule, topology Topology) *Grid {
	dst := &Grid{width: src.width, height: src.height, cells: make([]float32, len(src.cells))}
	stepRows(src, dst, rule, topology, 0, src.height)
	return dst
}

// StepN applies Step n times.
func StepN(src *Grid, rule Rule, topology Topology, n int) *Grid {
	g := src.Clone()
	for range n {
		g = Step(g, rule, topology)
	}
	return g
}

// Neighbours counts the live cells in the Moore neighbourhood of (x, y).
func Neighbours(g *Grid, x, y int, topology Topology) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if topology == TopologyToroidal {
				nx = (nx + g.width) % g.width
				ny = (ny + g.height) % g.height
			} else if nx < 0 || ny < 0 || nx >= g.width || ny >= g.height {
				continue
			}
			if g.cells[ny*g.width+nx] >= AliveThreshold {
				n++
			}
		}
	}
	return n
}

func stepRows(src, dst *Grid, rule Rule, topology Topology, y0, y1 int) {
	for y := y0; y < y1; y++ {
		for x := 0; x < src.width; x++ {
			alive := src.cells[y*src.width+x] >= AliveThreshold
			if rule.Next(alive, Neighbours(src, x, y, topology)) {
				dst.cells[y*dst.width+x] = 1
			} else {
				dst.cells[y*dst.width+x] = 0
			}
		}
	}
}

// parallelStepper is the implementation of the Stepper interface backed by a worker pool.
type parallelStepper struct {
	pool     worker.DynamicWorkerPool
	workers  int
	minRows  int
	nextTask int
	mu       sync.Mutex
}

var _ Stepper = &parallelStepper{}

// NewParallelStepper creates a Stepper that splits the grid into row bands and evaluates them
// on a shared DynamicWorkerPool. Workers are reused across steps. Each Step blocks until every
// band has been written.
//
// Parameters:
//   - workers: the number of pool workers, values < 1 select max(NumCPU-1, 1)
//
// Returns:
//   - Stepper: the pooled stepper
func NewParallelStepper(workers int) Stepper {
	if workers < 1 {
		workers = max(runtime.NumCPU()-1, 1)
	}
	return &parallelStepper{
		pool:    worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
		workers: workers,
		minRows: 16,
	}
}

func (p *parallelStepper) Step(src, dst *Grid, rule Rule, topology Topology) error {
	if !src.SameSize(dst) {
		return fmt.Errorf("step %dx%d into %dx%d: %w", src.width, src.height, dst.width, dst.height, ErrSizeMismatch)
	}
	if src == dst || &src.cells[0] == &dst.cells[0] {
		return fmt.Errorf("step source and destination alias the same cells")
	}

	bands := min(p.workers, max(src.height/p.minRows, 1))
	if bands == 1 {
		stepRows(src, dst, rule, topology, 0, src.height)
		return nil
	}

	// pool.Wait blocks until workers idle-exit, so each step joins on its own WaitGroup.
	var wg sync.WaitGroup
	rows := (src.height + bands - 1) / bands
	for y0 := 0; y0 < src.height; y0 += rows {
		y1 := min(y0+rows, src.height)
		wg.Add(1)
		p.pool.SubmitTask(worker.Task{
			ID: p.taskID(),
			Do: func() (any, error) {
				defer wg.Done()
				stepRows(src, dst, rule, topology, y0, y1)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return nil
}

func (p *parallelStepper) taskID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextTask++
	return p.nextTask
}
