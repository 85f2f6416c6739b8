package mesh

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Shape names a primitive generator.
type Shape int

const (
	ShapeCube Shape = iota
	ShapeCone
	ShapeCylinder
	ShapeSphere
)

func (s Shape) String() string {
	switch s {
	case ShapeCube:
		return "cube"
	case ShapeCone:
		return "cone"
	case ShapeCylinder:
		return "cylinder"
	case ShapeSphere:
		return "sphere"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Request describes one mesh to generate. Segments is ignored for cubes.
type Request struct {
	Shape    Shape
	Segments int
}

// Generate builds the mesh described by r.
//
// Returns:
//   - Mesh: the generated mesh
//   - error: if the shape is unknown
func (r Request) Generate() (Mesh, error) {
	switch r.Shape {
	case ShapeCube:
		return Cube(), nil
	case ShapeCone:
		return Cone(r.Segments), nil
	case ShapeCylinder:
		return Cylinder(r.Segments), nil
	case ShapeSphere:
		return Sphere(r.Segments), nil
	default:
		return Mesh{}, fmt.Errorf("mesh: unknown shape %v", r.Shape)
	}
}

// batchQueueSize bounds the tasks waiting on the shared pool; submitters block beyond it.
const batchQueueSize = 256

var (
	batchMu   sync.Mutex
	batchPool worker.DynamicWorkerPool
)

// sharedPool returns the package pool, building it on first use and growing it to at least
// workers workers. Workers live for the lifetime of the process and are reused by every batch.
// The caller must hold batchMu.
func sharedPool(workers int) worker.DynamicWorkerPool {
	if batchPool == nil {
		batchPool = worker.NewDynamicWorkerPool(workers, batchQueueSize, 1*time.Second)
		return batchPool
	}
	if n := workers - batchPool.GetMaxWorkers(); n > 0 {
		batchPool.IncreaseMaxWorkers(n)
	}
	return batchPool
}

// GenerateBatch builds every requested mesh on the package worker pool and returns them in
// request order. Concurrent calls run one batch at a time. It is meant for scene setup, never
// for work inside a frame.
//
// Parameters:
//   - workers: size the shared pool is grown to before submitting, at least 1
//   - requests: meshes to build
//
// Returns:
//   - []Mesh: generated meshes, index-aligned with requests
//   - error: the first generation error in request order
func GenerateBatch(workers int, requests ...Request) ([]Mesh, error) {
	out := make([]Mesh, len(requests))
	if len(requests) == 0 {
		return out, nil
	}
	errs := make([]error, len(requests))

	batchMu.Lock()
	defer batchMu.Unlock()
	pool := sharedPool(max(workers, 1))
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		idx, r := i, req
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				m, err := r.Generate()
				out[idx], errs[idx] = m, err
				return nil, err
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
