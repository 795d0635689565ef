package compute

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/framesim/internal/dynamo"
)

// minChunk is the smallest range worth a goroutine.
const minChunk = 16

// CPUBackend splits the index range into contiguous chunks and runs them on a
// bounded set of goroutines.
type CPUBackend struct {
	workers int
	closed  atomic.Bool
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return !c.closed.Load() }
func (c *CPUBackend) Cleanup()        { c.closed.Store(true) }

func (c *CPUBackend) Workers() int { return c.workers }

func (c *CPUBackend) Dispatch(ctx context.Context, n int, kernel Kernel) error {
	if err := checkLaunch(ctx, c.closed.Load()); err != nil {
		return err
	}
	if n <= 0 {
		return nil
	}

	chunks := dynamo.Chunks(n, minChunk, c.workers)
	if len(chunks) == 1 {
		return runKernel(kernel, 0, n)
	}

	var g errgroup.Group
	g.SetLimit(c.workers)
	for _, ch := range chunks {
		g.Go(func() error {
			return runKernel(kernel, ch.Start, ch.End)
		})
	}
	return g.Wait()
}
