package compute

import (
	"context"
	"fmt"
	"runtime"

	"github.com/san-kum/framesim/internal/dynamo"
)

// Kernel updates elements [start, end) of a generation. A kernel must read
// only the frozen current generation and write only its own output slots.
type Kernel func(start, end int)

// Backend executes a kernel over an index range and returns once every
// element has been written.
type Backend interface {
	Name() string
	Available() bool
	Dispatch(ctx context.Context, n int, kernel Kernel) error
	Cleanup()
}

// AutoSelect returns the CPU backend, or the serial backend when only one
// worker is available. workers <= 0 means runtime.NumCPU().
func AutoSelect(workers int) Backend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 {
		return NewSerialBackend()
	}
	return NewCPUBackend(workers)
}

func runKernel(kernel Kernel, start, end int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: kernel panic on [%d,%d): %v", dynamo.ErrDispatch, start, end, r)
		}
	}()
	kernel(start, end)
	return nil
}

func checkLaunch(ctx context.Context, closed bool) error {
	if closed {
		return fmt.Errorf("%w: backend cleaned up", dynamo.ErrDispatch)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrDispatch, err)
	}
	return nil
}
