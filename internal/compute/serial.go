package compute

import (
	"context"
	"sync/atomic"
)

// SerialBackend runs the whole range on the calling goroutine.
type SerialBackend struct {
	closed atomic.Bool
}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string    { return "serial" }
func (s *SerialBackend) Available() bool { return !s.closed.Load() }
func (s *SerialBackend) Cleanup()        { s.closed.Store(true) }

func (s *SerialBackend) Dispatch(ctx context.Context, n int, kernel Kernel) error {
	if err := checkLaunch(ctx, s.closed.Load()); err != nil {
		return err
	}
	if n <= 0 {
		return nil
	}
	return runKernel(kernel, 0, n)
}
