package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrAllocation indicates a generation or pixel buffer could not be allocated.
	ErrAllocation = errors.New("dynamo: buffer allocation failed")

	// ErrDispatch indicates the compute backend could not execute a step.
	ErrDispatch = errors.New("dynamo: compute dispatch failed")

	// ErrInvalidConfig indicates a rejected size, count or parameter.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrClosed indicates a command was issued after the loop released its buffers.
	ErrClosed = errors.New("dynamo: simulation closed")
)

// SimulationError wraps an error with frame context.
type SimulationError struct {
	Op      string
	Step    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("%s (frame %d): %v", e.Op, e.Step, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// Invalidf builds an error wrapping ErrInvalidConfig.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
