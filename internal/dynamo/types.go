package dynamo

import "fmt"

// MaxElements bounds a single generation. Larger requests fail with
// ErrAllocation instead of reaching the runtime allocator.
const MaxElements = 1 << 28

// Allocator returns a zeroed slice of length n or an error.
type Allocator[T any] func(n int) ([]T, error)

// MakeSlice is the default Allocator. A zero length is valid.
func MakeSlice[T any](n int) (s []T, err error) {
	if n < 0 || n > MaxElements {
		return nil, fmt.Errorf("%w: %d elements", ErrAllocation, n)
	}
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()
	return make([]T, n), nil
}

// Buffer holds two generations of equal length. Current is read during a
// step, Next is written, and Swap exchanges their roles.
type Buffer[T any] struct {
	gens  [2][]T
	cur   int
	swaps int
	alloc Allocator[T]
}

// NewBuffer allocates both generations with MakeSlice.
func NewBuffer[T any](n int) (*Buffer[T], error) {
	return NewBufferWith(n, MakeSlice[T])
}

// NewBufferWith allocates both generations with alloc, which is also used by
// later calls to Reallocate.
func NewBufferWith[T any](n int, alloc Allocator[T]) (*Buffer[T], error) {
	if alloc == nil {
		alloc = MakeSlice[T]
	}
	b := &Buffer[T]{alloc: alloc}
	a, c, err := b.allocPair(n)
	if err != nil {
		return nil, err
	}
	b.gens = [2][]T{a, c}
	return b, nil
}

func (b *Buffer[T]) allocPair(n int) ([]T, []T, error) {
	a, err := b.alloc(n)
	if err != nil {
		return nil, nil, err
	}
	c, err := b.alloc(n)
	if err != nil {
		return nil, nil, err
	}
	if len(a) != n || len(c) != n {
		return nil, nil, fmt.Errorf("%w: allocator returned wrong length", ErrAllocation)
	}
	return a, c, nil
}

// Current returns the authoritative generation.
func (b *Buffer[T]) Current() []T { return b.gens[b.cur] }

// Next returns the generation a step writes into.
func (b *Buffer[T]) Next() []T { return b.gens[1-b.cur] }

// Swap makes Next the current generation.
func (b *Buffer[T]) Swap() {
	b.cur = 1 - b.cur
	b.swaps++
}

// Len returns the length of one generation.
func (b *Buffer[T]) Len() int { return len(b.gens[0]) }

// Generations returns the number of swaps since allocation.
func (b *Buffer[T]) Generations() int { return b.swaps }

// Reallocate replaces both generations with new ones of length n. fill, if
// non-nil, initializes the new current generation from the old one before the
// swap-in. On failure the existing generations are left untouched.
func (b *Buffer[T]) Reallocate(n int, fill func(old, fresh []T)) error {
	a, c, err := b.allocPair(n)
	if err != nil {
		return err
	}
	if fill != nil {
		fill(b.Current(), a)
	}
	b.gens = [2][]T{a, c}
	b.cur = 0
	return nil
}

// Release drops both generations.
func (b *Buffer[T]) Release() {
	b.gens = [2][]T{}
}
