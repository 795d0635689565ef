// Package compute provides the dispatchers that run a per-element kernel over
// a generation.
//
//   - CPU: chunked goroutines bounded by an errgroup limit
//   - Serial: a single pass on the calling goroutine
//
// Both produce identical output because kernels only write their own slots:
//
//	backend := compute.AutoSelect(0)
//	defer backend.Cleanup()
//	err := backend.Dispatch(ctx, len(cells), func(start, end int) {
//	    life.Advance(cur, next, start, end)
//	})
//
// Kernel panics are reported as dynamo.ErrDispatch, as is launching on a
// canceled context or a cleaned-up backend. A step already in flight is never
// interrupted.
package compute
