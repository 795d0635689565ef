// Package dynamo provides the primitives shared by every simulation domain.
//
//   - [Buffer]: a pair of generations with ping-pong Swap
//   - [Allocator]: pluggable slice allocation so resize failures are testable
//   - [ParallelFor] and [Chunks]: data-parallel map over an index range
//   - [SimulationError] and the ErrX sentinels
//
// # Double Buffering
//
// A step reads only Current and writes only Next. Once every element of Next
// has been written the caller invokes Swap:
//
//	buf, _ := dynamo.NewBuffer[uint8](w * h)
//	step(buf.Current(), buf.Next())
//	buf.Swap()
//
// Reallocate allocates the replacement pair before releasing the old one, so
// a failed resize leaves the previous generations authoritative.
//
// # Thread Safety
//
// Buffer is NOT thread-safe. The owner serializes Swap and Reallocate with
// respect to in-flight steps.
package dynamo
