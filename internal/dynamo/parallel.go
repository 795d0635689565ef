package dynamo

import "sync"

// Chunk is a half-open index range [Start, End).
type Chunk struct {
	Start, End int
}

// Chunks splits [0, n) into at most workers contiguous ranges of at least
// minChunk elements each (the last one may be shorter).
func Chunks(n, minChunk, workers int) []Chunk {
	if n <= 0 {
		return nil
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if workers < 1 {
		workers = 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers
	out := make([]Chunk, 0, workers)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		out = append(out, Chunk{Start: start, End: end})
	}
	return out
}

// ParallelFor executes fn in parallel over [0, n) and blocks until every
// chunk has returned.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	chunks := Chunks(n, minChunk, workers)
	if len(chunks) <= 1 {
		if n > 0 {
			fn(0, n)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for _, c := range chunks {
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(c.Start, c.End)
	}
	wg.Wait()
}
