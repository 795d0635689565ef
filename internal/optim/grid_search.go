package optim

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// Objective scores one parameter combination. Lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type Trial struct {
	Params map[string]float64
	Score  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Points enumerates the grid, last parameter varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var points []map[string]float64
	var walk func(depth int, current map[string]float64)
	walk = func(depth int, current map[string]float64) {
		if depth == len(g.paramNames) {
			points = append(points, current)
			return
		}
		for _, val := range g.ranges[depth] {
			next := make(map[string]float64, len(current)+1)
			for k, v := range current {
				next[k] = v
			}
			next[g.paramNames[depth]] = val
			walk(depth+1, next)
		}
	}
	walk(0, map[string]float64{})
	return points
}

// Search evaluates every grid point with at most workers concurrent calls
// and returns the trials in grid order plus the index of the best scoring
// one, or -1 when every trial failed. Failed trials are kept with Err set.
func (g *GridSearch) Search(ctx context.Context, objective Objective, workers int) ([]Trial, int, error) {
	points := g.Points()
	trials := make([]Trial, len(points))

	var eg errgroup.Group
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i, p := range points {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			score, err := objective(ctx, p)
			trials[i] = Trial{Params: p, Score: score, Err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, -1, err
	}

	best, bestScore := -1, math.Inf(1)
	for i, t := range trials {
		if t.Err == nil && t.Score < bestScore {
			best, bestScore = i, t.Score
		}
	}
	return trials, best, nil
}
