// Package cobweb builds the iterative best-response path and steps through
// it as an animation.
package cobweb

import (
	"time"

	"github.com/nathoo/duopoly/types"
)

const (
	// Iterations is the number of best-response rounds in a path.
	Iterations = 10
	// Delay is the pause between animation steps.
	Delay = 700 * time.Millisecond
)

// Start is the default starting point of the path.
var Start = types.Point{Q1: 5, Q2: 0}

// BuildPath alternates best responses starting from start: firm 1 responds
// to the current q2, then firm 2 responds to the new q1. The path holds
// 1 + 2*iterations points and always terminates.
func BuildPath(br1, br2 func(float64) float64, start types.Point, iterations int) []types.Point {
	if iterations < 0 {
		iterations = 0
	}
	path := make([]types.Point, 0, 1+2*iterations)
	path = append(path, start)

	q1, q2 := start.Q1, start.Q2
	for i := 0; i < iterations; i++ {
		q1 = br1(q2)
		path = append(path, types.Point{Q1: q1, Q2: q2})
		q2 = br2(q1)
		path = append(path, types.Point{Q1: q1, Q2: q2})
	}
	return path
}

// Arrows returns the segments joining consecutive path points.
func Arrows(path []types.Point) []types.Arrow {
	if len(path) < 2 {
		return nil
	}
	arrows := make([]types.Arrow, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		arrows = append(arrows, types.Arrow{From: path[i], To: path[i+1]})
	}
	return arrows
}
