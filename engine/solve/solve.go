// Package solve computes duopoly equilibria from two best-response
// functions and the shared profit model. Solvers are pure: they take the
// responses as arguments and never touch application state.
package solve

import (
	"math"

	"github.com/nathoo/duopoly/engine/market"
	"github.com/nathoo/duopoly/types"
)

// Response maps the rival's quantity to a firm's best-response quantity.
// Implementations return NaN where the response is undefined.
type Response func(rival float64) float64

const (
	// StackelbergPoints is the number of leader candidates over [0, QMax].
	StackelbergPoints = 121
	// CollusionPoints is the grid size per axis for the joint search.
	CollusionPoints = 31
)

// Stackelberg returns the first-mover outcome for leader (1 or 2). The
// leader's quantity is chosen from StackelbergPoints candidates; on ties
// the smallest maximizing quantity wins. The step is one unit, so the
// result approximates the continuous optimum to that resolution.
func Stackelberg(leader int, br1, br2 Response) types.Equilibrium {
	if leader != 1 && leader != 2 {
		return types.Equilibrium{}
	}
	follower := br2
	if leader == 2 {
		follower = br1
	}
	if follower == nil {
		return types.Equilibrium{}
	}

	bestQ := 0.0
	bestPi := -1e9
	for _, q := range market.Grid(StackelbergPoints) {
		q1, q2 := order(leader, q, follower(q))
		if pi := market.Profit(leader, q1, q2); pi > bestPi {
			bestPi = pi
			bestQ = q
		}
	}

	q1, q2 := order(leader, bestQ, follower(bestQ))
	return equilibrium(q1, q2)
}

// Collusion returns the quantity pair maximizing joint profit over a
// CollusionPoints×CollusionPoints grid. The first maximizing pair in
// (q1 ascending, q2 ascending) order wins.
func Collusion() types.Equilibrium {
	grid := market.Grid(CollusionPoints)
	best1, best2 := 0.0, 0.0
	bestSum := -1e9
	for _, q1 := range grid {
		for _, q2 := range grid {
			if sum := market.JointProfit(q1, q2); sum > bestSum {
				bestSum = sum
				best1, best2 = q1, q2
			}
		}
	}
	return equilibrium(best1, best2)
}

// order arranges (leader, follower) quantities as (q1, q2).
func order(leader int, lq, fq float64) (float64, float64) {
	if leader == 1 {
		return lq, fq
	}
	return fq, lq
}

func equilibrium(q1, q2 float64) types.Equilibrium {
	if !finite(q1) || !finite(q2) {
		return types.Equilibrium{}
	}
	return types.Equilibrium{Point: types.Point{Q1: q1, Q2: q2}, Found: true}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
