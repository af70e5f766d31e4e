// Package market implements the shared linear-demand profit model.
package market

import (
	"gonum.org/v1/gonum/floats"

	"github.com/nathoo/duopoly/types"
)

// Intercept is the demand intercept: price = Intercept - q1 - q2.
const Intercept = 100.0

// Price returns the market price for total output q1+q2, floored at zero.
func Price(q1, q2 float64) float64 {
	return max(0, Intercept-(q1+q2))
}

// Profit returns firm's profit (firm 1 or 2) at the given quantities.
// Any other firm id is treated as firm 2.
func Profit(firm int, q1, q2 float64) float64 {
	p := Price(q1, q2)
	if firm == 1 {
		return p * q1
	}
	return p * q2
}

// Profits returns both firms' profits at p.
func Profits(p types.Point) types.Profits {
	return types.Profits{
		Firm1: Profit(1, p.Q1, p.Q2),
		Firm2: Profit(2, p.Q1, p.Q2),
	}
}

// JointProfit returns the sum of both firms' profits.
func JointProfit(q1, q2 float64) float64 {
	return Profit(1, q1, q2) + Profit(2, q1, q2)
}

// QMax is the upper bound of the quantity space explored by the solvers
// and drawn by the plotting surface.
const QMax = 120.0

// Grid returns n evenly spaced quantities over [0, QMax], endpoints
// included. n == 1 yields [0]; n < 1 yields nil.
func Grid(n int) []float64 {
	return Span(0, QMax, n)
}

// Span returns n evenly spaced values over [lo, hi], endpoints included.
func Span(lo, hi float64, n int) []float64 {
	switch {
	case n < 1:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}
