package solve

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/nathoo/duopoly/engine/market"
	"github.com/nathoo/duopoly/types"
)

const (
	// bracketPoints is the scan resolution per interval used when the
	// fixed-point equation is not a low-degree polynomial.
	bracketPoints = 241
	// widenSteps bounds how often the scan grows past [0, QMax] on each
	// side before the system is reported as having no solution.
	widenSteps = 8
)

// Cournot solves the simultaneous system q1 = BR1(q2), q2 = BR2(q1).
//
// The system reduces to g(q1) = BR1(BR2(q1)) - q1 = 0. When g is a
// polynomial of degree at most two its coefficients are recovered exactly
// and the roots taken in closed form; otherwise roots are bracketed on
// [0, QMax] and refined by bisection. When that interval holds no root the
// scan widens on both sides, tripling the searched span each step.
//
// Roots are ordered ascending in q1. The first root whose coordinates are
// both non-negative is reported, else the first root. Coordinates are
// clamped to be non-negative. A missing or degenerate solution (g constant,
// including identically zero) yields Found == false.
func Cournot(br1, br2 Response) types.Equilibrium {
	if br1 == nil || br2 == nil {
		return types.Equilibrium{}
	}
	g := func(q1 float64) float64 { return br1(br2(q1)) - q1 }

	roots, ok := polyRoots(g)
	if !ok {
		roots = scanRoots(g)
	}

	var cands []types.Point
	for _, r := range roots {
		q2 := br2(r)
		if !finite(r) || !finite(q2) {
			continue
		}
		if back := br1(q2); !finite(back) || math.Abs(back-r) > 1e-6*(1+math.Abs(r)) {
			continue
		}
		cands = append(cands, types.Point{Q1: r, Q2: q2})
	}
	if len(cands) == 0 {
		return types.Equilibrium{}
	}

	pick := cands[0]
	for _, c := range cands {
		if c.Q1 >= 0 && c.Q2 >= 0 {
			pick = c
			break
		}
	}
	return types.Equilibrium{
		Point: types.Point{Q1: max(0, pick.Q1), Q2: max(0, pick.Q2)},
		Found: true,
	}
}

// polyRoots recovers g as a polynomial of degree ≤ 2 from exact finite
// differences at 0..3 and checks the fit at further probe points. It
// returns ok == false when g is not such a polynomial.
func polyRoots(g func(float64) float64) ([]float64, bool) {
	var y [4]float64
	for i := range y {
		y[i] = g(float64(i))
		if !finite(y[i]) {
			return nil, false
		}
	}
	scale := 1 + math.Max(math.Max(math.Abs(y[0]), math.Abs(y[1])), math.Max(math.Abs(y[2]), math.Abs(y[3])))
	eps := 1e-9 * scale

	d1 := y[1] - y[0]
	d2 := y[2] - 2*y[1] + y[0]
	d3 := y[3] - 3*y[2] + 3*y[1] - y[0]
	if math.Abs(d3) > eps {
		return nil, false
	}

	c0 := y[0]
	c2 := d2 / 2
	c1 := d1 - c2
	if math.Abs(d2) <= eps {
		c2 = 0
		c1 = d1
	}
	poly := func(x float64) float64 { return (c2*x+c1)*x + c0 }

	for _, x := range []float64{7.5, 41.25, 113} {
		gx := g(x)
		if !finite(gx) || !scalar.EqualWithinAbsOrRel(gx, poly(x), 1e-7, 1e-9) {
			return nil, false
		}
	}

	switch {
	case c2 != 0:
		disc := c1*c1 - 4*c2*c0
		if disc < 0 {
			return nil, true
		}
		s := math.Sqrt(disc)
		roots := []float64{(-c1 - s) / (2 * c2), (-c1 + s) / (2 * c2)}
		sort.Float64s(roots)
		if roots[0] == roots[1] {
			roots = roots[:1]
		}
		return roots, true
	case math.Abs(c1) > eps:
		return []float64{-c0 / c1}, true
	default:
		// Constant g: either no fixed point or a continuum of them.
		return nil, true
	}
}

// scanRoots brackets roots on [0, QMax] first, then on growing intervals
// left and right of what has been searched until some root turns up.
func scanRoots(g func(float64) float64) []float64 {
	lo, hi := 0.0, market.QMax
	roots := bracketRoots(g, lo, hi, bracketPoints)
	for i := 0; i < widenSteps; i++ {
		if len(roots) > 0 {
			break
		}
		width := hi - lo
		roots = append(bracketRoots(g, lo-width, lo, bracketPoints), bracketRoots(g, hi, hi+width, bracketPoints)...)
		lo, hi = lo-width, hi+width
	}
	return roots
}

// bracketRoots scans n evenly spaced points over [lo, hi] for sign changes
// of g and refines each bracket by bisection. Non-finite samples break
// brackets. Roots are returned in ascending order.
func bracketRoots(g func(float64) float64, lo, hi float64, n int) []float64 {
	xs := market.Span(lo, hi, n)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = g(x)
	}

	var roots []float64
	for i := range xs {
		if ys[i] == 0 {
			roots = append(roots, xs[i])
			continue
		}
		if i == 0 || !finite(ys[i-1]) || !finite(ys[i]) || ys[i-1] == 0 {
			continue
		}
		if (ys[i-1] < 0) != (ys[i] < 0) {
			if r, ok := bisect(g, xs[i-1], xs[i], ys[i-1]); ok {
				roots = append(roots, r)
			}
		}
	}
	return roots
}

func bisect(g func(float64) float64, a, b, ga float64) (float64, bool) {
	for i := 0; i < 200; i++ {
		m := (a + b) / 2
		gm := g(m)
		if !finite(gm) {
			return 0, false
		}
		if gm == 0 || b-a < 1e-12 {
			return m, true
		}
		if (gm < 0) == (ga < 0) {
			a, ga = m, gm
		} else {
			b = m
		}
	}
	return (a + b) / 2, true
}
