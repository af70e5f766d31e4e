package solve

import (
	"math"
	"testing"

	"github.com/nathoo/duopoly/engine/market"
)

func defaultBR1(q2 float64) float64 { return (100 - q2) / 2 }
func defaultBR2(q1 float64) float64 { return (100 - q1) / 2 }

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestCournot_Defaults(t *testing.T) {
	eq := Cournot(defaultBR1, defaultBR2)
	if !eq.Found {
		t.Fatal("expected an equilibrium")
	}
	if !near(eq.Q1, 100.0/3, 1e-3) || !near(eq.Q2, 100.0/3, 1e-3) {
		t.Errorf("Cournot = (%v, %v), want (33.333, 33.333)", eq.Q1, eq.Q2)
	}

	price := market.Price(eq.Q1, eq.Q2)
	if !near(price, 33.333, 1e-3) {
		t.Errorf("price = %v, want ~33.333", price)
	}
	if pi := market.Profit(1, eq.Q1, eq.Q2); !near(pi, price*eq.Q1, 1e-9) || !near(pi, 1111.1, 0.1) {
		t.Errorf("profit = %v, want price*q1 ~1111.1", pi)
	}
}

func TestCournot_Asymmetric(t *testing.T) {
	// Firm 1 has lower cost: q1 = (90 - q2)/2, q2 = (70 - q1)/2.
	br1 := func(q2 float64) float64 { return (90 - q2) / 2 }
	br2 := func(q1 float64) float64 { return (70 - q1) / 2 }
	eq := Cournot(br1, br2)
	if !eq.Found {
		t.Fatal("expected an equilibrium")
	}
	// q1 = (90 - (70 - q1)/2)/2 → 4q1 = 180 - 70 + q1 → q1 = 110/3.
	if !near(eq.Q1, 110.0/3, 1e-6) || !near(eq.Q2, (70-110.0/3)/2, 1e-6) {
		t.Errorf("Cournot = (%v, %v)", eq.Q1, eq.Q2)
	}
}

func TestCournot_ParallelLinesHaveNoSolution(t *testing.T) {
	// q1 = 100 - q2 and q2 = 10 - q1 never meet.
	br1 := func(q2 float64) float64 { return 100 - q2 }
	br2 := func(q1 float64) float64 { return 10 - q1 }
	if eq := Cournot(br1, br2); eq.Found {
		t.Errorf("expected no equilibrium, got (%v, %v)", eq.Q1, eq.Q2)
	}
}

func TestCournot_CoincidentLinesAreDegenerate(t *testing.T) {
	// Every point on q1 + q2 = 100 is a fixed point.
	br1 := func(q2 float64) float64 { return 100 - q2 }
	br2 := func(q1 float64) float64 { return 100 - q1 }
	if eq := Cournot(br1, br2); eq.Found {
		t.Errorf("expected degenerate system to report no equilibrium, got (%v, %v)", eq.Q1, eq.Q2)
	}
}

func TestCournot_ClampsNegative(t *testing.T) {
	// Fixed point at q1 = 20, q2 = -10: only one root, so it is reported clamped.
	br1 := func(q2 float64) float64 { return 10 - q2 }
	br2 := func(q1 float64) float64 { return q1 - 30 }
	eq := Cournot(br1, br2)
	if !eq.Found {
		t.Fatal("expected an equilibrium")
	}
	if !near(eq.Q1, 20, 1e-9) || eq.Q2 != 0 {
		t.Errorf("Cournot = (%v, %v), want (20, 0)", eq.Q1, eq.Q2)
	}
}

func TestCournot_QuadraticPrefersNonNegative(t *testing.T) {
	// q2 = q1^2 / 10 and q1 = q2 + 2.4 → q1^2 - 10 q1 + 24 = 0 → roots 4 and 6.
	br1 := func(q2 float64) float64 { return q2 + 2.4 }
	br2 := func(q1 float64) float64 { return q1 * q1 / 10 }
	eq := Cournot(br1, br2)
	if !eq.Found {
		t.Fatal("expected an equilibrium")
	}
	if !near(eq.Q1, 4, 1e-9) || !near(eq.Q2, 1.6, 1e-9) {
		t.Errorf("Cournot = (%v, %v), want first root (4, 1.6)", eq.Q1, eq.Q2)
	}
}

func TestCournot_NonPolynomial(t *testing.T) {
	// q1 = sqrt(q2), q2 = q1 + 2 → q1^2 - q1 - 2 = 0 in the sqrt domain → q1 = 2.
	br1 := func(q2 float64) float64 { return math.Sqrt(q2) }
	br2 := func(q1 float64) float64 { return q1 + 2 }
	eq := Cournot(br1, br2)
	if !eq.Found {
		t.Fatal("expected an equilibrium")
	}
	if !near(eq.Q1, 2, 1e-6) || !near(eq.Q2, 4, 1e-6) {
		t.Errorf("Cournot = (%v, %v), want (2, 4)", eq.Q1, eq.Q2)
	}
}

func TestCournot_RootBeyondQMax(t *testing.T) {
	// q1 = 150 + sqrt(q2), q2 = q1/4 → q1 = 156.25, q2 = 39.0625.
	br1 := func(q2 float64) float64 { return 150 + math.Sqrt(q2) }
	br2 := func(q1 float64) float64 { return q1 / 4 }
	eq := Cournot(br1, br2)
	if !eq.Found {
		t.Fatal("expected an equilibrium past the plotted range")
	}
	if !near(eq.Q1, 156.25, 1e-6) || !near(eq.Q2, 39.0625, 1e-6) {
		t.Errorf("Cournot = (%v, %v), want (156.25, 39.0625)", eq.Q1, eq.Q2)
	}
}

func TestCournot_NegativeRootIsClamped(t *testing.T) {
	// The only fixed point sits near q1 = q2 = -50.6.
	br1 := func(q2 float64) float64 { return -50 - math.Exp(q2/100) }
	br2 := func(q1 float64) float64 { return q1 }
	eq := Cournot(br1, br2)
	if !eq.Found {
		t.Fatal("expected the negative fixed point to be found")
	}
	if eq.Q1 != 0 || eq.Q2 != 0 {
		t.Errorf("Cournot = (%v, %v), want clamped (0, 0)", eq.Q1, eq.Q2)
	}
}

func TestCournot_UndefinedEverywhere(t *testing.T) {
	nan := func(float64) float64 { return math.NaN() }
	if eq := Cournot(nan, defaultBR2); eq.Found {
		t.Error("expected no equilibrium for undefined response")
	}
	if eq := Cournot(nil, defaultBR2); eq.Found {
		t.Error("expected no equilibrium for nil response")
	}
}

func TestStackelberg_Leader1(t *testing.T) {
	cournot := Cournot(defaultBR1, defaultBR2)
	eq := Stackelberg(1, defaultBR1, defaultBR2)
	if !eq.Found {
		t.Fatal("expected an outcome")
	}
	if eq.Q1 < cournot.Q1 {
		t.Errorf("leader quantity %v below Cournot %v", eq.Q1, cournot.Q1)
	}
	// Step is one unit, so the discrete optimum is exact here: q1 = 50, q2 = 25.
	if eq.Q1 != 50 || eq.Q2 != 25 {
		t.Errorf("Stackelberg(1) = (%v, %v), want (50, 25)", eq.Q1, eq.Q2)
	}
	leader := market.Profit(1, eq.Q1, eq.Q2)
	base := market.Profit(1, cournot.Q1, cournot.Q2)
	if leader <= base {
		t.Errorf("leader profit %v not above Cournot %v", leader, base)
	}
}

func TestStackelberg_Leader2(t *testing.T) {
	eq := Stackelberg(2, defaultBR1, defaultBR2)
	if !eq.Found {
		t.Fatal("expected an outcome")
	}
	if eq.Q2 != 50 || eq.Q1 != 25 {
		t.Errorf("Stackelberg(2) = (%v, %v), want (25, 50)", eq.Q1, eq.Q2)
	}
}

func TestStackelberg_CoarseGrid(t *testing.T) {
	// Continuous optimum is at 50.5 for a leader facing q2 = (99 - q1)/2;
	// the one-unit grid lands on 50 (first of the tied 50/51).
	br2 := func(q1 float64) float64 { return (99 - q1) / 2 }
	eq := Stackelberg(1, defaultBR1, br2)
	if eq.Q1 != 50 {
		t.Errorf("leader quantity = %v, want 50 (first maximizer on unit grid)", eq.Q1)
	}
}

func TestStackelberg_InvalidLeader(t *testing.T) {
	if eq := Stackelberg(3, defaultBR1, defaultBR2); eq.Found {
		t.Error("expected no outcome for invalid leader")
	}
}

func TestCollusion(t *testing.T) {
	eq := Collusion()
	if !eq.Found {
		t.Fatal("expected an outcome")
	}
	cournot := Cournot(defaultBR1, defaultBR2)
	joint := market.JointProfit(eq.Q1, eq.Q2)
	base := market.JointProfit(cournot.Q1, cournot.Q2)
	if joint < base {
		t.Errorf("joint profit %v below Cournot total %v", joint, base)
	}
	// Total 48 and 52 tie at 2496; the first pair in nested order is (0, 48).
	if eq.Q1 != 0 || eq.Q2 != 48 {
		t.Errorf("Collusion = (%v, %v), want (0, 48)", eq.Q1, eq.Q2)
	}
	if joint != 2496 {
		t.Errorf("joint profit = %v, want 2496", joint)
	}
}
