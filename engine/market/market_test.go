package market

import (
	"math"
	"testing"

	"github.com/nathoo/duopoly/types"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		q1, q2 float64
		want   float64
	}{
		{0, 0, 100},
		{20, 30, 50},
		{50, 50, 0},
		{80, 60, 0}, // floored
	}
	for _, tt := range tests {
		if got := Price(tt.q1, tt.q2); got != tt.want {
			t.Errorf("Price(%v, %v) = %v, want %v", tt.q1, tt.q2, got, tt.want)
		}
	}
}

func TestProfit_CournotPoint(t *testing.T) {
	q := 100.0 / 3
	if p := Price(q, q); math.Abs(p-33.333) > 1e-3 {
		t.Errorf("price at Cournot point = %v, want ~33.333", p)
	}
	for _, firm := range []int{1, 2} {
		if got := Profit(firm, q, q); math.Abs(got-1111.111) > 1e-3 {
			t.Errorf("firm %d profit = %v, want ~1111.111", firm, got)
		}
	}
}

func TestProfit_Asymmetric(t *testing.T) {
	if got := Profit(1, 10, 30); got != 600 {
		t.Errorf("firm 1 profit = %v, want 600", got)
	}
	if got := Profit(2, 10, 30); got != 1800 {
		t.Errorf("firm 2 profit = %v, want 1800", got)
	}
	if got := JointProfit(10, 30); got != 2400 {
		t.Errorf("joint profit = %v, want 2400", got)
	}
}

func TestProfits(t *testing.T) {
	got := Profits(types.Point{Q1: 20, Q2: 20})
	if got.Firm1 != 1200 || got.Firm2 != 1200 {
		t.Errorf("Profits(20,20) = %+v, want 1200 each", got)
	}
}

func TestGrid(t *testing.T) {
	tests := []struct {
		n         int
		wantLen   int
		wantStep  float64
		wantFirst float64
	}{
		{121, 121, 1, 0},
		{31, 31, 4, 0},
		{60, 60, QMax / 59, 0},
		{1, 1, 0, 0},
	}
	for _, tt := range tests {
		g := Grid(tt.n)
		if len(g) != tt.wantLen {
			t.Fatalf("Grid(%d) len = %d, want %d", tt.n, len(g), tt.wantLen)
		}
		if g[0] != tt.wantFirst {
			t.Errorf("Grid(%d)[0] = %v, want %v", tt.n, g[0], tt.wantFirst)
		}
		if tt.n > 1 {
			if g[len(g)-1] != QMax {
				t.Errorf("Grid(%d) last = %v, want %v", tt.n, g[len(g)-1], QMax)
			}
			if step := g[1] - g[0]; math.Abs(step-tt.wantStep) > 1e-9 {
				t.Errorf("Grid(%d) step = %v, want %v", tt.n, step, tt.wantStep)
			}
		}
	}
	if Grid(0) != nil {
		t.Error("Grid(0) should be nil")
	}
}
