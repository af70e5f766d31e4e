// Package contour computes iso-profit levels, profit fields over the
// quantity grid and the region of potential gains from cooperation.
package contour

import (
	"github.com/nathoo/duopoly/engine/market"
	"github.com/nathoo/duopoly/types"
)

const (
	// GridPoints is the resolution per axis of profit fields and masks.
	GridPoints = 60

	DefaultLevels = 3
	MinLevels     = 1
	MaxLevels     = 7
)

// Field is a profit surface sampled on the Grid: Field[i][j] is the value at
// q1 = Grid()[j], q2 = Grid()[i].
type Field [][]float64

// Grid returns the GridPoints sample positions over [0, QMax].
func Grid() []float64 {
	return market.Grid(GridPoints)
}

// ClampLevels bounds an iso-line count to [MinLevels, MaxLevels].
func ClampLevels(n int) int {
	return min(max(n, MinLevels), MaxLevels)
}

// Levels returns n contour levels evenly spaced over
// [0.5*baseline, 1.5*baseline]. n is clamped to [MinLevels, MaxLevels];
// a single level sits at the lower bound.
func Levels(baseline float64, n int) []float64 {
	return market.Span(0.5*baseline, 1.5*baseline, ClampLevels(n))
}

// ProfitField samples firm's profit over the grid.
func ProfitField(firm int) Field {
	grid := Grid()
	f := make(Field, len(grid))
	for i, q2 := range grid {
		row := make([]float64, len(grid))
		for j, q1 := range grid {
			row[j] = market.Profit(firm, q1, q2)
		}
		f[i] = row
	}
	return f
}

// Cooperative reports whether both firms strictly improve on their
// baseline profits at (q1, q2).
func Cooperative(q1, q2 float64, baseline types.Profits) bool {
	return market.Profit(1, q1, q2) > baseline.Firm1 &&
		market.Profit(2, q1, q2) > baseline.Firm2
}

// CooperativeMask evaluates Cooperative over the grid, rows by q2 and
// columns by q1. The region is generally neither convex nor connected.
func CooperativeMask(baseline types.Profits) [][]bool {
	grid := Grid()
	mask := make([][]bool, len(grid))
	for i, q2 := range grid {
		row := make([]bool, len(grid))
		for j, q1 := range grid {
			row[j] = Cooperative(q1, q2, baseline)
		}
		mask[i] = row
	}
	return mask
}

// IsoLines extracts, for each level, the centres of grid cells the field
// crosses (marching-squares cell test: some corners at or above the level,
// some below).
func IsoLines(firm int, f Field, levels []float64) []types.IsoLine {
	grid := Grid()
	var lines []types.IsoLine
	for _, level := range levels {
		line := types.IsoLine{Firm: firm, Level: level}
		for i := 0; i+1 < len(f); i++ {
			for j := 0; j+1 < len(f[i]); j++ {
				if crosses(level, f[i][j], f[i][j+1], f[i+1][j], f[i+1][j+1]) {
					line.Points = append(line.Points, types.Point{
						Q1: (grid[j] + grid[j+1]) / 2,
						Q2: (grid[i] + grid[i+1]) / 2,
					})
				}
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func crosses(level float64, corners ...float64) bool {
	above, below := false, false
	for _, c := range corners {
		if c >= level {
			above = true
		} else {
			below = true
		}
	}
	return above && below
}

// Count returns the number of true cells in mask.
func Count(mask [][]bool) int {
	n := 0
	for _, row := range mask {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}
