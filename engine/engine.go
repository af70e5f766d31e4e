// Package engine holds the application state and wires the best-response
// expressions, solvers, contour computations and cobweb animation into a
// single Frame for the front ends. Step() interprets one command line.
package engine

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nathoo/duopoly/engine/cobweb"
	"github.com/nathoo/duopoly/engine/contour"
	"github.com/nathoo/duopoly/engine/expr"
	"github.com/nathoo/duopoly/engine/market"
	"github.com/nathoo/duopoly/engine/parser"
	"github.com/nathoo/duopoly/engine/save"
	"github.com/nathoo/duopoly/engine/solve"
	"github.com/nathoo/duopoly/types"
)

const (
	DefaultBR1 = "(100 - q2)/2"
	DefaultBR2 = "(100 - q1)/2"

	// CurvePoints is the number of samples per best-response curve.
	CurvePoints = 200
	// PlotCeiling bounds best-response values kept for plotting.
	PlotCeiling = 99999.0
)

// State is the application state: everything the user can change.
// Solvers never see it; the engine passes values out of it.
type State struct {
	BR1Text    string
	BR2Text    string
	Scenario   types.Scenario
	ShowIso    bool
	ShowRegion bool
	IsoLevels  int
}

// DefaultState is the state at startup.
func DefaultState() State {
	return State{
		BR1Text:    DefaultBR1,
		BR2Text:    DefaultBR2,
		Scenario:   types.ScenarioCournot,
		ShowIso:    true,
		ShowRegion: true,
		IsoLevels:  contour.DefaultLevels,
	}
}

// Engine owns the compiled best responses and the animation.
type Engine struct {
	State    State
	Initial  State
	Animator cobweb.Animator

	br1    expr.Expression
	br2    expr.Expression
	logger *slog.Logger
}

// New creates an engine from an initial state. Empty formulas fall back to
// the built-in defaults.
func New(initial State, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if initial.BR1Text == "" {
		initial.BR1Text = DefaultBR1
	}
	if initial.BR2Text == "" {
		initial.BR2Text = DefaultBR2
	}
	if !initial.Scenario.Valid() {
		initial.Scenario = types.ScenarioCournot
	}
	initial.IsoLevels = contour.ClampLevels(initial.IsoLevels)

	e := &Engine{Initial: initial, logger: logger}
	e.apply(initial)
	return e
}

// apply replaces the whole state, recompiling both formulas.
func (e *Engine) apply(s State) {
	e.State = s
	e.SetBR1(s.BR1Text)
	e.SetBR2(s.BR2Text)
}

// SetBR1 replaces firm 1's best response. Invalid text reverts to the
// default formula; State.BR1Text always holds the active formula.
func (e *Engine) SetBR1(text string) {
	next := expr.ParseOrDefault(strings.TrimSpace(text), "q2", DefaultBR1, e.logger)
	if e.br1 != nil {
		e.br1.Close()
	}
	e.br1 = next
	e.State.BR1Text = textOf(next)
}

// SetBR2 replaces firm 2's best response, with the same fallback as SetBR1.
func (e *Engine) SetBR2(text string) {
	next := expr.ParseOrDefault(strings.TrimSpace(text), "q1", DefaultBR2, e.logger)
	if e.br2 != nil {
		e.br2.Close()
	}
	e.br2 = next
	e.State.BR2Text = textOf(next)
}

func textOf(x expr.Expression) string {
	if x == nil {
		return ""
	}
	return x.Text()
}

// BR1 evaluates firm 1's best response to q2.
func (e *Engine) BR1(q2 float64) float64 { return expr.Evaluate(e.br1, q2) }

// BR2 evaluates firm 2's best response to q1.
func (e *Engine) BR2(q1 float64) float64 { return expr.Evaluate(e.br2, q1) }

// Cournot solves the simultaneous-move equilibrium for the current formulas.
func (e *Engine) Cournot() types.Equilibrium {
	return solve.Cournot(e.BR1, e.BR2)
}

// Equilibrium solves the current scenario.
func (e *Engine) Equilibrium() types.Equilibrium {
	switch e.State.Scenario {
	case types.ScenarioStackelberg1:
		return solve.Stackelberg(1, e.BR1, e.BR2)
	case types.ScenarioStackelberg2:
		return solve.Stackelberg(2, e.BR1, e.BR2)
	case types.ScenarioCollusion:
		return solve.Collusion()
	default:
		return e.Cournot()
	}
}

// Frame computes everything the plotting surface draws. Iso-profit lines
// and the cooperative region are omitted when no Cournot equilibrium exists.
func (e *Engine) Frame() types.Frame {
	f := types.Frame{
		Title:    e.State.Scenario.Title(),
		Scenario: e.State.Scenario,
		BR1:      types.Series{Label: "q1 = BR1(q2)"},
		BR2:      types.Series{Label: "q2 = BR2(q1)"},
		Arrows:   e.Animator.Drawn(),
	}

	for _, q := range market.Grid(CurvePoints) {
		if q2 := e.BR2(q); plottable(q2) {
			f.BR2.Points = append(f.BR2.Points, types.Point{Q1: q, Q2: q2})
		}
		if q1 := e.BR1(q); plottable(q1) {
			f.BR1.Points = append(f.BR1.Points, types.Point{Q1: q1, Q2: q})
		}
	}

	f.Equilibrium = e.Equilibrium()
	if f.Equilibrium.Found {
		f.Profits = market.Profits(f.Equilibrium.Point)
	}

	if !e.State.ShowIso && !e.State.ShowRegion {
		return f
	}
	cournot := e.Cournot()
	if !cournot.Found {
		return f
	}
	baseline := market.Profits(cournot.Point)

	if e.State.ShowIso {
		f.IsoLines = append(f.IsoLines,
			contour.IsoLines(1, contour.ProfitField(1), contour.Levels(baseline.Firm1, e.State.IsoLevels))...)
		f.IsoLines = append(f.IsoLines,
			contour.IsoLines(2, contour.ProfitField(2), contour.Levels(baseline.Firm2, e.State.IsoLevels))...)
	}
	if e.State.ShowRegion {
		f.Region = contour.CooperativeMask(baseline)
	}
	return f
}

// plottable reports whether a best-response value can be drawn.
func plottable(v float64) bool {
	return v >= 0 && v < PlotCeiling
}

// CobwebPath builds the iterative best-response path for the current
// formulas from the default start point.
func (e *Engine) CobwebPath() []types.Point {
	return cobweb.BuildPath(e.BR1, e.BR2, cobweb.Start, cobweb.Iterations)
}

// ToggleAnimation starts or stops the cobweb animation. It returns whether
// the animation is running and the generation to pass to AnimateStep.
func (e *Engine) ToggleAnimation() (bool, int) {
	running := e.Animator.Toggle(e.CobwebPath())
	return running, e.Animator.Generation()
}

// AnimateStep advances the animation of generation gen by one arrow. It
// reports false when no further step should be scheduled.
func (e *Engine) AnimateStep(gen int) (types.Arrow, bool) {
	return e.Animator.Step(gen)
}

// Reset restores the initial formulas, the Cournot scenario, hides both
// overlays, restores the default iso-line count and stops the animation.
func (e *Engine) Reset() {
	e.Animator.Reset()
	e.apply(State{
		BR1Text:   e.Initial.BR1Text,
		BR2Text:   e.Initial.BR2Text,
		Scenario:  types.ScenarioCournot,
		IsoLevels: contour.DefaultLevels,
	})
}

// Snapshot returns the state in save format.
func (e *Engine) Snapshot() save.SaveData {
	return save.SaveData{
		BR1:        e.State.BR1Text,
		BR2:        e.State.BR2Text,
		Scenario:   e.State.Scenario,
		ShowIso:    e.State.ShowIso,
		ShowRegion: e.State.ShowRegion,
		IsoLevels:  e.State.IsoLevels,
	}
}

// Restore applies loaded save data and stops the animation.
func (e *Engine) Restore(sd *save.SaveData) {
	e.Animator.Reset()
	e.apply(State{
		BR1Text:    sd.BR1,
		BR2Text:    sd.BR2,
		Scenario:   sd.Scenario,
		ShowIso:    sd.ShowIso,
		ShowRegion: sd.ShowRegion,
		IsoLevels:  contour.ClampLevels(sd.IsoLevels),
	})
}

// Close releases the compiled formulas.
func (e *Engine) Close() {
	if e.br1 != nil {
		e.br1.Close()
	}
	if e.br2 != nil {
		e.br2.Close()
	}
}

// Step processes one command line and returns the result.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	cmd := parser.Parse(input)
	switch cmd.Verb {
	case "":
		result.Output = append(result.Output, "What do you want to do? Type /help for commands.")

	case "br1":
		if cmd.Arg == "" {
			result.Output = append(result.Output, "Firm 1: q1 = "+e.State.BR1Text)
			break
		}
		e.SetBR1(cmd.Arg)
		result.Output = append(result.Output, "Firm 1: q1 = "+e.State.BR1Text)
		result.Output = append(result.Output, e.Summary()...)
		result.Redraw = true

	case "br2":
		if cmd.Arg == "" {
			result.Output = append(result.Output, "Firm 2: q2 = "+e.State.BR2Text)
			break
		}
		e.SetBR2(cmd.Arg)
		result.Output = append(result.Output, "Firm 2: q2 = "+e.State.BR2Text)
		result.Output = append(result.Output, e.Summary()...)
		result.Redraw = true

	case "scenario":
		if cmd.Arg == "" {
			result.Output = append(result.Output, e.scenarioList()...)
			break
		}
		sc, ok := parser.ParseScenario(cmd.Arg)
		if !ok {
			result.Output = append(result.Output, fmt.Sprintf("Unknown scenario %q.", cmd.Arg))
			result.Output = append(result.Output, e.scenarioList()...)
			break
		}
		e.State.Scenario = sc
		e.logger.Debug("scenario changed", "scenario", sc)
		result.Output = append(result.Output, e.Summary()...)
		result.Redraw = true

	case "iso":
		if n, err := strconv.Atoi(cmd.Arg); err == nil {
			e.State.IsoLevels = contour.ClampLevels(n)
			e.State.ShowIso = true
			result.Output = append(result.Output, fmt.Sprintf("Iso-profit lines: on, %d per firm.", e.State.IsoLevels))
			result.Redraw = true
			break
		}
		on, ok := e.toggle(&e.State.ShowIso, cmd.Arg)
		if !ok {
			result.Output = append(result.Output, "Usage: iso [on|off|<1-7>]")
			break
		}
		result.Output = append(result.Output, "Iso-profit lines: "+onOff(on)+".")
		result.Redraw = true

	case "region":
		on, ok := e.toggle(&e.State.ShowRegion, cmd.Arg)
		if !ok {
			result.Output = append(result.Output, "Usage: region [on|off]")
			break
		}
		result.Output = append(result.Output, "Potential gains from cooperation: "+onOff(on)+".")
		result.Redraw = true

	case "levels":
		n, err := strconv.Atoi(cmd.Arg)
		if err != nil {
			result.Output = append(result.Output,
				fmt.Sprintf("Usage: levels <%d-%d> (now %d)", contour.MinLevels, contour.MaxLevels, e.State.IsoLevels))
			break
		}
		e.State.IsoLevels = contour.ClampLevels(n)
		result.Output = append(result.Output, fmt.Sprintf("Iso-profit lines per firm: %d.", e.State.IsoLevels))
		result.Redraw = true

	case "animate":
		running, _ := e.ToggleAnimation()
		if running {
			result.Output = append(result.Output, "Animating best-response dynamics from (5, 0).")
			result.Animate = true
		} else {
			result.Output = append(result.Output, "Animation stopped.")
		}
		result.Redraw = true

	case "reset":
		e.Reset()
		result.Output = append(result.Output, "Reset to defaults.")
		result.Output = append(result.Output, e.Summary()...)
		result.Redraw = true

	case "plot", "solve":
		result.Output = append(result.Output, e.Summary()...)
		result.Redraw = cmd.Verb == "plot"

	case "explain":
		result.Output = append(result.Output, Explain(e.State.Scenario, cmd.Arg)...)

	case "state":
		result.Output = append(result.Output, e.StateLines()...)

	case "help":
		result.Output = append(result.Output, HelpLines...)

	default:
		result.Output = append(result.Output,
			fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd.Verb))
	}

	return result
}

// toggle sets or flips *flag according to arg.
func (e *Engine) toggle(flag *bool, arg string) (bool, bool) {
	on, flip, ok := parser.ParseToggle(arg)
	if !ok {
		return false, false
	}
	if flip {
		on = !*flag
	}
	*flag = on
	return on, true
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func (e *Engine) scenarioList() []string {
	lines := []string{"Scenarios:"}
	for _, sc := range types.Scenarios {
		marker := " "
		if sc == e.State.Scenario {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf(" %s %-13s %s", marker, sc, sc.Title()))
	}
	return lines
}

// Summary describes the current scenario's equilibrium.
func (e *Engine) Summary() []string {
	lines := []string{"Scenario: " + e.State.Scenario.Title()}
	eq := e.Equilibrium()
	if !eq.Found {
		return append(lines, "Equilibrium: no solution found.")
	}
	p := market.Profits(eq.Point)
	return append(lines,
		fmt.Sprintf("Equilibrium: q1 = %.2f, q2 = %.2f (price %.2f)", eq.Q1, eq.Q2, market.Price(eq.Q1, eq.Q2)),
		fmt.Sprintf("Profits: firm 1 = %.2f, firm 2 = %.2f, joint = %.2f", p.Firm1, p.Firm2, p.Firm1+p.Firm2),
	)
}

// StateLines dumps the application state.
func (e *Engine) StateLines() []string {
	return []string{
		"BR1: q1 = " + e.State.BR1Text,
		"BR2: q2 = " + e.State.BR2Text,
		"Scenario: " + e.State.Scenario.Title(),
		fmt.Sprintf("Iso-profit lines: %s (%d per firm)", onOff(e.State.ShowIso), e.State.IsoLevels),
		"Cooperative region: " + onOff(e.State.ShowRegion),
		"Animation: " + e.Animator.Phase().String(),
	}
}
