package cobweb

import "github.com/nathoo/duopoly/types"

// Phase is the animator's state.
type Phase int

const (
	Idle Phase = iota
	Running
)

func (p Phase) String() string {
	if p == Running {
		return "running"
	}
	return "idle"
}

// Animator steps through a path one arrow at a time. It has no timer of its
// own: the front end schedules Step after Delay and must stop scheduling
// once Step reports false. Each run carries a generation number so that a
// continuation scheduled by a stopped run can be recognised and dropped.
type Animator struct {
	phase Phase
	path  []types.Point
	index int
	gen   int
	drawn []types.Arrow
}

// Phase returns the current state.
func (a *Animator) Phase() Phase { return a.phase }

// Running reports whether a run is in progress.
func (a *Animator) Running() bool { return a.phase == Running }

// Index returns the index of the last drawn path point.
func (a *Animator) Index() int { return a.index }

// Generation identifies the current run.
func (a *Animator) Generation() int { return a.gen }

// Drawn returns the arrows drawn so far in the current or last run.
func (a *Animator) Drawn() []types.Arrow { return a.drawn }

// Start begins a new run over path and returns its generation.
func (a *Animator) Start(path []types.Point) int {
	a.gen++
	a.path = path
	a.index = 0
	a.drawn = nil
	a.phase = Running
	return a.gen
}

// Stop cancels the run. A step already taken stays drawn.
func (a *Animator) Stop() {
	a.phase = Idle
}

// Toggle starts a run over path when idle, otherwise stops. It reports
// whether the animator is running afterwards.
func (a *Animator) Toggle(path []types.Point) bool {
	if a.phase == Running {
		a.Stop()
		return false
	}
	a.Start(path)
	return true
}

// Reset stops and forgets the path and drawn arrows.
func (a *Animator) Reset() {
	a.phase = Idle
	a.path = nil
	a.index = 0
	a.drawn = nil
}

// Step draws the next arrow of run gen. It reports false, drawing nothing,
// when gen is stale, the animator is idle or the path is exhausted; in the
// last case the animator returns to Idle.
func (a *Animator) Step(gen int) (types.Arrow, bool) {
	if a.phase != Running || gen != a.gen {
		return types.Arrow{}, false
	}
	if a.index >= len(a.path)-1 {
		a.phase = Idle
		return types.Arrow{}, false
	}
	arrow := types.Arrow{From: a.path[a.index], To: a.path[a.index+1]}
	a.drawn = append(a.drawn, arrow)
	a.index++
	return arrow, true
}
