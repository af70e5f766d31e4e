package api

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nathoo/duopoly/engine"
	"github.com/nathoo/duopoly/engine/cobweb"
	"github.com/nathoo/duopoly/engine/contour"
	"github.com/nathoo/duopoly/engine/parser"
	"github.com/nathoo/duopoly/types"
)

// MaxIterations bounds the cobweb iterations a request may ask for.
const MaxIterations = 100

// SolveRequest selects the formulas, scenario and overlays for one frame.
// Omitted fields take the server defaults.
type SolveRequest struct {
	BR1        string `json:"br1"`
	BR2        string `json:"br2"`
	Scenario   string `json:"scenario"`
	IsoLevels  *int   `json:"iso_levels"`
	ShowIso    *bool  `json:"show_iso"`
	ShowRegion *bool  `json:"show_region"`
}

// Fallback reports which submitted formulas were replaced by the default.
type Fallback struct {
	BR1 bool `json:"br1"`
	BR2 bool `json:"br2"`
}

type SolveResponse struct {
	Frame       types.Frame `json:"frame"`
	BR1         string      `json:"br1"`
	BR2         string      `json:"br2"`
	Fallback    Fallback    `json:"fallback"`
	IsoLevels   int         `json:"iso_levels"`
	RegionCells int         `json:"region_cells"`
	Summary     []string    `json:"summary"`
}

type CobwebRequest struct {
	BR1        string       `json:"br1"`
	BR2        string       `json:"br2"`
	Start      *types.Point `json:"start"`
	Iterations *int         `json:"iterations"`
}

type CobwebResponse struct {
	Start      types.Point   `json:"start"`
	Iterations int           `json:"iterations"`
	Path       []types.Point `json:"path"`
	Arrows     []types.Arrow `json:"arrows"`
	// Truncated is set when the path was cut at the first undefined point.
	Truncated bool     `json:"truncated"`
	Fallback  Fallback `json:"fallback"`
}

type ScenarioInfo struct {
	ID    types.Scenario `json:"id"`
	Title string         `json:"title"`
}

// bindOptional decodes a JSON body; an empty body leaves req untouched.
func bindOptional(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *Server) handleScenarios(c *gin.Context) {
	out := make([]ScenarioInfo, 0, len(types.Scenarios))
	for _, sc := range types.Scenarios {
		out = append(out, ScenarioInfo{ID: sc, Title: sc.Title()})
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": out, "default": s.defaults.Scenario})
}

func (s *Server) handleSolve(c *gin.Context) {
	var req SolveRequest
	if err := bindOptional(c, &req); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	state := s.defaults
	if req.Scenario != "" {
		sc, ok := parser.ParseScenario(req.Scenario)
		if !ok {
			abortWithError(c, http.StatusBadRequest, CodeInvalidScenario,
				fmt.Sprintf("unknown scenario %q; see /api/v1/scenarios", req.Scenario))
			return
		}
		state.Scenario = sc
	}
	if req.IsoLevels != nil {
		state.IsoLevels = contour.ClampLevels(*req.IsoLevels)
	}
	if req.ShowIso != nil {
		state.ShowIso = *req.ShowIso
	}
	if req.ShowRegion != nil {
		state.ShowRegion = *req.ShowRegion
	}

	e, fb := s.newEngine(state, req.BR1, req.BR2)
	defer e.Close()

	start := time.Now()
	frame := e.Frame()
	s.metrics.solveTime.Observe(time.Since(start).Seconds())
	s.metrics.solves.WithLabelValues(string(e.State.Scenario)).Inc()
	if !frame.Equilibrium.Found {
		s.metrics.noSolution.WithLabelValues(string(e.State.Scenario)).Inc()
	}

	c.JSON(http.StatusOK, SolveResponse{
		Frame:       frame,
		BR1:         e.State.BR1Text,
		BR2:         e.State.BR2Text,
		Fallback:    fb,
		IsoLevels:   e.State.IsoLevels,
		RegionCells: contour.Count(frame.Region),
		Summary:     e.Summary(),
	})
}

func (s *Server) handleCobweb(c *gin.Context) {
	var req CobwebRequest
	if err := bindOptional(c, &req); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	start := cobweb.Start
	if req.Start != nil {
		start = *req.Start
	}
	iterations := cobweb.Iterations
	if req.Iterations != nil {
		iterations = *req.Iterations
	}
	if iterations < 0 || iterations > MaxIterations {
		abortWithError(c, http.StatusBadRequest, CodeBadRequest,
			fmt.Sprintf("iterations must be in [0, %d]", MaxIterations))
		return
	}

	e, fb := s.newEngine(s.defaults, req.BR1, req.BR2)
	defer e.Close()

	path := cobweb.BuildPath(e.BR1, e.BR2, start, iterations)
	path, truncated := finitePrefix(path)
	s.metrics.cobwebSteps.Observe(float64(iterations))

	c.JSON(http.StatusOK, CobwebResponse{
		Start:      start,
		Iterations: iterations,
		Path:       path,
		Arrows:     cobweb.Arrows(path),
		Truncated:  truncated,
		Fallback:   fb,
	})
}

// newEngine builds a per-request engine. Blank formulas keep the defaults;
// formulas that fail to parse are counted as fallbacks.
func (s *Server) newEngine(state engine.State, br1, br2 string) (*engine.Engine, Fallback) {
	var fb Fallback
	br1, br2 = strings.TrimSpace(br1), strings.TrimSpace(br2)
	if br1 != "" {
		state.BR1Text = br1
	}
	if br2 != "" {
		state.BR2Text = br2
	}

	e := engine.New(state, s.logger)
	if br1 != "" && e.State.BR1Text != br1 {
		fb.BR1 = true
		s.metrics.fallbacks.WithLabelValues("1").Inc()
	}
	if br2 != "" && e.State.BR2Text != br2 {
		fb.BR2 = true
		s.metrics.fallbacks.WithLabelValues("2").Inc()
	}
	return e, fb
}

// finitePrefix cuts the path before its first non-finite point, which JSON
// cannot encode.
func finitePrefix(path []types.Point) ([]types.Point, bool) {
	for i, p := range path {
		if math.IsNaN(p.Q1) || math.IsNaN(p.Q2) || math.IsInf(p.Q1, 0) || math.IsInf(p.Q2, 0) {
			return path[:i], true
		}
	}
	return path, false
}
