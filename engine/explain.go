package engine

import (
	"strings"

	"github.com/nathoo/duopoly/engine/parser"
	"github.com/nathoo/duopoly/types"
)

var explanations = map[types.Scenario][]string{
	types.ScenarioCournot: {
		"Cournot: both firms choose output simultaneously, each taking the",
		"other's output as given. The equilibrium is where each firm's output",
		"is its best response to the other's, i.e. where the curves cross.",
	},
	types.ScenarioStackelberg1: {
		"Stackelberg (firm 1 leads): firm 1 commits first, anticipating that",
		"firm 2 will best-respond. The leader produces more and the follower",
		"less than under Cournot. Leader output is searched in whole units.",
	},
	types.ScenarioStackelberg2: {
		"Stackelberg (firm 2 leads): as above with the roles swapped.",
	},
	types.ScenarioCollusion: {
		"Collusion: the firms coordinate to maximize joint profit, restricting",
		"total output like a monopolist. Price and joint profit are higher than",
		"under Cournot, but each firm is tempted to deviate. The search uses a",
		"31 by 31 grid, so the result is coarse.",
	},
}

var regionExplanation = []string{
	"Shaded cells are output pairs where both firms earn more than at the",
	"Cournot equilibrium: the potential gains from cooperation.",
}

// Explain returns a description of the named scenario, or of the current
// one when arg is empty. "all" describes every scenario.
func Explain(current types.Scenario, arg string) []string {
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(arg) {
	case "":
		return explanations[current]
	case "all":
		var lines []string
		for _, sc := range types.Scenarios {
			lines = append(lines, explanations[sc]...)
			lines = append(lines, "")
		}
		return append(lines, regionExplanation...)
	case "region", "cooperation", "gains":
		return regionExplanation
	}
	if sc, ok := parser.ParseScenario(arg); ok {
		return explanations[sc]
	}
	return []string{"Nothing to explain about " + arg + "."}
}
