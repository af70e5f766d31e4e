package parser

import (
	"testing"

	"github.com/nathoo/duopoly/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Command
	}{
		// Empty / whitespace
		{name: "empty string", input: "", want: types.Command{}},
		{name: "whitespace only", input: "   ", want: types.Command{}},

		// Basic verbs
		{name: "reset", input: "reset", want: types.Command{Verb: "reset"}},
		{name: "uppercase verb", input: "RESET", want: types.Command{Verb: "reset"}},
		{name: "plot", input: "plot", want: types.Command{Verb: "plot"}},

		// Best responses keep argument case and spacing
		{
			name:  "br1 formula",
			input: "br1 (100 - q2)/2",
			want:  types.Command{Verb: "br1", Arg: "(100 - q2)/2"},
		},
		{
			name:  "firm2 alias",
			input: "firm2 (90 - q1)/2",
			want:  types.Command{Verb: "br2", Arg: "(90 - q1)/2"},
		},
		{
			name:  "assignment form",
			input: "br1=(100-q2)/2",
			want:  types.Command{Verb: "br1", Arg: "(100-q2)/2"},
		},
		{
			name:  "spaced assignment",
			input: "br2 = E*q1",
			want:  types.Command{Verb: "br2", Arg: "E*q1"},
		},
		{
			name:  "colon form",
			input: "f1: 50 - q2/2",
			want:  types.Command{Verb: "br1", Arg: "50 - q2/2"},
		},

		// Aliases
		{name: "a → animate", input: "a", want: types.Command{Verb: "animate"}},
		{name: "cartel → region", input: "cartel off", want: types.Command{Verb: "region", Arg: "off"}},
		{name: "lines → levels", input: "lines 5", want: types.Command{Verb: "levels", Arg: "5"}},
		{name: "? → help", input: "?", want: types.Command{Verb: "help"}},
		{name: "s → scenario", input: "s collusion", want: types.Command{Verb: "scenario", Arg: "collusion"}},

		// Phrases
		{
			name:  "firm 1 leads",
			input: "Firm 1   leads",
			want:  types.Command{Verb: "scenario", Arg: "stackelberg1"},
		},
		{name: "hide iso", input: "hide iso", want: types.Command{Verb: "iso", Arg: "off"}},
		{name: "show region", input: "show region", want: types.Command{Verb: "region", Arg: "on"}},

		// Meta-commands pass through untouched
		{name: "meta", input: "/save mine", want: types.Command{Verb: "/save", Arg: "mine"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseScenario(t *testing.T) {
	tests := []struct {
		input string
		want  types.Scenario
		ok    bool
	}{
		{"cournot", types.ScenarioCournot, true},
		{"Cournot", types.ScenarioCournot, true},
		{"leader1", types.ScenarioStackelberg1, true},
		{"Stackelberg (Firm 1 leads)", types.ScenarioStackelberg1, true},
		{"stackelberg-2", types.ScenarioStackelberg2, true},
		{"s2", types.ScenarioStackelberg2, true},
		{"cartel", types.ScenarioCollusion, true},
		{"Collusion", types.ScenarioCollusion, true},
		{"bertrand", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseScenario(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseScenario(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseToggle(t *testing.T) {
	tests := []struct {
		arg              string
		on, flip, wantOK bool
	}{
		{"", false, true, true},
		{"on", true, false, true},
		{"OFF", false, false, true},
		{"yes", true, false, true},
		{"0", false, false, true},
		{"maybe", false, false, false},
	}
	for _, tt := range tests {
		on, flip, ok := ParseToggle(tt.arg)
		if on != tt.on || flip != tt.flip || ok != tt.wantOK {
			t.Errorf("ParseToggle(%q) = (%v, %v, %v), want (%v, %v, %v)",
				tt.arg, on, flip, ok, tt.on, tt.flip, tt.wantOK)
		}
	}
}
