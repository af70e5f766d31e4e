package engine

// HelpLines is the command reference shared by the front ends. Step
// answers "help" with it too.
var HelpLines = []string{
	"System:",
	"  /save [name]  - Save session (default: quicksave)",
	"  /load [name]  - Load session (default: quicksave)",
	"  /quit         - Exit",
	"  /help         - Show this help",
	"  /state        - Show the current settings",
	"  /trace        - Toggle frame details after each plot",
	"",
	"Commands:",
	"  br1 <formula>          - Firm 1's best response in q2, e.g. br1 (100 - q2)/2",
	"  br2 <formula>          - Firm 2's best response in q1",
	"  scenario <name>        - cournot, leader1, leader2 or collusion",
	"  iso [on|off|<1-7>]     - Iso-profit lines, or how many per firm",
	"  region [on|off]        - Shade the potential gains from cooperation",
	"  animate                - Start or stop the best-response path from (5, 0)",
	"  plot (p)               - Redraw",
	"  solve                  - Print the equilibrium only",
	"  explain [name|all]     - Describe an equilibrium concept",
	"  reset                  - Restore the defaults",
	"  again (g)              - Repeat your last command",
	"",
	"Formulas use + - * / ^, parentheses, numbers and sqrt exp log abs min max floor ceil sin cos pi.",
}
