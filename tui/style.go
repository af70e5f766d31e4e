package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	styleLegend = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	styleText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleEquilibrium = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Bold(true)

	styleProfits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleStep = lipgloss.NewStyle().
			Foreground(lipgloss.Color("136"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleUserInput = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindText lineKind = iota
	kindEquilibrium
	kindProfits
	kindStep
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Equilibrium:"):
		return kindEquilibrium
	case strings.HasPrefix(line, "Profits:"):
		return kindProfits
	case strings.HasPrefix(line, "  step"):
		return kindStep
	case strings.HasPrefix(line, "Unknown"),
		strings.HasPrefix(line, "Usage:"):
		return kindError
	default:
		return kindText
	}
}

// styledLabelled renders "Label: value" with the value in style s.
func styledLabelled(line string, s lipgloss.Style) string {
	label, value, ok := strings.Cut(line, ": ")
	if !ok {
		return s.Render(line)
	}
	return styleText.Render(label+": ") + s.Render(value)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
