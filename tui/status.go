package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// renderStatusBar produces a full-width inverted status line showing the
// scenario, both formulas, the overlay toggles and the animation phase.
func (m Model) renderStatusBar() string {
	s := m.engine.State

	left := fmt.Sprintf(" %s | q1 = %s | q2 = %s", s.Scenario.Title(), s.BR1Text, s.BR2Text)
	right := fmt.Sprintf("Iso:%s(%d) Region:%s Anim:%s ",
		onOff(s.ShowIso), s.IsoLevels, onOff(s.ShowRegion), m.engine.Animator.Phase())

	// Drop the formulas when they do not fit.
	if lipgloss.Width(left)+lipgloss.Width(right)+2 > m.width {
		left = " " + s.Scenario.Title()
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
