package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/duopoly/engine"
	"github.com/nathoo/duopoly/engine/cobweb"
	"github.com/nathoo/duopoly/engine/contour"
	"github.com/nathoo/duopoly/engine/save"
	"github.com/nathoo/duopoly/plot"
	"github.com/nathoo/duopoly/types"
)

// historyFile is kept in the save directory.
const historyFile = "history"

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed user input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the duopoly TUI. The plot occupies the
// top of the screen; command output scrolls below it.
type Model struct {
	engine *engine.Engine

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated output lines (unstyled, for re-wrapping)

	frame types.Frame
	plot  string // rendered plot panel, rebuilt on redraw and resize

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
	saveDir  string
}

// outputMsg carries output from the engine into the Update loop.
type outputMsg struct {
	input    string   // echoed user input (empty for the banner)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// animTickMsg asks for the next animation step of run gen.
type animTickMsg struct {
	gen int
}

// New creates a TUI model wired to the given engine. Sessions and command
// history are stored under saveDir.
func New(eng *engine.Engine, saveDir string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	if saveDir == "" {
		home, _ := os.UserHomeDir()
		saveDir = filepath.Join(home, ".duopoly", "sessions")
	}
	return Model{
		engine:  eng,
		input:   ti,
		history: NewHistory(100),
		saveDir: saveDir,
		frame:   eng.Frame(),
	}
}

// Run starts the Bubble Tea program. Command history is loaded before and
// saved after the session.
func Run(eng *engine.Engine, saveDir string) error {
	m := New(eng, saveDir)
	histPath := filepath.Join(m.saveDir, historyFile)
	if err := m.history.Load(histPath); err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.history.Save(histPath)
	}
	return nil
}

// Init returns the initial command that produces the banner and summary.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		lines := []string{
			"Duopoly: Cournot, Stackelberg and collusion equilibria. Type /help for commands.",
			"",
		}
		lines = append(lines, m.engine.Summary()...)
		return outputMsg{lines: lines}
	}
}

// tick schedules the next animation step.
func tick(gen int) tea.Cmd {
	return tea.Tick(cobweb.Delay, func(time.Time) tea.Msg {
		return animTickMsg{gen: gen}
	})
}

// Update handles messages (key presses, window resize, output, ticks).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.refreshPlot()

		vpHeight := m.viewportHeight()
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case outputMsg:
		m = m.appendOutput(msg)

	case animTickMsg:
		return m.handleTick(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleTick draws one arrow and schedules the next. Ticks from a stopped
// or replaced run are dropped without rescheduling.
func (m Model) handleTick(msg animTickMsg) (tea.Model, tea.Cmd) {
	current := msg.gen == m.engine.Animator.Generation() && m.engine.Animator.Running()
	arrow, ok := m.engine.AnimateStep(msg.gen)
	if !ok {
		if current {
			m = m.appendOutput(outputMsg{lines: []string{"Animation finished."}, isSystem: true})
		}
		return m, nil
	}

	m.frame.Arrows = m.engine.Animator.Drawn()
	m.refreshPlot()
	if m.trace {
		m = m.appendOutput(outputMsg{lines: []string{fmt.Sprintf("[trace] step %d: (%.2f, %.2f) -> (%.2f, %.2f)",
			len(m.frame.Arrows), arrow.From.Q1, arrow.From.Q2, arrow.To.Q1, arrow.To.Q2)}})
	}
	return m, tick(msg.gen)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(outputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(outputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	result := m.engine.Step(input)
	output := result.Output
	if result.Redraw {
		m.redraw()
		if m.trace {
			output = append(output, m.formatTrace()...)
		}
	}
	m = m.appendOutput(outputMsg{input: input, lines: output})

	if result.Animate {
		return m, tick(m.engine.Animator.Generation())
	}
	return m, nil
}

// redraw recomputes the frame and re-renders the plot.
func (m *Model) redraw() {
	m.frame = m.engine.Frame()
	m.refreshPlot()
}

// plotSize returns the canvas size for the current terminal, leaving room
// for the axes, title, legend, status bar, input and some output lines.
func (m Model) plotSize() (w, h int) {
	w = m.width - 6
	h = (m.height-2)*3/5 - 4
	return max(w, 10), max(h, 6)
}

// viewportHeight is what remains below the plot panel.
func (m Model) viewportHeight() int {
	panel := strings.Count(m.plot, "\n") + 1
	return max(m.height-2-panel, 1)
}

// refreshPlot renders the cached frame into the plot panel.
func (m *Model) refreshPlot() {
	if m.width == 0 {
		return
	}
	w, h := m.plotSize()
	canvas := plot.Draw(m.frame, w, h)
	legend := styleLegend.Render(strings.Join(plot.Legend(m.frame), "   "))
	m.plot = styleTitle.Render(" "+m.frame.Title) + "\n" + canvas.Render() + "\n" + wordWrap(legend, m.width)
	if m.ready {
		m.viewport.Height = m.viewportHeight()
	}
}

// appendOutput adds lines to the output log and refreshes the viewport.
func (m Model) appendOutput(msg outputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between commands.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := max(m.width, 10)

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, styleUserInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindEquilibrium:
		return styledLabelled(line, styleEquilibrium)
	case kindProfits:
		return styledLabelled(line, styleProfits)
	case kindStep:
		return styleStep.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleText.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Text that already fits is returned unchanged.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: plot + viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.plot + "\n" + m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/help":
		return append(append([]string{}, engine.HelpLines...),
			"", "Navigation: PgUp/PgDn to scroll, Up/Down for command history"), false

	case "/state":
		return m.engine.StateLines(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Save(m.engine.Snapshot())
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Session saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(m.saveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	sd, err := save.Load(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	m.engine.Restore(sd)
	m.redraw()

	output := []string{fmt.Sprintf("Session loaded from %s (%s).", name, sd.Scenario.Title())}
	return append(output, m.engine.Summary()...)
}

func (m *Model) formatTrace() []string {
	f := m.frame
	lines := []string{fmt.Sprintf("[trace] BR1 points: %d, BR2 points: %d", len(f.BR1.Points), len(f.BR2.Points))}
	for _, l := range f.IsoLines {
		lines = append(lines, fmt.Sprintf("[trace]   firm %d iso %.1f: %d cells", l.Firm, l.Level, len(l.Points)))
	}
	if f.Region != nil {
		lines = append(lines, fmt.Sprintf("[trace] Cooperative cells: %d", contour.Count(f.Region)))
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
