// Package cli provides line-driven terminal I/O, plot printing and
// meta-command dispatch for the duopoly engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/duopoly/engine"
	"github.com/nathoo/duopoly/engine/contour"
	"github.com/nathoo/duopoly/engine/save"
	"github.com/nathoo/duopoly/plot"
	"github.com/nathoo/duopoly/types"
)

// Default plot size in character cells.
const (
	DefaultWidth  = 72
	DefaultHeight = 24
)

// CLI handles line-by-line interaction with the user.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Width     int
	Height    int
	Color     bool   // style the plot with terminal colours
	Trace     bool   // print frame internals after each redraw
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Engine:  eng,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".duopoly", "sessions"),
		Width:   DefaultWidth,
		Height:  DefaultHeight,
	}
}

// Run draws the initial frame, then loops: prompt → input → dispatch →
// output, until EOF or /quit.
func (c *CLI) Run() {
	c.printLine("Duopoly: Cournot, Stackelberg and collusion equilibria. Type /help for commands.")
	c.printLine("")
	c.printResult(c.Engine.Step("plot"))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.printResult(c.Engine.Step(input))
	}
}

// handleMeta dispatches meta-commands. Returns true if the CLI should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		for _, line := range c.Engine.StateLines() {
			c.printSystem(line)
		}

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Save(c.Engine.Snapshot())
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Session saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	c.Engine.Restore(sd)
	c.printSystem(fmt.Sprintf("Session loaded from %s (%s).", name, sd.Scenario.Title()))
	c.printResult(c.Engine.Step("plot"))
}

func (c *CLI) cmdHelp() {
	for _, line := range engine.HelpLines {
		c.printLine(line)
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
	if result.Animate {
		c.runAnimation()
	}
	if result.Redraw {
		c.printFrame()
	}
}

// runAnimation plays the whole cobweb path at once; a line-driven terminal
// has no clock to pace it with.
func (c *CLI) runAnimation() {
	gen := c.Engine.Animator.Generation()
	for i := 1; ; i++ {
		arrow, ok := c.Engine.AnimateStep(gen)
		if !ok {
			return
		}
		c.printLine(fmt.Sprintf("  step %2d: (%.2f, %.2f) -> (%.2f, %.2f)",
			i, arrow.From.Q1, arrow.From.Q2, arrow.To.Q1, arrow.To.Q2))
	}
}

func (c *CLI) printFrame() {
	frame := c.Engine.Frame()
	canvas := plot.Draw(frame, c.Width, c.Height)

	c.printLine(frame.Title)
	if c.Color {
		c.printLine(canvas.Render())
	} else {
		c.printLine(canvas.String())
	}
	for _, line := range plot.Legend(frame) {
		c.printLine("  " + line)
	}
	if c.Trace {
		c.printTrace(frame)
	}
}

func (c *CLI) printTrace(f types.Frame) {
	c.printSystem(fmt.Sprintf("[trace] BR1 points: %d, BR2 points: %d", len(f.BR1.Points), len(f.BR2.Points)))
	for _, l := range f.IsoLines {
		c.printSystem(fmt.Sprintf("[trace]   firm %d iso %.1f: %d cells", l.Firm, l.Level, len(l.Points)))
	}
	if f.Region != nil {
		c.printSystem(fmt.Sprintf("[trace] Cooperative cells: %d", contour.Count(f.Region)))
	}
	if len(f.Arrows) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Arrows drawn: %d", len(f.Arrows)))
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
