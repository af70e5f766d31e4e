package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nathoo/duopoly/engine"
	"github.com/nathoo/duopoly/logging"
)

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	eng := engine.New(engine.DefaultState(), logging.Discard())
	t.Cleanup(eng.Close)
	var out bytes.Buffer
	c := &CLI{
		Engine:  eng,
		In:      strings.NewReader(input),
		Out:     &out,
		SaveDir: t.TempDir(),
		Width:   DefaultWidth,
		Height:  DefaultHeight,
	}
	return c, &out
}

func TestCLI_IntroAndInitialFrame(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Type /help for commands.") {
		t.Error("expected banner in output")
	}
	if !strings.Contains(output, "Equilibrium: q1 = 33.33, q2 = 33.33") {
		t.Error("expected Cournot summary in output")
	}
	if !strings.Contains(output, "└") {
		t.Error("expected a plot in output")
	}
}

func TestCLI_ChangeScenario(t *testing.T) {
	c, out := newTestCLI(t, "scenario leader1\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Stackelberg (Firm 1 leads)") {
		t.Error("expected Stackelberg title")
	}
	if !strings.Contains(output, "q1 = 50.00, q2 = 25.00") {
		t.Error("expected Stackelberg equilibrium")
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	c.Run()

	output := out.String()
	for _, want := range []string{"/save", "/load", "/quit", "br1 <formula>"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	eng := engine.New(engine.DefaultState(), logging.Discard())
	defer eng.Close()
	var out bytes.Buffer
	c := &CLI{
		Engine:  eng,
		In:      strings.NewReader("br1 (80 - q2)/2\nscenario collusion\n/save test\n/quit\n"),
		Out:     &out,
		SaveDir: dir,
		Width:   40,
		Height:  12,
	}
	c.Run()

	if !strings.Contains(out.String(), "Session saved to test.") {
		t.Error("expected save confirmation")
	}

	eng2 := engine.New(engine.DefaultState(), logging.Discard())
	defer eng2.Close()
	var out2 bytes.Buffer
	c2 := &CLI{
		Engine:  eng2,
		In:      strings.NewReader("/load test\n/quit\n"),
		Out:     &out2,
		SaveDir: dir,
		Width:   40,
		Height:  12,
	}
	c2.Run()

	loadOutput := out2.String()
	if !strings.Contains(loadOutput, "Session loaded from test (Collusion)") {
		t.Errorf("expected load confirmation, got:\n%s", loadOutput)
	}
	if eng2.State.BR1Text != "(80 - q2)/2" {
		t.Errorf("BR1 after load = %q", eng2.State.BR1Text)
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Unknown command: /bogus") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\nplot\n/trace\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") {
		t.Error("expected trace enabled message")
	}
	if !strings.Contains(output, "[trace] Cooperative cells:") {
		t.Error("expected trace details after plot")
	}
	if !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace disabled message")
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, "/state\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "[BR1: q1 = (100 - q2)/2]") {
		t.Error("expected BR1 in state output")
	}
	if !strings.Contains(output, "[Animation: idle]") {
		t.Error("expected animation phase in state output")
	}
}

func TestCLI_EmptyInput(t *testing.T) {
	c, out := newTestCLI(t, "\n\n/quit\n")
	c.Run()

	if strings.Contains(out.String(), "What do you want to do?") {
		t.Error("empty lines should be silently skipped by CLI")
	}
}

func TestCLI_LoadNonexistent(t *testing.T) {
	c, out := newTestCLI(t, "/load nonexistent\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Load failed") {
		t.Error("expected load failure message")
	}
}

func TestCLI_Animate(t *testing.T) {
	c, out := newTestCLI(t, "animate\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "step  1: (5.00, 0.00) -> (50.00, 0.00)") {
		t.Errorf("expected first cobweb step, got:\n%s", output)
	}
	if !strings.Contains(output, "step 20:") || strings.Contains(output, "step 21:") {
		t.Error("expected exactly 20 steps")
	}
	if !strings.Contains(output, "Best-response path (20 steps)") {
		t.Error("expected the drawn path in the legend")
	}
	if c.Engine.Animator.Running() {
		t.Error("animation should have finished")
	}
}

func TestCLI_ScriptEcho(t *testing.T) {
	c, out := newTestCLI(t, "# comment\niso 2\n/quit\n")
	c.EchoInput = true
	c.Run()

	output := out.String()
	if strings.Contains(output, "# comment") {
		t.Error("comment lines should be skipped")
	}
	if !strings.Contains(output, "> iso 2\n") {
		t.Error("expected echoed input after the prompt")
	}
	if !strings.Contains(output, "Iso-profit lines: on, 2 per firm.") {
		t.Error("expected iso output")
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, out := newTestCLI(t, "solve\nagain\ng\n/quit\n")
	c.Run()

	// initial plot + solve + again + g
	count := strings.Count(out.String(), "Equilibrium: q1 = 33.33")
	if count != 4 {
		t.Errorf("expected the summary 4 times, got %d", count)
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Nothing to repeat") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
}
