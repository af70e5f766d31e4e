package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/duopoly/engine"
	"github.com/nathoo/duopoly/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "duopoly.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := engine.DefaultState()
	if got := c.Market.State(); got != want {
		t.Errorf("state = %+v, want %+v", got, want)
	}
	if c.Server.Addr != ":8080" || !c.Server.Metrics {
		t.Errorf("unexpected server defaults %+v", c.Server)
	}
}

func TestLoad_FileOverridesOnlyGivenKeys(t *testing.T) {
	path := writeConfig(t, `
market:
  br1: "(80 - q2)/2"
  scenario: collusion
  show_region: false
server:
  allowed_origins: ["http://localhost:3000"]
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Market.BR1 != "(80 - q2)/2" {
		t.Errorf("br1 = %q", c.Market.BR1)
	}
	if c.Market.BR2 != engine.DefaultBR2 {
		t.Errorf("br2 should keep its default, got %q", c.Market.BR2)
	}
	if c.Market.Scenario != string(types.ScenarioCollusion) {
		t.Errorf("scenario = %q", c.Market.Scenario)
	}
	if c.Market.ShowRegion || !c.Market.ShowIso {
		t.Errorf("toggles = iso %v region %v", c.Market.ShowIso, c.Market.ShowRegion)
	}
	if len(c.Server.AllowedOrigins) != 1 {
		t.Errorf("origins = %v", c.Server.AllowedOrigins)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9000\"\nmarket:\n  iso_levels: 5\n")
	t.Setenv("DUOPOLY_ADDR", ":9100")
	t.Setenv("DUOPOLY_ISO_LEVELS", "2")
	t.Setenv("DUOPOLY_SHOW_ISO", "false")
	t.Setenv("DUOPOLY_LOG_LEVEL", "debug")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":9100" {
		t.Errorf("addr = %q, want :9100", c.Server.Addr)
	}
	if c.Market.IsoLevels != 2 {
		t.Errorf("iso_levels = %d, want 2", c.Market.IsoLevels)
	}
	if c.Market.ShowIso {
		t.Error("show_iso should be overridden to false")
	}
	if c.Log.Level != "debug" {
		t.Errorf("log level = %q", c.Log.Level)
	}
	// Unset variables leave file values alone.
	if !c.Market.ShowRegion {
		t.Error("show_region should keep its default")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad scenario", "market:\n  scenario: bertrand\n", "market.scenario"},
		{"levels too high", "market:\n  iso_levels: 9\n", "market.iso_levels"},
		{"levels zero", "market:\n  iso_levels: 0\n", "market.iso_levels"},
		{"br1 uses q1", "market:\n  br1: \"q1 + 1\"\n", "market.br1"},
		{"bad log level", "log:\n  level: chatty\n", "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadUnchecked_SkipsValidation(t *testing.T) {
	c, err := LoadUnchecked(writeConfig(t, "market:\n  scenario: bertrand\n"))
	if err != nil {
		t.Fatalf("LoadUnchecked: %v", err)
	}
	if c.Market.Scenario != "bertrand" {
		t.Errorf("scenario = %q", c.Market.Scenario)
	}
}

func TestLoad_MissingAndMalformed(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "market: [\n")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
