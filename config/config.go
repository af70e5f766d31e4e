// Package config loads the YAML configuration and applies DUOPOLY_*
// environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/duopoly/engine"
	"github.com/nathoo/duopoly/engine/contour"
	"github.com/nathoo/duopoly/engine/expr"
	"github.com/nathoo/duopoly/logging"
	"github.com/nathoo/duopoly/types"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DUOPOLY"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Market  MarketConfig `yaml:"market"`
	Server  ServerConfig `yaml:"server"`
	Log     LogConfig    `yaml:"log"`
	SaveDir string       `yaml:"save_dir"` // sessions and history; empty means ~/.duopoly/sessions
}

// MarketConfig is the state the engine starts from and returns to on reset.
type MarketConfig struct {
	BR1        string `yaml:"br1"`
	BR2        string `yaml:"br2"`
	Scenario   string `yaml:"scenario"`
	ShowIso    bool   `yaml:"show_iso"`
	ShowRegion bool   `yaml:"show_region"`
	IsoLevels  int    `yaml:"iso_levels"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	Metrics        bool     `yaml:"metrics"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File receives log output; empty means stderr. The TUI always logs to
	// a file so the alternate screen stays clean.
	File string `yaml:"file"`
}

// env holds the overrides. Pointers distinguish unset from zero.
type env struct {
	Addr       string `envconfig:"ADDR"`
	Metrics    *bool  `envconfig:"METRICS"`
	LogLevel   string `envconfig:"LOG_LEVEL"`
	LogFile    string `envconfig:"LOG_FILE"`
	SaveDir    string `envconfig:"SAVE_DIR"`
	BR1        string `envconfig:"BR1"`
	BR2        string `envconfig:"BR2"`
	Scenario   string `envconfig:"SCENARIO"`
	ShowIso    *bool  `envconfig:"SHOW_ISO"`
	ShowRegion *bool  `envconfig:"SHOW_REGION"`
	IsoLevels  *int   `envconfig:"ISO_LEVELS"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	return &Config{
		Market: MarketConfig{
			BR1:        engine.DefaultBR1,
			BR2:        engine.DefaultBR2,
			Scenario:   string(types.ScenarioCournot),
			ShowIso:    true,
			ShowRegion: true,
			IsoLevels:  contour.DefaultLevels,
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Metrics: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	c := Defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	setString(&c.Server.Addr, e.Addr)
	setString(&c.Log.Level, e.LogLevel)
	setString(&c.Log.File, e.LogFile)
	setString(&c.SaveDir, e.SaveDir)
	setString(&c.Market.BR1, e.BR1)
	setString(&c.Market.BR2, e.BR2)
	setString(&c.Market.Scenario, e.Scenario)
	if e.Metrics != nil {
		c.Server.Metrics = *e.Metrics
	}
	if e.ShowIso != nil {
		c.Market.ShowIso = *e.ShowIso
	}
	if e.ShowRegion != nil {
		c.Market.ShowRegion = *e.ShowRegion
	}
	if e.IsoLevels != nil {
		c.Market.IsoLevels = *e.IsoLevels
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks names, ranges and the default formulas.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalid)
	}
	m := c.Market
	if !types.Scenario(m.Scenario).Valid() {
		return fmt.Errorf("%w: market.scenario %q is not one of %v", ErrInvalid, m.Scenario, types.Scenarios)
	}
	if m.IsoLevels < contour.MinLevels || m.IsoLevels > contour.MaxLevels {
		return fmt.Errorf("%w: market.iso_levels %d outside [%d, %d]", ErrInvalid, m.IsoLevels, contour.MinLevels, contour.MaxLevels)
	}
	if err := checkFormula(m.BR1, "q2"); err != nil {
		return fmt.Errorf("%w: market.br1: %w", ErrInvalid, err)
	}
	if err := checkFormula(m.BR2, "q1"); err != nil {
		return fmt.Errorf("%w: market.br2: %w", ErrInvalid, err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalid)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	return nil
}

func checkFormula(text, variable string) error {
	x, err := expr.Parse(text, variable)
	if err != nil {
		return err
	}
	x.Close()
	return nil
}

// State converts the market section into the engine's initial state.
func (m MarketConfig) State() engine.State {
	return engine.State{
		BR1Text:    m.BR1,
		BR2Text:    m.BR2,
		Scenario:   types.Scenario(m.Scenario),
		ShowIso:    m.ShowIso,
		ShowRegion: m.ShowRegion,
		IsoLevels:  m.IsoLevels,
	}
}
