// Package config loads simulation settings from HCL
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/simulator"
	"github.com/thoas/go-funk"
)

const (
	DefaultStack    = 1000
	DefaultStrategy = bot.StrategyCallingStation
	DefaultLogLevel = "info"
	DefaultHands    = 100
)

// Config is the complete simulation configuration
type Config struct {
	Simulation *Simulation `hcl:"simulation,block"`
	Tables     []Table     `hcl:"table,block"`
}

// Simulation holds run-wide settings
type Simulation struct {
	Seed        int64  `hcl:"seed,optional"`
	Parallelism int    `hcl:"parallelism,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	Timeout     string `hcl:"timeout,optional"`
}

// Table defines one simulated table
type Table struct {
	Name        string `hcl:"name,label"`
	SmallBlind  int    `hcl:"small_blind"`
	BigBlind    int    `hcl:"big_blind"`
	Hands       int    `hcl:"hands,optional"`
	RevealDelay string `hcl:"reveal_delay,optional"`
	HeadsUpRule string `hcl:"heads_up_rule,optional"`
	Seats       []Seat `hcl:"seat,block"`
}

// Seat defines one bot at a table
type Seat struct {
	Name     string `hcl:"name,label"`
	Stack    int    `hcl:"stack,optional"`
	Strategy string `hcl:"strategy,optional"`
	Host     bool   `hcl:"host,optional"`
}

// Default returns a single heads-up table of calling stations
func Default() *Config {
	cfg := &Config{
		Tables: []Table{{
			Name:       "main",
			SmallBlind: 5,
			BigBlind:   10,
			Seats:      []Seat{{Name: "alice"}, {Name: "bob"}},
		}},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from an HCL file and applies defaults. A missing
// file yields the default configuration. Call Validate before use.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	file, diags := hclparse.NewParser().ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file.Body)
}

// Parse reads configuration from HCL source; filename only appears in
// diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var cfg Config
	if diags := gohcl.DecodeBody(body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Simulation == nil {
		c.Simulation = &Simulation{}
	}
	if c.Simulation.LogLevel == "" {
		c.Simulation.LogLevel = DefaultLogLevel
	}

	for i := range c.Tables {
		t := &c.Tables[i]
		if t.Hands == 0 {
			t.Hands = DefaultHands
		}
		for j := range t.Seats {
			if t.Seats[j].Stack == 0 {
				t.Seats[j].Stack = DefaultStack
			}
			if t.Seats[j].Strategy == "" {
				t.Seats[j].Strategy = DefaultStrategy
			}
		}
	}
}

// Validate checks the configuration is playable
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Simulation.LogLevel); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if c.Simulation.Parallelism < 0 {
		return fmt.Errorf("simulation: parallelism must not be negative")
	}
	if _, err := parseDuration(c.Simulation.Timeout); err != nil {
		return fmt.Errorf("simulation: timeout: %w", err)
	}

	if len(c.Tables) == 0 {
		return errors.New("at least one table must be configured")
	}
	names := funk.Map(c.Tables, func(t Table) string { return t.Name }).([]string)
	if len(funk.UniqString(names)) != len(names) {
		return errors.New("table names must be unique")
	}

	strategies := bot.Strategies()
	for _, t := range c.Tables {
		if t.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", t.Name)
		}
		if t.BigBlind < t.SmallBlind {
			return fmt.Errorf("table %s: big blind must be at least the small blind", t.Name)
		}
		if t.Hands < 0 {
			return fmt.Errorf("table %s: hands must not be negative", t.Name)
		}
		if _, err := parseDuration(t.RevealDelay); err != nil {
			return fmt.Errorf("table %s: reveal delay: %w", t.Name, err)
		}
		if _, ok := game.ParseHeadsUpRule(t.HeadsUpRule); !ok {
			return fmt.Errorf("table %s: unknown heads-up rule %q", t.Name, t.HeadsUpRule)
		}

		if len(t.Seats) < 2 {
			return fmt.Errorf("table %s: at least two seats are required, have %d", t.Name, len(t.Seats))
		}
		seats := funk.Map(t.Seats, func(s Seat) string { return s.Name }).([]string)
		if len(funk.UniqString(seats)) != len(seats) {
			return fmt.Errorf("table %s: seat names must be unique", t.Name)
		}
		for _, s := range t.Seats {
			if s.Stack <= 0 {
				return fmt.Errorf("table %s: seat %s: stack must be positive", t.Name, s.Name)
			}
			if !funk.ContainsString(strategies, s.Strategy) {
				return fmt.Errorf("table %s: seat %s: unknown strategy %q", t.Name, s.Name, s.Strategy)
			}
		}
	}
	return nil
}

// Simulator converts a validated configuration into simulator settings
func (c *Config) Simulator(logger *log.Logger) (simulator.Config, error) {
	timeout, err := parseDuration(c.Simulation.Timeout)
	if err != nil {
		return simulator.Config{}, fmt.Errorf("simulation: timeout: %w", err)
	}
	out := simulator.Config{
		Seed:        c.Simulation.Seed,
		Parallelism: c.Simulation.Parallelism,
		Timeout:     timeout,
		Logger:      logger,
		Tables:      make([]simulator.Table, 0, len(c.Tables)),
	}

	for _, t := range c.Tables {
		delay, err := parseDuration(t.RevealDelay)
		if err != nil {
			return simulator.Config{}, fmt.Errorf("table %s: reveal delay: %w", t.Name, err)
		}
		rule, ok := game.ParseHeadsUpRule(t.HeadsUpRule)
		if !ok {
			return simulator.Config{}, fmt.Errorf("table %s: unknown heads-up rule %q", t.Name, t.HeadsUpRule)
		}

		st := simulator.Table{
			Name:        t.Name,
			Blinds:      game.Blinds{Small: t.SmallBlind, Big: t.BigBlind},
			Hands:       t.Hands,
			RevealDelay: delay,
			HeadsUpRule: rule,
		}
		for _, s := range t.Seats {
			st.Seats = append(st.Seats, simulator.Seat{
				ID:       t.Name + "/" + s.Name,
				Name:     s.Name,
				Stack:    s.Stack,
				Strategy: s.Strategy,
				IsHost:   s.Host,
			})
		}
		out.Tables = append(out.Tables, st)
	}
	return out, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %s is negative", s)
	}
	return d, nil
}
