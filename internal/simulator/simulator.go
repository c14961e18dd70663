// Package simulator plays bot-only tables concurrently and audits the result
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/internal/statistics"
	"github.com/lox/holdem/internal/table"
	"golang.org/x/sync/errgroup"
)

// ErrChipsNotConserved is returned when a table ends with a different chip
// count than it started with
var ErrChipsNotConserved = errors.New("chips not conserved")

// Seat is one bot at a simulated table
type Seat struct {
	ID       string
	Name     string
	Stack    int
	Strategy string
	IsHost   bool
}

// Table describes one simulated table
type Table struct {
	Name        string
	Blinds      game.Blinds
	Hands       int
	RevealDelay time.Duration
	HeadsUpRule game.HeadsUpRule
	Seats       []Seat
}

// Config holds configuration for running simulations
type Config struct {
	Seed int64
	// Parallelism caps how many tables run at once; zero uses GOMAXPROCS
	Parallelism int
	// Timeout stops a table that has not finished in time; zero waits forever
	Timeout time.Duration
	Tables  []Table
	Logger  *log.Logger
	// OnHand sees every settled hand at every table, one call at a time
	OnHand func(table.HandResult)
}

// Report is the outcome of a simulation
type Report struct {
	Seed       int64
	Tables     []table.Summary
	Hands      int
	Showdowns  int
	BiggestPot int
	Busted     []string
	// Strategies holds per-strategy results in big blinds per hand
	Strategies map[string]*statistics.Statistics
	Elapsed    time.Duration
}

// Run plays every configured table and returns once all are done. Each table
// shuffles from its own stream derived from the seed, so results are
// reproducible whatever the parallelism.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if len(cfg.Tables) == 0 {
		return nil, errors.New("no tables to simulate")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = runtime.GOMAXPROCS(0)
	}
	logger := cfg.Logger.WithPrefix("simulator")

	started := time.Now()
	report := &Report{
		Seed:       cfg.Seed,
		Tables:     make([]table.Summary, len(cfg.Tables)),
		Strategies: make(map[string]*statistics.Statistics),
	}
	var mu, hands sync.Mutex
	onHand := func(h table.HandResult) {
		if cfg.OnHand == nil {
			return
		}
		hands.Lock()
		defer hands.Unlock()
		cfg.OnHand(h)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallelism)
	for i, spec := range cfg.Tables {
		g.Go(func() error {
			summary, stats, err := runTable(ctx, cfg, i, spec, onHand)
			if err != nil {
				return fmt.Errorf("table %q: %w", spec.Name, err)
			}
			if summary.StartChips != summary.EndChips() {
				return fmt.Errorf("table %q: %w: started with %d, ended with %d",
					spec.Name, ErrChipsNotConserved, summary.StartChips, summary.EndChips())
			}

			mu.Lock()
			defer mu.Unlock()
			report.Tables[i] = summary
			for name, s := range stats {
				if report.Strategies[name] == nil {
					report.Strategies[name] = &statistics.Statistics{}
				}
				report.Strategies[name].Merge(s)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, s := range report.Tables {
		report.Hands += s.Hands
		report.Showdowns += s.Showdowns
		report.BiggestPot = max(report.BiggestPot, s.BiggestPot)
		report.Busted = append(report.Busted, s.Busted...)
	}
	for name, s := range report.Strategies {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("statistics for %s: %w", name, err)
		}
	}
	report.Elapsed = time.Since(started)

	logger.Info("Simulation complete", "tables", len(report.Tables), "hands", report.Hands, "elapsed", report.Elapsed)
	return report, nil
}

func runTable(ctx context.Context, cfg Config, index int, spec Table, onHand func(table.HandResult)) (table.Summary, map[string]*statistics.Statistics, error) {
	seed := randutil.Derive(cfg.Seed, index)
	rng := randutil.New(seed)

	strategies := make(map[string]string, len(spec.Seats))
	seats := make([]table.Seat, len(spec.Seats))
	for i, s := range spec.Seats {
		agent, err := bot.New(s.Strategy, randutil.New(randutil.Derive(seed, i+1)))
		if err != nil {
			return table.Summary{}, nil, fmt.Errorf("seat %q: %w", s.ID, err)
		}
		strategies[s.ID] = s.Strategy
		seats[i] = table.Seat{ID: s.ID, Name: s.Name, Stack: s.Stack, IsHost: s.IsHost, Agent: agent}
	}

	stats := make(map[string]*statistics.Statistics)
	record := func(h table.HandResult) {
		big := float64(h.Blinds.Big)
		pot := 0
		for _, p := range h.Settlement.Pots {
			pot += p.Amount
		}
		for position, id := range h.Order() {
			name := strategies[id]
			if stats[name] == nil {
				stats[name] = &statistics.Statistics{}
			}
			stats[name].Add(statistics.Result{
				NetBB:    float64(h.Net[id]) / big,
				Showdown: h.Settlement.Showdown,
				PotBB:    float64(pot) / big,
				Position: position,
			})
		}
		onHand(h)
	}

	runner, err := table.New(table.Config{
		Name:        spec.Name,
		Blinds:      spec.Blinds,
		Seats:       seats,
		MaxHands:    spec.Hands,
		RevealDelay: spec.RevealDelay,
		OnHand:      record,
		Logger:      cfg.Logger,
		EngineOptions: []game.Option{
			game.WithRNG(rng),
			game.WithHeadsUpRule(spec.HeadsUpRule),
		},
	})
	if err != nil {
		return table.Summary{}, nil, err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	summary, err := runner.Run(ctx)
	if err != nil {
		return summary, nil, fmt.Errorf("after %d hands (seed %d): %w", summary.Hands, seed, err)
	}
	return summary, stats, nil
}

// StrategyNames returns the strategies in a report, sorted
func (r *Report) StrategyNames() []string {
	names := make([]string, 0, len(r.Strategies))
	for name := range r.Strategies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
