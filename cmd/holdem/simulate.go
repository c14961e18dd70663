package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/lox/holdem/internal/config"
	"github.com/lox/holdem/internal/simulator"
)

type SimulateCmd struct {
	Config      string `short:"c" default:"simulation.hcl" type:"path" help:"HCL simulation file"`
	Seed        int64  `help:"RNG seed, overriding the file (0 keeps the file's, random when unset)"`
	Hands       int    `help:"Hands per table, overriding the file"`
	Parallelism int    `short:"j" help:"Tables to run at once, overriding the file"`
	History     string `type:"path" help:"Write every hand to this PHH (.phhs) file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Seed != 0 {
		cfg.Simulation.Seed = c.Seed
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = time.Now().UnixNano()
	}
	if c.Parallelism > 0 {
		cfg.Simulation.Parallelism = c.Parallelism
	}
	if c.Hands > 0 {
		for i := range cfg.Tables {
			cfg.Tables[i].Hands = c.Hands
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", c.Config, err)
	}

	logger, err := g.logger(cfg.Simulation.LogLevel)
	if err != nil {
		return err
	}
	sim, err := cfg.Simulator(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hands handLog
	if c.History != "" {
		sim.OnHand = hands.add
	}

	logger.Info("Starting simulation", "tables", len(sim.Tables), "seed", sim.Seed, "parallelism", sim.Parallelism)
	report, err := simulator.Run(ctx, sim)
	if err != nil {
		return err
	}
	if c.History != "" {
		if err := hands.save(c.History); err != nil {
			return err
		}
		logger.Info("Wrote hand histories", "path", c.History, "hands", hands.hands)
	}
	printReport(g.Stdout, report)
	return nil
}

func printReport(w io.Writer, r *simulator.Report) {
	fmt.Fprintln(w, headerStyle.Render(" ♠ ♥ Simulation Report ♦ ♣ "))
	fmt.Fprintf(w, "%s seed %d, %d hands in %s (%.0f hands/sec)\n\n",
		infoStyle.Render("›"), r.Seed, r.Hands, r.Elapsed.Round(time.Millisecond),
		float64(r.Hands)/max(r.Elapsed.Seconds(), 1e-9))

	tables := ltable.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return handInfoStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers("Table", "Hands", "Showdowns", "Biggest pot", "Chips", "Busted")
	for _, s := range r.Tables {
		tables.Row(
			s.Table,
			strconv.Itoa(s.Hands),
			strconv.Itoa(s.Showdowns),
			strconv.Itoa(s.BiggestPot),
			fmt.Sprintf("%d/%d", s.EndChips(), s.StartChips),
			strconv.Itoa(len(s.Busted)),
		)
	}
	fmt.Fprintln(w, tables.Render())

	strategies := ltable.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return handInfoStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers("Strategy", "Hands", "bb/100", "95% CI", "Showdown bb", "Non-showdown bb", "Big pots")
	for _, name := range r.StrategyNames() {
		s := r.Strategies[name]
		lo, hi := s.ConfidenceInterval95()
		strategies.Row(
			name,
			strconv.Itoa(s.Hands),
			signed("%.1f", s.BBPer100()),
			fmt.Sprintf("[%.1f, %.1f]", lo*100, hi*100),
			fmt.Sprintf("%.1f", s.ShowdownBB),
			fmt.Sprintf("%.1f", s.NonShowdownBB),
			strconv.Itoa(s.BigPots),
		)
	}
	fmt.Fprintln(w, strategies.Render())

	if len(r.Busted) > 0 {
		fmt.Fprintf(w, "%s %v\n", errorStyle.Render("Busted:"), r.Busted)
	}
	fmt.Fprintln(w, successStyle.Render("✓ chips conserved at every table"))
}
