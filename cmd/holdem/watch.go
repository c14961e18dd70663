package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/config"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/internal/simulator"
	"github.com/lox/holdem/internal/table"
)

type WatchCmd struct {
	Config  string        `short:"c" default:"simulation.hcl" type:"path" help:"HCL simulation file"`
	Table   string        `arg:"" optional:"" help:"Table to follow; defaults to the first in the file"`
	Delay   time.Duration `help:"Pause between hands, overriding the table's reveal_delay"`
	Seed    int64         `help:"RNG seed (0 uses the file's, random when unset)"`
	History string        `type:"path" help:"Write the watched hands to this PHH (.phhs) file"`
}

func (c *WatchCmd) Run(g *Globals) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
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

	idx := 0
	if c.Table != "" {
		idx = slices.IndexFunc(sim.Tables, func(t simulator.Table) bool { return t.Name == c.Table })
		if idx < 0 {
			return fmt.Errorf("no table named %q in %s", c.Table, c.Config)
		}
	}
	spec := sim.Tables[idx]
	if c.Delay > 0 {
		spec.RevealDelay = c.Delay
	}

	seed := cmp.Or(c.Seed, sim.Seed, time.Now().UnixNano())
	seats := make([]table.Seat, len(spec.Seats))
	for i, s := range spec.Seats {
		agent, err := bot.New(s.Strategy, randutil.New(randutil.Derive(seed, i+1)))
		if err != nil {
			return err
		}
		seats[i] = table.Seat{ID: s.ID, Name: s.Name, Stack: s.Stack, IsHost: s.IsHost, Agent: agent}
	}

	var hands handLog
	var onHand func(table.HandResult)
	if c.History != "" {
		onHand = hands.add
	}

	runner, err := table.New(table.Config{
		Name:        spec.Name,
		Blinds:      spec.Blinds,
		Seats:       seats,
		MaxHands:    spec.Hands,
		RevealDelay: spec.RevealDelay,
		OnHand:      onHand,
		Logger:      logger,
		EngineOptions: []game.Option{
			game.WithRNG(randutil.New(seed)),
			game.WithHeadsUpRule(spec.HeadsUpRule),
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	updates := runner.Subscribe(256)
	type result struct {
		summary table.Summary
		err     error
	}
	done := make(chan result, 1)
	go func() {
		summary, err := runner.Run(ctx)
		done <- result{summary, err}
	}()

	fmt.Fprintln(g.Stdout, headerStyle.Render(fmt.Sprintf(" ♠ %s ♥ seed %d ", spec.Name, seed)))
	for u := range updates {
		if !u.Done {
			printHand(g.Stdout, u.Full)
		}
	}

	res := <-done
	if res.err != nil && ctx.Err() == nil {
		return res.err
	}
	if c.History != "" {
		if err := hands.save(c.History); err != nil {
			return err
		}
	}
	fmt.Fprintf(g.Stdout, "\n%s %d hands, biggest pot %d, stacks %v\n",
		headerStyle.Render(spec.Name), res.summary.Hands, res.summary.BiggestPot, res.summary.Stacks)
	return nil
}

// printHand writes a settled hand; other snapshots are ignored
func printHand(w io.Writer, s game.Snapshot) {
	if s.Settlement == nil {
		return
	}
	st := s.Settlement
	fmt.Fprintf(w, "\n%s %s  board %s\n",
		handInfoStyle.Render(fmt.Sprintf("Hand #%d", s.HandNumber)),
		infoStyle.Render(st.HandID),
		renderCards(st.Board))

	for _, p := range s.Players {
		line := fmt.Sprintf("  %-12s %6d", p.ID, p.Stack)
		if len(p.Cards) > 0 {
			line += "  " + renderCards(p.Cards)
		}
		if hand, ok := st.Hands[p.ID]; ok {
			line += "  " + infoStyle.Render(hand.String())
		}
		if won := st.Payouts[p.ID]; won > 0 {
			line += "  " + successStyle.Render(fmt.Sprintf("wins %d", won))
		}
		if p.Status == game.StatusBusted || slices.Contains(st.Busted, p.ID) {
			line += "  " + errorStyle.Render("busted")
		}
		fmt.Fprintln(w, line)
	}
	if len(st.Pots) > 1 {
		parts := make([]string, len(st.Pots))
		for i, pot := range st.Pots {
			parts[i] = fmt.Sprintf("%d → %s", pot.Amount, strings.Join(pot.Winners, ","))
		}
		fmt.Fprintf(w, "  %s %s\n", infoStyle.Render("pots"), strings.Join(parts, ", "))
	}
}
