// Package table runs hands at one table on a single goroutine. Seats are
// driven either by an Agent, asked synchronously on the runner goroutine, or
// from outside through Act. Subscribers receive a full snapshot and a
// per-seat redacted view whenever the table settles into a state that needs
// outside input.
package table

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdem/internal/game"
)

// ErrClosed is returned by calls made after the runner has stopped
var ErrClosed = errors.New("table closed")

// Decision is an agent's chosen action. Amount is only read for raises and
// is the increment above the seat's current bet.
type Decision struct {
	Action    game.Action
	Amount    int
	Reasoning string
}

// Agent decides for a seat. It is called on the runner goroutine with the
// table as that seat sees it and must not block.
type Agent interface {
	MakeDecision(view game.Snapshot, legal game.Legal) Decision
}

// AgentFunc adapts a function to an Agent
type AgentFunc func(view game.Snapshot, legal game.Legal) Decision

func (f AgentFunc) MakeDecision(view game.Snapshot, legal game.Legal) Decision {
	return f(view, legal)
}

// Seat is a player at the table. Seats without an Agent act through Act.
type Seat struct {
	ID     string
	Name   string
	Stack  int
	IsHost bool
	Agent  Agent
}

// Config describes one table
type Config struct {
	Name   string
	Blinds game.Blinds
	Seats  []Seat

	// MaxHands stops the table after this many hands; zero plays until one
	// funded player is left.
	MaxHands int
	// RevealDelay is the pause after a hand settles before the next one starts
	RevealDelay time.Duration
	// ActTimeout folds a seat without an agent that has not acted in time.
	// Zero waits forever.
	ActTimeout time.Duration
	// OnHand is called on the runner goroutine after every settled hand
	OnHand func(HandResult)

	Clock         quartz.Clock
	Logger        *log.Logger
	EngineOptions []game.Option
}

// Update is published to subscribers
type Update struct {
	Full  game.Snapshot
	Views map[string]game.Snapshot
	// Done marks the last update; the channel is closed after it
	Done bool
}

// HandResult describes one settled hand. Net is each dealt-in player's
// chip change over the hand. Players are as they stood before the pot was
// awarded, ordered from the dealer's left so the dealer is last. The posted
// blinds fall short of Blinds when a poster was all-in for less.
type HandResult struct {
	Table      string
	Number     int
	Blinds     game.Blinds
	SmallBlind string
	BigBlind   string
	PostedSB   int
	PostedBB   int
	Players    []game.Player
	Actions    []game.ActionRecord
	Settlement *game.Settlement
	Net        map[string]int
	Finished   time.Time
}

// Order returns the dealt-in player ids in seat order from the dealer's left
func (h HandResult) Order() []string {
	ids := make([]string, len(h.Players))
	for i, p := range h.Players {
		ids[i] = p.ID
	}
	return ids
}

// Summary is what a table reports when it stops
type Summary struct {
	Table      string         `json:"table"`
	Hands      int            `json:"hands"`
	Showdowns  int            `json:"showdowns"`
	BiggestPot int            `json:"biggest_pot"`
	Wins       map[string]int `json:"wins"`
	Stacks     map[string]int `json:"stacks"`
	// CashedOut holds the stacks of players who left the table
	CashedOut  map[string]int `json:"cashed_out,omitempty"`
	Busted     []string       `json:"busted,omitempty"`
	StartChips int            `json:"start_chips"`
}

// EndChips is every chip still accounted for when the table stopped
func (s Summary) EndChips() int {
	total := 0
	for _, chips := range s.Stacks {
		total += chips
	}
	for _, chips := range s.CashedOut {
		total += chips
	}
	return total
}

// Runner owns one engine and serializes every call to it
type Runner struct {
	cfg    Config
	engine *game.Engine
	clock  quartz.Clock
	logger *log.Logger
	agents map[string]Agent

	commands chan func()
	reveal   chan struct{}
	timeouts chan uint64
	done     chan struct{}

	mu          sync.Mutex
	subscribers []chan Update
	closed      bool

	// Owned by the run loop.
	summary     Summary
	left        map[string]bool
	turn        uint64
	actTimer    *quartz.Timer
	revealTimer *quartz.Timer
	finished    bool
	err         error
}

// New creates a runner for the configured table. Call Run to start it.
func New(cfg Config) (*Runner, error) {
	if len(cfg.Seats) < 2 {
		return nil, fmt.Errorf("table %q needs at least two seats, has %d", cfg.Name, len(cfg.Seats))
	}
	agents := make(map[string]Agent, len(cfg.Seats))
	seen := make(map[string]bool, len(cfg.Seats))
	start := 0
	for _, s := range cfg.Seats {
		switch {
		case s.ID == "":
			return nil, fmt.Errorf("table %q has a seat with no id", cfg.Name)
		case seen[s.ID]:
			return nil, fmt.Errorf("table %q seats %q twice", cfg.Name, s.ID)
		case s.Stack <= 0:
			return nil, fmt.Errorf("seat %q must start with chips, has %d", s.ID, s.Stack)
		}
		seen[s.ID] = true
		start += s.Stack
		if s.Agent != nil {
			agents[s.ID] = s.Agent
		}
	}

	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	logger := cfg.Logger.WithPrefix("table").With("table", cfg.Name)

	opts := append([]game.Option{game.WithLogger(cfg.Logger.WithPrefix("engine"))}, cfg.EngineOptions...)
	return &Runner{
		cfg:      cfg,
		engine:   game.NewEngine(opts...),
		clock:    cfg.Clock,
		logger:   logger,
		agents:   agents,
		commands: make(chan func()),
		reveal:   make(chan struct{}, 1),
		timeouts: make(chan uint64, 1),
		done:     make(chan struct{}),
		left:     make(map[string]bool),
		summary: Summary{
			Table:      cfg.Name,
			Wins:       make(map[string]int),
			StartChips: start,
		},
	}, nil
}

// Run plays hands until the hand limit is reached, fewer than two funded
// players remain, or ctx is cancelled. It must be called once.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	defer r.shutdown()

	r.logger.Info("Table starting", "seats", len(r.cfg.Seats), "blinds", fmt.Sprintf("%d/%d", r.cfg.Blinds.Small, r.cfg.Blinds.Big))
	if err := r.nextHand(); err != nil {
		return r.finish(), err
	}

	for !r.finished {
		select {
		case <-ctx.Done():
			r.logger.Warn("Table cancelled", "hands", r.summary.Hands)
			return r.finish(), ctx.Err()
		case cmd := <-r.commands:
			cmd()
		case <-r.reveal:
			if err := r.nextHand(); err != nil {
				r.fail(err)
			}
		case seq := <-r.timeouts:
			r.expire(seq)
		}
	}

	summary := r.finish()
	r.logger.Info("Table finished", "hands", summary.Hands, "showdowns", summary.Showdowns, "busted", len(summary.Busted))
	return summary, r.err
}

// Subscribe returns a channel of updates. Updates that do not fit in the
// buffer are dropped. The channel is closed when the runner stops.
func (r *Runner) Subscribe(buffer int) <-chan Update {
	ch := make(chan Update, buffer)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		close(ch)
		return ch
	}
	r.subscribers = append(r.subscribers, ch)
	return ch
}

// Act submits an action for a seat and waits until the runner has applied
// it. Engine validation errors are returned as-is.
func (r *Runner) Act(ctx context.Context, playerID string, action game.Action, amount int) error {
	return r.do(ctx, func() error {
		if err := r.engine.ProcessAction(playerID, action, amount); err != nil {
			return err
		}
		r.endTurn()
		r.logger.Debug("Action", "player", playerID, "action", action, "amount", amount)
		r.step()
		return nil
	})
}

// Leave removes a seat from future hands and folds it out of the current one
func (r *Runner) Leave(ctx context.Context, playerID string) error {
	return r.do(ctx, func() error {
		if !slices.ContainsFunc(r.cfg.Seats, func(s Seat) bool { return s.ID == playerID }) {
			return &game.NotFoundError{PlayerID: playerID}
		}
		if r.left[playerID] {
			return nil
		}
		r.left[playerID] = true
		r.logger.Info("Player left", "player", playerID)

		if r.engine.Phase().IsBetting() {
			err := r.engine.ForceFold(playerID)
			switch {
			case err == nil:
				r.endTurn()
			case errors.Is(err, game.ErrInvalidAction), errors.Is(err, game.ErrNotFound):
				// All-in players play the hand out; busted players are already gone.
			default:
				return err
			}
		} else if r.funded() < 2 {
			r.finished = true
		}
		r.step()
		return nil
	})
}

// State returns the full snapshot
func (r *Runner) State(ctx context.Context) (game.Snapshot, error) {
	var s game.Snapshot
	err := r.do(ctx, func() error {
		s = r.engine.State()
		return nil
	})
	return s, err
}

func (r *Runner) do(ctx context.Context, fn func() error) error {
	reply := make(chan error, 1)
	select {
	case r.commands <- func() { reply <- fn() }:
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrClosed
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// step drives due transitions and publishes the result
func (r *Runner) step() {
	if err := r.drive(); err != nil {
		r.fail(err)
		return
	}
	r.publish(false)
}

func (r *Runner) fail(err error) {
	r.logger.Error("Table stopped", "error", err)
	r.err = err
	r.finished = true
}

func (r *Runner) nextHand() error {
	if r.cfg.MaxHands > 0 && r.summary.Hands >= r.cfg.MaxHands {
		r.finished = true
		return nil
	}

	seats := make([]game.Seat, 0, len(r.cfg.Seats))
	for _, s := range r.cfg.Seats {
		if r.left[s.ID] {
			r.cashOut(s.ID)
			continue
		}
		seats = append(seats, game.Seat{ID: s.ID, Name: s.Name, Stack: s.Stack, IsHost: s.IsHost})
	}

	if err := r.engine.InitializeHand(seats, r.cfg.Blinds); err != nil {
		if errors.Is(err, game.ErrInvalidPhase) {
			r.logger.Info("Not enough players for another hand", "hands", r.summary.Hands)
			r.finished = true
			return nil
		}
		return fmt.Errorf("start hand: %w", err)
	}
	r.logger.Debug("Hand started", "hand", r.engine.HandID(), "number", r.engine.HandNumber())

	if err := r.drive(); err != nil {
		return err
	}
	r.publish(false)
	return nil
}

// cashOut records the stack of a player who left, once they are out of the engine
func (r *Runner) cashOut(id string) {
	if _, ok := r.summary.CashedOut[id]; ok {
		return
	}
	p, ok := r.engine.Player(id)
	if !ok || p.Status == game.StatusBusted {
		return
	}
	if r.summary.CashedOut == nil {
		r.summary.CashedOut = make(map[string]int)
	}
	r.summary.CashedOut[id] = p.Stack
}

// drive makes every transition that needs no outside input
func (r *Runner) drive() error {
	for {
		switch r.engine.Pending() {
		case game.AwaitAction:
			id, ok := r.engine.CurrentPlayer()
			if !ok {
				return nil
			}
			agent, ok := r.agents[id]
			if !ok {
				r.await(id)
				return nil
			}
			if err := r.decide(id, agent); err != nil {
				return err
			}
		case game.AdvanceDue:
			if err := r.engine.AdvanceStreet(); err != nil {
				return fmt.Errorf("advance street: %w", err)
			}
		case game.SettleDue:
			return r.settle()
		default:
			return nil
		}
	}
}

// decide asks an agent and applies its decision, falling back to check or
// fold when the decision is not legal.
func (r *Runner) decide(id string, agent Agent) error {
	legal, err := r.engine.Legal(id)
	if err != nil {
		return err
	}
	d := agent.MakeDecision(r.engine.ViewFor(id), legal)

	err = r.engine.ProcessAction(id, d.Action, d.Amount)
	if err == nil {
		r.logger.Debug("Decision", "player", id, "action", d.Action, "amount", d.Amount, "reasoning", d.Reasoning)
		return nil
	}

	fallback := game.Fold
	if legal.Can(game.Check) {
		fallback = game.Check
	}
	r.logger.Error("Failed to apply agent decision", "player", id, "action", d.Action, "amount", d.Amount, "error", err, "fallback", fallback)
	if err := r.engine.ProcessAction(id, fallback, 0); err != nil {
		return fmt.Errorf("fallback %s for %s: %w", fallback, id, err)
	}
	return nil
}

// await arms the decision timer for a seat acting through Act
func (r *Runner) await(id string) {
	if r.cfg.ActTimeout <= 0 {
		return
	}
	r.endTurn()
	seq := r.turn
	r.actTimer = r.clock.AfterFunc(r.cfg.ActTimeout, func() {
		select {
		case r.timeouts <- seq:
		default:
		}
	})
	r.logger.Debug("Waiting for player", "player", id, "timeout", r.cfg.ActTimeout)
}

// endTurn invalidates any pending decision timer
func (r *Runner) endTurn() {
	r.turn++
	if r.actTimer != nil {
		r.actTimer.Stop()
		r.actTimer = nil
	}
}

func (r *Runner) revealNow() {
	select {
	case r.reveal <- struct{}{}:
	default:
	}
}

func (r *Runner) expire(seq uint64) {
	if seq != r.turn {
		return
	}
	id, ok := r.engine.CurrentPlayer()
	if !ok {
		return
	}
	r.logger.Warn("Decision timeout, folding", "player", id, "timeout", r.cfg.ActTimeout)
	if err := r.engine.ForceFold(id); err != nil {
		r.fail(fmt.Errorf("fold %s after timeout: %w", id, err))
		return
	}
	r.endTurn()
	r.step()
}

func (r *Runner) settle() error {
	all := r.engine.Players()
	players := make([]game.Player, 0, len(all))
	net := make(map[string]int, len(all))
	for i := range all {
		p := all[(r.engine.DealerIndex()+1+i)%len(all)]
		if p.Status != game.StatusBusted {
			players = append(players, p)
			net[p.ID] = -p.Contributed
		}
	}
	small, big := r.engine.BlindPosters()
	postedSB, postedBB := r.engine.PostedBlinds()
	actions := r.engine.Actions()

	s, err := r.engine.Settle()
	if err != nil {
		return fmt.Errorf("settle: %w", err)
	}
	for id, won := range s.Payouts {
		net[id] += won
	}

	pot := 0
	for _, p := range s.Pots {
		pot += p.Amount
	}
	winners := s.Winners()
	slices.Sort(winners)
	for _, id := range winners {
		r.summary.Wins[id]++
	}
	r.summary.Hands++
	if s.Showdown {
		r.summary.Showdowns++
	}
	r.summary.BiggestPot = max(r.summary.BiggestPot, pot)

	r.logger.Info("Hand complete",
		"hand", s.HandID,
		"pot", pot,
		"winners", strings.Join(winners, ","),
		"showdown", s.Showdown,
		"busted", len(s.Busted),
	)
	if r.cfg.OnHand != nil {
		r.cfg.OnHand(HandResult{
			Table:      r.cfg.Name,
			Number:     r.engine.HandNumber(),
			Blinds:     r.cfg.Blinds,
			SmallBlind: small,
			BigBlind:   big,
			PostedSB:   postedSB,
			PostedBB:   postedBB,
			Players:    players,
			Actions:    actions,
			Settlement: s,
			Net:        net,
			Finished:   r.clock.Now(),
		})
	}

	switch {
	case r.cfg.MaxHands > 0 && r.summary.Hands >= r.cfg.MaxHands, r.funded() < 2:
		r.finished = true
	case r.cfg.RevealDelay <= 0:
		r.revealNow()
	default:
		r.revealTimer = r.clock.AfterFunc(r.cfg.RevealDelay, r.revealNow)
	}
	return nil
}

// funded counts seated players with chips who have not left
func (r *Runner) funded() int {
	n := 0
	for _, p := range r.engine.Players() {
		if p.Stack > 0 && !r.left[p.ID] {
			n++
		}
	}
	return n
}

func (r *Runner) publish(done bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.subscribers) == 0 {
		return
	}

	u := Update{
		Full:  r.engine.State(),
		Views: make(map[string]game.Snapshot, len(r.cfg.Seats)),
		Done:  done,
	}
	for _, s := range r.cfg.Seats {
		u.Views[s.ID] = r.engine.ViewFor(s.ID)
	}
	for _, ch := range r.subscribers {
		select {
		case ch <- u:
		default:
			r.logger.Warn("Subscriber too slow, update dropped", "hand", u.Full.HandID)
		}
	}
}

func (r *Runner) finish() Summary {
	s := r.summary
	s.Stacks = make(map[string]int)
	s.Busted = r.engine.Busted()
	for _, p := range r.engine.Players() {
		switch {
		case p.Status == game.StatusBusted:
			s.Busted = append(s.Busted, p.ID)
		case r.left[p.ID]:
			if s.CashedOut == nil {
				s.CashedOut = make(map[string]int)
			}
			s.CashedOut[p.ID] = p.Stack
		default:
			s.Stacks[p.ID] = p.Stack
		}
	}
	r.publish(true)
	return s
}

func (r *Runner) shutdown() {
	r.endTurn()
	if r.revealTimer != nil {
		r.revealTimer.Stop()
	}
	close(r.done)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for _, ch := range r.subscribers {
		close(ch)
	}
	r.subscribers = nil
}
