package table

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var caller = AgentFunc(func(_ game.Snapshot, legal game.Legal) Decision {
	if legal.Can(game.Check) {
		return Decision{Action: game.Check}
	}
	return Decision{Action: game.Call}
})

var folder = AgentFunc(func(_ game.Snapshot, legal game.Legal) Decision {
	if legal.Can(game.Check) {
		return Decision{Action: game.Check}
	}
	return Decision{Action: game.Fold}
})

var shover = AgentFunc(func(_ game.Snapshot, legal game.Legal) Decision {
	if legal.Can(game.AllIn) {
		return Decision{Action: game.AllIn}
	}
	return Decision{Action: game.Call}
})

func seats(agents ...Agent) []Seat {
	out := make([]Seat, len(agents))
	for i, a := range agents {
		out[i] = Seat{ID: "p" + string(rune('0'+i)), Stack: 1000, Agent: a}
	}
	return out
}

func testConfig(t *testing.T, agents ...Agent) Config {
	t.Helper()
	return Config{
		Name:          t.Name(),
		Blinds:        game.Blinds{Small: 5, Big: 10},
		Seats:         seats(agents...),
		Clock:         quartz.NewMock(t),
		EngineOptions: []game.Option{game.WithRNG(randutil.New(11))},
	}
}

type result struct {
	summary Summary
	err     error
}

func start(ctx context.Context, r *Runner) <-chan result {
	ch := make(chan result, 1)
	go func() {
		s, err := r.Run(ctx)
		ch <- result{s, err}
	}()
	return ch
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNewValidatesSeats(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Seats: seats(caller)})
	assert.ErrorContains(t, err, "at least two seats")

	dup := seats(caller, caller)
	dup[1].ID = dup[0].ID
	_, err = New(Config{Seats: dup})
	assert.ErrorContains(t, err, "twice")

	broke := seats(caller, caller)
	broke[0].Stack = 0
	_, err = New(Config{Seats: broke})
	assert.ErrorContains(t, err, "must start with chips")
}

func TestRunPlaysToHandLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, caller, caller, caller)
	cfg.MaxHands = 5
	var results []HandResult
	cfg.OnHand = func(h HandResult) { results = append(results, h) }
	r, err := New(cfg)
	require.NoError(t, err)

	summary, err := r.Run(testContext(t))
	require.NoError(t, err)

	require.Len(t, results, 5)
	for i, h := range results {
		assert.Equal(t, i+1, h.Number)
		assert.Len(t, h.Net, 3)
		assert.NotEmpty(t, h.Actions)
		order := h.Order()
		require.Len(t, order, 3)
		assert.Equal(t, h.SmallBlind, order[0], "small blind sits left of the dealer")
		assert.Equal(t, h.BigBlind, order[1])
		sum := 0
		for _, chips := range h.Net {
			sum += chips
		}
		assert.Zero(t, sum, "hand %d moves chips between players only", h.Number)
	}
	assert.Equal(t, 5, summary.Hands)
	assert.Equal(t, 5, summary.Showdowns, "nobody ever folds")
	assert.Equal(t, 3000, summary.StartChips)
	assert.Equal(t, 3000, summary.EndChips())
	assert.Len(t, summary.Stacks, 3)
	assert.Positive(t, summary.BiggestPot)
}

func TestRunStopsWithOnePlayerLeft(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, shover, shover, shover)
	cfg.MaxHands = 1000
	r, err := New(cfg)
	require.NoError(t, err)

	summary, err := r.Run(testContext(t))
	require.NoError(t, err)
	assert.Less(t, summary.Hands, 1000)
	require.Len(t, summary.Stacks, 1)
	assert.Len(t, summary.Busted, 2)
	assert.Equal(t, 3000, summary.EndChips())
}

func TestRevealDelayWaitsOnClock(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)
	clock := quartz.NewMock(t)
	cfg := testConfig(t, folder, folder)
	cfg.Clock = clock
	cfg.MaxHands = 2
	cfg.RevealDelay = 3 * time.Second

	r, err := New(cfg)
	require.NoError(t, err)
	updates := r.Subscribe(16)
	done := start(ctx, r)

	first := <-updates
	assert.Equal(t, game.Showdown, first.Full.Phase)
	assert.Equal(t, 1, first.Full.HandNumber)
	require.NotNil(t, first.Full.Settlement)
	assert.Equal(t, map[string]int{"p1": 15}, first.Full.Settlement.Payouts)

	state, err := r.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, state.HandNumber, "next hand waits for the reveal delay")

	clock.Advance(3 * time.Second).MustWait(ctx)

	second := <-updates
	assert.Equal(t, 2, second.Full.HandNumber)
	assert.Equal(t, game.Showdown, second.Full.Phase)

	last := <-updates
	assert.True(t, last.Done)
	_, open := <-updates
	assert.False(t, open)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, 2, res.summary.Hands)
	assert.Equal(t, map[string]int{"p0": 1000, "p1": 1000}, res.summary.Stacks)
	assert.Equal(t, map[string]int{"p0": 1, "p1": 1}, res.summary.Wins)
}

func TestExternalSeatActs(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)
	cfg := testConfig(t, nil, caller, caller)
	cfg.MaxHands = 1
	r, err := New(cfg)
	require.NoError(t, err)
	updates := r.Subscribe(16)
	done := start(ctx, r)

	turns := 0
	for u := range updates {
		if u.Done {
			break
		}
		if !u.Full.Phase.IsBetting() || u.Full.CurrentPlayerIndex != 0 {
			continue
		}
		view := u.Views["p0"]
		assert.Len(t, view.Players[0].Cards, 2)
		assert.Empty(t, view.Players[1].Cards)
		assert.Len(t, u.Full.Players[1].Cards, 2)

		if turns == 0 {
			require.ErrorIs(t, r.Act(ctx, "p1", game.Call, 0), game.ErrInvalidAction)
		}
		turns++
		require.NoError(t, r.Act(ctx, "p0", game.Call, 0))
	}
	assert.Equal(t, 4, turns, "one decision per street")

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.summary.Hands)
	assert.Equal(t, 1, res.summary.Showdowns)
	assert.Equal(t, 3000, res.summary.EndChips())

	assert.ErrorIs(t, r.Act(ctx, "p0", game.Fold, 0), ErrClosed)
}

func TestActTimeoutFoldsSeat(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)
	clock := quartz.NewMock(t)
	cfg := testConfig(t, nil, caller)
	cfg.Clock = clock
	cfg.MaxHands = 1
	cfg.ActTimeout = 10 * time.Second
	r, err := New(cfg)
	require.NoError(t, err)
	updates := r.Subscribe(16)
	done := start(ctx, r)

	first := <-updates
	assert.Equal(t, 0, first.Full.CurrentPlayerIndex)

	clock.Advance(10 * time.Second).MustWait(ctx)

	settled := <-updates
	require.NotNil(t, settled.Full.LastAction)
	assert.True(t, settled.Full.LastAction.Forced)
	assert.Equal(t, "p0", settled.Full.LastAction.PlayerID)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, map[string]int{"p0": 995, "p1": 1005}, res.summary.Stacks)
}

func TestLeaveFoldsAndCashesOut(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)
	cfg := testConfig(t, nil, caller, caller)
	cfg.MaxHands = 3
	r, err := New(cfg)
	require.NoError(t, err)
	updates := r.Subscribe(64)
	done := start(ctx, r)

	first := <-updates
	assert.Equal(t, 0, first.Full.CurrentPlayerIndex)

	require.ErrorIs(t, r.Leave(ctx, "ghost"), game.ErrNotFound)
	require.NoError(t, r.Leave(ctx, "p0"))

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, 3, res.summary.Hands)
	assert.Equal(t, map[string]int{"p0": 1000}, res.summary.CashedOut, "the dealer left before posting anything")
	assert.NotContains(t, res.summary.Stacks, "p0")
	assert.Equal(t, 3000, res.summary.EndChips())
}

func TestIllegalDecisionFallsBack(t *testing.T) {
	t.Parallel()

	bad := AgentFunc(func(game.Snapshot, game.Legal) Decision {
		return Decision{Action: game.Raise, Amount: 1}
	})
	cfg := testConfig(t, bad, caller)
	cfg.MaxHands = 1
	r, err := New(cfg)
	require.NoError(t, err)

	summary, err := r.Run(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p0": 995, "p1": 1005}, summary.Stacks, "facing the big blind the fallback is a fold")
}

func TestRunHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(testContext(t))
	r, err := New(testConfig(t, nil, caller))
	require.NoError(t, err)
	updates := r.Subscribe(4)
	done := start(ctx, r)

	<-updates
	cancel()

	res := <-done
	require.ErrorIs(t, res.err, context.Canceled)
	assert.Equal(t, 0, res.summary.Hands)
	assert.Equal(t, 2000-15, res.summary.EndChips(), "blinds still in the pot")
}
