package game

import (
	"fmt"
	"testing"

	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/poker"
	"github.com/stretchr/testify/require"
)

// seatsWith seats players p0, p1, ... with the given stacks
func seatsWith(stacks ...int) []Seat {
	seats := make([]Seat, len(stacks))
	for i, s := range stacks {
		seats[i] = Seat{ID: fmt.Sprintf("p%d", i), Stack: s}
	}
	return seats
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("hand-%d", n)
	}
}

func newTestEngine(opts ...Option) *Engine {
	base := []Option{WithRNG(randutil.New(1)), WithHandIDs(sequentialIDs())}
	return NewEngine(append(base, opts...)...)
}

// scriptedDeck stacks a deck so that seat i receives holes[i] and the board
// comes out as given, with the dealer at seat dealer.
func scriptedDeck(t *testing.T, dealer int, holes []string, board string) *poker.Deck {
	t.Helper()

	n := len(holes)
	used := make(map[poker.Card]bool)
	hole := make([][]poker.Card, n)
	for i, h := range holes {
		hole[i] = poker.MustParseCards(h)
		require.Len(t, hole[i], 2)
		for _, c := range hole[i] {
			used[c] = true
		}
	}
	boardCards := poker.MustParseCards(board)
	require.Len(t, boardCards, 5)
	for _, c := range boardCards {
		used[c] = true
	}

	var burns []poker.Card
	for rank := poker.Two; rank <= poker.Ace && len(burns) < 3; rank++ {
		c := poker.NewCard(rank, poker.Clubs)
		if !used[c] {
			burns = append(burns, c)
		}
	}
	require.Len(t, burns, 3)

	var order []poker.Card
	for pass := 0; pass < 2; pass++ {
		for i := 1; i <= n; i++ {
			order = append(order, hole[(dealer+i)%n][pass])
		}
	}
	order = append(order, burns[0])
	order = append(order, boardCards[:3]...)
	order = append(order, burns[1], boardCards[3], burns[2], boardCards[4])
	return poker.Stacked(order...)
}

func act(t *testing.T, e *Engine, id string, action Action, amount int) {
	t.Helper()
	require.NoError(t, e.ProcessAction(id, action, amount), "%s %s %d", id, action, amount)
}

// checkDown checks every remaining street and stops when settlement is due
func checkDown(t *testing.T, e *Engine) {
	t.Helper()
	for i := 0; i < 100; i++ {
		switch e.Pending() {
		case AwaitAction:
			id, ok := e.CurrentPlayer()
			require.True(t, ok)
			act(t, e, id, Check, 0)
		case AdvanceDue:
			require.NoError(t, e.AdvanceStreet())
		default:
			return
		}
	}
	t.Fatal("hand did not reach settlement")
}

func stackOf(t *testing.T, e *Engine, id string) int {
	t.Helper()
	p, ok := e.Player(id)
	require.True(t, ok, "no player %s", id)
	return p.Stack
}
