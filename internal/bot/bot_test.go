package bot

import (
	"testing"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/internal/table"
	"github.com/lox/holdem/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKnowsEveryStrategy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"aggressive", "calling-station", "chart", "folder", "maniac", "random"}, Strategies())
	for _, name := range Strategies() {
		agent, err := New(name, randutil.New(1))
		require.NoError(t, err, name)
		assert.NotNil(t, agent)
	}

	_, err := New("gto-wizard", randutil.New(1))
	assert.ErrorContains(t, err, "unknown strategy")
}

func TestStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hole  string
		board string
		want  HandStrength
	}{
		{"AsAh", "", VeryStrong},
		{"TdTc", "", Strong},
		{"8h8d", "", Medium},
		{"5h5d", "", Weak},
		{"7s2h", "", VeryWeak},
		{"AhKh", "QhJhTh", VeryStrong},
		{"KsKd", "Kh7c2d", Strong},
		{"AsQd", "Ah7c2d", Medium},
		{"QsQd", "9h7c2d", Medium},
		{"9s8d", "Ah9c2d", Weak},
		{"7s6d", "AhAdKc", Weak},
		{"7s2d", "AhKd9c", VeryWeak},
	}

	for _, tt := range tests {
		t.Run(tt.hole+"/"+tt.board, func(t *testing.T) {
			var board []poker.Card
			if tt.board != "" {
				board = poker.MustParseCards(tt.board)
			}
			assert.Equal(t, tt.want, Strength(poker.MustParseCards(tt.hole), board))
		})
	}
}

func TestTexture(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DryBoard, Texture(nil))
	assert.Equal(t, DryBoard, Texture(poker.MustParseCards("Kh7d2c")))
	assert.Equal(t, SemiWetBoard, Texture(poker.MustParseCards("AhKd4h")))
	assert.Equal(t, WetBoard, Texture(poker.MustParseCards("9hThJh")))
	assert.Equal(t, VeryWetBoard, Texture(poker.MustParseCards("9h9dThJh")))
}

func TestFolder(t *testing.T) {
	t.Parallel()

	f := NewFolder()
	assert.Equal(t, game.Check, f.MakeDecision(game.Snapshot{}, game.Legal{Actions: []game.Action{game.Fold, game.Check, game.Raise}}).Action)
	assert.Equal(t, game.Fold, f.MakeDecision(game.Snapshot{}, game.Legal{Actions: []game.Action{game.Fold, game.Call}}).Action)
}

func TestCallingStationShovesShort(t *testing.T) {
	t.Parallel()

	view := game.Snapshot{
		Phase:              game.Preflop,
		CurrentBet:         10,
		Blinds:             game.Blinds{Small: 5, Big: 10},
		CurrentPlayerIndex: 0,
		Players:            []game.PlayerState{{ID: "me", Stack: 60}},
	}
	legal := game.Legal{Actions: []game.Action{game.Fold, game.Call, game.Raise, game.AllIn}, ToCall: 10, MinRaise: 20, MaxRaise: 60}

	c := NewCallingStation()
	assert.Equal(t, game.AllIn, c.MakeDecision(view, legal).Action)

	view.Players[0].Stack = 500
	assert.Equal(t, game.Call, c.MakeDecision(view, legal).Action)
}

// Every strategy must only ever produce legal decisions, whatever the spot.
// Each hand starts from fresh stacks on a new engine, rotating the seats so
// every stack depth sees every position.
func TestDecisionsAreAlwaysLegal(t *testing.T) {
	t.Parallel()

	rng := randutil.New(5)
	deal := randutil.New(6)
	agents := make([]table.Agent, 0, len(Strategies()))
	for i, name := range Strategies() {
		a, err := New(name, randutil.New(int64(100+i)))
		require.NoError(t, err)
		agents = append(agents, a)
	}
	stacks := []int{400, 150, 1000, 90}
	ids := []string{"a", "b", "c", "d"}

	decisions := 0
	raises := make(map[string]int)
	for hand := range 200 {
		seats := make([]game.Seat, len(ids))
		for i, id := range ids {
			seats[i] = game.Seat{ID: id, Stack: stacks[(i+hand)%len(stacks)]}
		}
		e := game.NewEngine(game.WithRNG(deal))
		require.NoError(t, e.InitializeHand(seats, game.Blinds{Small: 5, Big: 10}), "hand %d", hand)

	play:
		for {
			switch e.Pending() {
			case game.AwaitAction:
				id, ok := e.CurrentPlayer()
				require.True(t, ok)
				legal, err := e.Legal(id)
				require.NoError(t, err)
				view := e.ViewFor(id)

				chosen := table.Decision{Action: game.Fold}
				pick := rng.IntN(len(agents))
				for i, a := range agents {
					name := Strategies()[i]
					d := a.MakeDecision(view, legal)
					require.True(t, legal.Can(d.Action), "%s chose %s from %v", name, d.Action, legal.Actions)
					switch d.Action {
					case game.Raise:
						assert.GreaterOrEqual(t, d.Amount, legal.MinRaise, name)
						assert.LessOrEqual(t, d.Amount, legal.MaxRaise, name)
						raises[name]++
					case game.AllIn:
						raises[name]++
					}
					if i == pick {
						chosen = d
					}
				}
				require.NoError(t, e.ProcessAction(id, chosen.Action, chosen.Amount))
				decisions++
			case game.AdvanceDue:
				require.NoError(t, e.AdvanceStreet())
			case game.SettleDue:
				_, err := e.Settle()
				require.NoError(t, err)
				break play
			default:
				t.Fatalf("hand %d stuck in %s", hand, e.Phase())
			}
		}
	}

	assert.Greater(t, decisions, 100)
	for _, name := range []string{StrategyAggressive, StrategyManiac, StrategyRandom} {
		assert.Positive(t, raises[name], "%s never raised", name)
	}
}
