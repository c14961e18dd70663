// Package bot provides table agents for simulations and tests
package bot

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/table"
	"github.com/lox/holdem/poker"
)

// Strategy names accepted by New
const (
	StrategyFolder         = "folder"
	StrategyCallingStation = "calling-station"
	StrategyRandom         = "random"
	StrategyAggressive     = "aggressive"
	StrategyManiac         = "maniac"
	StrategyChart          = "chart"
)

var registry = map[string]func(rng *rand.Rand) table.Agent{
	StrategyFolder:         func(*rand.Rand) table.Agent { return NewFolder() },
	StrategyCallingStation: func(*rand.Rand) table.Agent { return NewCallingStation() },
	StrategyRandom:         func(rng *rand.Rand) table.Agent { return NewRandom(rng) },
	StrategyAggressive:     func(rng *rand.Rand) table.Agent { return NewAggressive(rng) },
	StrategyManiac:         func(rng *rand.Rand) table.Agent { return NewManiac(rng) },
	StrategyChart:          func(*rand.Rand) table.Agent { return NewChart() },
}

// New creates an agent for the named strategy. Strategies that randomize
// draw from rng, which must not be shared across goroutines.
func New(strategy string, rng *rand.Rand) (table.Agent, error) {
	build, ok := registry[strategy]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
	return build(rng), nil
}

// Strategies lists the known strategy names in order
func Strategies() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// HandStrength represents the relative strength of a hand
type HandStrength int

const (
	VeryWeak HandStrength = iota
	Weak
	Medium
	Strong
	VeryStrong
)

func (hs HandStrength) String() string {
	switch hs {
	case VeryWeak:
		return "Very Weak"
	case Weak:
		return "Weak"
	case Medium:
		return "Medium"
	case Strong:
		return "Strong"
	case VeryStrong:
		return "Very Strong"
	default:
		return "Unknown"
	}
}

// Strength rates hole cards against the board. Preflop it follows the hole
// card category; afterwards the made hand, discounted when the board alone
// makes the same category.
func Strength(hole, board []poker.Card) HandStrength {
	if len(board) == 0 {
		switch poker.CategorizeHole(hole) {
		case poker.CategoryPremium:
			return VeryStrong
		case poker.CategoryStrong:
			return Strong
		case poker.CategoryMedium:
			return Medium
		case poker.CategoryWeak:
			return Weak
		default:
			return VeryWeak
		}
	}

	made := poker.Evaluate(hole, board)
	if made.Category > poker.HighCard && poker.EvaluateCards(board).Category == made.Category {
		return Weak
	}

	switch {
	case made.Category >= poker.Straight:
		return VeryStrong
	case made.Category >= poker.TwoPair:
		return Strong
	case made.Category == poker.OnePair:
		top := slices.MaxFunc(board, func(a, b poker.Card) int { return int(a.Rank) - int(b.Rank) })
		if made.Kickers[0] >= int(top.Rank) {
			return Medium
		}
		return Weak
	}
	return VeryWeak
}

// BoardTexture represents how coordinated the board is
type BoardTexture int

const (
	DryBoard BoardTexture = iota
	SemiWetBoard
	WetBoard
	VeryWetBoard
)

func (bt BoardTexture) String() string {
	switch bt {
	case DryBoard:
		return "dry"
	case SemiWetBoard:
		return "semi-wet"
	case WetBoard:
		return "wet"
	default:
		return "very wet"
	}
}

// Texture scores how many draws the board allows
func Texture(board []poker.Card) BoardTexture {
	if len(board) < 3 {
		return DryBoard
	}

	wetness := 0

	suits := make(map[poker.Suit]int)
	ranks := make(map[poker.Rank]int)
	for _, c := range board {
		suits[c.Suit]++
		ranks[c.Rank]++
	}
	maxSuit := 0
	for _, n := range suits {
		maxSuit = max(maxSuit, n)
	}
	switch {
	case maxSuit >= 3:
		wetness += 2
	case maxSuit == 2:
		wetness++
	}

	sorted := make([]int, 0, len(board))
	for _, c := range board {
		sorted = append(sorted, int(c.Rank))
	}
	slices.Sort(sorted)
	connected := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] <= 2 {
			connected++
		}
	}
	if connected >= 3 {
		wetness += 2
	}

	for _, n := range ranks {
		if n >= 2 {
			wetness++
			break
		}
	}

	switch {
	case wetness >= 5:
		return VeryWetBoard
	case wetness >= 3:
		return WetBoard
	case wetness >= 1:
		return SemiWetBoard
	default:
		return DryBoard
	}
}

// seat returns the acting player's state from a view
func seat(view game.Snapshot) game.PlayerState {
	if view.CurrentPlayerIndex < 0 || view.CurrentPlayerIndex >= len(view.Players) {
		return game.PlayerState{}
	}
	return view.Players[view.CurrentPlayerIndex]
}

// potOdds is the pot size relative to the price of a call; zero when there
// is nothing to call.
func potOdds(view game.Snapshot, legal game.Legal) float64 {
	if legal.ToCall == 0 {
		return 0
	}
	return float64(view.Pot) / float64(legal.ToCall)
}

// raiseSize picks a raise increment: about 2.5 big blinds to open preflop,
// 60% of the pot afterwards, clamped to the legal range.
func raiseSize(view game.Snapshot, legal game.Legal, factor float64) int {
	me := seat(view)

	var target int
	if view.Phase == game.Preflop {
		target = max(int(float64(view.Blinds.Big)*2.5*factor), view.CurrentBet*3) - me.Bet
	} else {
		target = view.CurrentBet - me.Bet + int(float64(view.Pot)*0.6*factor)
	}
	return min(max(target, legal.MinRaise), legal.MaxRaise)
}

// prefer returns the first of the wanted actions that is legal, falling back
// to check or fold.
func prefer(legal game.Legal, reasoning string, wanted ...game.Action) table.Decision {
	for _, a := range wanted {
		if legal.Can(a) {
			return table.Decision{Action: a, Reasoning: reasoning}
		}
	}
	if legal.Can(game.Check) {
		return table.Decision{Action: game.Check, Reasoning: "fallback: " + reasoning}
	}
	return table.Decision{Action: game.Fold, Reasoning: "fallback: " + reasoning}
}
