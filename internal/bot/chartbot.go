package bot

import (
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/table"
	"github.com/lox/holdem/poker"
)

// Chart plays a push-fold chart preflop when short and check/calls otherwise.
// Deep-stacked it folds preflop to any raise above the big blind.
type Chart struct{}

// NewChart creates a Chart bot
func NewChart() *Chart {
	return &Chart{}
}

func (c *Chart) MakeDecision(view game.Snapshot, legal game.Legal) table.Decision {
	me := seat(view)
	if view.Phase != game.Preflop {
		return prefer(legal, "chart post-flop", game.Check, game.Call)
	}

	category := poker.CategorizeHole(me.Cards)
	short := me.Stack+me.Bet <= 20*view.Blinds.Big
	if short && category.Strength() >= poker.CategoryStrong.Strength() {
		return prefer(legal, "chart push", game.AllIn, game.Call)
	}
	if view.CurrentBet > view.Blinds.Big && category.Strength() < poker.CategoryMedium.Strength() {
		return prefer(legal, "chart fold to raise", game.Check, game.Fold)
	}
	return prefer(legal, "chart limp", game.Check, game.Call)
}
