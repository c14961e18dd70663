package bot

import (
	"math/rand/v2"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/table"
)

// Aggressive is a tight-aggressive bot: it raises strong hands, calls
// medium ones at a fair price and gives up on the rest.
type Aggressive struct {
	rng *rand.Rand
}

// NewAggressive creates an Aggressive bot drawing from rng
func NewAggressive(rng *rand.Rand) *Aggressive {
	return &Aggressive{rng: rng}
}

func (a *Aggressive) MakeDecision(view game.Snapshot, legal game.Legal) table.Decision {
	me := seat(view)
	strength := Strength(me.Cards, view.CommunityCards)
	texture := Texture(view.CommunityCards)
	odds := potOdds(view, legal)

	switch strength {
	case VeryStrong:
		if legal.Can(game.Raise) {
			return table.Decision{Action: game.Raise, Amount: raiseSize(view, legal, 1.2), Reasoning: "value raise, " + strength.String()}
		}
		return prefer(legal, "value, raise not available", game.AllIn, game.Call, game.Check)

	case Strong:
		if legal.Can(game.Raise) && (legal.ToCall == 0 || a.rng.Float64() < 0.5) {
			return table.Decision{Action: game.Raise, Amount: raiseSize(view, legal, 1), Reasoning: "raise strong hand"}
		}
		return prefer(legal, "call strong hand", game.Check, game.Call)

	case Medium:
		// Wet boards make medium hands worse; demand a better price.
		need := 3.0
		if texture >= WetBoard {
			need = 4.0
		}
		if legal.ToCall == 0 || odds >= need {
			return prefer(legal, "medium hand at a fair price", game.Check, game.Call)
		}
		return prefer(legal, "medium hand, price too high", game.Check, game.Fold)

	case Weak:
		if legal.ToCall > 0 && legal.ToCall <= view.Blinds.Big && view.Phase == game.Preflop {
			return prefer(legal, "cheap look", game.Call)
		}
	}
	return prefer(legal, "give up", game.Check, game.Fold)
}
