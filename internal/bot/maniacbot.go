package bot

import (
	"math/rand/v2"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/table"
)

// Maniac bets and shoves far more often than it should
type Maniac struct {
	rng *rand.Rand
}

// NewManiac creates a Maniac drawing from rng
func NewManiac(rng *rand.Rand) *Maniac {
	return &Maniac{rng: rng}
}

func (m *Maniac) MakeDecision(view game.Snapshot, legal game.Legal) table.Decision {
	me := seat(view)

	if legal.Can(game.Check) {
		if m.rng.Float64() >= 0.85 {
			return table.Decision{Action: game.Check, Reasoning: "maniac checking"}
		}
		if me.Stack <= 20*view.Blinds.Big || m.rng.Float64() < 0.3 {
			return prefer(legal, "maniac shove", game.AllIn, game.Check)
		}
		if legal.Can(game.Raise) {
			amount := legal.MinRaise + (legal.MaxRaise-legal.MinRaise)*3/4
			return table.Decision{Action: game.Raise, Amount: amount, Reasoning: "maniac big raise"}
		}
		return table.Decision{Action: game.Check, Reasoning: "maniac checking"}
	}

	// Facing a bet: shove 40%, call 40%, fold the rest.
	switch roll := m.rng.Float64(); {
	case roll < 0.4 && legal.Can(game.AllIn):
		return table.Decision{Action: game.AllIn, Reasoning: "maniac shove over bet"}
	case roll < 0.8:
		return prefer(legal, "maniac call", game.Call)
	}
	return table.Decision{Action: game.Fold, Reasoning: "maniac fold"}
}
