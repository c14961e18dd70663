package bot

import (
	"math/rand/v2"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/table"
)

// Random picks uniformly among the legal actions
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a Random bot drawing from rng
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) MakeDecision(_ game.Snapshot, legal game.Legal) table.Decision {
	if len(legal.Actions) == 0 {
		return table.Decision{Action: game.Fold, Reasoning: "random: no legal actions"}
	}

	action := legal.Actions[r.rng.IntN(len(legal.Actions))]
	amount := 0
	if action == game.Raise {
		amount = legal.MinRaise + r.rng.IntN(legal.MaxRaise-legal.MinRaise+1)
	}
	return table.Decision{Action: action, Amount: amount, Reasoning: "random action"}
}
