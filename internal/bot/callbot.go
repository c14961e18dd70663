package bot

import (
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/table"
)

// CallingStation checks and calls down every hand. With fewer than ten big
// blinds it shoves into an unraised pot instead.
type CallingStation struct{}

// NewCallingStation creates a CallingStation
func NewCallingStation() *CallingStation {
	return &CallingStation{}
}

func (c *CallingStation) MakeDecision(view game.Snapshot, legal game.Legal) table.Decision {
	me := seat(view)
	unraised := view.CurrentBet <= view.Blinds.Big
	if view.Phase != game.Preflop {
		unraised = view.CurrentBet == 0
	}
	if me.Stack < 10*view.Blinds.Big && unraised && legal.Can(game.AllIn) {
		return table.Decision{Action: game.AllIn, Reasoning: "shoving with short stack"}
	}
	return prefer(legal, "calling station", game.Check, game.Call)
}
