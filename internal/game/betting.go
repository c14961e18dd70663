package game

import (
	"fmt"
	"strings"
)

// Phase is the stage of a hand
type Phase int

const (
	Waiting Phase = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

var phaseNames = [...]string{"waiting", "preflop", "flop", "turn", "river", "showdown"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// IsBetting reports whether players act during this phase
func (p Phase) IsBetting() bool {
	return p >= Preflop && p <= River
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

var actionNames = [...]string{"fold", "check", "call", "raise", "allin"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// MarshalText implements encoding.TextMarshaler
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ParseAction parses an action name, accepting "all-in" and "bet" as aliases.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise", "bet":
		return Raise, nil
	case "allin", "all-in", "all_in":
		return AllIn, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Legal describes what a player may do. Raise amounts are increments above
// the player's current bet, matching ProcessAction.
type Legal struct {
	Actions []Action
	// ToCall is the chips needed to call, capped at the stack
	ToCall   int
	MinRaise int
	MaxRaise int
}

// Can reports whether the action is in the legal set
func (l Legal) Can(a Action) bool {
	for _, la := range l.Actions {
		if la == a {
			return true
		}
	}
	return false
}

// Outcome summarizes the chip effect of an applied action
type Outcome struct {
	Paid int
	// Reopened is set by a full raise; everyone else must act again
	Reopened bool
	AllIn    bool
}

// BettingManager tracks the wagering state of a single street and validates
// actions against it. It holds no reference to players; the engine passes
// the acting player in.
type BettingManager struct {
	pot        int
	currentBet int
	minRaise   int
	bigBlind   int
}

// NewBettingManager creates a betting manager for a hand with the given big blind
func NewBettingManager(bigBlind int) *BettingManager {
	return &BettingManager{
		minRaise: bigBlind,
		bigBlind: bigBlind,
	}
}

// Pot is every chip wagered this hand, including bets still in front of players
func (b *BettingManager) Pot() int { return b.pot }

// CurrentBet is the amount each player must have in front of them to stay in
func (b *BettingManager) CurrentBet() int { return b.currentBet }

// MinRaise is the minimum raise increment above CurrentBet
func (b *BettingManager) MinRaise() int { return b.minRaise }

// NewStreet clears the street's wager level
func (b *BettingManager) NewStreet() {
	b.currentBet = 0
	b.minRaise = b.bigBlind
}

// PostBlind posts a forced bet of up to amount and returns what was posted.
// A blind that covers the stack puts the player all-in.
func (b *BettingManager) PostBlind(p *Player, amount int) int {
	posted := min(amount, p.Stack)
	p.pay(posted)
	b.pot += posted
	return posted
}

// OpenAt sets the street's bet level after blinds; short blinds do not lower it
func (b *BettingManager) OpenAt(level int) {
	b.currentBet = max(b.currentBet, level)
}

// Legal returns the player's legal actions and amounts
func (b *BettingManager) Legal(p *Player) Legal {
	if !p.CanAct() || p.Stack == 0 {
		return Legal{}
	}

	owed := max(b.currentBet-p.Bet, 0)
	l := Legal{
		Actions: []Action{Fold},
		ToCall:  min(owed, p.Stack),
	}

	if owed == 0 {
		l.Actions = append(l.Actions, Check)
	} else {
		l.Actions = append(l.Actions, Call)
	}

	// Once action has come back to a player without a full raise, they may
	// only call or fold.
	canRaise := !p.HasActed || owed == 0
	if canRaise && p.Stack > owed {
		l.Actions = append(l.Actions, Raise)
		l.MinRaise = min(b.currentBet+b.minRaise-p.Bet, p.Stack)
		l.MaxRaise = p.Stack
	}
	if canRaise || p.Stack <= owed {
		l.Actions = append(l.Actions, AllIn)
	}
	return l
}

// Apply validates and applies an action. On error nothing is changed.
func (b *BettingManager) Apply(p *Player, action Action, amount int) (Outcome, error) {
	switch p.Status {
	case StatusFolded:
		return Outcome{}, &InvalidActionError{Action: action, Reason: "player has folded"}
	case StatusAllIn:
		return Outcome{}, &InvalidActionError{Action: action, Reason: "player is all-in"}
	case StatusBusted:
		return Outcome{}, &InvalidActionError{Action: action, Reason: "player is busted"}
	}

	switch action {
	case Fold:
		p.Status = StatusFolded
		return Outcome{}, nil

	case Check:
		if p.Bet < b.currentBet {
			return Outcome{}, &InvalidActionError{
				Action: action,
				Reason: fmt.Sprintf("cannot check facing a bet, %d to call", b.currentBet-p.Bet),
			}
		}
		return Outcome{}, nil

	case Call:
		return b.call(p), nil

	case Raise:
		return b.raise(p, action, amount)

	case AllIn:
		if p.Bet+p.Stack <= b.currentBet {
			return b.call(p), nil
		}
		return b.raise(p, action, p.Stack)
	}

	return Outcome{}, &InvalidActionError{Action: action, Reason: "unknown action"}
}

// call matches the current bet, or as much of it as the stack covers. With
// nothing owed it is a check.
func (b *BettingManager) call(p *Player) Outcome {
	owed := max(b.currentBet-p.Bet, 0)
	paid := min(owed, p.Stack)
	p.pay(paid)
	b.pot += paid
	return Outcome{Paid: paid, AllIn: p.Status == StatusAllIn}
}

func (b *BettingManager) raise(p *Player, action Action, amount int) (Outcome, error) {
	minAmount := min(b.currentBet+b.minRaise-p.Bet, p.Stack)
	amountErr := func(reason string) error {
		return &InvalidAmountError{
			Action: action,
			Amount: amount,
			Min:    minAmount,
			Max:    p.Stack,
			Reason: reason,
		}
	}

	if amount <= 0 {
		return Outcome{}, amountErr("raise must be positive")
	}
	if amount > p.Stack {
		return Outcome{}, amountErr("raise exceeds stack")
	}

	total := p.Bet + amount
	allIn := amount == p.Stack

	if total <= b.currentBet {
		if allIn {
			// All-in for no more than the current bet is a short call.
			return b.call(p), nil
		}
		return Outcome{}, amountErr("raise must exceed the current bet")
	}

	if p.HasActed && b.currentBet > p.Bet {
		return Outcome{}, &InvalidActionError{
			Action: action,
			Reason: "action was not reopened, only call or fold",
		}
	}

	full := total >= b.currentBet+b.minRaise
	if !full && !allIn {
		return Outcome{}, amountErr(fmt.Sprintf("raise below minimum of %d", minAmount))
	}

	p.pay(amount)
	b.pot += amount

	if full {
		b.minRaise = total - b.currentBet
	}
	b.currentBet = total

	return Outcome{Paid: amount, Reopened: full, AllIn: p.Status == StatusAllIn}, nil
}
