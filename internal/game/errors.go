package game

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching. Each typed error below unwraps to one of these.
var (
	ErrInvalidAction = errors.New("invalid action")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidPhase  = errors.New("invalid phase")
	ErrNotFound      = errors.New("player not found")
)

// InvalidActionError is returned when an action is not allowed for the player
// right now: out of turn, folded, all-in, checking into a bet, or raising when
// action was not reopened.
type InvalidActionError struct {
	PlayerID string
	Action   Action
	Phase    Phase
	Reason   string
}

func (e *InvalidActionError) Error() string {
	if e.PlayerID == "" {
		return fmt.Sprintf("invalid action %s during %s: %s", e.Action, e.Phase, e.Reason)
	}
	return fmt.Sprintf("invalid action %s by %s during %s: %s", e.Action, e.PlayerID, e.Phase, e.Reason)
}

func (e *InvalidActionError) Unwrap() error { return ErrInvalidAction }

// InvalidAmountError is returned for wager amounts outside the legal range.
// Min and Max describe the range that would have been accepted.
type InvalidAmountError struct {
	PlayerID string
	Action   Action
	Phase    Phase
	Amount   int
	Min      int
	Max      int
	Reason   string
}

func (e *InvalidAmountError) Error() string {
	if e.Max > 0 {
		return fmt.Sprintf("invalid amount %d (allowed %d-%d): %s", e.Amount, e.Min, e.Max, e.Reason)
	}
	return fmt.Sprintf("invalid amount %d: %s", e.Amount, e.Reason)
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }

// InvalidPhaseError is returned when an operation is called in the wrong phase
type InvalidPhaseError struct {
	Op     string
	Phase  Phase
	Reason string
}

func (e *InvalidPhaseError) Error() string {
	return fmt.Sprintf("cannot %s during %s: %s", e.Op, e.Phase, e.Reason)
}

func (e *InvalidPhaseError) Unwrap() error { return ErrInvalidPhase }

// NotFoundError is returned for an unknown player id
type NotFoundError struct {
	PlayerID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("player %q not found", e.PlayerID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// annotate fills in the phase and player on errors raised by the betting manager,
// which knows neither.
func annotate(err error, phase Phase, playerID string) error {
	var actionErr *InvalidActionError
	if errors.As(err, &actionErr) {
		actionErr.Phase = phase
		actionErr.PlayerID = playerID
	}
	var amountErr *InvalidAmountError
	if errors.As(err, &amountErr) {
		amountErr.Phase = phase
		amountErr.PlayerID = playerID
	}
	return err
}
