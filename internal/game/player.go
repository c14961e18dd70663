package game

import (
	"fmt"

	"github.com/lox/holdem/poker"
)

// Status is a player's lifecycle state within a hand
type Status uint8

const (
	StatusActive Status = iota
	StatusFolded
	StatusAllIn
	StatusBusted
)

var statusNames = [...]string{"active", "folded", "allin", "busted"}

func (s Status) String() string {
	if int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", s)
	}
	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Player is the engine's authoritative record of one seat
type Player struct {
	ID     string
	Name   string
	Stack  int
	Bet    int // Wagered on the current street
	Status Status
	Cards  []poker.Card

	// Contributed is the total wagered this hand across all streets
	Contributed int
	HasActed    bool
	IsHost      bool
}

// InHand reports whether the player can still win a pot
func (p *Player) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// CanAct reports whether the player still owes decisions this hand
func (p *Player) CanAct() bool {
	return p.Status == StatusActive
}

// pay moves chips from stack to bet, marking the player all-in when the stack runs out.
func (p *Player) pay(amount int) {
	if amount < 0 || amount > p.Stack {
		panic(fmt.Sprintf("player %s cannot pay %d from stack %d", p.ID, amount, p.Stack))
	}
	p.Stack -= amount
	p.Bet += amount
	p.Contributed += amount
	if p.Stack == 0 && p.Status == StatusActive {
		p.Status = StatusAllIn
	}
}

func (p *Player) resetForHand() {
	p.Bet = 0
	p.Contributed = 0
	p.Cards = nil
	p.HasActed = false
	if p.Status != StatusBusted {
		p.Status = StatusActive
	}
}

func (p *Player) clone() Player {
	c := *p
	if p.Cards != nil {
		c.Cards = append([]poker.Card(nil), p.Cards...)
	}
	return c
}

// Seat is a player offered to InitializeHand by the caller
type Seat struct {
	ID     string
	Name   string
	Stack  int
	IsHost bool
}

// Blinds are the forced bets for a hand
type Blinds struct {
	Small int `json:"small"`
	Big   int `json:"big"`
}

func (b Blinds) validate() error {
	if b.Big <= 0 {
		return &InvalidAmountError{Amount: b.Big, Min: 1, Reason: "big blind must be positive"}
	}
	if b.Small < 0 || b.Small > b.Big {
		return &InvalidAmountError{Amount: b.Small, Min: 0, Max: b.Big, Reason: "small blind must be between 0 and the big blind"}
	}
	return nil
}
