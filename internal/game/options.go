package game

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem/internal/gameid"
	"github.com/lox/holdem/poker"
)

// HeadsUpRule selects who posts which blind when only two players remain
type HeadsUpRule int

const (
	// DealerPostsSmallBlind is the standard rule: the dealer posts the small
	// blind and acts first preflop, last on later streets.
	DealerPostsSmallBlind HeadsUpRule = iota
	// DealerPostsBigBlind has the non-dealer post the small blind and act
	// first on every street.
	DealerPostsBigBlind
)

func (r HeadsUpRule) String() string {
	if r == DealerPostsBigBlind {
		return "dealer-big-blind"
	}
	return "dealer-small-blind"
}

// ParseHeadsUpRule parses the names produced by HeadsUpRule.String
func ParseHeadsUpRule(s string) (HeadsUpRule, bool) {
	switch s {
	case "", "dealer-small-blind", "standard":
		return DealerPostsSmallBlind, true
	case "dealer-big-blind":
		return DealerPostsBigBlind, true
	}
	return DealerPostsSmallBlind, false
}

// Option configures an Engine
type Option func(*Engine)

// WithRNG sets the source used to shuffle each hand's deck
func WithRNG(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithDeck queues prepared decks that are used as-is, one per hand, before
// falling back to freshly shuffled decks. Intended for scripted hands.
func WithDeck(decks ...*poker.Deck) Option {
	return func(e *Engine) {
		e.decks = append(e.decks, decks...)
	}
}

// WithLogger sets the logger; by default the engine logs nowhere
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHeadsUpRule sets the two-player blind rule
func WithHeadsUpRule(rule HeadsUpRule) Option {
	return func(e *Engine) {
		e.headsUp = rule
	}
}

// WithHandIDs sets the hand id generator
func WithHandIDs(next func() string) Option {
	return func(e *Engine) {
		e.nextHandID = next
	}
}

func defaultLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func defaultHandIDs() func() string {
	return gameid.Generate
}
