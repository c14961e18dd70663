// Package game implements the Texas Hold'em hand engine.
//
// An Engine owns the authoritative state of one table: the seated players,
// the dealer button, the deck and board, and the betting round. It performs
// no I/O and starts no goroutines or timers, so given the same RNG it plays
// the same hand. Callers serialize access per table.
//
// # Basic Usage
//
//	e := game.NewEngine(game.WithRNG(randutil.New(42)))
//	err := e.InitializeHand([]game.Seat{
//	    {ID: "alice", Stack: 1000},
//	    {ID: "bob", Stack: 1000},
//	    {ID: "carol", Stack: 1000},
//	}, game.Blinds{Small: 5, Big: 10})
//
//	for {
//	    switch e.Pending() {
//	    case game.AwaitAction:
//	        id, _ := e.CurrentPlayer()
//	        err = e.ProcessAction(id, game.Call, 0)
//	    case game.AdvanceDue:
//	        err = e.AdvanceStreet()
//	    case game.SettleDue:
//	        settlement, err := e.Settle()
//	        ...
//	    }
//	}
//
// Raise amounts are the chips added on top of the player's current bet, so
// with a current bet of 20 and nothing in front of the player, Raise 60 makes
// it 60 to go.
//
// # Architecture
//
// The Engine delegates to:
//   - BettingManager: validates actions and tracks the pot, current bet and minimum raise
//   - BuildPots: splits contributions into main and side pots at all-in levels
//   - poker.Deck: shuffled draw and discard piles from an injected RNG
//   - poker.Evaluate: best five-card hand from hole and community cards
//
// State returns the full snapshot and ViewFor the same snapshot with other
// players' hole cards hidden. Errors are typed (InvalidActionError,
// InvalidAmountError, InvalidPhaseError, NotFoundError) and unwrap to
// sentinels for errors.Is.
package game
