package game

import (
	"fmt"

	"github.com/lox/holdem/poker"
)

// PotResult is one settled pot
type PotResult struct {
	Pot
	Winners []string `json:"winners"`
	// Shares maps each winner to the chips they took from this pot
	Shares map[string]int `json:"shares"`
}

// Settlement is the outcome of a hand
type Settlement struct {
	HandID string       `json:"hand_id"`
	Board  []poker.Card `json:"board"`
	Pots   []PotResult  `json:"pots"`
	// Payouts is the total each player won across all pots
	Payouts map[string]int `json:"payouts"`
	// Hands holds evaluated hands for players who reached showdown. It is
	// empty when everyone else folded and the winner did not show.
	Hands    map[string]poker.HandValue `json:"hands,omitempty"`
	Showdown bool                       `json:"showdown"`
	Busted   []string                   `json:"busted,omitempty"`
}

// Winners returns every player who won chips, in no particular order
func (s *Settlement) Winners() []string {
	ids := make([]string, 0, len(s.Payouts))
	for id, amount := range s.Payouts {
		if amount > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// Settle awards the pot. When a single player is left they take everything
// without showing. Otherwise betting must be finished; if the board is
// incomplete and nobody can bet any more, the remaining streets are dealt
// first. Each pot goes to the best eligible hand, with exact ties split and
// odd chips handed out one at a time from the dealer's left.
func (e *Engine) Settle() (*Settlement, error) {
	switch {
	case e.phase == Showdown:
		return nil, &InvalidPhaseError{Op: "settle", Phase: e.phase, Reason: "hand already settled"}
	case !e.phase.IsBetting():
		return nil, &InvalidPhaseError{Op: "settle", Phase: e.phase, Reason: "no hand in progress"}
	}

	contested := e.countInHand() > 1
	if contested {
		if !e.IsRoundComplete() {
			return nil, &InvalidPhaseError{Op: "settle", Phase: e.phase, Reason: "betting round is not complete"}
		}
		if len(e.board) < 5 && !e.runOutOnly() {
			return nil, &InvalidPhaseError{Op: "settle", Phase: e.phase, Reason: "players still have decisions on later streets"}
		}
		for len(e.board) < 5 {
			e.nextStreet()
		}
	}

	s := &Settlement{
		HandID:   e.handID,
		Board:    e.Board(),
		Payouts:  make(map[string]int),
		Showdown: contested,
	}

	if contested {
		s.Hands = make(map[string]poker.HandValue)
		for _, p := range e.players {
			if p.InHand() {
				s.Hands[p.ID] = poker.Evaluate(p.Cards, e.board)
			}
		}
	}

	pots := BuildPots(e.players)
	awarded := 0
	for _, pot := range pots {
		result := PotResult{Pot: pot, Shares: make(map[string]int)}
		result.Winners = e.bestHands(pot.Eligible, s.Hands)
		for id, chips := range e.split(pot.Amount, result.Winners) {
			result.Shares[id] = chips
			s.Payouts[id] += chips
			awarded += chips
		}
		s.Pots = append(s.Pots, result)
	}

	if awarded != e.betting.Pot() {
		panic(fmt.Sprintf("settlement awarded %d of a %d pot", awarded, e.betting.Pot()))
	}

	funded := 0
	for _, p := range e.players {
		p.Stack += s.Payouts[p.ID]
		p.Bet = 0
		if p.Stack == 0 {
			p.Status = StatusBusted
			p.Cards = nil
			s.Busted = append(s.Busted, p.ID)
		} else {
			funded++
		}
	}

	e.current = -1
	e.settlement = s
	e.phase = Showdown
	if funded < 2 {
		e.phase = Waiting
	}

	e.logger.Debug("Hand settled",
		"hand", e.handID,
		"pot", e.betting.Pot(),
		"pots", len(s.Pots),
		"showdown", s.Showdown,
		"board", poker.FormatCards(s.Board),
		"busted", len(s.Busted),
	)
	return s, nil
}

// bestHands returns the eligible players holding the strongest hand, in seat order
func (e *Engine) bestHands(eligible []string, hands map[string]poker.HandValue) []string {
	if len(eligible) <= 1 || len(hands) == 0 {
		return eligible
	}

	var best []string
	var bestValue poker.HandValue
	for _, id := range eligible {
		v, ok := hands[id]
		if !ok {
			continue
		}
		switch cmp := poker.Compare(v, bestValue); {
		case len(best) == 0 || cmp > 0:
			best = []string{id}
			bestValue = v
		case cmp == 0:
			best = append(best, id)
		}
	}
	return best
}

// split divides amount evenly between winners. Remaining chips go one each
// to winners in seat order starting left of the dealer.
func (e *Engine) split(amount int, winners []string) map[string]int {
	shares := make(map[string]int, len(winners))
	if len(winners) == 0 {
		return shares
	}

	each := amount / len(winners)
	odd := amount % len(winners)
	for _, id := range winners {
		shares[id] = each
	}

	isWinner := make(map[string]bool, len(winners))
	for _, id := range winners {
		isWinner[id] = true
	}
	n := len(e.players)
	for i := 1; i <= n && odd > 0; i++ {
		p := e.players[(e.dealer+i)%n]
		if isWinner[p.ID] {
			shares[p.ID]++
			odd--
		}
	}
	return shares
}
