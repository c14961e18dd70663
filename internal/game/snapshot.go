package game

import (
	"github.com/lox/holdem/poker"
)

// PlayerState is one seat in a snapshot
type PlayerState struct {
	Seat        int          `json:"seat"`
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Stack       int          `json:"stack"`
	Bet         int          `json:"bet"`
	Contributed int          `json:"contributed"`
	Status      Status       `json:"status"`
	Cards       []poker.Card `json:"cards,omitempty"`
	HasActed    bool         `json:"has_acted"`
	IsHost      bool         `json:"is_host,omitempty"`
	Dealer      bool         `json:"dealer,omitempty"`
}

// Snapshot is a point-in-time copy of the hand. The settlement is shared but
// never modified after Settle returns it.
type Snapshot struct {
	HandID             string        `json:"hand_id,omitempty"`
	HandNumber         int           `json:"hand_number"`
	Phase              Phase         `json:"phase"`
	Players            []PlayerState `json:"players"`
	DealerIndex        int           `json:"dealer_index"`
	CurrentPlayerIndex int           `json:"current_player_index"`
	CommunityCards     []poker.Card  `json:"community_cards"`
	Pot                int           `json:"pot"`
	Pots               []Pot         `json:"pots,omitempty"`
	CurrentBet         int           `json:"current_bet"`
	MinRaise           int           `json:"min_raise"`
	Blinds             Blinds        `json:"blinds"`
	LastAction         *ActionRecord `json:"last_action,omitempty"`
	BustedPlayers      []string      `json:"busted_players,omitempty"`
	Settlement         *Settlement   `json:"settlement,omitempty"`
}

// State returns the full snapshot with every player's cards
func (e *Engine) State() Snapshot {
	s := Snapshot{
		HandID:             e.handID,
		HandNumber:         e.handNumber,
		Phase:              e.phase,
		DealerIndex:        e.dealer,
		CurrentPlayerIndex: e.current,
		CommunityCards:     e.Board(),
		Pot:                e.betting.Pot(),
		CurrentBet:         e.betting.CurrentBet(),
		MinRaise:           e.betting.MinRaise(),
		Blinds:             e.blinds,
		BustedPlayers:      e.Busted(),
		Settlement:         e.settlement,
	}
	if e.lastAction != nil {
		last := *e.lastAction
		s.LastAction = &last
	}
	if e.phase.IsBetting() {
		s.Pots = BuildPots(e.players)
	}

	s.Players = make([]PlayerState, len(e.players))
	for i, p := range e.players {
		s.Players[i] = PlayerState{
			Seat:        i,
			ID:          p.ID,
			Name:        p.Name,
			Stack:       p.Stack,
			Bet:         p.Bet,
			Contributed: p.Contributed,
			Status:      p.Status,
			Cards:       append([]poker.Card(nil), p.Cards...),
			HasActed:    p.HasActed,
			IsHost:      p.IsHost,
			Dealer:      i == e.dealer,
		}
	}
	return s
}

// ViewFor returns the snapshot as one player may see it: other players' hole
// cards are hidden, except for hands shown down at a contested showdown.
// An unknown viewer sees no hole cards at all.
func (e *Engine) ViewFor(viewerID string) Snapshot {
	s := e.State()
	for i := range s.Players {
		p := &s.Players[i]
		if p.ID == viewerID || e.shownDown(p.ID) {
			continue
		}
		p.Cards = nil
	}
	return s
}

func (e *Engine) shownDown(id string) bool {
	if e.settlement == nil || !e.settlement.Showdown {
		return false
	}
	_, ok := e.settlement.Hands[id]
	return ok
}
