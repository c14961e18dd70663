package phh

import (
	"bytes"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/table"
	"github.com/lox/holdem/poker"
)

// Variant is the PHH code for no-limit Texas hold'em
const Variant = "NT"

// Encode writes the hand history to w as a TOML document
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeSection writes the hand as section n of a .phhs file
func EncodeSection(w io.Writer, n int, hand *HandHistory) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[%d]\n", n)
	if err := Encode(&buf, hand); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// FormatAction converts an engine action to PHH notation for player n,
// counted from one. streetBet is the largest bet on the street before the
// action; an all-in that does not exceed it is a call.
func FormatAction(n int, a game.ActionRecord, streetBet int) string {
	player := fmt.Sprintf("p%d", n)
	switch a.Action {
	case game.Fold:
		return player + " f"
	case game.Raise, game.AllIn:
		if a.Total > streetBet {
			return fmt.Sprintf("%s cbr %d", player, a.Total)
		}
	}
	return player + " cc"
}

// FromHand builds the history of a settled hand
func FromHand(h table.HandResult) *HandHistory {
	n := len(h.Players)
	hh := &HandHistory{
		Variant:           Variant,
		Table:             h.Table,
		SeatCount:         n,
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            h.Blinds.Big,
		StartingStacks:    make([]int, n),
		FinishingStacks:   make([]int, n),
		Winnings:          make([]int, n),
		Players:           make([]string, n),
	}
	if h.Settlement != nil {
		hh.HandID = h.Settlement.HandID
	}
	if !h.Finished.IsZero() {
		at := h.Finished.UTC()
		hh.Time = at.Format("15:04:05")
		hh.TimeZone = "UTC"
		hh.Day, hh.Month, hh.Year = at.Day(), int(at.Month()), at.Year()
	}

	index := make(map[string]int, n)
	for i, p := range h.Players {
		index[p.ID] = i + 1
		hh.Seats[i] = i + 1
		hh.Players[i] = p.ID
		if p.Name != "" {
			hh.Players[i] = p.Name
		}
		switch p.ID {
		case h.SmallBlind:
			hh.BlindsOrStraddles[i] = h.PostedSB
		case h.BigBlind:
			hh.BlindsOrStraddles[i] = h.PostedBB
		}
		start := p.Stack + p.Contributed
		hh.StartingStacks[i] = start
		hh.FinishingStacks[i] = start + h.Net[p.ID]
		if h.Settlement != nil {
			hh.Winnings[i] = h.Settlement.Payouts[p.ID]
		}
		hh.Actions = append(hh.Actions, fmt.Sprintf("d dh p%d %s", i+1, cards(p.Cards)))
	}

	var board boardDealer
	if h.Settlement != nil {
		board.cards = h.Settlement.Board
	}
	phase := game.Preflop
	streetBet := h.Blinds.Big
	for _, a := range h.Actions {
		if a.Phase != phase {
			phase = a.Phase
			streetBet = 0
		}
		hh.Actions = append(hh.Actions, board.upTo(phase)...)
		hh.Actions = append(hh.Actions, FormatAction(index[a.PlayerID], a, streetBet))
		streetBet = max(streetBet, a.Total)
	}
	hh.Actions = append(hh.Actions, board.upTo(game.River)...)

	if h.Settlement != nil {
		for i, p := range h.Players {
			if _, shown := h.Settlement.Hands[p.ID]; shown {
				hh.Actions = append(hh.Actions, fmt.Sprintf("p%d sm %s", i+1, cards(p.Cards)))
			}
		}
	}
	return hh
}

// boardDealer emits board deals once per street, as far as the board went
type boardDealer struct {
	cards   []poker.Card
	emitted int
}

func (b *boardDealer) upTo(phase game.Phase) []string {
	want := 0
	switch phase {
	case game.Flop:
		want = 3
	case game.Turn:
		want = 4
	case game.River, game.Showdown:
		want = 5
	}
	want = min(want, len(b.cards))

	var out []string
	for b.emitted < want {
		if b.emitted == 0 {
			if want < 3 {
				break
			}
			out = append(out, "d db "+cards(b.cards[:3]))
			b.emitted = 3
			continue
		}
		out = append(out, "d db "+cards(b.cards[b.emitted:b.emitted+1]))
		b.emitted++
	}
	return out
}
