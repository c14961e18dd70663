package poker

import (
	"math/rand/v2"
)

// DeckSize is the number of cards in a standard deck
const DeckSize = 52

// Deck represents a standard 52-card deck with a draw pile and a discard pile.
// Within one shuffle cycle every card is dealt at most once.
type Deck struct {
	draw     []Card
	discards []Card
	rng      *rand.Rand // Random source for deterministic shuffling
}

// NewDeck creates a fresh, shuffled deck using the given RNG.
// A nil RNG falls back to the global math/rand/v2 source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		draw:     make([]Card, 0, DeckSize),
		discards: make([]Card, 0, DeckSize),
		rng:      rng,
	}
	d.Reset()
	d.Shuffle()
	return d
}

// Reset rebuilds the full 52 cards in suit/rank order and empties the discard pile.
// It does not shuffle.
func (d *Deck) Reset() {
	d.draw = d.draw[:0]
	d.discards = d.discards[:0]
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.draw = append(d.draw, NewCard(rank, suit))
		}
	}
}

// Shuffle shuffles the draw pile using Fisher-Yates
func (d *Deck) Shuffle() {
	for i := len(d.draw) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	}
}

// DealCard removes and returns the top card. ok is false when the deck is empty.
func (d *Deck) DealCard() (card Card, ok bool) {
	n := len(d.draw)
	if n == 0 {
		return Card{}, false
	}
	card = d.draw[n-1]
	d.draw = d.draw[:n-1]
	return card, true
}

// DealCards deals n cards, or returns nil if fewer than n remain
func (d *Deck) DealCards(n int) []Card {
	if n < 0 || n > len(d.draw) {
		return nil
	}
	cards := make([]Card, n)
	for i := range cards {
		cards[i], _ = d.DealCard()
	}
	return cards
}

// Burn moves the top card to the discard pile without revealing it
func (d *Deck) Burn() bool {
	card, ok := d.DealCard()
	if ok {
		d.discards = append(d.discards, card)
	}
	return ok
}

// Remaining returns the number of cards left in the draw pile
func (d *Deck) Remaining() int {
	return len(d.draw)
}

// Discarded returns the number of burned cards
func (d *Deck) Discarded() int {
	return len(d.discards)
}

// Stacked returns an unshuffled deck whose next deals are the given cards in
// order, followed by the rest of the deck. Used for scripted hands in tests.
func Stacked(top ...Card) *Deck {
	d := &Deck{
		draw:     make([]Card, 0, DeckSize),
		discards: make([]Card, 0, DeckSize),
	}
	d.Reset()

	seen := make(map[Card]bool, len(top))
	for _, c := range top {
		if seen[c] {
			panic("stacked deck: duplicate card " + c.String())
		}
		seen[c] = true
	}

	rest := make([]Card, 0, DeckSize)
	for _, c := range d.draw {
		if !seen[c] {
			rest = append(rest, c)
		}
	}

	// DealCard pops from the end, so the first card to deal sits last.
	d.draw = d.draw[:0]
	d.draw = append(d.draw, rest...)
	for i := len(top) - 1; i >= 0; i-- {
		d.draw = append(d.draw, top[i])
	}
	return d
}
