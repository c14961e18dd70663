package poker

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckDealsEveryCardOnce(t *testing.T) {
	t.Parallel()

	deck := NewDeck(rand.New(rand.NewPCG(42, 0)))
	require.Equal(t, DeckSize, deck.Remaining())

	seen := make(map[Card]bool, DeckSize)
	for i := 0; i < DeckSize; i++ {
		card, ok := deck.DealCard()
		require.True(t, ok, "deal %d", i)
		require.True(t, card.Valid())
		require.False(t, seen[card], "duplicate %s", card)
		seen[card] = true
	}

	_, ok := deck.DealCard()
	assert.False(t, ok, "53rd deal must fail")
	assert.Len(t, seen, DeckSize)
	assert.Equal(t, 0, deck.Remaining())
}

func TestDeckDealCards(t *testing.T) {
	t.Parallel()

	deck := NewDeck(rand.New(rand.NewPCG(1, 2)))
	cards := deck.DealCards(50)
	require.Len(t, cards, 50)
	assert.Nil(t, deck.DealCards(3), "not enough cards left")
	assert.Equal(t, 2, deck.Remaining(), "failed deal must not consume cards")
	assert.Len(t, deck.DealCards(2), 2)
	assert.Nil(t, deck.DealCards(-1))
}

func TestDeckBurnAndReset(t *testing.T) {
	t.Parallel()

	deck := NewDeck(rand.New(rand.NewPCG(7, 7)))
	require.True(t, deck.Burn())
	deck.DealCards(3)
	require.True(t, deck.Burn())

	assert.Equal(t, 2, deck.Discarded())
	assert.Equal(t, DeckSize-5, deck.Remaining())

	deck.Reset()
	assert.Equal(t, 0, deck.Discarded())
	assert.Equal(t, DeckSize, deck.Remaining())

	deck.DealCards(DeckSize)
	assert.False(t, deck.Burn())
}

func TestDeckShuffleDeterministic(t *testing.T) {
	t.Parallel()

	a := NewDeck(rand.New(rand.NewPCG(99, 1)))
	b := NewDeck(rand.New(rand.NewPCG(99, 1)))
	c := NewDeck(rand.New(rand.NewPCG(100, 1)))

	da, db, dc := a.DealCards(DeckSize), b.DealCards(DeckSize), c.DealCards(DeckSize)
	assert.Equal(t, da, db, "same seed, same order")
	assert.NotEqual(t, da, dc, "different seed, different order")
}

func TestStackedDeck(t *testing.T) {
	t.Parallel()

	top := MustParseCards("AsKs2c")
	deck := Stacked(top...)
	assert.Equal(t, top, deck.DealCards(3))
	assert.Equal(t, DeckSize-3, deck.Remaining())

	assert.Panics(t, func() { Stacked(MustParseCards("AsAs")...) })
}
