package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeHoleCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hole     string
		expected HoleCardCategory
	}{
		{"Pocket Aces", "AsAh", CategoryPremium},
		{"Pocket Jacks", "JhJd", CategoryPremium},
		{"Ace King offsuit", "AcKh", CategoryPremium},
		{"King Ace reversed", "KhAc", CategoryPremium},

		{"Pocket Tens", "TcTh", CategoryStrong},
		{"Ace Queen suited", "AsQs", CategoryStrong},
		{"Ace Jack offsuit", "AdJc", CategoryStrong},

		{"Pocket Nines", "9c9h", CategoryMedium},
		{"Pocket Sevens", "7h7c", CategoryMedium},
		{"King Queen suited", "KsQs", CategoryMedium},
		{"Ace Ten suited", "AhTh", CategoryMedium},

		{"Pocket Sixes", "6c6h", CategoryWeak},
		{"Pocket Twos", "2c2h", CategoryWeak},
		{"Suited connectors", "7h6h", CategoryWeak},
		{"Suited one-gapper", "5d3d", CategoryWeak},

		{"Seven Two offsuit", "7c2h", CategoryTrash},
		{"King Queen offsuit", "KcQh", CategoryTrash},
		{"Suited two-gapper", "9s5s", CategoryTrash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hole := MustParseCards(tt.hole)
			assert.Equal(t, tt.expected, CategorizeHoleCards(hole[0], hole[1]))
			assert.Equal(t, tt.expected, CategorizeHole(hole))
		})
	}
}

func TestCategorizeHoleUnknown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CategoryUnknown, CategorizeHole(nil))
	assert.Equal(t, CategoryUnknown, CategorizeHole(MustParseCards("AsAhAc")))
	assert.Equal(t, CategoryUnknown, CategorizeHoleCards(Card{}, NewCard(Ace, Spades)))
	assert.Equal(t, -1, CategoryUnknown.Strength())
}

func TestCategoryStrengthOrdering(t *testing.T) {
	t.Parallel()

	ordered := []HoleCardCategory{CategoryTrash, CategoryWeak, CategoryMedium, CategoryStrong, CategoryPremium}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Strength(), ordered[i-1].Strength(), "%s vs %s", ordered[i], ordered[i-1])
	}
}
