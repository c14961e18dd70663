package poker

// HoleCardCategory is a coarse preflop strength bucket for two hole cards
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// Strength orders categories so callers can use thresholds; Premium is 4, Unknown is -1.
func (c HoleCardCategory) Strength() int {
	switch c {
	case CategoryPremium:
		return 4
	case CategoryStrong:
		return 3
	case CategoryMedium:
		return 2
	case CategoryWeak:
		return 1
	case CategoryTrash:
		return 0
	default:
		return -1
	}
}

// CategorizeHoleCards buckets a starting hand.
// Premium: JJ+, AK. Strong: TT, AQ, AJ. Medium: 77-99, suited broadway.
// Weak: 22-66, suited connectors and one-gappers. Trash: everything else.
func CategorizeHoleCards(card1, card2 Card) HoleCardCategory {
	if !card1.Valid() || !card2.Valid() {
		return CategoryUnknown
	}

	small, big := card1.Rank, card2.Rank
	if small > big {
		small, big = big, small
	}
	suited := card1.Suit == card2.Suit
	pair := small == big

	switch {
	case pair && small >= Jack, small == King && big == Ace:
		return CategoryPremium
	case pair && small == Ten, big == Ace && (small == Queen || small == Jack):
		return CategoryStrong
	case pair && small >= Seven, suited && small >= Ten:
		return CategoryMedium
	case pair, suited && big-small <= 2:
		return CategoryWeak
	}
	return CategoryTrash
}

// CategorizeHole categorizes a hole-card slice; anything but two cards is Unknown
func CategorizeHole(hole []Card) HoleCardCategory {
	if len(hole) != 2 {
		return CategoryUnknown
	}
	return CategorizeHoleCards(hole[0], hole[1])
}
