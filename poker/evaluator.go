package poker

import (
	"fmt"
	"slices"
	"strings"
)

// Category is the class of a poker hand, ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryNames = [...]string{
	"High Card",
	"One Pair",
	"Two Pair",
	"Three of a Kind",
	"Straight",
	"Flush",
	"Full House",
	"Four of a Kind",
	"Straight Flush",
	"Royal Flush",
}

func (c Category) String() string {
	if int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// MarshalText implements encoding.TextMarshaler
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// HandValue is the result of evaluating a hand. Two values with the same
// category and kickers are exactly tied.
type HandValue struct {
	Category Category `json:"category"`
	// Kickers holds the tie-break ranks in significance order, e.g. for two
	// pair: high pair, low pair, kicker. Straights carry only the top card,
	// which is 5 for the wheel.
	Kickers []int `json:"kickers"`
	// Cards are the cards making up the hand, most significant first.
	Cards []Card `json:"cards"`
}

// Compare returns 1 if a beats b, -1 if b beats a and 0 for a tie.
func Compare(a, b HandValue) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	n := min(len(a.Kickers), len(b.Kickers))
	for i := 0; i < n; i++ {
		if a.Kickers[i] != b.Kickers[i] {
			if a.Kickers[i] > b.Kickers[i] {
				return 1
			}
			return -1
		}
	}
	switch {
	case len(a.Kickers) > len(b.Kickers):
		return 1
	case len(a.Kickers) < len(b.Kickers):
		return -1
	}
	return 0
}

// Beats reports whether h is strictly stronger than other
func (h HandValue) Beats(other HandValue) bool {
	return Compare(h, other) > 0
}

var rankSingular = [...]string{"Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten", "Jack", "Queen", "King", "Ace"}

func singular(r int) string {
	if r < int(Two) || r > int(Ace) {
		return "?"
	}
	return rankSingular[r-int(Two)]
}

func plural(r int) string {
	return Rank(r).Name()
}

// String describes the hand, e.g. "Two Pair, Kings and Sevens"
func (h HandValue) String() string {
	k := h.Kickers
	if len(k) == 0 {
		return h.Category.String()
	}
	switch h.Category {
	case HighCard:
		return fmt.Sprintf("High Card, %s", singular(k[0]))
	case OnePair:
		return fmt.Sprintf("One Pair, %s", plural(k[0]))
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", plural(k[0]), plural(k[1]))
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", plural(k[0]))
	case Straight:
		return fmt.Sprintf("Straight, %s high", singular(k[0]))
	case Flush:
		return fmt.Sprintf("Flush, %s high", singular(k[0]))
	case FullHouse:
		return fmt.Sprintf("Full House, %s over %s", plural(k[0]), plural(k[1]))
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", plural(k[0]))
	case StraightFlush:
		return fmt.Sprintf("Straight Flush, %s high", singular(k[0]))
	default:
		return h.Category.String()
	}
}

// Evaluate returns the best hand that can be made from the hole and community
// cards combined. With five or more cards every 5-card subset is scored and the
// strongest kept. With fewer, the cards are scored as they are, so only pairs,
// trips, quads and high cards are possible.
func Evaluate(hole, community []Card) HandValue {
	all := make([]Card, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)

	if len(all) <= 5 {
		return scoreHand(all)
	}

	var best HandValue
	found := false
	var five [5]Card
	forEachCombination(len(all), 5, func(idx []int) {
		for i, j := range idx {
			five[i] = all[j]
		}
		v := scoreHand(five[:])
		if !found || Compare(v, best) > 0 {
			best = v
			found = true
		}
	})
	return best
}

// EvaluateCards is Evaluate for a flat card list
func EvaluateCards(cards []Card) HandValue {
	return Evaluate(cards, nil)
}

// forEachCombination calls fn with every k-subset of 0..n-1 in lexicographic
// order. The index slice is reused between calls.
func forEachCombination(n, k int, fn func(idx []int)) {
	if k > n || k <= 0 {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

type rankGroup struct {
	rank  int
	count int
}

// scoreHand scores up to five cards as a single hand
func scoreHand(cards []Card) HandValue {
	if len(cards) == 0 {
		return HandValue{Category: HighCard}
	}

	var counts [Ace + 1]int
	for _, c := range cards {
		counts[c.Rank]++
	}

	groups := make([]rankGroup, 0, len(cards))
	for r := int(Ace); r >= int(Two); r-- {
		if counts[r] > 0 {
			groups = append(groups, rankGroup{rank: r, count: counts[r]})
		}
	}
	// Bigger groups first, then higher ranks.
	slices.SortStableFunc(groups, func(a, b rankGroup) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return b.rank - a.rank
	})

	ordered := orderCards(cards, groups)

	if len(cards) == 5 {
		flush := isFlush(cards)
		top, straight := straightTop(groups)
		switch {
		case flush && straight && top == int(Ace):
			return HandValue{Category: RoyalFlush, Kickers: []int{top}, Cards: straightOrder(ordered, top)}
		case flush && straight:
			return HandValue{Category: StraightFlush, Kickers: []int{top}, Cards: straightOrder(ordered, top)}
		}
		if groups[0].count == 4 {
			return HandValue{Category: FourOfAKind, Kickers: groupRanks(groups), Cards: ordered}
		}
		if groups[0].count == 3 && len(groups) > 1 && groups[1].count == 2 {
			return HandValue{Category: FullHouse, Kickers: groupRanks(groups), Cards: ordered}
		}
		if flush {
			return HandValue{Category: Flush, Kickers: groupRanks(groups), Cards: ordered}
		}
		if straight {
			return HandValue{Category: Straight, Kickers: []int{top}, Cards: straightOrder(ordered, top)}
		}
	}

	var category Category
	switch {
	case groups[0].count == 4:
		category = FourOfAKind
	case groups[0].count == 3:
		category = ThreeOfAKind
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		category = TwoPair
	case groups[0].count == 2:
		category = OnePair
	default:
		category = HighCard
	}
	return HandValue{Category: category, Kickers: groupRanks(groups), Cards: ordered}
}

func isFlush(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

// straightTop returns the top rank of a five-distinct-rank straight. groups
// must be sorted by rank descending when all counts are one.
func straightTop(groups []rankGroup) (int, bool) {
	if len(groups) != 5 {
		return 0, false
	}
	if groups[0].rank-groups[4].rank == 4 {
		return groups[0].rank, true
	}
	// A-5-4-3-2
	if groups[0].rank == int(Ace) && groups[1].rank == int(Five) && groups[4].rank == int(Two) {
		return int(Five), true
	}
	return 0, false
}

func groupRanks(groups []rankGroup) []int {
	ranks := make([]int, len(groups))
	for i, g := range groups {
		ranks[i] = g.rank
	}
	return ranks
}

// orderCards sorts cards by group significance, then suit for stability
func orderCards(cards []Card, groups []rankGroup) []Card {
	pos := make(map[Rank]int, len(groups))
	for i, g := range groups {
		pos[Rank(g.rank)] = i
	}
	out := slices.Clone(cards)
	slices.SortStableFunc(out, func(a, b Card) int {
		if pos[a.Rank] != pos[b.Rank] {
			return pos[a.Rank] - pos[b.Rank]
		}
		return int(b.Suit) - int(a.Suit)
	})
	return out
}

// straightOrder moves the ace to the bottom for a wheel
func straightOrder(cards []Card, top int) []Card {
	if top != int(Five) || cards[0].Rank != Ace {
		return cards
	}
	return append(slices.Clone(cards[1:]), cards[0])
}

// Describe evaluates cards and returns the hand description
func Describe(cards []Card) string {
	return EvaluateCards(cards).String()
}

// FormatHandValue renders the hand with its cards, e.g. "Flush, Ace high [As Js 9s 5s 2s]"
func FormatHandValue(h HandValue) string {
	var sb strings.Builder
	sb.WriteString(h.String())
	if len(h.Cards) > 0 {
		sb.WriteString(" [")
		sb.WriteString(FormatCards(h.Cards))
		sb.WriteString("]")
	}
	return sb.String()
}
