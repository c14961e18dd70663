package game

import (
	"slices"
)

// Pot is the main pot or a side pot
type Pot struct {
	Amount int `json:"amount"`
	// Eligible holds the ids of players who can win this pot, in seat order
	Eligible []string `json:"eligible"`
	// Cap is the per-player contribution level this pot covers up to
	Cap int `json:"cap"`
}

// BuildPots partitions everything the players contributed this hand into a
// main pot and side pots. Levels are cut at each distinct all-in contribution
// of a player still in the hand, plus the largest contribution overall. Folded
// players' chips count toward every level they reached but they are never
// eligible. A level nobody in the hand reached is dead money and merges into
// the pot below it. The pots always sum to the total contributed.
func BuildPots(players []*Player) []Pot {
	levels := make([]int, 0, len(players))
	top := 0
	for _, p := range players {
		top = max(top, p.Contributed)
		if p.Status == StatusAllIn && p.Contributed > 0 {
			levels = append(levels, p.Contributed)
		}
	}
	if top == 0 {
		return nil
	}
	levels = append(levels, top)
	slices.Sort(levels)
	levels = slices.Compact(levels)

	var pots []Pot
	carry := 0
	prev := 0
	for _, level := range levels {
		pot := Pot{Amount: carry, Cap: level}
		carry = 0
		for _, p := range players {
			pot.Amount += min(p.Contributed, level) - min(p.Contributed, prev)
			if p.InHand() && p.Contributed >= level {
				pot.Eligible = append(pot.Eligible, p.ID)
			}
		}
		prev = level

		if len(pot.Eligible) == 0 {
			if len(pots) > 0 {
				pots[len(pots)-1].Amount += pot.Amount
				pots[len(pots)-1].Cap = level
			} else {
				carry = pot.Amount
			}
			continue
		}
		pots = append(pots, pot)
	}

	if carry > 0 {
		// Nobody still in the hand contributed: they share what was left.
		pot := Pot{Amount: carry, Cap: prev}
		for _, p := range players {
			if p.InHand() {
				pot.Eligible = append(pot.Eligible, p.ID)
			}
		}
		pots = append(pots, pot)
	}
	return pots
}

// PotTotal sums the pots
func PotTotal(pots []Pot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}
