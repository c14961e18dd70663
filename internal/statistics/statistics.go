// Package statistics accumulates per-hand results in big blinds
package statistics

import (
	"fmt"
	"math"
	"slices"
)

// BigPotBB is the size, in big blinds, from which a pot counts as big
const BigPotBB = 50

// Result is one player's outcome over one hand
type Result struct {
	NetBB    float64
	Showdown bool
	PotBB    float64
	// Position counts seats after the dealer; the dealer has the highest
	Position int
}

// PositionStats tracks results for one position
type PositionStats struct {
	Hands int
	SumBB float64
}

// Statistics tracks results for one player or strategy. The zero value is
// ready to use.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
	Values []float64

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64

	Positions []PositionStats

	MaxPotBB  float64
	BigPots   int
	BigPotsBB float64
}

// Add incorporates one hand
func (s *Statistics) Add(r Result) {
	s.Hands++
	s.SumBB += r.NetBB
	s.SumBB2 += r.NetBB * r.NetBB
	s.Values = append(s.Values, r.NetBB)

	if r.Showdown {
		s.ShowdownBB += r.NetBB
		if r.NetBB > 0 {
			s.ShowdownWins++
		}
	} else {
		s.NonShowdownBB += r.NetBB
		if r.NetBB > 0 {
			s.NonShowdownWins++
		}
	}

	if r.Position >= 0 {
		if r.Position >= len(s.Positions) {
			s.Positions = append(s.Positions, make([]PositionStats, r.Position+1-len(s.Positions))...)
		}
		s.Positions[r.Position].Hands++
		s.Positions[r.Position].SumBB += r.NetBB
	}

	s.MaxPotBB = max(s.MaxPotBB, r.PotBB)
	if r.PotBB >= BigPotBB {
		s.BigPots++
		s.BigPotsBB += r.NetBB
	}
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Hands += other.Hands
	s.SumBB += other.SumBB
	s.SumBB2 += other.SumBB2
	s.Values = append(s.Values, other.Values...)
	s.ShowdownWins += other.ShowdownWins
	s.NonShowdownWins += other.NonShowdownWins
	s.ShowdownBB += other.ShowdownBB
	s.NonShowdownBB += other.NonShowdownBB

	if len(other.Positions) > len(s.Positions) {
		s.Positions = append(s.Positions, make([]PositionStats, len(other.Positions)-len(s.Positions))...)
	}
	for i, ps := range other.Positions {
		s.Positions[i].Hands += ps.Hands
		s.Positions[i].SumBB += ps.SumBB
	}

	s.MaxPotBB = max(s.MaxPotBB, other.MaxPotBB)
	s.BigPots += other.BigPots
	s.BigPotsBB += other.BigPotsBB
}

// Mean is the average result in big blinds per hand
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// BBPer100 is the win rate in big blinds per hundred hands
func (s *Statistics) BBPer100() float64 {
	return s.Mean() * 100
}

// Variance returns the sample variance
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the interpolated value at p, between 0 and 1
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	if lower+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[lower+1]*weight
}

// PositionMean returns the mean result for a position
func (s *Statistics) PositionMean(position int) float64 {
	if position < 0 || position >= len(s.Positions) || s.Positions[position].Hands == 0 {
		return 0
	}
	return s.Positions[position].SumBB / float64(s.Positions[position].Hands)
}

// Validate checks the accounting is consistent
func (s *Statistics) Validate() error {
	if math.Abs(s.SumBB-s.ShowdownBB-s.NonShowdownBB) > 1e-6 {
		return fmt.Errorf("ledger mismatch: total=%.6f showdown=%.6f non-showdown=%.6f",
			s.SumBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values length (%d) does not match hands (%d)", len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("wins (%d) exceed hands (%d)", wins, s.Hands)
	}
	positioned := 0
	for _, ps := range s.Positions {
		positioned += ps.Hands
	}
	if positioned > s.Hands {
		return fmt.Errorf("position hands (%d) exceed hands (%d)", positioned, s.Hands)
	}
	return nil
}
