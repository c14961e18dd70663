package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics_Empty(t *testing.T) {
	var s Statistics
	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Zero(t, s.StdError())
	assert.Zero(t, s.Median())
	assert.Zero(t, s.Percentile(0.9))
	assert.Zero(t, s.PositionMean(3))
	assert.NoError(t, s.Validate())
}

func TestStatistics_MultipleValues(t *testing.T) {
	var s Statistics
	for i, v := range []float64{-1, 2, 3, -0.5, 1.5} {
		s.Add(Result{NetBB: v, Showdown: i%2 == 0, PotBB: 4, Position: i % 3})
	}

	assert.Equal(t, 5, s.Hands)
	assert.InDelta(t, 1.0, s.Mean(), 1e-9)
	assert.InDelta(t, 100.0, s.BBPer100(), 1e-9)
	assert.InDelta(t, 1.5, s.Median(), 1e-9)
	assert.InDelta(t, 2.875, s.Variance(), 1e-9)

	assert.Equal(t, 2, s.ShowdownWins, "2 and 3 won at showdown")
	assert.Equal(t, 1, s.NonShowdownWins)
	assert.InDelta(t, 3.5, s.ShowdownBB, 1e-9)
	assert.InDelta(t, 1.5, s.NonShowdownBB, 1e-9)

	lo, hi := s.ConfidenceInterval95()
	assert.Less(t, lo, s.Mean())
	assert.Greater(t, hi, s.Mean())
	require.NoError(t, s.Validate())
}

func TestStatistics_Percentiles(t *testing.T) {
	var s Statistics
	for i := 1; i <= 5; i++ {
		s.Add(Result{NetBB: float64(i)})
	}
	assert.InDelta(t, 1.0, s.Percentile(0), 1e-9)
	assert.InDelta(t, 2.0, s.Percentile(0.25), 1e-9)
	assert.InDelta(t, 4.6, s.Percentile(0.9), 1e-9)
	assert.InDelta(t, 5.0, s.Percentile(1), 1e-9)
}

func TestStatistics_Positions(t *testing.T) {
	var s Statistics
	s.Add(Result{NetBB: -0.5, Position: 0})
	s.Add(Result{NetBB: -1, Position: 1})
	s.Add(Result{NetBB: 4, Position: 5})
	s.Add(Result{NetBB: 2, Position: 5})

	require.Len(t, s.Positions, 6)
	assert.InDelta(t, 3.0, s.PositionMean(5), 1e-9)
	assert.Zero(t, s.PositionMean(3))
	assert.Zero(t, s.PositionMean(-1))
}

func TestStatistics_Pots(t *testing.T) {
	var s Statistics
	s.Add(Result{NetBB: 30, PotBB: 60})
	s.Add(Result{NetBB: -1, PotBB: 3})
	s.Add(Result{NetBB: -50, PotBB: 100})

	assert.Equal(t, 100.0, s.MaxPotBB)
	assert.Equal(t, 2, s.BigPots)
	assert.InDelta(t, -20.0, s.BigPotsBB, 1e-9)
}

func TestStatistics_Merge(t *testing.T) {
	var a, b, all Statistics
	results := []Result{
		{NetBB: 1, Position: 0},
		{NetBB: -2, Showdown: true, Position: 2},
		{NetBB: 5, PotBB: 70, Showdown: true, Position: 1},
		{NetBB: -1, Position: 4},
	}
	for i, r := range results {
		all.Add(r)
		if i < 2 {
			a.Add(r)
		} else {
			b.Add(r)
		}
	}

	a.Merge(&b)
	assert.Equal(t, all.Hands, a.Hands)
	assert.InDelta(t, all.Mean(), a.Mean(), 1e-9)
	assert.InDelta(t, all.Variance(), a.Variance(), 1e-9)
	assert.Equal(t, all.Positions, a.Positions)
	assert.Equal(t, all.BigPots, a.BigPots)
	assert.Equal(t, all.MaxPotBB, a.MaxPotBB)
	assert.NoError(t, a.Validate())
}

func TestStatistics_Validate(t *testing.T) {
	s := Statistics{Hands: 1, SumBB: 2, Values: []float64{2}, ShowdownBB: 1}
	assert.ErrorContains(t, s.Validate(), "ledger mismatch")

	s = Statistics{Hands: 2, Values: []float64{0}}
	assert.ErrorContains(t, s.Validate(), "values length")

	s = Statistics{Hands: 1, Values: []float64{0}, ShowdownWins: 1, NonShowdownWins: 1}
	assert.ErrorContains(t, s.Validate(), "wins")

	s = Statistics{Hands: 1, Values: []float64{0}, Positions: []PositionStats{{Hands: 2}}}
	assert.ErrorContains(t, s.Validate(), "position hands")
}
