package poker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "As", NewCard(Ace, Spades).String())
	assert.Equal(t, "2c", NewCard(Two, Clubs).String())
	assert.Equal(t, "Td", NewCard(Ten, Diamonds).String())
	assert.Equal(t, "K♥", NewCard(King, Hearts).Pretty())
	assert.Equal(t, "??", Card{Rank: 1, Suit: 9}.String())
}

func TestParseCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{input: "As", want: NewCard(Ace, Spades)},
		{input: "2h", want: NewCard(Two, Hearts)},
		{input: "td", want: NewCard(Ten, Diamonds)},
		{input: "QC", want: NewCard(Queen, Clubs)},
		{input: "1s", wantErr: true},
		{input: "Ax", wantErr: true},
		{input: "A", wantErr: true},
		{input: "10s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"AsKd7c", "As Kd 7c", "As,Kd,7c", "as, kd,\t7C"} {
		cards, err := ParseCards(input)
		require.NoError(t, err, input)
		assert.Equal(t, "As Kd 7c", FormatCards(cards), input)
	}

	_, err := ParseCards("AsK")
	assert.Error(t, err)
	_, err = ParseCards("AsXd")
	assert.Error(t, err)

	assert.Panics(t, func() { MustParseCards("Zz") })
}

func TestCardJSON(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		Cards []Card `json:"cards"`
	}

	data, err := json.Marshal(wrapper{Cards: MustParseCards("AhTc")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cards":["Ah","Tc"]}`, string(data))

	var decoded wrapper
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, MustParseCards("AhTc"), decoded.Cards)

	_, err = json.Marshal(Card{})
	assert.Error(t, err, "zero card is not a real card")
}

func TestRankNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Aces", Ace.Name())
	assert.Equal(t, "Sixes", Six.Name())
	assert.Equal(t, "Twos", Two.Name())
	assert.True(t, Hearts.IsRed())
	assert.False(t, Clubs.IsRed())
}
