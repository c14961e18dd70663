package gameid

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	id := Generate()
	assert.Len(t, id, Length)
	require.NoError(t, Validate(id))

	decoded, err := Decode(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), decoded.Version())
}

func TestGenerateUnique(t *testing.T) {
	t.Parallel()

	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := Generate()
		require.False(t, ids[id], "duplicate id %s", id)
		ids[id] = true
	}
}

func TestGenerateTimeSorted(t *testing.T) {
	t.Parallel()

	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, Generate())
		time.Sleep(time.Millisecond)
	}
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func TestGeneratorReader(t *testing.T) {
	t.Parallel()

	g := NewGenerator(bytes.NewReader(bytes.Repeat([]byte{0xab}, 64)))
	id := g.Generate()
	require.NoError(t, Validate(id))
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	for _, u := range []uuid.UUID{
		uuid.Nil,
		uuid.Max,
		uuid.MustParse("01890a5d-ac96-774b-bcce-b302099a8057"),
		uuid.New(),
	} {
		encoded := Encode(u)
		require.NoError(t, Validate(encoded), u.String())

		decoded, err := Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, u, decoded)
	}

	assert.Equal(t, "00000000000000000000000000", Encode(uuid.Nil))
	assert.Equal(t, "7zzzzzzzzzzzzzzzzzzzzzzzzz", Encode(uuid.Max))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "valid", id: "01h5n0et5q6mt3v7ms1234abcd"},
		{name: "too short", id: "01h5n0et5q6mt3v7ms123", wantErr: true},
		{name: "too long", id: "01h5n0et5q6mt3v7ms1234abcdef", wantErr: true},
		{name: "first char too high", id: "81h5n0et5q6mt3v7ms1234abcd", wantErr: true},
		{name: "excluded letter", id: "01h5n0et5q6mt3v7ms1234abci", wantErr: true},
		{name: "uppercase", id: "01H5N0ET5Q6MT3V7MS1234ABCD", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
