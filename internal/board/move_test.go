package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveEncodingRoundTrip(t *testing.T) {
	m := NewNormalMove(NewSquare(4, 6), NewSquare(4, 4))
	assert.Equal(t, NewSquare(4, 6), m.From())
	assert.Equal(t, NewSquare(4, 4), m.To())
	assert.Equal(t, Normal, m.Kind())
	assert.Equal(t, "e2e4", m.String())

	promo := NewPromotionMove(NewSquare(0, 1), NewSquare(0, 0), Queen)
	assert.Equal(t, Promotion, promo.Kind())
	assert.Equal(t, Queen, promo.Promotion())
	assert.Equal(t, "a7a8q", promo.String())

	assert.Equal(t, "0000", NullMove.String())
	assert.True(t, NullMove.IsNull())
}

func TestParseUCIMoveMatchesLegalMove(t *testing.T) {
	p := NewPosition()
	legal := p.GenerateLegalMoves()
	m, err := ParseUCIMove("e2e4", legal.Slice())
	require.NoError(t, err)
	assert.Equal(t, NewSquare(4, 6), m.From())
	assert.Equal(t, NewSquare(4, 4), m.To())

	_, err = ParseUCIMove("e2e5", legal.Slice())
	assert.Error(t, err)
}

func TestSquareParseAndString(t *testing.T) {
	for _, s := range []string{"a1", "h8", "e4", "d5"} {
		sq, err := ParseSquare(s)
		require.NoError(t, err)
		assert.Equal(t, s, sq.String())
	}
}
