package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCentipawnsClamps(t *testing.T) {
	assert.Equal(t, Score(0), FromCentipawns(0))
	assert.Equal(t, Score(500), FromCentipawns(500))
	assert.Equal(t, Winning, FromCentipawns(1000000))
	assert.Equal(t, Loosing, FromCentipawns(-1000000))
}

func TestMateDistanceRoundTrip(t *testing.T) {
	for _, plies := range []int{1, 2, 7, MaxMateDistance} {
		s := FromMateDistance(plies)
		m, ok := s.MateDistance()
		require.True(t, ok, "expected a mate score")
		assert.Equal(t, plies, m)
		assert.True(t, s.IsMate())

		neg := FromMateDistance(-plies)
		m, ok = neg.MateDistance()
		require.True(t, ok)
		assert.Equal(t, -plies, m)
	}
}

func TestCentipawnsRejectsMateScores(t *testing.T) {
	s := FromMateDistance(3)
	_, ok := s.Centipawns()
	assert.False(t, ok)
}

func TestDrawIsNotMate(t *testing.T) {
	assert.False(t, Draw.IsMate())
	cp, ok := Draw.Centipawns()
	require.True(t, ok)
	assert.Equal(t, 0, cp)
}
