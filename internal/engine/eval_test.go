package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessengine/internal/board"
)

func TestEvaluateStartingPositionIsRoughlyBalanced(t *testing.T) {
	pos := board.NewPosition()
	score := Evaluate(pos)
	cp, ok := score.Centipawns()
	require.True(t, ok)
	assert.InDelta(t, 0, cp, 40)
}

func TestEvaluateFavorsExtraQueen(t *testing.T) {
	withQueen, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K2Q w - - 0 1")
	require.NoError(t, err)
	bare, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	cpWith, _ := Evaluate(withQueen).Centipawns()
	cpBare, _ := Evaluate(bare).Centipawns()
	assert.Greater(t, cpWith, cpBare)
}

func TestEvaluateIsSideRelative(t *testing.T) {
	white, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K2Q w - - 0 1")
	require.NoError(t, err)
	black, err := board.ParseFEN("4k2q/8/8/8/8/8/8/4K3 b - - 0 1")
	require.NoError(t, err)

	cpWhite, _ := Evaluate(white).Centipawns()
	cpBlack, _ := Evaluate(black).Centipawns()
	assert.Equal(t, cpWhite, cpBlack)
}

func TestPstIndexMirrorsForBlack(t *testing.T) {
	whiteSq := board.NewSquare(4, 7) // e1
	blackSq := board.NewSquare(4, 0) // e8
	assert.Equal(t, pstIndex(whiteSq, board.White), pstIndex(blackSq, board.Black))
}
