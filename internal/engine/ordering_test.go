package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hailam/chessengine/internal/board"
)

func TestKillerTableUpdateShiftsSlots(t *testing.T) {
	kt := NewKillerTable()
	m1 := board.NewNormalMove(board.NewSquare(4, 6), board.NewSquare(4, 4))
	m2 := board.NewNormalMove(board.NewSquare(3, 6), board.NewSquare(3, 4))

	kt.Update(2, m1)
	assert.Equal(t, m1, kt.First(2))
	assert.Equal(t, board.NullMove, kt.Second(2))

	kt.Update(2, m2)
	assert.Equal(t, m2, kt.First(2))
	assert.Equal(t, m1, kt.Second(2))

	// Re-recording the current first killer is a no-op, not a rotation.
	kt.Update(2, m2)
	assert.Equal(t, m2, kt.First(2))
	assert.Equal(t, m1, kt.Second(2))
}

func TestKillerTableUnrecordedPlyIsNull(t *testing.T) {
	kt := NewKillerTable()
	assert.Equal(t, board.NullMove, kt.First(10))
	assert.Equal(t, board.NullMove, kt.Second(10))
}

func TestMvvLvaPrefersBiggestVictimSmallestAttacker(t *testing.T) {
	queenTakenByPawn := mvvLvaScore(board.Queen, board.Pawn)
	pawnTakenByQueen := mvvLvaScore(board.Pawn, board.Queen)
	assert.Greater(t, queenTakenByPawn, pawnTakenByQueen)

	rookTakenByKnight := mvvLvaScore(board.Rook, board.Knight)
	rookTakenByBishop := mvvLvaScore(board.Rook, board.Bishop)
	assert.Equal(t, rookTakenByKnight, rookTakenByBishop) // equal piece rank
}

func TestScoreMovesPutsTTMoveFirst(t *testing.T) {
	pos := board.NewPosition()
	ml := pos.GenerateLegalMoves()
	ttMove := ml.At(3)

	scores := ScoreMoves(pos, ml, 0, ttMove, nil)
	PickMove(ml, scores, 0)

	assert.Equal(t, ttMove, ml.At(0))
}

func TestPickMoveSortsDescending(t *testing.T) {
	pos := board.NewPosition()
	ml := pos.GenerateLegalMoves()
	scores := ScoreMoves(pos, ml, 0, board.NullMove, nil)

	for i := 0; i < ml.Len(); i++ {
		PickMove(ml, scores, i)
	}
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1], scores[i])
	}
}
