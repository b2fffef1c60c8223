package engine

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessengine/internal/board"
)

func TestIterativeDeepeningFindsMateInOne(t *testing.T) {
	// White to move, mate in one: Qh1-a8#.
	pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/8/4K2Q w - - 0 1")
	require.NoError(t, err)

	var stop atomic.Bool
	search := NewSearch(pos, NewTable(1), &stop)
	result := search.IterativeDeepening(Limits{MaxDepth: 5}, nil, nil)

	require.False(t, result.Best.IsNull())
	mateDistance, isMate := result.Score.MateDistance()
	require.True(t, isMate)
	assert.Equal(t, 1, mateDistance)
}

func TestIterativeDeepeningRespectsMaxDepth(t *testing.T) {
	pos := board.NewPosition()
	var stop atomic.Bool
	search := NewSearch(pos, NewTable(1), &stop)

	var depths []int
	search.IterativeDeepening(Limits{MaxDepth: 3}, nil, func(info Info) {
		depths = append(depths, info.Depth)
	})

	require.NotEmpty(t, depths)
	assert.Equal(t, 3, depths[len(depths)-1])
	for _, d := range depths {
		assert.LessOrEqual(t, d, 3)
	}
}

func TestIterativeDeepeningHonorsSearchMoves(t *testing.T) {
	pos := board.NewPosition()
	legal := pos.GenerateLegalMoves()
	require.Positive(t, legal.Len())
	only := legal.At(0)

	var stop atomic.Bool
	search := NewSearch(pos, NewTable(1), &stop)
	result := search.IterativeDeepening(Limits{MaxDepth: 2, SearchMoves: []board.Move{only}}, nil, nil)

	assert.Equal(t, only, result.Best)
}

func TestIterativeDeepeningStopsAtNodeLimit(t *testing.T) {
	pos := board.NewPosition()
	var stop atomic.Bool
	search := NewSearch(pos, NewTable(1), &stop)

	search.IterativeDeepening(Limits{MaxDepth: MaxPly - 1, NodeLimit: 50}, nil, nil)
	assert.True(t, search.aborted)
}

func TestQsearchReturnsStandPatWhenQuiet(t *testing.T) {
	pos := board.NewPosition()
	var stop atomic.Bool
	search := NewSearch(pos, NewTable(1), &stop)
	score := search.qsearch(0, NegativeInfinity, PositiveInfinity)
	cp, ok := score.Centipawns()
	require.True(t, ok)
	assert.InDelta(t, 0, cp, 40)
}
