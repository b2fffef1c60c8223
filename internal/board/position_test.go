package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZobristIncrementalMatchesFromScratch(t *testing.T) {
	p, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	var walk func(depth int)
	walk = func(depth int) {
		assert.Equal(t, p.computeZobrist(), p.Zobrist, "hash must match from-scratch recomputation")
		if depth == 0 {
			return
		}
		moves := p.GenerateLegalMoves()
		for i := 0; i < moves.Len() && i < 6; i++ {
			m := moves.At(i)
			p.MakeMove(m)
			walk(depth - 1)
			p.UnmakeMove()
		}
	}
	walk(3)
}

func TestZobristSideToMoveFlipIsFixedXOR(t *testing.T) {
	p := NewPosition()
	before := p.Zobrist
	undo := p.MakeNullMove()
	assert.Equal(t, before^ZobristSideToMove(), p.Zobrist, "a null move must flip the hash by exactly ZobristSideToMove()")
	p.UnmakeNullMove(undo)
	assert.Equal(t, before, p.Zobrist)
}

func TestMakeUnmakeIsExactInverse(t *testing.T) {
	positions := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range positions {
		p, err := ParseFEN(fen)
		require.NoError(t, err)
		before := p.ToFEN()

		moves := p.GenerateLegalMoves()
		for i := 0; i < moves.Len(); i++ {
			m := moves.At(i)
			p.MakeMove(m)
			p.UnmakeMove()
			require.Equal(t, before, p.ToFEN(), "unmake(make(p, %s)) must restore p exactly", m)
		}
	}
}

func TestMoveLeavesMoverNotInCheck(t *testing.T) {
	p, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	moves := p.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.At(i)
		p.MakeMove(m)
		mover := p.SideToMove.Other()
		assert.False(t, p.IsSquareAttacked(p.KingSquare[mover], p.SideToMove),
			"move %s must not leave its own mover in check", m)
		p.UnmakeMove()
	}
}

func TestEnPassantDiscoveredCheckIsExcluded(t *testing.T) {
	p, err := ParseFEN("8/8/8/8/k2pP2R/8/8/4K3 b - e3 0 1")
	require.NoError(t, err)
	moves := p.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.At(i)
		assert.False(t, m.Kind() == EnPassant, "en passant capture must be excluded by discovered check")
	}
}

func TestCastlingKingsideReachableInDepth4(t *testing.T) {
	p, err := ParseFEN("8/8/8/8/8/6k1/8/4K2R w K - 0 1")
	require.NoError(t, err)
	found := false
	moves := p.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		if moves.At(i).Kind() == Castling {
			found = true
		}
	}
	assert.True(t, found, "kingside castling must be generated when legal")
}

func TestInsufficientMaterial(t *testing.T) {
	p, err := ParseFEN("8/8/8/4k3/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.True(t, p.IsInsufficientMaterial())

	p2, err := ParseFEN("8/8/8/4k3/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	assert.False(t, p2.IsInsufficientMaterial())
}

func TestFiftyMoveDraw(t *testing.T) {
	p, err := ParseFEN("8/8/8/4k3/8/8/8/4K3 w - - 99 60")
	require.NoError(t, err)
	assert.False(t, p.IsFiftyMoveDraw())
	p.HalfMoveClock = 100
	assert.True(t, p.IsFiftyMoveDraw())
}
