package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPerftStartPos(t *testing.T) {
	p, err := ParseFEN(StartFEN)
	require.NoError(t, err)

	want := []uint64{1, 20, 400, 8902, 197281}
	for depth, nodes := range want {
		got := Perft(p.Clone(), depth)
		require.Equalf(t, nodes, got, "perft(%d) from startpos", depth)
	}
}

func TestPerftKiwipete(t *testing.T) {
	p, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	want := []uint64{48, 2039, 97862}
	for i, nodes := range want {
		got := Perft(p.Clone(), i+1)
		require.Equalf(t, nodes, got, "perft(%d) kiwipete", i+1)
	}
}

func TestPerftEndgamePosition(t *testing.T) {
	p, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	require.NoError(t, err)

	want := []uint64{14, 191, 2812, 43238}
	for i, nodes := range want {
		got := Perft(p.Clone(), i+1)
		require.Equalf(t, nodes, got, "perft(%d) endgame position", i+1)
	}
}

func TestPerftPromotionPosition(t *testing.T) {
	p, err := ParseFEN("r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1")
	require.NoError(t, err)

	want := []uint64{6, 264, 9467}
	for i, nodes := range want {
		got := Perft(p.Clone(), i+1)
		require.Equalf(t, nodes, got, "perft(%d) promotion position", i+1)
	}
}

func TestPerftMirroredPromotionPosition(t *testing.T) {
	p, err := ParseFEN("r2q1rk1/pP1p2pp/Q4n2/bbp1p3/Np6/1B3NBn/pPPP1PPP/R3K2R b KQ - 0 1")
	require.NoError(t, err)

	want := []uint64{6, 264, 9467}
	for i, nodes := range want {
		got := Perft(p.Clone(), i+1)
		require.Equalf(t, nodes, got, "perft(%d) mirrored promotion position", i+1)
	}
}

func TestPerftTalkchessPosition(t *testing.T) {
	p, err := ParseFEN("rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8")
	require.NoError(t, err)

	want := []uint64{44, 1486, 62379}
	for i, nodes := range want {
		got := Perft(p.Clone(), i+1)
		require.Equalf(t, nodes, got, "perft(%d) talkchess position", i+1)
	}
}

func TestPerftSteven(t *testing.T) {
	p, err := ParseFEN("r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10")
	require.NoError(t, err)

	want := []uint64{46, 2079, 89890}
	for i, nodes := range want {
		got := Perft(p.Clone(), i+1)
		require.Equalf(t, nodes, got, "perft(%d) steven position", i+1)
	}
}
