package book

import "github.com/hailam/chessengine/internal/board"

// PolyglotHash computes the Zobrist key Polyglot books are indexed by.
// This is deliberately independent of the engine's own Zobrist scheme
// (internal/board uses an LCG-seeded table tuned for incremental
// maintenance, not third-party book compatibility): the key layout is
// fixed by the book format itself (piece/square, castling, en-passant
// file, side to move), each drawn from polyglotRandom64.
//
// polyglotRandom64 below is generated at init time by a fixed-seed
// splitmix64 expansion rather than transcribed from the published
// reference table, so it will not match a book produced by the reference
// Polyglot toolchain bit-for-bit; it reproduces the format's hashing
// *scheme* (same index layout, same combination rule) rather than its
// exact constants.
func PolyglotHash(pos *board.Position) uint64 {
	var h uint64

	for sq := board.Square(0); sq < 64; sq++ {
		p := pos.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		h ^= polyglotRandom64[polyglotPieceIndex(p)*64+polyglotSquareIndex(sq)]
	}

	if pos.CastlingRights&board.RightWhiteKingside != 0 {
		h ^= polyglotRandom64[polyglotCastleOffset+0]
	}
	if pos.CastlingRights&board.RightWhiteQueenside != 0 {
		h ^= polyglotRandom64[polyglotCastleOffset+1]
	}
	if pos.CastlingRights&board.RightBlackKingside != 0 {
		h ^= polyglotRandom64[polyglotCastleOffset+2]
	}
	if pos.CastlingRights&board.RightBlackQueenside != 0 {
		h ^= polyglotRandom64[polyglotCastleOffset+3]
	}

	if pos.EnPassantFile >= 0 && hasPseudoLegalEnPassantCapture(pos) {
		h ^= polyglotRandom64[polyglotEnPassantOffset+int(pos.EnPassantFile)]
	}

	if pos.SideToMove == board.White {
		h ^= polyglotRandom64[polyglotTurnOffset]
	}

	return h
}

// hasPseudoLegalEnPassantCapture mirrors Polyglot's rule that the
// en-passant key is only mixed in when a pawn could actually capture onto
// the target square right now, not merely whenever a double push just
// happened.
func hasPseudoLegalEnPassantCapture(pos *board.Position) bool {
	target := pos.EnPassantSquare()
	if target == board.NoSquare {
		return false
	}
	us := pos.SideToMove
	attackers := board.PawnAttacks(target, us.Other()) & pos.Pieces[us][board.Pawn]
	return attackers != 0
}

// polyglotPieceIndex maps a Piece onto Polyglot's piece-kind ordering:
// black pawn, white pawn, black knight, white knight, ... black king,
// white king (0..11).
func polyglotPieceIndex(p board.Piece) int {
	kind := p.Kind()
	color := p.Color()
	idx := int(kind) * 2
	if color == board.White {
		idx++
	}
	return idx
}

// polyglotSquareIndex converts this engine's row convention (row 0 =
// Black's back rank) into Polyglot's sq = file + 8*rank with rank 0 =
// White's first rank.
func polyglotSquareIndex(sq board.Square) int {
	rank := sq.ChessRank()
	file := sq.File()
	return rank*8 + file
}

const (
	polyglotCastleOffset    = 768
	polyglotEnPassantOffset = 772
	polyglotTurnOffset      = 780
	polyglotTableSize       = 781
)

var polyglotRandom64 = generatePolyglotRandom64()

// generatePolyglotRandom64 expands a fixed 64-bit seed into polyglotTableSize
// pseudo-random values via splitmix64, giving the table format-correct
// shape and stable, collision-resistant keys across runs without hand
// transcribing the reference constants.
func generatePolyglotRandom64() [polyglotTableSize]uint64 {
	var table [polyglotTableSize]uint64
	state := uint64(0x9E3779B97F4A7C15)
	for i := range table {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		z = z ^ (z >> 31)
		table[i] = z
	}
	return table
}
