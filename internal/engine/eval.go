package engine

import "github.com/hailam/chessengine/internal/board"

// pair is a (mid-game, end-game) centipawn term, interpolated by game phase
// per §4.5.
type pair struct{ mg, eg int }

func (p pair) add(o pair) pair { return pair{p.mg + o.mg, p.eg + o.eg} }
func (p pair) sub(o pair) pair { return pair{p.mg - o.mg, p.eg - o.eg} }
func (p pair) neg() pair       { return pair{-p.mg, -p.eg} }

// Material values per piece kind (King excluded from material weight but
// still present on the board, per §4.5).
var materialValue = [6]pair{
	board.Pawn:   {82, 94},
	board.Knight: {337, 281},
	board.Bishop: {365, 297},
	board.Rook:   {477, 512},
	board.Queen:  {1025, 936},
	board.King:   {0, 0},
}

// phaseWeight contributes to the game-phase index: B + N + 2R + 4Q.
var phaseWeight = [6]int{board.Pawn: 0, board.Knight: 1, board.Bishop: 1, board.Rook: 2, board.Queen: 4, board.King: 0}

const maxPhase = 24 // 4*1(N) + 4*1(B) + 4*2(R) + 2*4(Q) counted over both colors

const bishopPairMg = 25
const bishopPairEg = 50

// Piece-square tables, White's perspective, indexed by ChessRank()*8+File()
// (rank 0 = rank 1). Black's lookup mirrors the square first. Values follow
// the same shape the teacher's single-PST evaluator uses, split into
// separate mid/end tables so the tapered interpolation in Evaluate has
// something to interpolate between.
var pstMg = [6][64]int{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, -20, -20, 10, 10, 5,
		5, -5, -10, 0, 0, -10, -5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, 5, 10, 25, 25, 10, 5, 5,
		10, 10, 20, 30, 30, 20, 10, 10,
		50, 50, 50, 50, 50, 50, 50, 50,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Knight: {
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	board.Bishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	board.Rook: {
		0, 0, 0, 5, 5, 0, 0, 0,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		5, 10, 10, 10, 10, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Queen: {
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-10, 5, 5, 5, 5, 5, 0, -10,
		0, 0, 5, 5, 5, 5, 0, -5,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	board.King: {
		20, 30, 10, 0, 0, 10, 30, 20,
		20, 20, 0, 0, 0, 0, 20, 20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
	},
}

var pstEg = [6][64]int{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		10, 10, 10, 10, 10, 10, 10, 10,
		10, 10, 10, 10, 10, 10, 10, 10,
		20, 20, 20, 20, 20, 20, 20, 20,
		35, 35, 35, 35, 35, 35, 35, 35,
		60, 60, 60, 60, 60, 60, 60, 60,
		90, 90, 90, 90, 90, 90, 90, 90,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Knight: pstMg[board.Knight],
	board.Bishop: pstMg[board.Bishop],
	board.Rook:   pstMg[board.Rook],
	board.Queen:  pstMg[board.Queen],
	board.King: {
		-50, -30, -30, -30, -30, -30, -30, -50,
		-30, -30, 0, 0, 0, 0, -30, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -20, -10, 0, 0, -10, -20, -30,
		-50, -40, -30, -20, -20, -30, -40, -50,
	},
}

// mobilityMg and mobilityEg are the per-extra-square bonus, indexed by piece kind, for
// the mid/end game respectively.
var mobilityMg = [6]int{board.Knight: 4, board.Bishop: 5, board.Rook: 2, board.Queen: 1}
var mobilityEg = [6]int{board.Knight: 3, board.Bishop: 4, board.Rook: 4, board.Queen: 2}

const (
	doubledPawnMg  = -15
	doubledPawnEg  = -20
	isolatedPawnMg = -20
	isolatedPawnEg = -25
)

var passedPawnBonus = [8]pair{
	{0, 0}, {5, 10}, {10, 20}, {20, 40}, {40, 70}, {70, 120}, {120, 200}, {0, 0},
}

const (
	rookOpenFileMg     = 20
	rookOpenFileEg     = 25
	rookSemiOpenFileMg = 10
	rookSemiOpenFileEg = 15
)

const (
	knightOutpostMg          = 25
	knightOutpostEg          = 15
	knightOutpostProtectedMg = 15
	knightOutpostProtectedEg = 10
	bishopOutpostMg          = 15
	bishopOutpostEg          = 10
)

// pstIndex returns the PST lookup index for sq from color c's perspective.
func pstIndex(sq board.Square, c board.Color) int {
	if c == board.White {
		return sq.ChessRank()*8 + sq.File()
	}
	m := sq.Mirror()
	return m.ChessRank()*8 + m.File()
}

// Evaluate returns the static evaluation of pos, relative to the side to
// move (positive favors the side to move), per §4.5's tapered scheme.
func Evaluate(pos *board.Position) Score {
	var mg, eg, phase int

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		for pk := board.Pawn; pk <= board.King; pk++ {
			bb := pos.Pieces[c][pk]
			phase += bb.PopCount() * phaseWeight[pk]
			for b := bb; b != 0; {
				sq := b.PopLSB()
				mg += sign * (materialValue[pk].mg + pstMg[pk][pstIndex(sq, c)])
				eg += sign * (materialValue[pk].eg + pstEg[pk][pstIndex(sq, c)])
			}
		}

		if pos.Pieces[c][board.Bishop].PopCount() >= 2 {
			mg += sign * bishopPairMg
			eg += sign * bishopPairEg
		}

		mobMg, mobEg := evaluateMobility(pos, c)
		mg += sign * mobMg
		eg += sign * mobEg

		pawnMg, pawnEg := evaluatePawnStructure(pos, c)
		mg += sign * pawnMg
		eg += sign * pawnEg

		passedMg, passedEg := evaluatePassedPawns(pos, c)
		mg += sign * passedMg
		eg += sign * passedEg

		rookMg, rookEg := evaluateRookFiles(pos, c)
		mg += sign * rookMg
		eg += sign * rookEg

		outpostMg, outpostEg := evaluateOutposts(pos, c)
		mg += sign * outpostMg
		eg += sign * outpostEg

		mg += sign * evaluateKingSafety(pos, c)
	}

	if phase > maxPhase {
		phase = maxPhase
	}
	score := (phase*mg + (maxPhase-phase)*eg) / maxPhase

	if pos.SideToMove == board.Black {
		score = -score
	}
	return FromCentipawns(score)
}

// evaluateMobility counts pseudo-attack squares not occupied by own pieces
// and not attacked by enemy pawns, per piece kind, per §4.5.
func evaluateMobility(pos *board.Position, c board.Color) (mgBonus, egBonus int) {
	them := c.Other()
	enemyPawnAttacks := pawnAttackSet(pos, them)
	safe := ^pos.Occupied[c] &^ enemyPawnAttacks

	for b := pos.Pieces[c][board.Knight]; b != 0; {
		sq := b.PopLSB()
		n := (board.KnightAttacks(sq) & safe).PopCount()
		mgBonus += n * mobilityMg[board.Knight]
		egBonus += n * mobilityEg[board.Knight]
	}
	for b := pos.Pieces[c][board.Bishop]; b != 0; {
		sq := b.PopLSB()
		n := (board.BishopAttacks(sq, pos.AllOccupied) & safe).PopCount()
		mgBonus += n * mobilityMg[board.Bishop]
		egBonus += n * mobilityEg[board.Bishop]
	}
	for b := pos.Pieces[c][board.Rook]; b != 0; {
		sq := b.PopLSB()
		n := (board.RookAttacks(sq, pos.AllOccupied) & safe).PopCount()
		mgBonus += n * mobilityMg[board.Rook]
		egBonus += n * mobilityEg[board.Rook]
	}
	for b := pos.Pieces[c][board.Queen]; b != 0; {
		sq := b.PopLSB()
		n := (board.QueenAttacks(sq, pos.AllOccupied) & safe).PopCount()
		mgBonus += n * mobilityMg[board.Queen]
		egBonus += n * mobilityEg[board.Queen]
	}
	return
}

func pawnAttackSet(pos *board.Position, c board.Color) board.Bitboard {
	var a board.Bitboard
	for b := pos.Pieces[c][board.Pawn]; b != 0; {
		sq := b.PopLSB()
		a |= board.PawnAttacks(sq, c)
	}
	return a
}

// evaluatePawnStructure penalizes doubled and isolated pawns.
func evaluatePawnStructure(pos *board.Position, c board.Color) (mgPenalty, egPenalty int) {
	pawns := pos.Pieces[c][board.Pawn]
	for file := 0; file < 8; file++ {
		onFile := pawns & board.FileMask[file]
		n := onFile.PopCount()
		if n >= 2 {
			mgPenalty += (n - 1) * doubledPawnMg
			egPenalty += (n - 1) * doubledPawnEg
		}
		if n == 0 {
			continue
		}
		var neighbors board.Bitboard
		if file > 0 {
			neighbors |= pawns & board.FileMask[file-1]
		}
		if file < 7 {
			neighbors |= pawns & board.FileMask[file+1]
		}
		if neighbors == 0 {
			mgPenalty += isolatedPawnMg
			egPenalty += isolatedPawnEg
		}
	}
	return
}

// evaluatePassedPawns rewards pawns with no enemy pawn blocking their file
// or the two neighboring files ahead of them.
func evaluatePassedPawns(pos *board.Position, c board.Color) (mgBonus, egBonus int) {
	them := c.Other()
	enemyPawns := pos.Pieces[them][board.Pawn]

	for b := pos.Pieces[c][board.Pawn]; b != 0; {
		sq := b.PopLSB()
		file := sq.File()
		var fileSpan board.Bitboard
		for f := file - 1; f <= file+1; f++ {
			if f < 0 || f > 7 {
				continue
			}
			fileSpan |= board.FileMask[f]
		}

		var ahead board.Bitboard
		if c == board.White {
			for r := sq.ChessRank() + 1; r < 8; r++ {
				ahead |= board.RowMask[7-r]
			}
		} else {
			for r := sq.ChessRank() - 1; r >= 0; r-- {
				ahead |= board.RowMask[7-r]
			}
		}

		if enemyPawns&fileSpan&ahead != 0 {
			continue
		}
		rankIdx := sq.ChessRank()
		if c == board.Black {
			rankIdx = 7 - rankIdx
		}
		bonus := passedPawnBonus[rankIdx]
		mgBonus += bonus.mg
		egBonus += bonus.eg
	}
	return
}

// evaluateRookFiles rewards rooks on open (no pawns at all) and half-open
// (no own pawn) files.
func evaluateRookFiles(pos *board.Position, c board.Color) (mgBonus, egBonus int) {
	them := c.Other()
	for b := pos.Pieces[c][board.Rook]; b != 0; {
		sq := b.PopLSB()
		file := board.FileMask[sq.File()]
		ownPawns := pos.Pieces[c][board.Pawn] & file
		enemyPawns := pos.Pieces[them][board.Pawn] & file
		switch {
		case ownPawns == 0 && enemyPawns == 0:
			mgBonus += rookOpenFileMg
			egBonus += rookOpenFileEg
		case ownPawns == 0:
			mgBonus += rookSemiOpenFileMg
			egBonus += rookSemiOpenFileEg
		}
	}
	return
}

// evaluateOutposts rewards knights and bishops on ranks 4-6 (3-5 for Black)
// that no enemy pawn can ever challenge, per §4.5, with an extra bonus for
// knight outposts defended by an own pawn.
func evaluateOutposts(pos *board.Position, c board.Color) (mgBonus, egBonus int) {
	them := c.Other()
	ownPawns := pos.Pieces[c][board.Pawn]
	enemyPawns := pos.Pieces[them][board.Pawn]

	var outpostRanks board.Bitboard
	if c == board.White {
		for _, r := range [3]int{3, 4, 5} {
			outpostRanks |= board.RowMask[7-r]
		}
	} else {
		for _, r := range [3]int{2, 3, 4} {
			outpostRanks |= board.RowMask[7-r]
		}
	}

	isOutpost := func(sq board.Square) bool {
		file := sq.File()
		var adjacentFiles board.Bitboard
		if file > 0 {
			adjacentFiles |= board.FileMask[file-1]
		}
		if file < 7 {
			adjacentFiles |= board.FileMask[file+1]
		}

		var potentialAttackers board.Bitboard
		cr := sq.ChessRank()
		if c == board.White {
			for r := cr + 1; r < 8; r++ {
				potentialAttackers |= board.RowMask[7-r]
			}
		} else {
			for r := 0; r < cr; r++ {
				potentialAttackers |= board.RowMask[7-r]
			}
		}

		return enemyPawns&adjacentFiles&potentialAttackers == 0
	}

	for b := pos.Pieces[c][board.Knight] & outpostRanks; b != 0; {
		sq := b.PopLSB()
		if !isOutpost(sq) {
			continue
		}
		mgBonus += knightOutpostMg
		egBonus += knightOutpostEg
		if board.PawnAttacks(sq, them)&ownPawns != 0 {
			mgBonus += knightOutpostProtectedMg
			egBonus += knightOutpostProtectedEg
		}
	}

	for b := pos.Pieces[c][board.Bishop] & outpostRanks; b != 0; {
		sq := b.PopLSB()
		if isOutpost(sq) {
			mgBonus += bishopOutpostMg
			egBonus += bishopOutpostEg
		}
	}
	return
}

const (
	kingRingAttackWeight     = 20
	openFileNearKingMg       = -20
	semiOpenFileNearKing     = -10
	openDiagonalNearKingMg   = -10
	semiOpenDiagonalNearKing = -5
)

// evaluateKingSafety subtracts from the defender's score based on ray
// openness around the king and the number of enemy attackers hitting the
// king's 3x3 ring, per §4.5. Applied only to the mid-game term: king safety
// stops mattering once material (and mating danger) has thinned out.
func evaluateKingSafety(pos *board.Position, c board.Color) int {
	them := c.Other()
	ksq := pos.KingSquare[c]

	penalty := 0
	file := board.FileMask[ksq.File()]
	ownPawns := pos.Pieces[c][board.Pawn] & file
	enemyPawns := pos.Pieces[them][board.Pawn] & file
	if ownPawns == 0 && enemyPawns == 0 {
		penalty += openFileNearKingMg
	} else if ownPawns == 0 {
		penalty += semiOpenFileNearKing
	}

	for _, diag := range board.Diagonals(ksq) {
		ownOnDiag := pos.Pieces[c][board.Pawn] & diag
		enemyOnDiag := pos.Pieces[them][board.Pawn] & diag
		if ownOnDiag == 0 && enemyOnDiag == 0 {
			penalty += openDiagonalNearKingMg
		} else if ownOnDiag == 0 {
			penalty += semiOpenDiagonalNearKing
		}
	}

	ring := board.KingAttacks(ksq)
	attackers := 0
	for b := ring; b != 0; {
		sq := b.PopLSB()
		if pos.IsAttacked(sq, them, pos.AllOccupied) {
			attackers++
		}
	}
	penalty -= attackers * kingRingAttackWeight

	return penalty
}
