package board

import "fmt"

// The four castling-rights bits, named directly per §3.
const (
	RightWhiteKingside uint8 = 1 << iota
	RightWhiteQueenside
	RightBlackKingside
	RightBlackQueenside
	RightsAll = RightWhiteKingside | RightWhiteQueenside | RightBlackKingside | RightBlackQueenside
)

// StackFrame captures everything needed to reverse one make_move, per §3's
// history stack: the move itself (to undo piece placement), the captured
// piece if any, and the irreversible state that held immediately before the
// move (so popping the frame restores it directly rather than recomputing
// it).
type StackFrame struct {
	Move            Move
	CapturedPiece   Piece
	CastlingRights  uint8
	EnPassantFile   int8 // -1 if none
	HalfMoveClock   int
	FullMoveNumber  int
	Zobrist         uint64
	Pinned          Bitboard
	Checkers        Bitboard
}

// Position is a complete chess position: bitboard piece placement plus the
// irreversible state (castling rights, en-passant file, clocks) and an
// explicit history stack of StackFrames so make_move/unmake_move are exact
// inverses of each other.
type Position struct {
	Pieces      [2][6]Bitboard
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	SideToMove     Color
	CastlingRights uint8
	EnPassantFile  int8
	HalfMoveClock  int
	FullMoveNumber int

	Zobrist    uint64
	Pinned     Bitboard
	KingSquare [2]Square
	Checkers   Bitboard

	history []StackFrame
}

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		panic("board: start FEN must parse: " + err.Error())
	}
	return p
}

// Clone returns a deep copy, including its own independent history stack —
// the representation the search worker receives so it never shares mutable
// state with the UCI-facing Position (§5).
func (p *Position) Clone() *Position {
	np := *p
	np.history = make([]StackFrame, len(p.history))
	copy(np.history, p.history)
	return &np
}

// Ply returns the number of moves made since the position's root (history[0]).
func (p *Position) Ply() int { return len(p.history) - 1 }

// EnPassantSquare returns the current en-passant target square, or NoSquare
// if none is set. The target rank is fixed by whose turn it is: rank 3 if
// White just double-pushed (Black to move), rank 6 if Black just did.
func (p *Position) EnPassantSquare() Square {
	if p.EnPassantFile < 0 {
		return NoSquare
	}
	row := 2
	if p.SideToMove == Black {
		row = 5
	}
	return NewSquare(int(p.EnPassantFile), row)
}

// PieceAt returns the piece occupying sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if p.AllOccupied&bb == 0 {
		return NoPiece
	}
	c := White
	if p.Occupied[Black]&bb != 0 {
		c = Black
	}
	for pk := Pawn; pk <= King; pk++ {
		if p.Pieces[c][pk]&bb != 0 {
			return NewPiece(pk, c)
		}
	}
	return NoPiece
}

func (p *Position) setPiece(piece Piece, sq Square) {
	if piece == NoPiece {
		return
	}
	c, pk := piece.Color(), piece.Kind()
	bb := SquareBB(sq)
	p.Pieces[c][pk] |= bb
	p.Occupied[c] |= bb
	p.AllOccupied |= bb
	if pk == King {
		p.KingSquare[c] = sq
	}
}

func (p *Position) removePiece(sq Square) Piece {
	piece := p.PieceAt(sq)
	if piece == NoPiece {
		return NoPiece
	}
	c, pk := piece.Color(), piece.Kind()
	bb := SquareBB(sq)
	p.Pieces[c][pk] &^= bb
	p.Occupied[c] &^= bb
	p.AllOccupied &^= bb
	return piece
}

func (p *Position) movePieceBB(from, to Square) Piece {
	piece := p.PieceAt(from)
	if piece == NoPiece {
		return NoPiece
	}
	c, pk := piece.Color(), piece.Kind()
	moveBB := SquareBB(from) | SquareBB(to)
	p.Pieces[c][pk] ^= moveBB
	p.Occupied[c] ^= moveBB
	p.AllOccupied ^= moveBB
	if pk == King {
		p.KingSquare[c] = to
	}
	return piece
}

func (p *Position) updateOccupied() {
	p.Occupied[White] = Empty
	p.Occupied[Black] = Empty
	for pk := Pawn; pk <= King; pk++ {
		p.Occupied[White] |= p.Pieces[White][pk]
		p.Occupied[Black] |= p.Pieces[Black][pk]
	}
	p.AllOccupied = p.Occupied[White] | p.Occupied[Black]
}

// computeZobrist recomputes the hash from scratch — used after FEN parsing
// and by property tests verifying incremental/from-scratch agreement.
func (p *Position) computeZobrist() uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		for pk := Pawn; pk <= King; pk++ {
			bb := p.Pieces[c][pk]
			for bb != 0 {
				sq := bb.PopLSB()
				h ^= ZobristPiece(c, pk, sq)
			}
		}
	}
	h ^= ZobristCastling(p.CastlingRights)
	if p.EnPassantFile >= 0 {
		h ^= ZobristEnPassantFile(int(p.EnPassantFile))
	}
	if p.SideToMove == Black {
		h ^= ZobristSideToMove()
	}
	return h
}

// ComputeZobrist exposes the from-scratch recomputation for tests verifying
// §8's hash(p) = calculate_from_scratch(p) identity.
func (p *Position) ComputeZobrist() uint64 { return p.computeZobrist() }

// IsAttacked reports whether sq is attacked by color `by`, given occupancy
// occ (passed explicitly so callers can remove a king from the board when
// probing whether it may step along its own check ray).
func (p *Position) IsAttacked(sq Square, by Color, occ Bitboard) bool {
	if PawnAttacks(sq, by.Other())&p.Pieces[by][Pawn] != 0 {
		return true
	}
	if KnightAttacks(sq)&p.Pieces[by][Knight] != 0 {
		return true
	}
	if KingAttacks(sq)&p.Pieces[by][King] != 0 {
		return true
	}
	diagAttackers := p.Pieces[by][Bishop] | p.Pieces[by][Queen]
	if BishopAttacks(sq, occ)&diagAttackers != 0 {
		return true
	}
	orthoAttackers := p.Pieces[by][Rook] | p.Pieces[by][Queen]
	if RookAttacks(sq, occ)&orthoAttackers != 0 {
		return true
	}
	return false
}

// updateCheckers recomputes the Checkers bitboard for the side to move.
func (p *Position) updateCheckers() {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]
	var checkers Bitboard
	checkers |= PawnAttacks(ksq, us) & p.Pieces[them][Pawn]
	checkers |= KnightAttacks(ksq) & p.Pieces[them][Knight]
	checkers |= BishopAttacks(ksq, p.AllOccupied) & (p.Pieces[them][Bishop] | p.Pieces[them][Queen])
	checkers |= RookAttacks(ksq, p.AllOccupied) & (p.Pieces[them][Rook] | p.Pieces[them][Queen])
	p.Checkers = checkers
}

// computePinned returns, for the side to move, the bitboard of its own
// pieces absolutely pinned to its king by an enemy slider (x-ray technique:
// look past the king for a slider, then check exactly one of our own pieces
// stands in between).
func (p *Position) computePinned() Bitboard {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]
	var pinned Bitboard

	snipers := RookAttacks(ksq, p.Occupied[them]) & (p.Pieces[them][Rook] | p.Pieces[them][Queen])
	snipers |= BishopAttacks(ksq, p.Occupied[them]) & (p.Pieces[them][Bishop] | p.Pieces[them][Queen])
	for snipers != 0 {
		sq := snipers.PopLSB()
		blockers := Between(sq, ksq) & p.AllOccupied
		if blockers.PopCount() == 1 && blockers&p.Occupied[us] != 0 {
			pinned |= blockers
		}
	}
	return pinned
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.Checkers != 0 }

// castlingInfo names the fixed king/rook squares and the rights bit for
// each of the four castling types.
type castlingInfo struct {
	right                uint8
	kingFrom, kingTo     Square
	rookFrom, rookTo     Square
	transit              Bitboard // squares (excluding kingFrom) the king must not be attacked on
	empty                Bitboard // squares that must be empty between king and rook
}

var castlingTable = [4]castlingInfo{
	WhiteKingside: {
		right: RightWhiteKingside,
		kingFrom: NewSquare(4, 7), kingTo: NewSquare(6, 7),
		rookFrom: NewSquare(7, 7), rookTo: NewSquare(5, 7),
		transit: SquareBB(NewSquare(5, 7)) | SquareBB(NewSquare(6, 7)),
		empty:   SquareBB(NewSquare(5, 7)) | SquareBB(NewSquare(6, 7)),
	},
	WhiteQueenside: {
		right: RightWhiteQueenside,
		kingFrom: NewSquare(4, 7), kingTo: NewSquare(2, 7),
		rookFrom: NewSquare(0, 7), rookTo: NewSquare(3, 7),
		transit: SquareBB(NewSquare(3, 7)) | SquareBB(NewSquare(2, 7)),
		empty:   SquareBB(NewSquare(1, 7)) | SquareBB(NewSquare(2, 7)) | SquareBB(NewSquare(3, 7)),
	},
	BlackKingside: {
		right: RightBlackKingside,
		kingFrom: NewSquare(4, 0), kingTo: NewSquare(6, 0),
		rookFrom: NewSquare(7, 0), rookTo: NewSquare(5, 0),
		transit: SquareBB(NewSquare(5, 0)) | SquareBB(NewSquare(6, 0)),
		empty:   SquareBB(NewSquare(5, 0)) | SquareBB(NewSquare(6, 0)),
	},
	BlackQueenside: {
		right: RightBlackQueenside,
		kingFrom: NewSquare(4, 0), kingTo: NewSquare(2, 0),
		rookFrom: NewSquare(0, 0), rookTo: NewSquare(3, 0),
		transit: SquareBB(NewSquare(3, 0)) | SquareBB(NewSquare(2, 0)),
		empty:   SquareBB(NewSquare(1, 0)) | SquareBB(NewSquare(2, 0)) | SquareBB(NewSquare(3, 0)),
	},
}

// MakeMove applies m, pushing a new StackFrame derived from the position's
// current state onto the history. Follows §4.2.2's nine steps in order.
func (p *Position) MakeMove(m Move) {
	frame := StackFrame{
		Move:           m,
		CapturedPiece:  NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassantFile:  p.EnPassantFile,
		HalfMoveClock:  p.HalfMoveClock,
		FullMoveNumber: p.FullMoveNumber,
		Zobrist:        p.Zobrist,
		Pinned:         p.Pinned,
		Checkers:       p.Checkers,
	}

	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()

	resetClock := false

	switch m.Kind() {
	case Castling:
		ci := castlingTable[m.CastleType()]
		p.removePiece(ci.kingFrom)
		p.setPiece(NewPiece(King, us), ci.kingTo)
		p.Zobrist ^= ZobristPiece(us, King, ci.kingFrom) ^ ZobristPiece(us, King, ci.kingTo)
		p.removePiece(ci.rookFrom)
		p.setPiece(NewPiece(Rook, us), ci.rookTo)
		p.Zobrist ^= ZobristPiece(us, Rook, ci.rookFrom) ^ ZobristPiece(us, Rook, ci.rookTo)
		resetClock = true

	case EnPassant:
		capturedSq := NewSquare(to.File(), from.Row())
		captured := p.removePiece(capturedSq)
		frame.CapturedPiece = captured
		p.Zobrist ^= ZobristPiece(them, Pawn, capturedSq)
		p.removePiece(from)
		p.setPiece(NewPiece(Pawn, us), to)
		p.Zobrist ^= ZobristPiece(us, Pawn, from) ^ ZobristPiece(us, Pawn, to)
		resetClock = true

	case Promotion:
		if p.AllOccupied&SquareBB(to) != 0 {
			captured := p.removePiece(to)
			frame.CapturedPiece = captured
			p.Zobrist ^= ZobristPiece(captured.Color(), captured.Kind(), to)
		}
		p.removePiece(from)
		p.setPiece(NewPiece(m.Promotion(), us), to)
		p.Zobrist ^= ZobristPiece(us, Pawn, from) ^ ZobristPiece(us, m.Promotion(), to)
		resetClock = true

	default: // Normal
		movingPiece := p.PieceAt(from)
		if p.AllOccupied&SquareBB(to) != 0 {
			captured := p.removePiece(to)
			frame.CapturedPiece = captured
			p.Zobrist ^= ZobristPiece(captured.Color(), captured.Kind(), to)
			resetClock = true
		}
		p.movePieceBB(from, to)
		p.Zobrist ^= ZobristPiece(us, movingPiece.Kind(), from) ^ ZobristPiece(us, movingPiece.Kind(), to)
		if movingPiece.Kind() == Pawn {
			resetClock = true
		}
	}

	// En-passant file: set iff this move was a two-square pawn push and an
	// enemy pawn now stands beside the destination square, attacking the
	// skipped square.
	newEPFile := int8(-1)
	if m.Kind() == Normal {
		moved := p.PieceAt(to)
		if moved.Kind() == Pawn && abs(to.Row()-from.Row()) == 2 {
			epSq := NewSquare(to.File(), (from.Row()+to.Row())/2)
			if PawnAttacks(epSq, us)&p.Pieces[them][Pawn] != 0 {
				newEPFile = int8(to.File())
			}
		}
	}
	if p.EnPassantFile >= 0 {
		p.Zobrist ^= ZobristEnPassantFile(int(p.EnPassantFile))
	}
	p.EnPassantFile = newEPFile
	if p.EnPassantFile >= 0 {
		p.Zobrist ^= ZobristEnPassantFile(int(p.EnPassantFile))
	}

	// Castling-rights updates: king move clears both of that color; a move
	// touching a rook's home square (from either side) clears that right.
	oldRights := p.CastlingRights
	if from == NewSquare(4, 7) {
		p.CastlingRights &^= RightWhiteKingside | RightWhiteQueenside
	}
	if from == NewSquare(4, 0) {
		p.CastlingRights &^= RightBlackKingside | RightBlackQueenside
	}
	clearIfTouched := func(sq Square, right uint8) {
		if from == sq || to == sq {
			p.CastlingRights &^= right
		}
	}
	clearIfTouched(NewSquare(7, 7), RightWhiteKingside)
	clearIfTouched(NewSquare(0, 7), RightWhiteQueenside)
	clearIfTouched(NewSquare(7, 0), RightBlackKingside)
	clearIfTouched(NewSquare(0, 0), RightBlackQueenside)
	if oldRights != p.CastlingRights {
		p.Zobrist ^= ZobristCastling(oldRights) ^ ZobristCastling(p.CastlingRights)
	}

	if resetClock {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	p.SideToMove = them
	p.Zobrist ^= ZobristSideToMove()
	if us == Black {
		p.FullMoveNumber++
	}

	p.Pinned = p.computePinned()
	p.updateCheckers()

	p.history = append(p.history, frame)
}

// UnmakeMove pops the most recent frame and reverses it exactly. history[0]
// is the root and must never be popped — callers must not call UnmakeMove
// with an empty move history; doing so is a programming error.
func (p *Position) UnmakeMove() {
	if len(p.history) <= 1 {
		panic("board: UnmakeMove called with no move to undo")
	}
	frame := p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]

	m := frame.Move
	us := p.SideToMove.Other() // side that made the move being undone
	them := p.SideToMove

	from, to := m.From(), m.To()

	switch m.Kind() {
	case Castling:
		ci := castlingTable[m.CastleType()]
		p.removePiece(ci.kingTo)
		p.setPiece(NewPiece(King, us), ci.kingFrom)
		p.removePiece(ci.rookTo)
		p.setPiece(NewPiece(Rook, us), ci.rookFrom)

	case EnPassant:
		p.removePiece(to)
		p.setPiece(NewPiece(Pawn, us), from)
		capturedSq := NewSquare(to.File(), from.Row())
		p.setPiece(NewPiece(Pawn, them), capturedSq)

	case Promotion:
		p.removePiece(to)
		p.setPiece(NewPiece(Pawn, us), from)
		if frame.CapturedPiece != NoPiece {
			p.setPiece(frame.CapturedPiece, to)
		}

	default:
		moved := p.PieceAt(to)
		p.removePiece(to)
		p.setPiece(moved, from)
		if frame.CapturedPiece != NoPiece {
			p.setPiece(frame.CapturedPiece, to)
		}
	}

	p.SideToMove = us
	p.CastlingRights = frame.CastlingRights
	p.EnPassantFile = frame.EnPassantFile
	p.HalfMoveClock = frame.HalfMoveClock
	p.FullMoveNumber = frame.FullMoveNumber
	p.Zobrist = frame.Zobrist
	p.Pinned = frame.Pinned
	p.Checkers = frame.Checkers
}

// NullMoveUndo holds the state MakeNullMove needs to reverse (a null move
// changes only the side to move and en-passant file, with no piece movement
// at all).
type NullMoveUndo struct {
	EnPassantFile int8
	Zobrist       uint64
	Checkers      Bitboard
	Pinned        Bitboard
}

// MakeNullMove passes the turn without moving a piece.
func (p *Position) MakeNullMove() NullMoveUndo {
	undo := NullMoveUndo{
		EnPassantFile: p.EnPassantFile,
		Zobrist:       p.Zobrist,
		Checkers:      p.Checkers,
		Pinned:        p.Pinned,
	}
	if p.EnPassantFile >= 0 {
		p.Zobrist ^= ZobristEnPassantFile(int(p.EnPassantFile))
	}
	p.EnPassantFile = -1
	p.SideToMove = p.SideToMove.Other()
	p.Zobrist ^= ZobristSideToMove()
	p.updateCheckers()
	p.Pinned = p.computePinned()
	return undo
}

// UnmakeNullMove reverses MakeNullMove.
func (p *Position) UnmakeNullMove(undo NullMoveUndo) {
	p.SideToMove = p.SideToMove.Other()
	p.EnPassantFile = undo.EnPassantFile
	p.Zobrist = undo.Zobrist
	p.Checkers = undo.Checkers
	p.Pinned = undo.Pinned
}

// HasNonPawnMaterial reports whether the side to move has any piece besides
// pawns and king.
func (p *Position) HasNonPawnMaterial() bool {
	us := p.SideToMove
	return p.Pieces[us][Knight]|p.Pieces[us][Bishop]|p.Pieces[us][Rook]|p.Pieces[us][Queen] != 0
}

// IsInsufficientMaterial reports the drawn-by-insufficient-material
// predicate: K vs K, K+minor vs K, or K+B vs K+B with same-colored bishops.
func (p *Position) IsInsufficientMaterial() bool {
	pawnsRooksQueens := p.Pieces[White][Pawn] | p.Pieces[Black][Pawn] |
		p.Pieces[White][Rook] | p.Pieces[Black][Rook] |
		p.Pieces[White][Queen] | p.Pieces[Black][Queen]
	if pawnsRooksQueens != 0 {
		return false
	}
	wMinors := p.Pieces[White][Knight].PopCount() + p.Pieces[White][Bishop].PopCount()
	bMinors := p.Pieces[Black][Knight].PopCount() + p.Pieces[Black][Bishop].PopCount()
	if wMinors == 0 && bMinors == 0 {
		return true
	}
	if wMinors+bMinors == 1 {
		return true
	}
	if wMinors == 1 && bMinors == 1 &&
		p.Pieces[White][Bishop].PopCount() == 1 && p.Pieces[Black][Bishop].PopCount() == 1 {
		wsq := p.Pieces[White][Bishop].LSB()
		bsq := p.Pieces[Black][Bishop].LSB()
		return (wsq.File()+wsq.Row())%2 == (bsq.File()+bsq.Row())%2
	}
	return false
}

// IsFiftyMoveDraw reports the fifty-move-rule predicate.
func (p *Position) IsFiftyMoveDraw() bool { return p.HalfMoveClock >= 100 }

// IsRepetitionDraw implements §4.2.4's search-relative threefold check:
// walking the history backwards by twos for up to HalfMoveClock plies, a
// repetition at distance <= ply from the current search root is an
// immediate draw; beyond that distance two prior repetitions are required.
func (p *Position) IsRepetitionDraw(ply int) bool {
	n := len(p.history)
	limit := p.HalfMoveClock
	if limit > n-1 {
		limit = n - 1
	}
	count := 0
	for d := 2; d <= limit; d += 2 {
		idx := n - d
		if idx < 0 {
			break
		}
		if p.history[idx].Zobrist == p.Zobrist {
			count++
			if d <= ply {
				return true
			}
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

func (p *Position) String() string {
	s := "\n"
	for row := 0; row < 8; row++ {
		s += fmt.Sprintf("%d  ", 8-row)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, row))
			if piece == NoPiece {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n"
	return s
}
