package board

import "fmt"

// MoveKind distinguishes the four move shapes §3 describes.
type MoveKind uint16

const (
	Normal MoveKind = iota
	Promotion
	EnPassant
	Castling
)

// CastleType enumerates the four castling rights/moves, used as the Move's
// extra field when Kind() == Castling.
type CastleType uint16

const (
	WhiteKingside CastleType = iota
	WhiteQueenside
	BlackKingside
	BlackQueenside
)

// Move is a 16-bit packed value: bits 0-5 from, 6-11 to, 12-13 extra,
// 14-15 kind. The zero value is the reserved null-move sentinel.
type Move uint16

// NullMove is the reserved all-zero sentinel; it is never a legal move.
const NullMove Move = 0

func newMove(from, to Square, extra uint16, kind MoveKind) Move {
	return Move(uint16(from)&0x3F | (uint16(to)&0x3F)<<6 | (extra&0x3)<<12 | uint16(kind)<<14)
}

// NewNormalMove builds a plain (non-promotion, non-castling, non-en-passant) move.
func NewNormalMove(from, to Square) Move {
	return newMove(from, to, 0, Normal)
}

// NewPromotionMove builds a promotion move; promo must be Knight, Bishop, Rook, or Queen.
func NewPromotionMove(from, to Square, promo PieceKind) Move {
	return newMove(from, to, promoCode(promo), Promotion)
}

// NewEnPassantMove builds an en-passant capture; to is the destination square
// (the captured pawn sits one rank behind it).
func NewEnPassantMove(from, to Square) Move {
	return newMove(from, to, 0, EnPassant)
}

// NewCastlingMove builds a castling move; from/to are the king's origin and
// destination squares.
func NewCastlingMove(from, to Square, ct CastleType) Move {
	return newMove(from, to, uint16(ct), Castling)
}

func promoCode(pk PieceKind) uint16 {
	switch pk {
	case Knight:
		return 0
	case Bishop:
		return 1
	case Rook:
		return 2
	case Queen:
		return 3
	default:
		return 3
	}
}

func codeToPromo(code uint16) PieceKind {
	switch code {
	case 0:
		return Knight
	case 1:
		return Bishop
	case 2:
		return Rook
	default:
		return Queen
	}
}

// From returns the origin square.
func (m Move) From() Square { return Square(m & 0x3F) }

// To returns the destination square.
func (m Move) To() Square { return Square((m >> 6) & 0x3F) }

func (m Move) extra() uint16 { return uint16((m >> 12) & 0x3) }

// Kind returns the move's shape.
func (m Move) Kind() MoveKind { return MoveKind((m >> 14) & 0x3) }

// Promotion returns the promotion piece kind; only meaningful when
// Kind() == Promotion.
func (m Move) Promotion() PieceKind { return codeToPromo(m.extra()) }

// CastleType returns the castling type; only meaningful when
// Kind() == Castling.
func (m Move) CastleType() CastleType { return CastleType(m.extra()) }

// IsNull reports whether m is the reserved null-move sentinel.
func (m Move) IsNull() bool { return m == NullMove }

// String renders UCI long algebraic notation: from||to[||promotion].
// The null move renders as "0000".
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.Kind() == Promotion {
		s += string("nbrq"[m.extra()])
	}
	return s
}

// ParseUCIMove parses a UCI move string against a legal move list, matching
// on from/to/promotion. It does not itself know legality; callers pass the
// position's currently generated legal moves.
func ParseUCIMove(s string, legal []Move) (Move, error) {
	if s == "0000" {
		return NullMove, nil
	}
	if len(s) < 4 || len(s) > 5 {
		return NullMove, fmt.Errorf("invalid move text %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NullMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NullMove, err
	}
	var promo PieceKind = NoPieceKind
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NullMove, fmt.Errorf("invalid promotion piece %q", s)
		}
	}
	for _, mv := range legal {
		if mv.From() != from || mv.To() != to {
			continue
		}
		if mv.Kind() == Promotion {
			if promo != NoPieceKind && mv.Promotion() == promo {
				return mv, nil
			}
			continue
		}
		if promo == NoPieceKind {
			return mv, nil
		}
	}
	return NullMove, fmt.Errorf("move %q is not legal in this position", s)
}

// MoveList is a fixed-capacity move buffer sized generously above the
// maximum number of legal moves in any reachable chess position (218).
type MoveList struct {
	moves [256]Move
	n     int
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.n] = m
	ml.n++
}

// Len returns the number of moves currently stored.
func (ml *MoveList) Len() int { return ml.n }

// At returns the i-th move.
func (ml *MoveList) At(i int) Move { return ml.moves[i] }

// Slice returns the stored moves as a slice sharing the list's backing array.
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.n] }

// Swap exchanges moves i and j, used by move-ordering selection sort.
func (ml *MoveList) Swap(i, j int) { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }
