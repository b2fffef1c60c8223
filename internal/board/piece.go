// Package board implements chess position representation using bitboards:
// square sets, pseudo-legal/legal move generation via pin masks and check
// resolvers, incremental Zobrist hashing, and reversible make/unmake.
package board

// Color is the side to move or the owner of a piece.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// PieceKind is a chess piece type, independent of color.
type PieceKind uint8

const (
	Pawn PieceKind = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceKind PieceKind = 6
)

func (pk PieceKind) String() string {
	switch pk {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Char returns the lowercase FEN character for the piece kind.
func (pk PieceKind) Char() byte {
	const chars = "pnbrqk "
	if pk > NoPieceKind {
		return ' '
	}
	return chars[pk]
}

// PieceValue holds the MVV/LVA material weights from §4.4.1: P:1 N:3 B:3 R:5
// Q:9 K:0, scaled by 100 so they can double as rough material centipawns.
var PieceValue = [7]int{100, 300, 300, 500, 900, 0, 0}

// Piece combines a PieceKind and a Color. NoPiece marks an empty square.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece Piece = 12
)

// NewPiece builds a Piece from its kind and color.
func NewPiece(pk PieceKind, c Color) Piece {
	if pk >= NoPieceKind || c >= NoColor {
		return NoPiece
	}
	return Piece(pk) + Piece(c)*6
}

// Kind returns the PieceKind of the piece.
func (p Piece) Kind() PieceKind {
	if p >= NoPiece {
		return NoPieceKind
	}
	return PieceKind(p % 6)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	const chars = "PNBRQKpnbrqk"
	return string(chars[p])
}

// PieceFromChar converts a FEN piece letter to a Piece, or NoPiece if the
// character isn't a recognized piece letter.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}
