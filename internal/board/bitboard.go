package board

import (
	"fmt"
	"math/bits"
)

// Bitboard is a 64-bit square set. Bit i corresponds to Square(i) under the
// §3 convention (bit 0 = top-left a8, bit 63 = bottom-right h1).
type Bitboard uint64

// File masks.
const (
	FileA Bitboard = 0x0101010101010101
	FileB Bitboard = FileA << 1
	FileC Bitboard = FileA << 2
	FileD Bitboard = FileA << 3
	FileE Bitboard = FileA << 4
	FileF Bitboard = FileA << 5
	FileG Bitboard = FileA << 6
	FileH Bitboard = FileA << 7
)

// RankRow masks, indexed by board row (row 0 = rank 8, row 7 = rank 1).
const (
	Row0 Bitboard = 0x00000000000000FF // rank 8
	Row1 Bitboard = Row0 << 8          // rank 7
	Row2 Bitboard = Row0 << 16         // rank 6
	Row3 Bitboard = Row0 << 24         // rank 5
	Row4 Bitboard = Row0 << 32         // rank 4
	Row5 Bitboard = Row0 << 40         // rank 3
	Row6 Bitboard = Row0 << 48         // rank 2
	Row7 Bitboard = Row0 << 56         // rank 1
)

const (
	Empty    Bitboard = 0
	Universe Bitboard = 0xFFFFFFFFFFFFFFFF

	notFileA Bitboard = ^FileA
	notFileH Bitboard = ^FileH
)

// FileMask indexes file masks by 0-7 (a-h).
var FileMask = [8]Bitboard{FileA, FileB, FileC, FileD, FileE, FileF, FileG, FileH}

// RowMask indexes board-row masks by 0-7 (row 0 = rank 8).
var RowMask = [8]Bitboard{Row0, Row1, Row2, Row3, Row4, Row5, Row6, Row7}

// SquareBB returns a bitboard with only sq set.
func SquareBB(sq Square) Bitboard {
	return 1 << Bitboard(sq)
}

func (b Bitboard) Set(sq Square) Bitboard     { return b | SquareBB(sq) }
func (b Bitboard) Clear(sq Square) Bitboard   { return b &^ SquareBB(sq) }
func (b Bitboard) IsSet(sq Square) bool       { return b&SquareBB(sq) != 0 }
func (b Bitboard) Toggle(sq Square) Bitboard  { return b ^ SquareBB(sq) }
func (b Bitboard) PopCount() int              { return bits.OnesCount64(uint64(b)) }
func (b Bitboard) Empty() bool                { return b == 0 }
func (b Bitboard) Any() bool                  { return b != 0 }

// LSB returns the lowest-indexed set square, or NoSquare if empty.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// MSB returns the highest-indexed set square, or NoSquare if empty.
func (b Bitboard) MSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(63 - bits.LeadingZeros64(uint64(b)))
}

// PopLSB clears and returns the lowest-indexed set square.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// North shifts toward rank 8 (board row decreases).
func (b Bitboard) North() Bitboard { return b >> 8 }

// South shifts toward rank 1 (board row increases).
func (b Bitboard) South() Bitboard { return b << 8 }

// East shifts toward the h-file.
func (b Bitboard) East() Bitboard { return (b &^ FileH) << 1 }

// West shifts toward the a-file.
func (b Bitboard) West() Bitboard { return (b &^ FileA) >> 1 }

func (b Bitboard) NorthEast() Bitboard { return (b &^ FileH) >> 7 }
func (b Bitboard) NorthWest() Bitboard { return (b &^ FileA) >> 9 }
func (b Bitboard) SouthEast() Bitboard { return (b &^ FileH) << 9 }
func (b Bitboard) SouthWest() Bitboard { return (b &^ FileA) << 7 }

// Shift applies a named compass shift by (df, dRow) in file/row units. Used
// by table generation code that wants to parameterize direction.
func (b Bitboard) shift(df, dRow int) Bitboard {
	switch {
	case df == 0 && dRow == -1:
		return b.North()
	case df == 0 && dRow == 1:
		return b.South()
	case df == 1 && dRow == 0:
		return b.East()
	case df == -1 && dRow == 0:
		return b.West()
	case df == 1 && dRow == -1:
		return b.NorthEast()
	case df == -1 && dRow == -1:
		return b.NorthWest()
	case df == 1 && dRow == 1:
		return b.SouthEast()
	case df == -1 && dRow == 1:
		return b.SouthWest()
	default:
		return Empty
	}
}

func (b Bitboard) String() string {
	s := ""
	for row := 0; row < 8; row++ {
		s += fmt.Sprintf("%d ", 8-row)
		for file := 0; file < 8; file++ {
			if b.IsSet(NewSquare(file, row)) {
				s += "1 "
			} else {
				s += ". "
			}
		}
		s += "\n"
	}
	s += "  a b c d e f g h\n"
	return s
}

// ForEach invokes f once per set square, lowest index first.
func (b Bitboard) ForEach(f func(Square)) {
	for b != 0 {
		f(b.PopLSB())
	}
}
