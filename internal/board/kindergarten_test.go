package board

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// bruteForceSliderAttacks walks each of the four given directions square by
// square, stopping after (and including) the first occupied square — the
// reference implementation §8 checks the table-driven one against.
func bruteForceSliderAttacks(sq Square, occ Bitboard, deltas [][2]int) Bitboard {
	var bb Bitboard
	f0, r0 := sq.File(), sq.Row()
	for _, d := range deltas {
		f, r := f0+d[0], r0+d[1]
		for f >= 0 && f < 8 && r >= 0 && r < 8 {
			s := NewSquare(f, r)
			bb |= SquareBB(s)
			if occ.IsSet(s) {
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return bb
}

var rookDeltas = [][2]int{{0, -1}, {0, 1}, {1, 0}, {-1, 0}}
var bishopDeltas = [][2]int{{1, -1}, {-1, -1}, {1, 1}, {-1, 1}}

func TestRookAttacksMatchBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 500; trial++ {
		sq := Square(rng.Intn(64))
		occ := Bitboard(rng.Uint64())
		got := RookAttacks(sq, occ)
		want := bruteForceSliderAttacks(sq, occ, rookDeltas)
		assert.Equalf(t, want, got, "rook attacks from %s with occ %016x", sq, uint64(occ))
	}
}

func TestBishopAttacksMatchBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for trial := 0; trial < 500; trial++ {
		sq := Square(rng.Intn(64))
		occ := Bitboard(rng.Uint64())
		got := BishopAttacks(sq, occ)
		want := bruteForceSliderAttacks(sq, occ, bishopDeltas)
		assert.Equalf(t, want, got, "bishop attacks from %s with occ %016x", sq, uint64(occ))
	}
}

func TestQueenAttacksIsUnionOfRookAndBishop(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		sq := Square(rng.Intn(64))
		occ := Bitboard(rng.Uint64())
		want := RookAttacks(sq, occ) | BishopAttacks(sq, occ)
		assert.Equal(t, want, QueenAttacks(sq, occ))
	}
}

func TestIsAlignedMatchesLine(t *testing.T) {
	for s1 := Square(0); s1 < 64; s1 += 7 {
		for s2 := Square(0); s2 < 64; s2 += 11 {
			if s1 == s2 {
				continue
			}
			for s3 := Square(0); s3 < 64; s3 += 13 {
				want := Line(s1, s2)&SquareBB(s3) != 0
				assert.Equal(t, want, IsAligned(s1, s2, s3))
			}
		}
	}
}

func TestBetweenIsSymmetric(t *testing.T) {
	for s1 := Square(0); s1 < 64; s1 += 5 {
		for s2 := Square(0); s2 < 64; s2 += 9 {
			assert.Equal(t, Between(s1, s2), Between(s2, s1))
		}
	}
}
