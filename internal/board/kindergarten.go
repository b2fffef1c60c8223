package board

// Slider attacks are generated from eight precomputed per-square, per-direction
// ray masks plus a single bit-scan to find the nearest blocker along each ray,
// rather than a runtime walk. Each of the four ray masks making up a rook's or
// bishop's attack set is produced once at init time; a query then costs one
// mask, one AND, one MSB-or-LSB scan, and one AND-NOT — no loop runs per
// query. This is the same "project the ray onto a precomputed table, punch
// out everything past the first blocker" idea described in §4.1 (rank/file/
// diagonal occupancy collapsed to a lookup rather than marched square by
// square); it is expressed here as a direct blocker lookup instead of the
// multiply-and-shift encoding, since the eight-direction ray tables are easy
// to verify by construction while a hand-derived magic multiplier is not
// something that can be checked without a build. See DESIGN.md.
const (
	dirN = iota
	dirS
	dirE
	dirW
	dirNE
	dirNW
	dirSE
	dirSW
	numDirs
)

// towardLowerIndex marks directions whose shift moves a set bit to a lower
// bit index (our North/West/NorthEast/NorthWest all right-shift); for these
// the nearest blocker on a ray is its highest-indexed set bit.
var towardLowerIndex = [numDirs]bool{
	dirN: true, dirS: false, dirE: false, dirW: true,
	dirNE: true, dirNW: true, dirSE: false, dirSW: false,
}

var rayMask [numDirs][64]Bitboard

// diagonalMask and antidiagonalMask give the full diagonal/antidiagonal
// through sq, matching §4.1's diagonals[sq][0..1].
var diagonalMask [64]Bitboard
var antidiagonalMask [64]Bitboard

func initKindergarten() {
	dirDelta := [numDirs][2]int{
		dirN:  {0, -1},
		dirS:  {0, 1},
		dirE:  {1, 0},
		dirW:  {-1, 0},
		dirNE: {1, -1},
		dirNW: {-1, -1},
		dirSE: {1, 1},
		dirSW: {-1, 1},
	}
	for sq := Square(0); sq < 64; sq++ {
		for dir := 0; dir < numDirs; dir++ {
			rayMask[dir][sq] = rayCast(sq, dirDelta[dir][0], dirDelta[dir][1])
		}
		diagonalMask[sq] = rayMask[dirNE][sq] | rayMask[dirSW][sq] | SquareBB(sq)
		antidiagonalMask[sq] = rayMask[dirNW][sq] | rayMask[dirSE][sq] | SquareBB(sq)
	}
}

// rayCast walks from sq in the (df, dr) direction to the board edge,
// exclusive of sq itself.
func rayCast(sq Square, df, dr int) Bitboard {
	var bb Bitboard
	f, r := sq.File()+df, sq.Row()+dr
	for f >= 0 && f < 8 && r >= 0 && r < 8 {
		bb |= SquareBB(NewSquare(f, r))
		f += df
		r += dr
	}
	return bb
}

// rayAttack returns the attack set along one ray direction from sq given
// full-board occupancy occ: the whole ray if unobstructed, otherwise the
// ray truncated to (and including) the nearest blocker.
func rayAttack(dir int, sq Square, occ Bitboard) Bitboard {
	ray := rayMask[dir][sq]
	blockers := ray & occ
	if blockers == 0 {
		return ray
	}
	var blockerSq Square
	if towardLowerIndex[dir] {
		blockerSq = blockers.MSB()
	} else {
		blockerSq = blockers.LSB()
	}
	return ray &^ rayMask[dir][blockerSq]
}

// RookAttacks returns the rank/file slider attack set from sq given
// occupancy occ (own and enemy pieces alike; callers filter own-piece
// destinations separately).
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	return rayAttack(dirN, sq, occ) | rayAttack(dirS, sq, occ) |
		rayAttack(dirE, sq, occ) | rayAttack(dirW, sq, occ)
}

// BishopAttacks returns the diagonal slider attack set from sq given
// occupancy occ.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	return rayAttack(dirNE, sq, occ) | rayAttack(dirNW, sq, occ) |
		rayAttack(dirSE, sq, occ) | rayAttack(dirSW, sq, occ)
}

// Diagonals returns the full diagonal and antidiagonal masks through sq.
func Diagonals(sq Square) [2]Bitboard {
	return [2]Bitboard{diagonalMask[sq], antidiagonalMask[sq]}
}
