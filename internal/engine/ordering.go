package engine

import "github.com/hailam/chessengine/internal/board"

// Move ordering priorities, front to back per §4.4.1: TT move, then the
// first and second killer, then the remaining moves with captures ordered
// first by MVV/LVA. Killer scores sit above captureBase so a killer (always
// a quiet move — search only calls KillerTable.Update for non-captures) is
// never outranked by a capture.
const (
	ttMoveScore  = 1_000_000
	killerScore1 = 200_000
	killerScore2 = 150_000
	captureBase  = 100_000
)

// mvvLva scores victim/attacker pairs: 16*victim - attacker, with piece
// values {P:1,N:3,B:3,R:5,Q:9,K:0} as §4.4.1 specifies. En-passant is
// scored as a pawn capture.
var pieceRank = [7]int{1, 3, 3, 5, 9, 0, 0} // Pawn..King, NoPieceKind

func mvvLvaScore(victim, attacker board.PieceKind) int {
	return 16*pieceRank[victim] - pieceRank[attacker]
}

// KillerTable holds two killer moves per ply, grown on demand per §4.4.1.
type KillerTable struct {
	killers [][2]board.Move
}

// NewKillerTable returns an empty killer table.
func NewKillerTable() *KillerTable {
	return &KillerTable{}
}

// Clear empties the table for a fresh search.
func (k *KillerTable) Clear() {
	for i := range k.killers {
		k.killers[i] = [2]board.Move{board.NullMove, board.NullMove}
	}
}

func (k *KillerTable) ensure(ply int) {
	for len(k.killers) <= ply {
		k.killers = append(k.killers, [2]board.Move{board.NullMove, board.NullMove})
	}
}

// First and Second return the killer moves stored at ply.
func (k *KillerTable) First(ply int) board.Move {
	if ply >= len(k.killers) {
		return board.NullMove
	}
	return k.killers[ply][0]
}

func (k *KillerTable) Second(ply int) board.Move {
	if ply >= len(k.killers) {
		return board.NullMove
	}
	return k.killers[ply][1]
}

// Update records m as the newest killer at ply: per §4.4.1, a cutoff move
// that differs from the first killer shifts into the first slot and the
// former first killer becomes the second.
func (k *KillerTable) Update(ply int, m board.Move) {
	k.ensure(ply)
	if k.killers[ply][0] == m {
		return
	}
	k.killers[ply][1] = k.killers[ply][0]
	k.killers[ply][0] = m
}

// isCapture reports whether m captures a piece in pos (including en
// passant), used both for ordering and for qsearch's move filter.
func isCapture(pos *board.Position, m board.Move) bool {
	if m.Kind() == board.EnPassant {
		return true
	}
	return pos.PieceAt(m.To()) != board.NoPiece
}

// ScoreMoves assigns an ordering score to every move in ml, per §4.4.1's
// priority: TT move, then killers, then MVV/LVA captures, then the rest in
// generation order.
func ScoreMoves(pos *board.Position, ml *board.MoveList, ply int, ttMove board.Move, killers *KillerTable) []int {
	scores := make([]int, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		switch {
		case m == ttMove:
			scores[i] = ttMoveScore
		case isCapture(pos, m):
			var victim board.PieceKind
			if m.Kind() == board.EnPassant {
				victim = board.Pawn
			} else {
				victim = pos.PieceAt(m.To()).Kind()
			}
			attacker := pos.PieceAt(m.From()).Kind()
			scores[i] = captureBase + mvvLvaScore(victim, attacker)
		case killers != nil && m == killers.First(ply):
			scores[i] = killerScore1
		case killers != nil && m == killers.Second(ply):
			scores[i] = killerScore2
		default:
			scores[i] = 0
		}
	}
	return scores
}

// PickMove selects the best-scoring remaining move at or after index and
// swaps it into place, enabling lazy selection-sort ordering: only as many
// moves are sorted as the search actually visits before a cutoff.
func PickMove(ml *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < ml.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		ml.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}
