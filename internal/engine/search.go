package engine

import (
	"sync/atomic"
	"time"

	"github.com/hailam/chessengine/internal/board"
)

// MaxPly bounds the PV table and killer-move growth; no legal chess line
// approaches it, so it only needs to be safely larger than any real search.
const MaxPly = 128

const deltaPruningMargin = 200 // centipawns, §4.4's qsearch delta-pruning safety margin

// PVLine is one completed iteration's principal variation.
type PVLine []board.Move

// Info is emitted once per completed iterative-deepening depth, per §6's
// "info" line.
type Info struct {
	Depth   int
	Score   Score
	Nodes   uint64
	Elapsed time.Duration
	PV      PVLine
}

// Result is the search's final answer, per §6's "bestmove" line.
type Result struct {
	Best   board.Move
	Ponder board.Move
	Score  Score
}

// Limits bounds a single search invocation. A zero value field means "no
// limit" for that dimension.
type Limits struct {
	MaxDepth    int
	NodeLimit   uint64
	MateIn      int // stop once a mate within this many moves is proven
	SearchMoves []board.Move
}

// Search holds all state private to one search invocation: the worker owns
// this exclusively per §5 ("no locks on the transposition table; a single
// worker guarantees race-freedom").
type Search struct {
	pos     *board.Position
	tt      *Table
	killers *KillerTable

	stop  *atomic.Bool
	nodes uint64

	pvLength [MaxPly]int
	pvTable  [MaxPly][MaxPly]board.Move

	rootBestMove board.Move
	aborted      bool

	nodeLimit   uint64
	searchMoves []board.Move
}

// NewSearch builds a Search over pos (already the worker's private clone)
// using tt for transposition lookups and stop as the shared abort flag.
func NewSearch(pos *board.Position, tt *Table, stop *atomic.Bool) *Search {
	return &Search{
		pos:     pos,
		tt:      tt,
		killers: NewKillerTable(),
		stop:    stop,
	}
}

// IterativeDeepening runs §4.4's top-level loop: search depth 1, 2, ...
// until aborted, a forced mate is found (at any distance, whether or not
// MateIn is set), the minimum time budget has elapsed, or the requested max
// depth is reached.
// infoFn is called once per completed depth; it may be nil.
func (s *Search) IterativeDeepening(limits Limits, timer *Timer, infoFn func(Info)) Result {
	start := time.Now()
	maxDepth := limits.MaxDepth
	if maxDepth <= 0 || maxDepth > MaxPly-1 {
		maxDepth = MaxPly - 1
	}
	s.nodeLimit = limits.NodeLimit
	s.searchMoves = limits.SearchMoves

	var lastCompleted PVLine
	var lastScore Score

	for depth := 1; depth <= maxDepth; depth++ {
		s.aborted = false
		s.pvLength[0] = 0

		score := s.search(depth, 0, NegativeInfinity, PositiveInfinity, true)
		if s.aborted {
			break
		}

		pv := make(PVLine, s.pvLength[0])
		copy(pv, s.pvTable[0][:s.pvLength[0]])
		lastCompleted = pv
		lastScore = score

		if infoFn != nil {
			infoFn(Info{
				Depth:   depth,
				Score:   score,
				Nodes:   s.nodes,
				Elapsed: time.Since(start),
				PV:      pv,
			})
		}

		if m, isMate := score.MateDistance(); isMate && limits.MateIn > 0 {
			plies := m
			if plies < 0 {
				plies = -plies
			}
			if plies <= limits.MateIn*2 {
				break
			}
		}
		if score.IsMate() {
			break
		}
		if timer != nil && timer.Elapsed() >= timer.MinTime() {
			break
		}
	}

	result := Result{Score: lastScore}
	if len(lastCompleted) > 0 {
		result.Best = lastCompleted[0]
	}
	if len(lastCompleted) > 1 {
		result.Ponder = lastCompleted[1]
	}
	return result
}

func (s *Search) checkStop() bool {
	if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
		s.aborted = true
		return true
	}
	if s.stop.Load() {
		s.aborted = true
	}
	return s.aborted
}

// rootAllows reports whether m is a permitted root move, per the UCI
// "searchmoves" restriction. An empty restriction list allows every move.
func (s *Search) rootAllows(m board.Move) bool {
	if len(s.searchMoves) == 0 {
		return true
	}
	for _, allowed := range s.searchMoves {
		if allowed == m {
			return true
		}
	}
	return false
}

// search implements §4.4's search(pos, depth, ply, alpha, beta, pv_node):
// PVS alpha-beta with TT probing, draw detection, and killer/MVV-LVA move
// ordering.
func (s *Search) search(depth, ply int, alpha, beta Score, pvNode bool) Score {
	s.nodes++
	s.pvLength[ply] = ply
	if s.checkStop() {
		return 0
	}

	if ply > 0 {
		if s.pos.IsFiftyMoveDraw() || s.pos.IsInsufficientMaterial() || s.pos.IsRepetitionDraw(ply) {
			return Draw
		}
	}

	if depth <= 0 {
		return s.qsearch(ply, alpha, beta)
	}

	var ttMove board.Move
	hash := s.pos.Zobrist
	if entry, found := s.tt.Probe(hash); found {
		ttMove = entry.BestMove
		if int(entry.Depth) >= depth {
			score := AdjustScoreFromTT(entry.Score, ply)
			switch entry.Flag {
			case Exact:
				return score
			case LowerBound:
				if score >= beta {
					return score
				}
			case UpperBound:
				if score <= alpha {
					return score
				}
			}
		}
	}

	moves := s.pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if s.pos.InCheck() {
			return FromMateDistance(-ply)
		}
		return Draw
	}

	scores := ScoreMoves(s.pos, moves, ply, ttMove, s.killers)

	bestScore := NegativeInfinity
	bestMove := board.NullMove
	flag := UpperBound
	origAlpha := alpha

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.At(i)

		if ply == 0 && !s.rootAllows(m) {
			continue
		}

		s.pos.MakeMove(m)

		var score Score
		if i == 0 {
			score = -s.search(depth-1, ply+1, -beta, -alpha, pvNode)
		} else {
			score = -s.search(depth-1, ply+1, -alpha-1, -alpha, false)
			if score > alpha && score < beta {
				score = -s.search(depth-1, ply+1, -beta, -alpha, true)
			}
		}

		s.pos.UnmakeMove()

		if s.aborted {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
			flag = Exact
			s.pvTable[ply][ply] = m
			for j := ply + 1; j < s.pvLength[ply+1]; j++ {
				s.pvTable[ply][j] = s.pvTable[ply+1][j]
			}
			s.pvLength[ply] = s.pvLength[ply+1]
			if s.pvLength[ply] <= ply {
				s.pvLength[ply] = ply + 1
			}
		}

		if alpha >= beta {
			if !isCapture(s.pos, m) {
				s.killers.Update(ply, m)
			}
			s.tt.Store(hash, depth, AdjustScoreToTT(score, ply), LowerBound, m)
			return alpha
		}
	}

	if flag == UpperBound && origAlpha == alpha {
		s.tt.Store(hash, depth, AdjustScoreToTT(bestScore, ply), UpperBound, board.NullMove)
	} else {
		s.tt.Store(hash, depth, AdjustScoreToTT(bestScore, ply), Exact, bestMove)
	}
	return bestScore
}

// qsearch implements §4.4's quiescence search: a standing-pat bound,
// MVV/LVA-ordered captures with delta pruning, and full check-evasion
// generation when in check (there is no standing pat available to a king
// that is currently attacked).
func (s *Search) qsearch(ply int, alpha, beta Score) Score {
	s.nodes++
	if s.checkStop() {
		return 0
	}
	if ply >= MaxPly-1 {
		return Evaluate(s.pos)
	}

	inCheck := s.pos.InCheck()

	var standPat Score
	if !inCheck {
		standPat = Evaluate(s.pos)
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	all := s.pos.GenerateLegalMoves()
	if all.Len() == 0 {
		if inCheck {
			return FromMateDistance(-ply)
		}
		return Draw
	}

	var moves *board.MoveList
	if inCheck {
		moves = all
	} else {
		moves = &board.MoveList{}
		for i := 0; i < all.Len(); i++ {
			m := all.At(i)
			if isCapture(s.pos, m) || m.Kind() == board.Promotion {
				moves.Add(m)
			}
		}
	}

	scores := ScoreMoves(s.pos, moves, ply, board.NullMove, nil)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.At(i)

		if !inCheck {
			captureValue := 0
			if m.Kind() == board.EnPassant {
				captureValue = materialValue[board.Pawn].eg
			} else if victim := s.pos.PieceAt(m.To()); victim != board.NoPiece {
				captureValue = materialValue[victim.Kind()].eg
			}
			if m.Kind() == board.Promotion {
				captureValue += materialValue[board.Queen].eg - materialValue[board.Pawn].eg
			}
			if Score(int(standPat)+captureValue+deltaPruningMargin) < alpha {
				continue
			}
		}

		s.pos.MakeMove(m)
		score := -s.qsearch(ply+1, -beta, -alpha)
		s.pos.UnmakeMove()

		if s.aborted {
			return 0
		}

		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
