package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hailam/chessengine/internal/board"
)

// Engine owns the transposition table across searches and coordinates the
// search worker and timer as the two sibling tasks described in §5. The UCI
// front end is the sole caller; Engine is not safe for concurrent Go calls
// from more than one goroutine.
type Engine struct {
	tt      *Table
	options EngineOptions

	stop   atomic.Bool
	ponder atomic.Bool

	mu      sync.Mutex // guards worker/timer handles below
	timer   *Timer
	running bool
	wg      sync.WaitGroup

	OnInfo func(Info)
}

// NewEngine builds an Engine with a freshly sized transposition table.
func NewEngine(opts EngineOptions) *Engine {
	opts.HashMB = ClampHashMB(opts.HashMB)
	return &Engine{
		tt:      NewTable(opts.HashMB),
		options: opts,
	}
}

// SetOptions updates the engine's option snapshot. A changed HashMB resizes
// (and clears) the transposition table; this must only be called while no
// search is running.
func (e *Engine) SetOptions(opts EngineOptions) {
	opts.HashMB = ClampHashMB(opts.HashMB)
	if opts.HashMB != e.options.HashMB {
		e.tt = NewTable(opts.HashMB)
	}
	e.options = opts
}

// Options returns the engine's current option snapshot.
func (e *Engine) Options() EngineOptions { return e.options }

// TranspositionTable exposes the table for internal/storage to snapshot or
// seed; callers must not touch it while a search is running.
func (e *Engine) TranspositionTable() *Table { return e.tt }

// NewGame clears all state tied to the previous game, per UCI "ucinewgame".
func (e *Engine) NewGame() {
	e.tt.Clear()
}

// GoRequest carries a "go" command's tokens, translated from UCI text by
// the caller.
type GoRequest struct {
	Limits      Limits
	Time        TimeLimits
	SearchMoves []board.Move
}

// Go starts the search worker and its sibling timer over a deep clone of
// pos, per §5. infoFn is invoked (from the worker goroutine) once per
// completed depth; doneFn is invoked exactly once, from the worker
// goroutine, with the final result once the worker has fully stopped and
// rejoined its timer.
func (e *Engine) Go(pos *board.Position, req GoRequest, infoFn func(Info), doneFn func(Result)) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true

	e.stop.Store(false)
	e.ponder.Store(req.Time.Ponder)

	clone := pos.Clone()
	timer := NewTimer(req.Time, &e.stop)
	e.timer = timer

	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()

		search := NewSearch(clone, e.tt, &e.stop)
		limits := req.Limits
		limits.SearchMoves = req.SearchMoves

		result := search.IterativeDeepening(limits, timer, infoFn)

		timer.Cancel()

		e.mu.Lock()
		e.running = false
		e.mu.Unlock()

		if doneFn != nil {
			doneFn(result)
		}
	}()
}

// Stop raises the shared stop flag; the worker observes it at its next
// node and returns without completing its in-flight iteration.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// PonderHit clears the ponder flag and restarts the timer at its original
// min/max budget, per §4.6's "ponderhit restarts the clock".
func (e *Engine) PonderHit() {
	e.ponder.Store(false)
	e.mu.Lock()
	t := e.timer
	e.mu.Unlock()
	if t != nil {
		t.Restart()
	}
}

// Wait blocks until the running search (if any) has fully stopped and
// rejoined, per §5's "on engine drop, the worker and timer are joined
// synchronously".
func (e *Engine) Wait() {
	e.wg.Wait()
}

// IsRunning reports whether a search is currently in flight.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Evaluate runs the static evaluator directly on pos.
func (e *Engine) Evaluate(pos *board.Position) Score {
	return Evaluate(pos)
}

// Perft runs board.Perft, exposed here so the UCI front end has one call
// surface for every "go" variant including "go perft <n>".
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return board.Perft(pos, depth)
}

// NodesPerSecond is a small helper for "info ... nps" computation.
func NodesPerSecond(nodes uint64, elapsed time.Duration) uint64 {
	if elapsed <= 0 {
		return 0
	}
	return uint64(float64(nodes) / elapsed.Seconds())
}
