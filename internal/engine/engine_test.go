package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessengine/internal/board"
)

func TestEngineGoInvokesDoneFn(t *testing.T) {
	eng := NewEngine(EngineOptions{HashMB: 1})
	pos := board.NewPosition()

	var wg sync.WaitGroup
	wg.Add(1)
	var result Result
	eng.Go(pos, GoRequest{Time: TimeLimits{MoveTime: 30 * time.Millisecond}}, nil, func(r Result) {
		result = r
		wg.Done()
	})
	wg.Wait()

	assert.False(t, result.Best.IsNull())
	assert.False(t, eng.IsRunning())
}

func TestEngineRejectsConcurrentGo(t *testing.T) {
	eng := NewEngine(EngineOptions{HashMB: 1})
	pos := board.NewPosition()

	var wg sync.WaitGroup
	wg.Add(1)
	eng.Go(pos, GoRequest{Time: TimeLimits{MoveTime: 50 * time.Millisecond}}, nil, func(Result) {
		wg.Done()
	})

	require.True(t, eng.IsRunning())

	called := false
	eng.Go(pos, GoRequest{Time: TimeLimits{MoveTime: time.Millisecond}}, nil, func(Result) {
		called = true
	})
	assert.False(t, called, "a second concurrent Go must be ignored")

	wg.Wait()
	eng.Wait()
}

func TestEngineStopEndsSearchEarly(t *testing.T) {
	eng := NewEngine(EngineOptions{HashMB: 1})
	pos := board.NewPosition()

	var wg sync.WaitGroup
	wg.Add(1)
	start := time.Now()
	eng.Go(pos, GoRequest{Time: TimeLimits{Infinite: true}}, nil, func(Result) {
		wg.Done()
	})
	time.Sleep(10 * time.Millisecond)
	eng.Stop()
	wg.Wait()

	assert.Less(t, time.Since(start), time.Second)
}

func TestEngineNewGameClearsTable(t *testing.T) {
	eng := NewEngine(EngineOptions{HashMB: 1})
	eng.tt.Store(1, 5, Draw, Exact, board.NullMove)
	eng.NewGame()
	_, found := eng.tt.Probe(1)
	assert.False(t, found)
}

func TestEngineSetOptionsResizesTableOnHashChange(t *testing.T) {
	eng := NewEngine(EngineOptions{HashMB: 1})
	before := eng.tt.NumBuckets()
	eng.SetOptions(EngineOptions{HashMB: 4})
	after := eng.tt.NumBuckets()
	assert.Greater(t, after, before)
}

func TestNodesPerSecond(t *testing.T) {
	assert.Equal(t, uint64(0), NodesPerSecond(100, 0))
	assert.Equal(t, uint64(1000), NodesPerSecond(1000, time.Second))
}
