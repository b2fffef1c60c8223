package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeBudgetMoveTimeOverridesEverything(t *testing.T) {
	min, max := ComputeBudget(TimeLimits{MoveTime: 500 * time.Millisecond, Clock: time.Minute, HaveClock: true})
	assert.Equal(t, 500*time.Millisecond, min)
	assert.Equal(t, 500*time.Millisecond, max)
}

func TestComputeBudgetInfiniteIsLong(t *testing.T) {
	min, max := ComputeBudget(TimeLimits{Infinite: true})
	assert.Equal(t, time.Hour, min)
	assert.Equal(t, time.Hour, max)
}

func TestComputeBudgetNoClockUsesDefault(t *testing.T) {
	min, max := ComputeBudget(TimeLimits{})
	assert.Equal(t, 2*time.Second, min)
	assert.Equal(t, 2*time.Second, max)
}

func TestComputeBudgetSuddenDeathFormula(t *testing.T) {
	limits := TimeLimits{Clock: 60 * time.Second, Increment: 0, HaveClock: true}
	min, max := ComputeBudget(limits)

	base := 60 * time.Second / 50
	wantMin := base * 3 / 4
	wantMax := wantMin * 3

	assert.Equal(t, wantMin, min)
	assert.Equal(t, wantMax, max)
}

func TestComputeBudgetClampsToClockMinusBuffer(t *testing.T) {
	limits := TimeLimits{Clock: time.Second, MovesToGo: 1, HaveClock: true}
	_, max := ComputeBudget(limits)
	assert.LessOrEqual(t, max, time.Second-50*time.Millisecond)
}

func TestComputeBudgetLowClockGuard(t *testing.T) {
	min, max := ComputeBudget(TimeLimits{Clock: time.Millisecond, HaveClock: true})
	assert.Equal(t, time.Millisecond, min)
	assert.Equal(t, time.Millisecond, max)
}

func TestTimerExpiryFlipsStop(t *testing.T) {
	var stop atomic.Bool
	timer := NewTimer(TimeLimits{MoveTime: 10 * time.Millisecond}, &stop)
	defer timer.Cancel()

	time.Sleep(50 * time.Millisecond)
	assert.True(t, stop.Load())
}

func TestTimerCancelPreventsStop(t *testing.T) {
	var stop atomic.Bool
	timer := NewTimer(TimeLimits{MoveTime: time.Hour}, &stop)
	timer.Cancel()
	assert.False(t, stop.Load())
}

func TestTimerInfiniteNeverArms(t *testing.T) {
	var stop atomic.Bool
	timer := NewTimer(TimeLimits{Infinite: true}, &stop)
	select {
	case <-timer.done:
	default:
		t.Fatal("expected an infinite timer's done channel to already be closed")
	}
	assert.False(t, stop.Load())
}
