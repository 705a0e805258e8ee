package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueMicrotaskFIFOOrder(t *testing.T) {
	s := New()
	var order []int

	s.EnqueueMicrotask(func() { order = append(order, 1) })
	s.EnqueueMicrotask(func() { order = append(order, 2) })
	s.EnqueueMicrotask(func() { order = append(order, 3) })

	s.RunMicrotasks()
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestMicrotaskQueuedDuringDrainAlsoRuns(t *testing.T) {
	s := New()
	var order []int

	s.EnqueueMicrotask(func() {
		order = append(order, 1)
		s.EnqueueMicrotask(func() { order = append(order, 2) })
	})

	s.RunMicrotasks()
	assert.Equal(t, []int{1, 2}, order)
}

func TestTimersRunInDelayOrderThenInsertionOrder(t *testing.T) {
	s := New()
	var order []string

	s.ScheduleTimer(10, func() { order = append(order, "b") })
	s.ScheduleTimer(0, func() { order = append(order, "a") })
	s.ScheduleTimer(10, func() { order = append(order, "c") })

	s.Run()
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestCancelTimerPreventsExecution(t *testing.T) {
	s := New()
	ran := false
	id := s.ScheduleTimer(0, func() { ran = true })

	require.True(t, s.CancelTimer(id))
	assert.False(t, s.CancelTimer(id), "cancelling twice should report not-found")

	s.Run()
	assert.False(t, ran)
}

func TestRunDrainsMicrotasksBetweenEachTimer(t *testing.T) {
	s := New()
	var order []string

	s.ScheduleTimer(0, func() {
		order = append(order, "timer1")
		s.EnqueueMicrotask(func() { order = append(order, "micro-from-timer1") })
	})
	s.ScheduleTimer(1, func() { order = append(order, "timer2") })

	s.Run()
	assert.Equal(t, []string{"timer1", "micro-from-timer1", "timer2"}, order)
}

func TestIdleReflectsQueueState(t *testing.T) {
	s := New()
	assert.True(t, s.Idle())

	s.ScheduleTimer(0, func() {})
	assert.False(t, s.Idle())

	s.Run()
	assert.True(t, s.Idle())
}

func TestRunUntilZeroDeadlineDrainsFully(t *testing.T) {
	s := New()
	ran := 0
	for i := 0; i < 5; i++ {
		s.ScheduleTimer(int64(i), func() { ran++ })
	}

	assert.True(t, s.RunUntil(time.Time{}))
	assert.Equal(t, 5, ran)
	assert.True(t, s.Idle())
}

func TestRunUntilPastDeadlineStopsEarly(t *testing.T) {
	s := New()
	ran := 0
	s.ScheduleTimer(0, func() { ran++ })
	s.ScheduleTimer(1, func() { ran++ })

	past := time.Now().Add(-time.Hour)
	assert.False(t, s.RunUntil(past))
	assert.False(t, s.Idle(), "tasks queued past the deadline should remain pending")
}

func TestClearDiscardsAllPendingWork(t *testing.T) {
	s := New()
	ran := false
	s.EnqueueMicrotask(func() { ran = true })
	s.ScheduleTimer(0, func() { ran = true })

	s.Clear()
	assert.True(t, s.Idle())

	s.Run()
	assert.False(t, ran, "cleared tasks must never execute")
}
