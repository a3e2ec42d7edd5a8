package countdown

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = time.Second

type recorder struct {
	ticks    chan time.Duration
	complete chan struct{}
}

func newRecorder() *recorder {
	return &recorder{
		ticks:    make(chan time.Duration, 128),
		complete: make(chan struct{}, 1),
	}
}

func (r *recorder) config(total time.Duration) Config {
	return Config{
		Total:      total,
		Interval:   time.Second,
		OnTick:     func(remaining time.Duration) { r.ticks <- remaining },
		OnComplete: func() { r.complete <- struct{}{} },
	}
}

func (r *recorder) nextTick(t *testing.T) time.Duration {
	t.Helper()
	select {
	case d := <-r.ticks:
		return d
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for tick")
		return 0
	}
}

func TestTimerTicksDownAndCompletes(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newRecorder()
	timer := Start(clock, rec.config(5*time.Second))

	for want := 4; want >= 1; want-- {
		clock.Advance(time.Second)
		assert.Equal(t, time.Duration(want)*time.Second, rec.nextTick(t))
	}

	clock.Advance(time.Second)
	select {
	case <-rec.complete:
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for completion")
	}

	select {
	case <-timer.Done():
	case <-time.After(waitFor):
		t.Fatal("timer goroutine did not exit")
	}

	clock.Advance(10 * time.Second)
	assert.Empty(t, rec.ticks)
	assert.Empty(t, rec.complete)
}

func TestTimerStopCancelsPendingTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newRecorder()
	timer := Start(clock, rec.config(60*time.Second))

	clock.Advance(time.Second)
	require.Equal(t, 59*time.Second, rec.nextTick(t))

	timer.Stop()
	timer.Stop()

	select {
	case <-timer.Done():
	case <-time.After(waitFor):
		t.Fatal("timer goroutine did not exit")
	}

	clock.Advance(5 * time.Second)
	assert.Empty(t, rec.ticks)
	assert.Empty(t, rec.complete)
}

func TestTimerNilCallbacks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := Start(clock, Config{Total: time.Second, Interval: time.Second})

	clock.Advance(time.Second)
	select {
	case <-timer.Done():
	case <-time.After(waitFor):
		t.Fatal("timer goroutine did not exit")
	}
	timer.Stop()
}

func TestTimerCompletesOnScheduleWithSlowReceiver(t *testing.T) {
	clock := clockwork.NewFakeClock()
	complete := make(chan struct{}, 1)
	var ticks []time.Duration

	timer := Start(clock, Config{
		Total:    60 * time.Second,
		Interval: time.Second,
		OnTick: func(remaining time.Duration) {
			ticks = append(ticks, remaining)
			time.Sleep(3 * time.Millisecond)
		},
		OnComplete: func() { complete <- struct{}{} },
	})

	for i := 0; i < 60; i++ {
		clock.Advance(time.Second)
	}

	select {
	case <-complete:
	case <-time.After(waitFor):
		t.Fatalf("countdown not finished after 60s of virtual time, remaining %s", timer.Remaining())
	}
	<-timer.Done()

	assert.Equal(t, time.Duration(0), timer.Remaining())
	for i := 1; i < len(ticks); i++ {
		assert.Less(t, ticks[i], ticks[i-1])
	}
}

func TestTimerRemainingRoundsUpToInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := Start(clock, Config{Total: 10 * time.Second, Interval: time.Second})
	defer timer.Stop()

	assert.Equal(t, 10*time.Second, timer.Remaining())
	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, 9*time.Second, timer.Remaining())
	clock.Advance(8500 * time.Millisecond)
	assert.Equal(t, time.Duration(0), timer.Remaining())
}
