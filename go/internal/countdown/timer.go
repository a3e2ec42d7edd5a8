package countdown

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the interface we use for time operations.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) clockwork.Ticker
}

// Config describes one countdown run. Total should be a whole number of Intervals.
type Config struct {
	Total    time.Duration
	Interval time.Duration

	// OnTick is called with the time left, rounded up to a whole Interval,
	// after every tick except the last. Ticks dropped by a slow receiver are
	// skipped, so consecutive calls may differ by more than one Interval.
	OnTick func(remaining time.Duration)
	// OnComplete is called on the last tick, after which the timer stops for good.
	OnComplete func()
}

// Timer counts down from Config.Total in Config.Interval steps. Callbacks
// are delivered one at a time from a single goroutine.
type Timer struct {
	cfg    Config
	clock  Clock
	start  time.Time
	ticker clockwork.Ticker

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Start arms the ticker and begins counting down. The ticker is created
// before Start returns, so a fake clock advanced right afterwards fires it.
func Start(clock Clock, cfg Config) *Timer {
	if cfg.OnTick == nil {
		cfg.OnTick = func(time.Duration) {}
	}
	if cfg.OnComplete == nil {
		cfg.OnComplete = func() {}
	}

	t := &Timer{
		cfg:    cfg,
		clock:  clock,
		start:  clock.Now(),
		ticker: clock.NewTicker(cfg.Interval),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *Timer) run() {
	defer close(t.done)
	defer t.ticker.Stop()

	last := t.cfg.Total
	for {
		select {
		case <-t.stopCh:
			return
		case <-t.ticker.Chan():
			// Stop may race with a ready tick; never deliver after Stop.
			select {
			case <-t.stopCh:
				return
			default:
			}

			remaining := t.Remaining()
			if remaining <= 0 {
				t.cfg.OnComplete()
				return
			}
			if remaining == last {
				continue
			}
			last = remaining
			t.cfg.OnTick(remaining)
		}
	}
}

// Remaining is the time left measured from the clock, rounded up to a
// whole Interval and never negative.
func (t *Timer) Remaining() time.Duration {
	left := t.cfg.Total - t.clock.Now().Sub(t.start)
	if left <= 0 {
		return 0
	}
	return (left + t.cfg.Interval - 1) / t.cfg.Interval * t.cfg.Interval
}

// Stop cancels any pending tick. Safe to call more than once and after completion.
func (t *Timer) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
	})
}

// Done is closed once the timer goroutine has exited, either through Stop
// or after OnComplete returned.
func (t *Timer) Done() <-chan struct{} {
	return t.done
}
