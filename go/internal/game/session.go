package game

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/guessword/go/internal/countdown"
	"github.com/mcdev12/guessword/go/internal/observable"
	"github.com/mcdev12/guessword/go/internal/wordqueue"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Session holds the state of one play-through: the word queue, the score,
// the 60 second countdown and the finished flag.
//
// Every mutation happens under a single mutex. Observers of the exposed
// values are notified after it is released, one change at a time and in the
// order the changes were made, so an observer may call back into the session
// (Skip, AcknowledgeFinish, Dispose) synchronously. A mutation made while
// another goroutine is delivering notifications is delivered by that
// goroutine, after the change currently being delivered.
type Session struct {
	id     uuid.UUID
	logger zerolog.Logger

	mu          sync.Mutex
	rng         *rand.Rand
	queue       *wordqueue.Queue
	disposed    bool
	state       atomic.Int32
	pending     []func()
	dispatching bool

	word          *observable.Value[string]
	hint          *observable.Value[string]
	score         *observable.Value[int]
	remainingTime *observable.Value[int]
	timeDisplay   *observable.Value[string]
	finished      *observable.Value[bool]

	timer       *countdown.Timer
	disposeOnce sync.Once
}

type options struct {
	clock  countdown.Clock
	logger *zerolog.Logger
	rng    *rand.Rand
}

// Option customizes a Session.
type Option func(*options)

// WithClock drives the countdown from clock instead of the wall clock.
func WithClock(clock countdown.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithLogger sets the diagnostic sink. Defaults to the global zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = &logger }
}

// WithRand sets the random source used for shuffling and hint positions.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// NewSession shuffles the vocabulary, loads the first word and starts the countdown.
func NewSession(opts ...Option) *Session {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.logger == nil {
		o.logger = &log.Logger
	}

	queue := wordqueue.New(o.rng.Shuffle)
	first := queue.Next()
	seconds := int(TotalDuration / time.Second)

	id := uuid.New()
	s := &Session{
		id:            id,
		logger:        o.logger.With().Str("session_id", id.String()).Logger(),
		rng:           o.rng,
		queue:         queue,
		word:          observable.NewValue(first),
		hint:          observable.NewValue(hintFor(o.rng, first)),
		score:         observable.NewValue(0),
		remainingTime: observable.NewValue(seconds),
		timeDisplay:   observable.NewValue(FormatTime(seconds)),
		finished:      observable.NewValue(false),
	}
	s.state.Store(int32(TimerRunning))

	s.timer = countdown.Start(o.clock, countdown.Config{
		Total:      TotalDuration,
		Interval:   TickInterval,
		OnTick:     s.onTick,
		OnComplete: s.onComplete,
	})

	s.logger.Info().
		Int("vocabulary", len(wordqueue.Vocabulary())).
		Dur("duration", TotalDuration).
		Msg("game session started")

	return s
}

// ID identifies the session in logs and on the wire.
func (s *Session) ID() uuid.UUID { return s.id }

// Word is the word currently being guessed.
func (s *Session) Word() *observable.Value[string] { return s.word }

// Hint reveals one random letter of Word. It is recomputed exactly once per
// word change and stored before Word observers are notified.
func (s *Session) Hint() *observable.Value[string] { return s.hint }

func (s *Session) Score() *observable.Value[int] { return s.score }

// RemainingTime is the number of whole seconds left on the countdown.
func (s *Session) RemainingTime() *observable.Value[int] { return s.remainingTime }

// TimeDisplay is RemainingTime formatted as MM:SS.
func (s *Session) TimeDisplay() *observable.Value[string] { return s.timeDisplay }

// Finished becomes true once, when the countdown reaches zero.
func (s *Session) Finished() *observable.Value[bool] { return s.finished }

// TimerState reports where the countdown is in its lifecycle.
func (s *Session) TimerState() TimerState {
	return TimerState(s.state.Load())
}

// Skip costs a point and moves on to the next word. It is allowed at any
// time, including after the game has finished.
func (s *Session) Skip() {
	s.mu.Lock()
	s.notify(s.score.Update(s.score.Get() - 1))
	s.nextWord()
	s.unlockAndDispatch()
}

// Correct scores a point and moves on to the next word.
func (s *Session) Correct() {
	s.mu.Lock()
	s.notify(s.score.Update(s.score.Get() + 1))
	s.nextWord()
	s.unlockAndDispatch()
}

// nextWord must be called with mu held.
func (s *Session) nextWord() {
	word := s.queue.Next()
	s.notify(s.word.Update(word))
	s.notify(s.hint.Update(hintFor(s.rng, word)))
}

// setRemaining must be called with mu held.
func (s *Session) setRemaining(seconds int) {
	s.notify(s.remainingTime.Update(seconds))
	s.notify(s.timeDisplay.Update(FormatTime(seconds)))
}

// notify queues a delivery; mu must be held.
func (s *Session) notify(deliver func()) {
	s.pending = append(s.pending, deliver)
}

// unlockAndDispatch releases mu and delivers queued notifications. Only one
// goroutine dispatches at a time; the others leave their notifications to it.
func (s *Session) unlockAndDispatch() {
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	defer func() {
		s.dispatching = false
		s.mu.Unlock()
	}()

	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()
		for _, deliver := range batch {
			deliver()
		}
		s.mu.Lock()
	}
}

// AcknowledgeFinish clears the finished flag. The countdown is never restarted.
func (s *Session) AcknowledgeFinish() {
	s.mu.Lock()
	if s.finished.Get() {
		s.notify(s.finished.Update(false))
		s.state.CompareAndSwap(int32(TimerFinished), int32(TimerAcknowledged))
	}
	s.unlockAndDispatch()
}

// Dispose stops the countdown. A tick already in flight is dropped.
// It sends no notifications and may be called from an observer.
// Calling Dispose more than once is safe.
func (s *Session) Dispose() {
	s.disposeOnce.Do(func() {
		s.mu.Lock()
		s.disposed = true
		s.state.CompareAndSwap(int32(TimerRunning), int32(TimerCancelled))
		score := s.score.Get()
		s.mu.Unlock()

		s.timer.Stop()

		s.logger.Info().
			Int("score", score).
			Str("timer_state", s.TimerState().String()).
			Msg("game session disposed")
	})
}

// TimerDone is closed when the countdown goroutine has exited.
func (s *Session) TimerDone() <-chan struct{} {
	return s.timer.Done()
}

func (s *Session) onTick(remaining time.Duration) {
	s.mu.Lock()
	if !s.disposed {
		s.setRemaining(int(remaining / time.Second))
	}
	s.unlockAndDispatch()
}

func (s *Session) onComplete() {
	s.mu.Lock()
	if s.disposed {
		s.unlockAndDispatch()
		return
	}
	s.setRemaining(Done)
	s.state.Store(int32(TimerFinished))
	s.notify(s.finished.Update(true))
	score := s.score.Get()
	s.unlockAndDispatch()

	s.logger.Debug().Int("score", score).Msg("countdown finished")
}
