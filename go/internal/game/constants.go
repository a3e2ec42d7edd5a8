package game

import "time"

const (
	// Done is the remaining time reported once the countdown has finished.
	Done = 0
	// TickInterval is the gap between two countdown ticks.
	TickInterval = time.Second
	// TotalDuration is the length of one round.
	TotalDuration = 60 * time.Second
)

// TimerState tracks the countdown of a session. Transitions only move forward.
type TimerState int32

const (
	TimerRunning TimerState = iota
	TimerFinished
	TimerAcknowledged
	// TimerCancelled means the session was disposed before the countdown finished.
	TimerCancelled
)

func (s TimerState) String() string {
	switch s {
	case TimerRunning:
		return "running"
	case TimerFinished:
		return "finished"
	case TimerAcknowledged:
		return "acknowledged"
	case TimerCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
