package game

// State is a point-in-time copy of everything a session exposes.
type State struct {
	SessionID        string `json:"session_id"`
	Word             string `json:"word"`
	Hint             string `json:"hint"`
	Score            int    `json:"score"`
	TimeRemainingSec int    `json:"time_remaining_sec"`
	TimeDisplay      string `json:"time_display"`
	Finished         bool   `json:"finished"`
	TimerState       string `json:"timer_state"`
}

// Snapshot reads every observable value. It does not take the session
// lock, so it is safe to call from an observer.
func (s *Session) Snapshot() State {
	return State{
		SessionID:        s.id.String(),
		Word:             s.word.Get(),
		Hint:             s.hint.Get(),
		Score:            s.score.Get(),
		TimeRemainingSec: s.remainingTime.Get(),
		TimeDisplay:      s.timeDisplay.Get(),
		Finished:         s.finished.Get(),
		TimerState:       s.TimerState().String(),
	}
}
