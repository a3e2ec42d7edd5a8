package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/guessword/go/internal/game"
)

// GameEvent is the envelope of every message pushed to a client
type GameEvent struct {
	ID        string          `json:"id"`         // Event UUID
	SessionID string          `json:"session_id"` // Game session UUID
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType represents the type of game event
type EventType string

const (
	EventTypeStateSync          EventType = "StateSync"
	EventTypeWordChanged        EventType = "WordChanged"
	EventTypeScoreChanged       EventType = "ScoreChanged"
	EventTypeTimerTick          EventType = "TimerTick"
	EventTypeGameFinished       EventType = "GameFinished"
	EventTypeFinishAcknowledged EventType = "FinishAcknowledged"
)

// WordChangedPayload is sent whenever a new word (and its hint) is dealt
type WordChangedPayload struct {
	Word string `json:"word"`
	Hint string `json:"hint"`
}

type ScoreChangedPayload struct {
	Score int `json:"score"`
}

// TimerTickPayload contains the once-per-second countdown update
type TimerTickPayload struct {
	TimeRemainingSec int    `json:"time_remaining_sec"`
	TimeDisplay      string `json:"time_display"`
}

type GameFinishedPayload struct {
	FinalScore int `json:"final_score"`
}

type FinishAcknowledgedPayload struct{}

// ClientCommand is the only message a client sends
type ClientCommand struct {
	Command string `json:"command"`
}

const (
	CommandSkip        = "skip"
	CommandCorrect     = "correct"
	CommandAcknowledge = "acknowledge"
)

// NewGameEvent wraps payload in an envelope stamped with a fresh ID.
func NewGameEvent(sessionID uuid.UUID, eventType EventType, payload interface{}) (*GameEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &GameEvent{
		ID:        uuid.New().String(),
		SessionID: sessionID.String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}

// ParseEventPayload parses event data into the appropriate payload struct
func ParseEventPayload(event *GameEvent) (interface{}, error) {
	switch event.Type {
	case EventTypeStateSync:
		var payload game.State
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeWordChanged:
		var payload WordChangedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeScoreChanged:
		var payload ScoreChangedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeTimerTick:
		var payload TimerTickPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeGameFinished:
		var payload GameFinishedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeFinishAcknowledged:
		return FinishAcknowledgedPayload{}, nil

	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
}
