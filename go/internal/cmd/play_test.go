package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/guessword/go/internal/game"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) (*game.Session, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	session := game.NewSession(game.WithClock(clock), game.WithLogger(zerolog.Nop()))
	t.Cleanup(session.Dispose)
	return session, clock
}

func TestPlayAppliesCommandsUntilQuit(t *testing.T) {
	session, _ := newSession(t)
	var out bytes.Buffer

	score := play(context.Background(), session, strings.NewReader("c\ncorrect\nhelp\n\ns\nq\nc\n"), &out)

	assert.Equal(t, 1, score)
	assert.Equal(t, 1, session.Score().Get())
	assert.Contains(t, out.String(), "[01:00] score 0 | word: ")
	assert.Contains(t, out.String(), "commands: c = correct, s = skip, q = quit")
}

func TestPlayStopsAtEndOfInput(t *testing.T) {
	session, _ := newSession(t)
	var out bytes.Buffer

	score := play(context.Background(), session, strings.NewReader("s\ns\n"), &out)

	assert.Equal(t, -2, score)
}

func TestPlayEndsWhenCountdownFinishes(t *testing.T) {
	session, clock := newSession(t)
	in, writer := io.Pipe()
	t.Cleanup(func() { writer.Close() })

	var out bytes.Buffer
	result := make(chan int, 1)
	go func() {
		result <- play(context.Background(), session, in, &out)
	}()

	pushed := make(chan int, 61)
	unsubscribe := session.RemainingTime().OnChange(func(sec int) { pushed <- sec })
	defer unsubscribe()

	for i := 0; i < 60; i++ {
		clock.Advance(game.TickInterval)
		select {
		case <-pushed:
		case <-time.After(time.Second):
			t.Fatalf("tick %d not delivered", i+1)
		}
	}

	select {
	case score := <-result:
		assert.Equal(t, 0, score)
	case <-time.After(2 * time.Second):
		t.Fatal("play did not return after the countdown finished")
	}

	assert.Contains(t, out.String(), "Time's up! Final score: 0")
	assert.False(t, session.Finished().Get())
	assert.Equal(t, game.TimerAcknowledged, session.TimerState())
}

func TestPlayStopsOnCancel(t *testing.T) {
	session, _ := newSession(t)
	in, writer := io.Pipe()
	t.Cleanup(func() { writer.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan int, 1)
	go func() {
		result <- play(ctx, session, in, io.Discard)
	}()
	cancel()

	select {
	case score := <-result:
		require.Equal(t, 0, score)
	case <-time.After(2 * time.Second):
		t.Fatal("play did not return after cancel")
	}
}
