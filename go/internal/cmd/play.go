package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mcdev12/guessword/go/internal/game"
)

// announceEvery controls how often the countdown is printed, in seconds.
const announceEvery = 10

// play runs one session on a line-based terminal until the countdown
// finishes, the player quits, input ends or ctx is cancelled. It returns
// the final score.
func play(ctx context.Context, session *game.Session, in io.Reader, out io.Writer) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	commands := make(chan string)
	go readCommands(ctx, in, commands)

	// Observers run on whichever goroutine changed the session; they only
	// signal the loop, which renders from a snapshot.
	changed := make(chan struct{}, 1)
	finished := make(chan struct{}, 1)
	notify := func(ch chan struct{}) {
		select {
		case ch <- struct{}{}:
		default:
		}
	}

	unsubscribes := []func(){
		session.Hint().OnChange(func(string) { notify(changed) }),
		session.Score().OnChange(func(int) { notify(changed) }),
		session.RemainingTime().OnChange(func(sec int) {
			if sec > 0 && sec%announceEvery == 0 {
				notify(changed)
			}
		}),
		session.Finished().OnChange(func(done bool) {
			if done {
				notify(finished)
			}
		}),
	}
	defer func() {
		for _, unsubscribe := range unsubscribes {
			unsubscribe()
		}
	}()
	if session.Finished().Get() {
		notify(finished)
	}

	render(out, session.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return session.Score().Get()

		case <-changed:
			render(out, session.Snapshot())

		case <-finished:
			score := session.Score().Get()
			fmt.Fprintf(out, "Time's up! Final score: %d\n", score)
			session.AcknowledgeFinish()
			return score

		case line, ok := <-commands:
			if !ok {
				return session.Score().Get()
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "c", "correct":
				session.Correct()
			case "s", "skip":
				session.Skip()
			case "q", "quit":
				return session.Score().Get()
			case "":
			default:
				fmt.Fprintln(out, "commands: c = correct, s = skip, q = quit")
			}
		}
	}
}

func readCommands(ctx context.Context, in io.Reader, commands chan<- string) {
	defer close(commands)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case commands <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}

func render(out io.Writer, state game.State) {
	fmt.Fprintf(out, "[%s] score %d | word: %s\n%s\n", state.TimeDisplay, state.Score, state.Word, state.Hint)
}
