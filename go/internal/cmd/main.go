package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mcdev12/guessword/go/internal/game"
	"github.com/mcdev12/guessword/go/internal/gameconfig"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	gameconfig.NewLogConfigFromEnv().Setup(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := game.NewSession()
	defer session.Dispose()

	fmt.Println("Guess the word! Enter c for correct, s to skip, q to quit.")
	score := play(ctx, session, os.Stdin, os.Stdout)

	log.Info().Int("score", score).Msg("game over")
}
