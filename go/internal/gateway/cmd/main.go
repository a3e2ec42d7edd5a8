package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mcdev12/guessword/go/internal/gameconfig"
	"github.com/mcdev12/guessword/go/internal/gateway"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	gameconfig.NewLogConfigFromEnv().Setup(os.Stderr)

	config, err := gameconfig.LoadGatewayConfig(os.Getenv("GATEWAY_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load gateway config")
	}

	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.AllowedOrigins = config.AllowedOrigins
	gatewayConfig.ConnectionConfig.WriteTimeout = config.WriteTimeout
	gatewayConfig.ConnectionConfig.ReadTimeout = config.ReadTimeout
	gatewayConfig.ConnectionConfig.PingInterval = config.PingInterval
	gatewayConfig.ConnectionConfig.MaxMessageSize = config.MaxMessageSize
	gatewayConfig.ConnectionConfig.SendBufferSize = config.SendBufferSize

	gatewayService := gateway.NewService(gatewayConfig)

	mux := http.NewServeMux()
	mux.Handle("/", gatewayService.Handler())
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gatewayService.GetStats())
	})

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", config.Port),
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	log.Info().
		Str("port", config.Port).
		Strs("allowed_origins", config.AllowedOrigins).
		Msg("starting game gateway")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serviceDone := make(chan struct{})
	go func() {
		defer close(serviceDone)
		if err := gatewayService.Start(ctx); err != nil {
			log.Error().Err(err).Msg("gateway service failed")
		}
	}()

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Hijacked WebSocket connections are not tracked by Shutdown; the service closes them
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	cancel()
	<-serviceDone

	log.Info().Msg("game gateway shutdown complete")
}
