package gateway

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// Service is the game gateway: it serves one game session per WebSocket connection
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	allowedOrigins    []string
}

// Config holds configuration for the game gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	AllowedOrigins   []string
}

// DefaultConfig returns default configuration for the game gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		AllowedOrigins:   []string{"*"},
	}
}

// NewService creates a new game gateway service
func NewService(config Config) *Service {
	if len(config.AllowedOrigins) > 0 {
		config.ConnectionConfig.CheckOrigin = originChecker(config.AllowedOrigins)
	}
	connectionManager := NewConnectionManager(config.ConnectionConfig)

	return &Service{
		connectionManager: connectionManager,
		wsHandler:         NewWebSocketHandler(connectionManager),
		allowedOrigins:    config.AllowedOrigins,
	}
}

// Start blocks until ctx is cancelled, then closes every open game.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting game gateway service")

	<-ctx.Done()

	log.Info().Msg("game gateway service shutting down")
	s.Stop()
	return nil
}

// Stop disposes every session and closes its connection
func (s *Service) Stop() {
	s.connectionManager.CloseAll()
	log.Info().Msg("game gateway service stopped")
}

// RegisterRoutes registers the WebSocket HTTP routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	log.Info().Msg("game gateway routes registered")
}

// Handler returns the gateway routes wrapped in CORS handling
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
		},
		AllowedOrigins: s.allowedOrigins,
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(mux)
}

// originChecker accepts requests without an Origin header (non-browser
// clients) and those whose origin is listed; "*" accepts everything.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() map[string]interface{} {
	stats := s.connectionManager.GetConnectionStats()
	stats["service"] = "game_gateway"
	return stats
}
