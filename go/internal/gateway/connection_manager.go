package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/guessword/go/internal/game"
	"github.com/rs/zerolog/log"
)

// ConnectionManager owns the WebSocket connections, each of which plays
// its own game session.
type ConnectionManager struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	// Upgrader for WebSocket connections
	upgrader websocket.Upgrader

	config ConnectionConfig
}

// Connection is one client socket bound to one game session
type Connection struct {
	ID      string
	Session *game.Session
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	ConnectedAt time.Time

	done         chan struct{}
	closeOnce    sync.Once
	unsubscribes []func()
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool

	// SessionOptions are passed to every game.NewSession call
	SessionOptions []game.Option
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024, // 1KB max message size
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  256,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config: config,
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket and starts a
// fresh game session for it.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	session := game.NewSession(cm.config.SessionOptions...)
	connection := &Connection{
		ID:          uuid.New().String(),
		Session:     session,
		Conn:        conn,
		Send:        make(chan []byte, cm.config.SendBufferSize),
		Manager:     cm,
		ConnectedAt: time.Now(),
		done:        make(chan struct{}),
	}

	// The snapshot goes out before any change event. A change that lands
	// before the observers are in place is caught by a second sync.
	snapshot := session.Snapshot()
	connection.emit(EventTypeStateSync, snapshot)
	connection.subscribe()
	if current := session.Snapshot(); current != snapshot {
		connection.emit(EventTypeStateSync, current)
	}
	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("session_id", session.ID().String()).
		Msg("WebSocket connection established")

	return nil
}

func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.connections[conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Int("total_connections", len(cm.connections)).
		Msg("connection registered")
}

func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.connections[conn]; exists {
		delete(cm.connections, conn)
		log.Info().
			Str("connection_id", conn.ID).
			Str("session_id", conn.Session.ID().String()).
			Msg("connection unregistered")
	}
}

// CloseAll closes every connection and disposes its session.
func (cm *ConnectionManager) CloseAll() {
	cm.mu.RLock()
	targets := make([]*Connection, 0, len(cm.connections))
	for conn := range cm.connections {
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range targets {
		conn.close()
	}
}

// GetConnectionStats returns statistics about active connections
func (cm *ConnectionManager) GetConnectionStats() map[string]interface{} {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	finished := 0
	for conn := range cm.connections {
		if conn.Session.TimerState() != game.TimerRunning {
			finished++
		}
	}

	return map[string]interface{}{
		"total_connections": len(cm.connections),
		"finished_sessions": finished,
	}
}

// subscribe forwards session changes to the client. Observers only queue
// bytes; the write pump does the network I/O.
func (c *Connection) subscribe() {
	s := c.Session
	c.unsubscribes = []func(){
		s.Hint().OnChange(func(hint string) {
			c.emit(EventTypeWordChanged, WordChangedPayload{Word: s.Word().Get(), Hint: hint})
		}),
		s.Score().OnChange(func(score int) {
			c.emit(EventTypeScoreChanged, ScoreChangedPayload{Score: score})
		}),
		s.RemainingTime().OnChange(func(sec int) {
			c.emit(EventTypeTimerTick, TimerTickPayload{TimeRemainingSec: sec, TimeDisplay: s.TimeDisplay().Get()})
		}),
		s.Finished().OnChange(func(finished bool) {
			if finished {
				c.emit(EventTypeGameFinished, GameFinishedPayload{FinalScore: s.Score().Get()})
				return
			}
			c.emit(EventTypeFinishAcknowledged, FinishAcknowledgedPayload{})
		}),
	}
}

func (c *Connection) emit(eventType EventType, payload interface{}) {
	event, err := NewGameEvent(c.Session.ID(), eventType, payload)
	if err != nil {
		log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to build event")
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to marshal event")
		return
	}

	select {
	case c.Send <- data:
	case <-c.done:
	default:
		log.Warn().
			Str("connection_id", c.ID).
			Str("event_type", string(eventType)).
			Msg("connection send buffer full, closing connection")
		c.close()
	}
}

// close tears the connection down once: the session is disposed before
// observers are removed so no tick lands in between.
func (c *Connection) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.Session.Dispose()
		for _, unsubscribe := range c.unsubscribes {
			unsubscribe()
		}
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	})
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump handles reading messages from the WebSocket connection
func (c *Connection) readPump() {
	defer c.close()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			return
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

// handleClientMessage applies a client command to the session
func (c *Connection) handleClientMessage(message []byte) {
	var cmd ClientCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		log.Warn().
			Err(err).
			Str("connection_id", c.ID).
			Msg("ignoring malformed client message")
		return
	}

	switch cmd.Command {
	case CommandSkip:
		c.Session.Skip()
	case CommandCorrect:
		c.Session.Correct()
	case CommandAcknowledge:
		c.Session.AcknowledgeFinish()
	default:
		log.Debug().
			Str("connection_id", c.ID).
			Str("command", cmd.Command).
			Msg("ignoring unknown client command")
	}
}
