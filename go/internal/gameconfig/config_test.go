package gameconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadGatewayConfigDefaults(t *testing.T) {
	t.Setenv("GATEWAY_PORT", "")

	config, err := LoadGatewayConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultGatewayConfig(), config)
}

func TestLoadGatewayConfigFile(t *testing.T) {
	t.Setenv("GATEWAY_PORT", "")
	path := writeFile(t, `
port: "9000"
allowed_origins:
  - https://play.example.com
ping_interval: 15s
`)

	config, err := LoadGatewayConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", config.Port)
	assert.Equal(t, []string{"https://play.example.com"}, config.AllowedOrigins)
	assert.Equal(t, 15*time.Second, config.PingInterval)
	assert.Equal(t, 60*time.Second, config.ReadTimeout)
}

func TestLoadGatewayConfigEnvOverridesPort(t *testing.T) {
	t.Setenv("GATEWAY_PORT", "7070")
	path := writeFile(t, `port: "9000"`)

	config, err := LoadGatewayConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", config.Port)
}

func TestLoadGatewayConfigErrors(t *testing.T) {
	t.Setenv("GATEWAY_PORT", "")

	_, err := LoadGatewayConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = LoadGatewayConfig(writeFile(t, "port: [oops"))
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = LoadGatewayConfig(writeFile(t, "ping_interval: 2m"))
	assert.ErrorContains(t, err, "must be shorter than read timeout")

	_, err = LoadGatewayConfig(writeFile(t, `port: "http"`))
	assert.ErrorContains(t, err, "invalid port")
}

func TestLogConfigSetup(t *testing.T) {
	previous, previousLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(previousLevel)
	})

	var buf bytes.Buffer
	LogConfig{Level: "debug", Format: "json"}.Setup(&buf)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	log.Debug().Str("k", "v").Msg("hello")
	assert.Contains(t, buf.String(), `"message":"hello"`)

	buf.Reset()
	LogConfig{Level: "loud", Format: "json"}.Setup(&buf)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Contains(t, buf.String(), "unknown log level")
}

func TestNewLogConfigFromEnv(t *testing.T) {
	t.Setenv("GUESSWORD_LOG_LEVEL", "warn")
	t.Setenv("GUESSWORD_LOG_FORMAT", "")

	config := NewLogConfigFromEnv()
	assert.Equal(t, LogConfig{Level: "warn", Format: "console"}, config)
}
