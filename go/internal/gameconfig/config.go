package gameconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// GatewayConfig holds the settings of the WebSocket gateway binary.
type GatewayConfig struct {
	Port           string        `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	MaxMessageSize int64         `yaml:"max_message_size"`
	SendBufferSize int           `yaml:"send_buffer_size"`
}

// DefaultGatewayConfig returns the settings used when no file is given.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		Port:           "8081",
		AllowedOrigins: []string{"*"},
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 1024,
		SendBufferSize: 256,
	}
}

// LoadGatewayConfig reads the YAML file at path over the defaults. An
// empty path skips the file. GATEWAY_PORT overrides the port either way.
func LoadGatewayConfig(path string) (GatewayConfig, error) {
	config := DefaultGatewayConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return GatewayConfig{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return GatewayConfig{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.Port = getEnv("GATEWAY_PORT", config.Port)

	if err := config.validate(); err != nil {
		return GatewayConfig{}, err
	}
	return config, nil
}

func (c GatewayConfig) validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Port, err)
	}
	if c.PingInterval <= 0 || c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("timeouts and ping interval must be positive")
	}
	if c.PingInterval >= c.ReadTimeout {
		return fmt.Errorf("ping interval %s must be shorter than read timeout %s", c.PingInterval, c.ReadTimeout)
	}
	if c.MaxMessageSize <= 0 || c.SendBufferSize <= 0 {
		return fmt.Errorf("max message size and send buffer size must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
