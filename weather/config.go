package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

// Config holds the runtime settings of the weather server
type Config struct {
	Transport string        `validate:"oneof=stdio sse http"`
	Host      string        `validate:"required"`
	Port      int           `validate:"min=1,max=65535"`
	APIURL    string        `validate:"required,http_url"`
	UserAgent string        `validate:"required"`
	Timeout   time.Duration `validate:"gt=0"`
	Debug     bool
}

var validate = validator.New()

var debugLogging bool

// debugf logs only when WEATHER_DEBUG is enabled
func debugf(format string, v ...interface{}) {
	if debugLogging {
		log.Printf(format, v...)
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// LoadConfig reads the configuration from the environment, after loading
// any .env files given (or ./.env when none are).
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		debugf("No .env file loaded: %v", err)
	}

	cfg := &Config{
		Transport: strings.ToLower(getEnv("MCP_TRANSPORT", TransportStdio)),
		Host:      getEnv("HOST", "0.0.0.0"),
		APIURL:    getEnv("WEATHER_API_URL", "https://wttr.in"),
		UserAgent: getEnv("WEATHER_USER_AGENT", "Weather-MCP-Server/1.0"),
		Debug:     isTruthy(os.Getenv("WEATHER_DEBUG")),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8081"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.Port = port

	timeout, err := time.ParseDuration(getEnv("WEATHER_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_TIMEOUT: %w", err)
	}
	cfg.Timeout = timeout

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Addr is the listen address used by the HTTP transports
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// setupLogging sends logs to stderr so they never mix with the stdio transport
func setupLogging(debug bool) {
	debugLogging = debug
	log.SetOutput(os.Stderr)
	log.SetPrefix("[weather] ")
}
