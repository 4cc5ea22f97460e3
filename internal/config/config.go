// Package config loads server settings from an optional .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.alis.build/alog"

	"github.com/ukaji3/xltutor-go/pkg/xltutor/sheet"
)

// Storage drivers accepted in DB_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ErrInvalidConfig indicates a setting that cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the server settings.
type Config struct {
	Port     string
	DBDriver string
	DBDSN    string
	LogLevel string
	MaxDepth int
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:     "5000",
		DBDriver: DriverMemory,
		DBDSN:    "xltutor.db",
		LogLevel: "info",
		MaxDepth: sheet.DefaultMaxDepth,
	}
}

// Load reads the given .env files (".env" when none are named), then the
// environment. A missing .env file is not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, name := range files {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", name, err)
		}
	}

	cfg := Default()
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.DBDriver = strings.ToLower(v)
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DBDSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("MAX_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("%w: MAX_DEPTH=%q", ErrInvalidConfig, v)
		}
		cfg.MaxDepth = n
	}

	return cfg, cfg.Validate()
}

// Validate checks the driver and log level names.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: DB_DRIVER=%q", ErrInvalidConfig, c.DBDriver)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to an alog level.
func ParseLevel(name string) (alog.LogLevel, error) {
	switch strings.ToLower(name) {
	case "debug":
		return alog.LevelDebug, nil
	case "", "info":
		return alog.LevelInfo, nil
	case "warning", "warn":
		return alog.LevelWarning, nil
	case "error":
		return alog.LevelError, nil
	default:
		return alog.LevelInfo, fmt.Errorf("%w: LOG_LEVEL=%q", ErrInvalidConfig, name)
	}
}

// ApplyLogLevel sets the process-wide alog level.
func (c Config) ApplyLogLevel() {
	level, _ := ParseLevel(c.LogLevel)
	alog.SetLevel(level)
}
