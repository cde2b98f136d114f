// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultScoreCap is the upper bound applied by direct score adjustments.
const DefaultScoreCap = 10500

// Config holds settings shared by the CLI and the HTTP server.
type Config struct {
	DBPath          string   `env:"IQGAME_DB"`
	HTTPAddr        string   `env:"IQGAME_HTTP_ADDR" envDefault:":8080"`
	LogLevel        string   `env:"IQGAME_LOG_LEVEL" envDefault:"info"`
	LogColor        bool     `env:"IQGAME_LOG_COLOR" envDefault:"true"`
	CORSOrigins     []string `env:"IQGAME_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	StrictTurns     bool     `env:"IQGAME_STRICT_TURNS" envDefault:"false"`
	ReleaseOnDelete bool     `env:"IQGAME_RELEASE_ON_DELETE" envDefault:"false"`
	ScoreCap        int      `env:"IQGAME_SCORE_CAP" envDefault:"10500"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load(dotenvPaths ...string) (Config, error) {
	if len(dotenvPaths) == 0 {
		dotenvPaths = []string{".env"}
	}
	for _, p := range dotenvPaths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", p, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that env tags cannot express.
func (c Config) Validate() error {
	if c.ScoreCap <= 0 {
		return fmt.Errorf("IQGAME_SCORE_CAP must be positive, got %d", c.ScoreCap)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
