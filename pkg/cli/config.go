package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the CLI settings read from the environment, optionally
// seeded from a .env file.
type Config struct {
	Debug       bool
	Debounce    time.Duration
	UpdateRepo  string
	JPEGQuality int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Debounce:    120 * time.Millisecond,
		UpdateRepo:  "Fepozopo/rasterfx",
		JPEGQuality: 92,
	}
}

// LoadConfig loads envFile (a missing file is not an error) and reads the
// RASTERFX_* variables. Existing environment variables win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()
	if v := strings.TrimSpace(getenv("RASTERFX_DEBUG")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("RASTERFX_DEBUG: %w", err)
		}
		cfg.Debug = b
	}
	if v := strings.TrimSpace(getenv("RASTERFX_DEBOUNCE_MS")); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return Config{}, fmt.Errorf("RASTERFX_DEBOUNCE_MS: invalid value %q", v)
		}
		cfg.Debounce = time.Duration(ms) * time.Millisecond
	}
	if v := strings.TrimSpace(getenv("RASTERFX_UPDATE_REPO")); v != "" {
		if strings.Count(v, "/") != 1 {
			return Config{}, fmt.Errorf("RASTERFX_UPDATE_REPO: want owner/name, got %q", v)
		}
		cfg.UpdateRepo = v
	}
	if v := strings.TrimSpace(getenv("RASTERFX_JPEG_QUALITY")); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 || q > 100 {
			return Config{}, fmt.Errorf("RASTERFX_JPEG_QUALITY: want 1-100, got %q", v)
		}
		cfg.JPEGQuality = q
	}
	return cfg, nil
}

// NewLogger returns the stderr logger for cfg: debug records when Debug is
// set, warnings and errors otherwise.
func (c Config) NewLogger() *slog.Logger {
	level := slog.LevelWarn
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
