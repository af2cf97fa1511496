// Package config loads overlay settings from an optional .env file, an
// optional YAML file and OVERLAY_* environment variables, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigFile    = "OVERLAY_CONFIG"
	EnvLogPath       = "OVERLAY_LOG"
	EnvDebug         = "OVERLAY_DEBUG"
	EnvStdioLog      = "OVERLAY_STDIO_LOG"
	EnvProbeInterval = "OVERLAY_PROBE_INTERVAL"
	EnvScript        = "OVERLAY_SCRIPT"
	EnvTickRate      = "OVERLAY_TICK_RATE"
)

const maxTickRate = 1000

type Config struct {
	// LogPath is the JSON log file. Empty disables file logging.
	LogPath string `yaml:"log_path"`
	Debug   bool   `yaml:"debug"`
	// StdioLog receives the process's stdout and stderr when set.
	StdioLog      string        `yaml:"stdio_log"`
	ProbeInterval time.Duration `yaml:"probe_interval"`
	// ScriptPath is a Lua driver script run against the overlay.
	ScriptPath string `yaml:"script"`
	// TickRate is how many times per second the script's tick runs.
	TickRate int `yaml:"tick_rate"`
}

func Default() Config {
	return Config{
		LogPath:       "d3doverlay.log",
		ProbeInterval: 100 * time.Millisecond,
		TickRate:      60,
	}
}

// Load builds the configuration. envFile names a dotenv file to read first;
// a missing file is not an error. Variables already in the environment win
// over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := readYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvLogPath); ok {
		cfg.LogPath = v
	}
	if v, ok := os.LookupEnv(EnvStdioLog); ok {
		cfg.StdioLog = v
	}
	if v, ok := os.LookupEnv(EnvScript); ok {
		cfg.ScriptPath = v
	}
	if raw := os.Getenv(EnvDebug); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s must be a boolean (got %q): %w", EnvDebug, raw, err)
		}
		cfg.Debug = parsed
	}
	if raw := os.Getenv(EnvProbeInterval); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%s must be a duration (got %q): %w", EnvProbeInterval, raw, err)
		}
		cfg.ProbeInterval = parsed
	}
	if raw := os.Getenv(EnvTickRate); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s must be an integer (got %q): %w", EnvTickRate, raw, err)
		}
		cfg.TickRate = parsed
	}
	return nil
}

func (c Config) Validate() error {
	if c.ProbeInterval <= 0 {
		return fmt.Errorf("probe interval must be positive, got %s", c.ProbeInterval)
	}
	if c.TickRate < 1 || c.TickRate > maxTickRate {
		return fmt.Errorf("tick rate must be between 1 and %d, got %d", maxTickRate, c.TickRate)
	}
	return nil
}

// TickInterval is the pause between script ticks.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
