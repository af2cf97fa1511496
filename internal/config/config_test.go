package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfigFile, EnvLogPath, EnvDebug, EnvStdioLog, EnvProbeInterval, EnvScript, EnvTickRate} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want %+v", cfg, Default())
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "overlay.yaml")
	yamlBody := "log_path: from-yaml.log\ndebug: true\nprobe_interval: 250ms\ntick_rate: 30\nscript: yaml.lua\n"
	if err := os.WriteFile(yamlPath, []byte(yamlBody), 0o644); err != nil {
		t.Fatal(err)
	}
	envPath := filepath.Join(dir, ".env")
	envBody := EnvConfigFile + "=" + yamlPath + "\n" + EnvTickRate + "=120\n" + EnvScript + "=dotenv.lua\n"
	if err := os.WriteFile(envPath, []byte(envBody), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvScript, "env.lua")

	cfg, err := Load(envPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// godotenv leaves variables it set behind.
	t.Cleanup(func() {
		os.Unsetenv(EnvConfigFile)
		os.Unsetenv(EnvTickRate)
	})

	want := Config{
		LogPath:       "from-yaml.log",
		Debug:         true,
		ProbeInterval: 250 * time.Millisecond,
		ScriptPath:    "env.lua",
		TickRate:      120,
	}
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"debug not bool", EnvDebug, "maybe", EnvDebug + " must be a boolean"},
		{"interval not duration", EnvProbeInterval, "soon", EnvProbeInterval + " must be a duration"},
		{"interval zero", EnvProbeInterval, "0s", "probe interval must be positive"},
		{"tick rate not int", EnvTickRate, "fast", EnvTickRate + " must be an integer"},
		{"tick rate too high", EnvTickRate, "5000", "tick rate must be between"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("tick_rate: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigFile, path)
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("Load() error = %v, want a parse error", err)
	}
}

func TestTickInterval(t *testing.T) {
	cfg := Default()
	cfg.TickRate = 50
	if got := cfg.TickInterval(); got != 20*time.Millisecond {
		t.Errorf("TickInterval() = %v, want 20ms", got)
	}
}
