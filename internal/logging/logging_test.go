package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerComponentsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewFromCore(core)

	l.Infof("hook", "installed %d hooks", 2)
	l.Debugf("hook", "dropped below level")
	l.Errorf("probe", "attempt %d failed", 3)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].LoggerName != "hook" || entries[0].Message != "installed 2 hooks" {
		t.Errorf("first entry = %q/%q", entries[0].LoggerName, entries[0].Message)
	}
	if entries[1].Level != zapcore.ErrorLevel || entries[1].LoggerName != "probe" {
		t.Errorf("second entry level %v name %q", entries[1].Level, entries[1].LoggerName)
	}
	for _, e := range entries {
		if got := e.ContextMap()[FieldSession]; got != l.Session() {
			t.Errorf("session field = %v, want %s", got, l.Session())
		}
	}
}

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.log")
	var console bytes.Buffer
	l, err := New(Config{Path: path, Console: &console})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Infof("overlay", "ready")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("file entry is not JSON: %v\n%s", err, content)
	}
	if entry[FieldMessage] != "ready" || entry[FieldComponent] != "overlay" {
		t.Errorf("entry = %v", entry)
	}
	if !strings.Contains(console.String(), "ready") {
		t.Errorf("console output %q lacks the message", console.String())
	}
}

func TestWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, false)
	l.Debugf("x", "hidden")
	l.Infof("state", "now %s", "ready")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug line written with debug off")
	}
	if !strings.Contains(out, "[INFO] state: now ready") {
		t.Errorf("output = %q", out)
	}
}
