package main

import (
	"testing"

	"github.com/rook-computer/d3doverlay/internal/overlay"
)

func TestCallsWithoutOverlayAreDropped(t *testing.T) {
	called := false
	withOverlay(func(*overlay.Overlay) { called = true })
	if called {
		t.Error("callback ran with no overlay")
	}
	if process.EnvFile != envFile {
		t.Errorf("env file = %q, want %q", process.EnvFile, envFile)
	}
}

func TestRedirectStdIOEmptyPath(t *testing.T) {
	if err := redirectStdIO(""); err != nil {
		t.Fatalf("redirectStdIO(\"\") = %v", err)
	}
}
