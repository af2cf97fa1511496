//go:build windows

package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// redirectStdIO points the process's standard handles and os.Stdout/Stderr
// at path. The Go runtime writes panics to the STD_ERROR_HANDLE it finds at
// crash time, so that is redirected as well. An empty path does nothing.
func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	h := windows.Handle(f.Fd())
	if err := windows.SetStdHandle(windows.STD_OUTPUT_HANDLE, h); err != nil {
		f.Close()
		return fmt.Errorf("set stdout handle: %w", err)
	}
	if err := windows.SetStdHandle(windows.STD_ERROR_HANDLE, h); err != nil {
		f.Close()
		return fmt.Errorf("set stderr handle: %w", err)
	}
	// f stays open for the life of the process.
	os.Stdout = f
	os.Stderr = f
	return nil
}
