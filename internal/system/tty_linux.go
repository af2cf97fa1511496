//go:build linux

package system

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/rook-computer/d3doverlay/internal/logging"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

// Prefer the active VT, fall back to tty0.
var ttyPaths = []string{"/dev/tty", "/dev/tty0"}

func setConsoleMode(mode int) error {
	var lastErr error
	for _, p := range ttyPaths {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			lastErr = fmt.Errorf("open %s: %w", p, err)
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		unix.Close(fd)
		if err != nil {
			lastErr = fmt.Errorf("KDSETMODE %d on %s: %w", mode, p, err)
			continue
		}
		return nil
	}
	return lastErr
}

func writeVT(s string) error {
	var lastErr error
	for _, p := range ttyPaths {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = f.WriteString(s)
		f.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("write VT: %w", lastErr)
}

// EnterGraphics switches the console to graphics mode and hides the cursor
// so the framebuffer is not drawn over. The returned func undoes both.
func EnterGraphics(log logging.Logger) (restore func()) {
	if err := setConsoleMode(kdGraphics); err != nil {
		log.Errorf("tty", "KD_GRAPHICS failed: %v", err)
	} else {
		log.Infof("tty", "KD_GRAPHICS set")
	}
	if err := writeVT("\x1b[?25l"); err != nil {
		log.Debugf("tty", "hide cursor: %v", err)
	}
	return func() {
		if err := writeVT("\x1b[?25h"); err != nil {
			log.Debugf("tty", "show cursor: %v", err)
		}
		if err := setConsoleMode(kdText); err != nil {
			log.Errorf("tty", "KD_TEXT failed: %v", err)
		}
	}
}
