//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/rook-computer/d3doverlay/internal/logging"
)

// WatchKeys reads evdev devices under /dev/input/event* and calls onKey for
// every mapped key press until ctx is done. It is best-effort: without input
// devices it logs and returns. onKey may be called from several goroutines.
func WatchKeys(ctx context.Context, log logging.Logger, onKey func(KeyEvent)) {
	if onKey == nil {
		return
	}
	tvSize := binary.Size(unix.Timeval{})

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		log.Infof("input", "no evdev devices found")
		return
	}
	for _, path := range paths {
		go watchDevice(ctx, log, path, tvSize, onKey)
	}
}

func watchDevice(ctx context.Context, log logging.Logger, path string, tvSize int, onKey func(KeyEvent)) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		log.Debugf("input", "open %s: %v", path, err)
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		for _, ev := range parseEvents(buf[:n], tvSize) {
			onKey(ev)
		}
	}
}
