//go:build !linux

package system

import (
	"context"

	"github.com/rook-computer/d3doverlay/internal/logging"
)

func WatchKeys(ctx context.Context, log logging.Logger, onKey func(KeyEvent)) {
	log.Infof("input", "evdev input is only available on Linux")
}
