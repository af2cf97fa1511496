//go:build !linux

package system

import "github.com/rook-computer/d3doverlay/internal/logging"

func EnterGraphics(log logging.Logger) (restore func()) { return func() {} }
