//go:build !windows

package hook

// NewEngine returns the engine for this platform.
func NewEngine() Engine { return Unsupported{} }
