package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rook-computer/d3doverlay/internal/config"
	"github.com/rook-computer/d3doverlay/internal/logging"
	"github.com/rook-computer/d3doverlay/internal/overlay"
)

// DepsFunc builds the overlay's collaborators for a loaded configuration.
type DepsFunc func(cfg config.Config) (overlay.Deps, error)

// Process is the one overlay a loaded module owns. Host module loaders call
// Init and Shutdown from arbitrary threads, possibly more than once.
type Process struct {
	EnvFile string
	NewDeps DepsFunc
	// OnConfig runs after the configuration is loaded, before logging starts.
	OnConfig func(cfg config.Config)

	mu     sync.Mutex
	app    *App
	logger *logging.ZapLogger
}

func NewProcess(envFile string, newDeps DepsFunc) *Process {
	return &Process{EnvFile: envFile, NewDeps: newDeps}
}

// Init loads configuration and starts an overlay. It does nothing while one
// is already running.
func (p *Process) Init(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.app != nil {
		return nil
	}

	cfg, err := config.Load(p.EnvFile)
	if err != nil {
		return err
	}
	if p.OnConfig != nil {
		p.OnConfig(cfg)
	}
	logger, err := NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	deps, err := p.NewDeps(cfg)
	if err != nil {
		logger.Errorf("process", "native dependencies: %v", err)
		_ = logger.Close()
		return err
	}

	a := New(cfg, deps, logger)
	if err := a.Start(ctx); err != nil {
		_ = a.Stop()
		_ = logger.Close()
		return err
	}
	logger.Infof("process", "overlay started")
	p.app, p.logger = a, logger
	return nil
}

// Shutdown stops the running overlay, if any. A later Init starts a fresh one.
func (p *Process) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.app == nil {
		return
	}
	_ = p.app.Stop()
	p.logger.Infof("process", "overlay stopped")
	_ = p.logger.Close()
	p.app, p.logger = nil, nil
}

// Overlay is the running overlay, or nil outside Init/Shutdown.
func (p *Process) Overlay() *overlay.Overlay {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.app == nil {
		return nil
	}
	return p.app.Overlay
}
