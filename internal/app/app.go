// Package app wires configuration, logging, the overlay and the script driver
// into one unit with a Start/Stop lifecycle.
package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/d3doverlay/internal/config"
	"github.com/rook-computer/d3doverlay/internal/logging"
	"github.com/rook-computer/d3doverlay/internal/overlay"
	"github.com/rook-computer/d3doverlay/internal/script"
)

type App struct {
	Config  config.Config
	Logger  logging.Logger
	Overlay *overlay.Overlay
	Script  *script.Runner
	// ScriptSource is run when Config.ScriptPath is empty.
	ScriptSource string

	started atomic.Bool
	stopped atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(cfg config.Config, deps overlay.Deps, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	ov := overlay.New(deps,
		overlay.WithLogger(logger),
		overlay.WithRetryInterval(cfg.ProbeInterval),
	)
	return &App{Config: cfg, Logger: logger, Overlay: ov}
}

// Start begins installing the overlay and, when a script is configured,
// starts ticking it. It does not block. Only the first call has an effect.
func (app *App) Start(ctx context.Context) error {
	if !app.started.CompareAndSwap(false, true) {
		return nil
	}
	app.Overlay.Start()

	if app.Config.ScriptPath == "" && app.ScriptSource == "" {
		return nil
	}
	runner := script.NewRunner(app.Overlay, app.Logger)
	name := app.Config.ScriptPath
	var err error
	if name != "" {
		err = runner.LoadFile(name)
	} else {
		name = "built-in script"
		err = runner.LoadString(app.ScriptSource)
	}
	if err != nil {
		runner.Close()
		app.Logger.Errorf("script", "%v", err)
		return fmt.Errorf("start script: %w", err)
	}
	app.Script = runner
	app.Logger.Infof("script", "running %s at %d ticks/s", name, app.Config.TickRate)

	loopCtx, cancel := context.WithCancel(ctx)
	app.cancel = cancel
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		runner.Run(loopCtx, app.Config.TickInterval())
	}()
	return nil
}

// Stop ends the script loop and shuts the overlay down. Later calls do
// nothing.
func (app *App) Stop() error {
	if !app.stopped.CompareAndSwap(false, true) {
		return nil
	}
	if app.cancel != nil {
		app.cancel()
	}
	app.wg.Wait()
	if app.Script != nil {
		app.Script.Close()
	}
	app.Overlay.Shutdown()
	return nil
}

// NewLogger builds the zap logger described by cfg.
func NewLogger(cfg config.Config) (*logging.ZapLogger, error) {
	return logging.New(logging.Config{
		Path:   cfg.LogPath,
		Debug:  cfg.Debug,
		Rotate: logging.DefaultFileWriterConfig(),
	})
}
