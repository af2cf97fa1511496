// Package overlay injects an immediate-mode UI into a Direct3D 9 host. It
// intercepts the device's present and reset entry points, brings up its
// renderer inside the first intercepted present, and hands finished frames
// from the driver to the host's render thread.
package overlay

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/d3doverlay/internal/d3d9"
	"github.com/rook-computer/d3doverlay/internal/hook"
	"github.com/rook-computer/d3doverlay/internal/logging"
	"github.com/rook-computer/d3doverlay/internal/state"
	"github.com/rook-computer/d3doverlay/internal/ui"
	"github.com/rook-computer/d3doverlay/internal/winproc"
)

const DefaultRetryInterval = 100 * time.Millisecond

// Prober finds the entry points to intercept.
type Prober interface {
	Probe() (d3d9.Addresses, error)
}

// Renderer draws finished frames on the host device.
type Renderer interface {
	Init(dev d3d9.Device) error
	Shutdown()
	InvalidateDeviceObjects()
	CreateDeviceObjects(dev d3d9.Device) error
	RenderDrawData(dev d3d9.Device, dd *ui.DrawData) error
}

// Deps are the platform pieces an Overlay drives.
type Deps struct {
	Engine   hook.Engine
	Prober   Prober
	Renderer Renderer
	Binder   winproc.Binder
	// OpenDevice wraps the raw device pointer an intercepted call receives.
	OpenDevice func(ptr uintptr) d3d9.Device
	// UI is optional; a context with keyboard navigation is created if nil.
	UI *ui.Context
}

type Option func(*Overlay)

func WithLogger(l logging.Logger) Option {
	return func(o *Overlay) {
		if l != nil {
			o.log = l
		}
	}
}

// WithRetryInterval sets the pause between installation attempts.
func WithRetryInterval(d time.Duration) Option {
	return func(o *Overlay) {
		if d > 0 {
			o.interval = d
		}
	}
}

// Overlay owns one installation into one host. Its methods are safe to call
// from the driver, the host's render thread and the window thread as
// documented on each.
type Overlay struct {
	deps     Deps
	log      logging.Logger
	interval time.Duration
	ui       *ui.Context

	lifecycle state.Machine
	frame     state.Frame[ui.DrawData]

	present hook.Hook
	reset   hook.Hook

	stop chan struct{}
	done chan struct{}

	// Bootstrap goroutine only.
	initFailures int

	// renderMu serialises overlay work on the render thread against
	// teardown in Shutdown.
	renderMu   sync.Mutex
	device     d3d9.Device
	hwnd       uintptr
	origProc   uintptr
	uiFailures int
	uiReady    atomic.Bool

	visible atomic.Bool
	// staleUI is set when a reset or teardown closes the driver's open
	// frame; the driver discards the UI frame on its next BeginFrame.
	staleUI atomic.Bool
}

func New(deps Deps, opts ...Option) *Overlay {
	o := &Overlay{
		deps:     deps,
		log:      logging.NoopLogger{},
		interval: DefaultRetryInterval,
		ui:       deps.UI,
		present:  hook.Hook{Name: "EndScene", Arity: 1},
		reset:    hook.Hook{Name: "Reset", Arity: 2},
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.ui == nil {
		o.ui = ui.NewContext(ui.WithKeyboardNav(true))
	}
	o.visible.Store(true)
	return o
}

func (o *Overlay) State() state.Lifecycle { return o.lifecycle.Load() }

// UI is the context the driver declares widgets on between BeginFrame and
// CompositeFrame.
func (o *Overlay) UI() *ui.Context { return o.ui }

// Start begins installing in the background and returns at once. Only the
// first call has an effect.
func (o *Overlay) Start() {
	if !o.lifecycle.Transition(state.Uninitialized, state.Waiting) {
		return
	}
	o.log.Infof("overlay", "waiting for the device runtime")
	go o.bootstrap()
}

func (o *Overlay) bootstrap() {
	defer close(o.done)
	timer := time.NewTimer(0)
	defer timer.Stop()
	for attempt := 1; ; attempt++ {
		select {
		case <-o.stop:
			return
		case <-timer.C:
		}
		if !o.lifecycle.Is(state.Waiting) {
			return
		}
		if o.tryInstall(attempt) {
			return
		}
		timer.Reset(o.interval)
	}
}

// tryInstall makes one installation attempt. Any failure after the engine is
// initialised leaves the engine uninitialised again.
func (o *Overlay) tryInstall(attempt int) (installed bool) {
	engine := o.deps.Engine
	if err := engine.Init(); err != nil {
		o.initFailures++
		if o.initFailures == 1 {
			o.log.Errorf("hook", "engine init failed: %v", err)
		} else {
			o.log.Debugf("hook", "engine init failed (attempt %d): %v", attempt, err)
		}
		return false
	}
	defer func() {
		if !installed {
			if err := engine.Uninit(); err != nil {
				o.log.Errorf("hook", "engine uninit after failed attempt: %v", err)
			}
		}
	}()

	addrs, err := o.deps.Prober.Probe()
	if err != nil {
		o.log.Debugf("probe", "attempt %d: %v", attempt, err)
		return false
	}
	o.log.Infof("probe", "present=%#x reset=%#x", addrs.Present, addrs.Reset)

	if err := o.present.Create(engine, addrs.Present, o.presentDetour); err != nil {
		o.log.Errorf("hook", "%v", err)
		return false
	}
	if err := o.reset.Create(engine, addrs.Reset, o.resetDetour); err != nil {
		o.log.Errorf("hook", "%v", err)
		o.removeHooks()
		return false
	}
	if err := o.present.Enable(); err != nil {
		o.log.Errorf("hook", "%v", err)
		o.removeHooks()
		return false
	}
	if err := o.reset.Enable(); err != nil {
		o.log.Errorf("hook", "%v", err)
		o.removeHooks()
		return false
	}

	if !o.lifecycle.Transition(state.Waiting, state.Ready) {
		o.log.Infof("overlay", "shutdown raced installation, rolling back")
		o.removeHooks()
		return false
	}
	o.log.Infof("overlay", "ready after %d attempt(s)", attempt)
	return true
}

// removeHooks disables and removes whichever hooks exist.
func (o *Overlay) removeHooks() {
	for _, h := range []*hook.Hook{&o.present, &o.reset} {
		if !h.Created() {
			continue
		}
		if err := h.Disable(); err != nil {
			o.log.Errorf("hook", "%v", err)
		}
		if err := h.Remove(); err != nil {
			o.log.Errorf("hook", "%v", err)
		}
	}
}

// Shutdown stops installation, waits for the installer to finish and, if the
// overlay was ready, restores the window procedure, releases the renderer,
// removes both hooks and uninitialises the engine. Later calls do nothing.
//
// Shutdown must not be called from inside an intercepted call.
func (o *Overlay) Shutdown() {
	prev, changed := o.lifecycle.Shutdown()
	if !changed {
		return
	}
	o.log.Infof("overlay", "shutting down from %s", prev)
	close(o.stop)
	<-o.done

	if prev != state.Ready {
		return
	}
	o.renderMu.Lock()
	o.teardownUI()
	o.renderMu.Unlock()

	o.removeHooks()
	if err := o.deps.Engine.Uninit(); err != nil {
		o.log.Errorf("hook", "engine uninit: %v", err)
	}
	o.log.Infof("overlay", "shutdown complete")
}
