package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/rook-computer/d3doverlay/internal/app"
	"github.com/rook-computer/d3doverlay/internal/logging"
	"github.com/rook-computer/d3doverlay/internal/render"
	"github.com/rook-computer/d3doverlay/internal/sim"
	"github.com/rook-computer/d3doverlay/internal/state"
	"github.com/rook-computer/d3doverlay/internal/web"
)

// simControl owns the simulated host's render thread. Everything that the
// real host would do on its own thread (present, reset, window messages) is
// funnelled onto the loop goroutine.
type simControl struct {
	host      *sim.Host
	renderer  *sim.Renderer
	app       *app.App
	presenter render.Presenter
	log       logging.Logger
	session   string
	interval  time.Duration
	out       io.Writer

	resets chan chan uintptr
	keys   chan uintptr

	loopDone     chan struct{}
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

func newSimControl(host *sim.Host, renderer *sim.Renderer, a *app.App, p render.Presenter, log logging.Logger, fps int) *simControl {
	if fps <= 0 {
		fps = 60
	}
	return &simControl{
		host:      host,
		renderer:  renderer,
		app:       a,
		presenter: p,
		log:       log,
		interval:  time.Second / time.Duration(fps),
		out:       color.Output,
		resets:    make(chan chan uintptr),
		keys:      make(chan uintptr, 16),
		loopDone:  make(chan struct{}),
		shutdown:  make(chan struct{}),
	}
}

// Run renders host frames until ctx is done or Shutdown is called.
func (c *simControl) Run(ctx context.Context) {
	defer close(c.loopDone)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	last := state.Lifecycle(-1)
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.shutdown:
			return
		case reply := <-c.resets:
			reply <- c.host.ResetDevice()
		case vk := <-c.keys:
			c.host.Key(vk)
		case <-ticker.C:
			c.host.Frame()
			if err := c.presenter.Present(c.host.Device.Snapshot(), c.statusLine()); err != nil {
				c.log.Debugf("sim", "present: %v", err)
			}
			if cur := c.app.Overlay.State(); cur != last {
				c.reportState(cur)
				last = cur
			}
		}
	}
}

func (c *simControl) reportState(l state.Lifecycle) {
	clr := color.New(color.FgYellow)
	switch l {
	case state.Ready:
		clr = color.New(color.FgGreen)
	case state.Shutdown:
		clr = color.New(color.FgRed)
	}
	clr.Fprintf(c.out, "overlay %s\n", l)
	c.log.Infof("sim", "overlay state %s", l)
}

func (c *simControl) statusLine() string {
	hs := c.host.Stats()
	return fmt.Sprintf("%s  visible=%v  presents=%d  resets=%d",
		c.app.Overlay.State(), c.app.Overlay.IsVisible(), hs.Presents, hs.Resets)
}

func (c *simControl) Status() web.Status {
	ov := c.app.Overlay
	st := web.Status{
		State:               ov.State().String(),
		Visible:             ov.IsVisible(),
		WantCaptureMouse:    ov.WantCaptureMouse(),
		WantCaptureKeyboard: ov.WantCaptureKeyboard(),
		Session:             c.session,
		Host:                c.host.Stats(),
		Renderer:            c.renderer.Stats(),
	}
	if c.app.Script != nil {
		st.ScriptTicks = c.app.Script.Ticks()
	}
	return st
}

func (c *simControl) Faults() sim.Faults { return c.host.Faults() }

func (c *simControl) SetFaults(f sim.Faults) {
	c.host.SetFaults(f)
	c.log.Infof("sim", "faults set: %+v", f)
}

// ResetDevice resets on the render thread. Once the loop has stopped the
// reset runs on the caller's goroutine.
func (c *simControl) ResetDevice() uintptr {
	reply := make(chan uintptr, 1)
	select {
	case c.resets <- reply:
		return <-reply
	case <-c.loopDone:
		return c.host.ResetDevice()
	}
}

func (c *simControl) Key(vk uintptr) {
	select {
	case c.keys <- vk:
	case <-c.loopDone:
	}
}

func (c *simControl) SetVisible(v bool) { c.app.Overlay.SetVisible(v) }

func (c *simControl) WriteSnapshot(w io.Writer) error {
	return render.WritePNG(w, c.host.Device.Snapshot(), c.statusLine())
}

func (c *simControl) Shutdown() {
	c.shutdownOnce.Do(func() { close(c.shutdown) })
}

// Done is closed once Shutdown has been requested.
func (c *simControl) Done() <-chan struct{} { return c.shutdown }
