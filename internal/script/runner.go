package script

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/rook-computer/d3doverlay/internal/logging"
)

const tickFunc = "tick"

var ErrNoTick = errors.New("script: no global tick function")

// Runner owns one Lua state. It is not safe for concurrent use; Run and Tick
// belong to the driver goroutine. Ticks may be read from anywhere.
type Runner struct {
	L      *lua.LState
	log    logging.Logger
	ticks  atomic.Uint64
	failed uint64
}

func NewRunner(host Host, log logging.Logger) *Runner {
	if log == nil {
		log = logging.NoopLogger{}
	}
	L := lua.NewState()
	Preload(L, host, log)
	return &Runner{L: L, log: log}
}

// LoadFile runs the script at path once, which should define tick.
func (r *Runner) LoadFile(path string) error {
	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("load script %s: %w", path, err)
	}
	return r.checkTick()
}

// LoadString is LoadFile for inline source.
func (r *Runner) LoadString(src string) error {
	if err := r.L.DoString(src); err != nil {
		return fmt.Errorf("load script: %w", err)
	}
	return r.checkTick()
}

func (r *Runner) checkTick() error {
	if r.L.GetGlobal(tickFunc).Type() != lua.LTFunction {
		return ErrNoTick
	}
	return nil
}

// Tick calls the script's tick function with the tick number.
func (r *Runner) Tick() error {
	fn := r.L.GetGlobal(tickFunc)
	if fn.Type() != lua.LTFunction {
		return ErrNoTick
	}
	n := r.ticks.Add(1)
	return r.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LNumber(n))
}

func (r *Runner) Ticks() uint64 { return r.ticks.Load() }

// Run ticks every interval until ctx is done. A failing tick is logged and
// the loop goes on; only the first failure is logged at error level.
func (r *Runner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastLog := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Tick(); err != nil {
				r.failed++
				if r.failed == 1 {
					r.log.Errorf("script", "tick %d: %v", r.Ticks(), err)
				} else {
					r.log.Debugf("script", "tick %d: %v", r.Ticks(), err)
				}
			}
			if time.Since(lastLog) > 10*time.Second {
				r.log.Debugf("script", "heartbeat tick=%d failures=%d", r.Ticks(), r.failed)
				lastLog = time.Now()
			}
		}
	}
}

func (r *Runner) Close() { r.L.Close() }
