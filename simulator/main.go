package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/rook-computer/d3doverlay/internal/app"
	"github.com/rook-computer/d3doverlay/internal/assets"
	"github.com/rook-computer/d3doverlay/internal/config"
	"github.com/rook-computer/d3doverlay/internal/render"
	"github.com/rook-computer/d3doverlay/internal/sim"
	"github.com/rook-computer/d3doverlay/internal/system"
	"github.com/rook-computer/d3doverlay/internal/ui"
	"github.com/rook-computer/d3doverlay/internal/web"
)

func main() {
	os.Exit(run())
}

func run() int {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		return 2
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	envFile := flag.String("env", ".env", "dotenv file loaded before the environment is read")
	width := flag.Int("width", 800, "back buffer width")
	height := flag.Int("height", 600, "back buffer height")
	fps := flag.Int("fps", 60, "host frames per second")
	scriptPath := flag.String("script", "", "Lua driver script; overrides "+config.EnvScript+", the built-in demo runs when both are empty")
	useFB := flag.Bool("fb", false, "show host frames on the Linux framebuffer")
	fbPath := flag.String("fb-path", render.DefaultFramebuffer, "framebuffer device")
	evdev := flag.Bool("evdev", false, "read keys from /dev/input (F4 quits)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Println("config error:", err)
		return 2
	}
	if *scriptPath != "" {
		cfg.ScriptPath = *scriptPath
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		fmt.Println("logger error:", err)
		return 1
	}
	defer func() {
		_ = logger.Close()
	}()

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := sim.NewHost(*width, *height)
	renderer := sim.NewRenderer(ui.DefaultStyle())
	a := app.New(cfg, host.Deps(renderer, nil), logger)
	if cfg.ScriptPath == "" {
		a.ScriptSource = assets.DemoScript
	}

	var presenter render.Presenter = render.NoopPresenter{}
	if *useFB {
		fbp := render.NewFBPresenter(*fbPath)
		fbp.Logger = logger
		restore := system.EnterGraphics(logger)
		defer restore()
		presenter = fbp
	}
	if err := presenter.Start(processCtx); err != nil {
		fmt.Println("presenter error:", err)
		return 1
	}
	defer func() {
		_ = presenter.Stop()
	}()

	color.New(color.FgCyan, color.Bold).Println("d3doverlay simulator")
	color.New(color.FgHiBlack).Printf("session %s, log %s\n", logger.Session(), cfg.LogPath)

	if err := a.Start(processCtx); err != nil {
		color.New(color.FgRed).Println("start error:", err)
		_ = a.Stop()
		return 1
	}

	control := newSimControl(host, renderer, a, presenter, logger, *fps)
	control.session = logger.Session()
	go control.Run(processCtx)

	if *evdev {
		system.WatchKeys(processCtx, logger, func(ev system.KeyEvent) {
			if ev.VK == system.KeyExit {
				stop()
				return
			}
			control.Key(ev.VK)
		})
	}

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode}, web.NewMux(control, *devMode))
	server.Logger = logger
	if err := server.Start(processCtx); err != nil {
		color.New(color.FgRed).Println("server start error:", err)
		_ = a.Stop()
		return 1
	}

	fmt.Println("Simulator listening on", server.Addr)
	fmt.Printf("Back buffer: %dx%d at %d fps\n", *width, *height, *fps)
	fmt.Println("API: http://" + trimLeadingColon(server.Addr) + "/api/v1/")

	select {
	case <-processCtx.Done():
	case <-control.Done():
	}
	_ = server.Stop()
	stop()
	<-control.loopDone
	_ = a.Stop()
	color.New(color.FgRed).Println("overlay", a.Overlay.State())
	return 0
}

func trimLeadingColon(addr string) string {
	// Display only.
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8080"
	}
	return addr
}
