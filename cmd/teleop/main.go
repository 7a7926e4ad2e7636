package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-teleop/internal/config"
	"github.com/teslashibe/go-teleop/internal/log"
	"github.com/teslashibe/go-teleop/pkg/backend"
	"github.com/teslashibe/go-teleop/pkg/input"
	"github.com/teslashibe/go-teleop/pkg/interpreter"
	"github.com/teslashibe/go-teleop/pkg/teleop"
	"github.com/teslashibe/go-teleop/pkg/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the environment
	mock := flag.Bool("mock", cfg.Mock, "Use the simulated watch instead of the bridge")
	watchURL := flag.String("watch", cfg.WatchURL, "Watch bridge WebSocket URL")
	robotAddr := flag.String("robot", cfg.RobotAddr, "Robot daemon host:port (empty = console backend)")
	dashboard := flag.Int("dashboard", cfg.DashboardPort, "Dashboard port (0 = disabled)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg.Mock = *mock
	cfg.WatchURL = *watchURL
	cfg.RobotAddr = *robotAddr
	cfg.DashboardPort = *dashboard
	if *debug {
		cfg.LogLevel = "debug"
	}
	log.Init(cfg.LogLevel)

	fmt.Println("🤖 go-teleop: watch teleoperation")
	if cfg.Mock {
		fmt.Println("   Input: simulated watch")
	} else {
		fmt.Printf("   Input: %s\n", cfg.WatchURL)
	}
	if cfg.RobotAddr == "" {
		fmt.Println("   Robot: console (dry run)")
	} else {
		fmt.Printf("   Robot: %s\n", cfg.RobotAddr)
	}
	fmt.Println()

	// Input source
	var src input.Source
	if cfg.Mock {
		src = input.NewMock(true)
	} else {
		src = input.NewBridge(cfg.WatchURL, log.L())
	}

	// Executor
	var exec backend.Backend
	if cfg.RobotAddr == "" {
		exec = backend.NewConsole()
	} else {
		exec = backend.NewHTTP(cfg.RobotAPIURL())
	}

	interp := interpreter.New(interpreter.Config{
		DeadZoneDeg: cfg.DeadZoneDeg,
		Debounce:    time.Duration(cfg.GestureDebounceMS) * time.Millisecond,
		Logger:      log.L(),
	})

	ctrlCfg := teleop.Config{
		Source:       src,
		Backend:      exec,
		Interp:       interp,
		PollInterval: cfg.PollInterval(),
		Heartbeat:    cfg.Heartbeat(),
		Logger:       log.L(),
	}

	ctrl, err := teleop.New(ctrlCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup error: %v\n", err)
		os.Exit(1)
	}

	// Optional live dashboard
	var dash *web.Server
	if cfg.DashboardPort > 0 {
		dash = web.NewServer(cfg.DashboardPort, ctrl, cfg)
		ctrl.SetSink(dash)
		go func() {
			if err := dash.Run(); err != nil {
				log.Error("dashboard server failed", "err", err)
			}
		}()
		fmt.Printf("   Dashboard: http://localhost:%d\n\n", cfg.DashboardPort)
	}

	// Ctrl+C cancels the run context; the loop observes it within one poll
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err = ctrl.Run(ctx)

	if dash != nil {
		dash.Close()
	}

	if err != nil {
		os.Exit(1)
	}
	fmt.Println("👋 Goodbye!")
}
