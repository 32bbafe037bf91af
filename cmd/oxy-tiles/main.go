// Command oxy-tiles opens a window with a grid of blocks lit by a deferred renderer. Hovering a
// block highlights it; clicking selects it, and selected blocks disappear shortly after.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-tiles/common"
	"github.com/Carmen-Shannon/oxy-tiles/config"
	"github.com/Carmen-Shannon/oxy-tiles/game"
)

func init() {
	// GLFW and the surface must stay on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file layered over the defaults")
	logLevel := flag.String("log-level", "", "log level override: debug, info, warn or error")
	flag.Parse()

	if err := run(*configPath, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "oxy-tiles: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, logLevel string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	common.SetLogger(logger)

	app, err := game.NewApp(cfg)
	if err != nil {
		return err
	}
	return app.Run()
}
