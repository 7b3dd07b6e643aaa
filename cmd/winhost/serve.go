package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/winhost/internal/bridge"
	"github.com/1broseidon/winhost/internal/config"
	"github.com/1broseidon/winhost/internal/controller"
	"github.com/1broseidon/winhost/internal/native/x11"
	"github.com/1broseidon/winhost/internal/server"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (default: ~/.config/winhost/config.yaml)")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winhost serve [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Host native windows for an MCP runtime over stdio. Designed to be")
		fmt.Fprintln(os.Stderr, "invoked by MCP clients:")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "  claude mcp add winhost -- winhost serve")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := newLogger(*debug)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		return 1
	}

	if cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}

	backend, err := x11.New(log)
	if err != nil {
		log.Error("failed to connect to display", "error", err)
		return 1
	}

	actions := newActionLogger(cfg, log)
	defer actions.Close()

	events := bridge.New(log, cfg.Bridge.MaxQueuedEvents)
	ctrl := controller.New(backend, events, log, actions)
	defer ctrl.Close()

	srv := server.NewServer(ctrl, events, cfg, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// The window-management loop runs beside the stdio transport.
	go func() {
		if err := ctrl.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("event loop stopped", "error", err)
			cancel()
		}
	}()

	log.Info("winhost serving", "name", server.ServerName, "version", server.ServerVersion)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("server error", "error", err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}
