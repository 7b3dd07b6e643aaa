package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/1broseidon/winhost/internal/actionlog"
	"github.com/1broseidon/winhost/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "serve":
		os.Exit(runServe(os.Args[2:]))
	case "demo":
		os.Exit(runDemo(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winhost <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve               Host windows for an MCP runtime (stdio transport)")
	fmt.Fprintln(w, "  demo                Create demo windows and open the tree inspector")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print effective configuration")
	fmt.Fprintln(w, "  config path         Print configuration file path")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  help                Show this help")
}

// newLogger builds the stderr slog logger; stdout stays reserved for the
// stdio transport.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// newActionLogger builds the rotating action logger from config; disabled
// logging yields a nil-safe no-op logger.
func newActionLogger(cfg *config.Config, log *slog.Logger) *actionlog.Logger {
	logCfg := actionlog.Config{
		Enabled:   cfg.Logging.Enabled,
		Level:     actionlog.ParseLevel(cfg.Logging.Level),
		FilePath:  cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	}
	if logCfg.Enabled && logCfg.FilePath == "" {
		path, err := config.DefaultLogPath()
		if err != nil {
			log.Warn("action log disabled, no log path", "error", err)
			logCfg.Enabled = false
		} else {
			logCfg.FilePath = path
		}
	}

	actions, err := actionlog.New(logCfg)
	if err != nil {
		log.Warn("action log disabled", "error", err)
		return nil
	}
	return actions
}
