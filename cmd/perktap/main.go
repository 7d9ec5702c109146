package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/perktap/perktap/internal/autocomplete"
	"github.com/perktap/perktap/internal/config"
	"github.com/perktap/perktap/internal/gateway"
	"github.com/perktap/perktap/internal/history"
	"github.com/perktap/perktap/internal/location"
	"github.com/perktap/perktap/internal/logging"
	"github.com/perktap/perktap/internal/search"
	"github.com/perktap/perktap/internal/tui"
	"github.com/perktap/perktap/internal/tui/views"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && os.Args[0] != "" {
		switch os.Args[1] {
		case "search":
			if err := runSearch(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "history":
			if err := runHistory(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "version":
			fmt.Println("perktap " + version)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	// No subcommand → launch TUI
	if err := runTUI(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `perktap - local rewards and campaign finder

Usage:
  perktap                 Launch interactive TUI
  perktap search [flags]  Run a one-shot search
  perktap history [flags] List past searches
  perktap version         Show version

Run 'perktap search --help' or 'perktap history --help' for flags.
`)
}

func configPath() string {
	if p := os.Getenv("PERKTAP_CONFIG"); p != "" {
		return p
	}
	return config.DefaultPath()
}

func runTUI() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	logger := logging.File(cfg.Log.Level, filepath.Join(cfg.DataDir(), "perktap.log"))

	deps, cleanup := buildDeps(cfg, logger)
	defer cleanup()

	return tui.Run(deps)
}

// buildDeps wires the long-lived collaborators. A broken history store
// is degraded to nil rather than fatal; searching still works without it.
func buildDeps(cfg config.Config, logger *log.Logger) (views.Deps, func()) {
	client := gateway.New(gateway.Config{
		BaseURL:     cfg.API.BaseURL,
		Environment: cfg.API.Environment,
		Timeout:     time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		UserAgent:   "perktap/" + version,
	}, logger)

	userID := cfg.Profile.UserID
	if userID == "" {
		userID = "anon-" + uuid.NewString()[:8]
	}
	sessionID := uuid.NewString()

	store, err := history.Open(filepath.Join(cfg.DataDir(), "history.db"))
	if err != nil {
		logger.Warn().Err(err).Msg("history unavailable")
		store = nil
	}

	deps := views.Deps{
		Client:     client,
		Controller: search.NewController(logger),
		Engine:     autocomplete.New(userID, sessionID, logger),
		Location:   location.FromConfig(cfg.Location),
		History:    store,
		Log:        logger,
	}
	cleanup := func() {
		if store != nil {
			store.Close()
		}
	}
	return deps, cleanup
}
