package main

import (
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/logging"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// app holds what every command needs: configuration, storage and a logger.
type app struct {
	cfg    config.T2048Config
	store  *storage.Store // nil when the database could not be opened
	kv     storage.KV     // store, or an in-memory fallback
	logger *log.Logger
	logOut io.Closer
}

// logTarget selects where an app logs.
type logTarget int

const (
	logToFile   logTarget = iota // TUI commands: stderr belongs to the screen
	logToStderr                  // Server and plain output commands
)

// loadConfig reads the config file and applies the global flags.
func loadConfig() (config.T2048Config, error) {
	cfg, err := config.LoadT2048(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return cfg, err
		}
		config.ApplyT2048Preset(&cfg, preset)
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return config.Normalize(cfg), nil
}

// newApp loads config, sets up logging and opens the database.
// A database that cannot be opened degrades to in-memory storage.
func newApp(target logTarget) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	switch target {
	case logToStderr:
		a.logger = logging.New(os.Stderr, "t2048", cfg.Log.Level)
	default:
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
			a.logger = logging.Discard()
		} else {
			a.logger = logging.New(f, "t2048", cfg.Log.Level)
			a.logOut = f
		}
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database, progress will not be saved: %v\n", err)
		a.logger.Warn("database unavailable", "path", cfg.Storage.DBPath, "err", err)
		a.kv = storage.NewMemory()
	} else {
		a.store = store
		a.kv = store
	}

	a.logger.Debug("started", "db", cfg.Storage.DBPath, "spawn4", cfg.Rules.Spawn4Prob)
	return a, nil
}

// Close releases the database and log file.
func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing database", "err", err)
		}
	}
	if a.logOut != nil {
		a.logOut.Close()
	}
}

// env returns the game environment of the local player.
func (a *app) env(startLevel int) registry.Env {
	return registry.Env{
		Store:      a.kv,
		Logger:     a.logger,
		Config:     a.cfg,
		StartLevel: startLevel,
	}
}

// runtimeConfig builds the runtime config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// localOwner names the local player in the score table.
func localOwner() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}

// newServerLogger returns the logger of the SSH server.
func newServerLogger(level string) *log.Logger {
	return logging.New(os.Stderr, "t2048-ssh", level)
}
