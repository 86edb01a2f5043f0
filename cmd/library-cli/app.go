package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"library-manager/internal/config"
	"library-manager/internal/librarymanager"
	"library-manager/internal/logging"
	"library-manager/internal/output"
	"library-manager/internal/storage"
	"library-manager/internal/templating"
)

// App holds the configuration, logger and lazily opened manager shared by
// every command of one CLI invocation.
type App struct {
	loader *config.Loader
	config *config.Config

	// Flag values that are not viper keys
	configFile string
	verbose    bool
	quiet      bool
	noColor    bool

	session string
	logger  *zerolog.Logger

	format    output.Format
	formatter output.Formatter

	mu      sync.Mutex
	manager *librarymanager.Manager
}

// NewApp creates an App with default configuration. Flags, environment
// and config files are applied when a command runs.
func NewApp() *App {
	nop := logging.Nop
	return &App{
		loader:  config.NewLoader(),
		session: uuid.NewString(),
		logger:  &nop,
	}
}

// Logger returns the session logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// setupCommand loads configuration and builds the logger and formatter.
// It runs before every command.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	for key, name := range map[string]string{
		config.KeyFile:     "file",
		config.KeyFormat:   "format",
		config.KeyLogLevel: "log-level",
	} {
		if err := a.loader.BindFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}

	cfg, err := a.loader.Load(a.configFile)
	if err != nil {
		return err
	}
	a.config = cfg

	logCfg := &logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  cfg.LogOutput,
		NoColor: a.noColor,
	}
	// -v and -q only apply when no explicit level was given
	if !flags.Changed("log-level") {
		switch {
		case a.verbose:
			logCfg.Level = "debug"
		case a.quiet:
			logCfg.Level = "warn"
		}
	}

	logger := logging.New(logCfg).With().Str("session", a.session).Logger()
	a.logger = &logger

	if a.format, err = output.ParseFormat(cfg.Format); err != nil {
		return err
	}
	engine, err := templating.NewEngine(cfg.TemplateFile)
	if err != nil {
		return err
	}
	a.formatter = output.NewFormatter(a.format, engine)

	a.logger.Debug().
		Str("config", cfg.ConfigFile).
		Str("file", cfg.LibraryFile).
		Str("driver", cfg.StorageDriver).
		Str("format", string(a.format)).
		Msg("Configuration loaded")
	return nil
}

// Manager opens the configured store and returns the manager, creating it
// on first use.
func (a *App) Manager() (*librarymanager.Manager, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.manager != nil {
		return a.manager, nil
	}
	if a.config == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	policy, err := librarymanager.ParseIDPolicy(a.config.IDPolicy)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(storage.Options{
		Driver: a.config.StorageDriver,
		Path:   a.config.LibraryFile,
		DSN:    a.config.StorageDSN,
		Table:  a.config.StorageTable,
		Logger: *a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	manager, err := librarymanager.NewManager(store, a.logger, librarymanager.WithIDPolicy(policy))
	if err != nil {
		store.Close()
		return nil, err
	}
	a.manager = manager
	return manager, nil
}

// Close releases the manager if one was opened.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.manager == nil {
		return nil
	}
	err := a.manager.Close()
	a.manager = nil
	return err
}

// render writes data with the configured formatter.
func (a *App) render(w io.Writer, data any) error {
	return a.formatter.Format(w, data)
}

// renderResult writes an operation result. A rejected operation becomes
// the command error so the process exits non-zero.
func (a *App) renderResult(w io.Writer, result librarymanager.Result) error {
	if err := a.render(w, result); err != nil {
		return err
	}
	if !result.OK() {
		return &resultError{result: result}
	}
	return nil
}

// resultError reports a rejected operation whose text was already printed.
type resultError struct {
	result librarymanager.Result
}

func (e *resultError) Error() string {
	return e.result.Text()
}

func (e *resultError) Unwrap() error {
	return e.result.Err()
}
