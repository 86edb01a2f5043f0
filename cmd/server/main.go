// Command server exposes the library catalog as a JSON HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"library-manager/internal/config"
	"library-manager/internal/librarymanager"
	"library-manager/internal/logging"
	"library-manager/internal/storage"
)

func main() {
	configFile := flag.String("config", "", "config file (default is ./library.yaml)")
	addr := flag.String("addr", "", "listen address (overrides server.addr)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *addr != "" {
		cfg.ServerAddr = *addr
	}

	logger := logging.New(&logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	})

	if err := run(cfg, &logger); err != nil {
		logger.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zerolog.Logger) error {
	policy, err := librarymanager.ParseIDPolicy(cfg.IDPolicy)
	if err != nil {
		return err
	}

	store, err := storage.Open(storage.Options{
		Driver: cfg.StorageDriver,
		Path:   cfg.LibraryFile,
		DSN:    cfg.StorageDSN,
		Table:  cfg.StorageTable,
		Logger: *logger,
	})
	if err != nil {
		return err
	}

	manager, err := librarymanager.NewManager(store, logger, librarymanager.WithIDPolicy(policy))
	if err != nil {
		store.Close()
		return err
	}
	defer manager.Close()

	app := newApplication(manager, logger)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           app.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.ServerAddr).
			Str("storage", store.Location()).
			Msg("Starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
