package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"library-manager/internal/librarymanager"
)

// application holds the dependencies shared by the HTTP handlers.
type application struct {
	logger *zerolog.Logger

	// mu serializes every manager call; the manager itself is not
	// safe for concurrent use.
	mu      sync.Mutex
	manager *librarymanager.Manager
}

func newApplication(manager *librarymanager.Manager, logger *zerolog.Logger) *application {
	return &application{
		logger:  logger,
		manager: manager,
	}
}

// routes sets up the HTTP router.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", app.healthHandler)

	r.Route("/api/books", func(r chi.Router) {
		r.Get("/", app.listBooksHandler)
		r.Get("/search", app.searchBooksHandler)
		r.Post("/", app.addBookHandler)
		r.Delete("/{bookID}", app.deleteBookHandler)
		r.Put("/{bookID}/status", app.changeStatusHandler)
	})

	return r
}

// requestLogger logs one line per request with the zerolog logger.
func (app *application) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			app.logger.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("Request handled")
		}()

		next.ServeHTTP(ww, r)
	})
}
