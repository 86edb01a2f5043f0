package storage

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"library-manager/internal/model"
)

// DataStore defines the operations needed for persisting the library.
// The whole ordered collection is the unit of persistence: Load returns
// every record and Save replaces every record.
type DataStore interface {
	// Load reads all records in their stored order. Content that cannot be
	// decoded is reported as an empty library, not as an error.
	Load() ([]model.Book, error)

	// Save overwrites the backing resource with the given records.
	Save(books []model.Book) error

	// Location describes where the records live (file path or table name).
	Location() string

	// Close releases any resources held by the store.
	Close() error
}

// Supported storage drivers.
const (
	DriverJSON     = "json"
	DriverPostgres = "postgres"
)

// Options selects and configures a DataStore implementation.
type Options struct {
	Driver string // "json" (default) or "postgres"
	Path   string // JSON file path
	DSN    string // Postgres connection string
	Table  string // Postgres table name
	Logger zerolog.Logger
}

// Open creates the DataStore described by opts.
func Open(opts Options) (DataStore, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverJSON:
		return NewJSONStore(opts.Path, opts.Logger)
	case DriverPostgres:
		store, err := NewPostgresStore(opts.DSN, opts.Table, opts.Logger)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q: must be one of: %s, %s", opts.Driver, DriverJSON, DriverPostgres)
	}
}
