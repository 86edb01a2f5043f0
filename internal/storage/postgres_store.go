package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/rs/zerolog"

	"library-manager/internal/model"
)

const (
	dialectPostgres = "postgres"
	defaultTable    = "library_books"
	defaultTimeout  = 5 * time.Second

	colPosition = "position"
	colID       = "id"
	colTitle    = "title"
	colAuthor   = "author"
	colYear     = "year"
	colStatus   = "status"
)

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresStore implements the DataStore interface on a single Postgres table.
// The position column preserves insertion order; ids are not unique keys
// because the library allows duplicates.
type PostgresStore struct {
	db      *sqlx.DB
	table   string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewPostgresStore connects to the database at dsn and verifies the connection.
func NewPostgresStore(dsn, table string, logger zerolog.Logger) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN cannot be empty")
	}
	if table == "" {
		table = defaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return newPostgresStore(db, table, logger), nil
}

func newPostgresStore(db *sqlx.DB, table string, logger zerolog.Logger) *PostgresStore {
	return &PostgresStore{
		db:      db,
		table:   table,
		timeout: defaultTimeout,
		logger:  logger,
	}
}

// Location returns the table name.
func (ps *PostgresStore) Location() string {
	return ps.table
}

// EnsureSchema creates the library table if it does not exist.
func (ps *PostgresStore) EnsureSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), ps.timeout)
	defer cancel()

	if _, err := ps.db.ExecContext(ctx, schemaSQL(ps.table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", ps.table, err)
	}
	return nil
}

// Load reads all rows ordered by position.
func (ps *PostgresStore) Load() ([]model.Book, error) {
	query, err := buildSelectQuery(ps.table)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), ps.timeout)
	defer cancel()

	books := []model.Book{}
	if err := ps.db.SelectContext(ctx, &books, query); err != nil {
		return nil, fmt.Errorf("failed to load library from %s: %w", ps.table, err)
	}

	ps.logger.Debug().Str("table", ps.table).Int("count", len(books)).Msg("Loaded library")
	return books, nil
}

// Save replaces every row of the table in one transaction.
func (ps *PostgresStore) Save(books []model.Book) (err error) {
	deleteQuery, err := buildDeleteQuery(ps.table)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), ps.timeout)
	defer cancel()

	tx, err := ps.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteQuery); err != nil {
		return fmt.Errorf("failed to clear %s: %w", ps.table, err)
	}

	if len(books) > 0 {
		insertQuery, buildErr := buildInsertQuery(ps.table, books)
		if buildErr != nil {
			err = buildErr
			return err
		}
		if _, err = tx.ExecContext(ctx, insertQuery); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", ps.table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit library save: %w", err)
	}

	ps.logger.Debug().Str("table", ps.table).Int("count", len(books)).Msg("Saved library")
	return nil
}

// Close closes the underlying connection pool.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

func schemaSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s INTEGER NOT NULL PRIMARY KEY,
	%s INTEGER NOT NULL,
	%s TEXT NOT NULL,
	%s TEXT NOT NULL,
	%s INTEGER NOT NULL,
	%s TEXT NOT NULL
)`, table, colPosition, colID, colTitle, colAuthor, colYear, colStatus)
}

func buildSelectQuery(table string) (string, error) {
	query, _, err := goqu.Dialect(dialectPostgres).
		From(table).
		Select(colID, colTitle, colAuthor, colYear, colStatus).
		Order(goqu.I(colPosition).Asc()).
		ToSQL()
	if err != nil {
		return "", fmt.Errorf("failed to build select query: %w", err)
	}
	return query, nil
}

func buildDeleteQuery(table string) (string, error) {
	query, _, err := goqu.Dialect(dialectPostgres).Delete(table).ToSQL()
	if err != nil {
		return "", fmt.Errorf("failed to build delete query: %w", err)
	}
	return query, nil
}

func buildInsertQuery(table string, books []model.Book) (string, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(table).
		Cols(colPosition, colID, colTitle, colAuthor, colYear, colStatus)

	for i, b := range books {
		insertStmt = insertStmt.Vals(goqu.Vals{i, b.ID, b.Title, b.Author, b.Year, string(b.Status)})
	}

	query, _, err := insertStmt.ToSQL()
	if err != nil {
		return "", fmt.Errorf("failed to build insert query: %w", err)
	}
	return query, nil
}
