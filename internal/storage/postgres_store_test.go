package storage

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-manager/internal/model"
)

func TestBuildSelectQuery(t *testing.T) {
	query, err := buildSelectQuery("library_books")
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "id", "title", "author", "year", "status" FROM "library_books" ORDER BY "position" ASC`,
		query)
}

func TestBuildDeleteQuery(t *testing.T) {
	query, err := buildDeleteQuery("library_books")
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "library_books"`, query)
}

func TestBuildInsertQuery(t *testing.T) {
	books := []model.Book{
		{ID: 4, Title: "Пир во время чумы", Author: "Пушкин", Year: 1830, Status: model.StatusAvailable},
		{ID: 4, Title: "O'Reilly", Author: "Someone", Year: 2001, Status: model.StatusCheckedOut},
	}

	query, err := buildInsertQuery("library_books", books)
	require.NoError(t, err)

	assert.Contains(t, query, `INSERT INTO "library_books" ("position", "id", "title", "author", "year", "status")`)
	assert.Contains(t, query, `(0, 4, 'Пир во время чумы', 'Пушкин', 1830, 'available')`)
	// Quotes are escaped and duplicate ids keep their own positions.
	assert.Contains(t, query, `(1, 4, 'O''Reilly', 'Someone', 2001, 'checked_out')`)
}

func TestSchemaSQL(t *testing.T) {
	sql := schemaSQL("shelf")
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS shelf")
	assert.Contains(t, sql, "position INTEGER NOT NULL PRIMARY KEY")
}

func TestNewPostgresStore_Validation(t *testing.T) {
	_, err := NewPostgresStore("", "library_books", zerolog.Nop())
	assert.Error(t, err)

	_, err = NewPostgresStore("postgres://localhost/db", "books; DROP TABLE x", zerolog.Nop())
	assert.ErrorContains(t, err, "invalid table name")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Options{Driver: "sqlite", Logger: zerolog.Nop()})
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestOpen_JSONDefault(t *testing.T) {
	store, err := Open(Options{Path: "library.json", Logger: zerolog.Nop()})
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, store)
	assert.Equal(t, "library.json", store.Location())
}
