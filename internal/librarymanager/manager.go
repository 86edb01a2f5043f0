package librarymanager

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"library-manager/internal/model"
	"library-manager/internal/storage"
)

// IDPolicy decides how new book ids are derived.
type IDPolicy string

const (
	// IDPolicyLast uses the id of the last book plus one. Deleting the last
	// book lets the next add reuse an id that may still exist elsewhere.
	IDPolicyLast IDPolicy = "last"

	// IDPolicyMax uses the largest id present plus one.
	IDPolicyMax IDPolicy = "max"
)

// ParseIDPolicy converts a configuration value into an IDPolicy.
func ParseIDPolicy(s string) (IDPolicy, error) {
	switch IDPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", IDPolicyLast:
		return IDPolicyLast, nil
	case IDPolicyMax:
		return IDPolicyMax, nil
	default:
		return "", fmt.Errorf("invalid id policy %q: must be one of: %s, %s", s, IDPolicyLast, IDPolicyMax)
	}
}

// Manager applies the library rules to the records of a DataStore.
// It holds the records in memory and writes all of them back after every
// successful change. A Manager is not safe for concurrent use.
type Manager struct {
	store    storage.DataStore
	logger   *zerolog.Logger
	books    []model.Book
	now      func() time.Time
	idPolicy IDPolicy
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source used for year validation.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithIDPolicy sets how new ids are assigned.
func WithIDPolicy(policy IDPolicy) Option {
	return func(m *Manager) {
		if policy != "" {
			m.idPolicy = policy
		}
	}
}

// NewManager creates a Manager and loads every record from store.
func NewManager(store storage.DataStore, logger *zerolog.Logger, opts ...Option) (*Manager, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	m := &Manager{
		store:    store,
		logger:   logger,
		now:      time.Now,
		idPolicy: IDPolicyLast,
	}
	for _, opt := range opts {
		opt(m)
	}

	books, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading library from %s failed: %w", store.Location(), err)
	}
	m.books = books

	m.logger.Debug().Str("location", store.Location()).Int("count", len(books)).Str("id_policy", string(m.idPolicy)).Msg("Library loaded")
	return m, nil
}

// Close releases the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

// AddBook appends a new available book with a generated id.
// The year is checked before the title and author.
func (m *Manager) AddBook(title, author string, year int) (Result, error) {
	if year > m.now().Year() {
		m.logger.Warn().Int("year", year).Msg("Rejected book with future year")
		return failure(KindInvalidYear), nil
	}
	if title == "" || author == "" {
		m.logger.Warn().Str("title", title).Str("author", author).Msg("Rejected book with missing field")
		return failure(KindMissingField), nil
	}

	book := model.Book{
		ID:     m.nextID(),
		Title:  title,
		Author: author,
		Year:   year,
		Status: model.StatusAvailable,
	}
	m.books = append(m.books, book)

	if err := m.persist(); err != nil {
		return Result{}, err
	}

	m.logger.Info().Int("id", book.ID).Str("title", title).Str("author", author).Int("year", year).Msg("Book added")
	return success(msgBookAdded), nil
}

// nextID returns the id for a new book according to the id policy.
func (m *Manager) nextID() int {
	if len(m.books) == 0 {
		return 0
	}
	if m.idPolicy == IDPolicyMax {
		maxID := m.books[0].ID
		for _, b := range m.books[1:] {
			if b.ID > maxID {
				maxID = b.ID
			}
		}
		return maxID + 1
	}
	return m.books[len(m.books)-1].ID + 1
}

// DeleteBook removes the first book with the given id.
func (m *Manager) DeleteBook(id int) (Result, error) {
	i := m.indexOf(id)
	if i < 0 {
		m.logger.Warn().Int("id", id).Msg("Delete requested for unknown book")
		return failure(KindNotFound), nil
	}

	removed := m.books[i]
	m.books = append(m.books[:i], m.books[i+1:]...)

	if err := m.persist(); err != nil {
		return Result{}, err
	}

	m.logger.Info().Int("id", id).Str("title", removed.Title).Msg("Book deleted")
	return success(msgBookDeleted), nil
}

// ChangeStatus sets the status of the first book with the given id.
// An invalid status is reported even when the id does not exist.
func (m *Manager) ChangeStatus(id int, newStatus string) (Result, error) {
	status, ok := model.ParseStatus(newStatus)
	if !ok {
		m.logger.Warn().Int("id", id).Str("status", newStatus).Msg("Rejected invalid status")
		return failure(KindInvalidStatus), nil
	}

	i := m.indexOf(id)
	if i < 0 {
		m.logger.Warn().Int("id", id).Msg("Status change requested for unknown book")
		return failure(KindNotFound), nil
	}

	m.books[i].Status = status

	if err := m.persist(); err != nil {
		return Result{}, err
	}

	m.logger.Info().Int("id", id).Str("status", string(status)).Msg("Book status changed")
	return success(msgStatusChanged), nil
}

// FindBooks returns the books whose title or author equals query, followed
// by the books published in year query when it is an integer. A book that
// matches both ways appears twice.
func (m *Manager) FindBooks(query string) []model.Book {
	found := []model.Book{}
	for _, b := range m.books {
		if b.Title == query || b.Author == query {
			found = append(found, b)
		}
	}

	if year, ok := parseYear(query); ok {
		for _, b := range m.books {
			if b.Year == year {
				found = append(found, b)
			}
		}
	}

	m.logger.Debug().Str("query", query).Int("matches", len(found)).Msg("Search finished")
	return found
}

// ListBooks returns every book in stored order.
func (m *Manager) ListBooks() []model.Book {
	books := make([]model.Book, len(m.books))
	copy(books, m.books)
	return books
}

func (m *Manager) indexOf(id int) int {
	for i, b := range m.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) persist() error {
	if err := m.store.Save(m.books); err != nil {
		m.logger.Error().Err(err).Str("location", m.store.Location()).Msg("Saving library failed")
		return fmt.Errorf("saving library to %s failed: %w", m.store.Location(), err)
	}
	return nil
}

// parseYear accepts an optionally space-padded, optionally signed integer.
func parseYear(s string) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return year, true
}
