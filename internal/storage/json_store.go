package storage

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"library-manager/internal/model"
	"library-manager/pkg/fsutils"
)

// libraryJSON writes non-ASCII titles and authors verbatim.
var libraryJSON = jsoniter.Config{
	EscapeHTML:  false,
	SortMapKeys: true,
}.Froze()

// libraryFile is the on-disk document: {"library": [...]}.
type libraryFile struct {
	Library *[]model.Book `json:"library"`
}

// JSONStore implements the DataStore interface on a single JSON file.
type JSONStore struct {
	// Path is the library file, e.g. "library.json".
	Path   string
	logger zerolog.Logger
}

// NewJSONStore creates a new JSONStore for the file at path.
// The file itself is not touched until Load or Save is called.
func NewJSONStore(path string, logger zerolog.Logger) (*JSONStore, error) {
	if path == "" {
		return nil, fmt.Errorf("library file path cannot be empty")
	}
	return &JSONStore{Path: path, logger: logger}, nil
}

// Location returns the path of the library file.
func (js *JSONStore) Location() string {
	return js.Path
}

// Load reads every record from the library file.
// A missing or empty file, malformed JSON, or a document without the
// "library" key all yield an empty library.
func (js *JSONStore) Load() ([]model.Book, error) {
	data, found, err := fsutils.ReadFile(js.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read library file %s: %w", js.Path, err)
	}
	if !found {
		js.logger.Debug().Str("path", js.Path).Msg("Library file not found, starting empty")
		return []model.Book{}, nil
	}

	return js.decode(data), nil
}

func (js *JSONStore) decode(data []byte) []model.Book {
	if !libraryJSON.Valid(data) {
		if len(data) > 0 {
			js.logger.Warn().Str("path", js.Path).Msg("Library file is not valid JSON, treating as empty")
		}
		return []model.Book{}
	}

	var doc libraryFile
	if err := libraryJSON.Unmarshal(data, &doc); err != nil {
		js.logger.Warn().Err(err).Str("path", js.Path).Msg("Library file could not be decoded, treating as empty")
		return []model.Book{}
	}
	if doc.Library == nil {
		js.logger.Warn().Str("path", js.Path).Msg("Library file has no \"library\" key, treating as empty")
		return []model.Book{}
	}

	js.logger.Debug().Str("path", js.Path).Int("count", len(*doc.Library)).Msg("Loaded library")
	return *doc.Library
}

// Save overwrites the library file with the given records.
// The write is not atomic.
func (js *JSONStore) Save(books []model.Book) error {
	if books == nil {
		books = []model.Book{}
	}

	data, err := libraryJSON.MarshalIndent(libraryFile{Library: &books}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal library: %w", err)
	}

	if err := fsutils.EnsureParentDir(js.Path); err != nil {
		return err
	}
	if err := fsutils.WriteToFile(js.Path, data); err != nil {
		return fmt.Errorf("failed to write library file %s: %w", js.Path, err)
	}

	js.logger.Debug().Str("path", js.Path).Int("count", len(books)).Msg("Saved library")
	return nil
}

// Close is a no-op; the file is opened per call.
func (js *JSONStore) Close() error {
	return nil
}
