// Package generator creates new library files.
package generator

import (
	"fmt"

	"github.com/rs/zerolog"

	"library-manager/internal/model"
	"library-manager/internal/storage"
	"library-manager/pkg/fsutils"
)

// Config holds the options for generating a library file.
type Config struct {
	Path   string // Target library file
	Seed   bool   // Write the sample catalog instead of an empty library
	Force  bool   // Replace an existing file
	Backup bool   // Copy an existing file to Path+".bak" before replacing it
}

// Outcome describes what GenerateLibrary did.
type Outcome struct {
	Path       string
	BackupPath string // empty if no backup was made
	Books      int
}

// SeedBooks returns the sample catalog written by a seeded init.
// Ids start at 0 and follow store order.
func SeedBooks() []model.Book {
	return []model.Book{
		{ID: 0, Title: "Преступление и наказание", Author: "Фёдор Михайлович Достоевский", Year: 1866, Status: model.StatusAvailable},
		{ID: 1, Title: "Пир во время чумы", Author: "Александр Сергеевич Пушкин", Year: 1830, Status: model.StatusAvailable},
		{ID: 2, Title: "Война и мир", Author: "Лев Николаевич Толстой", Year: 1869, Status: model.StatusAvailable},
		{ID: 3, Title: "Мёртвые души", Author: "Николай Васильевич Гоголь", Year: 1842, Status: model.StatusAvailable},
		{ID: 4, Title: "Анна Каренина", Author: "Лев Николаевич Толстой", Year: 1877, Status: model.StatusAvailable},
		{ID: 5, Title: "The Go Programming Language", Author: "Alan Donovan", Year: 2015, Status: model.StatusAvailable},
	}
}

// GenerateLibrary writes a fresh library file.
// It fails if the file exists and Force is not set.
func GenerateLibrary(cfg Config, logger zerolog.Logger) (*Outcome, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("library file path cannot be empty")
	}

	outcome := &Outcome{Path: cfg.Path}

	if fsutils.FileExists(cfg.Path) {
		if !cfg.Force {
			return nil, fmt.Errorf("library file %s already exists (use --force to replace it)", cfg.Path)
		}
		if cfg.Backup {
			outcome.BackupPath = cfg.Path + ".bak"
			if err := fsutils.CopyFile(cfg.Path, outcome.BackupPath); err != nil {
				return nil, fmt.Errorf("failed to back up %s: %w", cfg.Path, err)
			}
			logger.Info().Str("backup", outcome.BackupPath).Msg("Backed up existing library file")
		}
	}

	books := []model.Book{}
	if cfg.Seed {
		books = SeedBooks()
	}

	store, err := storage.NewJSONStore(cfg.Path, logger)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := store.Save(books); err != nil {
		return nil, err
	}
	outcome.Books = len(books)

	logger.Info().Str("path", cfg.Path).Int("books", outcome.Books).Msg("Created library file")
	return outcome, nil
}
