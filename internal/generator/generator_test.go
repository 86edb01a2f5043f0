package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"library-manager/internal/storage"
)

func TestGenerateLibrary_Empty(t *testing.T) {
	// --- Setup ---
	path := filepath.Join(t.TempDir(), "data", "library.json")

	// --- Execute ---
	outcome, err := GenerateLibrary(Config{Path: path}, zerolog.Nop())
	if err != nil {
		t.Fatalf("GenerateLibrary failed: %v", err)
	}

	// --- Verification ---
	if outcome.Books != 0 {
		t.Errorf("Books = %d, want 0", outcome.Books)
	}
	if outcome.BackupPath != "" {
		t.Errorf("BackupPath = %q, want empty", outcome.BackupPath)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read generated file: %v", err)
	}
	if got := strings.Join(strings.Fields(string(content)), ""); got != `{"library":[]}` {
		t.Errorf("Generated file = %q, want an empty library", string(content))
	}
}

func TestGenerateLibrary_Seed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")

	outcome, err := GenerateLibrary(Config{Path: path, Seed: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("GenerateLibrary failed: %v", err)
	}
	if outcome.Books != len(SeedBooks()) {
		t.Errorf("Books = %d, want %d", outcome.Books, len(SeedBooks()))
	}

	store, _ := storage.NewJSONStore(path, zerolog.Nop())
	books, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(books) != len(SeedBooks()) {
		t.Fatalf("Loaded %d books, want %d", len(books), len(SeedBooks()))
	}
	for i, b := range books {
		if b.ID != i {
			t.Errorf("books[%d].ID = %d, want %d", i, b.ID, i)
		}
	}
	if books[0].Title != "Преступление и наказание" {
		t.Errorf("books[0].Title = %q", books[0].Title)
	}
}

func TestGenerateLibrary_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	original := []byte(`{"library":[{"id":0,"title":"T","author":"A","year":2000,"status":"available"}]}`)
	if err := os.WriteFile(path, original, 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	// Refuses without Force.
	if _, err := GenerateLibrary(Config{Path: path}, zerolog.Nop()); err == nil {
		t.Fatal("GenerateLibrary over existing file succeeded, expected error")
	}
	content, _ := os.ReadFile(path)
	if string(content) != string(original) {
		t.Errorf("existing file was modified: %q", string(content))
	}

	// Replaces with Force and keeps a backup.
	outcome, err := GenerateLibrary(Config{Path: path, Force: true, Backup: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("GenerateLibrary with Force failed: %v", err)
	}
	if outcome.BackupPath != path+".bak" {
		t.Errorf("BackupPath = %q, want %q", outcome.BackupPath, path+".bak")
	}
	backup, err := os.ReadFile(outcome.BackupPath)
	if err != nil {
		t.Fatalf("Failed to read backup: %v", err)
	}
	if string(backup) != string(original) {
		t.Errorf("backup content = %q, want %q", string(backup), string(original))
	}
}

func TestGenerateLibrary_EmptyPath(t *testing.T) {
	if _, err := GenerateLibrary(Config{}, zerolog.Nop()); err == nil {
		t.Error("GenerateLibrary with empty path succeeded, expected error")
	}
}
