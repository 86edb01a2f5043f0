package templating

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"library-manager/internal/librarymanager"
	"library-manager/internal/model"
)

func newTestEngine(t *testing.T, overrides ...string) *Engine {
	t.Helper()
	engine, err := NewEngine(overrides...)
	if err != nil {
		t.Fatalf("NewEngine() failed: %v", err)
	}
	return engine
}

func TestRenderBooks(t *testing.T) {
	engine := newTestEngine(t)

	books := []model.Book{
		{ID: 0, Title: "Преступление и наказание", Author: "Фёдор Михайлович Достоевский", Year: 1866, Status: model.StatusAvailable},
		{ID: 1, Title: "Пир во время чумы", Author: "Александр Сергеевич Пушкин", Year: 1830, Status: model.StatusCheckedOut},
	}

	var buf bytes.Buffer
	if err := engine.RenderBooks(&buf, books); err != nil {
		t.Fatalf("RenderBooks() failed: %v", err)
	}

	want := "--------------------\n" +
		"id: 0\n" +
		"Title: Преступление и наказание\n" +
		"Author: Фёдор Михайлович Достоевский\n" +
		"Year: 1866\n" +
		"Status: available\n" +
		"--------------------\n" +
		"id: 1\n" +
		"Title: Пир во время чумы\n" +
		"Author: Александр Сергеевич Пушкин\n" +
		"Year: 1830\n" +
		"Status: checked_out\n"

	if got := buf.String(); got != want {
		t.Errorf("RenderBooks() output mismatch.\nGot:\n%q\nWant:\n%q", got, want)
	}
}

func TestRenderBooks_Empty(t *testing.T) {
	engine := newTestEngine(t)

	var buf bytes.Buffer
	if err := engine.RenderBooks(&buf, nil); err != nil {
		t.Fatalf("RenderBooks(nil) failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("RenderBooks(nil) wrote %q, want nothing", buf.String())
	}
}

func TestRenderResult(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name   string
		result librarymanager.Result
		want   string
	}{
		{"success", librarymanager.Result{Message: "Book added successfully"}, "Book added successfully\n"},
		{"failure", librarymanager.Result{Error: "No book with this id exists", Kind: librarymanager.KindNotFound}, "! No book with this id exists !\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := engine.RenderResult(&buf, tt.result); err != nil {
				t.Fatalf("RenderResult() failed: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("RenderResult() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestNewEngine_OverrideFile(t *testing.T) {
	override := filepath.Join(t.TempDir(), "book.tmpl")
	content := `{{ define "book" }}[{{ .ID }}] {{ .Title }} / {{ .Author }}
{{ end }}`
	if err := os.WriteFile(override, []byte(content), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	engine := newTestEngine(t, override)

	var buf bytes.Buffer
	books := []model.Book{{ID: 7, Title: "T", Author: "A", Year: 2000, Status: model.StatusAvailable}}
	if err := engine.RenderBooks(&buf, books); err != nil {
		t.Fatalf("RenderBooks() failed: %v", err)
	}
	if got, want := buf.String(), "[7] T / A\n"; got != want {
		t.Errorf("RenderBooks() with override = %q, want %q", got, want)
	}
}

func TestNewEngine_BadOverride(t *testing.T) {
	if _, err := NewEngine(filepath.Join(t.TempDir(), "missing.tmpl")); err == nil {
		t.Error("NewEngine() with missing override file succeeded, expected error")
	}

	broken := filepath.Join(t.TempDir(), "broken.tmpl")
	if err := os.WriteFile(broken, []byte(`{{ define "book" }}{{ .ID `), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if _, err := NewEngine(broken); err == nil {
		t.Error("NewEngine() with unparsable override succeeded, expected error")
	}
}
