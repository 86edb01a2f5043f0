package templating

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"library-manager/internal/librarymanager"
	"library-manager/internal/model"
)

// Built-in templates. An override file may redefine "book" or "result".
const builtinTemplates = `
{{- define "book" -}}
--------------------
id: {{ .ID }}
Title: {{ .Title }}
Author: {{ .Author }}
Year: {{ .Year }}
Status: {{ .Status }}
{{ end -}}

{{- define "books" -}}
{{ range . }}{{ template "book" . }}{{ end }}
{{- end -}}

{{- define "result" -}}
{{ if .OK }}{{ .Message }}{{ else }}! {{ .Error }} !{{ end }}
{{ end -}}
`

// Engine renders books and operation results as console text.
type Engine struct {
	tmpl *template.Template
}

// NewEngine parses the built-in templates, then any override files in order.
func NewEngine(overrideFiles ...string) (*Engine, error) {
	tmpl, err := template.New("library").Parse(builtinTemplates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in templates: %w", err)
	}

	for _, file := range overrideFiles {
		if file == "" {
			continue
		}
		if tmpl, err = tmpl.ParseFiles(file); err != nil {
			return nil, fmt.Errorf("failed to parse template file %s: %w", file, err)
		}
	}

	return &Engine{tmpl: tmpl}, nil
}

// RenderBook writes a single book block.
func (e *Engine) RenderBook(w io.Writer, book model.Book) error {
	return e.execute(w, "book", book)
}

// RenderBooks writes one block per book, in order. Nothing is written for
// an empty slice.
func (e *Engine) RenderBooks(w io.Writer, books []model.Book) error {
	return e.execute(w, "books", books)
}

// RenderResult writes the success message, or the error wrapped in "! … !".
func (e *Engine) RenderResult(w io.Writer, result librarymanager.Result) error {
	return e.execute(w, "result", result)
}

func (e *Engine) execute(w io.Writer, name string, data any) error {
	if err := e.tmpl.ExecuteTemplate(w, name, data); err != nil {
		if strings.Contains(err.Error(), "no such template") {
			return fmt.Errorf("template %q is not defined: %w", name, err)
		}
		return fmt.Errorf("failed to execute template %q: %w", name, err)
	}
	return nil
}
