// Package output provides formatters for command output.
package output

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"library-manager/internal/librarymanager"
	"library-manager/internal/model"
	"library-manager/internal/templating"
)

// Format types for output.
type Format string

const (
	// FormatText renders books as the classic console blocks.
	FormatText Format = "text"
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
)

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case "":
		return FormatText, nil
	case FormatText, FormatTable, FormatJSON, FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: text, table, json, yaml", s)
	}
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format, engine *templating.Engine) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatTable:
		return &TableFormatter{}
	default:
		return &TextFormatter{Engine: engine}
	}
}

// TextFormatter renders through the templating engine.
type TextFormatter struct {
	Engine *templating.Engine
}

// Format implements the Formatter interface for text output.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case []model.Book:
		return f.Engine.RenderBooks(w, v)
	case model.Book:
		return f.Engine.RenderBook(w, v)
	case librarymanager.Result:
		return f.Engine.RenderResult(w, v)
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// TableFormatter outputs table format.
type TableFormatter struct{}

// Format outputs data in table format.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case []model.Book:
		return f.formatTable(w, booksToTableData(v))
	case model.Book:
		return f.formatTable(w, booksToTableData([]model.Book{v}))
	case librarymanager.Result:
		return f.formatTable(w, resultToTableData(v))
	default:
		jsonFormatter := &JSONFormatter{Indent: "  "}
		return jsonFormatter.Format(w, data)
	}
}

// Data represents data formatted for table output.
type Data struct {
	Headers []string
	Rows    [][]string
}

func (f *TableFormatter) formatTable(w io.Writer, data Data) error {
	table := tablewriter.NewTable(w)

	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}

	for _, row := range data.Rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := table.Append(rowData...); err != nil {
			return err
		}
	}

	return table.Render()
}

// bookHeaders derives column titles from the json tags of model.Book.
func bookHeaders() []string {
	caser := cases.Title(language.English)
	bookType := reflect.TypeOf(model.Book{})

	headers := make([]string, 0, bookType.NumField())
	for i := 0; i < bookType.NumField(); i++ {
		field := bookType.Field(i)
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
			name, _, _ = strings.Cut(tag, ",")
		}
		headers = append(headers, caser.String(strings.ReplaceAll(name, "_", " ")))
	}
	return headers
}

func booksToTableData(books []model.Book) Data {
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{
			strconv.Itoa(b.ID),
			b.Title,
			b.Author,
			strconv.Itoa(b.Year),
			string(b.Status),
		})
	}
	return Data{Headers: bookHeaders(), Rows: rows}
}

func resultToTableData(r librarymanager.Result) Data {
	if r.OK() {
		return Data{Headers: []string{"Result", "Message"}, Rows: [][]string{{"ok", r.Message}}}
	}
	return Data{Headers: []string{"Result", "Message"}, Rows: [][]string{{r.Kind.String(), r.Error}}}
}
