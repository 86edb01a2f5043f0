package librarymanager

import (
	"errors"
	"fmt"
)

// Kind identifies why an operation was rejected.
type Kind uint8

const (
	KindNone          Kind = iota // Success
	KindInvalidYear               // Year is later than the current year
	KindMissingField              // Title or author is empty
	KindNotFound                  // No book with the given id
	KindInvalidStatus             // Status is not a canonical value
)

// Sentinel errors matching each Kind, for use with errors.Is.
var (
	ErrInvalidYear   = errors.New("invalid year")
	ErrMissingField  = errors.New("missing field")
	ErrNotFound      = errors.New("not found")
	ErrInvalidStatus = errors.New("invalid status")
)

// User-facing texts.
const (
	msgBookAdded     = "Book added successfully"
	msgBookDeleted   = "Book removed from the library"
	msgStatusChanged = "Status changed successfully"

	errTextInvalidYear   = "Year is not valid"
	errTextMissingField  = "Title and author are required"
	errTextNotFound      = "No book with this id exists"
	errTextInvalidStatus = "Invalid book status"
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidYear:
		return "invalid_year"
	case KindMissingField:
		return "missing_field"
	case KindNotFound:
		return "not_found"
	case KindInvalidStatus:
		return "invalid_status"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Result is the outcome of a mutating operation. Exactly one of Message or
// Error is set; Kind is KindNone on success. It marshals to either
// {"message": ...} or {"error": ...}.
type Result struct {
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
	Kind    Kind   `json:"-" yaml:"-"`
}

func success(message string) Result {
	return Result{Message: message}
}

func failure(kind Kind) Result {
	var text string
	switch kind {
	case KindInvalidYear:
		text = errTextInvalidYear
	case KindMissingField:
		text = errTextMissingField
	case KindNotFound:
		text = errTextNotFound
	case KindInvalidStatus:
		text = errTextInvalidStatus
	}
	return Result{Error: text, Kind: kind}
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Kind == KindNone
}

// Err returns the sentinel error for a failed result, or nil on success.
func (r Result) Err() error {
	switch r.Kind {
	case KindNone:
		return nil
	case KindInvalidYear:
		return ErrInvalidYear
	case KindMissingField:
		return ErrMissingField
	case KindNotFound:
		return ErrNotFound
	case KindInvalidStatus:
		return ErrInvalidStatus
	default:
		return fmt.Errorf("unknown result kind %s", r.Kind)
	}
}

// Text returns the message or the error text, whichever is set.
func (r Result) Text() string {
	if r.OK() {
		return r.Message
	}
	return r.Error
}
