package model

// Status is the circulation state of a book.
type Status string

const (
	StatusAvailable  Status = "available"   // On the shelf (default for new books)
	StatusCheckedOut Status = "checked_out" // Lent out
)

// ParseStatus reports whether s is one of the canonical status values.
// Matching is exact: no trimming, no case folding.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusAvailable, StatusCheckedOut:
		return Status(s), true
	default:
		return "", false
	}
}

// Book represents a single record in the library file.
type Book struct {
	ID     int    `json:"id" yaml:"id" db:"id"`             // Assigned by the library manager
	Title  string `json:"title" yaml:"title" db:"title"`    // Non-empty
	Author string `json:"author" yaml:"author" db:"author"` // Non-empty
	Year   int    `json:"year" yaml:"year" db:"year"`       // Not later than the current year
	Status Status `json:"status" yaml:"status" db:"status"`
}
