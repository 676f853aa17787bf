package listing

import (
	"errors"
	"fmt"
)

// Custom error categories for request validation failures
const (
	// ErrInvalidSortKey represents an unrecognized sort_by attribute
	ErrInvalidSortKey = "invalid_sort_key"

	// ErrInvalidPage represents a non-positive page number
	ErrInvalidPage = "invalid_page"

	// ErrInvalidPageSize represents a non-positive page size
	ErrInvalidPageSize = "invalid_page_size"
)

// Error represents a validation failure while sorting or paginating,
// with additional context about which parameter was at fault.
type Error struct {
	// Category for programmatic error handling
	Category string

	// Message provides human-readable details
	Message string

	// Parameter names the offending request parameter, when applicable
	Parameter string

	// Underlying is the wrapped cause of this error
	Underlying error
}

// Error returns a formatted error message
func (e *Error) Error() string {
	if e.Parameter != "" {
		return fmt.Sprintf("%s: %s (parameter: %s)", e.Category, e.Message, e.Parameter)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a new listing error with the specified details
func NewError(category, message, parameter string, underlying error) *Error {
	return &Error{
		Category:   category,
		Message:    message,
		Parameter:  parameter,
		Underlying: underlying,
	}
}

// IsErrorCategory checks if an error belongs to a specific error category
func IsErrorCategory(err error, category string) bool {
	if err == nil {
		return false
	}

	var listErr *Error
	if errors.As(err, &listErr) {
		return listErr.Category == category
	}

	return false
}
