package investments

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingColumns  = errors.New("missing required columns")
	ErrNoData          = errors.New("no valid investment data found")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrUnreadable      = errors.New("unreadable spreadsheet")
)

// MissingColumnsError names the required headers absent from an import.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}
