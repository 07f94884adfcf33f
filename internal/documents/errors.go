package documents

import "errors"

var (
	ErrNotFound        = errors.New("document not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrContentMismatch = errors.New("file content does not match extension")
	ErrTooLarge        = errors.New("file too large")
	ErrStorage         = errors.New("storage error")
)
