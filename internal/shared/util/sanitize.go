package util

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidFileName is returned for names that are empty or a bare directory reference.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName replaces path separators, drops control characters and rejects "." and "..".
func SanitizeFileName(name string) (string, error) {
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(name))
	if s == "" || s == "." || s == ".." {
		return "", ErrInvalidFileName
	}
	return s, nil
}
