package object

import (
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// SniffSize is the number of leading bytes inspected to detect a MIME type.
const SniffSize = 3072

// Sniff reads the head of r and detects its MIME type. The returned bytes must be
// written before the rest of r.
func Sniff(r io.Reader) ([]byte, string, error) {
	head := make([]byte, SniffSize)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", fmt.Errorf("read sniff: %w", err)
	}
	head = head[:n]
	return head, mimetype.Detect(head).String(), nil
}
