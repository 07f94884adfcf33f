// Package tabular reads spreadsheet uploads (XLSX and CSV) into a header plus string rows.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	TypeCSV  = "csv"
	TypeXLSX = "xlsx"
)

var (
	ErrUnsupportedType = errors.New("unsupported spreadsheet type")
	ErrEmpty           = errors.New("spreadsheet has no header row")
)

// Table is a header row plus data rows padded to the header width.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Read parses data according to fileType ("csv" or "xlsx"). Only the first XLSX sheet is read.
func Read(data []byte, fileType string) (Table, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(strings.TrimPrefix(fileType, ".")) {
	case TypeCSV:
		records, err = readCSV(data)
	case TypeXLSX:
		records, err = readXLSX(data)
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnsupportedType, fileType)
	}
	if err != nil {
		return Table{}, err
	}
	return build(records)
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmpty
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func build(records [][]string) (Table, error) {
	var t Table
	for _, rec := range records {
		if blank(rec) {
			continue
		}
		if t.Headers == nil {
			t.Headers = make([]string, len(rec))
			for i, h := range rec {
				t.Headers[i] = strings.TrimSpace(h)
			}
			continue
		}
		row := make([]string, len(t.Headers))
		for i := range row {
			if i < len(rec) {
				row[i] = strings.TrimSpace(rec[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if t.Headers == nil {
		return Table{}, ErrEmpty
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Column returns the index of the header matching name case-insensitively, or -1.
func (t Table) Column(name string) int {
	for i, h := range t.Headers {
		if strings.EqualFold(h, strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// Cell returns row[idx] or "" when idx is out of range.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
