package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"

	"finance-backend/internal/shared/storage/object"
	"finance-backend/internal/tabular"
)

const (
	TypePDF  = "pdf"
	TypeXLSX = tabular.TypeXLSX
	TypeCSV  = tabular.TypeCSV

	sampleRows = 5
)

var (
	ErrExtraction      = errors.New("extraction failed")
	ErrNoText          = errors.New("no extractable text")
	ErrUnsupportedType = errors.New("unsupported document type")
)

// ExtractText reads a stored upload and renders it as plain text.
func ExtractText(ctx context.Context, store object.ObjectStore, storageKey string, fileType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := store.Open(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s type=%s: %w", storageKey, fileType, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s type=%s: read: %w", storageKey, fileType, err)
	}
	text, err := ExtractTextFromBytes(ctx, raw, fileType)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: %w", storageKey, err)
	}
	return text, nil
}

// ExtractTextFromBytes extracts text from an in-memory payload of the declared file type.
func ExtractTextFromBytes(ctx context.Context, data []byte, fileType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(fileType), ".")); normalized {
	case TypePDF:
		return extractPDF(data)
	case TypeXLSX, TypeCSV:
		return extractSpreadsheet(data, normalized)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, normalized)
	}
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", ErrExtraction, err)
	}
	var pages []string
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrExtraction, i, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		return "", ErrNoText
	}
	return strings.Join(pages, "\n\n"), nil
}

func extractSpreadsheet(data []byte, fileType string) (string, error) {
	table, err := tabular.Read(data, fileType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return Describe(table), nil
}

// Describe renders a table as a shape line, column list, sample rows and numeric column statistics.
func Describe(table tabular.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Spreadsheet with %d rows and %d columns.\n\n", len(table.Rows), len(table.Headers))
	b.WriteString("Column names: " + strings.Join(table.Headers, ", ") + "\n\n")

	n := min(sampleRows, len(table.Rows))
	fmt.Fprintf(&b, "Sample data (first %d rows):\n", n)
	b.WriteString(strings.Join(table.Headers, " | ") + "\n")
	for _, row := range table.Rows[:n] {
		b.WriteString(strings.Join(row, " | ") + "\n")
	}

	stats := numericStats(table)
	if len(stats) > 0 {
		b.WriteString("\nBasic statistics for numeric columns:\n")
		for _, s := range stats {
			fmt.Fprintf(&b, "%s: count=%d mean=%s min=%s max=%s\n",
				s.column, s.count, s.mean.StringFixed(2), s.min.String(), s.max.String())
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

type columnStats struct {
	column string
	count  int
	mean   decimal.Decimal
	min    decimal.Decimal
	max    decimal.Decimal
}

// A column is numeric when every non-blank cell parses as a number.
func numericStats(table tabular.Table) []columnStats {
	var out []columnStats
	for col, name := range table.Headers {
		var values []decimal.Decimal
		numeric := true
		for _, row := range table.Rows {
			cell := tabular.Cell(row, col)
			if cell == "" {
				continue
			}
			v, ok := tabular.ParseNumber(cell)
			if !ok {
				numeric = false
				break
			}
			values = append(values, v)
		}
		if !numeric || len(values) == 0 {
			continue
		}
		s := columnStats{column: name, count: len(values), min: values[0], max: values[0]}
		sum := decimal.Zero
		for _, v := range values {
			sum = sum.Add(v)
			s.min = decimal.Min(s.min, v)
			s.max = decimal.Max(s.max, v)
		}
		s.mean = sum.Div(decimal.NewFromInt(int64(len(values))))
		out = append(out, s)
	}
	return out
}
