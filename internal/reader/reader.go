package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"dataimport/internal/model"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported import file format")
	ErrNoHeader          = errors.New("import file has no header row")
)

// Record is one data row of an import file. Line is 1-indexed and counts the header.
type Record struct {
	Line int
	Row  model.Row
}

// Parse picks the parser from the file extension (.csv or .xlsx).
func Parse(fileName string, r io.Reader) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, fileName)
	}
}

// ParseCSV reads a header row followed by data rows.
func ParseCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	headers = normalizeHeaders(headers)

	var out []Record
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if row, ok := toRow(headers, rec); ok {
			out = append(out, Record{Line: line, Row: row})
		}
	}
	return out, nil
}

// ParseXLSX reads the first sheet; its first row is the header.
func ParseXLSX(r io.Reader) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in xlsx file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	headers := normalizeHeaders(rows[0])
	var out []Record
	for i, cells := range rows[1:] {
		if row, ok := toRow(headers, cells); ok {
			out = append(out, Record{Line: i + 2, Row: row})
		}
	}
	return out, nil
}

func normalizeHeaders(in []string) []string {
	out := make([]string, len(in))
	for i, h := range in {
		out[i] = NormalizeHeader(h)
	}
	return out
}

// NormalizeHeader is the column key a header cell becomes: BOM and surrounding
// space removed, lower-cased. Field codes matched against file rows go through it too.
func NormalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

// toRow maps cells onto headers; ok is false for rows with no non-blank cell.
func toRow(headers, cells []string) (model.Row, bool) {
	row := make(model.Row, len(headers))
	blank := true
	for i, h := range headers {
		if h == "" {
			continue
		}
		v := ""
		if i < len(cells) {
			v = strings.TrimSpace(cells[i])
		}
		if v != "" {
			blank = false
		}
		row[h] = v
	}
	return row, !blank
}
