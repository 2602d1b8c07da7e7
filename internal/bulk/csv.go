package bulk

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// maxHeaderSearchRows is how many leading rows are scanned for the
// header. Exported templates often carry a title row or two above it.
var maxHeaderSearchRows = 20

// CSVSource reads batch rows from a CSV file. The header row is found
// by scanning the leading rows for one that carries every expected
// column (case-insensitive); rows above it are ignored and empty rows
// are skipped. Row numbers are 1-indexed file line numbers.
type CSVSource struct {
	Path    string
	Columns []string
}

var _ RowSource = CSVSource{}

func (s CSVSource) Rows(ctx context.Context) ([]RowRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return parseRows(sanitizeUTF8(data), s.Columns)
}

func parseRows(data []byte, columns []string) ([]RowRecord, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	headerIdx := findHeader(records, columns)
	if headerIdx < 0 {
		return nil, fmt.Errorf("header not found (expected columns: %s)", strings.Join(columns, ", "))
	}

	// Map column names to positions from the actual header row.
	positions := make(map[string]int, len(columns))
	for pos, cell := range records[headerIdx] {
		positions[strings.ToLower(strings.TrimSpace(cell))] = pos
	}

	var rows []RowRecord
	for i, record := range records[headerIdx+1:] {
		if isEmptyRecord(record) {
			continue
		}
		fields := make(map[string]string, len(columns))
		for _, col := range columns {
			pos, ok := positions[strings.ToLower(col)]
			if ok && pos < len(record) {
				fields[col] = record[pos]
			}
		}
		rows = append(rows, RowRecord{
			Number: headerIdx + i + 2, // 1-indexed, after header
			Fields: fields,
		})
	}
	return rows, nil
}

// findHeader returns the index of the first leading row that carries
// every expected column, or -1.
func findHeader(records [][]string, columns []string) int {
	limit := maxHeaderSearchRows
	if len(records) < limit {
		limit = len(records)
	}
	for i := 0; i < limit; i++ {
		if hasAllColumns(records[i], columns) {
			return i
		}
	}
	return -1
}

func hasAllColumns(record, columns []string) bool {
	for _, col := range columns {
		found := false
		for _, cell := range record {
			if strings.EqualFold(strings.TrimSpace(cell), col) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func isEmptyRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sanitizeUTF8 replaces invalid byte sequences so the CSV reader never
// chokes on exports from legacy tools.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}
	return buf.Bytes()
}
