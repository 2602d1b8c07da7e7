// Package bulk implements the bulk import pipeline: row sources, row
// processors for each importable kind, and the orchestrator that runs
// a batch with row-level failure isolation.
package bulk

import (
	"context"
	"strings"
)

// RowRecord is one logical input row. Number is the human-facing row
// number (the line in the source file for CSV input); Fields maps
// column names to raw cell values.
type RowRecord struct {
	Number int
	Fields map[string]string
}

// Field returns the trimmed value of the named column.
func (r RowRecord) Field(name string) string {
	return strings.TrimSpace(r.Fields[name])
}

// RowSource yields the rows of one batch.
type RowSource interface {
	Rows(ctx context.Context) ([]RowRecord, error)
}

// SliceSource is a RowSource over an in-memory slice.
type SliceSource []RowRecord

func (s SliceSource) Rows(ctx context.Context) ([]RowRecord, error) {
	return s, nil
}
