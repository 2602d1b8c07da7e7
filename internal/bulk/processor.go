package bulk

import (
	"context"

	"github.com/yhs/inventory/internal/store"
)

// RowProcessor implements the import semantics of one kind of row.
// The orchestrator owns iteration, unit-of-work boundaries and result
// accounting; the processor owns validation, reference resolution and
// writes for a single row.
type RowProcessor interface {
	// Kind names the processor, e.g. "part" or "delivery-item".
	Kind() string

	// RequiredColumns lists the columns a source must provide.
	RequiredColumns() []string

	// Passes is the number of passes over the batch. Most kinds need
	// one; clients need two so parents land before children.
	Passes() int

	// Pass assigns a row to a pass in [0, Passes()).
	Pass(row RowRecord) int

	// Keys extracts the business keys identifying the row in failure
	// reports.
	Keys(row RowRecord) map[string]string

	// Process validates the row and applies it within tx. Any error
	// fails the row and rolls back its unit of work.
	Process(ctx context.Context, tx store.Tx, row RowRecord) error
}

// singlePass is embedded by processors that need only one pass.
type singlePass struct{}

func (singlePass) Passes() int            { return 1 }
func (singlePass) Pass(row RowRecord) int { return 0 }
