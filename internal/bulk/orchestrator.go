package bulk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yhs/inventory/internal/store"
)

// Orchestrator runs batches. Each row is applied within its own unit
// of work, so one row's failure never aborts the batch and a failed
// row leaves no partial writes behind.
type Orchestrator struct {
	store store.Store
	log   *slog.Logger
}

// NewOrchestrator creates an Orchestrator backed by st.
func NewOrchestrator(st store.Store, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{store: st, log: log}
}

// Run imports every row from src with proc. A source read failure is
// batch-fatal; everything after that is accounted per row. The result
// always satisfies SuccessCount + FailureCount == TotalCount.
func (o *Orchestrator) Run(ctx context.Context, proc RowProcessor, src RowSource) (*BatchResult, error) {
	rows, err := src.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	log := o.log.With("kind", proc.Kind(), "rows", len(rows))
	log.Info("batch started")

	result := &BatchResult{TotalCount: len(rows)}

	for pass := 0; pass < proc.Passes(); pass++ {
		for _, row := range rows {
			if proc.Pass(row) != pass {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			err := o.store.WithinRow(ctx, func(tx store.Tx) error {
				return proc.Process(ctx, tx, row)
			})
			if err != nil {
				result.recordFailure(row, proc.Keys(row), err)
				log.Debug("row failed", "row", row.Number, "error", err)
				continue
			}
			result.SuccessCount++
		}
	}

	log.Info("batch finished",
		"succeeded", result.SuccessCount,
		"failed", result.FailureCount,
	)
	return result, nil
}
