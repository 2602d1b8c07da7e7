package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/yhs/inventory/internal/domain"
	"github.com/yhs/inventory/internal/stock"
	"github.com/yhs/inventory/internal/store"
)

// PartProcessor imports parts. Every created part gets an INITIAL
// ledger entry recording its starting stock.
type PartProcessor struct {
	singlePass
}

var _ RowProcessor = PartProcessor{}

func (PartProcessor) Kind() string { return "part" }

func (PartProcessor) RequiredColumns() []string {
	return []string{"partCode", "name", "specification", "stockQuantity", "unit"}
}

func (PartProcessor) Keys(row RowRecord) map[string]string {
	return map[string]string{"partCode": row.Field("partCode")}
}

func (PartProcessor) Process(ctx context.Context, tx store.Tx, row RowRecord) error {
	code, err := requireField(row, "partCode")
	if err != nil {
		return err
	}
	name, err := requireField(row, "name")
	if err != nil {
		return err
	}
	qty, err := intField(row, "stockQuantity", 0)
	if err != nil {
		return err
	}
	unit, err := requireField(row, "unit")
	if err != nil {
		return err
	}

	if exists, err := tx.PartCodeExists(ctx, code); err != nil {
		return fmt.Errorf("check part code: %w", err)
	} else if exists {
		return fmt.Errorf("part code %s already exists", code)
	}

	part := domain.NewPart(code, name, row.Field("specification"), qty, unit)
	if err := tx.CreatePart(ctx, part); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("part code %s already exists", code)
		}
		return fmt.Errorf("create part: %w", err)
	}

	// Every part opens its ledger with an INITIAL entry, zero stock
	// included, so the audit trail starts at registration.
	entry, err := part.InitialEntry()
	if err != nil {
		return err
	}
	return stock.NewLedger(tx).Append(ctx, entry)
}
