package stock

import (
	"context"
	"fmt"
)

// Appender is the persistence surface the ledger writes to.
// Satisfied by a store transaction.
type Appender interface {
	AppendEntry(ctx context.Context, e *Entry) error
}

// Ledger appends validated entries to a backing store.
type Ledger struct {
	store Appender
}

// NewLedger creates a ledger over the given store.
func NewLedger(store Appender) *Ledger {
	return &Ledger{store: store}
}

// Append re-checks the entry invariant and appends it.
// Appending is the only write operation; entries are never mutated.
func (l *Ledger) Append(ctx context.Context, e *Entry) error {
	if err := checkInvariant(e.Before, e.Delta, e.After); err != nil {
		return err
	}
	if err := l.store.AppendEntry(ctx, e); err != nil {
		return fmt.Errorf("append stock entry: %w", err)
	}
	return nil
}
