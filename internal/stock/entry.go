// Package stock provides the append-only stock ledger.
//
// Every stock-affecting event (initial load, inbound, outbound,
// adjustment, reversal) is recorded as an immutable Entry. Entries are
// never updated or deleted; the ledger is the audit trail of truth for
// current stock, which aggregates cache for fast reads.
package stock

import (
	"fmt"
	"time"
)

// Kind identifies which aggregate type an entry belongs to.
type Kind string

const (
	KindPart    Kind = "part"
	KindProduct Kind = "product"
)

// Type classifies a stock-affecting event.
type Type string

const (
	TypeInitial    Type = "INITIAL"
	TypeInbound    Type = "INBOUND"
	TypeOutbound   Type = "OUTBOUND"
	TypeAdjustment Type = "ADJUSTMENT"
	TypeReversal   Type = "REVERSAL"
)

// Entry is one immutable ledger record.
// Construct only via NewEntry, which enforces the ledger invariant.
type Entry struct {
	ID          int64
	SubjectKind Kind
	SubjectID   int64
	Type        Type
	Before      int
	Delta       int
	After       int
	CreatedAt   time.Time
}

// NewEntry builds a validated ledger entry.
// The invariant before + delta == after, with before and after both
// non-negative, is enforced here and never relaxed. A violation is a
// defect in the caller and fails loudly with the offending values.
func NewEntry(kind Kind, subjectID int64, typ Type, before, delta, after int) (*Entry, error) {
	if kind != KindPart && kind != KindProduct {
		return nil, fmt.Errorf("unknown stock subject kind: %s", kind)
	}
	if subjectID <= 0 {
		return nil, fmt.Errorf("stock subject id must be positive, got %d", subjectID)
	}
	switch typ {
	case TypeInitial, TypeInbound, TypeOutbound, TypeAdjustment, TypeReversal:
	default:
		return nil, fmt.Errorf("unknown stock transaction type: %s", typ)
	}
	if err := checkInvariant(before, delta, after); err != nil {
		return nil, err
	}

	return &Entry{
		SubjectKind: kind,
		SubjectID:   subjectID,
		Type:        typ,
		Before:      before,
		Delta:       delta,
		After:       after,
		CreatedAt:   time.Now(),
	}, nil
}

// checkInvariant verifies before + delta == after with non-negative
// before and after. Violations report the offending values.
func checkInvariant(before, delta, after int) error {
	if before < 0 {
		return fmt.Errorf("stock invariant violated: before stock %d is negative", before)
	}
	if after < 0 {
		return fmt.Errorf("stock invariant violated: after stock %d is negative", after)
	}
	if before+delta != after {
		return fmt.Errorf("stock invariant violated: before %d + delta %d != after %d", before, delta, after)
	}
	return nil
}
