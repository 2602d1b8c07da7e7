// Package sequence generates human-readable document numbers of the
// form PREFIX-NNNN. Numbers are gapless under normal operation and are
// never reused: every issued number is claimed in the store before it
// is handed out, and claims survive even when the document that used
// them is later removed.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/yhs/inventory/internal/store"
)

// DeliveryPrefix is the document prefix for delivery numbers.
const DeliveryPrefix = "SOLM-PO"

// maxAttempts bounds the claim-with-recheck loop before falling back to
// a random suffix.
const maxAttempts = 10

// suffixWidth is the zero-padded width of the numeric suffix.
const suffixWidth = 4

// NumberStore is the slice of the store the generator needs. store.Tx
// satisfies it.
type NumberStore interface {
	LastSequence(ctx context.Context, prefix string) (int, error)
	ClaimNumber(ctx context.Context, number string) error
}

// Generator issues sequential document numbers. Proposals for the same
// prefix are serialized in-process; the store's claim uniqueness closes
// the race across processes.
type Generator struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGenerator creates a Generator.
func NewGenerator() *Generator {
	return &Generator{locks: make(map[string]*sync.Mutex)}
}

func (g *Generator) lockFor(prefix string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.locks[prefix]
	if !ok {
		l = &sync.Mutex{}
		g.locks[prefix] = l
	}
	return l
}

// Next issues the next number for prefix. It reads the highest issued
// suffix, proposes the successor and claims it, retrying on duplicate
// claims up to maxAttempts before falling back to a random suffix of
// the form PREFIX-XXXXXXXX.
func (g *Generator) Next(ctx context.Context, st NumberStore, prefix string) (string, error) {
	l := g.lockFor(prefix)
	l.Lock()
	defer l.Unlock()

	last, err := st.LastSequence(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("read last sequence for %s: %w", prefix, err)
	}

	seq := last + 1
	for attempt := 0; attempt < maxAttempts; attempt++ {
		number := fmt.Sprintf("%s-%0*d", prefix, suffixWidth, seq)
		err := st.ClaimNumber(ctx, number)
		if err == nil {
			return number, nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return "", fmt.Errorf("claim number %s: %w", number, err)
		}
		seq++
	}

	// Sequential space is contended; fall back to a random suffix so
	// the caller still gets a unique number.
	number := fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.NewString()[:8]))
	if err := st.ClaimNumber(ctx, number); err != nil {
		return "", fmt.Errorf("claim fallback number %s: %w", number, err)
	}
	return number, nil
}
