// Package domain holds the aggregates owned by the import pipeline and
// the stock/pricing rules attached to them. Monetary amounts use
// shopspring/decimal; quantities are plain ints.
package domain

import (
	"fmt"
	"time"

	"github.com/yhs/inventory/internal/stock"
)

// Part is a purchasable component identified by its part code.
// StockQuantity caches the after-stock of the most recent ledger entry.
type Part struct {
	ID            int64
	Code          string
	Name          string
	Specification string
	StockQuantity int
	Unit          string
	CreatedAt     time.Time
	DeletedAt     *time.Time
}

// NewPart creates a part with its declared starting stock.
func NewPart(code, name, specification string, initialStock int, unit string) *Part {
	return &Part{
		Code:          code,
		Name:          name,
		Specification: specification,
		StockQuantity: initialStock,
		Unit:          unit,
		CreatedAt:     time.Now(),
	}
}

// Deleted reports whether the part is soft-deleted.
func (p *Part) Deleted() bool { return p.DeletedAt != nil }

// InitialEntry builds the INITIAL ledger entry for the starting stock.
// Call after the part has been persisted and has an ID.
func (p *Part) InitialEntry() (*stock.Entry, error) {
	return stock.NewEntry(stock.KindPart, p.ID, stock.TypeInitial, 0, p.StockQuantity, p.StockQuantity)
}

// Receive adds stock and returns the INBOUND ledger entry.
func (p *Part) Receive(quantity int) (*stock.Entry, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("receive quantity must be >= 1, got %d", quantity)
	}
	return p.apply(stock.TypeInbound, quantity)
}

// Issue removes stock and returns the OUTBOUND ledger entry.
// Issuing more than the current stock is an error.
func (p *Part) Issue(quantity int) (*stock.Entry, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("issue quantity must be >= 1, got %d", quantity)
	}
	if quantity > p.StockQuantity {
		return nil, fmt.Errorf("insufficient stock for part %s: have %d, need %d", p.Code, p.StockQuantity, quantity)
	}
	return p.apply(stock.TypeOutbound, -quantity)
}

// Adjust sets stock by an arbitrary delta and returns the ADJUSTMENT entry.
func (p *Part) Adjust(delta int) (*stock.Entry, error) {
	return p.apply(stock.TypeAdjustment, delta)
}

// Reverse undoes a prior movement and returns the REVERSAL entry.
func (p *Part) Reverse(delta int) (*stock.Entry, error) {
	return p.apply(stock.TypeReversal, delta)
}

func (p *Part) apply(typ stock.Type, delta int) (*stock.Entry, error) {
	before := p.StockQuantity
	entry, err := stock.NewEntry(stock.KindPart, p.ID, typ, before, delta, before+delta)
	if err != nil {
		return nil, err
	}
	p.StockQuantity = before + delta
	return entry, nil
}
