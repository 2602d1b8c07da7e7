package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yhs/inventory/internal/stock"
)

// Product is a sellable item identified by its product code.
// DefaultUnitPrice is the list price used when no client-specific
// price exists. StockQuantity caches the latest ledger after-stock.
type Product struct {
	ID               int64
	Code             string
	Name             string
	DefaultUnitPrice decimal.Decimal
	Description      string
	StockQuantity    int
	CreatedAt        time.Time
	DeletedAt        *time.Time
}

// NewProduct creates a product with its declared starting stock.
func NewProduct(code, name string, defaultUnitPrice decimal.Decimal, description string, initialStock int) *Product {
	return &Product{
		Code:             code,
		Name:             name,
		DefaultUnitPrice: defaultUnitPrice,
		Description:      description,
		StockQuantity:    initialStock,
		CreatedAt:        time.Now(),
	}
}

// Deleted reports whether the product is soft-deleted.
func (p *Product) Deleted() bool { return p.DeletedAt != nil }

// InitialEntry builds the INITIAL ledger entry for the starting stock.
// Call after the product has been persisted and has an ID.
func (p *Product) InitialEntry() (*stock.Entry, error) {
	return stock.NewEntry(stock.KindProduct, p.ID, stock.TypeInitial, 0, p.StockQuantity, p.StockQuantity)
}

// Receive adds stock and returns the INBOUND ledger entry.
func (p *Product) Receive(quantity int) (*stock.Entry, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("receive quantity must be >= 1, got %d", quantity)
	}
	return p.apply(stock.TypeInbound, quantity)
}

// Issue removes stock and returns the OUTBOUND ledger entry.
func (p *Product) Issue(quantity int) (*stock.Entry, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("issue quantity must be >= 1, got %d", quantity)
	}
	if quantity > p.StockQuantity {
		return nil, fmt.Errorf("insufficient stock for product %s: have %d, need %d", p.Code, p.StockQuantity, quantity)
	}
	return p.apply(stock.TypeOutbound, -quantity)
}

// Adjust sets stock by an arbitrary delta and returns the ADJUSTMENT entry.
func (p *Product) Adjust(delta int) (*stock.Entry, error) {
	return p.apply(stock.TypeAdjustment, delta)
}

func (p *Product) apply(typ stock.Type, delta int) (*stock.Entry, error) {
	before := p.StockQuantity
	entry, err := stock.NewEntry(stock.KindProduct, p.ID, typ, before, delta, before+delta)
	if err != nil {
		return nil, err
	}
	p.StockQuantity = before + delta
	return entry, nil
}

// ProductPart maps a part onto a product's bill of materials with the
// quantity of the part required to build one unit of the product.
type ProductPart struct {
	ID               int64
	ProductID        int64
	PartID           int64
	RequiredQuantity int
}

// NewProductPart creates a mapping between a product and a part.
func NewProductPart(productID, partID int64, requiredQuantity int) *ProductPart {
	return &ProductPart{
		ProductID:        productID,
		PartID:           partID,
		RequiredQuantity: requiredQuantity,
	}
}
