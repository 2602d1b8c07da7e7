// Package store defines the persistence surface consumed by the import
// pipeline: code-keyed finders, existence checks, creators, ledger
// appends and sequence queries, all scoped to a per-row unit of work.
//
// Two implementations exist: memory (tests) and postgres (production).
// Both enforce business-key uniqueness at write time as a backstop for
// the processors' pre-checks, closing the race between check and insert
// across concurrent runs.
package store

import (
	"context"
	"errors"

	"github.com/yhs/inventory/internal/domain"
	"github.com/yhs/inventory/internal/stock"
)

// ErrNotFound is returned by finders when no row matches.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by creators when a business key or claim
// already exists.
var ErrDuplicate = errors.New("duplicate key")

// Tx is a transactional view scoped to one unit of work. Finders and
// existence checks see only non-deleted aggregates.
type Tx interface {
	// Parts
	PartByCode(ctx context.Context, code string) (*domain.Part, error)
	PartCodeExists(ctx context.Context, code string) (bool, error)
	CreatePart(ctx context.Context, p *domain.Part) error
	UpdatePartStock(ctx context.Context, p *domain.Part) error

	// Products
	ProductByCode(ctx context.Context, code string) (*domain.Product, error)
	ProductCodeExists(ctx context.Context, code string) (bool, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProductStock(ctx context.Context, p *domain.Product) error

	// Product-part mappings
	MappingExists(ctx context.Context, productID, partID int64) (bool, error)
	CreateMapping(ctx context.Context, m *domain.ProductPart) error

	// Clients and countries
	ClientByCode(ctx context.Context, code string) (*domain.Client, error)
	ClientCodeExists(ctx context.Context, code string) (bool, error)
	CreateClient(ctx context.Context, c *domain.Client) error
	CountryByCode(ctx context.Context, code string) (*domain.Country, error)
	CreateCountry(ctx context.Context, c *domain.Country) error

	// Client-product prices
	PriceByClientProduct(ctx context.Context, clientID, productID int64) (*domain.ClientProductPrice, error)
	PriceExists(ctx context.Context, clientID, productID int64) (bool, error)
	CreatePrice(ctx context.Context, p *domain.ClientProductPrice) error

	// Deliveries
	DeliveryByNumber(ctx context.Context, number string) (*domain.Delivery, error)
	DeliveryNumberExists(ctx context.Context, number string) (bool, error)
	CreateDelivery(ctx context.Context, d *domain.Delivery) error
	UpdateDelivery(ctx context.Context, d *domain.Delivery) error

	// Stock ledger
	AppendEntry(ctx context.Context, e *stock.Entry) error
	EntriesBySubject(ctx context.Context, kind stock.Kind, subjectID int64) ([]*stock.Entry, error)

	// Sequence numbers
	LastSequence(ctx context.Context, prefix string) (int, error)
	ClaimNumber(ctx context.Context, number string) error
}

// Store opens per-row units of work. Within one call to WithinRow,
// either every effect of fn commits or none of them do; a failing row
// leaves no partial aggregate, ledger entry or number claim behind.
type Store interface {
	WithinRow(ctx context.Context, fn func(tx Tx) error) error
}
