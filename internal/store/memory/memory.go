// Package memory provides an in-memory Store used by tests and local
// tooling. Units of work are implemented by snapshotting the table set
// and restoring it when the row function fails, so a failing row leaves
// no trace. Business-key uniqueness is enforced on every create, the
// same backstop the postgres schema provides.
package memory

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/yhs/inventory/internal/domain"
	"github.com/yhs/inventory/internal/stock"
	"github.com/yhs/inventory/internal/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu   sync.Mutex
	data *tables
}

// tables holds every aggregate by value so snapshots are plain copies.
type tables struct {
	nextID     int64
	parts      map[int64]domain.Part
	products   map[int64]domain.Product
	mappings   []domain.ProductPart
	clients    map[int64]domain.Client
	countries  map[int64]domain.Country
	prices     []domain.ClientProductPrice
	deliveries map[int64]domain.Delivery
	entries    []stock.Entry
	claims     map[string]bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{data: &tables{
		parts:      make(map[int64]domain.Part),
		products:   make(map[int64]domain.Product),
		clients:    make(map[int64]domain.Client),
		countries:  make(map[int64]domain.Country),
		deliveries: make(map[int64]domain.Delivery),
		claims:     make(map[string]bool),
	}}
}

var _ store.Store = (*Store)(nil)

// WithinRow runs fn against a transactional view. On error the table
// set is restored to its pre-call snapshot.
func (s *Store) WithinRow(ctx context.Context, fn func(tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&memTx{t: s.data}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (t *tables) clone() *tables {
	c := &tables{
		nextID:     t.nextID,
		parts:      make(map[int64]domain.Part, len(t.parts)),
		products:   make(map[int64]domain.Product, len(t.products)),
		mappings:   append([]domain.ProductPart(nil), t.mappings...),
		clients:    make(map[int64]domain.Client, len(t.clients)),
		countries:  make(map[int64]domain.Country, len(t.countries)),
		prices:     append([]domain.ClientProductPrice(nil), t.prices...),
		deliveries: make(map[int64]domain.Delivery, len(t.deliveries)),
		entries:    append([]stock.Entry(nil), t.entries...),
		claims:     make(map[string]bool, len(t.claims)),
	}
	for id, p := range t.parts {
		c.parts[id] = p
	}
	for id, p := range t.products {
		c.products[id] = p
	}
	for id, cl := range t.clients {
		c.clients[id] = cl
	}
	for id, co := range t.countries {
		c.countries[id] = co
	}
	for id, d := range t.deliveries {
		d.Items = append([]domain.DeliveryItem(nil), d.Items...)
		c.deliveries[id] = d
	}
	for n := range t.claims {
		c.claims[n] = true
	}
	return c
}

// memTx is a transactional view over the live table set. The store
// mutex is held for the duration of the unit of work.
type memTx struct {
	t *tables
}

var _ store.Tx = (*memTx)(nil)

func (x *memTx) nextID() int64 {
	x.t.nextID++
	return x.t.nextID
}

// ----------------------------------------------------------------------------
// Parts
// ----------------------------------------------------------------------------

func (x *memTx) PartByCode(ctx context.Context, code string) (*domain.Part, error) {
	for _, p := range x.t.parts {
		if p.Code == code && !p.Deleted() {
			cp := p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (x *memTx) PartCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := x.PartByCode(ctx, code)
	if err == store.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (x *memTx) CreatePart(ctx context.Context, p *domain.Part) error {
	if ok, _ := x.PartCodeExists(ctx, p.Code); ok {
		return store.ErrDuplicate
	}
	p.ID = x.nextID()
	x.t.parts[p.ID] = *p
	return nil
}

func (x *memTx) UpdatePartStock(ctx context.Context, p *domain.Part) error {
	cur, ok := x.t.parts[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	cur.StockQuantity = p.StockQuantity
	x.t.parts[p.ID] = cur
	return nil
}

// ----------------------------------------------------------------------------
// Products
// ----------------------------------------------------------------------------

func (x *memTx) ProductByCode(ctx context.Context, code string) (*domain.Product, error) {
	for _, p := range x.t.products {
		if p.Code == code && !p.Deleted() {
			cp := p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (x *memTx) ProductCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := x.ProductByCode(ctx, code)
	if err == store.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (x *memTx) CreateProduct(ctx context.Context, p *domain.Product) error {
	if ok, _ := x.ProductCodeExists(ctx, p.Code); ok {
		return store.ErrDuplicate
	}
	p.ID = x.nextID()
	x.t.products[p.ID] = *p
	return nil
}

func (x *memTx) UpdateProductStock(ctx context.Context, p *domain.Product) error {
	cur, ok := x.t.products[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	cur.StockQuantity = p.StockQuantity
	x.t.products[p.ID] = cur
	return nil
}

// ----------------------------------------------------------------------------
// Product-part mappings
// ----------------------------------------------------------------------------

func (x *memTx) MappingExists(ctx context.Context, productID, partID int64) (bool, error) {
	for _, m := range x.t.mappings {
		if m.ProductID == productID && m.PartID == partID {
			return true, nil
		}
	}
	return false, nil
}

func (x *memTx) CreateMapping(ctx context.Context, m *domain.ProductPart) error {
	if ok, _ := x.MappingExists(ctx, m.ProductID, m.PartID); ok {
		return store.ErrDuplicate
	}
	m.ID = x.nextID()
	x.t.mappings = append(x.t.mappings, *m)
	return nil
}

// ----------------------------------------------------------------------------
// Clients and countries
// ----------------------------------------------------------------------------

func (x *memTx) ClientByCode(ctx context.Context, code string) (*domain.Client, error) {
	for _, c := range x.t.clients {
		if c.Code == code && !c.Deleted() {
			cp := c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (x *memTx) ClientCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := x.ClientByCode(ctx, code)
	if err == store.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (x *memTx) CreateClient(ctx context.Context, c *domain.Client) error {
	if ok, _ := x.ClientCodeExists(ctx, c.Code); ok {
		return store.ErrDuplicate
	}
	c.ID = x.nextID()
	x.t.clients[c.ID] = *c
	return nil
}

func (x *memTx) CountryByCode(ctx context.Context, code string) (*domain.Country, error) {
	for _, c := range x.t.countries {
		if c.Code == code {
			cp := c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (x *memTx) CreateCountry(ctx context.Context, c *domain.Country) error {
	if _, err := x.CountryByCode(ctx, c.Code); err == nil {
		return store.ErrDuplicate
	}
	c.ID = x.nextID()
	x.t.countries[c.ID] = *c
	return nil
}

// ----------------------------------------------------------------------------
// Client-product prices
// ----------------------------------------------------------------------------

func (x *memTx) PriceByClientProduct(ctx context.Context, clientID, productID int64) (*domain.ClientProductPrice, error) {
	for _, p := range x.t.prices {
		if p.ClientID == clientID && p.ProductID == productID {
			cp := p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (x *memTx) PriceExists(ctx context.Context, clientID, productID int64) (bool, error) {
	_, err := x.PriceByClientProduct(ctx, clientID, productID)
	if err == store.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (x *memTx) CreatePrice(ctx context.Context, p *domain.ClientProductPrice) error {
	if ok, _ := x.PriceExists(ctx, p.ClientID, p.ProductID); ok {
		return store.ErrDuplicate
	}
	p.ID = x.nextID()
	x.t.prices = append(x.t.prices, *p)
	return nil
}

// ----------------------------------------------------------------------------
// Deliveries
// ----------------------------------------------------------------------------

func (x *memTx) DeliveryByNumber(ctx context.Context, number string) (*domain.Delivery, error) {
	for _, d := range x.t.deliveries {
		if d.Number == number {
			cp := d
			cp.Items = append([]domain.DeliveryItem(nil), d.Items...)
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (x *memTx) DeliveryNumberExists(ctx context.Context, number string) (bool, error) {
	_, err := x.DeliveryByNumber(ctx, number)
	if err == store.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (x *memTx) CreateDelivery(ctx context.Context, d *domain.Delivery) error {
	if ok, _ := x.DeliveryNumberExists(ctx, d.Number); ok {
		return store.ErrDuplicate
	}
	if x.t.claims[d.Number] {
		return store.ErrDuplicate
	}
	d.ID = x.nextID()
	for i := range d.Items {
		d.Items[i].ID = x.nextID()
		d.Items[i].DeliveryID = d.ID
	}
	cp := *d
	cp.Items = append([]domain.DeliveryItem(nil), d.Items...)
	x.t.deliveries[d.ID] = cp
	return nil
}

func (x *memTx) UpdateDelivery(ctx context.Context, d *domain.Delivery) error {
	if _, ok := x.t.deliveries[d.ID]; !ok {
		return store.ErrNotFound
	}
	for i := range d.Items {
		if d.Items[i].ID == 0 {
			d.Items[i].ID = x.nextID()
			d.Items[i].DeliveryID = d.ID
		}
	}
	cp := *d
	cp.Items = append([]domain.DeliveryItem(nil), d.Items...)
	x.t.deliveries[d.ID] = cp
	return nil
}

// ----------------------------------------------------------------------------
// Stock ledger
// ----------------------------------------------------------------------------

func (x *memTx) AppendEntry(ctx context.Context, e *stock.Entry) error {
	e.ID = x.nextID()
	x.t.entries = append(x.t.entries, *e)
	return nil
}

func (x *memTx) EntriesBySubject(ctx context.Context, kind stock.Kind, subjectID int64) ([]*stock.Entry, error) {
	var out []*stock.Entry
	for i := range x.t.entries {
		e := x.t.entries[i]
		if e.SubjectKind == kind && e.SubjectID == subjectID {
			cp := e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ----------------------------------------------------------------------------
// Sequence numbers
// ----------------------------------------------------------------------------

// LastSequence scans delivery numbers and claimed numbers matching
// prefix-NNNN and returns the highest numeric suffix, or 0.
func (x *memTx) LastSequence(ctx context.Context, prefix string) (int, error) {
	max := 0
	consider := func(number string) {
		seq, ok := numericSuffix(number, prefix)
		if ok && seq > max {
			max = seq
		}
	}
	for _, d := range x.t.deliveries {
		consider(d.Number)
	}
	for n := range x.t.claims {
		consider(n)
	}
	return max, nil
}

func (x *memTx) ClaimNumber(ctx context.Context, number string) error {
	if x.t.claims[number] {
		return store.ErrDuplicate
	}
	if ok, _ := x.DeliveryNumberExists(ctx, number); ok {
		return store.ErrDuplicate
	}
	x.t.claims[number] = true
	return nil
}

// numericSuffix extracts the numeric suffix from prefix-NNNN numbers.
func numericSuffix(number, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(number, prefix+"-")
	if !ok {
		return 0, false
	}
	seq, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return seq, true
}
