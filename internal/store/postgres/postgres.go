// Package postgres implements the store against PostgreSQL with pgx.
// Each unit of work is one database transaction, and the schema's
// unique indexes back the processors' duplicate pre-checks.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/yhs/inventory/internal/domain"
	"github.com/yhs/inventory/internal/stock"
	"github.com/yhs/inventory/internal/store"
)

// Store is a PostgreSQL-backed store.Store.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store over pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ store.Store = (*Store)(nil)

// WithinRow runs fn inside one database transaction.
func (s *Store) WithinRow(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type pgTx struct {
	tx pgx.Tx
}

var _ store.Tx = (*pgTx)(nil)

// mapErr translates pgx errors into the store sentinel errors.
func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return store.ErrDuplicate
	}
	return err
}

func scanDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// ----------------------------------------------------------------------------
// Parts
// ----------------------------------------------------------------------------

func (x *pgTx) PartByCode(ctx context.Context, code string) (*domain.Part, error) {
	var p domain.Part
	err := x.tx.QueryRow(ctx, `
		SELECT id, code, name, specification, stock_quantity, unit, created_at, deleted_at
		FROM parts WHERE code = $1 AND deleted_at IS NULL`, code,
	).Scan(&p.ID, &p.Code, &p.Name, &p.Specification, &p.StockQuantity, &p.Unit, &p.CreatedAt, &p.DeletedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (x *pgTx) PartCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := x.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM parts WHERE code = $1 AND deleted_at IS NULL)`, code,
	).Scan(&exists)
	return exists, err
}

func (x *pgTx) CreatePart(ctx context.Context, p *domain.Part) error {
	err := x.tx.QueryRow(ctx, `
		INSERT INTO parts (code, name, specification, stock_quantity, unit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.Code, p.Name, p.Specification, p.StockQuantity, p.Unit, p.CreatedAt,
	).Scan(&p.ID)
	return mapErr(err)
}

func (x *pgTx) UpdatePartStock(ctx context.Context, p *domain.Part) error {
	tag, err := x.tx.Exec(ctx,
		`UPDATE parts SET stock_quantity = $2 WHERE id = $1`, p.ID, p.StockQuantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ----------------------------------------------------------------------------
// Products
// ----------------------------------------------------------------------------

func (x *pgTx) ProductByCode(ctx context.Context, code string) (*domain.Product, error) {
	var p domain.Product
	var unitPrice string
	err := x.tx.QueryRow(ctx, `
		SELECT id, code, name, default_unit_price::text, description, stock_quantity, created_at, deleted_at
		FROM products WHERE code = $1 AND deleted_at IS NULL`, code,
	).Scan(&p.ID, &p.Code, &p.Name, &unitPrice, &p.Description, &p.StockQuantity, &p.CreatedAt, &p.DeletedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if p.DefaultUnitPrice, err = scanDecimal(unitPrice); err != nil {
		return nil, fmt.Errorf("scan default unit price: %w", err)
	}
	return &p, nil
}

func (x *pgTx) ProductCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := x.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE code = $1 AND deleted_at IS NULL)`, code,
	).Scan(&exists)
	return exists, err
}

func (x *pgTx) CreateProduct(ctx context.Context, p *domain.Product) error {
	err := x.tx.QueryRow(ctx, `
		INSERT INTO products (code, name, default_unit_price, description, stock_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.Code, p.Name, p.DefaultUnitPrice.String(), p.Description, p.StockQuantity, p.CreatedAt,
	).Scan(&p.ID)
	return mapErr(err)
}

func (x *pgTx) UpdateProductStock(ctx context.Context, p *domain.Product) error {
	tag, err := x.tx.Exec(ctx,
		`UPDATE products SET stock_quantity = $2 WHERE id = $1`, p.ID, p.StockQuantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ----------------------------------------------------------------------------
// Product-part mappings
// ----------------------------------------------------------------------------

func (x *pgTx) MappingExists(ctx context.Context, productID, partID int64) (bool, error) {
	var exists bool
	err := x.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM product_parts WHERE product_id = $1 AND part_id = $2)`,
		productID, partID,
	).Scan(&exists)
	return exists, err
}

func (x *pgTx) CreateMapping(ctx context.Context, m *domain.ProductPart) error {
	err := x.tx.QueryRow(ctx, `
		INSERT INTO product_parts (product_id, part_id, required_quantity)
		VALUES ($1, $2, $3)
		RETURNING id`,
		m.ProductID, m.PartID, m.RequiredQuantity,
	).Scan(&m.ID)
	return mapErr(err)
}

// ----------------------------------------------------------------------------
// Clients and countries
// ----------------------------------------------------------------------------

func (x *pgTx) ClientByCode(ctx context.Context, code string) (*domain.Client, error) {
	var c domain.Client
	err := x.tx.QueryRow(ctx, `
		SELECT id, code, parent_id, country_id, name, address, contact_number, email, currency, created_at, deleted_at
		FROM clients WHERE code = $1 AND deleted_at IS NULL`, code,
	).Scan(&c.ID, &c.Code, &c.ParentID, &c.CountryID, &c.Name, &c.Address, &c.ContactNumber, &c.Email, &c.Currency, &c.CreatedAt, &c.DeletedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (x *pgTx) ClientCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := x.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM clients WHERE code = $1 AND deleted_at IS NULL)`, code,
	).Scan(&exists)
	return exists, err
}

func (x *pgTx) CreateClient(ctx context.Context, c *domain.Client) error {
	err := x.tx.QueryRow(ctx, `
		INSERT INTO clients (code, parent_id, country_id, name, address, contact_number, email, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		c.Code, c.ParentID, c.CountryID, c.Name, c.Address, c.ContactNumber, c.Email, c.Currency, c.CreatedAt,
	).Scan(&c.ID)
	return mapErr(err)
}

func (x *pgTx) CountryByCode(ctx context.Context, code string) (*domain.Country, error) {
	var c domain.Country
	err := x.tx.QueryRow(ctx, `
		SELECT id, code, name, english_name FROM countries WHERE code = $1`, code,
	).Scan(&c.ID, &c.Code, &c.Name, &c.EnglishName)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (x *pgTx) CreateCountry(ctx context.Context, c *domain.Country) error {
	err := x.tx.QueryRow(ctx, `
		INSERT INTO countries (code, name, english_name)
		VALUES ($1, $2, $3)
		RETURNING id`,
		c.Code, c.Name, c.EnglishName,
	).Scan(&c.ID)
	return mapErr(err)
}

// ----------------------------------------------------------------------------
// Client-product prices
// ----------------------------------------------------------------------------

func (x *pgTx) PriceByClientProduct(ctx context.Context, clientID, productID int64) (*domain.ClientProductPrice, error) {
	var p domain.ClientProductPrice
	var unitPrice string
	err := x.tx.QueryRow(ctx, `
		SELECT id, client_id, product_id, unit_price::text, created_at
		FROM client_product_prices WHERE client_id = $1 AND product_id = $2`,
		clientID, productID,
	).Scan(&p.ID, &p.ClientID, &p.ProductID, &unitPrice, &p.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if p.UnitPrice, err = scanDecimal(unitPrice); err != nil {
		return nil, fmt.Errorf("scan unit price: %w", err)
	}
	return &p, nil
}

func (x *pgTx) PriceExists(ctx context.Context, clientID, productID int64) (bool, error) {
	var exists bool
	err := x.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM client_product_prices WHERE client_id = $1 AND product_id = $2)`,
		clientID, productID,
	).Scan(&exists)
	return exists, err
}

func (x *pgTx) CreatePrice(ctx context.Context, p *domain.ClientProductPrice) error {
	err := x.tx.QueryRow(ctx, `
		INSERT INTO client_product_prices (client_id, product_id, unit_price, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		p.ClientID, p.ProductID, p.UnitPrice.String(), p.CreatedAt,
	).Scan(&p.ID)
	return mapErr(err)
}

// ----------------------------------------------------------------------------
// Deliveries
// ----------------------------------------------------------------------------

func (x *pgTx) DeliveryByNumber(ctx context.Context, number string) (*domain.Delivery, error) {
	var d domain.Delivery
	var subtotal, totalDiscount, total string
	var discountAmount, discountRate, exchangeRate, totalKRW *string
	err := x.tx.QueryRow(ctx, `
		SELECT id, number, client_id, currency, status, ordered_at, requested_at, delivered_at, memo,
		       discount_amount::text, discount_rate::text, discount_note, exchange_rate::text,
		       subtotal::text, total_discount::text, total::text, total_krw::text, created_at
		FROM deliveries WHERE number = $1`, number,
	).Scan(&d.ID, &d.Number, &d.ClientID, &d.Currency, &d.Status, &d.OrderedAt, &d.RequestedAt, &d.DeliveredAt, &d.Memo,
		&discountAmount, &discountRate, &d.DiscountNote, &exchangeRate,
		&subtotal, &totalDiscount, &total, &totalKRW, &d.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}

	if d.Subtotal, err = scanDecimal(subtotal); err != nil {
		return nil, err
	}
	if d.TotalDiscount, err = scanDecimal(totalDiscount); err != nil {
		return nil, err
	}
	if d.Total, err = scanDecimal(total); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		src *string
		dst **decimal.Decimal
	}{
		{discountAmount, &d.DiscountAmount},
		{discountRate, &d.DiscountRate},
		{exchangeRate, &d.ExchangeRate},
		{totalKRW, &d.TotalKRW},
	} {
		if f.src == nil {
			continue
		}
		v, err := scanDecimal(*f.src)
		if err != nil {
			return nil, err
		}
		*f.dst = &v
	}

	if d.Items, err = x.deliveryItems(ctx, d.ID); err != nil {
		return nil, err
	}
	return &d, nil
}

func (x *pgTx) deliveryItems(ctx context.Context, deliveryID int64) ([]domain.DeliveryItem, error) {
	rows, err := x.tx.Query(ctx, `
		SELECT id, delivery_id, product_id, quantity, unit_price::text, actual_unit_price::text,
		       total_price::text, is_free, price_note
		FROM delivery_items WHERE delivery_id = $1 ORDER BY id`, deliveryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.DeliveryItem
	for rows.Next() {
		var it domain.DeliveryItem
		var unitPrice, actualUnitPrice, totalPrice string
		if err := rows.Scan(&it.ID, &it.DeliveryID, &it.ProductID, &it.Quantity,
			&unitPrice, &actualUnitPrice, &totalPrice, &it.Free, &it.PriceNote); err != nil {
			return nil, err
		}
		if it.UnitPrice, err = scanDecimal(unitPrice); err != nil {
			return nil, err
		}
		if it.ActualUnitPrice, err = scanDecimal(actualUnitPrice); err != nil {
			return nil, err
		}
		if it.TotalPrice, err = scanDecimal(totalPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (x *pgTx) DeliveryNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := x.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM deliveries WHERE number = $1)`, number,
	).Scan(&exists)
	return exists, err
}

func (x *pgTx) CreateDelivery(ctx context.Context, d *domain.Delivery) error {
	err := x.tx.QueryRow(ctx, `
		INSERT INTO deliveries (number, client_id, currency, status, ordered_at, requested_at, delivered_at, memo,
		                        discount_amount, discount_rate, discount_note, exchange_rate,
		                        subtotal, total_discount, total, total_krw, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`,
		d.Number, d.ClientID, d.Currency, d.Status, d.OrderedAt, d.RequestedAt, d.DeliveredAt, d.Memo,
		nullDecimal(d.DiscountAmount), nullDecimal(d.DiscountRate), d.DiscountNote, nullDecimal(d.ExchangeRate),
		d.Subtotal.String(), d.TotalDiscount.String(), d.Total.String(), nullDecimal(d.TotalKRW), d.CreatedAt,
	).Scan(&d.ID)
	if err != nil {
		return mapErr(err)
	}
	return x.insertNewItems(ctx, d)
}

func (x *pgTx) UpdateDelivery(ctx context.Context, d *domain.Delivery) error {
	tag, err := x.tx.Exec(ctx, `
		UPDATE deliveries
		SET status = $2, delivered_at = $3, memo = $4,
		    discount_amount = $5, discount_rate = $6, discount_note = $7, exchange_rate = $8,
		    subtotal = $9, total_discount = $10, total = $11, total_krw = $12
		WHERE id = $1`,
		d.ID, d.Status, d.DeliveredAt, d.Memo,
		nullDecimal(d.DiscountAmount), nullDecimal(d.DiscountRate), d.DiscountNote, nullDecimal(d.ExchangeRate),
		d.Subtotal.String(), d.TotalDiscount.String(), d.Total.String(), nullDecimal(d.TotalKRW))
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return x.insertNewItems(ctx, d)
}

// insertNewItems persists items that have no ID yet.
func (x *pgTx) insertNewItems(ctx context.Context, d *domain.Delivery) error {
	for i := range d.Items {
		it := &d.Items[i]
		if it.ID != 0 {
			continue
		}
		it.DeliveryID = d.ID
		err := x.tx.QueryRow(ctx, `
			INSERT INTO delivery_items (delivery_id, product_id, quantity, unit_price, actual_unit_price,
			                            total_price, is_free, price_note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			it.DeliveryID, it.ProductID, it.Quantity, it.UnitPrice.String(), it.ActualUnitPrice.String(),
			it.TotalPrice.String(), it.Free, it.PriceNote,
		).Scan(&it.ID)
		if err != nil {
			return mapErr(err)
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Stock ledger
// ----------------------------------------------------------------------------

func (x *pgTx) AppendEntry(ctx context.Context, e *stock.Entry) error {
	err := x.tx.QueryRow(ctx, `
		INSERT INTO stock_entries (subject_kind, subject_id, type, before_quantity, delta, after_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		e.SubjectKind, e.SubjectID, e.Type, e.Before, e.Delta, e.After, e.CreatedAt,
	).Scan(&e.ID)
	return mapErr(err)
}

func (x *pgTx) EntriesBySubject(ctx context.Context, kind stock.Kind, subjectID int64) ([]*stock.Entry, error) {
	rows, err := x.tx.Query(ctx, `
		SELECT id, subject_kind, subject_id, type, before_quantity, delta, after_quantity, created_at
		FROM stock_entries WHERE subject_kind = $1 AND subject_id = $2 ORDER BY id`, kind, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*stock.Entry
	for rows.Next() {
		var e stock.Entry
		if err := rows.Scan(&e.ID, &e.SubjectKind, &e.SubjectID, &e.Type, &e.Before, &e.Delta, &e.After, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// ----------------------------------------------------------------------------
// Sequence numbers
// ----------------------------------------------------------------------------

func (x *pgTx) LastSequence(ctx context.Context, prefix string) (int, error) {
	// Issued numbers live in number_claims; numbers imported directly
	// from files only exist in deliveries, so both are scanned.
	var last int
	err := x.tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(substring(number FROM $1)::int), 0)
		FROM (
			SELECT number FROM number_claims WHERE number LIKE $2
			UNION ALL
			SELECT number FROM deliveries WHERE number LIKE $2
		) n
		WHERE number ~ $3`,
		"^"+prefix+`-(\d+)$`, prefix+"-%", "^"+prefix+`-\d+$`,
	).Scan(&last)
	return last, err
}

func (x *pgTx) ClaimNumber(ctx context.Context, number string) error {
	// A number imported directly from a file exists only in deliveries,
	// so the claim checks both before inserting.
	var taken bool
	if err := x.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM deliveries WHERE number = $1)`, number,
	).Scan(&taken); err != nil {
		return err
	}
	if taken {
		return store.ErrDuplicate
	}
	_, err := x.tx.Exec(ctx,
		`INSERT INTO number_claims (number) VALUES ($1)`, number)
	return mapErr(err)
}
