package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryStatus is the lifecycle state of a delivery.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryCompleted DeliveryStatus = "COMPLETED"
	DeliveryCancelled DeliveryStatus = "CANCELLED"
)

// ParseDeliveryStatus converts a status string, case-insensitively.
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	switch DeliveryStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case DeliveryPending:
		return DeliveryPending, nil
	case DeliveryCompleted:
		return DeliveryCompleted, nil
	case DeliveryCancelled:
		return DeliveryCancelled, nil
	}
	return "", fmt.Errorf("invalid delivery status: %s", s)
}

// Delivery is an outbound order for a client, identified by its
// delivery number (e.g. SOLM-PO-2025-0001). It owns its line items and
// all derived totals; the totals are recalculated after every item or
// discount mutation and are never left stale.
type Delivery struct {
	ID          int64
	Number      string
	ClientID    int64
	Currency    Currency
	Status      DeliveryStatus
	OrderedAt   time.Time
	RequestedAt time.Time
	DeliveredAt *time.Time
	Memo        string

	// Discount is either a fixed amount or a percentage rate; at most
	// one of the two is set.
	DiscountAmount *decimal.Decimal
	DiscountRate   *decimal.Decimal
	DiscountNote   string

	// ExchangeRate is the KRW rate captured at registration time.
	ExchangeRate *decimal.Decimal

	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	Total         decimal.Decimal
	TotalKRW      *decimal.Decimal

	Items     []DeliveryItem
	CreatedAt time.Time
}

// NewDelivery creates a delivery for a client. A zero status defaults
// to PENDING.
func NewDelivery(number string, client *Client, orderedAt, requestedAt time.Time, status DeliveryStatus, deliveredAt *time.Time) *Delivery {
	if status == "" {
		status = DeliveryPending
	}
	return &Delivery{
		Number:      number,
		ClientID:    client.ID,
		Currency:    client.Currency,
		Status:      status,
		OrderedAt:   orderedAt,
		RequestedAt: requestedAt,
		DeliveredAt: deliveredAt,
		CreatedAt:   time.Now(),
	}
}

// AddItem appends a line item and recalculates the totals.
func (d *Delivery) AddItem(item DeliveryItem) {
	item.DeliveryID = d.ID
	d.Items = append(d.Items, item)
	d.Recalculate()
}

// ApplyDiscount sets a fixed discount amount, replacing any rate.
func (d *Delivery) ApplyDiscount(amount decimal.Decimal, note string) error {
	if amount.IsNegative() {
		return fmt.Errorf("discount amount must be >= 0")
	}
	d.DiscountAmount = &amount
	d.DiscountRate = nil
	d.DiscountNote = note
	d.Recalculate()
	return nil
}

// ApplyDiscountRate sets a percentage discount, replacing any amount.
func (d *Delivery) ApplyDiscountRate(rate decimal.Decimal, note string) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("discount rate must be between 0 and 100")
	}
	d.DiscountRate = &rate
	d.DiscountAmount = nil
	d.DiscountNote = note
	d.Recalculate()
	return nil
}

// ClearDiscount removes any discount.
func (d *Delivery) ClearDiscount() {
	d.DiscountAmount = nil
	d.DiscountRate = nil
	d.DiscountNote = ""
	d.Recalculate()
}

// HasDiscount reports whether a discount amount or rate is set.
func (d *Delivery) HasDiscount() bool {
	return d.DiscountAmount != nil || d.DiscountRate != nil
}

// SetExchangeRate captures the KRW rate and recalculates totals.
func (d *Delivery) SetExchangeRate(rate decimal.Decimal) {
	d.ExchangeRate = &rate
	d.Recalculate()
}

// Recalculate recomputes all derived totals in fixed order:
//
//  1. subtotal: sum of line total prices (free items contribute zero)
//  2. total discount: explicit amount, else subtotal * rate / 100
//     rounded half-up to 2 places, else zero
//  3. total: subtotal - total discount
//  4. total KRW: total * exchange rate rounded half-up to 0 places,
//     only when an exchange rate is set
//
// The computation is idempotent; callers re-run it after every item or
// discount mutation.
func (d *Delivery) Recalculate() {
	subtotal := decimal.Zero
	for i := range d.Items {
		subtotal = subtotal.Add(d.Items[i].TotalPrice)
	}
	d.Subtotal = subtotal

	switch {
	case d.DiscountAmount != nil:
		d.TotalDiscount = *d.DiscountAmount
	case d.DiscountRate != nil:
		d.TotalDiscount = subtotal.Mul(*d.DiscountRate).Div(decimal.NewFromInt(100)).Round(2)
	default:
		d.TotalDiscount = decimal.Zero
	}

	d.Total = d.Subtotal.Sub(d.TotalDiscount)

	if d.ExchangeRate != nil {
		krw := d.Total.Mul(*d.ExchangeRate).Round(0)
		d.TotalKRW = &krw
	}
}

// Complete marks a pending delivery as completed.
func (d *Delivery) Complete() error {
	if d.Status != DeliveryPending {
		return fmt.Errorf("delivery %s cannot be completed from status %s", d.Number, d.Status)
	}
	d.Status = DeliveryCompleted
	now := time.Now()
	d.DeliveredAt = &now
	return nil
}

// DeliveryItem is one line of a delivery. UnitPrice is the resolved
// base price; ActualUnitPrice is what the client is charged. Free items
// carry zero prices and are flagged.
type DeliveryItem struct {
	ID              int64
	DeliveryID      int64
	ProductID       int64
	Quantity        int
	UnitPrice       decimal.Decimal
	ActualUnitPrice decimal.Decimal
	TotalPrice      decimal.Decimal
	Free            bool
	PriceNote       string
}

// NewDeliveryItem creates a priced line item.
func NewDeliveryItem(product *Product, quantity int, unitPrice, actualUnitPrice decimal.Decimal, priceNote string) DeliveryItem {
	return DeliveryItem{
		ProductID:       product.ID,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		ActualUnitPrice: actualUnitPrice,
		TotalPrice:      actualUnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		PriceNote:       priceNote,
	}
}

// NewFreeDeliveryItem creates a free-of-charge line item.
func NewFreeDeliveryItem(product *Product, quantity int, priceNote string) DeliveryItem {
	return DeliveryItem{
		ProductID: product.ID,
		Quantity:  quantity,
		Free:      true,
		PriceNote: priceNote,
	}
}

// Discounted reports whether the charged price is below the base price.
func (i DeliveryItem) Discounted() bool {
	return i.ActualUnitPrice.LessThan(i.UnitPrice)
}
