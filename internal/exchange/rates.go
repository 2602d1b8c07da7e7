// Package exchange resolves KRW exchange rates for delivery totals.
// Rates come from a fixed fallback table; the Source interface leaves
// room for a live provider without touching the import pipeline.
package exchange

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yhs/inventory/internal/domain"
)

// Source resolves the KRW rate for a currency.
type Source interface {
	Rate(ctx context.Context, cur domain.Currency) (decimal.Decimal, error)
}

// fallbackRates are the static KRW rates used when no live source is
// configured.
var fallbackRates = map[domain.Currency]decimal.Decimal{
	domain.KRW: decimal.NewFromInt(1),
	domain.USD: decimal.NewFromInt(1300),
	domain.JPY: decimal.NewFromFloat(9.5),
	domain.EUR: decimal.NewFromInt(1400),
	domain.CNY: decimal.NewFromInt(180),
	domain.GBP: decimal.NewFromInt(1650),
}

// Fixed serves rates from the static fallback table.
type Fixed struct{}

var _ Source = Fixed{}

// Rate returns the fixed KRW rate for cur.
func (Fixed) Rate(ctx context.Context, cur domain.Currency) (decimal.Decimal, error) {
	r, ok := fallbackRates[cur]
	if !ok {
		return decimal.Zero, fmt.Errorf("no exchange rate for currency %s", cur)
	}
	return r, nil
}

// Fallback wraps a primary source and falls back to the fixed table
// when the primary fails or has no rate for the currency.
type Fallback struct {
	Primary Source
}

var _ Source = Fallback{}

// Rate tries the primary source first and falls back to the fixed
// table on any error.
func (f Fallback) Rate(ctx context.Context, cur domain.Currency) (decimal.Decimal, error) {
	if f.Primary != nil {
		if r, err := f.Primary.Rate(ctx, cur); err == nil {
			return r, nil
		}
	}
	return Fixed{}.Rate(ctx, cur)
}
