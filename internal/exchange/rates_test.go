package exchange

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yhs/inventory/internal/domain"
)

func TestFixed_Rates(t *testing.T) {
	tests := []struct {
		cur  domain.Currency
		want string
	}{
		{domain.KRW, "1"},
		{domain.USD, "1300"},
		{domain.JPY, "9.5"},
		{domain.EUR, "1400"},
		{domain.CNY, "180"},
		{domain.GBP, "1650"},
	}

	for _, tt := range tests {
		got, err := Fixed{}.Rate(context.Background(), tt.cur)
		if err != nil {
			t.Errorf("Rate(%s) error = %v", tt.cur, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("Rate(%s) = %s, want %s", tt.cur, got, tt.want)
		}
	}
}

func TestFixed_UnknownCurrency(t *testing.T) {
	_, err := Fixed{}.Rate(context.Background(), domain.Currency("XXX"))
	if err == nil {
		t.Fatal("Rate() expected error for unknown currency")
	}
}

type stubSource struct {
	rate decimal.Decimal
	err  error
}

func (s stubSource) Rate(ctx context.Context, cur domain.Currency) (decimal.Decimal, error) {
	return s.rate, s.err
}

func TestFallback_PrefersPrimary(t *testing.T) {
	f := Fallback{Primary: stubSource{rate: decimal.NewFromInt(1350)}}
	got, err := f.Rate(context.Background(), domain.USD)
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if !got.Equal(decimal.NewFromInt(1350)) {
		t.Errorf("Rate() = %s, want 1350", got)
	}
}

func TestFallback_UsesFixedOnPrimaryError(t *testing.T) {
	f := Fallback{Primary: stubSource{err: errors.New("provider down")}}
	got, err := f.Rate(context.Background(), domain.USD)
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if !got.Equal(decimal.NewFromInt(1300)) {
		t.Errorf("Rate() = %s, want fallback 1300", got)
	}
}

func TestFallback_NoPrimary(t *testing.T) {
	got, err := Fallback{}.Rate(context.Background(), domain.JPY)
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if !got.Equal(decimal.RequireFromString("9.5")) {
		t.Errorf("Rate() = %s, want 9.5", got)
	}
}
