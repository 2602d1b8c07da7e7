package domain

import (
	"fmt"
	"strings"
)

// Currency identifies the settlement currency of a client.
type Currency string

const (
	KRW Currency = "KRW"
	USD Currency = "USD"
	JPY Currency = "JPY"
	EUR Currency = "EUR"
	CNY Currency = "CNY"
	GBP Currency = "GBP"
)

var currencySymbols = map[Currency]string{
	KRW: "₩",
	USD: "$",
	JPY: "¥",
	EUR: "€",
	CNY: "¥",
	GBP: "£",
}

// ParseCurrency converts a currency code to a Currency.
// Matching is case-insensitive; unknown codes are an error.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := currencySymbols[c]; !ok {
		return "", fmt.Errorf("invalid currency code: %s", s)
	}
	return c, nil
}

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	return currencySymbols[c]
}
