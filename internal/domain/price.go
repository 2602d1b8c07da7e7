package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientProductPrice is the negotiated unit price of a product for a
// specific client. At most one price exists per (client, product) pair;
// it takes precedence over the product's default unit price.
type ClientProductPrice struct {
	ID        int64
	ClientID  int64
	ProductID int64
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

// NewClientProductPrice creates a client-specific product price.
func NewClientProductPrice(clientID, productID int64, unitPrice decimal.Decimal) *ClientProductPrice {
	return &ClientProductPrice{
		ClientID:  clientID,
		ProductID: productID,
		UnitPrice: unitPrice,
		CreatedAt: time.Now(),
	}
}
