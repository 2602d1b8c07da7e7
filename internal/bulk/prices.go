package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/yhs/inventory/internal/domain"
	"github.com/yhs/inventory/internal/store"
)

// PriceProcessor imports client-specific product prices. At most one
// price per (client, product) pair.
type PriceProcessor struct {
	singlePass
}

var _ RowProcessor = PriceProcessor{}

func (PriceProcessor) Kind() string { return "client-product-price" }

func (PriceProcessor) RequiredColumns() []string {
	return []string{"clientCode", "productCode", "unitPrice"}
}

func (PriceProcessor) Keys(row RowRecord) map[string]string {
	return map[string]string{
		"clientCode":  row.Field("clientCode"),
		"productCode": row.Field("productCode"),
	}
}

func (PriceProcessor) Process(ctx context.Context, tx store.Tx, row RowRecord) error {
	clientCode, err := requireField(row, "clientCode")
	if err != nil {
		return err
	}
	productCode, err := requireField(row, "productCode")
	if err != nil {
		return err
	}
	unitPrice, err := decimalField(row, "unitPrice")
	if err != nil {
		return err
	}

	client, err := tx.ClientByCode(ctx, clientCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no such client for code: %s", clientCode)
		}
		return fmt.Errorf("find client: %w", err)
	}
	product, err := tx.ProductByCode(ctx, productCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no such product for code: %s", productCode)
		}
		return fmt.Errorf("find product: %w", err)
	}

	if exists, err := tx.PriceExists(ctx, client.ID, product.ID); err != nil {
		return fmt.Errorf("check price: %w", err)
	} else if exists {
		return fmt.Errorf("price for client %s and product %s already exists", clientCode, productCode)
	}

	price := domain.NewClientProductPrice(client.ID, product.ID, unitPrice)
	if err := tx.CreatePrice(ctx, price); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("price for client %s and product %s already exists", clientCode, productCode)
		}
		return fmt.Errorf("create price: %w", err)
	}
	return nil
}
