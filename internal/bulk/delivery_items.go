package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yhs/inventory/internal/domain"
	"github.com/yhs/inventory/internal/store"
)

// DeliveryItemProcessor imports delivery line items onto existing
// deliveries. The base unit price cascades: client-specific price,
// then the product's default, then zero. A blank actualUnitPrice
// charges the base price; free items carry zero prices.
type DeliveryItemProcessor struct {
	singlePass
}

var _ RowProcessor = DeliveryItemProcessor{}

func (DeliveryItemProcessor) Kind() string { return "delivery-item" }

func (DeliveryItemProcessor) RequiredColumns() []string {
	return []string{
		"deliveryNumber", "productCode", "quantity",
		"actualUnitPrice", "isFreeItem", "priceNote",
	}
}

func (DeliveryItemProcessor) Keys(row RowRecord) map[string]string {
	return map[string]string{
		"deliveryNumber": row.Field("deliveryNumber"),
		"productCode":    row.Field("productCode"),
	}
}

func (DeliveryItemProcessor) Process(ctx context.Context, tx store.Tx, row RowRecord) error {
	number, err := requireField(row, "deliveryNumber")
	if err != nil {
		return err
	}
	productCode, err := requireField(row, "productCode")
	if err != nil {
		return err
	}
	qty, err := intField(row, "quantity", 1)
	if err != nil {
		return err
	}
	free, err := boolField(row, "isFreeItem")
	if err != nil {
		return err
	}
	override, err := optionalDecimalField(row, "actualUnitPrice")
	if err != nil {
		return err
	}

	delivery, err := tx.DeliveryByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no such delivery for number: %s", number)
		}
		return fmt.Errorf("find delivery: %w", err)
	}
	product, err := tx.ProductByCode(ctx, productCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no such product for code: %s", productCode)
		}
		return fmt.Errorf("find product: %w", err)
	}

	note := row.Field("priceNote")
	var item domain.DeliveryItem
	if free {
		item = domain.NewFreeDeliveryItem(product, qty, note)
	} else {
		base, err := basePrice(ctx, tx, delivery.ClientID, product)
		if err != nil {
			return err
		}
		actual := base
		if override != nil {
			actual = *override
		}
		item = domain.NewDeliveryItem(product, qty, base, actual, note)
	}

	delivery.AddItem(item)
	if err := tx.UpdateDelivery(ctx, delivery); err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	return nil
}

// basePrice resolves the base unit price for a client and product:
// the client-specific price when one exists, otherwise the product's
// default unit price.
func basePrice(ctx context.Context, tx store.Tx, clientID int64, product *domain.Product) (decimal.Decimal, error) {
	price, err := tx.PriceByClientProduct(ctx, clientID, product.ID)
	if err == nil {
		return price.UnitPrice, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return product.DefaultUnitPrice, nil
	}
	return decimal.Zero, fmt.Errorf("find client price: %w", err)
}
