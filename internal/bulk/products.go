package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yhs/inventory/internal/domain"
	"github.com/yhs/inventory/internal/stock"
	"github.com/yhs/inventory/internal/store"
)

// ProductProcessor imports products. A blank default unit price means
// zero. Every created product gets an INITIAL ledger entry recording
// its starting stock.
type ProductProcessor struct {
	singlePass
}

var _ RowProcessor = ProductProcessor{}

func (ProductProcessor) Kind() string { return "product" }

func (ProductProcessor) RequiredColumns() []string {
	return []string{"productCode", "name", "defaultUnitPrice", "description", "stockQuantity"}
}

func (ProductProcessor) Keys(row RowRecord) map[string]string {
	return map[string]string{"productCode": row.Field("productCode")}
}

func (ProductProcessor) Process(ctx context.Context, tx store.Tx, row RowRecord) error {
	code, err := requireField(row, "productCode")
	if err != nil {
		return err
	}
	name, err := requireField(row, "name")
	if err != nil {
		return err
	}
	price, err := optionalDecimalField(row, "defaultUnitPrice")
	if err != nil {
		return err
	}
	qty, err := intField(row, "stockQuantity", 0)
	if err != nil {
		return err
	}

	if exists, err := tx.ProductCodeExists(ctx, code); err != nil {
		return fmt.Errorf("check product code: %w", err)
	} else if exists {
		return fmt.Errorf("product code %s already exists", code)
	}

	unitPrice := decimal.Zero
	if price != nil {
		unitPrice = *price
	}
	product := domain.NewProduct(code, name, unitPrice, row.Field("description"), qty)
	if err := tx.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("product code %s already exists", code)
		}
		return fmt.Errorf("create product: %w", err)
	}

	// Every product opens its ledger with an INITIAL entry, zero stock
	// included, so the audit trail starts at registration.
	entry, err := product.InitialEntry()
	if err != nil {
		return err
	}
	return stock.NewLedger(tx).Append(ctx, entry)
}
