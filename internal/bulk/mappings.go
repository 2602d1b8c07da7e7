package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/yhs/inventory/internal/domain"
	"github.com/yhs/inventory/internal/store"
)

// MappingProcessor imports product-part mappings. Both sides are
// resolved by code and must already exist.
type MappingProcessor struct {
	singlePass
}

var _ RowProcessor = MappingProcessor{}

func (MappingProcessor) Kind() string { return "product-part" }

func (MappingProcessor) RequiredColumns() []string {
	return []string{"productCode", "partCode", "requiredQuantity"}
}

func (MappingProcessor) Keys(row RowRecord) map[string]string {
	return map[string]string{
		"productCode": row.Field("productCode"),
		"partCode":    row.Field("partCode"),
	}
}

func (MappingProcessor) Process(ctx context.Context, tx store.Tx, row RowRecord) error {
	productCode, err := requireField(row, "productCode")
	if err != nil {
		return err
	}
	partCode, err := requireField(row, "partCode")
	if err != nil {
		return err
	}
	qty, err := intField(row, "requiredQuantity", 1)
	if err != nil {
		return err
	}

	product, err := tx.ProductByCode(ctx, productCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no such product for code: %s", productCode)
		}
		return fmt.Errorf("find product: %w", err)
	}
	part, err := tx.PartByCode(ctx, partCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no such part for code: %s", partCode)
		}
		return fmt.Errorf("find part: %w", err)
	}

	if exists, err := tx.MappingExists(ctx, product.ID, part.ID); err != nil {
		return fmt.Errorf("check mapping: %w", err)
	} else if exists {
		return fmt.Errorf("mapping for product %s and part %s already exists", productCode, partCode)
	}

	mapping := domain.NewProductPart(product.ID, part.ID, qty)
	if err := tx.CreateMapping(ctx, mapping); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("mapping for product %s and part %s already exists", productCode, partCode)
		}
		return fmt.Errorf("create mapping: %w", err)
	}
	return nil
}
