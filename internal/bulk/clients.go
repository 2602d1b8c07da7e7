package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/yhs/inventory/internal/domain"
	"github.com/yhs/inventory/internal/store"
)

// ClientProcessor imports clients in two passes: parents (blank
// parentClientCode) first, then children. A child row in the same file
// as its parent therefore resolves regardless of row order.
type ClientProcessor struct{}

var _ RowProcessor = ClientProcessor{}

func (ClientProcessor) Kind() string { return "client" }

func (ClientProcessor) RequiredColumns() []string {
	return []string{
		"clientCode", "name", "countryCode", "currency",
		"parentClientCode", "address", "contactNumber", "email",
	}
}

func (ClientProcessor) Passes() int { return 2 }

func (ClientProcessor) Pass(row RowRecord) int {
	if row.Field("parentClientCode") == "" {
		return 0
	}
	return 1
}

func (ClientProcessor) Keys(row RowRecord) map[string]string {
	return map[string]string{"clientCode": row.Field("clientCode")}
}

func (ClientProcessor) Process(ctx context.Context, tx store.Tx, row RowRecord) error {
	code, err := requireField(row, "clientCode")
	if err != nil {
		return err
	}
	name, err := requireField(row, "name")
	if err != nil {
		return err
	}
	countryCode, err := requireField(row, "countryCode")
	if err != nil {
		return err
	}
	currencyRaw, err := requireField(row, "currency")
	if err != nil {
		return err
	}
	currency, err := domain.ParseCurrency(currencyRaw)
	if err != nil {
		return err
	}

	if exists, err := tx.ClientCodeExists(ctx, code); err != nil {
		return fmt.Errorf("check client code: %w", err)
	} else if exists {
		return fmt.Errorf("client code %s already exists", code)
	}

	country, err := tx.CountryByCode(ctx, countryCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no such country for code: %s", countryCode)
		}
		return fmt.Errorf("find country: %w", err)
	}

	address := row.Field("address")
	contact := row.Field("contactNumber")
	email := row.Field("email")

	var client *domain.Client
	if parentCode := row.Field("parentClientCode"); parentCode != "" {
		parent, err := tx.ClientByCode(ctx, parentCode)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no such parent client for code: %s", parentCode)
			}
			return fmt.Errorf("find parent client: %w", err)
		}
		// The tree is one level deep: a client with a parent cannot
		// itself be a parent.
		if parent.ParentID != nil {
			return fmt.Errorf("client %s cannot be a parent: it already has a parent", parentCode)
		}
		client = domain.NewChildClient(code, parent, country, name, address, contact, email, currency)
	} else {
		client = domain.NewClient(code, country, name, address, contact, email, currency)
	}

	if err := tx.CreateClient(ctx, client); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("client code %s already exists", code)
		}
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}
