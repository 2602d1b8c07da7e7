package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/yhs/inventory/internal/domain"
	"github.com/yhs/inventory/internal/exchange"
	"github.com/yhs/inventory/internal/sequence"
	"github.com/yhs/inventory/internal/store"
)

// DeliveryProcessor imports delivery headers. A blank deliveryNumber
// is assigned from the SOLM-PO sequence for the order year; the KRW
// exchange rate is captured at registration time from Rates.
type DeliveryProcessor struct {
	singlePass
	Numbers *sequence.Generator
	Rates   exchange.Source
}

var _ RowProcessor = DeliveryProcessor{}

func (DeliveryProcessor) Kind() string { return "delivery" }

func (DeliveryProcessor) RequiredColumns() []string {
	return []string{
		"deliveryNumber", "clientCode", "orderedAt", "requestedAt",
		"status", "deliveredAt",
		"totalDiscountAmount", "discountRate", "discountNote", "memo",
	}
}

func (DeliveryProcessor) Keys(row RowRecord) map[string]string {
	return map[string]string{
		"deliveryNumber": row.Field("deliveryNumber"),
		"clientCode":     row.Field("clientCode"),
	}
}

func (p DeliveryProcessor) Process(ctx context.Context, tx store.Tx, row RowRecord) error {
	clientCode, err := requireField(row, "clientCode")
	if err != nil {
		return err
	}
	orderedAt, err := dateField(row, "orderedAt")
	if err != nil {
		return err
	}
	requestedAt, err := dateField(row, "requestedAt")
	if err != nil {
		return err
	}
	status := domain.DeliveryStatus("")
	if raw := row.Field("status"); raw != "" {
		status, err = domain.ParseDeliveryStatus(raw)
		if err != nil {
			return err
		}
	}
	deliveredAt, err := optionalDateField(row, "deliveredAt")
	if err != nil {
		return err
	}
	discountAmount, err := optionalDecimalField(row, "totalDiscountAmount")
	if err != nil {
		return err
	}
	discountRate, err := optionalDecimalField(row, "discountRate")
	if err != nil {
		return err
	}
	if discountAmount != nil && discountRate != nil {
		return fmt.Errorf("only one of totalDiscountAmount and discountRate may be set")
	}

	client, err := tx.ClientByCode(ctx, clientCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no such client for code: %s", clientCode)
		}
		return fmt.Errorf("find client: %w", err)
	}

	number := row.Field("deliveryNumber")
	if number != "" {
		if exists, err := tx.DeliveryNumberExists(ctx, number); err != nil {
			return fmt.Errorf("check delivery number: %w", err)
		} else if exists {
			return fmt.Errorf("delivery number %s already exists", number)
		}
	} else {
		prefix := fmt.Sprintf("%s-%d", sequence.DeliveryPrefix, orderedAt.Year())
		number, err = p.Numbers.Next(ctx, tx, prefix)
		if err != nil {
			return fmt.Errorf("assign delivery number: %w", err)
		}
	}

	delivery := domain.NewDelivery(number, client, orderedAt, requestedAt, status, deliveredAt)
	note := row.Field("discountNote")
	switch {
	case discountAmount != nil:
		if err := delivery.ApplyDiscount(*discountAmount, note); err != nil {
			return err
		}
	case discountRate != nil:
		if err := delivery.ApplyDiscountRate(*discountRate, note); err != nil {
			return err
		}
	}
	delivery.Memo = row.Field("memo")

	rate, err := p.Rates.Rate(ctx, delivery.Currency)
	if err != nil {
		return fmt.Errorf("resolve exchange rate: %w", err)
	}
	delivery.SetExchangeRate(rate)

	if err := tx.CreateDelivery(ctx, delivery); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("delivery number %s already exists", number)
		}
		return fmt.Errorf("create delivery: %w", err)
	}
	return nil
}
