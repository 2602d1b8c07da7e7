package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/yhs/inventory/internal/domain"
	"github.com/yhs/inventory/internal/store"
)

func TestWithinRow_RollsBackOnError(t *testing.T) {
	st := New()
	ctx := context.Background()

	err := st.WithinRow(ctx, func(tx store.Tx) error {
		if err := tx.CreatePart(ctx, domain.NewPart("PT-001", "bolt", "", 0, "ea")); err != nil {
			return err
		}
		return errors.New("forced failure")
	})
	if err == nil {
		t.Fatal("WithinRow() should surface the row error")
	}

	err = st.WithinRow(ctx, func(tx store.Tx) error {
		if _, err := tx.PartByCode(ctx, "PT-001"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("rolled-back part still visible, err = %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestWithinRow_CommitsOnSuccess(t *testing.T) {
	st := New()
	ctx := context.Background()

	err := st.WithinRow(ctx, func(tx store.Tx) error {
		return tx.CreatePart(ctx, domain.NewPart("PT-001", "bolt", "", 0, "ea"))
	})
	if err != nil {
		t.Fatal(err)
	}

	err = st.WithinRow(ctx, func(tx store.Tx) error {
		p, err := tx.PartByCode(ctx, "PT-001")
		if err != nil {
			return err
		}
		if p.ID == 0 {
			t.Error("committed part should have an ID")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestCreate_DuplicateBusinessKeys(t *testing.T) {
	st := New()
	ctx := context.Background()

	err := st.WithinRow(ctx, func(tx store.Tx) error {
		return tx.CreatePart(ctx, domain.NewPart("PT-001", "bolt", "", 0, "ea"))
	})
	if err != nil {
		t.Fatal(err)
	}

	err = st.WithinRow(ctx, func(tx store.Tx) error {
		return tx.CreatePart(ctx, domain.NewPart("PT-001", "other", "", 0, "ea"))
	})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("duplicate code: err = %v, want ErrDuplicate", err)
	}
}

func TestClaimNumber_NeverReused(t *testing.T) {
	st := New()
	ctx := context.Background()

	err := st.WithinRow(ctx, func(tx store.Tx) error {
		if err := tx.ClaimNumber(ctx, "SOLM-PO-2025-0001"); err != nil {
			return err
		}
		if err := tx.ClaimNumber(ctx, "SOLM-PO-2025-0001"); !errors.Is(err, store.ErrDuplicate) {
			t.Errorf("second claim: err = %v, want ErrDuplicate", err)
		}
		last, err := tx.LastSequence(ctx, "SOLM-PO-2025")
		if err != nil {
			return err
		}
		if last != 1 {
			t.Errorf("LastSequence = %d, want 1", last)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
