package bulk

import (
	"context"
	"testing"

	"github.com/yhs/inventory/internal/domain"
	"github.com/yhs/inventory/internal/store"
	"github.com/yhs/inventory/internal/store/memory"
)

func clientRow(n int, code, name, parent string) RowRecord {
	return RowRecord{Number: n, Fields: map[string]string{
		"clientCode":       code,
		"name":             name,
		"countryCode":      "KR",
		"currency":         "KRW",
		"parentClientCode": parent,
	}}
}

func seedCountry(t *testing.T, st store.Store, code string) {
	t.Helper()
	err := st.WithinRow(context.Background(), func(tx store.Tx) error {
		return tx.CreateCountry(context.Background(), &domain.Country{Code: code, Name: code})
	})
	if err != nil {
		t.Fatalf("seed country: %v", err)
	}
}

func TestClientImport_ChildBeforeParentInFile(t *testing.T) {
	st := memory.New()
	seedCountry(t, st, "KR")
	orch := NewOrchestrator(st, nil)
	ctx := context.Background()

	// The child appears first; the second pass resolves it after the
	// parent landed in the first pass.
	src := SliceSource{
		clientRow(2, "CL-CHILD", "branch office", "CL-PARENT"),
		clientRow(3, "CL-PARENT", "head office", ""),
	}

	result, err := orch.Run(ctx, ClientProcessor{}, src)
	if err != nil {
		t.Fatal(err)
	}
	if result.SuccessCount != 2 || result.FailureCount != 0 {
		t.Fatalf("result = %d succeeded/%d failed, want 2/0: %v",
			result.SuccessCount, result.FailureCount, result.Failures)
	}

	err = st.WithinRow(ctx, func(tx store.Tx) error {
		parent, err := tx.ClientByCode(ctx, "CL-PARENT")
		if err != nil {
			return err
		}
		child, err := tx.ClientByCode(ctx, "CL-CHILD")
		if err != nil {
			return err
		}
		if child.ParentID == nil || *child.ParentID != parent.ID {
			t.Errorf("child.ParentID = %v, want %d", child.ParentID, parent.ID)
		}
		if parent.ParentID != nil {
			t.Errorf("parent should have no parent, got %v", parent.ParentID)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestClientImport_MissingParentFails(t *testing.T) {
	st := memory.New()
	seedCountry(t, st, "KR")
	orch := NewOrchestrator(st, nil)

	src := SliceSource{
		clientRow(2, "CL-ORPHAN", "orphan", "CL-NOBODY"),
	}
	result, err := orch.Run(context.Background(), ClientProcessor{}, src)
	if err != nil {
		t.Fatal(err)
	}
	if result.FailureCount != 1 {
		t.Fatalf("FailureCount = %d, want 1", result.FailureCount)
	}
	if got := result.Failures[0].Message; got != "no such parent client for code: CL-NOBODY" {
		t.Errorf("message = %q", got)
	}
}

func TestClientImport_GrandchildRejected(t *testing.T) {
	st := memory.New()
	seedCountry(t, st, "KR")
	orch := NewOrchestrator(st, nil)
	ctx := context.Background()

	first, err := orch.Run(ctx, ClientProcessor{}, SliceSource{
		clientRow(2, "CL-TOP", "top", ""),
		clientRow(3, "CL-MID", "mid", "CL-TOP"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if first.FailureCount != 0 {
		t.Fatalf("setup failures: %v", first.Failures)
	}

	second, err := orch.Run(ctx, ClientProcessor{}, SliceSource{
		clientRow(2, "CL-DEEP", "too deep", "CL-MID"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.FailureCount != 1 {
		t.Fatalf("FailureCount = %d, want 1", second.FailureCount)
	}
	if got := second.Failures[0].Message; got != "client CL-MID cannot be a parent: it already has a parent" {
		t.Errorf("message = %q", got)
	}
}

func TestClientImport_UnknownCountryAndCurrency(t *testing.T) {
	st := memory.New()
	seedCountry(t, st, "KR")
	orch := NewOrchestrator(st, nil)

	src := SliceSource{
		{Number: 2, Fields: map[string]string{
			"clientCode": "CL-001", "name": "a", "countryCode": "ZZ", "currency": "KRW",
		}},
		{Number: 3, Fields: map[string]string{
			"clientCode": "CL-002", "name": "b", "countryCode": "KR", "currency": "DOGE",
		}},
	}
	result, err := orch.Run(context.Background(), ClientProcessor{}, src)
	if err != nil {
		t.Fatal(err)
	}
	if result.FailureCount != 2 {
		t.Fatalf("FailureCount = %d, want 2: %v", result.FailureCount, result.Failures)
	}
	if got := result.Failures[0].Message; got != "invalid currency code: DOGE" && got != "no such country for code: ZZ" {
		t.Errorf("unexpected first failure: %q", got)
	}
}
