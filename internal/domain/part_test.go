package domain

import (
	"strings"
	"testing"

	"github.com/yhs/inventory/internal/stock"
)

func TestPart_StockMovements(t *testing.T) {
	p := NewPart("PT-001", "bolt", "M4x12", 10, "ea")
	p.ID = 7

	entry, err := p.Receive(5)
	if err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if entry.Type != stock.TypeInbound || entry.Before != 10 || entry.Delta != 5 || entry.After != 15 {
		t.Errorf("inbound entry = %+v", entry)
	}
	if p.StockQuantity != 15 {
		t.Errorf("StockQuantity = %d, want 15", p.StockQuantity)
	}

	entry, err = p.Issue(6)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if entry.Type != stock.TypeOutbound || entry.After != 9 {
		t.Errorf("outbound entry = %+v", entry)
	}

	entry, err = p.Adjust(-4)
	if err != nil {
		t.Fatalf("Adjust() error = %v", err)
	}
	if entry.Type != stock.TypeAdjustment || entry.After != 5 {
		t.Errorf("adjustment entry = %+v", entry)
	}

	entry, err = p.Reverse(6)
	if err != nil {
		t.Fatalf("Reverse() error = %v", err)
	}
	if entry.Type != stock.TypeReversal || entry.After != 11 {
		t.Errorf("reversal entry = %+v", entry)
	}
}

func TestPart_IssueInsufficientStock(t *testing.T) {
	p := NewPart("PT-002", "nut", "", 3, "ea")
	p.ID = 8

	_, err := p.Issue(4)
	if err == nil {
		t.Fatal("Issue() expected error for insufficient stock")
	}
	if !strings.Contains(err.Error(), "insufficient stock") {
		t.Errorf("error = %v", err)
	}
	// Failed movement must not touch the cached quantity.
	if p.StockQuantity != 3 {
		t.Errorf("StockQuantity = %d, want 3", p.StockQuantity)
	}
}

func TestPart_MovementQuantityValidation(t *testing.T) {
	p := NewPart("PT-003", "washer", "", 5, "ea")
	p.ID = 9

	if _, err := p.Receive(0); err == nil {
		t.Error("Receive(0) expected error")
	}
	if _, err := p.Issue(-1); err == nil {
		t.Error("Issue(-1) expected error")
	}
	if _, err := p.Adjust(-6); err == nil {
		t.Error("Adjust() below zero expected error")
	}
}

func TestPart_InitialEntry(t *testing.T) {
	p := NewPart("PT-004", "screw", "", 20, "ea")
	p.ID = 10

	entry, err := p.InitialEntry()
	if err != nil {
		t.Fatalf("InitialEntry() error = %v", err)
	}
	if entry.Type != stock.TypeInitial || entry.Before != 0 || entry.After != 20 {
		t.Errorf("initial entry = %+v", entry)
	}
	if entry.SubjectKind != stock.KindPart || entry.SubjectID != 10 {
		t.Errorf("entry subject = %s/%d", entry.SubjectKind, entry.SubjectID)
	}
}
