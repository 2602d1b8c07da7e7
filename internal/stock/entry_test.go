package stock

import (
	"strings"
	"testing"
)

// ============================================================================
// Entry invariants
// ============================================================================

func TestNewEntry_Valid(t *testing.T) {
	tests := []struct {
		name   string
		typ    Type
		before int
		delta  int
		after  int
	}{
		{"initial", TypeInitial, 0, 10, 10},
		{"initial zero", TypeInitial, 0, 0, 0},
		{"inbound", TypeInbound, 5, 3, 8},
		{"outbound", TypeOutbound, 8, -3, 5},
		{"outbound to zero", TypeOutbound, 3, -3, 0},
		{"adjustment down", TypeAdjustment, 10, -4, 6},
		{"reversal", TypeReversal, 5, 3, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEntry(KindPart, 1, tt.typ, tt.before, tt.delta, tt.after)
			if err != nil {
				t.Fatalf("NewEntry() error = %v", err)
			}
			if e.Before != tt.before || e.Delta != tt.delta || e.After != tt.after {
				t.Errorf("entry = %d %+d %d, want %d %+d %d",
					e.Before, e.Delta, e.After, tt.before, tt.delta, tt.after)
			}
			if e.CreatedAt.IsZero() {
				t.Error("CreatedAt should be set")
			}
		})
	}
}

func TestNewEntry_InvariantViolations(t *testing.T) {
	tests := []struct {
		name    string
		before  int
		delta   int
		after   int
		wantMsg string
	}{
		{"negative before", -1, 2, 1, "before stock -1 is negative"},
		{"negative after", 2, -3, -1, "after stock -1 is negative"},
		{"arithmetic mismatch", 5, 2, 8, "before 5 + delta 2 != after 8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEntry(KindPart, 1, TypeAdjustment, tt.before, tt.delta, tt.after)
			if err == nil {
				t.Fatal("NewEntry() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestNewEntry_RejectsBadSubject(t *testing.T) {
	if _, err := NewEntry("", 1, TypeInitial, 0, 1, 1); err == nil {
		t.Error("NewEntry() expected error for empty kind")
	}
	if _, err := NewEntry(KindPart, 0, TypeInitial, 0, 1, 1); err == nil {
		t.Error("NewEntry() expected error for zero subject id")
	}
	if _, err := NewEntry(KindPart, 1, "", 0, 1, 1); err == nil {
		t.Error("NewEntry() expected error for empty type")
	}
}
