package bulk

import (
	"testing"
	"time"
)

func fieldsRow(fields map[string]string) RowRecord {
	return RowRecord{Number: 2, Fields: fields}
}

func TestRequireField(t *testing.T) {
	row := fieldsRow(map[string]string{"partCode": "  PT-001  ", "name": "   "})

	got, err := requireField(row, "partCode")
	if err != nil {
		t.Fatalf("requireField() error = %v", err)
	}
	if got != "PT-001" {
		t.Errorf("requireField() = %q, want trimmed %q", got, "PT-001")
	}

	if _, err := requireField(row, "name"); err == nil || err.Error() != "name is required" {
		t.Errorf("whitespace-only field: err = %v, want %q", err, "name is required")
	}
	if _, err := requireField(row, "missing"); err == nil || err.Error() != "missing is required" {
		t.Errorf("absent field: err = %v", err)
	}
}

func TestIntField(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		min     int
		want    int
		wantErr string
	}{
		{"valid", "10", 0, 10, ""},
		{"at minimum", "0", 0, 0, ""},
		{"below minimum", "-1", 0, 0, "stockQuantity must be >= 0"},
		{"below one", "0", 1, 0, "stockQuantity must be >= 1"},
		{"not a number", "ten", 0, 0, `stockQuantity must be an integer: "ten"`},
		{"blank", "", 0, 0, "stockQuantity is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := fieldsRow(map[string]string{"stockQuantity": tt.value})
			got, err := intField(row, "stockQuantity", tt.min)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("err = %v", err)
			}
			if got != tt.want {
				t.Errorf("intField() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecimalField(t *testing.T) {
	row := fieldsRow(map[string]string{"unitPrice": "12.50", "bad": "-3", "junk": "abc"})

	got, err := decimalField(row, "unitPrice")
	if err != nil {
		t.Fatalf("decimalField() error = %v", err)
	}
	if got.String() != "12.5" {
		t.Errorf("decimalField() = %s, want 12.5", got)
	}

	if _, err := decimalField(row, "bad"); err == nil || err.Error() != "bad must be >= 0" {
		t.Errorf("negative: err = %v", err)
	}
	if _, err := decimalField(row, "junk"); err == nil {
		t.Error("non-numeric: expected error")
	}
}

func TestOptionalDecimalField(t *testing.T) {
	row := fieldsRow(map[string]string{"discount": "", "rate": "7.5"})

	got, err := optionalDecimalField(row, "discount")
	if err != nil || got != nil {
		t.Errorf("blank optional = (%v, %v), want (nil, nil)", got, err)
	}

	got, err = optionalDecimalField(row, "rate")
	if err != nil || got == nil || got.String() != "7.5" {
		t.Errorf("set optional = (%v, %v), want 7.5", got, err)
	}
}

func TestDateFields(t *testing.T) {
	row := fieldsRow(map[string]string{"orderedAt": "2025-03-01", "deliveredAt": "", "bad": "03/01/2025"})

	got, err := dateField(row, "orderedAt")
	if err != nil {
		t.Fatalf("dateField() error = %v", err)
	}
	if !got.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("dateField() = %v", got)
	}

	opt, err := optionalDateField(row, "deliveredAt")
	if err != nil || opt != nil {
		t.Errorf("blank optional date = (%v, %v), want (nil, nil)", opt, err)
	}

	if _, err := dateField(row, "bad"); err == nil {
		t.Error("wrong format: expected error")
	}
}

func TestBoolField(t *testing.T) {
	tests := []struct {
		value   string
		want    bool
		wantErr bool
	}{
		{"", false, false},
		{"no", false, false},
		{"false", false, false},
		{"0", false, false},
		{"yes", true, false},
		{"TRUE", true, false},
		{"Y", true, false},
		{"1", true, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		row := fieldsRow(map[string]string{"isFreeItem": tt.value})
		got, err := boolField(row, "isFreeItem")
		if (err != nil) != tt.wantErr {
			t.Errorf("boolField(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("boolField(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
