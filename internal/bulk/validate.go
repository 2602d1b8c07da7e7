package bulk

// validate.go provides the shared field readers used by the row
// processors. Each reader returns a human-readable error naming the
// offending field, so failure reports can be shown to the person who
// prepared the file.

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// requireField returns the trimmed value of a mandatory column.
func requireField(row RowRecord, name string) (string, error) {
	v := row.Field(name)
	if v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}

// intField reads a mandatory integer column with a lower bound.
func intField(row RowRecord, name string, min int) (int, error) {
	raw, err := requireField(row, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %q", name, raw)
	}
	if n < min {
		return 0, fmt.Errorf("%s must be >= %d", name, min)
	}
	return n, nil
}

// decimalField reads a mandatory non-negative decimal column.
func decimalField(row RowRecord, name string) (decimal.Decimal, error) {
	raw, err := requireField(row, name)
	if err != nil {
		return decimal.Zero, err
	}
	return parseDecimal(name, raw)
}

// optionalDecimalField reads an optional non-negative decimal column,
// returning nil when the cell is blank.
func optionalDecimalField(row RowRecord, name string) (*decimal.Decimal, error) {
	raw := row.Field(name)
	if raw == "" {
		return nil, nil
	}
	d, err := parseDecimal(name, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseDecimal(name, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a number: %q", name, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must be >= 0", name)
	}
	return d, nil
}

// dateField reads a mandatory YYYY-MM-DD column.
func dateField(row RowRecord, name string) (time.Time, error) {
	raw, err := requireField(row, name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a date (YYYY-MM-DD): %q", name, raw)
	}
	return t, nil
}

// optionalDateField reads an optional YYYY-MM-DD column, returning nil
// when the cell is blank.
func optionalDateField(row RowRecord, name string) (*time.Time, error) {
	raw := row.Field(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD): %q", name, raw)
	}
	return &t, nil
}

// boolField reads an optional boolean column. Blank cells are false.
func boolField(row RowRecord, name string) (bool, error) {
	raw := row.Field(name)
	switch strings.ToLower(raw) {
	case "", "no", "false", "n", "0":
		return false, nil
	case "yes", "true", "y", "1":
		return true, nil
	}
	return false, fmt.Errorf("%s must be yes/no, true/false, or 1/0: %q", name, raw)
}
