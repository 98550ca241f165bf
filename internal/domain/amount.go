package domain

import (
	"database/sql/driver"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal monetary or quantity value with lenient JSON decoding.
// Operator-entered figures arrive as numbers, quoted numbers, or garbage
// (empty strings, stray text); anything unparseable decodes to zero so a
// malformed rate never poisons a totals calculation.
type Amount struct {
	decimal.Decimal
}

// NewAmount creates an Amount from a string, panicking on invalid input.
// Intended for constants and tests.
func NewAmount(s string) Amount {
	return Amount{decimal.RequireFromString(s)}
}

// AmountFromInt creates an Amount from an integer value.
func AmountFromInt(v int64) Amount {
	return Amount{decimal.NewFromInt(v)}
}

// AmountFromDecimal wraps an existing decimal.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{d}
}

// UnmarshalJSON decodes numbers and numeric strings; anything else
// (null, non-numeric text, booleans) becomes zero.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			a.Decimal = decimal.Zero
			return nil
		}
		s = strings.TrimSpace(strings.ReplaceAll(str, ",", ""))
		if s == "" {
			a.Decimal = decimal.Zero
			return nil
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = d
	return nil
}

// MarshalJSON renders the amount as a JSON number string with two decimal
// places, matching the wire format of the upstream accounting endpoints.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.Decimal.StringFixed(2) + `"`), nil
}

// Value implements driver.Valuer so gorm stores the plain decimal string.
func (a Amount) Value() (driver.Value, error) {
	return a.Decimal.Value()
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(value interface{}) error {
	return a.Decimal.Scan(value)
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{a.Decimal.Sub(b.Decimal)}
}

// Mul returns a * b.
func (a Amount) Mul(b Amount) Amount {
	return Amount{a.Decimal.Mul(b.Decimal)}
}

// Equal reports exact decimal equality.
func (a Amount) Equal(b Amount) bool {
	return a.Decimal.Equal(b.Decimal)
}

// ZeroAmount is the zero value, exported for readability at call sites.
var ZeroAmount = Amount{decimal.Zero}
