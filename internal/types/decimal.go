package types

import (
	"database/sql/driver"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimal is a wrapper around decimal.Decimal that implements database
// interfaces for NUMERIC(54,18) columns, storing and scanning the exact
// string representation.
type Decimal struct {
	decimal.Decimal
}

// NewDecimal creates a new Decimal from a decimal.Decimal.
func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{d}
}

// ZeroDecimal returns a Decimal with a value of 0.
func ZeroDecimal() Decimal {
	return Decimal{decimal.Zero}
}

// NewDecimalFromString creates a new Decimal from a string representation.
// Returns an error if the string cannot be parsed.
func NewDecimalFromString(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("failed to parse %q as decimal: %w", s, err)
	}
	return Decimal{d}, nil
}

// TokenAmount converts a raw 256-bit token quantity into a token-denominated
// Decimal by shifting the point DecimalsDefault places. The division is exact.
func TokenAmount(raw *big.Int) Decimal {
	return Decimal{decimal.NewFromBigInt(raw, -DecimalsDefault)}
}

// Neg returns the negated value.
func (d Decimal) Neg() Decimal {
	return Decimal{d.Decimal.Neg()}
}

// AddDec returns d + other.
func (d Decimal) AddDec(other Decimal) Decimal {
	return Decimal{d.Decimal.Add(other.Decimal)}
}

// Scan implements the sql.Scanner interface for database deserialization.
func (d *Decimal) Scan(value any) error {
	if value == nil {
		d.Decimal = decimal.Zero
		return nil
	}

	switch v := value.(type) {
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("failed to parse %q as decimal: %w", v, err)
		}
		d.Decimal = parsed
		return nil
	case []byte:
		parsed, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("failed to parse %q as decimal: %w", string(v), err)
		}
		d.Decimal = parsed
		return nil
	case int64:
		d.Decimal = decimal.NewFromInt(v)
		return nil
	case float64:
		d.Decimal = decimal.NewFromFloat(v)
		return nil
	default:
		return fmt.Errorf("unsupported Scan type: %T", value)
	}
}

// Value implements the driver.Valuer interface for database serialization.
func (d Decimal) Value() (driver.Value, error) {
	return d.Decimal.String(), nil
}
