package dataset

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Value is a typed CSV cell. A cell is either parsed (Valid), or holds the
// raw text that failed to parse, or is empty.
type Value[T any] struct {
	Val   T
	Valid bool
	Raw   string
}

// Of returns a parsed value.
func Of[T any](v T) Value[T] {
	return Value[T]{Val: v, Valid: true}
}

// Get returns the parsed value and whether it is valid.
func (v Value[T]) Get() (T, bool) {
	return v.Val, v.Valid
}

// Any returns the parsed value, else the raw text, else nil.
func (v Value[T]) Any() any {
	if v.Valid {
		return v.Val
	}
	if v.Raw != "" {
		return v.Raw
	}
	return nil
}

func (v Value[T]) String() string {
	if v.Valid {
		return fmt.Sprint(v.Val)
	}
	return v.Raw
}

// DateLayout is the on-disk date format.
const DateLayout = time.DateOnly

// ParseInt parses a base-10 integer cell.
func ParseInt(raw string) (Value[int], error) {
	if raw == "" {
		return Value[int]{}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return Value[int]{Raw: raw}, err
	}
	return Value[int]{Val: n, Valid: true, Raw: raw}, nil
}

// ParseDecimal parses a decimal cell such as "19.99".
func ParseDecimal(raw string) (Value[decimal.Decimal], error) {
	if raw == "" {
		return Value[decimal.Decimal]{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Value[decimal.Decimal]{Raw: raw}, err
	}
	return Value[decimal.Decimal]{Val: d, Valid: true, Raw: raw}, nil
}

// ParseDate parses a YYYY-MM-DD cell.
func ParseDate(raw string) (Value[time.Time], error) {
	if raw == "" {
		return Value[time.Time]{}, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return Value[time.Time]{Raw: raw}, err
	}
	return Value[time.Time]{Val: t, Valid: true, Raw: raw}, nil
}
