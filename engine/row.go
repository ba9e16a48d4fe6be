package engine

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// ROW — Ordered, schema-agnostic result record
// ============================================================================
// Query components produce typed results; anything that must be sorted,
// paginated or projected by column name is lowered into a Row first.
// Field order is significant: it is the column order a renderer prints.
// ============================================================================

// Field is a single named value inside a Row.
type Field struct {
	Key   string
	Value any
}

// Row is an ordered sequence of fields. Keys are unique within a row.
type Row []Field

// NewRow builds a row from alternating key/value pairs.
// A trailing key without a value is stored as nil.
func NewRow(kv ...any) Row {
	row := make(Row, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		var val any
		if i+1 < len(kv) {
			val = kv[i+1]
		}
		row = append(row, Field{Key: key, Value: val})
	}
	return row
}

// Lookup returns the value stored under key and whether the key exists.
func (r Row) Lookup(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Get returns the value stored under key, or nil.
func (r Row) Get(key string) any {
	v, _ := r.Lookup(key)
	return v
}

// Has reports whether the row carries key (even with a nil value).
func (r Row) Has(key string) bool {
	_, ok := r.Lookup(key)
	return ok
}

// Keys returns the row's keys in order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Project returns a new row holding only keys, in the order given.
// Keys the row lacks project as nil.
func (r Row) Project(keys []string) Row {
	out := make(Row, 0, len(keys))
	for _, k := range keys {
		out = append(out, Field{Key: k, Value: r.Get(k)})
	}
	return out
}

// Map flattens the row into an unordered map.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r))
	for _, f := range r {
		m[f.Key] = f.Value
	}
	return m
}

// MarshalJSON encodes the row as a JSON object, preserving field order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(jsonValue(f.Value))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonValue renders dates without a time component; everything else is
// left to encoding/json (decimal.Decimal marshals itself).
func jsonValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.DateOnly)
	}
	return v
}

// ============================================================================
// VALUE COMPARISON
// ============================================================================

// Compare orders two present (non-nil) values by their natural ordering.
//
// Numbers compare numerically across int, float and decimal.Decimal;
// strings lexically; time.Time chronologically; bools false < true.
// Values of unrelated kinds are ordered by a fixed kind rank and then by
// their string form, so Compare never panics.
func Compare(a, b any) int {
	if c, ok := compareNumbers(a, b); ok {
		return c
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			return cmp.Compare(boolRank(x), boolRank(y))
		}
	}
	if ra, rb := kindRank(a), kindRank(b); ra != rb {
		return cmp.Compare(ra, rb)
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func compareNumbers(a, b any) (int, bool) {
	ia, aInt := toInt64(a)
	ib, bInt := toInt64(b)
	if aInt && bInt {
		return cmp.Compare(ia, ib), true
	}

	da, aDec := a.(decimal.Decimal)
	db, bDec := b.(decimal.Decimal)
	switch {
	case aDec && bDec:
		return da.Cmp(db), true
	case aDec && bInt:
		return da.Cmp(decimal.NewFromInt(ib)), true
	case aInt && bDec:
		return decimal.NewFromInt(ia).Cmp(db), true
	}

	fa, aNum := toFloat64(a)
	fb, bNum := toFloat64(b)
	if aNum && bNum {
		return cmp.Compare(fa, fb), true
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case decimal.Decimal:
		return n.InexactFloat64(), true
	}
	return 0, false
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// kindRank groups values for cross-kind ordering.
func kindRank(v any) int {
	if _, ok := toFloat64(v); ok {
		return 0
	}
	switch v.(type) {
	case time.Time:
		return 1
	case string:
		return 2
	case bool:
		return 3
	}
	return 4
}
