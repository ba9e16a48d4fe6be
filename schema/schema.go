package schema

import (
	"fmt"
	"strings"
)

// ============================================================================
// SCHEMA — Declared shape of each CSV table
// ============================================================================
// A Table names its file and the columns the loader must find. Column types
// drive cell coercion; the inspector compares them against what the data
// actually looks like.
// ============================================================================

// Type is a column's declared value type.
type Type int

const (
	TypeString Type = iota
	TypeInt
	TypeDecimal
	TypeDate
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeDecimal:
		return "decimal"
	case TypeDate:
		return "date"
	case TypeBool:
		return "bool"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Column declares one table column.
type Column struct {
	Key      string `json:"key"`
	Type     Type   `json:"type"`
	Required bool   `json:"required"`
}

// Table declares a CSV-backed table.
type Table struct {
	Name    string   `json:"name"`
	File    string   `json:"file"`
	Columns []Column `json:"columns"`
}

// ColumnKeys returns all column keys in declaration order.
func (t Table) ColumnKeys() []string {
	keys := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		keys[i] = c.Key
	}
	return keys
}

// Column looks up a column declaration by key.
func (t Table) Column(key string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Missing returns required columns absent from headers.
// Headers are normalized with NormalizeHeader before comparison.
func (t Table) Missing(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[NormalizeHeader(h)] = true
	}
	var missing []string
	for _, c := range t.Columns {
		if c.Required && !present[c.Key] {
			missing = append(missing, c.Key)
		}
	}
	return missing
}

// WithFile returns a copy of t reading from file instead.
func (t Table) WithFile(file string) Table {
	if strings.TrimSpace(file) != "" {
		t.File = file
	}
	return t
}

// NormalizeHeader converts a raw CSV header to a column key:
// "Cust ID" → "cust_id", "orderDate" → "order_date".
func NormalizeHeader(h string) string {
	return toSnakeCase(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}
