package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spektr-org/dimreport/schema"
)

// ============================================================================
// CSV DECODER — Parses CSV data into typed records
// ============================================================================
// The header row maps column keys to positions. Each data row is decoded
// through a rowReader that coerces cells to their declared type; a cell that
// fails coercion keeps its raw text and produces a Diagnostic instead of
// aborting the load.
// ============================================================================

// ErrMissingColumns is returned when a CSV lacks a required column.
var ErrMissingColumns = errors.New("missing required columns")

// Diagnostic records a cell or row that could not be decoded.
type Diagnostic struct {
	File   string
	Line   int // 1-based; the header is line 1
	Column string
	Raw    string
	Err    error
}

func (d Diagnostic) Error() string {
	if d.Column == "" {
		return fmt.Sprintf("%s line %d: %v", d.File, d.Line, d.Err)
	}
	return fmt.Sprintf("%s line %d: could not convert %q for column %q: %v", d.File, d.Line, d.Raw, d.Column, d.Err)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// ParseCustomers decodes customer_dim.csv content.
func ParseCustomers(r io.Reader, file string) ([]Customer, []Diagnostic, error) {
	return parseTable(r, CustomerTable.WithFile(file), decodeCustomer)
}

// ParseProducts decodes product_dim.csv content.
func ParseProducts(r io.Reader, file string) ([]Product, []Diagnostic, error) {
	return parseTable(r, ProductTable.WithFile(file), decodeProduct)
}

// ParseSales decodes sales_transactions.csv content.
func ParseSales(r io.Reader, file string) ([]Sale, []Diagnostic, error) {
	return parseTable(r, SalesTable.WithFile(file), decodeSale)
}

func parseTable[T any](r io.Reader, table schema.Table, decode func(*rowReader) T) ([]T, []Diagnostic, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate short rows

	// Read header
	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%s: empty file", table.File)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to read CSV headers: %w", table.File, err)
	}
	if missing := table.Missing(headers); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%s: %w: %s", table.File, ErrMissingColumns, strings.Join(missing, ", "))
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := schema.NormalizeHeader(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	// Read rows
	var (
		records []T
		diags   []Diagnostic
	)
	rr := &rowReader{file: table.File, index: index, diags: &diags}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				diags = append(diags, Diagnostic{File: table.File, Line: perr.StartLine, Err: perr.Err})
				continue // skip malformed rows
			}
			return nil, nil, fmt.Errorf("%s: %w", table.File, err)
		}

		rr.row = row
		rr.line, _ = reader.FieldPos(0)
		records = append(records, decode(rr))
	}

	return records, diags, nil
}

// ============================================================================
// ROW READER — typed cell access with diagnostics
// ============================================================================

type rowReader struct {
	file  string
	line  int
	index map[string]int
	row   []string
	diags *[]Diagnostic
}

// cell returns the trimmed cell for key; absent columns and short rows read as "".
func (r *rowReader) cell(key string) string {
	i, ok := r.index[key]
	if !ok || i >= len(r.row) {
		return ""
	}
	return strings.TrimSpace(r.row[i])
}

func (r *rowReader) fail(key, raw string, err error) {
	*r.diags = append(*r.diags, Diagnostic{File: r.file, Line: r.line, Column: key, Raw: raw, Err: err})
}

func (r *rowReader) String(key string) string {
	return r.cell(key)
}

func (r *rowReader) Int(key string) Value[int] {
	raw := r.cell(key)
	v, err := ParseInt(raw)
	if err != nil {
		r.fail(key, raw, err)
	}
	return v
}

func (r *rowReader) Decimal(key string) Value[decimal.Decimal] {
	raw := r.cell(key)
	v, err := ParseDecimal(raw)
	if err != nil {
		r.fail(key, raw, err)
	}
	return v
}

func (r *rowReader) Date(key string) Value[time.Time] {
	raw := r.cell(key)
	v, err := ParseDate(raw)
	if err != nil {
		r.fail(key, raw, err)
	}
	return v
}
