package schema

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ============================================================================
// INSPECTION — Heuristic column typing over sampled rows
// ============================================================================
// Reads a CSV, samples its rows and infers each column's type. Used to
// explain load diagnostics: a column declared int whose samples look like
// strings will fail coercion on every row.
//
// Pipeline per column:
//   1. Collect non-null values (empty, "null", "N/A" count as null)
//   2. Detect type with an 80% agreement threshold
//   3. Record cardinality and a few sorted sample values
// ============================================================================

// InspectOptions controls inspection behavior.
type InspectOptions struct {
	SampleSize int // Max rows to inspect (0 = all, capped). Default: 1000
	MaxSamples int // Sample values kept per column. Default: 5
}

// DefaultInspectOptions returns sensible defaults.
func DefaultInspectOptions() InspectOptions {
	return InspectOptions{
		SampleSize: 1000,
		MaxSamples: 5,
	}
}

// Report describes what inspection found in one CSV.
type Report struct {
	Rows    int            `json:"rows"`
	Columns []ColumnReport `json:"columns"`
}

// ColumnReport describes one inspected column.
type ColumnReport struct {
	Header      string   `json:"header"`
	Key         string   `json:"key"`
	Inferred    Type     `json:"inferred"`
	NullCount   int      `json:"nullCount"`
	UniqueCount int      `json:"uniqueCount"`
	Samples     []string `json:"samples"`
}

// Mismatch is a declared column whose data does not look like its type.
type Mismatch struct {
	Column   string
	Declared Type
	Inferred Type
	Missing  bool
}

// ErrNoColumns is returned for a CSV without a header row.
var ErrNoColumns = errors.New("CSV has no columns")

// Inspect reads CSV data and infers a type per column.
func Inspect(r io.Reader, opts ...InspectOptions) (*Report, error) {
	opt := DefaultInspectOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// 1. Read headers
	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	// 2. Read sample rows
	var rows [][]string
	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000 // safety cap
	}
	for len(rows) < limit {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue // skip malformed rows
			}
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, row)
	}

	// 3. Analyze each column
	report := &Report{Rows: len(rows), Columns: make([]ColumnReport, len(headers))}
	for i, h := range headers {
		report.Columns[i] = analyzeColumn(h, i, rows, opt.MaxSamples)
	}
	return report, nil
}

// Compare lists declared columns that are missing or whose inferred type
// disagrees with the declaration. An int column inferred as decimal is a
// mismatch; a decimal column holding only whole numbers is not.
func (r *Report) Compare(t Table) []Mismatch {
	byKey := make(map[string]ColumnReport, len(r.Columns))
	for _, c := range r.Columns {
		byKey[c.Key] = c
	}

	var out []Mismatch
	for _, decl := range t.Columns {
		col, ok := byKey[decl.Key]
		if !ok {
			out = append(out, Mismatch{Column: decl.Key, Declared: decl.Type, Missing: true})
			continue
		}
		if col.NullCount == r.Rows || compatible(decl.Type, col.Inferred) {
			continue
		}
		out = append(out, Mismatch{Column: decl.Key, Declared: decl.Type, Inferred: col.Inferred})
	}
	return out
}

func compatible(declared, inferred Type) bool {
	switch {
	case declared == inferred:
		return true
	case declared == TypeString:
		return true
	case declared == TypeDecimal && inferred == TypeInt:
		return true
	case declared == TypeInt && inferred == TypeBool:
		// 0/1 columns look boolean
		return true
	}
	return false
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

func analyzeColumn(header string, index int, rows [][]string, maxSamples int) ColumnReport {
	col := ColumnReport{
		Header: header,
		Key:    NormalizeHeader(header),
	}

	values := make([]string, 0, len(rows))
	uniqueSet := make(map[string]bool)
	for _, row := range rows {
		if index >= len(row) {
			col.NullCount++
			continue
		}
		val := strings.TrimSpace(row[index])
		if isNull(val) {
			col.NullCount++
			continue
		}
		values = append(values, val)
		uniqueSet[val] = true
	}

	col.UniqueCount = len(uniqueSet)
	col.Inferred = detectType(values)
	col.Samples = collectSamples(uniqueSet, maxSamples)
	return col
}

func isNull(v string) bool {
	switch v {
	case "", "null", "NULL", "N/A", "n/a":
		return true
	}
	return false
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// detectType inspects values to determine column type.
// Requires 80%+ of non-null values to match for numeric/date/bool.
func detectType(values []string) Type {
	if len(values) == 0 {
		return TypeString
	}

	intCount := 0
	numCount := 0
	dateCount := 0
	boolCount := 0

	for _, v := range values {
		if isInt(v) {
			intCount++
		}
		if isNumeric(v) {
			numCount++
		}
		if isDate(v) {
			dateCount++
		}
		if isBool(v) {
			boolCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)
	if threshold == 0 {
		threshold = 1
	}

	switch {
	case boolCount >= threshold && boolCount > intCount-boolCount:
		return TypeBool
	case dateCount >= threshold:
		return TypeDate
	case intCount >= threshold:
		return TypeInt
	case numCount >= threshold:
		return TypeDecimal
	}
	return TypeString
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "") // handle "1,234.56"
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "-")
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

var dateFormats = []string{
	time.DateOnly,
	"2006-01-02T15:04:05Z",
	time.DateTime,
	"01/02/2006",
}

func isDate(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false", "yes", "no", "y", "n", "1", "0":
		return true
	}
	return false
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	// Handle camelCase: insert underscore before uppercase letters
	var result strings.Builder
	var prev rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			result.WriteRune('_')
		}
		result.WriteRune(r)
		prev = r
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_")
	return s
}

// collectSamples picks up to maxSamples representative values.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}

	// Sort for deterministic output
	sort.Strings(samples)

	if maxSamples > 0 && len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
