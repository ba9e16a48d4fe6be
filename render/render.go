// Package render writes query results as a terminal table, CSV or JSON.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spektr-org/dimreport/engine"
)

// NoData is printed in place of an empty table or CSV.
const NoData = "No data to display."

// Format selects an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q: want table, csv or json", s)
	}
}

// Renderer writes results to w in one format.
type Renderer struct {
	w      io.Writer
	format Format
}

// New creates a Renderer. An empty format means FormatTable.
func New(w io.Writer, format Format) *Renderer {
	if format == "" {
		format = FormatTable
	}
	return &Renderer{w: w, format: format}
}

// Format returns the renderer's output format.
func (r *Renderer) Format() Format { return r.format }

// Rows writes a result set. title is only shown in table output.
func (r *Renderer) Rows(title string, rows []engine.Row) error {
	switch r.format {
	case FormatCSV:
		return WriteCSV(r.w, rows)
	case FormatJSON:
		return WriteJSON(r.w, rows)
	default:
		return WriteTable(r.w, title, rows)
	}
}

// Message writes a line of prose in table output, and row as a single
// record otherwise.
func (r *Renderer) Message(text string, row engine.Row) error {
	if r.format == FormatTable {
		_, err := fmt.Fprintln(r.w, text)
		return err
	}
	return r.Rows("", []engine.Row{row})
}

// Heading writes a heading in table output; other formats ignore it.
func (r *Renderer) Heading(text string) error {
	if r.format != FormatTable {
		return nil
	}
	_, err := fmt.Fprintln(r.w, SectionStyle.Render(text))
	return err
}

// ============================================================================
// SECTIONS — Headed groups of rows
// ============================================================================

// Section is a parent record with a nested result set, such as a customer
// and the products they bought.
type Section struct {
	Heading string       // table output only
	Fields  engine.Row   // parent columns
	Rows    []engine.Row // nested rows
	Keys    []string     // nested columns, used when Rows is empty
	Empty   string       // printed in table output when Rows is empty
}

// Sections writes parent records with their nested rows. Table output prints
// a heading and a table per section; JSON nests the rows under key; CSV
// repeats the parent columns on each nested row.
func (r *Renderer) Sections(title, key string, sections []Section) error {
	switch r.format {
	case FormatJSON:
		out := make([]engine.Row, len(sections))
		for i, s := range sections {
			nested := s.Rows
			if nested == nil {
				nested = []engine.Row{}
			}
			out[i] = append(slices.Clone(s.Fields), engine.Field{Key: key, Value: nested})
		}
		return WriteJSON(r.w, out)
	case FormatCSV:
		return WriteCSV(r.w, flatten(sections))
	}

	if title != "" {
		if _, err := fmt.Fprintln(r.w, TitleStyle.Render(title)); err != nil {
			return err
		}
	}
	if len(sections) == 0 {
		_, err := fmt.Fprintln(r.w, NoData)
		return err
	}
	for _, s := range sections {
		if err := r.Heading(s.Heading); err != nil {
			return err
		}
		if len(s.Rows) == 0 {
			if _, err := fmt.Fprintln(r.w, s.Empty); err != nil {
				return err
			}
			continue
		}
		if err := WriteTable(r.w, "", s.Rows); err != nil {
			return err
		}
	}
	return nil
}

// flatten joins each section's parent columns onto its nested rows. A
// section without rows yields one row with empty nested columns.
func flatten(sections []Section) []engine.Row {
	var out []engine.Row
	for _, s := range sections {
		keys := s.Keys
		if len(s.Rows) > 0 {
			keys = s.Rows[0].Keys()
		}
		if len(s.Rows) == 0 {
			out = append(out, append(slices.Clone(s.Fields), engine.Row{}.Project(keys)...))
			continue
		}
		for _, row := range s.Rows {
			out = append(out, append(slices.Clone(s.Fields), row.Project(keys)...))
		}
	}
	return out
}

// ============================================================================
// CSV OUTPUT
// ============================================================================

// WriteCSV writes rows as CSV with a header taken from the first row.
func WriteCSV(w io.Writer, rows []engine.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, NoData)
		return err
	}

	cw := csv.NewWriter(w)
	headers := rows[0].Keys()
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(csvCells(row, headers)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

// WriteJSON writes v as indented JSON. A nil or empty row slice is written
// as an empty array.
func WriteJSON(w io.Writer, v any) error {
	if rows, ok := v.([]engine.Row); ok && rows == nil {
		v = []engine.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return nil
}

func cells(row engine.Row, headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = FormatValue(row.Get(h))
	}
	return out
}

// csvCells is cells without rounding: decimals keep their full precision.
func csvCells(row engine.Row, headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		v := row.Get(h)
		if d, ok := v.(decimal.Decimal); ok {
			out[i] = d.String()
			continue
		}
		out[i] = FormatValue(v)
	}
	return out
}
