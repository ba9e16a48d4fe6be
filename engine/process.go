package engine

import (
	"slices"
	"sort"
	"strings"
)

// ============================================================================
// PROCESS — Sort → Skip → Limit → Project
// ============================================================================
// Entry point: Process(rows, page, opts...)
//
// Pipeline:
//   1. Sort (stable) by page.OrderBy when the column exists
//   2. Skip leading rows
//   3. Limit the remainder
//   4. Project the selected columns
//
// The input slice is never reordered or mutated; each stage works on a copy.
// Bad column names degrade to a warning, never an error.
// ============================================================================

// Process applies page to rows and returns a new slice.
func Process(rows []Row, page Page, opts ...Option) []Row {
	if len(rows) == 0 {
		return []Row{}
	}
	cfg := applyOptions(opts)
	out := slices.Clone(rows)

	// 1. Sort
	if page.OrderBy != "" && page.Order != OrderNone {
		if !out[0].Has(page.OrderBy) {
			cfg.Logger.Warn("sort column not found, skipping sort", "order_by", page.OrderBy)
		} else {
			SortRows(out, page.OrderBy, page.Order)
		}
	}

	// 2. Skip
	if page.Skip > 0 {
		if page.Skip >= len(out) {
			return []Row{}
		}
		out = out[page.Skip:]
	}

	// 3. Limit
	if page.Limit >= 0 && page.Limit < len(out) {
		out = out[:page.Limit]
	}
	if len(out) == 0 {
		return []Row{}
	}

	// 4. Project
	if page.Selects == "" {
		return out
	}
	return project(out, page.Selects, cfg)
}

// SortRows stably sorts rows in place by key.
// Rows where key is absent or nil go last for Asc and first for Desc.
func SortRows(rows []Row, key string, order Order) {
	desc := order == Desc
	sort.SliceStable(rows, func(i, j int) bool {
		a := rows[i].Get(key)
		b := rows[j].Get(key)
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return desc
		case b == nil:
			return !desc
		}
		c := Compare(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// ============================================================================
// PROJECTION
// ============================================================================

func project(rows []Row, selects string, cfg *config) []Row {
	requested := SplitColumns(selects)
	if len(requested) == 0 {
		cfg.Logger.Warn("no valid columns specified for selects, returning all columns", "selects", selects)
		return rows
	}

	// Validate against the first row's keys.
	valid := make([]string, 0, len(requested))
	for _, col := range requested {
		if rows[0].Has(col) {
			valid = append(valid, col)
		} else {
			cfg.Logger.Warn("selected column does not exist in the data", "column", col)
		}
	}
	if len(valid) == 0 {
		cfg.Logger.Warn("no valid selected columns found, returning original data", "selects", selects)
		return rows
	}

	projected := make([]Row, len(rows))
	for i, r := range rows {
		projected[i] = r.Project(valid)
	}
	return projected
}

// SplitColumns parses a comma-separated column list, trimming entries and
// dropping empties and repeats.
func SplitColumns(s string) []string {
	parts := strings.Split(s, ",")
	cols := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		cols = append(cols, p)
	}
	return cols
}
