package engine

import (
	"fmt"
	"log/slog"
	"strings"
)

// ============================================================================
// ENGINE OPTIONS — Page parameters + functional options for Process()
// ============================================================================

// Order is a sort direction.
type Order string

const (
	OrderNone Order = ""
	Asc       Order = "asc"
	Desc      Order = "desc"
)

// ParseOrder validates a user-supplied direction. Empty maps to OrderNone.
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case OrderNone, Asc, Desc:
		return o, nil
	default:
		return OrderNone, fmt.Errorf("invalid order %q: want asc or desc", s)
	}
}

// NoLimit disables truncation in Page.Limit.
const NoLimit = -1

// Page describes the post-processing applied to a result set:
// sort by OrderBy in Order, drop Skip rows, keep Limit rows, project Selects.
type Page struct {
	Skip    int
	Limit   int // negative = unbounded, 0 = empty result
	Order   Order
	OrderBy string
	Selects string // comma-separated column names
}

// AllRows is a Page that leaves a result set untouched.
func AllRows() Page {
	return Page{Limit: NoLimit}
}

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Logger *slog.Logger
}

// WithLogger routes diagnostics (unknown sort or select columns) to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
