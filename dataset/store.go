package dataset

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ============================================================================
// STORE — Load-once, read-only record store
// ============================================================================
// The three tables are read concurrently the first time anything asks for
// data, then held for the life of the Store. Accessors hand out copies, so
// callers may sort or filter what they get without touching shared state.
//
// A table whose file is missing or unreadable degrades to an empty slice and
// a LoadError; cell coercion problems become Diagnostics. Both are logged
// once, after loading finishes.
// ============================================================================

// Files names the CSV file of each table, relative to the store's fs.FS.
type Files struct {
	Customers string
	Products  string
	Sales     string
}

// DefaultFiles returns the conventional file names.
func DefaultFiles() Files {
	return Files{
		Customers: CustomerTable.File,
		Products:  ProductTable.File,
		Sales:     SalesTable.File,
	}
}

// LoadError reports a table that could not be loaded.
type LoadError struct {
	Table string
	File  string
	Err   error
}

func (e LoadError) Error() string {
	return fmt.Sprintf("load %s from %s: %v", e.Table, e.File, e.Err)
}

func (e LoadError) Unwrap() error { return e.Err }

// Option configures a Store.
type Option func(*Store)

// WithFiles overrides the CSV file names.
func WithFiles(files Files) Option {
	return func(s *Store) {
		defaults := DefaultFiles()
		if files.Customers == "" {
			files.Customers = defaults.Customers
		}
		if files.Products == "" {
			files.Products = defaults.Products
		}
		if files.Sales == "" {
			files.Sales = defaults.Sales
		}
		s.files = files
	}
}

// WithLogger sets the logger used to report load failures and diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store holds the three tables for the lifetime of the process.
type Store struct {
	fsys   fs.FS
	files  Files
	logger *slog.Logger

	once        sync.Once
	err         error
	customers   []Customer
	products    []Product
	sales       []Sale
	diagnostics []Diagnostic
	failures    []LoadError
}

// NewStore creates a Store reading from fsys. Nothing is read until Load or
// the first accessor call.
func NewStore(fsys fs.FS, opts ...Option) *Store {
	s := &Store{
		fsys:   fsys,
		files:  DefaultFiles(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads all three tables once. Later calls return the first result.
// Only context cancellation is returned as an error; per-table failures are
// available from Failures.
func (s *Store) Load(ctx context.Context) error {
	s.once.Do(func() {
		s.err = s.load(ctx)
	})
	return s.err
}

// ensure loads on first access. A cancelled first Load leaves every table
// empty for the life of the Store.
func (s *Store) ensure() {
	if err := s.Load(context.Background()); err != nil {
		s.logger.Debug("store not loaded, returning empty tables", "error", err)
	}
}

// Customers returns a copy of all customer rows. Accessors load on first use;
// call Load to see a cancellation error.
func (s *Store) Customers() []Customer {
	s.ensure()
	return slices.Clone(s.customers)
}

// Products returns a copy of all product rows.
func (s *Store) Products() []Product {
	s.ensure()
	return slices.Clone(s.products)
}

// Sales returns a copy of all sale rows.
func (s *Store) Sales() []Sale {
	s.ensure()
	return slices.Clone(s.sales)
}

// Diagnostics returns the cell-level problems found while loading.
func (s *Store) Diagnostics() []Diagnostic {
	s.ensure()
	return slices.Clone(s.diagnostics)
}

// Failures returns the tables that could not be loaded.
func (s *Store) Failures() []LoadError {
	s.ensure()
	return slices.Clone(s.failures)
}

// ============================================================================
// LOADING
// ============================================================================

type tableResult struct {
	diags []Diagnostic
	fail  *LoadError
}

func (s *Store) load(ctx context.Context) error {
	s.logger.Debug("loading data", "customers", s.files.Customers, "products", s.files.Products, "sales", s.files.Sales)

	var results [3]tableResult
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		s.customers, results[0], err = loadTable(gctx, s.fsys, CustomerTable.Name, s.files.Customers, ParseCustomers)
		return err
	})
	g.Go(func() error {
		var err error
		s.products, results[1], err = loadTable(gctx, s.fsys, ProductTable.Name, s.files.Products, ParseProducts)
		return err
	})
	g.Go(func() error {
		var err error
		s.sales, results[2], err = loadTable(gctx, s.fsys, SalesTable.Name, s.files.Sales, ParseSales)
		return err
	})

	if err := g.Wait(); err != nil {
		s.customers, s.products, s.sales = nil, nil, nil
		return fmt.Errorf("load data: %w", err)
	}

	for _, r := range results {
		s.diagnostics = append(s.diagnostics, r.diags...)
		if r.fail != nil {
			s.failures = append(s.failures, *r.fail)
		}
	}

	for _, f := range s.failures {
		s.logger.Error("data source unavailable", "table", f.Table, "file", f.File, "error", f.Err)
	}
	for _, d := range s.diagnostics {
		s.logger.Warn("could not convert value, storing as text",
			"file", d.File, "line", d.Line, "column", d.Column, "value", d.Raw, "error", d.Err)
	}
	s.logger.Info("data loaded",
		"customers", len(s.customers), "products", len(s.products), "sales", len(s.sales),
		"diagnostics", len(s.diagnostics), "failures", len(s.failures))
	return nil
}

type parseFunc[T any] func(io.Reader, string) ([]T, []Diagnostic, error)

// loadTable opens and parses one file. File-level problems are folded into
// the result; only cancellation is returned as an error.
func loadTable[T any](ctx context.Context, fsys fs.FS, table, file string, parse parseFunc[T]) ([]T, tableResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, tableResult{}, err
	}

	f, err := fsys.Open(file)
	if err != nil {
		return nil, tableResult{fail: &LoadError{Table: table, File: file, Err: err}}, nil
	}
	defer f.Close()

	records, diags, err := parse(f, file)
	if err != nil {
		return nil, tableResult{fail: &LoadError{Table: table, File: file, Err: err}}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, tableResult{}, err
	}
	return records, tableResult{diags: diags}, nil
}
