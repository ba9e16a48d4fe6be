// Package cli wires configuration, the record store, the query components and
// the renderer into the dimreport command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/spektr-org/dimreport/config"
	"github.com/spektr-org/dimreport/dataset"
	"github.com/spektr-org/dimreport/obs"
	"github.com/spektr-org/dimreport/render"
)

// ============================================================================
// DIMREPORT CLI — Fixed reports over customer, product and sales extracts
// ============================================================================

const version = "0.3.0"

// app carries what every command needs once flags are parsed.
type app struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer

	logger   *slog.Logger
	fsys     fs.FS
	store    *dataset.Store
	renderer *render.Renderer
}

// Execute loads configuration from the environment and runs the command
// named by args.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	root := NewRootCommand(cfg, stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. cfg supplies flag defaults.
func NewRootCommand(cfg config.Config, stdout, stderr io.Writer) *cobra.Command {
	a := &app{cfg: cfg, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "dimreport",
		Short: "Reports over customer, product and sales CSV extracts",
		Long: `dimreport loads customer_dim.csv, product_dim.csv and sales_transactions.csv
from a data directory and answers fixed questions about them: customers by
location, top purchasers, product performance and monthly order peaks.

Environment:
  DIMREPORT_DATA_DIR        Directory holding the CSV files (default "data")
  DIMREPORT_FORMAT          Output format: table, csv or json
  DIMREPORT_LOG_LEVEL       debug, info, warn or error
  DIMREPORT_LOG_FORMAT      text or json
  DIMREPORT_CUSTOMERS_FILE  Customer file name
  DIMREPORT_PRODUCTS_FILE   Product file name
  DIMREPORT_SALES_FILE      Sales file name`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	// ── Flags ─────────────────────────────────────────────────────────────
	f := root.PersistentFlags()
	f.StringVar(&a.cfg.DataDir, "data-dir", cfg.DataDir, "directory holding the CSV files")
	f.StringVar(&a.cfg.Format, "format", cfg.Format, "output format: table, csv or json")
	f.StringVar(&a.cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	f.StringVar(&a.cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")

	root.AddCommand(
		a.customersCommand(),
		a.productsCommand(),
		a.salesCommand(),
		a.schemaCommand(),
	)
	return root
}

// setup validates settings and builds the logger, store and renderer.
// Nothing is read from disk here.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	format, err := render.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}

	a.logger = obs.NewLogger(a.stderr, level, a.cfg.LogFormat, obs.NewRunID())
	a.fsys = os.DirFS(a.cfg.DataDir)
	a.store = dataset.NewStore(a.fsys,
		dataset.WithFiles(dataset.Files{
			Customers: a.cfg.CustomersFile,
			Products:  a.cfg.ProductsFile,
			Sales:     a.cfg.SalesFile,
		}),
		dataset.WithLogger(a.logger),
	)
	a.renderer = render.New(a.stdout, format)

	a.logger.Debug("command starting", "command", cmd.CommandPath(), "data_dir", a.cfg.DataDir, "format", format)
	return nil
}

// load reads the data files once and returns the store.
func (a *app) load(ctx context.Context) (*dataset.Store, error) {
	if err := a.store.Load(ctx); err != nil {
		return nil, err
	}
	return a.store, nil
}

// runFunc is the body of a command.
type runFunc func(cmd *cobra.Command, args []string) error

// run turns a panic inside a command into an error so it is reported and
// the process exits non-zero without printing a partial result.
func run(fn runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("an unexpected error occurred: %v", r)
			}
		}()
		return fn(cmd, args)
	}
}
