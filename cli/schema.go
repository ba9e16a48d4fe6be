package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/dimreport/dataset"
	"github.com/spektr-org/dimreport/engine"
	"github.com/spektr-org/dimreport/schema"
)

// ============================================================================
// SCHEMA — Check the CSV files against the declared columns
// ============================================================================

// columnCheck is one line of the schema report.
type columnCheck struct {
	Table    string
	File     string
	Column   string
	Declared string
	Inferred string
	Nulls    any
	Samples  string
	Status   string
}

const (
	statusOK         = "ok"
	statusMismatch   = "type mismatch"
	statusMissing    = "missing"
	statusEmpty      = "empty"
	statusUndeclared = "undeclared"
	statusUnreadable = "unreadable"
)

var columnCheckRows = engine.NewRowAdapter[columnCheck]().
	Field("table", func(c columnCheck) any { return c.Table }).
	Field("file", func(c columnCheck) any { return c.File }).
	Field("column", func(c columnCheck) any { return c.Column }).
	Field("declared", func(c columnCheck) any { return c.Declared }).
	Field("inferred", func(c columnCheck) any { return c.Inferred }).
	Field("nulls", func(c columnCheck) any { return c.Nulls }).
	Field("samples", func(c columnCheck) any { return c.Samples }).
	Field("status", func(c columnCheck) any { return c.Status })

func (a *app) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Compare each CSV file's columns with the expected layout",
		Long: `Reads a sample of each data file, infers a type per column and reports
columns that are missing, undeclared, empty or do not look like their
declared type.`,
		Args: cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string) error {
			tables := []schema.Table{
				dataset.CustomerTable.WithFile(a.cfg.CustomersFile),
				dataset.ProductTable.WithFile(a.cfg.ProductsFile),
				dataset.SalesTable.WithFile(a.cfg.SalesFile),
			}
			var checks []columnCheck
			for _, t := range tables {
				checks = append(checks, a.checkTable(t)...)
			}
			title := fmt.Sprintf("Column check for %s:", a.cfg.DataDir)
			return a.renderer.Rows(title, columnCheckRows.Rows(checks))
		}),
	}
}

func (a *app) checkTable(t schema.Table) []columnCheck {
	report, err := a.inspect(t.File)
	if err != nil {
		a.logger.Error("data source unavailable", "table", t.Name, "file", t.File, "error", err)
		checks := make([]columnCheck, len(t.Columns))
		for i, c := range t.Columns {
			checks[i] = columnCheck{Table: t.Name, File: t.File, Column: c.Key, Declared: c.Type.String(), Status: statusUnreadable}
		}
		return checks
	}

	mismatched := make(map[string]schema.Mismatch)
	for _, m := range report.Compare(t) {
		mismatched[m.Column] = m
	}
	found := make(map[string]schema.ColumnReport, len(report.Columns))
	for _, c := range report.Columns {
		found[c.Key] = c
	}

	checks := make([]columnCheck, 0, len(t.Columns))
	for _, decl := range t.Columns {
		check := columnCheck{Table: t.Name, File: t.File, Column: decl.Key, Declared: decl.Type.String(), Status: statusOK}
		col, ok := found[decl.Key]
		if !ok {
			check.Status = statusMissing
			checks = append(checks, check)
			continue
		}
		check.Inferred = col.Inferred.String()
		check.Nulls = col.NullCount
		check.Samples = strings.Join(col.Samples, " | ")
		if _, bad := mismatched[decl.Key]; bad {
			check.Status = statusMismatch
		} else if report.Rows > 0 && col.NullCount == report.Rows {
			check.Status = statusEmpty
		}
		checks = append(checks, check)
	}

	for _, col := range report.Columns {
		if _, declared := t.Column(col.Key); declared {
			continue
		}
		checks = append(checks, columnCheck{
			Table:    t.Name,
			File:     t.File,
			Column:   col.Key,
			Inferred: col.Inferred.String(),
			Nulls:    col.NullCount,
			Samples:  strings.Join(col.Samples, " | "),
			Status:   statusUndeclared,
		})
	}
	return checks
}

func (a *app) inspect(file string) (*schema.Report, error) {
	f, err := a.fsys.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return schema.Inspect(f)
}
