package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spektr-org/dimreport/query"
)

func (a *app) productsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Product related reports",
	}
	cmd.AddCommand(
		a.performingCommand("worst-performing", "lowest", (*query.Products).WorstPerforming),
		a.performingCommand("best-performing", "highest", (*query.Products).BestPerforming),
		a.quarterlySalesCommand(),
	)
	return cmd
}

// performingCommand builds worst-performing and best-performing, which differ
// only in ranking direction.
func (a *app) performingCommand(use, rank string, rankFn func(*query.Products, int) []query.ProductTotal) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("List the products with the %s total quantity sold", rank),
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string) error {
			store, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			totals := rankFn(query.NewProducts(store, a.logger), limit)
			title := fmt.Sprintf("Products by %s total quantity sold:", rank)
			if limit >= 0 {
				title = fmt.Sprintf("Products by %s total quantity sold (top %d):", rank, limit)
			}
			return a.renderer.Rows(title, query.ProductTotalRows.Rows(totals))
		}),
	}
	cmd.Flags().IntVar(&limit, "limit", query.DefaultProductLimit, "number of products to return (negative for all)")
	return cmd
}

func (a *app) quarterlySalesCommand() *cobra.Command {
	var (
		quarters []int
		order    string
	)
	cmd := &cobra.Command{
		Use:     "quarterly-sales",
		Short:   "List products by quantity sold per calendar quarter",
		Example: `  dimreport products quarterly-sales --quarters 1,2 --order desc`,
		Args:    cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string) error {
			for _, q := range quarters {
				if q < 1 || q > 4 {
					return fmt.Errorf("invalid quarter %d: want 1, 2, 3 or 4", q)
				}
			}
			dir, err := parseDirection(order)
			if err != nil {
				return err
			}
			store, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			sales := query.NewProducts(store, a.logger).QuarterlySales(quarters, dir)
			return a.renderer.Rows("Products by quarterly sales:", query.QuarterlySaleRows.Rows(sales))
		}),
	}
	cmd.Flags().IntSliceVar(&quarters, "quarters", nil, "quarters to include (1-4), comma-separated or repeated")
	cmd.Flags().StringVar(&order, "order", "desc", "sort direction by quantity: asc or desc")
	return cmd
}
