package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spektr-org/dimreport/engine"
	"github.com/spektr-org/dimreport/query"
	"github.com/spektr-org/dimreport/render"
)

func (a *app) salesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Sales related reports",
	}
	cmd.AddCommand(
		a.mostOrdersPerMonthCommand(),
		a.returnRateCommand(),
	)
	return cmd
}

func (a *app) mostOrdersPerMonthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "most-orders-per-month",
		Short: "Show each customer's busiest month",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string) error {
			store, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			peaks := query.NewSales(store, a.logger).MostOrdersPerMonth()
			return a.renderer.Rows("Customers with the most orders in any single month:", query.MonthlyPeakRows.Rows(peaks))
		}),
	}
}

func (a *app) returnRateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "return-rate-top-customers",
		Short: "List products bought by the top 3 customers",
		Long: `Lists the three customers with the most orders and every distinct product
each of them bought. The sales data carries no returns, so no return rate is
computed.`,
		Args: cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string) error {
			store, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			top := query.NewSales(store, a.logger).ReturnRateTopCustomers()
			if len(top) == 0 && a.renderer.Format() == render.FormatTable {
				return a.renderer.Message("Could not retrieve top customer details or no sales data available.", nil)
			}
			return a.renderer.Sections("Top 3 Customers and Their Purchased Product Details:", "purchased_products", purchaseSections(top))
		}),
	}
}

func purchaseSections(top []query.CustomerPurchases) []render.Section {
	sections := make([]render.Section, len(top))
	for i, c := range top {
		sections[i] = render.Section{
			Heading: fmt.Sprintf("Customer ID: %d (%s yrs, %s)", c.CustID, render.FormatValue(c.CustAge.Any()), c.CustAddress),
			Fields: engine.NewRow(
				"cust_id", c.CustID,
				"cust_address", c.CustAddress,
				"cust_age", c.CustAge.Any(),
			),
			Rows:  query.PurchasedProductRows.Rows(c.PurchasedProducts),
			Keys:  query.PurchasedProductRows.Keys(),
			Empty: "No purchased products found for this customer.",
		}
	}
	return sections
}
