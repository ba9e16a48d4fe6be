package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spektr-org/dimreport/engine"
	"github.com/spektr-org/dimreport/query"
	"github.com/spektr-org/dimreport/render"
)

func (a *app) customersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Customer related reports",
	}
	cmd.AddCommand(
		a.totalByLocationCommand(),
		a.fromMultipleLocationsCommand(),
		a.listCustomersCommand(),
		a.topOrdersCommand(),
	)
	return cmd
}

func (a *app) totalByLocationCommand() *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:     "total-by-location",
		Short:   "Count customers whose address contains a location",
		Example: `  dimreport customers total-by-location --location "Los Angeles, CA"`,
		Args:    cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string) error {
			store, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			n := query.NewCustomers(store, a.logger).TotalByLocation(location)
			return a.renderer.Message(
				fmt.Sprintf("Total customers in '%s': %s", location, render.FormatCount(n)),
				engine.NewRow("location", location, "total_customers", n),
			)
		}),
	}
	cmd.Flags().StringVar(&location, "location", "", "location to match against the address (case-insensitive, partial)")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func (a *app) fromMultipleLocationsCommand() *cobra.Command {
	var (
		locations []string
		pf        pageFlags
	)
	cmd := &cobra.Command{
		Use:   "from-multiple-locations [location...]",
		Short: "List customers living in any of several locations",
		Example: `  dimreport customers from-multiple-locations --locations "Los Angeles, CA" --locations "New York City, NY"
  dimreport customers from-multiple-locations "Austin" "Denver" --order-by cust_id --order asc`,
		RunE: run(func(cmd *cobra.Command, args []string) error {
			locs := append(append([]string{}, locations...), args...)
			if len(locs) == 0 {
				return errors.New("at least one location is required")
			}
			page, err := pf.page()
			if err != nil {
				return err
			}
			store, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			rows := query.NewCustomers(store, a.logger).FromMultipleLocations(locs, page)
			return a.renderer.Rows("Customers from multiple locations:", rows)
		}),
	}
	cmd.Flags().StringArrayVar(&locations, "locations", nil, "location to match; repeat for more than one")
	pf.register(cmd)
	return cmd
}

func (a *app) listCustomersCommand() *cobra.Command {
	var (
		age     int
		address string
		date    string
		pf      pageFlags
	)
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List customers by age, address and effective date",
		Example: `  dimreport customers list --age 30 --address "Meadow St" --date 2023-06-15 --limit 10 --order asc --order-by cust_id --selects cust_id,cust_address`,
		Args:    cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string) error {
			page, err := pf.page()
			if err != nil {
				return err
			}
			filter := query.ListFilter{Address: address, Date: date}
			if cmd.Flags().Changed("age") {
				filter.Age = &age
			}
			store, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			rows := query.NewCustomers(store, a.logger).List(filter, page)
			return a.renderer.Rows("Filtered customers:", rows)
		}),
	}
	cmd.Flags().IntVar(&age, "age", 0, "exact customer age")
	cmd.Flags().StringVar(&address, "address", "", "partial address match (case-insensitive)")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD) that must fall within the effective interval")
	pf.register(cmd)
	return cmd
}

func (a *app) topOrdersCommand() *cobra.Command {
	var (
		order string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "top-orders",
		Short: "List the customers with the most orders",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string) error {
			dir, err := parseDirection(order)
			if err != nil {
				return err
			}
			store, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			top := query.NewCustomers(store, a.logger).TopByOrders(limit, dir)
			title := "Customers by most orders:"
			if limit >= 0 {
				title = fmt.Sprintf("Top %d customers by most orders:", limit)
			}
			return a.renderer.Rows(title, query.TopCustomerRows.Rows(top))
		}),
	}
	cmd.Flags().StringVar(&order, "order", string(engine.Desc), "asc for fewest orders first, desc for most")
	cmd.Flags().IntVar(&limit, "limit", query.DefaultTopCustomers, "number of customers to return (negative for all)")
	return cmd
}
