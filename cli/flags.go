package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spektr-org/dimreport/engine"
)

// pageFlags are the pagination, sorting and projection flags shared by the
// listing commands.
type pageFlags struct {
	skip    int
	limit   int
	order   string
	orderBy string
	selects string
}

func (p *pageFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&p.skip, "skip", 0, "number of records to skip")
	f.IntVar(&p.limit, "limit", engine.NoLimit, "maximum number of records to return (negative for all)")
	f.StringVar(&p.order, "order", "", "sort direction: asc or desc")
	f.StringVar(&p.orderBy, "order-by", "", "column to sort by")
	f.StringVar(&p.selects, "selects", "", "comma-separated columns to display (e.g. cust_id,cust_address)")
}

func (p *pageFlags) page() (engine.Page, error) {
	order, err := engine.ParseOrder(p.order)
	if err != nil {
		return engine.Page{}, err
	}
	return engine.Page{
		Skip:    p.skip,
		Limit:   p.limit,
		Order:   order,
		OrderBy: p.orderBy,
		Selects: p.selects,
	}, nil
}

// parseDirection is ParseOrder for flags that must name a direction.
func parseDirection(s string) (engine.Order, error) {
	order, err := engine.ParseOrder(s)
	if err != nil {
		return engine.OrderNone, err
	}
	if order == engine.OrderNone {
		return engine.OrderNone, fmt.Errorf("order must be asc or desc")
	}
	return order, nil
}
