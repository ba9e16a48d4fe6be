package query

import (
	"log/slog"
	"time"

	"github.com/spektr-org/dimreport/dataset"
	"github.com/spektr-org/dimreport/engine"
)

// DefaultTopCustomers is the number of customers TopByOrders returns by default.
const DefaultTopCustomers = 10

// Customers answers location and listing questions about customers.
type Customers struct {
	store  Store
	logger *slog.Logger
}

// NewCustomers creates a customer query component over store.
func NewCustomers(store Store, logger *slog.Logger) *Customers {
	return &Customers{store: store, logger: loggerOrDefault(logger)}
}

// TotalByLocation counts customer rows whose address contains location,
// ignoring case.
func (q *Customers) TotalByLocation(location string) int {
	m := engine.NewFoldMatcher(location)
	count := 0
	for _, c := range q.store.Customers() {
		if m.Match(c.CustAddress) {
			count++
		}
	}
	return count
}

// FromMultipleLocations returns the customers whose address contains any of
// locations, each customer id at most once. Customers matching the first
// location come first.
func (q *Customers) FromMultipleLocations(locations []string, page engine.Page) []engine.Row {
	customers := q.store.Customers()
	seen := make(map[int]bool)
	var found []dataset.Customer

	for _, loc := range locations {
		m := engine.NewFoldMatcher(loc)
		for _, c := range customers {
			id, ok := c.CustID.Get()
			if !ok || seen[id] || !m.Match(c.CustAddress) {
				continue
			}
			seen[id] = true
			found = append(found, c)
		}
	}
	return engine.Process(CustomerRows.Rows(found), page, engine.WithLogger(q.logger))
}

// ListFilter narrows List. Zero fields are not applied.
type ListFilter struct {
	Age     *int
	Address string
	Date    string // YYYY-MM-DD, must fall inside the effective interval
}

// List returns the customers matching every filter set in f.
//
// A Date that does not parse is reported once and matches no customer.
func (q *Customers) List(f ListFilter, page engine.Page) []engine.Row {
	var preds []engine.Predicate[dataset.Customer]

	if f.Age != nil {
		age := *f.Age
		preds = append(preds, func(c dataset.Customer) bool {
			v, ok := c.CustAge.Get()
			return ok && v == age
		})
	}
	if f.Address != "" {
		m := engine.NewFoldMatcher(f.Address)
		preds = append(preds, func(c dataset.Customer) bool { return m.Match(c.CustAddress) })
	}
	if f.Date != "" {
		day, err := time.Parse(dataset.DateLayout, f.Date)
		if err != nil {
			q.logger.Warn("invalid date format, expected YYYY-MM-DD; no customer will match", "date", f.Date, "error", err)
			preds = append(preds, func(dataset.Customer) bool { return false })
		} else {
			preds = append(preds, func(c dataset.Customer) bool { return c.EffectiveOn(day) })
		}
	}

	matched := engine.Filter(q.store.Customers(), engine.All(preds...))
	return engine.Process(CustomerRows.Rows(matched), page, engine.WithLogger(q.logger))
}

// TopByOrders ranks customers by number of orders in the given direction
// and returns the first limit of them that have a customer record.
// A negative limit returns every ranked customer.
func (q *Customers) TopByOrders(limit int, order engine.Order) []TopCustomer {
	counts := engine.TopK(orderCounts(q.store.Sales(), order), limit)
	customers := engine.FirstBy(q.store.Customers(), custID)

	out := make([]TopCustomer, 0, len(counts))
	for _, g := range counts {
		c, ok := customers[g.Key]
		if !ok {
			continue
		}
		out = append(out, TopCustomer{
			CustID:      g.Key,
			CustAddress: c.CustAddress,
			CustAge:     c.CustAge,
			OrderCount:  g.Value,
		})
	}
	return out
}
