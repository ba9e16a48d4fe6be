package query

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spektr-org/dimreport/dataset"
	"github.com/spektr-org/dimreport/engine"
)

// TopPurchasers is how many customers ReturnRateTopCustomers reports on.
const TopPurchasers = 3

// Sales reports on ordering patterns.
type Sales struct {
	store  Store
	logger *slog.Logger
}

// NewSales creates a sales query component over store.
func NewSales(store Store, logger *slog.Logger) *Sales {
	return &Sales{store: store, logger: loggerOrDefault(logger)}
}

type monthKey struct {
	CustID int
	Year   int
	Month  int
}

// MostOrdersPerMonth finds each customer's busiest calendar month. When two
// months tie, the month counted first in the sales data wins. Customers are
// returned busiest first; ids without a customer record are left out.
func (q *Sales) MostOrdersPerMonth() []MonthlyPeak {
	monthly := engine.CountBy(q.store.Sales(), func(s dataset.Sale) (monthKey, bool) {
		id, ok := s.CustID.Get()
		if !ok {
			return monthKey{}, false
		}
		day, ok := s.OrderDate.Get()
		if !ok {
			return monthKey{}, false
		}
		return monthKey{CustID: id, Year: day.Year(), Month: int(day.Month())}, true
	})

	peaks := engine.MaxBy(monthly,
		func(g engine.Group[monthKey]) int { return g.Key.CustID },
		func(g engine.Group[monthKey]) int { return g.Value },
	)

	customers := engine.FirstBy(q.store.Customers(), custID)
	out := make([]MonthlyPeak, 0, len(peaks))
	for _, g := range peaks {
		c, ok := customers[g.Key.CustID]
		if !ok {
			continue
		}
		out = append(out, MonthlyPeak{
			CustID:           g.Key.CustID,
			CustAddress:      c.CustAddress,
			CustAge:          c.CustAge,
			MaxOrdersInMonth: g.Value,
			MonthOfMaxOrders: fmt.Sprintf("%d-%02d", g.Key.Year, g.Key.Month),
		})
	}

	slices.SortStableFunc(out, func(a, b MonthlyPeak) int {
		return cmp.Compare(b.MaxOrdersInMonth, a.MaxOrdersInMonth)
	})
	return out
}

// ReturnRateTopCustomers lists the distinct products bought by the three
// customers with the most orders. The data has no returns, so this reports
// purchases only. Customers without a record are skipped, as are sales of
// products without a record.
func (q *Sales) ReturnRateTopCustomers() []CustomerPurchases {
	sales := q.store.Sales()
	top := engine.TopK(orderCounts(sales, engine.Desc), TopPurchasers)
	if len(top) == 0 {
		return []CustomerPurchases{}
	}

	customers := engine.FirstBy(q.store.Customers(), custID)
	products := engine.FirstBy(q.store.Products(), productID)

	out := make([]CustomerPurchases, 0, len(top))
	for _, g := range top {
		c, ok := customers[g.Key]
		if !ok {
			continue
		}
		out = append(out, CustomerPurchases{
			CustID:            g.Key,
			CustAddress:       c.CustAddress,
			CustAge:           c.CustAge,
			PurchasedProducts: purchasedBy(sales, g.Key, products),
		})
	}
	return out
}

// purchasedBy lists the distinct products id bought, in first-purchase order.
func purchasedBy(sales []dataset.Sale, id int, products map[int]dataset.Product) []PurchasedProduct {
	seen := make(map[int]bool)
	out := make([]PurchasedProduct, 0)
	for _, s := range sales {
		if cid, ok := s.CustID.Get(); !ok || cid != id {
			continue
		}
		pid, ok := s.ProductID.Get()
		if !ok || seen[pid] {
			continue
		}
		p, ok := products[pid]
		if !ok {
			continue
		}
		seen[pid] = true
		out = append(out, PurchasedProduct{
			ProductID:    pid,
			ProductName:  p.ProductName,
			ProductPrice: p.ProductPrice,
		})
	}
	return out
}
