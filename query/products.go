package query

import (
	"log/slog"
	"slices"

	"github.com/spektr-org/dimreport/dataset"
	"github.com/spektr-org/dimreport/engine"
)

// DefaultProductLimit is the number of products WorstPerforming and
// BestPerforming return by default.
const DefaultProductLimit = 5

// Products reports on quantities sold per product.
type Products struct {
	store  Store
	logger *slog.Logger
}

// NewProducts creates a product query component over store.
func NewProducts(store Store, logger *slog.Logger) *Products {
	return &Products{store: store, logger: loggerOrDefault(logger)}
}

// Totals returns the all-time quantity sold per product, lowest first.
// Products with equal totals keep the order they were first sold in.
func (q *Products) Totals() []ProductTotal {
	return q.totals(engine.Asc)
}

// WorstPerforming returns the limit products with the lowest total quantity sold.
func (q *Products) WorstPerforming(limit int) []ProductTotal {
	return topTotals(q.totals(engine.Asc), limit)
}

// BestPerforming returns the limit products with the highest total quantity sold.
func (q *Products) BestPerforming(limit int) []ProductTotal {
	return topTotals(q.totals(engine.Desc), limit)
}

func (q *Products) totals(order engine.Order) []ProductTotal {
	sums := engine.SumBy(q.store.Sales(), saleProduct, dataset.Sale.Quantity)
	engine.SortGroups(sums, order)

	products := engine.FirstBy(q.store.Products(), productID)
	out := make([]ProductTotal, len(sums))
	for i, g := range sums {
		out[i] = ProductTotal{
			ProductID:         g.Key,
			ProductName:       productName(products, g.Key),
			TotalQuantitySold: g.Value,
		}
	}
	return out
}

func topTotals(totals []ProductTotal, limit int) []ProductTotal {
	if limit >= 0 && len(totals) > limit {
		return totals[:limit]
	}
	return totals
}

// ============================================================================
// QUARTERLY SALES
// ============================================================================

type quarterKey struct {
	ProductID int
	Year      int
	Quarter   int
}

// QuarterOf returns the calendar quarter (1-4) of a month.
func QuarterOf(month int) int {
	return (month-1)/3 + 1
}

// QuarterlySales sums quantity per product per calendar quarter. When
// quarters is non-empty only those quarters are kept. Results are ordered by
// total in the given direction; there is no limit.
func (q *Products) QuarterlySales(quarters []int, order engine.Order) []QuarterlySale {
	key := func(s dataset.Sale) (quarterKey, bool) {
		id, ok := s.ProductID.Get()
		if !ok {
			return quarterKey{}, false
		}
		day, ok := s.OrderDate.Get()
		if !ok {
			return quarterKey{}, false
		}
		k := quarterKey{ProductID: id, Year: day.Year(), Quarter: QuarterOf(int(day.Month()))}
		if len(quarters) > 0 && !slices.Contains(quarters, k.Quarter) {
			return quarterKey{}, false
		}
		return k, true
	}

	sums := engine.SumBy(q.store.Sales(), key, dataset.Sale.Quantity)
	engine.SortGroups(sums, order)

	products := engine.FirstBy(q.store.Products(), productID)
	out := make([]QuarterlySale, len(sums))
	for i, g := range sums {
		out[i] = QuarterlySale{
			ProductID:         g.Key.ProductID,
			ProductName:       productName(products, g.Key.ProductID),
			Year:              g.Key.Year,
			Quarter:           g.Key.Quarter,
			TotalQuantitySold: g.Value,
		}
	}
	return out
}
