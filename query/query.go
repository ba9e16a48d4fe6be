// Package query implements the fixed reports over the customer, product and
// sales tables: location search, filtered listing, top purchasers, product
// performance, quarterly totals and monthly order peaks.
//
// Components read fresh copies from a Store on every call and build new
// result slices, so they are safe to call repeatedly and never change the
// loaded data.
package query

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/spektr-org/dimreport/dataset"
	"github.com/spektr-org/dimreport/engine"
)

// Store is the read side of the record store. *dataset.Store satisfies it.
type Store interface {
	Customers() []dataset.Customer
	Products() []dataset.Product
	Sales() []dataset.Sale
}

// ============================================================================
// RESULT TYPES
// ============================================================================

// TopCustomer is a customer ranked by number of orders.
type TopCustomer struct {
	CustID      int
	CustAddress string
	CustAge     dataset.Value[int]
	OrderCount  int
}

// ProductTotal is the total quantity sold of one product.
type ProductTotal struct {
	ProductID         int
	ProductName       string
	TotalQuantitySold int
}

// QuarterlySale is the quantity of one product sold in one calendar quarter.
type QuarterlySale struct {
	ProductID         int
	ProductName       string
	Year              int
	Quarter           int
	TotalQuantitySold int
}

// MonthlyPeak is a customer's busiest month.
type MonthlyPeak struct {
	CustID           int
	CustAddress      string
	CustAge          dataset.Value[int]
	MaxOrdersInMonth int
	MonthOfMaxOrders string // YYYY-MM
}

// PurchasedProduct is one distinct product bought by a customer.
type PurchasedProduct struct {
	ProductID    int
	ProductName  string
	ProductPrice dataset.Value[decimal.Decimal]
}

// CustomerPurchases lists the distinct products a customer bought.
type CustomerPurchases struct {
	CustID            int
	CustAddress       string
	CustAge           dataset.Value[int]
	PurchasedProducts []PurchasedProduct
}

// ============================================================================
// ROW ADAPTERS — column order is the order results are printed in
// ============================================================================

// CustomerRows lowers customer records into rows.
var CustomerRows = engine.NewRowAdapter[dataset.Customer]().
	Field("cust_id", func(c dataset.Customer) any { return c.CustID.Any() }).
	Field("cust_address", func(c dataset.Customer) any { return c.CustAddress }).
	Field("cust_age", func(c dataset.Customer) any { return c.CustAge.Any() }).
	Field("effective_start_date", func(c dataset.Customer) any { return c.EffectiveStartDate.Any() }).
	Field("effective_end_date", func(c dataset.Customer) any { return c.EffectiveEndDate.Any() }).
	Field("current_ind", func(c dataset.Customer) any { return c.CurrentInd })

var TopCustomerRows = engine.NewRowAdapter[TopCustomer]().
	Field("cust_id", func(c TopCustomer) any { return c.CustID }).
	Field("cust_address", func(c TopCustomer) any { return c.CustAddress }).
	Field("cust_age", func(c TopCustomer) any { return c.CustAge.Any() }).
	Field("order_count", func(c TopCustomer) any { return c.OrderCount })

var ProductTotalRows = engine.NewRowAdapter[ProductTotal]().
	Field("product_id", func(p ProductTotal) any { return p.ProductID }).
	Field("product_name", func(p ProductTotal) any { return p.ProductName }).
	Field("total_quantity_sold", func(p ProductTotal) any { return p.TotalQuantitySold })

var QuarterlySaleRows = engine.NewRowAdapter[QuarterlySale]().
	Field("product_id", func(q QuarterlySale) any { return q.ProductID }).
	Field("product_name", func(q QuarterlySale) any { return q.ProductName }).
	Field("year", func(q QuarterlySale) any { return q.Year }).
	Field("quarter", func(q QuarterlySale) any { return q.Quarter }).
	Field("total_quantity_sold", func(q QuarterlySale) any { return q.TotalQuantitySold })

var MonthlyPeakRows = engine.NewRowAdapter[MonthlyPeak]().
	Field("cust_id", func(m MonthlyPeak) any { return m.CustID }).
	Field("cust_address", func(m MonthlyPeak) any { return m.CustAddress }).
	Field("cust_age", func(m MonthlyPeak) any { return m.CustAge.Any() }).
	Field("max_orders_in_month", func(m MonthlyPeak) any { return m.MaxOrdersInMonth }).
	Field("month_of_max_orders", func(m MonthlyPeak) any { return m.MonthOfMaxOrders })

var PurchasedProductRows = engine.NewRowAdapter[PurchasedProduct]().
	Field("product_id", func(p PurchasedProduct) any { return p.ProductID }).
	Field("product_name", func(p PurchasedProduct) any { return p.ProductName }).
	Field("product_price", func(p PurchasedProduct) any { return p.ProductPrice.Any() })

// ============================================================================
// JOIN HELPERS
// ============================================================================

func custID(c dataset.Customer) (int, bool)  { return c.CustID.Get() }
func productID(p dataset.Product) (int, bool) { return p.ProductID.Get() }
func saleCustID(s dataset.Sale) (int, bool)   { return s.CustID.Get() }
func saleProduct(s dataset.Sale) (int, bool)  { return s.ProductID.Get() }

// productName resolves a product's display name, substituting a placeholder
// when the id has no product record or the record has no name.
func productName(products map[int]dataset.Product, id int) string {
	if p, ok := products[id]; ok && p.ProductName != "" {
		return p.ProductName
	}
	return fmt.Sprintf("Unknown Product (%d)", id)
}

// orderCounts counts sales per customer id and sorts the counts stably.
func orderCounts(sales []dataset.Sale, order engine.Order) []engine.Group[int] {
	counts := engine.CountBy(sales, saleCustID)
	engine.SortGroups(counts, order)
	return counts
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
