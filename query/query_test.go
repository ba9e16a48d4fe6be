package query

import (
	"bytes"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spektr-org/dimreport/dataset"
)

// ============================================================================
// TEST FIXTURES
// ============================================================================

type memStore struct {
	customers []dataset.Customer
	products  []dataset.Product
	sales     []dataset.Sale
}

func (m *memStore) Customers() []dataset.Customer { return append([]dataset.Customer(nil), m.customers...) }
func (m *memStore) Products() []dataset.Product   { return append([]dataset.Product(nil), m.products...) }
func (m *memStore) Sales() []dataset.Sale         { return append([]dataset.Sale(nil), m.sales...) }

func date(s string) dataset.Value[time.Time] {
	v, err := dataset.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return v
}

func customer(id int, address string, age int) dataset.Customer {
	return dataset.Customer{
		CustID:             dataset.Of(id),
		CustAddress:        address,
		CustAge:            dataset.Of(age),
		EffectiveStartDate: date("2023-01-01"),
		EffectiveEndDate:   date("2023-12-31"),
		CurrentInd:         "Y",
	}
}

func product(id int, name, price string) dataset.Product {
	return dataset.Product{
		ProductID:    dataset.Of(id),
		ProductName:  name,
		ProductPrice: dataset.Of(decimal.RequireFromString(price)),
	}
}

func sale(order, productID, custID, qty int, day string) dataset.Sale {
	return dataset.Sale{
		OrderID:         dataset.Of(order),
		ProductID:       dataset.Of(productID),
		CustID:          dataset.Of(custID),
		ProductQuantity: dataset.Of(qty),
		OrderDate:       date(day),
	}
}

// testLogger returns a logger writing text records into buf.
func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func fixture() *memStore {
	return &memStore{
		customers: []dataset.Customer{
			customer(1, "123 Main St, Los Angeles, CA", 30),
			customer(2, "9 Elm Rd, New York City, NY", 41),
			customer(3, "77 Pine Ave, Austin, TX", 30),
			customer(4, "5 Oak Ct, Los Angeles, CA", 19),
		},
		products: []dataset.Product{
			product(9, "Widget", "19.99"),
			product(7, "Gadget", "5.00"),
			product(8, "Gizmo", "12.50"),
		},
		sales: []dataset.Sale{
			sale(100, 9, 1, 2, "2023-01-15"),
			sale(101, 9, 2, 1, "2023-04-10"),
			sale(102, 7, 1, 3, "2023-04-11"),
			sale(103, 7, 3, 5, "2023-07-01"),
			sale(104, 8, 1, 1, "2023-10-20"),
			sale(105, 42, 2, 4, "2023-10-21"),
		},
	}
}
