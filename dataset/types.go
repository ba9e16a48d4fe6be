package dataset

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spektr-org/dimreport/schema"
)

// ============================================================================
// RECORDS — Typed rows of the three source tables
// ============================================================================
// Customer and Product are slowly-changing dimension rows: the same id may
// appear several times with different effective intervals. Sale is one
// order line. None of them is mutated after load.
// ============================================================================

// Customer is one row of customer_dim.csv.
type Customer struct {
	CustID             Value[int]
	CustAddress        string
	CustAge            Value[int]
	EffectiveStartDate Value[time.Time]
	EffectiveEndDate   Value[time.Time]
	CurrentInd         string
}

// EffectiveOn reports whether day lies within the customer's effective
// interval, inclusive. Missing or unparsed bounds never match.
func (c Customer) EffectiveOn(day time.Time) bool {
	start, ok := c.EffectiveStartDate.Get()
	if !ok {
		return false
	}
	end, ok := c.EffectiveEndDate.Get()
	if !ok {
		return false
	}
	return !day.Before(start) && !day.After(end)
}

// Product is one row of product_dim.csv.
type Product struct {
	ProductID          Value[int]
	ProductName        string
	ProductPrice       Value[decimal.Decimal]
	EffectiveStartDate Value[time.Time]
	EffectiveEndDate   Value[time.Time]
	CurrentInd         string
}

// Sale is one row of sales_transactions.csv.
type Sale struct {
	OrderID         Value[int]
	ProductID       Value[int]
	CustID          Value[int]
	ProductQuantity Value[int]
	OrderDate       Value[time.Time]
}

// Quantity returns the parsed quantity, or 0 when missing.
func (s Sale) Quantity() int {
	q, _ := s.ProductQuantity.Get()
	return q
}

// ============================================================================
// TABLE DECLARATIONS
// ============================================================================

// CustomerTable declares customer_dim.csv.
var CustomerTable = schema.Table{
	Name: "customers",
	File: "customer_dim.csv",
	Columns: []schema.Column{
		{Key: "cust_id", Type: schema.TypeInt, Required: true},
		{Key: "cust_address", Type: schema.TypeString, Required: true},
		{Key: "cust_age", Type: schema.TypeInt},
		{Key: "effective_start_date", Type: schema.TypeDate},
		{Key: "effective_end_date", Type: schema.TypeDate},
		{Key: "current_ind", Type: schema.TypeString},
	},
}

// ProductTable declares product_dim.csv.
var ProductTable = schema.Table{
	Name: "products",
	File: "product_dim.csv",
	Columns: []schema.Column{
		{Key: "product_id", Type: schema.TypeInt, Required: true},
		{Key: "product_name", Type: schema.TypeString, Required: true},
		{Key: "product_price", Type: schema.TypeDecimal},
		{Key: "effective_start_date", Type: schema.TypeDate},
		{Key: "effective_end_date", Type: schema.TypeDate},
		{Key: "current_ind", Type: schema.TypeString},
	},
}

// SalesTable declares sales_transactions.csv.
var SalesTable = schema.Table{
	Name: "sales",
	File: "sales_transactions.csv",
	Columns: []schema.Column{
		{Key: "order_id", Type: schema.TypeInt},
		{Key: "product_id", Type: schema.TypeInt, Required: true},
		{Key: "cust_id", Type: schema.TypeInt, Required: true},
		{Key: "product_quantity", Type: schema.TypeInt},
		{Key: "order_date", Type: schema.TypeDate},
	},
}

func decodeCustomer(r *rowReader) Customer {
	return Customer{
		CustID:             r.Int("cust_id"),
		CustAddress:        r.String("cust_address"),
		CustAge:            r.Int("cust_age"),
		EffectiveStartDate: r.Date("effective_start_date"),
		EffectiveEndDate:   r.Date("effective_end_date"),
		CurrentInd:         r.String("current_ind"),
	}
}

func decodeProduct(r *rowReader) Product {
	return Product{
		ProductID:          r.Int("product_id"),
		ProductName:        r.String("product_name"),
		ProductPrice:       r.Decimal("product_price"),
		EffectiveStartDate: r.Date("effective_start_date"),
		EffectiveEndDate:   r.Date("effective_end_date"),
		CurrentInd:         r.String("current_ind"),
	}
}

func decodeSale(r *rowReader) Sale {
	return Sale{
		OrderID:         r.Int("order_id"),
		ProductID:       r.Int("product_id"),
		CustID:          r.Int("cust_id"),
		ProductQuantity: r.Int("product_quantity"),
		OrderDate:       r.Date("order_date"),
	}
}
