package query

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/dimreport/dataset"
	"github.com/spektr-org/dimreport/engine"
)

func TestTotalByLocation(t *testing.T) {
	q := NewCustomers(fixture(), nil)

	assert.Equal(t, 2, q.TotalByLocation("los angeles"))
	assert.Equal(t, 2, q.TotalByLocation("LOS ANGELES, ca"))
	assert.Equal(t, 1, q.TotalByLocation("austin"))
	assert.Equal(t, 0, q.TotalByLocation("Boston"))
}

func TestTotalByLocationMatchesMultiLocationSearch(t *testing.T) {
	q := NewCustomers(fixture(), nil)

	for _, loc := range []string{"la", "Los Angeles", "NY", "tx"} {
		rows := q.FromMultipleLocations([]string{loc}, engine.AllRows())
		assert.Equal(t, q.TotalByLocation(loc), len(rows), loc)
	}
}

func TestFromMultipleLocationsUnionAndDedup(t *testing.T) {
	store := fixture()
	// a second row for customer 1 (new address period) must not duplicate it
	store.customers = append(store.customers, customer(1, "1 Sunset Blvd, Los Angeles, CA", 31))
	q := NewCustomers(store, nil)

	rows := q.FromMultipleLocations([]string{"austin", "los angeles", "main st"}, engine.AllRows())
	require.Len(t, rows, 3)

	// first location wins ordering
	assert.Equal(t, 3, rows[0].Get("cust_id"))
	assert.Equal(t, 1, rows[1].Get("cust_id"))
	assert.Equal(t, 4, rows[2].Get("cust_id"))
	assert.Equal(t, "123 Main St, Los Angeles, CA", rows[1].Get("cust_address"))
}

func TestFromMultipleLocationsPaginates(t *testing.T) {
	q := NewCustomers(fixture(), nil)

	rows := q.FromMultipleLocations([]string{"los angeles", "ny"}, engine.Page{
		Limit:   2,
		Order:   engine.Asc,
		OrderBy: "cust_age",
		Selects: "cust_id, cust_age",
	})
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"cust_id", "cust_age"}, rows[0].Keys())
	assert.Equal(t, 4, rows[0].Get("cust_id"))
	assert.Equal(t, 1, rows[1].Get("cust_id"))
}

func TestListConjunctiveFilters(t *testing.T) {
	q := NewCustomers(fixture(), nil)
	age := 30

	rows := q.List(ListFilter{Age: &age}, engine.AllRows())
	require.Len(t, rows, 2)

	rows = q.List(ListFilter{Age: &age, Address: "MAIN"}, engine.AllRows())
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Get("cust_id"))

	rows = q.List(ListFilter{}, engine.AllRows())
	assert.Len(t, rows, 4)
	assert.Equal(t, CustomerRows.Keys(), rows[0].Keys())
}

func TestListAgeSkipsUnparsedAges(t *testing.T) {
	store := fixture()
	store.customers[0].CustAge = dataset.Value[int]{Raw: "thirty"}
	q := NewCustomers(store, nil)
	age := 30

	rows := q.List(ListFilter{Age: &age}, engine.AllRows())
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Get("cust_id"))
}

func TestListDateWithinEffectiveInterval(t *testing.T) {
	store := &memStore{customers: []dataset.Customer{
		customer(1, "123 Main St, LA", 30),
		{CustID: dataset.Of(2), CustAddress: "no interval"},
		{
			CustID:             dataset.Of(3),
			CustAddress:        "old",
			EffectiveStartDate: date("2020-01-01"),
			EffectiveEndDate:   date("2020-12-31"),
		},
	}}
	q := NewCustomers(store, nil)

	rows := q.List(ListFilter{Date: "2023-06-15"}, engine.AllRows())
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Get("cust_id"))

	rows = q.List(ListFilter{Date: "2023-12-31"}, engine.AllRows())
	assert.Len(t, rows, 1, "end date is inclusive")
}

func TestListMalformedDateExcludesAll(t *testing.T) {
	var logs bytes.Buffer
	q := NewCustomers(fixture(), testLogger(&logs))

	rows := q.List(ListFilter{Date: "2023-13-40"}, engine.AllRows())
	assert.Empty(t, rows)
	assert.Equal(t, 1, strings.Count(logs.String(), "level=WARN"), "one diagnostic per call")
	assert.Contains(t, logs.String(), "2023-13-40")
}

func TestTopByOrdersEndToEnd(t *testing.T) {
	store := &memStore{
		customers: []dataset.Customer{customer(1, "123 Main St, LA", 30)},
		sales: []dataset.Sale{
			{CustID: dataset.Of(1), OrderID: dataset.Of(1)},
			{CustID: dataset.Of(1), OrderID: dataset.Of(2)},
		},
	}
	q := NewCustomers(store, nil)

	got := q.TopByOrders(DefaultTopCustomers, engine.Desc)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].CustID)
	assert.Equal(t, "123 Main St, LA", got[0].CustAddress)
	assert.Equal(t, 30, got[0].CustAge.Val)
	assert.Equal(t, 2, got[0].OrderCount)

	row := TopCustomerRows.Row(got[0])
	assert.Equal(t, engine.NewRow("cust_id", 1, "cust_address", "123 Main St, LA", "cust_age", 30, "order_count", 2), row)
}

func TestTopByOrdersOrderingAndDrops(t *testing.T) {
	store := fixture()
	// customer 99 has the most orders but no customer record
	for i := 0; i < 5; i++ {
		store.sales = append(store.sales, sale(200+i, 9, 99, 1, "2023-02-01"))
	}
	q := NewCustomers(store, nil)

	got := q.TopByOrders(10, engine.Desc)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, ids(got))
	assert.Equal(t, []int{3, 2, 1}, counts(got))

	got = q.TopByOrders(10, engine.Asc)
	assert.Equal(t, []int{3, 2, 1}, ids(got))

	// the limit applies before unresolved ids are dropped
	got = q.TopByOrders(1, engine.Desc)
	assert.Empty(t, got)
}

func ids(cs []TopCustomer) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.CustID
	}
	return out
}

func counts(cs []TopCustomer) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.OrderCount
	}
	return out
}
