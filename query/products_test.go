package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/dimreport/dataset"
	"github.com/spektr-org/dimreport/engine"
)

func TestWorstPerforming(t *testing.T) {
	q := NewProducts(fixture(), nil)

	got := q.WorstPerforming(2)
	require.Len(t, got, 2)
	assert.Equal(t, ProductTotal{ProductID: 8, ProductName: "Gizmo", TotalQuantitySold: 1}, got[0])
	assert.Equal(t, ProductTotal{ProductID: 9, ProductName: "Widget", TotalQuantitySold: 3}, got[1])

	assert.Len(t, q.WorstPerforming(DefaultProductLimit), 4)
	assert.Empty(t, q.WorstPerforming(0))
}

func TestBestPerformingUsesPlaceholderName(t *testing.T) {
	q := NewProducts(fixture(), nil)

	got := q.BestPerforming(2)
	require.Len(t, got, 2)
	assert.Equal(t, 7, got[0].ProductID)
	assert.Equal(t, 8, got[0].TotalQuantitySold)
	assert.Equal(t, "Unknown Product (42)", got[1].ProductName)
}

func TestWorstAndComplementSumToTotal(t *testing.T) {
	store := fixture()
	q := NewProducts(store, nil)

	direct := 0
	for _, s := range store.sales {
		direct += s.Quantity()
	}

	all := q.Totals()
	for k := 0; k <= len(all); k++ {
		sum := 0
		for _, p := range q.WorstPerforming(k) {
			sum += p.TotalQuantitySold
		}
		for _, p := range q.BestPerforming(len(all) - k) {
			sum += p.TotalQuantitySold
		}
		assert.Equal(t, direct, sum, "k=%d", k)
	}
}

func TestTotalsTreatMissingQuantityAsZero(t *testing.T) {
	store := &memStore{sales: []dataset.Sale{
		{ProductID: dataset.Of(1), ProductQuantity: dataset.Of(4)},
		{ProductID: dataset.Of(1)},
		{ProductID: dataset.Of(1), ProductQuantity: dataset.Value[int]{Raw: "x"}},
		{ProductQuantity: dataset.Of(10)}, // no product id
	}}
	got := NewProducts(store, nil).Totals()
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].TotalQuantitySold)
	assert.Equal(t, "Unknown Product (1)", got[0].ProductName)
}

func TestProductJoinTakesFirstMatch(t *testing.T) {
	store := fixture()
	store.products = append([]dataset.Product{product(9, "Widget v1", "9.99")}, store.products...)
	got := NewProducts(store, nil).Totals()

	var names []string
	for _, p := range got {
		if p.ProductID == 9 {
			names = append(names, p.ProductName)
		}
	}
	assert.Equal(t, []string{"Widget v1"}, names)
}

func TestQuarterlySalesTagsYearAndQuarter(t *testing.T) {
	store := &memStore{
		products: []dataset.Product{product(9, "Widget", "19.99")},
		sales: []dataset.Sale{
			sale(1, 9, 1, 2, "2023-01-15"),
			sale(2, 9, 1, 1, "2023-04-10"),
		},
	}
	got := NewProducts(store, nil).QuarterlySales(nil, engine.Desc)
	require.Len(t, got, 2)
	assert.Equal(t, QuarterlySale{ProductID: 9, ProductName: "Widget", Year: 2023, Quarter: 1, TotalQuantitySold: 2}, got[0])
	assert.Equal(t, QuarterlySale{ProductID: 9, ProductName: "Widget", Year: 2023, Quarter: 2, TotalQuantitySold: 1}, got[1])
}

func TestQuarterlySalesOrderAndFilter(t *testing.T) {
	q := NewProducts(fixture(), nil)

	got := q.QuarterlySales(nil, engine.Desc)
	require.Len(t, got, 6)
	totals := make([]int, len(got))
	for i, s := range got {
		totals[i] = s.TotalQuantitySold
	}
	assert.Equal(t, []int{5, 4, 3, 2, 1, 1}, totals)
	// equal totals keep first-seen order
	assert.Equal(t, 9, got[4].ProductID)
	assert.Equal(t, 8, got[5].ProductID)

	got = q.QuarterlySales([]int{2}, engine.Asc)
	require.Len(t, got, 2)
	assert.Equal(t, 9, got[0].ProductID)
	assert.Equal(t, 7, got[1].ProductID)
	for _, s := range got {
		assert.Equal(t, 2, s.Quarter)
	}
}

func TestQuarterlySalesSkipsUndatedSales(t *testing.T) {
	store := &memStore{sales: []dataset.Sale{
		{ProductID: dataset.Of(1), ProductQuantity: dataset.Of(3)},
		{ProductID: dataset.Of(1), ProductQuantity: dataset.Of(3), OrderDate: dataset.Value[time.Time]{Raw: "2023-13-40"}},
	}}
	assert.Empty(t, NewProducts(store, nil).QuarterlySales(nil, engine.Desc))
}

func TestQuarterOf(t *testing.T) {
	want := []int{1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4}
	for m := 1; m <= 12; m++ {
		assert.Equal(t, want[m-1], QuarterOf(m), "month %d", m)
	}
}
