package engine

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func testRows() []Row {
	return []Row{
		NewRow("cust_id", 1, "city", "Austin", "age", 30),
		NewRow("cust_id", 2, "city", "Boston", "age", nil),
		NewRow("cust_id", 3, "city", "Chicago", "age", 19),
		NewRow("cust_id", 4, "city", "Denver", "age", 30),
	}
}

func ids(rows []Row) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r.Get("cust_id")
	}
	return out
}

func captureLogs() (*bytes.Buffer, Option) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return &buf, WithLogger(logger)
}

func warnings(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), "level=WARN")
}

// ============================================================================
// PROCESS TESTS
// ============================================================================

func TestProcessEmptyInput(t *testing.T) {
	buf, opt := captureLogs()
	out := Process(nil, Page{Limit: 3, Order: Asc, OrderBy: "missing", Selects: "nope"}, opt)
	assert.NotNil(t, out)
	assert.Empty(t, out)
	assert.Zero(t, warnings(buf), "no stage runs on empty input")
}

func TestProcessSkipBeyondSizeIsEmpty(t *testing.T) {
	rows := testRows()
	for skip := len(rows); skip < len(rows)+3; skip++ {
		assert.Empty(t, Process(rows, Page{Skip: skip, Limit: NoLimit}), "skip=%d", skip)
	}
}

func TestProcessSkipAndLimit(t *testing.T) {
	rows := testRows()

	assert.Equal(t, []any{2, 3}, ids(Process(rows, Page{Skip: 1, Limit: 2})))
	assert.Equal(t, []any{1, 2, 3, 4}, ids(Process(rows, Page{Skip: -3, Limit: NoLimit})))
	assert.Empty(t, Process(rows, Page{Limit: 0}), "limit 0 is an empty page, not unset")
	assert.Len(t, Process(rows, Page{Limit: 10}), 4)
}

func TestProcessSortNilPlacement(t *testing.T) {
	rows := testRows()

	asc := Process(rows, Page{Limit: NoLimit, Order: Asc, OrderBy: "age"})
	assert.Equal(t, []any{3, 1, 4, 2}, ids(asc), "nil last for asc, ties stable")

	desc := Process(rows, Page{Limit: NoLimit, Order: Desc, OrderBy: "age"})
	assert.Equal(t, []any{2, 1, 4, 3}, ids(desc), "nil first for desc, ties stable")
}

func TestProcessSortIsIdempotent(t *testing.T) {
	rows := testRows()
	for _, key := range []string{"cust_id", "city", "age"} {
		for _, order := range []Order{Asc, Desc} {
			page := Page{Limit: NoLimit, Order: order, OrderBy: key}
			once := Process(rows, page)
			twice := Process(once, page)
			assert.Equal(t, once, twice, "%s %s", key, order)
		}
	}
}

func TestProcessDoesNotMutateInput(t *testing.T) {
	rows := testRows()
	before := ids(rows)

	Process(rows, Page{Limit: 2, Order: Desc, OrderBy: "cust_id", Selects: "city"})

	assert.Equal(t, before, ids(rows))
	assert.Len(t, rows[0], 3)
}

func TestProcessUnknownSortColumn(t *testing.T) {
	buf, opt := captureLogs()
	out := Process(testRows(), Page{Limit: NoLimit, Order: Asc, OrderBy: "zip"}, opt)

	assert.Equal(t, []any{1, 2, 3, 4}, ids(out))
	assert.Equal(t, 1, warnings(buf))
	assert.Contains(t, buf.String(), "zip")
}

func TestProcessSortNeedsOrder(t *testing.T) {
	out := Process(testRows(), Page{Limit: NoLimit, OrderBy: "city"})
	assert.Equal(t, []any{1, 2, 3, 4}, ids(out))
}

func TestProcessProjection(t *testing.T) {
	buf, opt := captureLogs()
	out := Process(testRows(), Page{Limit: 1, Selects: " age , zip,cust_id,age "}, opt)

	require.Len(t, out, 1)
	assert.Equal(t, NewRow("age", 30, "cust_id", 1), out[0])
	assert.Equal(t, 1, warnings(buf), "one warning for the unknown column")
}

func TestProcessProjectionAllUnknownReturnsInput(t *testing.T) {
	buf, opt := captureLogs()
	rows := testRows()
	out := Process(rows, Page{Limit: NoLimit, Selects: "zip,phone"}, opt)

	assert.Equal(t, rows, out)
	assert.Equal(t, 3, warnings(buf))
}

func TestProcessProjectionBlankSelects(t *testing.T) {
	rows := testRows()
	out := Process(rows, Page{Limit: NoLimit, Selects: " , ,"})
	assert.Equal(t, rows, out)
}

func TestSortRowsMixedTypes(t *testing.T) {
	rows := []Row{
		NewRow("v", "b"),
		NewRow("v", 2),
		NewRow("v", decimal.RequireFromString("1.5")),
		NewRow("v", nil),
		NewRow("v", 2.5),
		NewRow("v", "a"),
		NewRow("v", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	require.NotPanics(t, func() { SortRows(rows, "v", Asc) })

	var got []any
	for _, r := range rows {
		got = append(got, r.Get("v"))
	}
	assert.Equal(t, []any{
		decimal.RequireFromString("1.5"), 2, 2.5,
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		"a", "b", nil,
	}, got)
}

func TestSortRowsMissingKeyActsLikeNil(t *testing.T) {
	rows := []Row{
		NewRow("k", 1, "v", 5),
		NewRow("k", 2),
		NewRow("k", 3, "v", 1),
	}
	SortRows(rows, "v", Desc)
	assert.Equal(t, []any{2, 1, 3}, []any{rows[0].Get("k"), rows[1].Get("k"), rows[2].Get("k")})
}

func TestSplitColumns(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitColumns(" a,,b , a"))
	assert.Empty(t, SplitColumns(""))
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder(" DESC ")
	require.NoError(t, err)
	assert.Equal(t, Desc, o)

	o, err = ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderNone, o)

	_, err = ParseOrder("up")
	assert.Error(t, err)
}
