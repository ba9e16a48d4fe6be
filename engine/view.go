package engine

// ============================================================================
// ROW ADAPTER — Typed struct → Row projection
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewRowAdapter[TopCustomer]().
//	    Field("cust_id", func(c TopCustomer) any { return c.CustID }).
//	    Field("order_count", func(c TopCustomer) any { return c.OrderCount })
//
//	rows := adapter.Rows(results)
//	rows = engine.Process(rows, page)
//
// Declare once at package level, reuse for every result set.
// ============================================================================

// RowAdapter lowers values of type T into Rows with a fixed column order.
type RowAdapter[T any] struct {
	keys   []string
	fields map[string]func(T) any
}

// NewRowAdapter creates a new adapter for type T.
func NewRowAdapter[T any]() *RowAdapter[T] {
	return &RowAdapter[T]{
		fields: make(map[string]func(T) any),
	}
}

// Field registers a column accessor. Re-registering a key replaces the
// accessor but keeps the key's original position.
func (a *RowAdapter[T]) Field(key string, fn func(T) any) *RowAdapter[T] {
	if _, exists := a.fields[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.fields[key] = fn
	return a
}

// Keys returns the registered column names in order.
func (a *RowAdapter[T]) Keys() []string {
	keys := make([]string, len(a.keys))
	copy(keys, a.keys)
	return keys
}

// Row converts one item.
func (a *RowAdapter[T]) Row(item T) Row {
	row := make(Row, len(a.keys))
	for i, k := range a.keys {
		row[i] = Field{Key: k, Value: a.fields[k](item)}
	}
	return row
}

// Rows converts a slice of items.
func (a *RowAdapter[T]) Rows(items []T) []Row {
	rows := make([]Row, len(items))
	for i, item := range items {
		rows[i] = a.Row(item)
	}
	return rows
}

// ============================================================================
// FIRST-MATCH INDEX — join-by-lookup
// ============================================================================

// FirstBy indexes items by key, keeping the first item seen for each key.
// Items whose key func reports false are not indexed.
func FirstBy[T any, K comparable](items []T, key func(T) (K, bool)) map[K]T {
	index := make(map[K]T, len(items))
	for _, item := range items {
		k, ok := key(item)
		if !ok {
			continue
		}
		if _, exists := index[k]; !exists {
			index[k] = item
		}
	}
	return index
}
