package engine

import (
	"sort"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting over typed slices
// ============================================================================
// Groups come back in first-seen key order. Every later stage that sorts
// groups is stable, so ties keep that encounter order.
// ============================================================================

// Group is an aggregated value for one grouping key.
type Group[K comparable] struct {
	Key   K
	Value int
}

// CountBy counts items per key. Items whose key func reports false are ignored.
func CountBy[T any, K comparable](items []T, key func(T) (K, bool)) []Group[K] {
	return SumBy(items, key, func(T) int { return 1 })
}

// SumBy sums measure per key. Items whose key func reports false are ignored.
func SumBy[T any, K comparable](items []T, key func(T) (K, bool), measure func(T) int) []Group[K] {
	index := make(map[K]int)
	groups := make([]Group[K], 0)

	for _, item := range items {
		k, ok := key(item)
		if !ok {
			continue
		}
		i, exists := index[k]
		if !exists {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K]{Key: k})
		}
		groups[i].Value += measure(item)
	}
	return groups
}

// SortGroups stably sorts groups by value. OrderNone preserves grouping order.
func SortGroups[K comparable](groups []Group[K], order Order) {
	switch order {
	case Desc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case Asc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	default:
		// preserve grouping order
	}
}

// TopK returns the first k groups. A negative k returns all of them.
func TopK[K comparable](groups []Group[K], k int) []Group[K] {
	if k >= 0 && len(groups) > k {
		return groups[:k]
	}
	return groups
}

// MaxBy keeps, per outer key, the item with the largest value.
// The first item seen wins ties. Result order is first-seen outer key order.
func MaxBy[T any, K comparable](items []T, key func(T) K, value func(T) int) []T {
	index := make(map[K]int)
	best := make([]T, 0)
	for _, item := range items {
		k := key(item)
		i, exists := index[k]
		if !exists {
			index[k] = len(best)
			best = append(best, item)
			continue
		}
		if value(item) > value(best[i]) {
			best[i] = item
		}
	}
	return best
}

// Total sums every group's value.
func Total[K comparable](groups []Group[K]) int {
	var total int
	for _, g := range groups {
		total += g.Value
	}
	return total
}
