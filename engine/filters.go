package engine

import (
	"strings"

	"golang.org/x/text/cases"
)

// ============================================================================
// FILTERS — Predicate composition and case-insensitive matching
// ============================================================================
// Single-pass filter: every predicate is checked per item in one loop and
// survivors are copied into a new slice in their original order.
// ============================================================================

// Predicate reports whether an item should be kept.
type Predicate[T any] func(T) bool

// All combines predicates conjunctively. Nil predicates are skipped;
// no predicates keeps everything.
func All[T any](preds ...Predicate[T]) Predicate[T] {
	active := make([]Predicate[T], 0, len(preds))
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	return func(item T) bool {
		for _, p := range active {
			if !p(item) {
				return false
			}
		}
		return true
	}
}

// Filter returns the items that satisfy pred.
func Filter[T any](items []T, pred Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Fold returns the case-folded form of s for caseless comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// FoldMatcher matches haystacks against a fixed needle, folding the needle once.
type FoldMatcher struct {
	needle string
}

// NewFoldMatcher prepares a case-insensitive substring matcher for needle.
func NewFoldMatcher(needle string) FoldMatcher {
	return FoldMatcher{needle: Fold(needle)}
}

// Match reports whether s contains the matcher's needle. Empty s never matches.
func (m FoldMatcher) Match(s string) bool {
	if s == "" {
		return false
	}
	return strings.Contains(Fold(s), m.needle)
}
