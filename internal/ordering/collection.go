package ordering

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/stratako/stratako/internal/domain"
)

// Collection describes how one entity type takes part in ordering: which
// container an item belongs to, which items are in the orderable partition,
// and where its order value lives. One Collection is declared per entity
// type; the planning functions stay shared.
type Collection[T any] struct {
	ID        func(T) string
	Container func(T) string
	Order     func(T) int

	// Orderable selects the partition subject to dense numbering. Nil
	// means every item is orderable.
	Orderable func(T) bool
}

func (c Collection[T]) orderable(item T) bool {
	return c.Orderable == nil || c.Orderable(item)
}

// Entries returns the orderable items as entries sorted by order. Items
// sharing an order keep their input sequence.
func (c Collection[T]) Entries(items []T) []Entry {
	out := make([]Entry, 0, len(items))
	for _, item := range items {
		if c.orderable(item) {
			out = append(out, Entry{ID: c.ID(item), Order: c.Order(item)})
		}
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return out
}

// Check verifies that within every container the orderable items are
// numbered exactly 1..N. It returns an ErrInvariant error naming the first
// offending container.
func (c Collection[T]) Check(items []T) error {
	byContainer := make(map[string][]T)
	var keys []string
	for _, item := range items {
		key := c.Container(item)
		if _, ok := byContainer[key]; !ok {
			keys = append(keys, key)
		}
		byContainer[key] = append(byContainer[key], item)
	}
	for _, key := range keys {
		for i, e := range c.Entries(byContainer[key]) {
			if e.Order != i+1 {
				return fmt.Errorf("%w: container %s has order %d at position %d", domain.ErrInvariant, key, e.Order, i+1)
			}
		}
	}
	return nil
}

// Find returns the item with the given ID.
func (c Collection[T]) Find(items []T, id string) (T, bool) {
	for _, item := range items {
		if c.ID(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
