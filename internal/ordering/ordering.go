// Package ordering plans dense sequential reindexing of ordered lists.
//
// Every function here is pure: it takes the current orderable entries of one
// or two containers (already sorted by order) and returns the order values
// that must be written. Persisting them is the caller's job. Only entries
// whose value actually changes are returned, so a no-op move plans no writes.
package ordering

import (
	"fmt"

	"github.com/stratako/stratako/internal/domain"
)

var (
	// ErrIndexOutOfRange is returned for a move target outside the
	// destination list. It wraps domain.ErrValidation.
	ErrIndexOutOfRange = fmt.Errorf("%w: index out of range", domain.ErrValidation)

	// ErrNotOrderable is returned when the moved item is not in the
	// orderable partition, such as a started operation.
	ErrNotOrderable = fmt.Errorf("%w: item is not in an orderable position", domain.ErrValidation)
)

// Entry is one item of an ordered list.
type Entry struct {
	ID    string
	Order int
}

// Assignment is a new order value for one item.
type Assignment struct {
	ID    string
	Order int
}

// Plan is the outcome of a move.
type Plan struct {
	// Moved is the moved item's new order. For moves within one container
	// it is also present in Source when it changed.
	Moved Assignment

	// Source holds changed orders in the source container.
	Source []Assignment

	// Destination holds changed orders of the destination's existing
	// items. Empty unless Cross is set.
	Destination []Assignment

	Cross bool
}

// Next returns the order for an item appended to a partition that already
// holds count items.
func Next(count int) int {
	return count + 1
}

// Base returns the order the list starts from. Lists that start above 1
// keep that offset when renumbered.
func Base(list []Entry) int {
	if len(list) == 0 || list[0].Order < 1 {
		return 1
	}
	return list[0].Order
}

// Renumber assigns base, base+1, ... to list in its current sequence and
// returns the assignments that differ from the existing values.
func Renumber(list []Entry, base int) []Assignment {
	var out []Assignment
	for i, e := range list {
		if want := base + i; e.Order != want {
			out = append(out, Assignment{ID: e.ID, Order: want})
		}
	}
	return out
}

// MoveWithin moves id to the zero-based index among list's entries.
// Items between the old and new index shift by one; everything else keeps
// its value. The list's base offset is preserved.
func MoveWithin(list []Entry, id string, index int) (Plan, error) {
	from := indexOf(list, id)
	if from < 0 {
		return Plan{}, ErrNotOrderable
	}
	if index < 0 || index >= len(list) {
		return Plan{}, fmt.Errorf("%w: %d not in [0, %d]", ErrIndexOutOfRange, index, len(list)-1)
	}

	base := Base(list)
	final := insert(without(list, from), list[from], index)
	return Plan{
		Moved:  Assignment{ID: id, Order: base + index},
		Source: Renumber(final, base),
	}, nil
}

// MoveAcross takes id out of source and inserts it at index in destination.
// Both lists are renumbered independently from their own base. The moved
// item is reported only in Plan.Moved because it is written separately
// together with its new container.
func MoveAcross(source, destination []Entry, id string, index int) (Plan, error) {
	from := indexOf(source, id)
	if from < 0 {
		return Plan{}, ErrNotOrderable
	}
	if indexOf(destination, id) >= 0 {
		return MoveWithin(source, id, index)
	}
	if index < 0 || index > len(destination) {
		return Plan{}, fmt.Errorf("%w: %d not in [0, %d]", ErrIndexOutOfRange, index, len(destination))
	}

	moved := source[from]
	destBase := Base(destination)
	final := insert(destination, moved, index)

	var destChanges []Assignment
	for _, a := range Renumber(final, destBase) {
		if a.ID != id {
			destChanges = append(destChanges, a)
		}
	}

	return Plan{
		Moved:       Assignment{ID: id, Order: destBase + index},
		Source:      Renumber(without(source, from), Base(source)),
		Destination: destChanges,
		Cross:       true,
	}, nil
}

// Remove closes the gap left by id and returns the renumbering of the
// remaining entries. Removing an unknown id renumbers nothing.
func Remove(list []Entry, id string) []Assignment {
	from := indexOf(list, id)
	if from < 0 {
		return nil
	}
	return Renumber(without(list, from), Base(list))
}

// Rank concatenates groups and numbers the result 1..N. Entry.Order is
// the current rank; only changed ranks are returned.
func Rank(groups ...[]Entry) []Assignment {
	var all []Entry
	for _, g := range groups {
		all = append(all, g...)
	}
	return Renumber(all, 1)
}

// Lookup indexes assignments by item ID.
func Lookup(assignments []Assignment) map[string]int {
	m := make(map[string]int, len(assignments))
	for _, a := range assignments {
		m[a.ID] = a.Order
	}
	return m
}

func indexOf(list []Entry, id string) int {
	for i, e := range list {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func without(list []Entry, i int) []Entry {
	out := make([]Entry, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

func insert(list []Entry, e Entry, i int) []Entry {
	out := make([]Entry, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, e)
	return append(out, list[i:]...)
}
