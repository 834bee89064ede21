package service

import (
	"cmp"
	"slices"
	"time"

	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/ordering"
)

// nowUTC is the service clock. Tests replace it to pin dates.
var nowUTC = func() time.Time { return time.Now().UTC() }

// Reordered is the outcome of a move: the moved item and the affected
// lists as they read after the write. Destination is nil for moves within
// one container.
type Reordered[T any] struct {
	Item        *T
	Source      []*T
	Destination []*T
}

var (
	slotOrder = ordering.Collection[*domain.Slot]{
		ID:        func(s *domain.Slot) string { return s.ID },
		Container: func(s *domain.Slot) string { return s.UserID },
		Order:     func(s *domain.Slot) int { return s.Order },
	}
	projectCategoryOrder = ordering.Collection[*domain.ProjectCategory]{
		ID:        func(c *domain.ProjectCategory) string { return c.ID },
		Container: func(c *domain.ProjectCategory) string { return c.UserID },
		Order:     func(c *domain.ProjectCategory) int { return c.Order },
	}
	goalCategoryOrder = ordering.Collection[*domain.GoalCategory]{
		ID:        func(c *domain.GoalCategory) string { return c.ID },
		Container: func(c *domain.GoalCategory) string { return c.UserID },
		Order:     func(c *domain.GoalCategory) int { return c.Order },
	}
	operationOrder = ordering.Collection[*domain.Operation]{
		ID:        func(o *domain.Operation) string { return o.ID },
		Container: func(o *domain.Operation) string { return o.SlotID },
		Order:     func(o *domain.Operation) int { return o.OrderValue() },
		Orderable: func(o *domain.Operation) bool { return o.IsFuture() },
	}
	taskOrder = ordering.Collection[*domain.Task]{
		ID:        func(t *domain.Task) string { return t.ID },
		Container: func(t *domain.Task) string { return t.Container().Key() },
		Order:     func(t *domain.Task) int { return t.Order },
	}
	goalOrder = ordering.Collection[*domain.Goal]{
		ID:        func(g *domain.Goal) string { return g.ID },
		Container: func(g *domain.Goal) string { return g.CategoryID },
		Order:     func(g *domain.Goal) int { return g.Order },
	}
)

// withOrders returns copies of ops with the assignments applied to the
// future partition. ops itself is left untouched.
func withOrders(ops []*domain.Operation, assignments []ordering.Assignment) []*domain.Operation {
	next := ordering.Lookup(assignments)
	out := make([]*domain.Operation, 0, len(ops))
	for _, op := range ops {
		cp := *op
		if n, ok := next[op.ID]; ok {
			cp.Order = &n
		}
		out = append(out, &cp)
	}
	return out
}

// slotPositions ranks a slot's operations: completed ones by completion
// date, then started ones by start date, then future ones by order. ops
// must already reflect the state being written. Only changed positions are
// returned.
func slotPositions(ops []*domain.Operation) []ordering.Assignment {
	var completed, started, future []*domain.Operation
	for _, op := range ops {
		switch op.State() {
		case domain.OperationCompleted:
			completed = append(completed, op)
		case domain.OperationStarted:
			started = append(started, op)
		default:
			future = append(future, op)
		}
	}

	slices.SortStableFunc(completed, func(a, b *domain.Operation) int {
		return a.Completed.Compare(*b.Completed)
	})
	slices.SortStableFunc(started, func(a, b *domain.Operation) int {
		return a.Started.Compare(*b.Started)
	})
	slices.SortStableFunc(future, func(a, b *domain.Operation) int {
		return cmp.Compare(a.OrderValue(), b.OrderValue())
	})

	return ordering.Rank(positionEntries(completed), positionEntries(started), positionEntries(future))
}

func positionEntries(ops []*domain.Operation) []ordering.Entry {
	out := make([]ordering.Entry, 0, len(ops))
	for _, op := range ops {
		out = append(out, ordering.Entry{ID: op.ID, Order: op.Position})
	}
	return out
}

// withoutOperation drops id from ops.
func withoutOperation(ops []*domain.Operation, id string) []*domain.Operation {
	out := make([]*domain.Operation, 0, len(ops))
	for _, op := range ops {
		if op.ID != id {
			out = append(out, op)
		}
	}
	return out
}

// replaceOperation swaps the element with op.ID for op.
func replaceOperation(ops []*domain.Operation, op *domain.Operation) []*domain.Operation {
	out := make([]*domain.Operation, 0, len(ops))
	for _, o := range ops {
		if o.ID == op.ID {
			o = op
		}
		out = append(out, o)
	}
	return out
}

func resolveOrder(explicit *int, count int) int {
	if explicit != nil {
		return *explicit
	}
	return ordering.Next(count)
}
