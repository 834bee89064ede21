package domain

import "time"

// OperationState partitions a slot's operations. Only future operations
// take part in the dense Order sequence.
type OperationState string

const (
	OperationFuture    OperationState = "future"
	OperationStarted   OperationState = "started"
	OperationCompleted OperationState = "completed"
)

// Operation is a unit of work queued in a Slot.
//
// Order is defined only while the operation is in the future partition;
// it is nil once started. Position ranks every operation in the slot:
// completed ones by completion date, then started, then future by Order.
type Operation struct {
	ID          string
	SlotID      string
	Name        string
	Description string

	Order    *int
	Position int

	Started   *time.Time
	Completed *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// State returns the partition the operation currently belongs to.
func (o Operation) State() OperationState {
	switch {
	case o.Completed != nil:
		return OperationCompleted
	case o.Started != nil:
		return OperationStarted
	default:
		return OperationFuture
	}
}

// IsFuture reports whether the operation has not been started.
func (o Operation) IsFuture() bool {
	return o.State() == OperationFuture
}

// OrderValue returns Order or 0 when unset.
func (o Operation) OrderValue() int {
	if o.Order == nil {
		return 0
	}
	return *o.Order
}

// Activate returns a copy of o moved from the future partition to the
// started partition on the given day. Its Order is dropped.
func (o Operation) Activate(now time.Time) (Operation, error) {
	if state := o.State(); state != OperationFuture {
		return o, Invalid("operation is already %s", state)
	}
	day := Day(now)
	o.Started = &day
	o.Order = nil
	o.UpdatedAt = now
	return o, nil
}

// Complete returns a copy of o moved from the started partition to the
// completed partition on the given day.
func (o Operation) Complete(now time.Time) (Operation, error) {
	switch o.State() {
	case OperationFuture:
		return o, Invalid("operation has not been started")
	case OperationCompleted:
		return o, Invalid("operation is already completed")
	}
	day := Day(now)
	o.Completed = &day
	o.UpdatedAt = now
	return o, nil
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
