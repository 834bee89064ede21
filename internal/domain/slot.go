package domain

import "time"

// Slot is a per-user lane of work. Slots are densely ordered per user and
// hold at most one active Operation.
type Slot struct {
	ID     string
	UserID string
	Name   string
	Order  int

	// OperationID points at the slot's active (started, not completed)
	// operation, if any.
	OperationID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasActiveOperation reports whether the slot currently points at an
// active operation.
func (s *Slot) HasActiveOperation() bool {
	return s.OperationID != nil && *s.OperationID != ""
}
