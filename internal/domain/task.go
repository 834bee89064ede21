package domain

import "time"

// TaskContainerKind names what a task hangs off.
type TaskContainerKind string

const (
	ContainerOperation TaskContainerKind = "operation"
	ContainerProject   TaskContainerKind = "project"
)

// TaskContainer identifies the single Operation or Project holding a task.
type TaskContainer struct {
	Kind TaskContainerKind
	ID   string
}

// Key is a string unique across both container kinds.
func (c TaskContainer) Key() string {
	return string(c.Kind) + ":" + c.ID
}

// IsZero reports whether no container is set.
func (c TaskContainer) IsZero() bool {
	return c.ID == ""
}

// Task is a checklist entry ordered within its container. Completion never
// affects Order.
type Task struct {
	ID          string
	Name        string
	OperationID *string
	ProjectID   *string
	Order       int
	Completed   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Container returns the task's container. Exactly one of OperationID and
// ProjectID is expected to be set; OperationID wins if both are.
func (t Task) Container() TaskContainer {
	if t.OperationID != nil {
		return TaskContainer{Kind: ContainerOperation, ID: *t.OperationID}
	}
	if t.ProjectID != nil {
		return TaskContainer{Kind: ContainerProject, ID: *t.ProjectID}
	}
	return TaskContainer{}
}

// InContainer returns a copy of t reassigned to c.
func (t Task) InContainer(c TaskContainer) Task {
	id := c.ID
	t.OperationID, t.ProjectID = nil, nil
	switch c.Kind {
	case ContainerOperation:
		t.OperationID = &id
	case ContainerProject:
		t.ProjectID = &id
	}
	return t
}

// Toggle returns a copy of t with its completion flipped.
func (t Task) Toggle(now time.Time) Task {
	if t.Completed != nil {
		t.Completed = nil
	} else {
		t.Completed = &now
	}
	t.UpdatedAt = now
	return t
}
