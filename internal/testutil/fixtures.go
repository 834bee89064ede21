package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/stratako/stratako/internal/domain"
)

func stamp() time.Time {
	return time.Now().UTC()
}

func NewTestUser(email string) *domain.User {
	now := stamp()
	return &domain.User{
		ID:                     uuid.New().String(),
		Email:                  email,
		Name:                   "Test User",
		PasswordHash:           "not-a-real-hash",
		DefaultProjectGrouping: domain.GroupingNone,
		ShowDoneProjects:       true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

func NewTestSlot(userID, name string, order int) *domain.Slot {
	now := stamp()
	return &domain.Slot{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Operation options
type OperationOption func(*domain.Operation)

func WithOrder(n int) OperationOption {
	return func(o *domain.Operation) {
		o.Order = &n
	}
}

func WithStarted(day time.Time) OperationOption {
	return func(o *domain.Operation) {
		o.Started = &day
		o.Order = nil
	}
}

func WithCompleted(started, completed time.Time) OperationOption {
	return func(o *domain.Operation) {
		o.Started = &started
		o.Completed = &completed
		o.Order = nil
	}
}

func WithPosition(n int) OperationOption {
	return func(o *domain.Operation) {
		o.Position = n
	}
}

func NewTestOperation(slotID, name string, opts ...OperationOption) *domain.Operation {
	now := stamp()
	o := &domain.Operation{
		ID:        uuid.New().String(),
		SlotID:    slotID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func NewTestTask(c domain.TaskContainer, name string, order int) *domain.Task {
	now := stamp()
	t := domain.Task{
		ID:        uuid.New().String(),
		Name:      name,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}.InContainer(c)
	return &t
}

func NewTestProjectCategory(userID, name string, order int) *domain.ProjectCategory {
	now := stamp()
	return &domain.ProjectCategory{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithCategory(id string) ProjectOption {
	return func(p *domain.Project) {
		p.CategoryID = &id
	}
}

func WithCreatedAt(t time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.CreatedAt = t
		p.UpdatedAt = t
	}
}

func NewTestProject(userID, name string, opts ...ProjectOption) *domain.Project {
	now := stamp()
	p := &domain.Project{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Color:     "#336699",
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestGoalCategory(userID, name string, order int) *domain.GoalCategory {
	now := stamp()
	return &domain.GoalCategory{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestGoal(categoryID, name string, order int) *domain.Goal {
	now := stamp()
	return &domain.Goal{
		ID:         uuid.New().String(),
		CategoryID: categoryID,
		Name:       name,
		Order:      order,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
