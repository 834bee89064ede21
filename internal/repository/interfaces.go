package repository

import (
	"context"
	"time"

	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/ordering"
)

// Every Get*ForUser method reports a row owned by another user exactly like
// a missing row: a domain.ErrNotFound naming the entity.

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	SetPassword(ctx context.Context, id, hash string, now time.Time) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type SlotRepo interface {
	Create(ctx context.Context, s *domain.Slot) error
	GetForUser(ctx context.Context, userID, id string) (*domain.Slot, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Slot, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, s *domain.Slot) error
	SetActiveOperation(ctx context.Context, slotID string, operationID *string, now time.Time) error
	SetOrders(ctx context.Context, assignments []ordering.Assignment, now time.Time) error
	Delete(ctx context.Context, id string) error
}

type OperationRepo interface {
	Create(ctx context.Context, o *domain.Operation) error
	GetForUser(ctx context.Context, userID, id string) (*domain.Operation, error)
	// ListBySlot returns every operation of the slot by position.
	ListBySlot(ctx context.Context, slotID string) ([]*domain.Operation, error)
	CountFuture(ctx context.Context, slotID string) (int, error)
	Update(ctx context.Context, o *domain.Operation) error
	Relocate(ctx context.Context, id, slotID string, order int, now time.Time) error
	// Reindex writes new future orders and slot positions in one statement.
	Reindex(ctx context.Context, orders, positions []ordering.Assignment, now time.Time) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetForUser(ctx context.Context, userID, id string) (*domain.Task, error)
	ListByContainer(ctx context.Context, c domain.TaskContainer) ([]*domain.Task, error)
	CountByContainer(ctx context.Context, c domain.TaskContainer) (int, error)
	Update(ctx context.Context, t *domain.Task) error
	Relocate(ctx context.Context, id string, c domain.TaskContainer, order int, now time.Time) error
	SetOrders(ctx context.Context, assignments []ordering.Assignment, now time.Time) error
	Delete(ctx context.Context, id string) error
}

type ProjectCategoryRepo interface {
	Create(ctx context.Context, c *domain.ProjectCategory) error
	GetForUser(ctx context.Context, userID, id string) (*domain.ProjectCategory, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.ProjectCategory, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, c *domain.ProjectCategory) error
	SetOrders(ctx context.Context, assignments []ordering.Assignment, now time.Time) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetForUser(ctx context.Context, userID, id string) (*domain.Project, error)
	// ListByUser returns the user's projects by creation time.
	ListByUser(ctx context.Context, userID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type GoalCategoryRepo interface {
	Create(ctx context.Context, c *domain.GoalCategory) error
	GetForUser(ctx context.Context, userID, id string) (*domain.GoalCategory, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.GoalCategory, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, c *domain.GoalCategory) error
	SetOrders(ctx context.Context, assignments []ordering.Assignment, now time.Time) error
	Delete(ctx context.Context, id string) error
}

type GoalRepo interface {
	Create(ctx context.Context, g *domain.Goal) error
	GetForUser(ctx context.Context, userID, id string) (*domain.Goal, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*domain.Goal, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	Update(ctx context.Context, g *domain.Goal) error
	Relocate(ctx context.Context, id, categoryID string, order int, now time.Time) error
	SetOrders(ctx context.Context, assignments []ordering.Assignment, now time.Time) error
	Delete(ctx context.Context, id string) error
}
