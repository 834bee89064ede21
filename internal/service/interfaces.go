package service

import (
	"context"

	"github.com/stratako/stratako/internal/domain"
)

// Every method takes the acting user's ID. Items owned by someone else are
// reported as missing.

// OrderedListService manages a per-user, densely ordered list of named
// items: slots, project categories and goal categories.
type OrderedListService[T any] interface {
	// Create appends the item, or stores order verbatim when given.
	Create(ctx context.Context, userID, name string, order *int) (*T, error)
	List(ctx context.Context, userID string) ([]*T, error)
	Rename(ctx context.Context, userID, id, name string) (*T, error)
	Move(ctx context.Context, userID, id string, index int) (*Reordered[T], error)
	Delete(ctx context.Context, userID, id string) error
}

type (
	SlotService            = OrderedListService[domain.Slot]
	ProjectCategoryService = OrderedListService[domain.ProjectCategory]
	GoalCategoryService    = OrderedListService[domain.GoalCategory]
)

type NewOperation struct {
	Name        string
	Description string
	Order       *int
	// Started creates the operation already active. Order is ignored then.
	Started bool
}

type OperationService interface {
	Create(ctx context.Context, userID, slotID string, in NewOperation) (*domain.Operation, error)
	// List returns the slot's operations by position.
	List(ctx context.Context, userID, slotID string) ([]*domain.Operation, error)
	Get(ctx context.Context, userID, id string) (*domain.Operation, error)
	Update(ctx context.Context, userID, id, name, description string) (*domain.Operation, error)
	// Move places a future operation at index of the future partition of
	// destSlotID, or of its own slot when destSlotID is empty.
	Move(ctx context.Context, userID, id string, index int, destSlotID string) (*Reordered[domain.Operation], error)
	Activate(ctx context.Context, userID, id string) (*domain.Operation, error)
	Complete(ctx context.Context, userID, id string) (*domain.Operation, error)
	Delete(ctx context.Context, userID, id string) error
}

type TaskService interface {
	Create(ctx context.Context, userID string, c domain.TaskContainer, name string, order *int) (*domain.Task, error)
	List(ctx context.Context, userID string, c domain.TaskContainer) ([]*domain.Task, error)
	Rename(ctx context.Context, userID, id, name string) (*domain.Task, error)
	Toggle(ctx context.Context, userID, id string) (*domain.Task, error)
	// Move places the task at index within dest, or within its own
	// container when dest is nil.
	Move(ctx context.Context, userID, id string, index int, dest *domain.TaskContainer) (*Reordered[domain.Task], error)
	Delete(ctx context.Context, userID, id string) error
}

type ProjectInput struct {
	CategoryID  *string
	Name        string
	Description string
	Color       string
	Status      domain.ProjectStatus
}

type ProjectService interface {
	Create(ctx context.Context, userID string, in ProjectInput) (*domain.Project, error)
	Get(ctx context.Context, userID, id string) (*domain.Project, error)
	// List returns projects by creation time. Completed and abandoned ones
	// are left out unless includeDone is set.
	List(ctx context.Context, userID string, includeDone bool) ([]*domain.Project, error)
	Update(ctx context.Context, userID, id string, in ProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, userID, id string) error
}

type GoalService interface {
	Create(ctx context.Context, userID, categoryID, name, description string, order *int) (*domain.Goal, error)
	List(ctx context.Context, userID, categoryID string) ([]*domain.Goal, error)
	Update(ctx context.Context, userID, id, name, description string) (*domain.Goal, error)
	Toggle(ctx context.Context, userID, id string) (*domain.Goal, error)
	// Move places the goal at index within destCategoryID, or within its
	// own category when destCategoryID is empty.
	Move(ctx context.Context, userID, id string, index int, destCategoryID string) (*Reordered[domain.Goal], error)
	Delete(ctx context.Context, userID, id string) error
}

type Signup struct {
	Email    string
	Name     string
	Password string
}

type ProfileUpdate struct {
	Email *string
	Name  *string
}

type ProjectSettings struct {
	DefaultProjectGrouping *domain.ProjectGrouping
	ShowDoneProjects       *bool
}

type AccountService interface {
	Signup(ctx context.Context, in Signup) (*domain.User, error)
	// Login checks the credentials and returns a signed access token.
	Login(ctx context.Context, email, password string) (string, error)
	// Authenticate resolves a token to its user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	UpdateSettings(ctx context.Context, userID string, in ProjectSettings) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
}
