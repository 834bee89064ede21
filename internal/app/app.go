// Package app wires repositories and services into the set of use cases the
// API and the CLI drive.
package app

import (
	"database/sql"

	"github.com/stratako/stratako/internal/db"
	"github.com/stratako/stratako/internal/identity"
	"github.com/stratako/stratako/internal/repository"
	"github.com/stratako/stratako/internal/service"
)

// App is every use case stratako offers.
type App struct {
	Accounts          service.AccountService
	Slots             service.SlotService
	Operations        service.OperationService
	Tasks             service.TaskService
	ProjectCategories service.ProjectCategoryService
	Projects          service.ProjectService
	GoalCategories    service.GoalCategoryService
	Goals             service.GoalService
}

// Identity bundles the account boundary settings.
type Identity struct {
	Policy identity.PasswordPolicy
	Hasher identity.Hasher
	Issuer identity.Issuer
}

// New builds the services on database. Writes go through a single SQLite
// unit of work; observers see every observed use case.
func New(database *sql.DB, id Identity, observers ...service.UseCaseObserver) *App {
	return NewWithUoW(database, db.NewSQLiteUnitOfWork(database), id, observers...)
}

// NewWithUoW is New with an explicit unit of work, so tests can count or
// break the writes.
func NewWithUoW(database *sql.DB, uow db.UnitOfWork, id Identity, observers ...service.UseCaseObserver) *App {
	users := repository.NewSQLiteUserRepo(database)
	slots := repository.NewSQLiteSlotRepo(database)
	operations := repository.NewSQLiteOperationRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	projectCategories := repository.NewSQLiteProjectCategoryRepo(database)
	projects := repository.NewSQLiteProjectRepo(database)
	goalCategories := repository.NewSQLiteGoalCategoryRepo(database)
	goals := repository.NewSQLiteGoalRepo(database)

	return &App{
		Accounts:          service.NewAccountService(users, uow, id.Policy, id.Hasher, id.Issuer, observers...),
		Slots:             service.NewSlotService(slots, uow, observers...),
		Operations:        service.NewOperationService(operations, slots, uow, observers...),
		Tasks:             service.NewTaskService(tasks, uow, observers...),
		ProjectCategories: service.NewProjectCategoryService(projectCategories, uow, observers...),
		Projects:          service.NewProjectService(projects, uow),
		GoalCategories:    service.NewGoalCategoryService(goalCategories, uow, observers...),
		Goals:             service.NewGoalService(goals, uow, observers...),
	}
}
