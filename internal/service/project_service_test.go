package service

import (
	"context"
	"testing"
	"time"

	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/repository"
	"github.com/stratako/stratako/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProjectService(t *testing.T) (ProjectService, *domain.User, *testutil.CountingUoW) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := &testutil.CountingUoW{DB: database}
	user := seedUser(t, database, "projects@example.com")
	return NewProjectService(repository.NewSQLiteProjectRepo(database), uow), user, uow
}

func TestProjectService_CreateDefaults(t *testing.T) {
	svc, user, _ := setupProjectService(t)

	p, err := svc.Create(context.Background(), user.ID, ProjectInput{Name: "Garden"})
	require.NoError(t, err)
	assert.Equal(t, "#808080", p.Color)
	assert.Equal(t, domain.ProjectNotStarted, p.Status)

	got, err := svc.Get(context.Background(), user.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Garden", got.Name)
}

func TestProjectService_CreateValidates(t *testing.T) {
	svc, user, uow := setupProjectService(t)

	_, err := svc.Create(context.Background(), user.ID, ProjectInput{Name: "x", Color: "blue"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, uow.Execs, "validation runs before the transaction")
}

func TestProjectService_ForeignCategory(t *testing.T) {
	database := testutil.NewTestDB(t)
	owner := seedUser(t, database, "owner@example.com")
	stranger := seedUser(t, database, "stranger@example.com")
	cat := testutil.NewTestProjectCategory(stranger.ID, "Theirs", 1)
	require.NoError(t, repository.NewSQLiteProjectCategoryRepo(database).Create(context.Background(), cat))
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database), testutil.NewTestUoW(database))

	_, err := svc.Create(context.Background(), owner.ID, ProjectInput{Name: "Mine", CategoryID: &cat.ID})
	require.Error(t, err)
	assert.Equal(t, "project category does not exist", err.Error())
}

func TestProjectService_ListByCreationAndDoneFilter(t *testing.T) {
	svc, user, _ := setupProjectService(t)
	ctx := context.Background()

	pinClock(t, testNow)
	_, err := svc.Create(ctx, user.ID, ProjectInput{Name: "older", Status: domain.ProjectCompleted})
	require.NoError(t, err)
	pinClock(t, testNow.Add(time.Hour))
	_, err = svc.Create(ctx, user.ID, ProjectInput{Name: "newer", Status: domain.ProjectActive})
	require.NoError(t, err)

	all, err := svc.List(ctx, user.ID, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "older", all[0].Name)
	assert.Equal(t, "newer", all[1].Name)

	open, err := svc.List(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "newer", open[0].Name)
}

func TestProjectService_UpdateAndDelete(t *testing.T) {
	database := testutil.NewTestDB(t)
	user := seedUser(t, database, "projects@example.com")
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database), testutil.NewTestUoW(database))
	ctx := context.Background()

	p, err := svc.Create(ctx, user.ID, ProjectInput{Name: "House"})
	require.NoError(t, err)
	seedTask(t, database, domain.TaskContainer{Kind: domain.ContainerProject, ID: p.ID}, "paint", 1)

	updated, err := svc.Update(ctx, user.ID, p.ID, ProjectInput{Name: "Home", Color: "#00ff00", Status: domain.ProjectOnHold})
	require.NoError(t, err)
	assert.Equal(t, "Home", updated.Name)
	assert.Equal(t, domain.ProjectOnHold, updated.Status)

	require.NoError(t, svc.Delete(ctx, user.ID, p.ID))
	_, err = svc.Get(ctx, user.ID, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := repository.NewSQLiteTaskRepo(database).CountByContainer(ctx, domain.TaskContainer{Kind: domain.ContainerProject, ID: p.ID})
	require.NoError(t, err)
	assert.Zero(t, n, "tasks cascade with their project")
}
