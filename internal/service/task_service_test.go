package service

import (
	"context"
	"testing"

	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/repository"
	"github.com/stratako/stratako/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskOrdersByName(tasks []*domain.Task) map[string]int {
	out := make(map[string]int, len(tasks))
	for _, task := range tasks {
		out[task.Name] = task.Order
	}
	return out
}

func taskNames(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Name)
	}
	return out
}

func TestTaskService_MoveScenario(t *testing.T) {
	pinClock(t, testNow)
	database := testutil.NewTestDB(t)
	uow := &testutil.CountingUoW{DB: database}
	user := seedUser(t, database, "tasks@example.com")
	project := seedProject(t, database, user.ID, "House")
	c := domain.TaskContainer{Kind: domain.ContainerProject, ID: project.ID}
	svc := NewTaskService(repository.NewSQLiteTaskRepo(database), uow)
	ctx := context.Background()

	ids := map[string]string{}
	for _, name := range []string{"t1", "t2", "t3", "t4", "t5"} {
		task, err := svc.Create(ctx, user.ID, c, name, nil)
		require.NoError(t, err)
		ids[name] = task.ID
	}

	res, err := svc.Move(ctx, user.ID, ids["t1"], 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, uow.Last())
	assert.Equal(t, map[string]int{"t1": 2, "t2": 1, "t3": 3, "t4": 4, "t5": 5}, taskOrdersByName(res.Source))

	res, err = svc.Move(ctx, user.ID, ids["t3"], 4, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"t1": 2, "t2": 1, "t3": 5, "t4": 3, "t5": 4}, taskOrdersByName(res.Source))
}

func setupTaskService(t *testing.T) (TaskService, *testutil.CountingUoW, *domain.User, domain.TaskContainer, domain.TaskContainer) {
	t.Helper()
	pinClock(t, testNow)
	database := testutil.NewTestDB(t)
	uow := &testutil.CountingUoW{DB: database}
	user := seedUser(t, database, "tasks@example.com")
	slot := seedSlot(t, database, user.ID, "Deep work", 1)
	op := seedOperation(t, database, slot.ID, "Report", testutil.WithOrder(1))
	project := seedProject(t, database, user.ID, "House")

	onOp := domain.TaskContainer{Kind: domain.ContainerOperation, ID: op.ID}
	onProject := domain.TaskContainer{Kind: domain.ContainerProject, ID: project.ID}
	for i, name := range []string{"draft", "review", "send"} {
		seedTask(t, database, onOp, name, i+1)
	}
	for i, name := range []string{"paint", "clean"} {
		seedTask(t, database, onProject, name, i+1)
	}
	return NewTaskService(repository.NewSQLiteTaskRepo(database), uow), uow, user, onOp, onProject
}

func TestTaskService_MoveAcrossContainers(t *testing.T) {
	svc, uow, user, onOp, onProject := setupTaskService(t)
	ctx := context.Background()
	tasks, err := svc.List(ctx, user.ID, onOp)
	require.NoError(t, err)

	res, err := svc.Move(ctx, user.ID, tasks[0].ID, 1, &onProject)
	require.NoError(t, err)
	assert.Equal(t, 3, uow.Last())
	assert.Equal(t, []string{"review", "send"}, taskNames(res.Source))
	assert.Equal(t, map[string]int{"review": 1, "send": 2}, taskOrdersByName(res.Source))
	assert.Equal(t, []string{"paint", "draft", "clean"}, taskNames(res.Destination))
	assert.Equal(t, map[string]int{"paint": 1, "draft": 2, "clean": 3}, taskOrdersByName(res.Destination))

	require.NotNil(t, res.Item.ProjectID)
	assert.Nil(t, res.Item.OperationID)
	assert.Equal(t, onProject, res.Item.Container())
}

func TestTaskService_MoveIntoEmptyContainer(t *testing.T) {
	database := testutil.NewTestDB(t)
	user := seedUser(t, database, "empty@example.com")
	full := seedProject(t, database, user.ID, "Full")
	empty := seedProject(t, database, user.ID, "Empty")
	from := domain.TaskContainer{Kind: domain.ContainerProject, ID: full.ID}
	to := domain.TaskContainer{Kind: domain.ContainerProject, ID: empty.ID}
	first := seedTask(t, database, from, "first", 1)
	seedTask(t, database, from, "second", 2)
	svc := NewTaskService(repository.NewSQLiteTaskRepo(database), testutil.NewTestUoW(database))
	ctx := context.Background()

	_, err := svc.Move(ctx, user.ID, first.ID, 1, &to)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation, "an empty container only accepts index 0")

	res, err := svc.Move(ctx, user.ID, first.ID, 0, &to)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"second": 1}, taskOrdersByName(res.Source))
	assert.Equal(t, map[string]int{"first": 1}, taskOrdersByName(res.Destination))
}

func TestTaskService_MoveToForeignContainerIsNotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := &testutil.CountingUoW{DB: database}
	owner := seedUser(t, database, "owner@example.com")
	stranger := seedUser(t, database, "stranger@example.com")
	mine := seedProject(t, database, owner.ID, "Mine")
	theirs := seedProject(t, database, stranger.ID, "Theirs")
	task := seedTask(t, database, domain.TaskContainer{Kind: domain.ContainerProject, ID: mine.ID}, "t", 1)
	svc := NewTaskService(repository.NewSQLiteTaskRepo(database), uow)

	dest := domain.TaskContainer{Kind: domain.ContainerProject, ID: theirs.ID}
	_, err := svc.Move(context.Background(), owner.ID, task.ID, 0, &dest)
	require.Error(t, err)
	assert.Equal(t, "project does not exist", err.Error())
	assert.Equal(t, 0, uow.Last())

	_, err = svc.Move(context.Background(), stranger.ID, task.ID, 0, nil)
	assert.Equal(t, "task does not exist", err.Error())
}

func TestTaskService_ToggleKeepsOrder(t *testing.T) {
	svc, _, user, onOp, _ := setupTaskService(t)
	ctx := context.Background()
	tasks, err := svc.List(ctx, user.ID, onOp)
	require.NoError(t, err)

	done, err := svc.Toggle(ctx, user.ID, tasks[1].ID)
	require.NoError(t, err)
	require.NotNil(t, done.Completed)
	assert.Equal(t, 2, done.Order)

	undone, err := svc.Toggle(ctx, user.ID, tasks[1].ID)
	require.NoError(t, err)
	assert.Nil(t, undone.Completed)

	after, err := svc.List(ctx, user.ID, onOp)
	require.NoError(t, err)
	assert.Equal(t, []string{"draft", "review", "send"}, taskNames(after))
}

func TestTaskService_CreateAndRename(t *testing.T) {
	svc, _, user, onOp, _ := setupTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, user.ID, onOp, "archive", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, task.Order)

	renamed, err := svc.Rename(ctx, user.ID, task.ID, "file")
	require.NoError(t, err)
	assert.Equal(t, "file", renamed.Name)

	_, err = svc.Create(ctx, user.ID, domain.TaskContainer{Kind: "shelf", ID: "x"}, "bad", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskService_DeleteRedensifies(t *testing.T) {
	svc, uow, user, onOp, _ := setupTaskService(t)
	ctx := context.Background()
	tasks, err := svc.List(ctx, user.ID, onOp)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID, tasks[1].ID))
	assert.Equal(t, 2, uow.Last())

	after, err := svc.List(ctx, user.ID, onOp)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"draft": 1, "send": 2}, taskOrdersByName(after))
}
