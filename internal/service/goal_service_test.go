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

func goalOrdersByName(goals []*domain.Goal) map[string]int {
	out := make(map[string]int, len(goals))
	for _, g := range goals {
		out[g.Name] = g.Order
	}
	return out
}

func TestGoalService_CrossUserMoveIsNotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := &testutil.CountingUoW{DB: database}
	user1 := seedUser(t, database, "user1@example.com")
	user2 := seedUser(t, database, "user2@example.com")
	a := seedGoalCategory(t, database, user1.ID, "A", 1)
	b := seedGoalCategory(t, database, user2.ID, "B", 1)
	goal := seedGoal(t, database, a.ID, "Run", 1)
	seedGoal(t, database, a.ID, "Read", 2)
	svc := NewGoalService(repository.NewSQLiteGoalRepo(database), uow)

	_, err := svc.Move(context.Background(), user1.ID, goal.ID, 0, b.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "goal category does not exist", err.Error())
	assert.Equal(t, 0, uow.Last())

	goals, err := svc.List(context.Background(), user1.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Run": 1, "Read": 2}, goalOrdersByName(goals))

	_, err = svc.List(context.Background(), user1.ID, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGoalService_MoveAcrossCategories(t *testing.T) {
	pinClock(t, testNow)
	database := testutil.NewTestDB(t)
	uow := &testutil.CountingUoW{DB: database}
	user := seedUser(t, database, "goals@example.com")
	health := seedGoalCategory(t, database, user.ID, "Health", 1)
	career := seedGoalCategory(t, database, user.ID, "Career", 2)
	svc := NewGoalService(repository.NewSQLiteGoalRepo(database), uow)
	ctx := context.Background()

	run, err := svc.Create(ctx, user.ID, health.ID, "Run", "", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, user.ID, health.ID, "Sleep", "", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, user.ID, career.ID, "Ship", "", nil)
	require.NoError(t, err)

	res, err := svc.Move(ctx, user.ID, run.ID, 1, career.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, uow.Last(), 3)
	assert.Equal(t, map[string]int{"Sleep": 1}, goalOrdersByName(res.Source))
	assert.Equal(t, map[string]int{"Ship": 1, "Run": 2}, goalOrdersByName(res.Destination))
	assert.Equal(t, career.ID, res.Item.CategoryID)
}

func TestGoalService_MoveWithinCategory(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := &testutil.CountingUoW{DB: database}
	user := seedUser(t, database, "goals@example.com")
	cat := seedGoalCategory(t, database, user.ID, "Health", 1)
	first := seedGoal(t, database, cat.ID, "a", 1)
	seedGoal(t, database, cat.ID, "b", 2)
	seedGoal(t, database, cat.ID, "c", 3)
	svc := NewGoalService(repository.NewSQLiteGoalRepo(database), uow)

	res, err := svc.Move(context.Background(), user.ID, first.ID, 2, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, uow.Last(), "same category as destination is a plain reorder")
	assert.Equal(t, map[string]int{"b": 1, "c": 2, "a": 3}, goalOrdersByName(res.Source))
	assert.Nil(t, res.Destination)
}

func TestGoalService_UpdateToggleDelete(t *testing.T) {
	pinClock(t, testNow)
	database := testutil.NewTestDB(t)
	user := seedUser(t, database, "goals@example.com")
	cat := seedGoalCategory(t, database, user.ID, "Health", 1)
	svc := NewGoalService(repository.NewSQLiteGoalRepo(database), testutil.NewTestUoW(database))
	ctx := context.Background()

	a, err := svc.Create(ctx, user.ID, cat.ID, "a", "", nil)
	require.NoError(t, err)
	b, err := svc.Create(ctx, user.ID, cat.ID, "b", "", nil)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user.ID, b.ID, "b2", "details")
	require.NoError(t, err)
	assert.Equal(t, "details", updated.Description)

	toggled, err := svc.Toggle(ctx, user.ID, b.ID)
	require.NoError(t, err)
	require.NotNil(t, toggled.Completed)
	assert.Equal(t, testNow, *toggled.Completed)
	assert.Equal(t, 2, toggled.Order)

	require.NoError(t, svc.Delete(ctx, user.ID, a.ID))
	goals, err := svc.List(ctx, user.ID, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"b2": 1}, goalOrdersByName(goals))

	_, err = svc.Create(ctx, user.ID, "nope", "x", "", nil)
	assert.Equal(t, "goal category does not exist", err.Error())
}
