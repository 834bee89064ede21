package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stratako/stratako/internal/db"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/ordering"
	"github.com/stratako/stratako/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationRepo_FuturePartition(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteOperationRepo(database)
	ctx := context.Background()
	u := seedUser(t, database, "u@example.com")
	s := seedSlot(t, database, u.ID, "S", 1)
	day := time.Date(2000, 1, 14, 0, 0, 0, 0, time.UTC)

	started := testutil.NewTestOperation(s.ID, "started", testutil.WithStarted(day), testutil.WithPosition(1))
	f2 := testutil.NewTestOperation(s.ID, "f2", testutil.WithOrder(2), testutil.WithPosition(3))
	f1 := testutil.NewTestOperation(s.ID, "f1", testutil.WithOrder(1), testutil.WithPosition(2))
	for _, o := range []*domain.Operation{started, f2, f1} {
		require.NoError(t, repo.Create(ctx, o))
	}

	n, err := repo.CountFuture(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := repo.ListBySlot(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "started", all[0].Name)
	assert.Nil(t, all[0].Order)
	require.NotNil(t, all[0].Started)
	assert.Equal(t, day, *all[0].Started)
}

func TestOperationRepo_GetForUserJoinsSlotOwner(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteOperationRepo(database)
	ctx := context.Background()
	owner := seedUser(t, database, "owner@example.com")
	other := seedUser(t, database, "other@example.com")
	s := seedSlot(t, database, owner.ID, "S", 1)
	op := testutil.NewTestOperation(s.ID, "op", testutil.WithOrder(1))
	require.NoError(t, repo.Create(ctx, op))

	got, err := repo.GetForUser(ctx, owner.ID, op.ID)
	require.NoError(t, err)
	assert.Equal(t, op.ID, got.ID)

	_, err = repo.GetForUser(ctx, other.ID, op.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "operation does not exist", err.Error())
}

func TestOperationRepo_UpdateAndRelocate(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteOperationRepo(database)
	ctx := context.Background()
	u := seedUser(t, database, "u@example.com")
	s1 := seedSlot(t, database, u.ID, "S1", 1)
	s2 := seedSlot(t, database, u.ID, "S2", 2)
	op := testutil.NewTestOperation(s1.ID, "op", testutil.WithOrder(1))
	require.NoError(t, repo.Create(ctx, op))

	activated, err := op.Activate(time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, &activated))

	got, err := repo.GetForUser(ctx, u.ID, op.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Order)
	assert.Equal(t, domain.OperationStarted, got.State())

	require.NoError(t, repo.Relocate(ctx, op.ID, s2.ID, 4, time.Now()))
	got, err = repo.GetForUser(ctx, u.ID, op.ID)
	require.NoError(t, err)
	assert.Equal(t, s2.ID, got.SlotID)
	assert.Equal(t, 4, got.OrderValue())
}

func TestOperationRepo_Reindex(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteOperationRepo(database)
	ctx := context.Background()
	u := seedUser(t, database, "u@example.com")
	s := seedSlot(t, database, u.ID, "S", 1)
	a := testutil.NewTestOperation(s.ID, "a", testutil.WithOrder(1), testutil.WithPosition(1))
	b := testutil.NewTestOperation(s.ID, "b", testutil.WithOrder(2), testutil.WithPosition(2))
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	uow := &testutil.CountingUoW{DB: database}
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteOperationRepo(tx).Reindex(ctx,
			[]ordering.Assignment{{ID: b.ID, Order: 1}},
			[]ordering.Assignment{{ID: a.ID, Order: 2}, {ID: b.ID, Order: 1}},
			time.Now())
	})
	require.NoError(t, err)
	assert.Equal(t, 1, uow.Last())

	all, err := repo.ListBySlot(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", all[0].Name)
	assert.Equal(t, 1, all[0].OrderValue())
	assert.Equal(t, 1, all[1].OrderValue(), "rows missing from the order plan keep their order")
}

func TestOperationRepo_CascadeFromSlot(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	u := seedUser(t, database, "u@example.com")
	s := seedSlot(t, database, u.ID, "S", 1)
	op := testutil.NewTestOperation(s.ID, "op", testutil.WithOrder(1))
	require.NoError(t, NewSQLiteOperationRepo(database).Create(ctx, op))
	task := testutil.NewTestTask(domain.TaskContainer{Kind: domain.ContainerOperation, ID: op.ID}, "t", 1)
	require.NoError(t, NewSQLiteTaskRepo(database).Create(ctx, task))

	require.NoError(t, NewSQLiteSlotRepo(database).Delete(ctx, s.ID))

	_, err := NewSQLiteOperationRepo(database).GetForUser(ctx, u.ID, op.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&n))
	assert.Zero(t, n, "tasks are removed with their operation")
}
