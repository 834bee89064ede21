package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_EmailIsCaseInsensitive(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(database)
	ctx := context.Background()

	u := testutil.NewTestUser("Ada@Example.com")
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByEmail(ctx, "ADA@example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "ada@example.com", got.Email)

	taken, err := repo.EmailTaken(ctx, "ada@example.com", "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.EmailTaken(ctx, "ada@example.com", u.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a user's own address does not count")
}

func TestUserRepo_UpdateSettingsPasswordAndLogin(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(database)
	ctx := context.Background()
	u := testutil.NewTestUser("u@example.com")
	require.NoError(t, repo.Create(ctx, u))

	u.DefaultProjectGrouping = domain.GroupingStatus
	u.ShowDoneProjects = false
	u.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, u))
	require.NoError(t, repo.SetPassword(ctx, u.ID, "new-hash", time.Now()))
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLogin(ctx, u.ID, at))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, domain.GroupingStatus, got.DefaultProjectGrouping)
	assert.False(t, got.ShowDoneProjects)
	assert.Equal(t, "new-hash", got.PasswordHash)
	require.NotNil(t, got.LastLogin)
	assert.True(t, at.Equal(*got.LastLogin))
}

func TestUserRepo_DeleteCascadesEverything(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	u := seedUser(t, database, "u@example.com")
	seedSlot(t, database, u.ID, "S", 1)
	require.NoError(t, NewSQLiteGoalCategoryRepo(database).Create(ctx, testutil.NewTestGoalCategory(u.ID, "G", 1)))

	require.NoError(t, NewSQLiteUserRepo(database).Delete(ctx, u.ID))

	for _, table := range []string{"slots", "goal_categories"} {
		var n int
		require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
		assert.Zero(t, n, table)
	}
	_, err := NewSQLiteUserRepo(database).GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
