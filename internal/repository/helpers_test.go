package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stratako/stratako/internal/db"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/ordering"
	"github.com/stratako/stratako/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, db *sql.DB, email string) *domain.User {
	t.Helper()
	u := testutil.NewTestUser(email)
	require.NoError(t, NewSQLiteUserRepo(db).Create(context.Background(), u))
	return u
}

func seedSlot(t *testing.T, db *sql.DB, userID, name string, order int) *domain.Slot {
	t.Helper()
	s := testutil.NewTestSlot(userID, name, order)
	require.NoError(t, NewSQLiteSlotRepo(db).Create(context.Background(), s))
	return s
}

func TestBulkSetInt_SingleStatement(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	u := seedUser(t, database, "bulk@example.com")
	a := seedSlot(t, database, u.ID, "A", 1)
	b := seedSlot(t, database, u.ID, "B", 2)
	c := seedSlot(t, database, u.ID, "C", 3)

	uow := &testutil.CountingUoW{DB: database}
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteSlotRepo(tx).SetOrders(ctx, []ordering.Assignment{
			{ID: a.ID, Order: 3}, {ID: b.ID, Order: 1}, {ID: c.ID, Order: 2},
		}, time.Now())
	})
	require.NoError(t, err)
	assert.Equal(t, 1, uow.Last())

	slots, err := NewSQLiteSlotRepo(database).ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, []string{"B", "C", "A"}, []string{slots[0].Name, slots[1].Name, slots[2].Name})
}

func TestBulkSetInt_EmptyPlanWritesNothing(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := &testutil.CountingUoW{DB: database}
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteSlotRepo(tx).SetOrders(ctx, nil, time.Now())
	})
	require.NoError(t, err)
	assert.Equal(t, 0, uow.Last())
}

func TestParseNullableTime(t *testing.T) {
	assert.Nil(t, parseNullableTime(sql.NullString{}, dateLayout))
	assert.Nil(t, parseNullableTime(sql.NullString{String: "garbage", Valid: true}, dateLayout))

	got := parseNullableTime(sql.NullString{String: "2000-01-14", Valid: true}, dateLayout)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2000, 1, 14, 0, 0, 0, 0, time.UTC), *got)
}

func TestTimeLayoutSortsLexically(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	earlier := formatTime(base)
	later := formatTime(base.Add(100 * time.Millisecond))
	assert.Less(t, earlier, later)
}
