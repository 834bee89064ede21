package ordering

import (
	"testing"

	"github.com/stratako/stratako/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id        string
	container string
	order     int
	started   bool
}

var items = Collection[item]{
	ID:        func(i item) string { return i.id },
	Container: func(i item) string { return i.container },
	Order:     func(i item) int { return i.order },
	Orderable: func(i item) bool { return !i.started },
}

func TestCollection_EntriesFiltersAndSorts(t *testing.T) {
	got := items.Entries([]item{
		{id: "c", container: "x", order: 3},
		{id: "s", container: "x", started: true},
		{id: "a", container: "x", order: 1},
		{id: "b", container: "x", order: 2},
	})
	assert.Equal(t, []Entry{{ID: "a", Order: 1}, {ID: "b", Order: 2}, {ID: "c", Order: 3}}, got)
}

func TestCollection_EntriesKeepsInputSequenceForDuplicates(t *testing.T) {
	got := items.Entries([]item{
		{id: "second", order: 1},
		{id: "first", order: 1},
	})
	assert.Equal(t, "second", got[0].ID)
	assert.Equal(t, "first", got[1].ID)
}

func TestCollection_NilOrderableMeansAll(t *testing.T) {
	all := Collection[item]{
		ID:        items.ID,
		Container: items.Container,
		Order:     items.Order,
	}
	assert.Len(t, all.Entries([]item{{id: "a"}, {id: "b", started: true}}), 2)
}

func TestCollection_Check(t *testing.T) {
	dense := []item{
		{id: "a", container: "x", order: 1},
		{id: "b", container: "x", order: 2},
		{id: "s", container: "x", started: true},
		{id: "c", container: "y", order: 1},
	}
	require.NoError(t, items.Check(dense))

	gap := append(dense, item{id: "d", container: "y", order: 3})
	err := items.Check(gap)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvariant)
	assert.Contains(t, err.Error(), "container y")
}

func TestCollection_Find(t *testing.T) {
	list := []item{{id: "a"}, {id: "b", order: 2}}
	got, ok := items.Find(list, "b")
	require.True(t, ok)
	assert.Equal(t, 2, got.order)

	_, ok = items.Find(list, "zzz")
	assert.False(t, ok)
}
