package export

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/timelog/pkg/types"
)

func TestRowSet(t *testing.T) {
	rs := NewRowSet()
	rs.Append(5, "a")
	rs.Append(2, "b")
	rs.Append(5, "c")
	rs.Append(9, "d")

	assert.Equal(t, 3, rs.Len())
	assert.Equal(t, []int64{5, 2, 9}, rs.IDs(), "ids keep first-seen order")
	assert.Equal(t, []string{"a", "c"}, rs.Row(5))
	assert.Equal(t, [][]string{{"a", "c"}, {"b"}, {"d"}}, rs.Rows())

	rs.Truncate(1)
	assert.Equal(t, []int64{5}, rs.IDs())
	assert.Nil(t, rs.Row(2))

	rs.Truncate(10)
	assert.Equal(t, 1, rs.Len())
}

func TestFetchRows(t *testing.T) {
	db := newTestDB(t)
	f := NewFetcher(db)

	q := BuildMainQuery(mustProjections(t, "description", "category", "client"), Scope{Mode: ModeFull, From: "2024-01-01", To: "2024-01-31"})
	rs, err := f.FetchRows(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, rs.IDs(), "inactive task 3 and out-of-range task 42 excluded")
	assert.Equal(t, []string{"task one, comma", "Dev", "Globex"}, rs.Row(1))
	assert.Equal(t, []string{"task two", "", ""}, rs.Row(2), "left joins yield NULL as empty")
}

func TestFetchAttributes(t *testing.T) {
	db := newTestDB(t)
	f := NewFetcher(db)
	ctx := context.Background()

	scope := Scope{Mode: ModeFull, From: "2024-01-01", To: "2024-12-31"}
	names, err := f.FetchAttributeNames(ctx, BuildAttributeNamesQuery(scope))
	require.NoError(t, err)
	assert.Equal(t, []string{"Priority", "Remote"}, names)

	entries, err := f.FetchAttributeEntries(ctx, BuildAttributeValuesQuery(scope))
	require.NoError(t, err)
	assert.Equal(t, []types.AttributeEntry{
		{EntityID: 1, Name: "Priority", Value: "High"},
		{EntityID: 42, Name: "Remote", Value: "1"},
	}, entries)
}

func TestFetchErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("nil connection", func(t *testing.T) {
		_, err := NewFetcher(nil).FetchRows(ctx, Query{SQL: "SELECT 1"})
		assert.ErrorIs(t, err, types.ErrConnection)
	})

	t.Run("invalid statement", func(t *testing.T) {
		db := newTestDB(t)
		_, err := NewFetcher(db).FetchRows(ctx, Query{SQL: "SELECT nope FROM missing_table"})
		require.Error(t, err)
		// The driver may defer compiling the statement until it is executed.
		assert.True(t, errors.Is(err, types.ErrPrepare) || errors.Is(err, types.ErrBind), err.Error())
	})

	t.Run("step failure", func(t *testing.T) {
		db := newTestDB(t)
		// A text id cannot be scanned into the int64 task id.
		_, err := NewFetcher(db).FetchRows(ctx, Query{SQL: "SELECT 'abc', description FROM tasks"})
		assert.ErrorIs(t, err, types.ErrStep)
	})

	t.Run("closed database", func(t *testing.T) {
		db := newTestDB(t)
		require.NoError(t, db.Close())
		_, err := NewFetcher(db).FetchAttributeNames(ctx, BuildAttributeNamesQuery(Scope{Mode: ModePreview, EntityID: 1}))
		assert.ErrorIs(t, err, types.ErrPrepare)
	})
}
