package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atrium/internal/authclient"
)

func snapshot() []authclient.User {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []authclient.User{
		{ID: "u1", Name: "Charlie", Email: "charlie@x.com", Role: "user", CreatedAt: base.Add(48 * time.Hour)},
		{ID: "u2", Name: "alice", Email: "Alice@x.com", Role: "admin", CreatedAt: base},
		{ID: "u3", Name: "Bob", Email: "bob@y.org", Role: "user", Banned: true, CreatedAt: base.Add(24 * time.Hour)},
	}
}

func TestProject_Search(t *testing.T) {
	t.Run("email substring, case-insensitive", func(t *testing.T) {
		page := Project(snapshot(), Query{Search: "X.COM"})

		require.Equal(t, 2, page.Total)
		assert.Equal(t, "u1", page.Users[0].ID)
		assert.Equal(t, "u2", page.Users[1].ID)
	})

	t.Run("no match yields empty page", func(t *testing.T) {
		page := Project(snapshot(), Query{Search: "nobody"})

		assert.Equal(t, 0, page.Total)
		assert.Empty(t, page.Users)
		assert.Equal(t, 0, page.Start)
	})

	t.Run("search does not mutate the snapshot", func(t *testing.T) {
		snap := snapshot()
		_ = Project(snap, Query{Search: "y.org", SortBy: ColumnName})

		assert.Equal(t, "u1", snap[0].ID)
		assert.Equal(t, "u3", snap[2].ID)
	})
}

func TestProject_Sort(t *testing.T) {
	t.Run("by name is case-insensitive", func(t *testing.T) {
		page := Project(snapshot(), Query{SortBy: ColumnName})

		ids := []string{page.Users[0].ID, page.Users[1].ID, page.Users[2].ID}
		assert.Equal(t, []string{"u2", "u3", "u1"}, ids)
	})

	t.Run("by createdAt descending", func(t *testing.T) {
		page := Project(snapshot(), Query{SortBy: ColumnCreatedAt, Desc: true})

		ids := []string{page.Users[0].ID, page.Users[1].ID, page.Users[2].ID}
		assert.Equal(t, []string{"u1", "u3", "u2"}, ids)
	})

	t.Run("by banned groups banned last ascending", func(t *testing.T) {
		page := Project(snapshot(), Query{SortBy: ColumnBanned})

		assert.False(t, page.Users[0].Banned)
		assert.True(t, page.Users[2].Banned)
	})

	t.Run("empty sort keeps snapshot order", func(t *testing.T) {
		page := Project(snapshot(), Query{})
		assert.Equal(t, "u1", page.Users[0].ID)
	})
}

func TestProject_Pagination(t *testing.T) {
	t.Run("clamps page into range", func(t *testing.T) {
		page := Project(snapshot(), Query{Page: 99, PageSize: 2})

		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 2, page.PageCount)
		require.Len(t, page.Users, 1)
		assert.Equal(t, 3, page.Start)
		assert.Equal(t, 3, page.End)
	})

	t.Run("first page bounds", func(t *testing.T) {
		page := Project(snapshot(), Query{Page: 1, PageSize: 2})

		assert.Equal(t, 1, page.Start)
		assert.Equal(t, 2, page.End)
		assert.Equal(t, 3, page.Total)
	})

	t.Run("zero values use defaults", func(t *testing.T) {
		page := Project(snapshot(), Query{})

		assert.Equal(t, 1, page.Page)
		assert.Len(t, page.Users, 3)
	})
}

func TestNormalizeColumns(t *testing.T) {
	t.Run("nil means all", func(t *testing.T) {
		assert.Equal(t, AllColumns, NormalizeColumns(nil))
	})

	t.Run("preserves display order regardless of request order", func(t *testing.T) {
		got := NormalizeColumns([]Column{ColumnCreatedAt, ColumnName})
		assert.Equal(t, []Column{ColumnName, ColumnCreatedAt}, got)
	})

	t.Run("unknown columns are dropped", func(t *testing.T) {
		got := NormalizeColumns([]Column{"avatar", ColumnEmail})
		assert.Equal(t, []Column{ColumnEmail}, got)
	})

	t.Run("all-invalid falls back to all", func(t *testing.T) {
		assert.Equal(t, AllColumns, NormalizeColumns([]Column{"avatar"}))
	})

	t.Run("hiding columns does not reduce user payload", func(t *testing.T) {
		page := Project(snapshot(), Query{Visible: []Column{ColumnEmail}})
		assert.Equal(t, []Column{ColumnEmail}, page.Columns)
		assert.NotEmpty(t, page.Users[0].Name)
	})
}

func TestParseColumn(t *testing.T) {
	c, ok := ParseColumn("email")
	require.True(t, ok)
	assert.Equal(t, ColumnEmail, c)

	_, ok = ParseColumn("nope")
	assert.False(t, ok)
}
