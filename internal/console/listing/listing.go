// Package listing projects the in-memory user snapshot into the table the
// console renders: searchable by email substring, sortable, paginated, with
// independently toggleable columns. Projections never mutate the snapshot;
// every mutation flows through the dispatcher and a full re-fetch.
package listing

import (
	"sort"
	"strings"

	"atrium/internal/authclient"
)

// Column identifies a sortable/toggleable table column.
type Column string

const (
	ColumnName      Column = "name"
	ColumnEmail     Column = "email"
	ColumnRole      Column = "role"
	ColumnBanned    Column = "banned"
	ColumnCreatedAt Column = "createdAt"
)

// AllColumns in display order.
var AllColumns = []Column{ColumnName, ColumnEmail, ColumnRole, ColumnBanned, ColumnCreatedAt}

// DefaultPageSize matches the console table's page length.
const DefaultPageSize = 10

// Query captures the view parameters for one projection.
type Query struct {
	Search   string   // case-insensitive email substring
	SortBy   Column   // empty keeps snapshot order
	Desc     bool
	Page     int      // 1-based; values < 1 clamp to 1
	PageSize int      // values < 1 default to DefaultPageSize
	Visible  []Column // nil means all columns
}

// Page is one projected page of the snapshot.
type Page struct {
	Users     []authclient.User `json:"users"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	PageCount int               `json:"pageCount"`
	Start     int               `json:"start"` // 1-based index of first row shown, 0 when empty
	End       int               `json:"end"`   // 1-based index of last row shown
	Columns   []Column          `json:"columns"`
}

// Project applies search, sort, and pagination to a snapshot copy.
func Project(snapshot []authclient.User, q Query) Page {
	rows := filter(snapshot, q.Search)
	sortRows(rows, q.SortBy, q.Desc)

	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(rows)
	pageCount := (total + pageSize - 1) / pageSize
	if pageCount < 1 {
		pageCount = 1
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	if start > total {
		start = total
	}

	displayStart := 0
	if total > 0 {
		displayStart = start + 1
	}

	return Page{
		Users:     rows[start:end],
		Total:     total,
		Page:      page,
		PageCount: pageCount,
		Start:     displayStart,
		End:       end,
		Columns:   NormalizeColumns(q.Visible),
	}
}

// NormalizeColumns drops unknown column names and preserves display order.
// A nil or fully-invalid set falls back to all columns.
func NormalizeColumns(visible []Column) []Column {
	if len(visible) == 0 {
		return AllColumns
	}

	requested := make(map[Column]bool, len(visible))
	for _, c := range visible {
		requested[c] = true
	}

	out := make([]Column, 0, len(AllColumns))
	for _, c := range AllColumns {
		if requested[c] {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return AllColumns
	}
	return out
}

func filter(snapshot []authclient.User, search string) []authclient.User {
	rows := make([]authclient.User, 0, len(snapshot))
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, u := range snapshot {
		if needle == "" || strings.Contains(strings.ToLower(u.Email), needle) {
			rows = append(rows, u)
		}
	}
	return rows
}

func sortRows(rows []authclient.User, by Column, desc bool) {
	if by == "" {
		return
	}

	less := func(a, b authclient.User) bool {
		switch by {
		case ColumnName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case ColumnEmail:
			return strings.ToLower(a.Email) < strings.ToLower(b.Email)
		case ColumnRole:
			return a.Role < b.Role
		case ColumnBanned:
			return !a.Banned && b.Banned
		case ColumnCreatedAt:
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return false
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

// ParseColumn validates a column name from a query parameter.
func ParseColumn(name string) (Column, bool) {
	for _, c := range AllColumns {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}
