package export

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/timelog/pkg/types"
)

// Preparer prepares statements. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// RowSet holds fetched rows keyed by task id. IDs keeps the order in which
// tasks were first returned, which is the emission order.
type RowSet struct {
	ids  []int64
	rows map[int64][]string
}

// NewRowSet returns an empty RowSet.
func NewRowSet() *RowSet {
	return &RowSet{rows: make(map[int64][]string)}
}

// Append adds values to the row of id, creating the row on first sight.
func (rs *RowSet) Append(id int64, values ...string) {
	row, ok := rs.rows[id]
	if !ok {
		rs.ids = append(rs.ids, id)
	}
	rs.rows[id] = append(row, values...)
}

// Len returns the number of rows.
func (rs *RowSet) Len() int { return len(rs.ids) }

// IDs returns task ids in emission order.
func (rs *RowSet) IDs() []int64 { return rs.ids }

// Row returns the values of id.
func (rs *RowSet) Row(id int64) []string { return rs.rows[id] }

// Rows returns all rows in emission order.
func (rs *RowSet) Rows() [][]string {
	out := make([][]string, len(rs.ids))
	for i, id := range rs.ids {
		out[i] = rs.rows[id]
	}
	return out
}

// Truncate keeps the first n rows.
func (rs *RowSet) Truncate(n int) {
	if n >= len(rs.ids) {
		return
	}
	for _, id := range rs.ids[n:] {
		delete(rs.rows, id)
	}
	rs.ids = rs.ids[:n]
}

// Fetcher executes export queries and materializes their results. Values
// are read as text and left untransformed.
type Fetcher struct {
	db Preparer
}

// NewFetcher returns a Fetcher reading from db.
func NewFetcher(db Preparer) *Fetcher {
	return &Fetcher{db: db}
}

// each prepares q, binds its arguments and calls fn once per result row.
// Failures are wrapped with ErrPrepare, ErrBind or ErrStep.
func (f *Fetcher) each(ctx context.Context, q Query, fn func(rows *sql.Rows) error) error {
	if f.db == nil {
		return types.ErrConnection
	}
	stmt, err := f.db.PrepareContext(ctx, q.SQL)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrPrepare, err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, q.Args...)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrBind, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return fmt.Errorf("%w: %w", types.ErrStep, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %w", types.ErrStep, err)
	}
	return nil
}

// FetchRows runs the main query. Column 0 is the task id; every other
// column is appended to that task's row as text, NULL as "". On error no
// RowSet is returned.
func (f *Fetcher) FetchRows(ctx context.Context, q Query) (*RowSet, error) {
	rs := NewRowSet()
	var width int
	err := f.each(ctx, q, func(rows *sql.Rows) error {
		if width == 0 {
			cols, err := rows.Columns()
			if err != nil {
				return err
			}
			if len(cols) < 1 {
				return fmt.Errorf("query returned no columns")
			}
			width = len(cols) - 1
		}

		var id int64
		values := make([]sql.NullString, width)
		dest := make([]any, 0, width+1)
		dest = append(dest, &id)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scanning task row: %w", err)
		}

		row := make([]string, width)
		for i, v := range values {
			row[i] = v.String
		}
		rs.Append(id, row...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	return rs, nil
}

// FetchAttributeNames runs the attribute names query.
func (f *Fetcher) FetchAttributeNames(ctx context.Context, q Query) ([]string, error) {
	var names []string
	err := f.each(ctx, q, func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scanning attribute name: %w", err)
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching attribute names: %w", err)
	}
	return names, nil
}

// FetchAttributeEntries runs the attribute values query.
func (f *Fetcher) FetchAttributeEntries(ctx context.Context, q Query) ([]types.AttributeEntry, error) {
	var entries []types.AttributeEntry
	err := f.each(ctx, q, func(rows *sql.Rows) error {
		var e types.AttributeEntry
		var value sql.NullString
		if err := rows.Scan(&e.EntityID, &e.Name, &value); err != nil {
			return fmt.Errorf("scanning attribute value: %w", err)
		}
		e.Value = value.String
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching attribute values: %w", err)
	}
	return entries, nil
}
