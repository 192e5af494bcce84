package export

import "github.com/mesh-intelligence/timelog/pkg/types"

// baseTable is the table every export selects from.
const baseTable = types.TableTasks

// joinGraph describes how each reachable table joins into the query.
// An entry whose From is not the base table is a transitive join: From must be
// joined first.
var joinGraph = map[string]types.JoinSpec{
	types.TableWorkdays: {
		Table: types.TableWorkdays, Kind: types.JoinInner,
		From: baseTable, Column: "workday_id", ForeignColumn: "workday_id",
	},
	types.TableProjects: {
		Table: types.TableProjects, Kind: types.JoinInner,
		From: baseTable, Column: "project_id", ForeignColumn: "project_id",
	},
	types.TableCategories: {
		Table: types.TableCategories, Kind: types.JoinLeft,
		From: baseTable, Column: "category_id", ForeignColumn: "category_id",
	},
	types.TableEmployers: {
		Table: types.TableEmployers, Kind: types.JoinInner,
		From: types.TableProjects, Column: "employer_id", ForeignColumn: "employer_id",
	},
	types.TableClients: {
		Table: types.TableClients, Kind: types.JoinLeft,
		From: types.TableProjects, Column: "client_id", ForeignColumn: "client_id",
	},
	types.TableTaskAttributeValues: {
		Table: types.TableTaskAttributeValues, Kind: types.JoinInner,
		From: baseTable, Column: "task_id", ForeignColumn: "task_id",
	},
	types.TableAttributes: {
		Table: types.TableAttributes, Kind: types.JoinInner,
		From: types.TableTaskAttributeValues, Column: "attribute_id", ForeignColumn: "attribute_id",
	},
}

// projectable reports whether columns of table may appear in an export.
// Attribute tables fan out to several rows per task and are only reached
// through the pivot.
func projectable(table string) bool {
	if table == baseTable {
		return true
	}
	switch table {
	case types.TableTaskAttributeValues, types.TableAttributes:
		return false
	}
	_, ok := joinGraph[table]
	return ok
}

// joinSet accumulates joins, one per table, prerequisites first.
type joinSet struct {
	seen  map[string]bool
	joins []types.JoinSpec
}

func newJoinSet() *joinSet {
	return &joinSet{seen: make(map[string]bool)}
}

// add requires table in the query. The base table, tables already present
// and tables outside the join graph are no-ops.
func (s *joinSet) add(table string) {
	if table == baseTable || s.seen[table] {
		return
	}
	join, ok := joinGraph[table]
	if !ok {
		return
	}
	s.add(join.From)
	s.seen[table] = true
	s.joins = append(s.joins, join)
}

// DeriveJoins returns the joins needed by projections plus any extra
// tables, deduplicated by table name and ordered so every prerequisite comes
// before the tables that join through it.
func DeriveJoins(projections []types.Projection, extra ...string) []types.JoinSpec {
	s := newJoinSet()
	for _, p := range projections {
		s.add(p.Column.SourceTable)
	}
	for _, t := range extra {
		s.add(t)
	}
	return s.joins
}
