package export

import (
	"slices"
	"strings"

	"github.com/mesh-intelligence/timelog/pkg/types"
)

// Mode selects between a full date-range export and a single-task preview.
type Mode int

const (
	ModeFull Mode = iota
	ModePreview
)

func (m Mode) String() string {
	if m == ModePreview {
		return "preview"
	}
	return "full"
}

// Scope restricts which tasks a query returns. From and To (YYYY-MM-DD,
// inclusive) apply in ModeFull; EntityID applies in ModePreview.
type Scope struct {
	Mode     Mode
	From     string
	To       string
	EntityID int64
}

// Query is a rendered statement plus its bind parameters in placeholder order.
type Query struct {
	SQL  string
	Args []any
}

// condition is one WHERE term: table.column followed by op. op carries its
// own placeholders, matched by args.
type condition struct {
	table  string
	column string
	op     string
	args   []any
}

func (c condition) render() string {
	return c.table + "." + c.column + " " + c.op
}

// selectStmt is the declarative form of a query before rendering.
type selectStmt struct {
	distinct bool
	columns  []string
	joins    []types.JoinSpec
	where    []condition
	orderBy  []string
}

// render assembles the statement text once, collecting bind parameters in
// the order their placeholders appear.
func (s selectStmt) render() Query {
	var b strings.Builder
	b.WriteString("SELECT ")
	if s.distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(strings.Join(s.columns, ", "))
	b.WriteString("\nFROM ")
	b.WriteString(baseTable)
	for _, j := range s.joins {
		b.WriteString("\n")
		b.WriteString(j.Kind.String())
		b.WriteString(" ")
		b.WriteString(j.Table)
		b.WriteString(" ON ")
		b.WriteString(j.From + "." + j.Column)
		b.WriteString(" = ")
		b.WriteString(j.Table + "." + j.ForeignColumn)
	}

	var args []any
	if len(s.where) > 0 {
		terms := make([]string, len(s.where))
		for i, c := range s.where {
			terms[i] = c.render()
			args = append(args, c.args...)
		}
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(terms, " AND "))
	}
	if len(s.orderBy) > 0 {
		b.WriteString("\nORDER BY ")
		b.WriteString(strings.Join(s.orderBy, ", "))
	}
	return Query{SQL: b.String(), Args: args}
}

// scopeFilter returns the WHERE terms for scope and the tables they need.
func scopeFilter(scope Scope) ([]condition, []string) {
	active := condition{table: baseTable, column: "is_active", op: "= 1"}
	if scope.Mode == ModePreview {
		return []condition{
			{table: baseTable, column: "task_id", op: "= ?", args: []any{scope.EntityID}},
			active,
		}, nil
	}
	return []condition{
		{table: types.TableWorkdays, column: "date", op: "BETWEEN ? AND ?", args: []any{scope.From, scope.To}},
		active,
	}, []string{types.TableWorkdays}
}

// sortedProjections returns projections ordered by OrderIndex. Ties keep
// their input order.
func sortedProjections(projections []types.Projection) []types.Projection {
	out := slices.Clone(projections)
	slices.SortStableFunc(out, func(a, b types.Projection) int {
		return a.OrderIndex - b.OrderIndex
	})
	return out
}

// BuildMainQuery renders the task query. Column 0 of the result is the task
// id; the remaining columns follow the projections' OrderIndex.
func BuildMainQuery(projections []types.Projection, scope Scope) Query {
	ordered := sortedProjections(projections)
	where, required := scopeFilter(scope)

	columns := make([]string, 0, len(ordered)+1)
	columns = append(columns, baseTable+".task_id")
	for _, p := range ordered {
		c := p.Column
		columns = append(columns, c.SourceTable+"."+c.SourceColumn+` AS "`+c.Alias()+`"`)
	}

	orderBy := []string{baseTable + ".task_id"}
	if scope.Mode == ModeFull {
		orderBy = []string{types.TableWorkdays + ".date", baseTable + ".start_time", baseTable + ".task_id"}
	}

	return selectStmt{
		columns: columns,
		joins:   DeriveJoins(ordered, required...),
		where:   where,
		orderBy: orderBy,
	}.render()
}

// attributeStmt is the shared shape of the two attribute queries.
func attributeStmt(scope Scope) selectStmt {
	where, required := scopeFilter(scope)
	where = append(where, condition{table: types.TableAttributes, column: "is_active", op: "= 1"})
	return selectStmt{
		joins: DeriveJoins(nil, append([]string{types.TableAttributes}, required...)...),
		where: where,
	}
}

// BuildAttributeNamesQuery renders the query for the distinct attribute
// names set on any task in scope, sorted ascending.
func BuildAttributeNamesQuery(scope Scope) Query {
	s := attributeStmt(scope)
	s.distinct = true
	s.columns = []string{types.TableAttributes + ".name"}
	s.orderBy = []string{types.TableAttributes + ".name ASC"}
	return s.render()
}

// attributeValueExpr reads whichever typed value column is set.
const attributeValueExpr = "COALESCE(" +
	"task_attribute_values.text_value, " +
	"CAST(task_attribute_values.boolean_value AS TEXT), " +
	"CAST(task_attribute_values.numeric_value AS TEXT), '')"

// BuildAttributeValuesQuery renders the query for (task id, attribute name,
// value) triples of the tasks in scope.
func BuildAttributeValuesQuery(scope Scope) Query {
	s := attributeStmt(scope)
	s.columns = []string{baseTable + ".task_id", types.TableAttributes + ".name", attributeValueExpr}
	s.orderBy = []string{baseTable + ".task_id", types.TableAttributes + ".name"}
	return s.render()
}
