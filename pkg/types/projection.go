package types

// Table names of the time-log store. Exports always start from TableTasks.
const (
	TableEmployers           = "employers"
	TableClients             = "clients"
	TableProjects            = "projects"
	TableCategories          = "categories"
	TableWorkdays            = "workdays"
	TableTasks               = "tasks"
	TableAttributeTypes      = "attribute_types"
	TableAttributes          = "attributes"
	TableTaskAttributeValues = "task_attribute_values"
)

// ColumnProjection describes one exportable column. Descriptors are immutable
// and live in a static catalog.
type ColumnProjection struct {
	SourceTable  string // Table the value is read from.
	SourceColumn string // Column within SourceTable.
	DisplayName  string // Header text written to the export.
	Identifier   string // Optional unique name; disambiguates columns that share SourceColumn.
}

// Alias returns the name the column is selected as. It is the Identifier when
// set, otherwise table_column.
func (c ColumnProjection) Alias() string {
	if c.Identifier != "" {
		return c.Identifier
	}
	return c.SourceTable + "_" + c.SourceColumn
}

// Projection places a column at a position in the exported row.
// OrderIndex values must be unique and contiguous within one request; the
// type does not enforce this.
type Projection struct {
	OrderIndex int
	Column     ColumnProjection
}

// JoinKind selects between an inner and a left outer join.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
)

// String returns the SQL keyword pair for the join kind.
func (k JoinKind) String() string {
	if k == JoinLeft {
		return "LEFT JOIN"
	}
	return "INNER JOIN"
}

// JoinSpec describes how a dimension table hangs off the query. From is the
// table holding the foreign key (the base table, or a prerequisite table for
// transitive joins) and Column is that foreign key; ForeignColumn is the
// matching key on Table.
type JoinSpec struct {
	Table         string
	Kind          JoinKind
	From          string
	Column        string
	ForeignColumn string
}

// AttributeEntry is one sparse attribute value of one task.
type AttributeEntry struct {
	EntityID int64
	Name     string
	Value    string
}
