// Package export turns logged tasks into delimited text. It builds the
// export queries from a list of column projections, fetches and pivots the
// results, and renders them through the value pipeline.
package export

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/timelog/pkg/types"
)

// catalog lists every exportable column, in the order the columns command
// shows them.
var catalog = []types.ColumnProjection{
	{SourceTable: types.TableEmployers, SourceColumn: "name", DisplayName: "employer", Identifier: "employer"},
	{SourceTable: types.TableClients, SourceColumn: "name", DisplayName: "client", Identifier: "client"},
	{SourceTable: types.TableProjects, SourceColumn: "name", DisplayName: "project", Identifier: "project"},
	{SourceTable: types.TableProjects, SourceColumn: "display_name", DisplayName: "project_display_name", Identifier: "project_display_name"},
	{SourceTable: types.TableProjects, SourceColumn: "is_billable", DisplayName: "project_billable", Identifier: "project_billable"},
	{SourceTable: types.TableProjects, SourceColumn: "rate", DisplayName: "project_rate", Identifier: "project_rate"},
	{SourceTable: types.TableCategories, SourceColumn: "name", DisplayName: "category", Identifier: "category"},
	{SourceTable: types.TableCategories, SourceColumn: "billable", DisplayName: "category_billable", Identifier: "category_billable"},
	{SourceTable: types.TableWorkdays, SourceColumn: "date", DisplayName: "date", Identifier: "date"},
	{SourceTable: types.TableTasks, SourceColumn: "start_time", DisplayName: "start_time", Identifier: "start_time"},
	{SourceTable: types.TableTasks, SourceColumn: "end_time", DisplayName: "end_time", Identifier: "end_time"},
	{SourceTable: types.TableTasks, SourceColumn: "duration", DisplayName: "duration", Identifier: "duration"},
	{SourceTable: types.TableTasks, SourceColumn: "description", DisplayName: "description", Identifier: "description"},
	{SourceTable: types.TableTasks, SourceColumn: "billable", DisplayName: "billable", Identifier: "billable"},
	{SourceTable: types.TableTasks, SourceColumn: "unique_identifier", DisplayName: "unique_id", Identifier: "unique_id"},
}

// DefaultColumns is the column set used when none is configured.
var DefaultColumns = []string{"date", "start_time", "end_time", "duration", "project", "category", "description"}

// Catalog returns a copy of the exportable columns.
func Catalog() []types.ColumnProjection {
	return slices.Clone(catalog)
}

// Lookup returns the catalog column with the given identifier.
func Lookup(identifier string) (types.ColumnProjection, bool) {
	for _, c := range catalog {
		if c.Identifier == identifier {
			return c, true
		}
	}
	return types.ColumnProjection{}, false
}

// Projections resolves identifiers against the catalog. The position of an
// identifier in the list becomes its OrderIndex.
func Projections(identifiers []string) ([]types.Projection, error) {
	if len(identifiers) == 0 {
		return nil, types.ErrNoProjections
	}
	out := make([]types.Projection, 0, len(identifiers))
	for i, id := range identifiers {
		c, ok := Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", types.ErrUnknownColumn, id)
		}
		out = append(out, types.Projection{OrderIndex: i, Column: c})
	}
	return out, nil
}
