package export

import "github.com/mesh-intelligence/timelog/pkg/types"

// Pivot extends every row of rs with one value per header, in header order.
// A task without a value for a header gets "" at that position, so all rows
// grow by exactly len(headers). Entries for tasks not in rs are ignored.
func Pivot(rs *RowSet, headers []string, entries []types.AttributeEntry) {
	if len(headers) == 0 {
		return
	}

	lookup := make(map[int64]map[string]string)
	for _, e := range entries {
		byName, ok := lookup[e.EntityID]
		if !ok {
			byName = make(map[string]string)
			lookup[e.EntityID] = byName
		}
		byName[e.Name] = e.Value
	}

	for _, id := range rs.IDs() {
		byName := lookup[id]
		values := make([]string, len(headers))
		for i, h := range headers {
			values[i] = byName[h]
		}
		rs.Append(id, values...)
	}
}
