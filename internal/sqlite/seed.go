package sqlite

import (
	"database/sql"
	"fmt"
)

// Attribute type names. Values of a task attribute are stored in the column
// matching its type.
const (
	AttributeTypeText    = "text"
	AttributeTypeBoolean = "boolean"
	AttributeTypeNumeric = "numeric"
)

// builtInAttributeTypes are seeded with fixed ids so JSONL imports can refer
// to them.
var builtInAttributeTypes = []struct {
	id   int64
	name string
}{
	{1, AttributeTypeText},
	{2, AttributeTypeBoolean},
	{3, AttributeTypeNumeric},
}

// seedAttributeTypes inserts the built-in attribute types. Existing rows are
// left alone, so seeding is idempotent.
func seedAttributeTypes(db *sql.DB) error {
	for _, at := range builtInAttributeTypes {
		if _, err := db.Exec(
			"INSERT OR IGNORE INTO attribute_types (attribute_type_id, name) VALUES (?, ?)",
			at.id, at.name,
		); err != nil {
			return fmt.Errorf("seeding attribute type %s: %w", at.name, err)
		}
	}
	return nil
}
