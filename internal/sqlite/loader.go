// This file implements bulk JSONL import into the store.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/timelog/pkg/types"
)

// jsonlTableMapping maps JSONL filenames to their SQLite tables and column lists.
// The order matters: tables with foreign keys must load after their referenced tables.
var jsonlTableMapping = []struct {
	file    string
	table   string
	columns []string
}{
	{"employers.jsonl", types.TableEmployers, []string{"employer_id", "name", "is_default", "date_created", "date_modified", "is_active"}},
	{"clients.jsonl", types.TableClients, []string{"client_id", "name", "employer_id", "date_created", "date_modified", "is_active"}},
	{"projects.jsonl", types.TableProjects, []string{"project_id", "name", "display_name", "is_billable", "rate", "employer_id", "client_id", "date_created", "date_modified", "is_active"}},
	{"categories.jsonl", types.TableCategories, []string{"category_id", "name", "color", "billable", "description", "project_id", "date_created", "date_modified", "is_active"}},
	{"workdays.jsonl", types.TableWorkdays, []string{"workday_id", "date", "notes", "date_created"}},
	{"tasks.jsonl", types.TableTasks, []string{"task_id", "start_time", "end_time", "duration", "description", "billable", "unique_identifier", "project_id", "category_id", "workday_id", "date_created", "date_modified", "is_active"}},
	{"attributes.jsonl", types.TableAttributes, []string{"attribute_id", "name", "description", "attribute_type_id", "date_created", "date_modified", "is_active"}},
	{"task_attribute_values.jsonl", types.TableTaskAttributeValues, []string{"task_attribute_value_id", "task_id", "attribute_id", "text_value", "boolean_value", "numeric_value"}},
}

// ImportResult reports how one JSONL file was loaded.
type ImportResult struct {
	File    string
	Table   string
	Loaded  int // Rows inserted.
	Skipped int // Malformed lines plus records rejected by constraints.
}

// Import reads each known JSONL file from dir and inserts its records into
// the matching table. Loading is transactional: either every file is applied
// or none is. Missing files are skipped. Malformed lines and records that
// violate constraints are skipped and counted. Fields not in the column list
// are ignored; columns absent from a record take their schema default.
func (b *Backend) Import(dir string) ([]ImportResult, error) {
	db, err := b.DB()
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	var results []ImportResult
	for _, mapping := range jsonlTableMapping {
		path := filepath.Join(dir, mapping.file)
		records, skipped, err := readJSONL(path)
		if errors.Is(err, fs.ErrNotExist) {
			b.logger.Debug("import file missing, skipping", "file", mapping.file)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", mapping.file, err)
		}

		loaded, rejected, err := insertRecords(tx, mapping.table, mapping.columns, records)
		if err != nil {
			return nil, fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}

		res := ImportResult{
			File:    mapping.file,
			Table:   mapping.table,
			Loaded:  loaded,
			Skipped: skipped + rejected,
		}
		b.logger.Debug("imported file", "file", res.File, "loaded", res.Loaded, "skipped", res.Skipped)
		results = append(results, res)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import transaction: %w", err)
	}
	return results, nil
}

// insertRecords inserts parsed records into table. Only keys listed in
// columns are used. Statements are prepared once per distinct column set.
// Constraint violations skip the record and count it as rejected.
func insertRecords(tx *sql.Tx, table string, columns []string, records []map[string]any) (loaded, rejected int, err error) {
	stmts := make(map[string]*sql.Stmt)
	defer func() {
		for _, s := range stmts {
			s.Close()
		}
	}()

	for _, rec := range records {
		var cols []string
		var args []any
		for _, col := range columns {
			val, ok := rec[col]
			if !ok {
				continue
			}
			cols = append(cols, col)
			args = append(args, columnValue(val))
		}
		if len(cols) == 0 {
			rejected++
			continue
		}

		key := strings.Join(cols, ",")
		stmt, ok := stmts[key]
		if !ok {
			placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
			insertSQL := fmt.Sprintf(
				"INSERT INTO %s (%s) VALUES (%s)",
				table, strings.Join(cols, ", "), placeholders,
			)
			stmt, err = tx.Prepare(insertSQL)
			if err != nil {
				return 0, 0, fmt.Errorf("preparing insert for %s: %w", table, err)
			}
			stmts[key] = stmt
		}

		if _, err := stmt.Exec(args...); err != nil {
			rejected++
			continue
		}
		loaded++
	}
	return loaded, rejected, nil
}

// columnValue converts a decoded JSON value into a driver argument.
func columnValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return nil
		}
		return string(b)
	default:
		return v
	}
}
