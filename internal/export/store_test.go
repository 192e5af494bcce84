package export

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/timelog/internal/sqlite"
	"github.com/mesh-intelligence/timelog/pkg/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixtureSQL populates a store with:
//   - task 1 on 2024-01-01, Website/Dev, attribute Priority=High
//   - task 2 on 2024-01-02, Internal, no category, no attributes
//   - task 3 on 2024-01-02, soft-deleted
//   - task 42 on 2024-02-01, Website, attribute Remote=1 (boolean)
var fixtureSQL = []string{
	`INSERT INTO employers (employer_id, name) VALUES (1, 'Acme')`,
	`INSERT INTO clients (client_id, name, employer_id) VALUES (1, 'Globex', 1)`,
	`INSERT INTO projects (project_id, name, display_name, is_billable, rate, employer_id, client_id) VALUES (10, 'Website', 'Web', 1, 50.5, 1, 1)`,
	`INSERT INTO projects (project_id, name, is_billable, employer_id) VALUES (11, 'Internal', 0, 1)`,
	`INSERT INTO categories (category_id, name, billable, project_id) VALUES (20, 'Dev', 1, 10)`,
	`INSERT INTO workdays (workday_id, date) VALUES (100, '2024-01-01'), (101, '2024-01-02'), (103, '2024-02-01')`,
	`INSERT INTO tasks (task_id, start_time, end_time, duration, description, billable, project_id, category_id, workday_id)
		VALUES (1, '09:00', '10:00', '01:00', 'task one, comma', 1, 10, 20, 100)`,
	`INSERT INTO tasks (task_id, start_time, description, billable, project_id, workday_id)
		VALUES (2, '10:00', 'task two', 0, 11, 101)`,
	`INSERT INTO tasks (task_id, start_time, description, project_id, workday_id, is_active)
		VALUES (3, '11:00', 'deleted task', 11, 101, 0)`,
	`INSERT INTO tasks (task_id, start_time, description, project_id, workday_id)
		VALUES (42, '08:00', 'preview task', 10, 103)`,
	`INSERT INTO attributes (attribute_id, name, attribute_type_id) VALUES (1, 'Priority', 1), (2, 'Remote', 2)`,
	`INSERT INTO task_attribute_values (task_id, attribute_id, text_value) VALUES (1, 1, 'High')`,
	`INSERT INTO task_attribute_values (task_id, attribute_id, boolean_value) VALUES (42, 2, 1)`,
}

// newTestDB attaches a store in a temp dir and loads fixtureSQL.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	b := sqlite.NewBackend(discardLogger())
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })

	db, err := b.DB()
	require.NoError(t, err)
	for _, stmt := range fixtureSQL {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return db
}

// mustProjections resolves catalog identifiers or fails the test.
func mustProjections(t *testing.T, ids ...string) []types.Projection {
	t.Helper()
	p, err := Projections(ids)
	require.NoError(t, err)
	return p
}
