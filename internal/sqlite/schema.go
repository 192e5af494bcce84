// Package sqlite implements the SQLite store for timelog.
// This file holds the schema DDL. Every statement is idempotent so Attach can
// run it against new and existing databases alike.
package sqlite

// Schema DDL for all tables.
const (
	createEmployers = `CREATE TABLE IF NOT EXISTS employers (
    employer_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    is_default INTEGER NOT NULL DEFAULT 0,
    date_created TEXT NOT NULL DEFAULT (datetime('now')),
    date_modified TEXT NOT NULL DEFAULT (datetime('now')),
    is_active INTEGER NOT NULL DEFAULT 1
);`

	createClients = `CREATE TABLE IF NOT EXISTS clients (
    client_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    employer_id INTEGER NOT NULL,
    date_created TEXT NOT NULL DEFAULT (datetime('now')),
    date_modified TEXT NOT NULL DEFAULT (datetime('now')),
    is_active INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (employer_id) REFERENCES employers(employer_id)
);`

	createProjects = `CREATE TABLE IF NOT EXISTS projects (
    project_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    display_name TEXT NOT NULL DEFAULT '',
    is_billable INTEGER NOT NULL DEFAULT 0,
    rate REAL,
    employer_id INTEGER NOT NULL,
    client_id INTEGER,
    date_created TEXT NOT NULL DEFAULT (datetime('now')),
    date_modified TEXT NOT NULL DEFAULT (datetime('now')),
    is_active INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (employer_id) REFERENCES employers(employer_id),
    FOREIGN KEY (client_id) REFERENCES clients(client_id)
);`

	createCategories = `CREATE TABLE IF NOT EXISTS categories (
    category_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    color INTEGER NOT NULL DEFAULT 0,
    billable INTEGER NOT NULL DEFAULT 0,
    description TEXT,
    project_id INTEGER NOT NULL,
    date_created TEXT NOT NULL DEFAULT (datetime('now')),
    date_modified TEXT NOT NULL DEFAULT (datetime('now')),
    is_active INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (project_id) REFERENCES projects(project_id)
);`

	createWorkdays = `CREATE TABLE IF NOT EXISTS workdays (
    workday_id INTEGER PRIMARY KEY,
    date TEXT NOT NULL UNIQUE,
    notes TEXT,
    date_created TEXT NOT NULL DEFAULT (datetime('now'))
);`

	createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    task_id INTEGER PRIMARY KEY,
    start_time TEXT NOT NULL,
    end_time TEXT,
    duration TEXT,
    description TEXT NOT NULL DEFAULT '',
    billable INTEGER NOT NULL DEFAULT 0,
    unique_identifier TEXT,
    project_id INTEGER NOT NULL,
    category_id INTEGER,
    workday_id INTEGER NOT NULL,
    date_created TEXT NOT NULL DEFAULT (datetime('now')),
    date_modified TEXT NOT NULL DEFAULT (datetime('now')),
    is_active INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (project_id) REFERENCES projects(project_id),
    FOREIGN KEY (category_id) REFERENCES categories(category_id),
    FOREIGN KEY (workday_id) REFERENCES workdays(workday_id)
);`

	createAttributeTypes = `CREATE TABLE IF NOT EXISTS attribute_types (
    attribute_type_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);`

	createAttributes = `CREATE TABLE IF NOT EXISTS attributes (
    attribute_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    description TEXT,
    attribute_type_id INTEGER NOT NULL,
    date_created TEXT NOT NULL DEFAULT (datetime('now')),
    date_modified TEXT NOT NULL DEFAULT (datetime('now')),
    is_active INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (attribute_type_id) REFERENCES attribute_types(attribute_type_id)
);`

	createTaskAttributeValues = `CREATE TABLE IF NOT EXISTS task_attribute_values (
    task_attribute_value_id INTEGER PRIMARY KEY,
    task_id INTEGER NOT NULL,
    attribute_id INTEGER NOT NULL,
    text_value TEXT,
    boolean_value INTEGER,
    numeric_value REAL,
    UNIQUE (task_id, attribute_id),
    FOREIGN KEY (task_id) REFERENCES tasks(task_id) ON DELETE CASCADE,
    FOREIGN KEY (attribute_id) REFERENCES attributes(attribute_id)
);`
)

// Index DDL for the export queries.
const (
	idxWorkdaysDate       = `CREATE INDEX IF NOT EXISTS idx_workdays_date ON workdays(date);`
	idxTasksWorkday       = `CREATE INDEX IF NOT EXISTS idx_tasks_workday ON tasks(workday_id);`
	idxTasksProject       = `CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);`
	idxTaskAttributesTask = `CREATE INDEX IF NOT EXISTS idx_task_attribute_values_task ON task_attribute_values(task_id);`
	idxTaskAttributesAttr = `CREATE INDEX IF NOT EXISTS idx_task_attribute_values_attribute ON task_attribute_values(attribute_id);`
	idxProjectsEmployer   = `CREATE INDEX IF NOT EXISTS idx_projects_employer ON projects(employer_id);`
	idxCategoriesProject  = `CREATE INDEX IF NOT EXISTS idx_categories_project ON categories(project_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createEmployers,
	createClients,
	createProjects,
	createCategories,
	createWorkdays,
	createTasks,
	createAttributeTypes,
	createAttributes,
	createTaskAttributeValues,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxWorkdaysDate,
	idxTasksWorkday,
	idxTasksProject,
	idxTaskAttributesTask,
	idxTaskAttributesAttr,
	idxProjectsEmployer,
	idxCategoriesProject,
}
