package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/timelog/pkg/types"
)

// env is an isolated config and data directory pair.
type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	t.Setenv("TIMELOG_CONFIG_DIR", "")
	t.Setenv("TIMELOG_DATA_DIR", "")
	return env{configDir: t.TempDir(), dataDir: t.TempDir()}
}

// run executes the root command in-process with the env's directories.
func (e env) run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))
	err = root.Execute()
	return out.String(), errOut.String(), err
}

// mustRun runs args and fails the test on error.
func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := e.run(t, args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return stdout
}

// writeJSONL writes a minimal time log: two tasks on two days, one with an
// attribute, plus a third day outside January.
func writeJSONL(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"employers.jsonl": `{"employer_id":1,"name":"Acme"}` + "\n",
		"projects.jsonl":  `{"project_id":10,"name":"Website","employer_id":1,"is_billable":true}` + "\n",
		"workdays.jsonl": `{"workday_id":100,"date":"2024-01-01"}
{"workday_id":101,"date":"2024-01-02"}
{"workday_id":102,"date":"2024-02-01"}
`,
		"tasks.jsonl": `{"task_id":1,"start_time":"09:00","description":"planning, review","billable":true,"project_id":10,"workday_id":100}
{"task_id":2,"start_time":"13:00","description":"café","billable":false,"project_id":10,"workday_id":101}
{"task_id":3,"start_time":"08:00","description":"february","project_id":10,"workday_id":102}
`,
		"attributes.jsonl":            `{"attribute_id":1,"name":"Ticket","attribute_type_id":1}` + "\n",
		"task_attribute_values.jsonl": `{"task_id":2,"attribute_id":1,"text_value":"WEB-7"}` + "\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

// seeded returns an env whose store holds the writeJSONL fixtures.
func seeded(t *testing.T) env {
	t.Helper()
	e := newEnv(t)
	e.mustRun(t, "import", writeJSONL(t))
	return e
}

func TestVersion(t *testing.T) {
	out := newEnv(t).mustRun(t, "version")
	assert.Equal(t, fmt.Sprintf("timelog v%s\nmodule: %s\n", Version, modulePath), out)
}

func TestInit(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "init")
	assert.Contains(t, out, "timelog initialized")

	assert.FileExists(t, filepath.Join(e.dataDir, "timelog.db"))

	data, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	var cfg configFile
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, types.BackendSQLite, cfg.Backend)
	assert.Equal(t, "comma", cfg.Export.Delimiter)
	assert.Equal(t, "double", cfg.Export.Qualifier)
	assert.Equal(t, 4096, cfg.Export.PreviewLimit)
	assert.NotEmpty(t, cfg.Export.Columns)
}

func TestInitKeepsExistingConfig(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.configDir, "config.yaml")
	custom := "backend: sqlite\nexport:\n  delimiter: tab\n"
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

	e.mustRun(t, "init")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestColumns(t *testing.T) {
	out := newEnv(t).mustRun(t, "columns")
	assert.Contains(t, out, "IDENTIFIER")
	assert.Regexp(t, `(?m)^employer\s+employer\s+employers\.name$`, out)
	assert.Regexp(t, `(?m)^unique_id\s+unique_id\s+tasks\.unique_identifier$`, out)
}

func TestImport(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "import", writeJSONL(t))
	assert.Contains(t, out, "tasks.jsonl: 3 loaded, 0 skipped\n")
	assert.Contains(t, out, "workdays.jsonl: 3 loaded, 0 skipped\n")
	assert.NotContains(t, out, "clients.jsonl")
}

func TestImportNotADirectory(t *testing.T) {
	e := newEnv(t)
	file := filepath.Join(t.TempDir(), "tasks.jsonl")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, _, err := e.run(t, "import", file)
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestExport(t *testing.T) {
	e := seeded(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "explicit columns",
			args: []string{"--columns", "description,date"},
			want: "description,date\n\"planning, review\",2024-01-01\ncafé,2024-01-02\n",
		},
		{
			name: "tab delimiter and booleans",
			args: []string{"--columns", "date,billable,project", "--delimiter", "tab", "--booleans", "yes_no"},
			want: "date\tbillable\tproject\n2024-01-01\tyes\tWebsite\n2024-01-02\tno\tWebsite\n",
		},
		{
			name: "attributes and no header",
			args: []string{"--columns", "description", "--attributes", "--exclude-headers"},
			want: "\"planning, review\",\ncafé,WEB-7\n",
		},
		{
			name: "windows line endings",
			args: []string{"--columns", "date", "--line-terminator", "windows"},
			want: "date\r\n2024-01-01\r\n2024-01-02\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"export", "--from", "2024-01-01", "--to", "2024-01-31"}, tt.args...)
			assert.Equal(t, tt.want, e.mustRun(t, args...))
		})
	}
}

func TestExportConfigPrecedence(t *testing.T) {
	e := seeded(t)
	config := `backend: sqlite
export:
  columns: [description, date]
  delimiter: semicolon
  qualifier: none
`
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(config), 0o644))

	out := e.mustRun(t, "export", "--from", "2024-01-01", "--to", "2024-01-01")
	assert.Equal(t, "description;date\nplanning, review;2024-01-01\n", out, "config.yaml applies")

	out = e.mustRun(t, "export", "--from", "2024-01-01", "--to", "2024-01-01", "--delimiter", "pipe")
	assert.Equal(t, "description|date\nplanning, review|2024-01-01\n", out, "flag overrides config.yaml")
}

func TestExportToFile(t *testing.T) {
	e := seeded(t)
	path := filepath.Join(t.TempDir(), "jan.csv")

	stdout, stderr, err := e.run(t, "export", "--from", "2024-01-02", "--to", "2024-01-02",
		"--columns", "description", "--encoding", "windows-1252", "--output", path)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "wrote 17 bytes")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("description\ncaf\xe9\n"), data)
}

func TestPreview(t *testing.T) {
	e := seeded(t)

	out := e.mustRun(t, "preview", "--task", "3", "--columns", "description,date")
	assert.Equal(t, "description,date\nfebruary,2024-02-01\n", out)

	out = e.mustRun(t, "preview", "--task", "3", "--columns", "description,date", "--limit", "10")
	assert.Equal(t, "description,date\n", out, "first line kept even past the limit")
}

func TestExportErrors(t *testing.T) {
	e := seeded(t)

	tests := []struct {
		name     string
		args     []string
		wantErr  error
		wantCode int
	}{
		{"unknown column", []string{"export", "--from", "2024-01-01", "--to", "2024-01-31", "--columns", "nope"}, types.ErrUnknownColumn, exitUserError},
		{"reversed range", []string{"export", "--from", "2024-02-01", "--to", "2024-01-01"}, types.ErrInvalidDateRange, exitUserError},
		{"bad date", []string{"export", "--from", "yesterday", "--to", "2024-01-01"}, types.ErrInvalidDate, exitUserError},
		{"same delimiter and qualifier", []string{"export", "--from", "2024-01-01", "--to", "2024-01-31", "--qualifier", ","}, types.ErrDelimiterIsQualifier, exitUserError},
		{"unknown encoding", []string{"export", "--from", "2024-01-01", "--to", "2024-01-31", "--encoding", "ebcdic"}, types.ErrUnknownEncoding, exitUserError},
		{"bad option value", []string{"export", "--from", "2024-01-01", "--to", "2024-01-31", "--newlines", "squash"}, types.ErrInvalidOption, exitUserError},
		{"preview without task", []string{"preview", "--task", "0"}, types.ErrMissingEntityID, exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := e.run(t, tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCode, exitCode(err))
		})
	}
}

func TestExportRequiresRange(t *testing.T) {
	_, _, err := newEnv(t).run(t, "export", "--to", "2024-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from")
}

func TestBadLogLevel(t *testing.T) {
	_, _, err := newEnv(t).run(t, "--log-level", "loud", "version")
	assert.Error(t, err)
}

func TestVerboseLogsToStderr(t *testing.T) {
	e := newEnv(t)
	stdout, stderr, err := e.run(t, "-vv", "init")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "store attached")
	assert.Contains(t, stderr, "store attached")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(errors.New("bad flag")))
	assert.Equal(t, exitSysError, exitCode(systemError("disk full: %w", os.ErrPermission)))
	assert.Equal(t, exitSysError, exitCode(fmt.Errorf("fetching tasks: %w", types.ErrStep)))
}
