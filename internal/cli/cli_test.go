package cli

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbforge/internal/migration"
	"dbforge/internal/parser/toml"
)

var fixtures = map[string]string{
	"02-12-2025-23-59-59-create-users-table.toml": `
table = "users"
[up]
action = "create"
  [[up.columns]]
  name = "id"
  type = "integer"
  primary_key = true
  [[up.columns]]
  name = "email"
  type = "string"
  length = 120
[down]
action = "drop"
`,
	"03-01-2026-12-30-00-create-teams-table.toml": `
table = "teams"
[up]
action = "create"
  [[up.columns]]
  name = "id"
  type = "integer"
  primary_key = true
[down]
action = "drop"
`,
}

type workspace struct {
	config string
	dir    string
	db     string
}

func newWorkspace(t *testing.T, files map[string]string) workspace {
	t.Helper()
	root := t.TempDir()
	ws := workspace{
		config: filepath.Join(root, "dbforge.toml"),
		dir:    filepath.Join(root, "migrations"),
		db:     filepath.Join(root, "app.db"),
	}
	require.NoError(t, os.MkdirAll(ws.dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(ws.dir, name), []byte(content), 0o600))
	}
	cfg := fmt.Sprintf(`default_connection = "local"
migrations_dir = %q

[log]
level = "warn"

[connections.local]
dialect = "sqlite"
dsn = %q
`, ws.dir, ws.db)
	require.NoError(t, os.WriteFile(ws.config, []byte(cfg), 0o600))
	return ws
}

func runApp(t *testing.T, app *App, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app.Out, app.Err = &out, &errOut
	root := app.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	require.NoError(t, app.Close())
	return out.String(), errOut.String(), err
}

func tables(t *testing.T, path string) []string {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestScaffoldCommands(t *testing.T) {
	ws := newWorkspace(t, nil)
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

	for _, action := range []toml.Action{toml.ActionCreate, toml.ActionAlter, toml.ActionDrop} {
		t.Run(string(action), func(t *testing.T) {
			app := NewApp(nil, nil)
			app.Now = func() time.Time { return now }

			out, _, err := runApp(t, app, string(action), "user_accounts", "--config", ws.config)
			require.NoError(t, err)

			path := filepath.Join(ws.dir, migration.FileName(action, "user_accounts", now))
			assert.Contains(t, out, "Created "+path)

			doc, err := toml.NewParser().ParseFile(path)
			require.NoError(t, err)
			assert.Equal(t, "user_accounts", doc.Table)
		})
	}

	app := NewApp(nil, nil)
	app.Now = func() time.Time { return now }
	_, _, err := runApp(t, app, "create", "user_accounts", "--config", ws.config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestScaffoldRejectsBadTableName(t *testing.T) {
	ws := newWorkspace(t, nil)
	_, _, err := runApp(t, NewApp(nil, nil), "create", "1users", "--config", ws.config)
	require.Error(t, err)
}

func TestExecuteUnknownCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), []string{"frobnicate"}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), `unknown command "frobnicate"`)
}

func TestExecuteHelp(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), []string{"help", "--config", filepath.Join(t.TempDir(), "dbforge.toml")}, &out, &errOut)
	assert.Equal(t, 0, code)
	for _, name := range []string{"create", "alter", "drop", "migrate", "rollback"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestMigrateAndRollbackOnSQLite(t *testing.T) {
	ws := newWorkspace(t, fixtures)

	out, _, err := runApp(t, NewApp(nil, nil), "migrate", "--config", ws.config)
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 2 migration(s) on local (sqlite)")
	assert.Equal(t, []string{"teams", "users"}, tables(t, ws.db))

	_, errOut, err := runApp(t, NewApp(nil, nil), "rollback", "--config", ws.config)
	require.Error(t, err)
	assert.Contains(t, errOut, "--unsafe")
	assert.Equal(t, []string{"teams", "users"}, tables(t, ws.db))

	out, _, err = runApp(t, NewApp(nil, nil), "rollback", "--unsafe", "--config", ws.config)
	require.NoError(t, err)
	assert.Contains(t, out, "Rolled back 1 migration(s)")
	assert.Equal(t, []string{"users"}, tables(t, ws.db))
}

func TestMigrateDryRun(t *testing.T) {
	ws := newWorkspace(t, fixtures)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "summary for another dialect",
			args: []string{"migrate", "--dry-run", "--dialect", "postgresql", "--format", "summary"},
			want: []string{"Total: 2 migrations, 2 statements, 0 breaking changes"},
		},
		{
			name: "sql for the connection dialect",
			args: []string{"migrate", "--dry-run"},
			want: []string{"-- dbforge migration: 02-12-2025-23-59-59-create-users-table", `CREATE TABLE "users"`},
		},
		{
			name: "rollback json",
			args: []string{"rollback", "--dry-run", "--format", "json", "--steps", "0"},
			want: []string{`"format": "json"`, `DROP TABLE \"teams\"`, `DROP TABLE \"users\"`},
		},
		{
			name: "preflight report",
			args: []string{"rollback", "--dry-run", "--preflight", "--unsafe", "--transaction=false", "--dialect", "mysql"},
			want: []string{"=== DRY RUN: 03-01-2026-12-30-00-create-teams-table ===", "[DANGER]", "=== DRY RUN COMPLETE ==="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runApp(t, NewApp(nil, nil), append(tt.args, "--config", ws.config)...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}

	_, err := os.Stat(ws.db)
	assert.True(t, os.IsNotExist(err), "dry run must not open the database")
}

func TestRunFlagErrors(t *testing.T) {
	ws := newWorkspace(t, fixtures)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "dialect without dry run", args: []string{"migrate", "--dialect", "mysql"}, wantErr: "--dialect is only allowed with --dry-run"},
		{name: "unknown dialect", args: []string{"migrate", "--dry-run", "--dialect", "db2"}, wantErr: `unknown dialect "db2"`},
		{name: "unknown format", args: []string{"migrate", "--dry-run", "--format", "yaml"}, wantErr: "unsupported format: yaml"},
		{name: "negative steps", args: []string{"rollback", "--steps", "-1"}, wantErr: "--steps must not be negative"},
		{name: "unknown connection", args: []string{"migrate", "--connection", "nope"}, wantErr: `unknown connection "nope"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runApp(t, NewApp(nil, nil), append(tt.args, "--config", ws.config)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
