package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbforge/internal/dialect/mysql"
	"dbforge/internal/parser/toml"
)

var scaffoldTime = time.Date(2026, time.October, 15, 14, 30, 0, 0, time.UTC)

func TestScaffoldParsesAndBuilds(t *testing.T) {
	p, err := mysql.New()
	require.NoError(t, err)

	tests := []struct {
		action   toml.Action
		title    string
		wantUp   []string
		wantDown []string
	}{
		{
			action: toml.ActionCreate,
			title:  "# Create User Accounts Table",
			wantUp: []string{
				"CREATE TABLE `user_accounts` (`id` BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY, `created_at` TIMESTAMP DEFAULT CURRENT_TIMESTAMP)",
			},
			wantDown: []string{"DROP TABLE `user_accounts`"},
		},
		{
			action:   toml.ActionAlter,
			title:    "# Alter User Accounts Table",
			wantUp:   []string{},
			wantDown: []string{},
		},
		{
			action:   toml.ActionDrop,
			title:    "# Drop User Accounts Table",
			wantUp:   []string{"DROP TABLE `user_accounts`"},
			wantDown: []string{"CREATE TABLE `user_accounts` (`id` BIGINT PRIMARY KEY)"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			content, err := Scaffold(tt.action, "user_accounts", scaffoldTime)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(content, tt.title+"\n# Created 2026-10-15T14:30:00Z\n"), content)
			assert.NotRegexp(t, `\{(action|action_phrase|created_at|table_name|up|down)\}`, content)
			assert.Contains(t, content, "[up]\naction = \""+string(tt.action)+"\"\n")

			doc, err := toml.NewParser().Parse(strings.NewReader(content))
			require.NoError(t, err)
			assert.Equal(t, "user_accounts", doc.Table)
			assert.Equal(t, string(tt.action), doc.Up.Action)

			m, err := Build(p, doc, "scaffold", Up)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUp, m.SQLStatements())
			assert.Equal(t, tt.wantDown, m.RollbackStatements())
		})
	}
}

func TestScaffoldErrors(t *testing.T) {
	_, err := Scaffold(toml.ActionCreate, "user accounts", scaffoldTime)
	require.Error(t, err)

	_, err = Scaffold(toml.Action("truncate"), "users", scaffoldTime)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no scaffold for action "truncate"`)
}

func TestWriteScaffold(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")

	path, err := WriteScaffold(dir, toml.ActionCreate, "users", scaffoldTime)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "15-10-2026-14-30-00-create-users-table.toml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `table = "users"`)

	_, err = WriteScaffold(dir, toml.ActionCreate, "users", scaffoldTime)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	files, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "users", files[0].Stem.Table)
}
