package migration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dbforge/internal/core"
	"dbforge/internal/dialect"
	"dbforge/internal/parser/toml"
)

const skeleton = `# {action_phrase}
# Created {created_at}

table = "{table_name}"

[up]
action = "{action}"
{up}
[down]
{down}`

// snippet is the canned up and down body of one scaffold action.
type snippet struct {
	up, down string
}

var snippets = map[toml.Action]snippet{
	toml.ActionCreate: {
		up: `
  [[up.columns]]
  name = "id"
  type = "bigint"
  unsigned = true
  auto_increment = true
  primary_key = true

  [[up.columns]]
  name = "created_at"
  type = "timestamp"
  default_raw = "CURRENT_TIMESTAMP"
`,
		down: `action = "drop"
`,
	},
	toml.ActionAlter: {
		up: `# drop_columns = ["legacy"]
# rename_columns = [{ from = "old_name", to = "new_name" }]

#  [[up.columns]]
#  name = "nickname"
#  type = "varchar"
#  length = 64
#  nullable = true
`,
		down: `action = "alter"
# drop_columns = ["nickname"]
`,
	},
	toml.ActionDrop: {
		up: `# if_exists = true
`,
		down: `action = "create"

  [[down.columns]]
  name = "id"
  type = "bigint"
  primary_key = true
`,
	},
}

var titler = cases.Title(language.English)

// Scaffold renders a new migration document for table.
func Scaffold(action toml.Action, table string, now time.Time) (string, error) {
	if err := core.ValidateIdentifier("table", table); err != nil {
		return "", err
	}
	body, ok := snippets[action]
	if !ok {
		return "", fmt.Errorf("migration: no scaffold for action %q", action)
	}
	return dialect.Substitute(skeleton, dialect.Values{
		"action_phrase": titler.String(string(action)+" "+strings.ReplaceAll(table, "_", " ")) + " Table",
		"created_at":    now.Format(time.RFC3339),
		"table_name":    table,
		"action":        string(action),
		"up":            body.up,
		"down":          body.down,
	}), nil
}

// WriteScaffold writes a scaffolded document into dir and returns its path.
// It never overwrites an existing file.
func WriteScaffold(dir string, action toml.Action, table string, now time.Time) (string, error) {
	content, err := Scaffold(action, table, now)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("migration: create directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, FileName(action, table, now))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("migration: %s already exists", path)
		}
		return "", fmt.Errorf("migration: create %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return "", fmt.Errorf("migration: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("migration: close %s: %w", path, err)
	}
	return path, nil
}
