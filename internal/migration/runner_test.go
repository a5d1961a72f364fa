package migration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbforge/internal/dialect/sqlite"
	"dbforge/internal/testutil"
)

type recordingApplier struct {
	applied []string
	failOn  string
}

func (a *recordingApplier) Apply(_ context.Context, m *Migration) error {
	if m.Name == a.failOn {
		return errors.New("boom")
	}
	a.applied = append(a.applied, m.Name)
	return nil
}

var runnerFiles = map[string]string{
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
	"02-12-2025-23-59-59-create-users-table.toml": `
table = "users"
[up]
action = "create"
  [[up.columns]]
  name = "id"
  type = "integer"
  primary_key = true
[down]
action = "drop"
`,
	"15-01-2026-08-00-00-alter-users-table.toml": `
table = "users"
[up]
action = "alter"
  [[up.columns]]
  name = "team_id"
  type = "integer"
  nullable = true
[down]
action = "alter"
drop_columns = ["team_id"]
`,
}

func newRunner(t *testing.T, files map[string]string) (*Runner, *recordingApplier) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	p, err := sqlite.New()
	require.NoError(t, err)
	applier := &recordingApplier{}
	return &Runner{Dir: dir, Profile: p, Applier: applier, Logger: testutil.NewTestLogger(t)}, applier
}

func TestRunnerMigrate(t *testing.T) {
	r, applier := newRunner(t, runnerFiles)

	plans, err := r.Migrate(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, []string{
		"02-12-2025-23-59-59-create-users-table",
		"03-01-2026-12-30-00-create-teams-table",
		"15-01-2026-08-00-00-alter-users-table",
	}, applier.applied)
	assert.Equal(t, []string{`ALTER TABLE "users" ADD COLUMN "team_id" INTEGER NULL`}, plans[2].SQLStatements())
}

func TestRunnerRollback(t *testing.T) {
	r, applier := newRunner(t, runnerFiles)

	plans, err := r.Rollback(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"15-01-2026-08-00-00-alter-users-table",
		"03-01-2026-12-30-00-create-teams-table",
	}, applier.applied)
	assert.Equal(t, []string{`ALTER TABLE "users" DROP COLUMN "team_id"`}, plans[0].SQLStatements())
	assert.Equal(t, []string{`DROP TABLE "teams"`}, plans[1].SQLStatements())

	applier.applied = nil
	_, err = r.Rollback(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, applier.applied, 3)
}

func TestRunnerStopsOnFailure(t *testing.T) {
	r, applier := newRunner(t, runnerFiles)
	applier.failOn = "03-01-2026-12-30-00-create-teams-table"

	_, err := r.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "03-01-2026-12-30-00-create-teams-table: boom")
	assert.Equal(t, []string{"02-12-2025-23-59-59-create-users-table"}, applier.applied)
}

func TestRunnerBuildsEverythingFirst(t *testing.T) {
	files := map[string]string{
		"01-01-2026-00-00-00-create-users-table.toml": runnerFiles["02-12-2025-23-59-59-create-users-table.toml"],
		"02-01-2026-00-00-00-alter-users-table.toml":  "table = \"users\"\n[up]\naction = \"alter\"\n[[up.columns]]\nname = \"id\"\ntype = \"bigint\"\nchange = true\n",
	}
	r, applier := newRunner(t, files)

	_, err := r.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "02-01-2026-00-00-00-alter-users-table")
	assert.Empty(t, applier.applied)
}

func TestRunnerErrors(t *testing.T) {
	t.Run("empty_directory", func(t *testing.T) {
		r, _ := newRunner(t, nil)
		_, err := r.Migrate(context.Background())
		require.ErrorIs(t, err, ErrNoMigrations)
	})

	t.Run("no_applier", func(t *testing.T) {
		r, _ := newRunner(t, runnerFiles)
		r.Applier = nil
		_, err := r.Migrate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no applier")
	})

	t.Run("canceled_context", func(t *testing.T) {
		r, applier := newRunner(t, runnerFiles)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := r.Migrate(ctx)
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, applier.applied)
	})

	t.Run("invalid_document", func(t *testing.T) {
		r, _ := newRunner(t, map[string]string{"01-01-2026-00-00-00-create-users-table.toml": "table = \"users\"\n"})
		_, err := r.Plan(Up, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "up step is required")
	})
}
