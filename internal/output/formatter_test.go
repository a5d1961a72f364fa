package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbforge/internal/core"
	"dbforge/internal/migration"
)

func samplePlan() *migration.Migration {
	m := &migration.Migration{Name: "15-01-2026-08-00-00-alter-users-table"}
	m.AddStatementWithRisk(`ALTER TABLE "users" DROP COLUMN "legacy"`, core.RiskBreaking)
	m.AddStatement(`ALTER TABLE "users" ADD COLUMN "nickname" VARCHAR(40);`)
	m.AddRollbackStatement(`ALTER TABLE "users" DROP COLUMN "nickname"`)
	m.AddRollbackStatement(`ALTER TABLE "users" ADD COLUMN "legacy" TEXT`)
	m.AddBreaking("dropping column users.legacy discards its data")
	m.AddNote("table users is renamed to members")
	return m
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name string
		want Formatter
	}{
		{name: "", want: sqlFormatter{}},
		{name: "sql", want: sqlFormatter{}},
		{name: "  SQL  ", want: sqlFormatter{}},
		{name: "json", want: jsonFormatter{}},
		{name: "JSON", want: jsonFormatter{}},
		{name: "summary", want: summaryFormatter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(tt.name)
			require.NoError(t, err)
			assert.IsType(t, tt.want, f)
		})
	}

	_, err := NewFormatter("yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format: yaml")
}

func TestSQLFormatMigration(t *testing.T) {
	got, err := sqlFormatter{}.FormatMigration(samplePlan())
	require.NoError(t, err)

	assert.Equal(t, `-- dbforge migration: 15-01-2026-08-00-00-alter-users-table
-- Review before running in production.

-- BREAKING CHANGES (manual review required)
-- - dropping column users.legacy discards its data

-- NOTES
-- - table users is renamed to members

-- SQL
-- [BREAKING]
ALTER TABLE "users" DROP COLUMN "legacy";
ALTER TABLE "users" ADD COLUMN "nickname" VARCHAR(40);

-- ROLLBACK SQL (run separately)
-- ALTER TABLE "users" DROP COLUMN "nickname";
-- ALTER TABLE "users" ADD COLUMN "legacy" TEXT;
`, got)
}

func TestSQLFormatEdgeCases(t *testing.T) {
	got, err := sqlFormatter{}.FormatMigration(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = sqlFormatter{}.FormatMigration(&migration.Migration{})
	require.NoError(t, err)
	assert.Contains(t, got, "-- No SQL statements generated.")

	got, err = sqlFormatter{}.FormatPlans(nil)
	require.NoError(t, err)
	assert.Equal(t, "-- No migrations.\n", got)

	got, err = sqlFormatter{}.FormatPlans([]*migration.Migration{samplePlan(), {Name: "second"}})
	require.NoError(t, err)
	assert.Contains(t, got, "-- dbforge migration: second")
}

func TestJSONFormatMigration(t *testing.T) {
	got, err := jsonFormatter{}.FormatMigration(samplePlan())
	require.NoError(t, err)

	var payload migrationPayload
	require.NoError(t, json.Unmarshal([]byte(got), &payload))
	assert.Equal(t, "json", payload.Format)
	assert.Equal(t, "15-01-2026-08-00-00-alter-users-table", payload.Name)
	assert.Equal(t, migrationSummary{BreakingChanges: 1, Notes: 1, SQLStatements: 2, RollbackStatements: 2}, payload.Summary)
	assert.Equal(t, []string{
		`ALTER TABLE "users" DROP COLUMN "legacy";`,
		`ALTER TABLE "users" ADD COLUMN "nickname" VARCHAR(40);`,
	}, payload.SQL)
	assert.Equal(t, `ALTER TABLE "users" DROP COLUMN "nickname";`, payload.Rollback[0])

	got, err = jsonFormatter{}.FormatMigration(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"format":"json","summary":{"breakingChanges":0,"notes":0,"sqlStatements":0,"rollbackStatements":0}}`, got)
}

func TestJSONFormatPlans(t *testing.T) {
	got, err := jsonFormatter{}.FormatPlans([]*migration.Migration{samplePlan()})
	require.NoError(t, err)

	var payload plansPayload
	require.NoError(t, json.Unmarshal([]byte(got), &payload))
	require.Len(t, payload.Migrations, 1)
	assert.Equal(t, 2, payload.Migrations[0].Summary.SQLStatements)

	got, err = jsonFormatter{}.FormatPlans(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"format":"json","migrations":[]}`, got)
}

func TestSummaryFormat(t *testing.T) {
	got, err := summaryFormatter{}.FormatMigration(samplePlan())
	require.NoError(t, err)
	assert.Contains(t, got, "Migration Summary: 15-01-2026-08-00-00-alter-users-table\n")
	assert.Contains(t, got, "SQL Statements:      2\n")
	assert.Contains(t, got, "Rollback Statements: 2\n")
	assert.Contains(t, got, "Breaking Changes: 1\n   - dropping column users.legacy discards its data\n")
	assert.Contains(t, got, "Notes: 1\n")

	got, err = summaryFormatter{}.FormatMigration(nil)
	require.NoError(t, err)
	assert.Equal(t, "No migration operations.\n", got)

	got, err = summaryFormatter{}.FormatPlans([]*migration.Migration{samplePlan(), samplePlan()})
	require.NoError(t, err)
	assert.Contains(t, got, "Total: 2 migrations, 4 statements, 2 breaking changes\n")
}

func TestWritePlans(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlans(&buf, summaryFormatter{}, nil))
	assert.Equal(t, "No migrations.\n", buf.String())
}
