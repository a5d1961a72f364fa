package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbforge/internal/core"
	"dbforge/internal/dialect/oracle"
	"dbforge/internal/dialect/postgres"
	"dbforge/internal/parser/toml"
)

const alterUsers = `
table = "users"

[up]
action = "alter"
drop_columns = ["legacy"]

  [[up.columns]]
  name = "nickname"
  type = "varchar"
  length = 40
  not_null = true

[down]
action = "alter"
drop_columns = ["nickname"]

  [[down.columns]]
  name = "legacy"
  type = "text"
`

func parseDoc(t *testing.T, src string) *toml.Document {
	t.Helper()
	doc, err := toml.NewParser().Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func TestBuildDirections(t *testing.T) {
	p, err := postgres.New()
	require.NoError(t, err)
	doc := parseDoc(t, alterUsers)

	up, err := Build(p, doc, "alter-users", Up)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`ALTER TABLE "users" DROP COLUMN "legacy"`,
		`ALTER TABLE "users" ADD COLUMN "nickname" VARCHAR(40) NOT NULL`,
	}, up.SQLStatements())
	assert.Equal(t, []string{
		`ALTER TABLE "users" DROP COLUMN "nickname"`,
		`ALTER TABLE "users" ADD COLUMN "legacy" TEXT`,
	}, up.RollbackStatements())
	assert.Equal(t, []string{"dropping column users.legacy discards its data"}, up.BreakingNotes())
	assert.Equal(t, []string{"column users.nickname is added NOT NULL without a default; the table must be empty"}, up.InfoNotes())
	assert.True(t, up.HasBreaking())
	for _, op := range up.Plan() {
		assert.Equal(t, "alter-users", op.Source)
	}

	down, err := Build(p, doc, "alter-users", Down)
	require.NoError(t, err)
	assert.Equal(t, up.RollbackStatements(), down.SQLStatements())
	assert.Equal(t, up.SQLStatements(), down.RollbackStatements())
	assert.Equal(t, []string{"dropping column users.nickname discards its data"}, down.BreakingNotes())
}

func TestBuildStatementRisk(t *testing.T) {
	p, err := postgres.New()
	require.NoError(t, err)

	tests := []struct {
		name string
		src  string
		want core.OperationRisk
	}{
		{
			name: "create",
			src:  "table = \"t\"\n[up]\naction = \"create\"\n[[up.columns]]\nname = \"id\"\ntype = \"int\"\n",
			want: core.RiskInfo,
		},
		{
			name: "drop",
			src:  "table = \"t\"\n[up]\naction = \"drop\"\nif_exists = true\n",
			want: core.RiskBreaking,
		},
		{
			name: "modify",
			src:  "table = \"t\"\n[up]\naction = \"alter\"\n[[up.columns]]\nname = \"id\"\ntype = \"bigint\"\nchange = true\n",
			want: core.RiskWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(p, parseDoc(t, tt.src), tt.name, Up)
			require.NoError(t, err)
			require.NotEmpty(t, m.Operations)
			assert.Equal(t, core.OperationSQL, m.Operations[0].Kind)
			assert.Equal(t, tt.want, m.Operations[0].Risk)
		})
	}
}

func TestBuildWithoutReverseStep(t *testing.T) {
	p, err := postgres.New()
	require.NoError(t, err)
	doc := parseDoc(t, "table = \"t\"\n[up]\naction = \"drop\"\nif_exists = true\n")

	m, err := Build(p, doc, "drop-t", Up)
	require.NoError(t, err)
	assert.Equal(t, []string{`DROP TABLE IF EXISTS "t"`}, m.SQLStatements())
	assert.Empty(t, m.RollbackStatements())
	assert.Equal(t, []string{"drop-t has no down step; it cannot be reversed"}, m.InfoNotes())

	_, err = Build(p, doc, "drop-t", Down)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no down step")
}

func TestBuildUnsupportedFeature(t *testing.T) {
	p, err := oracle.New()
	require.NoError(t, err)

	_, err = Build(p, parseDoc(t, "table = \"t\"\n[up]\naction = \"drop\"\nif_exists = true\n"), "drop-t", Up)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnsupportedFeature)
	assert.Contains(t, err.Error(), "migration: drop-t: up:")

	doc := parseDoc(t, `
table = "t"
[up]
action = "create"
  [[up.columns]]
  name = "id"
  type = "int"
[down]
action = "drop"
if_exists = true
`)
	_, err = Build(p, doc, "create-t", Up)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnsupportedFeature)
	assert.Contains(t, err.Error(), "down:")
}
