package ddl

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/pingcap/tidb/pkg/parser"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"dbforge/internal/core"
	"dbforge/internal/dialect"
	"dbforge/internal/dialect/mysql"
	"dbforge/internal/dialect/oracle"
	"dbforge/internal/dialect/postgres"
	"dbforge/internal/dialect/sqlite"
	"dbforge/internal/dialect/sqlserver"
)

func postsBlueprint(t *testing.T) *Blueprint {
	t.Helper()
	b := New(profile(t, mysql.New), "posts")
	b.BigInteger("id", Unsigned, AutoIncrement).PrimaryKey()
	b.BigInteger("user_id", Unsigned).NotNull()
	b.Varchar("title", 200).NotNull().Comment("Post title")
	b.Text("body").Nullable()
	b.Unique("title")
	b.Foreign("user_id").References("users", "id").OnDelete(core.ActionCascade)
	b.Index("user_id")
	b.FullTextIndex("title", "body")
	require.NoError(t, b.Err())
	return b
}

func TestRenderCreateTableMySQL(t *testing.T) {
	b := postsBlueprint(t)

	stmts, err := RenderCreateTable(b.Profile(), b)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE TABLE `posts` (" +
			"`id` BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY, " +
			"`user_id` BIGINT UNSIGNED NOT NULL, " +
			"`title` VARCHAR(200) NOT NULL COMMENT 'Post title', " +
			"`body` TEXT NULL, " +
			"CONSTRAINT `uq_posts_title` UNIQUE (`title`), " +
			"CONSTRAINT `fk_posts_user_id` FOREIGN KEY (`user_id`) REFERENCES `users` (`id`) ON DELETE CASCADE)",
		"CREATE INDEX `idx_posts_user_id` ON `posts` (`user_id`)",
		"CREATE FULLTEXT INDEX `ft_posts_title_body` ON `posts` (`title`, `body`)",
	}, stmts)
}

func TestRenderedMySQLParses(t *testing.T) {
	b := postsBlueprint(t)
	stmts, err := RenderCreateTable(b.Profile(), b)
	require.NoError(t, err)

	alter := New(b.Profile(), "posts")
	alter.DropColumn("body")
	alter.Varchar("slug", 80).NotNull()
	alter.UniqueIndex("slug")
	alter.RenameTo("articles")
	more, err := RenderAlterTable(alter.Profile(), alter)
	require.NoError(t, err)

	p := parser.New()
	for _, sql := range append(stmts, more...) {
		_, _, err := p.Parse(sql, "", "")
		assert.NoError(t, err, sql)
	}
}

func TestRenderCreateTablePostgres(t *testing.T) {
	b := New(profile(t, postgres.New), "accounts")
	b.Integer("id", AutoIncrement).PrimaryKey()
	b.Varchar("email", 0).NotNull().Unique()
	b.Text("bio")
	b.Timestamp("created_at").Default(Raw("CURRENT_TIMESTAMP"))
	b.Check("char_length(email) > 3")
	b.FullTextIndex("email", "bio")

	stmts, err := RenderCreateTable(b.Profile(), b)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`CREATE TABLE "accounts" (` +
			`"id" INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY, ` +
			`"email" VARCHAR(255) NOT NULL UNIQUE, ` +
			`"bio" TEXT, ` +
			`"created_at" TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP, ` +
			`CONSTRAINT "ck_accounts_1" CHECK (char_length(email) > 3))`,
		`CREATE INDEX "ft_accounts_email_bio" ON "accounts" USING GIN (to_tsvector('english', "email" || ' ' || "bio"))`,
	}, stmts)
}

func TestConstraintOrderPerDialect(t *testing.T) {
	t.Run("sqlite_autoincrement_after_primary_key", func(t *testing.T) {
		b := New(profile(t, sqlite.New), "t")
		b.Integer("id", AutoIncrement).PrimaryKey().NotNull()
		got, err := RenderColumns(b.Profile(), b)
		require.NoError(t, err)
		assert.Equal(t, `"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT`, got)
	})

	t.Run("sqlserver_identity_and_bit_default", func(t *testing.T) {
		b := New(profile(t, sqlserver.New), "t")
		b.Integer("id", AutoIncrement).PrimaryKey()
		b.Boolean("active").NotNull().Default(true)
		b.Varchar("name", 40).Default("x")
		got, err := RenderColumns(b.Profile(), b)
		require.NoError(t, err)
		assert.Equal(t, "[id] INT IDENTITY(1,1) PRIMARY KEY, [active] BIT NOT NULL DEFAULT 1, [name] NVARCHAR(40) DEFAULT N'x'", got)
	})

	t.Run("oracle_default_before_not_null", func(t *testing.T) {
		b := New(profile(t, oracle.New), "t")
		b.Varchar("code", 10).NotNull().Default("x")
		got, err := RenderColumns(b.Profile(), b)
		require.NoError(t, err)
		assert.Equal(t, `"code" VARCHAR2(10) DEFAULT 'x' NOT NULL`, got)
	})
}

func TestRenderCompositeKeys(t *testing.T) {
	b := New(profile(t, postgres.New), "memberships")
	b.Integer("user_id").NotNull()
	b.Integer("team_id").NotNull()
	b.Primary("user_id", "team_id")
	b.Unique("user_id", "team_id").Named("memberships_unique")
	b.Foreign("team_id").References("teams", "id").OnDelete(core.ActionSetNull).OnUpdate(core.ActionCascade)

	stmts, err := RenderCreateTable(b.Profile(), b)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, `CREATE TABLE "memberships" (`+
		`"user_id" INTEGER NOT NULL, `+
		`"team_id" INTEGER NOT NULL, `+
		`CONSTRAINT "pk_memberships" PRIMARY KEY ("user_id", "team_id"), `+
		`CONSTRAINT "memberships_unique" UNIQUE ("user_id", "team_id"), `+
		`CONSTRAINT "fk_memberships_team_id" FOREIGN KEY ("team_id") REFERENCES "teams" ("id") ON DELETE SET NULL ON UPDATE CASCADE)`,
		stmts[0])
}

func TestRenderForeignKeyValidation(t *testing.T) {
	p := profile(t, mysql.New)

	tests := []struct {
		name    string
		declare func(b *Blueprint)
	}{
		{name: "missing_references", declare: func(b *Blueprint) { b.Foreign("user_id") }},
		{name: "column_count_mismatch", declare: func(b *Blueprint) { b.Foreign("a", "b").References("users", "id") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(p, "posts")
			b.Integer("user_id")
			tt.declare(b)
			require.NoError(t, b.Err())

			_, err := RenderCreateTable(p, b)
			var ve *core.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "references", ve.Field)
		})
	}
}

func TestRenderCreateTableWithoutColumns(t *testing.T) {
	b := New(profile(t, mysql.New), "empty")
	_, err := RenderCreateTable(b.Profile(), b)
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestRenderAlterTableMySQL(t *testing.T) {
	b := New(profile(t, mysql.New), "users")
	b.DropColumn("legacy")
	b.RenameColumn("fullname", "full_name")
	b.Varchar("nickname", 50).Nullable()
	b.Varchar("email", 320).NotNull().Change()
	b.Index("nickname")
	b.RenameTo("members")
	require.NoError(t, b.Err())

	stmts, err := RenderAlterTable(b.Profile(), b)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ALTER TABLE `users` DROP COLUMN `legacy`",
		"ALTER TABLE `users` RENAME COLUMN `fullname` TO `full_name`",
		"ALTER TABLE `users` ADD COLUMN `nickname` VARCHAR(50) NULL",
		"ALTER TABLE `users` MODIFY COLUMN `email` VARCHAR(320) NOT NULL",
		"CREATE INDEX `idx_users_nickname` ON `users` (`nickname`)",
		"RENAME TABLE `users` TO `members`",
	}, stmts)
}

func TestRenderAlterTablePostgres(t *testing.T) {
	p := profile(t, postgres.New)

	t.Run("modify_splits_into_follow_ups", func(t *testing.T) {
		b := New(p, "users")
		b.Varchar("email", 320).NotNull().Default("none").Change()
		stmts, err := RenderAlterTable(p, b)
		require.NoError(t, err)
		assert.Equal(t, []string{
			`ALTER TABLE "users" ALTER COLUMN "email" TYPE VARCHAR(320)`,
			`ALTER TABLE "users" ALTER COLUMN "email" SET NOT NULL`,
			`ALTER TABLE "users" ALTER COLUMN "email" SET DEFAULT 'none'`,
		}, stmts)
	})

	t.Run("modify_nullable_drops_not_null", func(t *testing.T) {
		b := New(p, "users")
		b.Text("bio").Nullable().Change()
		stmts, err := RenderAlterTable(p, b)
		require.NoError(t, err)
		assert.Equal(t, []string{
			`ALTER TABLE "users" ALTER COLUMN "bio" TYPE TEXT`,
			`ALTER TABLE "users" ALTER COLUMN "bio" DROP NOT NULL`,
		}, stmts)
	})

	t.Run("modify_unique_is_unsupported", func(t *testing.T) {
		b := New(p, "users")
		b.Varchar("email", 0).Unique().Change()
		_, err := RenderAlterTable(p, b)
		var unsupported *core.UnsupportedFeatureError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, "modify_column unique", unsupported.Key)
	})

	t.Run("drops_and_constraints", func(t *testing.T) {
		b := New(p, "users")
		b.DropPrimary()
		b.DropForeignOn("org_id")
		b.DropIndex("idx_users_name")
		b.Integer("team_id")
		b.Foreign("team_id").References("teams", "id").OnDelete(core.ActionSetNull).OnUpdate(core.ActionCascade)
		b.RenameTo("people")

		stmts, err := RenderAlterTable(p, b)
		require.NoError(t, err)
		assert.Equal(t, []string{
			`ALTER TABLE "users" DROP CONSTRAINT "pk_users"`,
			`ALTER TABLE "users" DROP CONSTRAINT "fk_users_org_id"`,
			`DROP INDEX "idx_users_name"`,
			`ALTER TABLE "users" ADD COLUMN "team_id" INTEGER`,
			`ALTER TABLE "users" ADD CONSTRAINT "fk_users_team_id" FOREIGN KEY ("team_id") REFERENCES "teams" ("id") ON DELETE SET NULL ON UPDATE CASCADE`,
			`ALTER TABLE "users" RENAME TO "people"`,
		}, stmts)
	})
}

func TestAlterGates(t *testing.T) {
	t.Run("sqlserver_rename_column", func(t *testing.T) {
		b := New(profile(t, sqlserver.New), "users")
		b.RenameColumn("a", "b")
		var unsupported *core.UnsupportedFeatureError
		require.ErrorAs(t, b.Err(), &unsupported)
		assert.Equal(t, "rename_column", unsupported.Key)
	})

	t.Run("sqlite_drop_constraint", func(t *testing.T) {
		b := New(profile(t, sqlite.New), "users")
		b.DropConstraint("uq_users_email")
		require.ErrorIs(t, b.Err(), core.ErrUnsupportedFeature)
	})

	t.Run("sqlite_fulltext_index", func(t *testing.T) {
		b := New(profile(t, sqlite.New), "users")
		b.Text("bio")
		b.FullTextIndex("bio")
		require.ErrorIs(t, b.Err(), core.ErrUnsupportedFeature)
	})

	t.Run("first_error_wins", func(t *testing.T) {
		b := New(profile(t, sqlite.New), "users")
		b.DropConstraint("a")
		b.Varchar("name", -5)
		var unsupported *core.UnsupportedFeatureError
		require.ErrorAs(t, b.Err(), &unsupported)
		_, err := RenderAlterTable(b.Profile(), b)
		assert.Equal(t, b.Err(), err)
	})
}

func TestRenderUnderForeignProfile(t *testing.T) {
	b := New(profile(t, mysql.New), "users")
	b.Integer("id", Unsigned)

	_, err := RenderColumns(profile(t, postgres.New), b)
	var unsupported *core.UnsupportedFeatureError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, core.DialectPostgreSQL, unsupported.Dialect)
	assert.Equal(t, "unsigned", unsupported.Key)
}

func TestRenderDropTable(t *testing.T) {
	got, err := RenderDropTable(profile(t, sqlserver.New), "dbo.users")
	require.NoError(t, err)
	assert.Equal(t, "DROP TABLE [dbo].[users]", got)

	got, err = RenderDropTableIfExists(profile(t, postgres.New), "users")
	require.NoError(t, err)
	assert.Equal(t, `DROP TABLE IF EXISTS "users"`, got)

	_, err = RenderDropTableIfExists(profile(t, oracle.New), "users")
	require.ErrorIs(t, err, core.ErrUnsupportedFeature)

	_, err = RenderDropTable(profile(t, mysql.New), "")
	require.Error(t, err)
}

func TestSQLiteAutoIncrementRequiresPrimaryKey(t *testing.T) {
	p := profile(t, sqlite.New)

	b := New(p, "t")
	b.BigInteger("id", AutoIncrement)
	b.Varchar("name", 10)
	require.NoError(t, b.Err())

	_, err := RenderCreateTable(p, b)
	var unsupported *core.UnsupportedFeatureError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, core.TableColumnConstraint, unsupported.Kind)
	assert.Equal(t, "autoincrement without primary_key", unsupported.Key)

	keyed := New(p, "t")
	keyed.BigInteger("id", AutoIncrement).PrimaryKey()
	keyed.Varchar("name", 10)
	stmts, err := RenderCreateTable(p, keyed)
	require.NoError(t, err)
	assert.Equal(t, []string{`CREATE TABLE "t" ("id" INTEGER PRIMARY KEY AUTOINCREMENT, "name" VARCHAR(10))`}, stmts)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(stmts[0])
	require.NoError(t, err)
}

func TestSQLServerModifyColumn(t *testing.T) {
	p := profile(t, sqlserver.New)

	t.Run("type_collation_and_nullability", func(t *testing.T) {
		b := New(p, "users")
		b.Varchar("name", 100).NotNull().Collation("Latin1_General_CI_AS").Change()
		stmts, err := RenderAlterTable(p, b)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"ALTER TABLE [users] ALTER COLUMN [name] NVARCHAR(100) COLLATE Latin1_General_CI_AS NOT NULL",
		}, stmts)
	})

	tests := []struct {
		name    string
		declare func(b *Blueprint)
		wantKey string
	}{
		{
			name:    "default",
			declare: func(b *Blueprint) { b.Varchar("name", 100).NotNull().Default("anon").Unique().Change() },
			wantKey: "modify_column default",
		},
		{
			name:    "unique",
			declare: func(b *Blueprint) { b.Varchar("name", 100).Unique().Change() },
			wantKey: "modify_column unique",
		},
		{
			name:    "primary_key",
			declare: func(b *Blueprint) { b.Integer("id").PrimaryKey().Change() },
			wantKey: "modify_column primary_key",
		},
		{
			name:    "identity",
			declare: func(b *Blueprint) { b.Integer("id", AutoIncrement).Change() },
			wantKey: "modify_column autoincrement",
		},
		{
			name:    "check",
			declare: func(b *Blueprint) { b.Integer("age").Check("age >= 0").Change() },
			wantKey: "modify_column check",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(p, "users")
			tt.declare(b)
			require.NoError(t, b.Err())

			_, err := RenderAlterTable(p, b)
			var unsupported *core.UnsupportedFeatureError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, core.TableAlterAction, unsupported.Kind)
			assert.Equal(t, tt.wantKey, unsupported.Key)
		})
	}

	t.Run("mysql_restates_everything", func(t *testing.T) {
		b := New(profile(t, mysql.New), "users")
		b.Varchar("name", 100).NotNull().Default("anon").Change()
		stmts, err := RenderAlterTable(b.Profile(), b)
		require.NoError(t, err)
		assert.Equal(t, []string{"ALTER TABLE `users` MODIFY COLUMN `name` VARCHAR(100) NOT NULL DEFAULT 'anon'"}, stmts)
	})
}

func TestRenderSinglePrimaryKey(t *testing.T) {
	p := profile(t, mysql.New)

	tests := []struct {
		name    string
		declare func(b *Blueprint)
		render  func(*dialect.Profile, *Blueprint) ([]string, error)
	}{
		{
			name: "column_and_table_key",
			declare: func(b *Blueprint) {
				b.Integer("id").PrimaryKey()
				b.Primary("id")
			},
			render: RenderCreateTable,
		},
		{
			name: "two_column_keys",
			declare: func(b *Blueprint) {
				b.Integer("id").PrimaryKey()
				b.Integer("tenant_id").PrimaryKey()
			},
			render: RenderCreateTable,
		},
		{
			name: "alter_adds_both",
			declare: func(b *Blueprint) {
				b.Integer("code").PrimaryKey()
				b.Primary("code").Named("users_pk")
			},
			render: RenderAlterTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(p, "users")
			tt.declare(b)
			require.NoError(t, b.Err())

			_, err := tt.render(p, b)
			var ve *core.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "primary_key", ve.Field)
		})
	}
}

func TestDropPrimaryByName(t *testing.T) {
	tests := []struct {
		name string
		ctor func() (*dialect.Profile, error)
		drop func(b *Blueprint)
		want string
	}{
		{
			name: "postgres_named",
			ctor: postgres.New,
			drop: func(b *Blueprint) { b.DropPrimary("users_pk") },
			want: `ALTER TABLE "users" DROP CONSTRAINT "users_pk"`,
		},
		{
			name: "sqlserver_named",
			ctor: sqlserver.New,
			drop: func(b *Blueprint) { b.DropPrimary("users_pk") },
			want: "ALTER TABLE [users] DROP CONSTRAINT [users_pk]",
		},
		{
			name: "sqlserver_generated",
			ctor: sqlserver.New,
			drop: func(b *Blueprint) { b.DropPrimary() },
			want: "ALTER TABLE [users] DROP CONSTRAINT [pk_users]",
		},
		{
			name: "blank_name_falls_back",
			ctor: postgres.New,
			drop: func(b *Blueprint) { b.DropPrimary(" ") },
			want: `ALTER TABLE "users" DROP CONSTRAINT "pk_users"`,
		},
		{
			name: "mysql_ignores_name",
			ctor: mysql.New,
			drop: func(b *Blueprint) { b.DropPrimary("users_pk") },
			want: "ALTER TABLE `users` DROP PRIMARY KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(profile(t, tt.ctor), "users")
			tt.drop(b)
			stmts, err := RenderAlterTable(b.Profile(), b)
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, stmts)
		})
	}
}

func TestRenderQuotesEachNameOnce(t *testing.T) {
	ctors := map[string]func() (*dialect.Profile, error){
		"mysql":     mysql.New,
		"postgres":  postgres.New,
		"sqlserver": sqlserver.New,
		"oracle":    oracle.New,
		"sqlite":    sqlite.New,
	}

	for name, ctor := range ctors {
		t.Run(name, func(t *testing.T) {
			p := profile(t, ctor)

			create := New(p, "accounts")
			create.Integer("id").NotNull()
			create.Varchar("email", 100).NotNull().Default("none")
			create.Text("bio").Nullable()
			stmts, err := RenderCreateTable(p, create)
			require.NoError(t, err)
			require.Len(t, stmts, 1)
			for _, ident := range []string{"accounts", "id", "email", "bio"} {
				assert.Equal(t, 1, strings.Count(stmts[0], p.QuoteIdentifier(ident)), "%s in %s", ident, stmts[0])
			}

			alter := New(p, "accounts")
			alter.DropColumn("legacy")
			alter.Varchar("nickname", 40).Nullable()
			stmts, err = RenderAlterTable(p, alter)
			require.NoError(t, err)
			require.Len(t, stmts, 2)
			assert.Equal(t, 1, strings.Count(stmts[0], p.QuoteIdentifier("legacy")), stmts[0])
			assert.Equal(t, 1, strings.Count(stmts[1], p.QuoteIdentifier("nickname")), stmts[1])
			for _, stmt := range stmts {
				assert.Equal(t, 1, strings.Count(stmt, p.QuoteIdentifier("accounts")), stmt)
			}
		})
	}
}
