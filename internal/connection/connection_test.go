package connection

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbforge/internal/config"
	"dbforge/internal/core"
)

func newConfig(conns map[string]config.Connection, def string) *config.Config {
	cfg := config.Default()
	cfg.Connections = conns
	cfg.DefaultConnection = def
	return cfg
}

func TestRegistryOpensSQLiteOnce(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "app.db")
	reg := NewRegistry(newConfig(map[string]config.Connection{
		"local": {Dialect: "sqlite3", DSN: dsn},
	}, "local"))

	first, err := reg.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "local", first.Name)
	assert.Equal(t, core.DialectSQLite, first.Dialect)

	second, err := reg.Get(context.Background(), "local")
	require.NoError(t, err)
	assert.Same(t, first.DB, second.DB)

	_, err = first.DB.Exec("CREATE TABLE t (id INTEGER)")
	require.NoError(t, err)

	require.NoError(t, reg.Close())
	assert.Error(t, first.DB.Ping())
}

func TestRegistryErrors(t *testing.T) {
	tests := []struct {
		name    string
		conn    config.Connection
		wantErr error
		errText string
	}{
		{
			name:    "oracle has no driver",
			conn:    config.Connection{Dialect: "oracle", DSN: "oracle://scott@db/orcl"},
			wantErr: core.ErrUnsupportedFeature,
		},
		{
			name:    "malformed mysql dsn",
			conn:    config.Connection{Dialect: "mysql", DSN: "not a dsn"},
			errText: "invalid mysql dsn",
		},
		{
			name:    "malformed postgres dsn",
			conn:    config.Connection{Dialect: "postgres", DSN: "postgres://%zz"},
			errText: "invalid postgresql dsn",
		},
		{
			name:    "unknown dialect",
			conn:    config.Connection{Dialect: "db2", DSN: "x"},
			errText: `unknown dialect "db2"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry(newConfig(map[string]config.Connection{"c": tt.conn}, "c"))
			reg.WithOpener(func(string, string) (*sql.DB, error) {
				t.Fatal("opener must not be called")
				return nil, nil
			})
			_, err := reg.Get(context.Background(), "c")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errText != "" {
				assert.Contains(t, err.Error(), tt.errText)
			}
		})
	}
}

func TestRegistryPingFailureClosesHandle(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	var gotDriver, gotDSN string
	reg := NewRegistry(newConfig(map[string]config.Connection{
		"primary": {Dialect: "mariadb", DSN: "app:secret@tcp(db:3306)/app"},
	}, "")).WithOpener(func(driver, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driver, dsn
		return db, nil
	})

	_, err = reg.Get(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping database: connection refused")
	assert.Equal(t, "mysql", gotDriver)
	assert.Equal(t, "app:secret@tcp(db:3306)/app", gotDSN)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistryUnknownConnection(t *testing.T) {
	reg := NewRegistry(newConfig(map[string]config.Connection{
		"a": {Dialect: "sqlite", DSN: "a.db"},
	}, "a"))
	_, err := reg.Get(context.Background(), "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown connection "b"`)
}

func TestDriverName(t *testing.T) {
	tests := map[core.Dialect]string{
		core.DialectMySQL:      "mysql",
		core.DialectMariaDB:    "mysql",
		core.DialectPostgreSQL: "pgx",
		core.DialectSQLServer:  "sqlserver",
		core.DialectSQLite:     "sqlite",
	}
	for d, want := range tests {
		got, err := DriverName(d)
		require.NoError(t, err, d)
		assert.Equal(t, want, got, d)
	}
}

func TestValidateDSN(t *testing.T) {
	assert.NoError(t, ValidateDSN(core.DialectMySQL, "root:pw@tcp(localhost:3306)/app?parseTime=true"))
	assert.NoError(t, ValidateDSN(core.DialectPostgreSQL, "postgres://app:pw@localhost:5432/app?sslmode=disable"))
	assert.NoError(t, ValidateDSN(core.DialectSQLServer, "sqlserver://sa:pw@localhost:1433?database=app"))
	assert.NoError(t, ValidateDSN(core.DialectSQLite, "file:app.db?_pragma=foreign_keys(1)"))
	assert.Error(t, ValidateDSN(core.DialectSQLite, ""))
}
