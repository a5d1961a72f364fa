// Package connection opens the database handles declared in dbforge.toml.
// Handles are opened lazily, one per connection key, and shared afterwards.
package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"  // registers the "pgx" driver
	_ "github.com/microsoft/go-mssqldb" // registers the "sqlserver" driver
	"github.com/microsoft/go-mssqldb/msdsn"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"dbforge/internal/config"
	"dbforge/internal/core"
)

// noCopy trips go vet's copylocks check when a Registry is copied.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Conn is an open handle with the dialect it was declared with.
type Conn struct {
	Name    string
	Dialect core.Dialect
	DB      *sql.DB
}

// OpenFunc opens a handle for a database/sql driver name and DSN.
type OpenFunc func(driver, dsn string) (*sql.DB, error)

// Registry hands out one *sql.DB per connection key.
type Registry struct {
	_ noCopy

	cfg  *config.Config
	open OpenFunc

	mu    sync.Mutex
	conns map[string]*Conn
}

// NewRegistry returns a registry over the connections in cfg.
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{cfg: cfg, open: sql.Open, conns: make(map[string]*Conn)}
}

// WithOpener replaces sql.Open. Tests use it to hand out sqlmock handles.
func (r *Registry) WithOpener(open OpenFunc) *Registry {
	r.open = open
	return r
}

// Get returns the handle for name, or the default connection when name is
// empty. The first call opens and pings the database; later calls return the
// same handle.
func (r *Registry) Get(ctx context.Context, name string) (*Conn, error) {
	key, decl, err := r.cfg.Connection(name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.conns[key]; ok {
		return c, nil
	}

	d, err := core.ParseDialect(decl.Dialect)
	if err != nil {
		return nil, fmt.Errorf("connection %s: %w", key, err)
	}
	driver, err := DriverName(d)
	if err != nil {
		return nil, fmt.Errorf("connection %s: %w", key, err)
	}
	if err := ValidateDSN(d, decl.DSN); err != nil {
		return nil, fmt.Errorf("connection %s: %w", key, err)
	}

	db, err := r.open(driver, decl.DSN)
	if err != nil {
		return nil, fmt.Errorf("connection %s: failed to open database connection: %w", key, err)
	}
	if pingErr := db.PingContext(ctx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("connection %s: failed to ping database: %v; additionally failed to close connection: %w", key, pingErr, closeErr)
		}
		return nil, fmt.Errorf("connection %s: failed to ping database: %w", key, pingErr)
	}

	c := &Conn{Name: key, Dialect: d, DB: db}
	r.conns[key] = c
	return c, nil
}

// Close closes every handle opened so far.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for key, c := range r.conns {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("connection %s: %w", key, err))
		}
		delete(r.conns, key)
	}
	return errors.Join(errs...)
}

// DriverName maps a dialect to its database/sql driver.
func DriverName(d core.Dialect) (string, error) {
	switch d {
	case core.DialectMySQL, core.DialectMariaDB:
		return "mysql", nil
	case core.DialectPostgreSQL:
		return "pgx", nil
	case core.DialectSQLServer:
		return "sqlserver", nil
	case core.DialectSQLite:
		return "sqlite", nil
	case core.DialectOracle:
		return "", &core.UnsupportedFeatureError{Dialect: d, Key: "database connections (no Oracle driver is bundled; use --dry-run to render SQL)"}
	default:
		return "", fmt.Errorf("unknown dialect %q", d)
	}
}

// ValidateDSN parses dsn with the driver's own parser so a malformed DSN is
// reported before anything is dialed.
func ValidateDSN(d core.Dialect, dsn string) error {
	var err error
	switch d {
	case core.DialectMySQL, core.DialectMariaDB:
		_, err = mysql.ParseDSN(dsn)
	case core.DialectPostgreSQL:
		_, err = pgx.ParseConfig(dsn)
	case core.DialectSQLServer:
		_, err = msdsn.Parse(dsn)
	case core.DialectSQLite:
		if dsn == "" {
			err = errors.New("empty path")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid %s dsn: %w", d, err)
	}
	return nil
}
