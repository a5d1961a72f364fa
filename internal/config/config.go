// Package config loads dbforge.toml: the named database connections, the
// migrations directory and the logging settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"dbforge/internal/core"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "dbforge.toml"

const defaultMigrationsDir = "migrations"

// Config is the decoded dbforge.toml.
type Config struct {
	DefaultConnection string                `toml:"default_connection"`
	MigrationsDir     string                `toml:"migrations_dir"`
	Log               LogConfig             `toml:"log"`
	Connections       map[string]Connection `toml:"connections"`
}

// LogConfig maps the [log] table.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Connection maps one [connections.<key>] table.
type Connection struct {
	Dialect string `toml:"dialect"`
	DSN     string `toml:"dsn"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		MigrationsDir: defaultMigrationsDir,
		Log:           LogConfig{Level: "info", Format: "text"},
		Connections:   map[string]Connection{},
	}
}

// Load reads the config file at path. A .env file next to it is loaded into
// the environment first, then ${VAR} references in DSNs are expanded. A
// missing file at DefaultPath yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := loadEnvFile(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && filepath.Base(path) == DefaultPath {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
	}

	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = defaultMigrationsDir
	}
	for key, c := range cfg.Connections {
		c.DSN = expandEnvVars(c.DSN)
		cfg.Connections[key] = c
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

var reEnvVar = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} with the value of VAR. A bare $ is kept so
// passwords containing it survive.
func expandEnvVars(s string) string {
	return reEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// Validate checks every connection and the default connection reference.
func (c *Config) Validate() error {
	for _, key := range c.ConnectionNames() {
		conn := c.Connections[key]
		if _, err := core.ParseDialect(conn.Dialect); err != nil {
			return &core.ValidationError{Entity: "connection", Name: key, Field: "dialect", Message: err.Error()}
		}
		if strings.TrimSpace(conn.DSN) == "" {
			return &core.ValidationError{Entity: "connection", Name: key, Field: "dsn", Message: "dsn is empty"}
		}
	}
	if c.DefaultConnection != "" {
		if _, ok := c.Connections[c.DefaultConnection]; !ok {
			return &core.ValidationError{
				Entity:  "config",
				Name:    "default_connection",
				Message: fmt.Sprintf("connection %q is not declared", c.DefaultConnection),
			}
		}
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return &core.ValidationError{Entity: "config", Name: "log", Field: "level", Message: err.Error()}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return &core.ValidationError{Entity: "config", Name: "log", Field: "format", Message: fmt.Sprintf("unknown format %q; use text or json", c.Log.Format)}
	}
	return nil
}

// ConnectionNames returns the declared connection keys in sorted order.
func (c *Config) ConnectionNames() []string {
	names := make([]string, 0, len(c.Connections))
	for key := range c.Connections {
		names = append(names, key)
	}
	slices.Sort(names)
	return names
}

// Connection resolves name, or the default connection when name is empty.
// It returns the resolved key with the connection.
func (c *Config) Connection(name string) (string, Connection, error) {
	if name == "" {
		name = c.DefaultConnection
	}
	if name == "" {
		if len(c.Connections) != 1 {
			return "", Connection{}, errors.New("config: no connection selected; set default_connection or pass --connection")
		}
		name = c.ConnectionNames()[0]
	}
	conn, ok := c.Connections[name]
	if !ok {
		return "", Connection{}, fmt.Errorf("config: unknown connection %q", name)
	}
	return name, conn, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown level %q", s)
	}
	return level, nil
}

// NewLogger builds the slog logger described by the [log] table. override,
// when not empty, replaces the configured level.
func (c *Config) NewLogger(w io.Writer, override string) (*slog.Logger, error) {
	levelName := c.Log.Level
	if override != "" {
		levelName = override
	}
	level, err := parseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("config: log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
