package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dbforge/internal/dialect"
	"dbforge/internal/parser/toml"
)

// Applier executes a built plan against a database.
type Applier interface {
	Apply(ctx context.Context, m *Migration) error
}

// ErrNoMigrations is returned when the migrations directory holds no
// migration files.
var ErrNoMigrations = errors.New("migration: no migration files found")

// Runner loads the migration files of Dir, builds them for Profile and
// hands each plan to Applier.
type Runner struct {
	Dir     string
	Profile *dialect.Profile
	Applier Applier
	Logger  *slog.Logger
}

// Migrate applies every migration in ascending creation order.
func (r *Runner) Migrate(ctx context.Context) ([]*Migration, error) {
	plans, err := r.Plan(Up, 0)
	if err != nil {
		return nil, err
	}
	return plans, r.run(ctx, Up, plans)
}

// Rollback reverses the newest steps migrations, newest first. steps <= 0
// reverses all of them.
func (r *Runner) Rollback(ctx context.Context, steps int) ([]*Migration, error) {
	plans, err := r.Plan(Down, steps)
	if err != nil {
		return nil, err
	}
	return plans, r.run(ctx, Down, plans)
}

// Plan builds the first limit plans in dir order without applying them. Every
// file is built before anything runs so a broken file stops the whole batch.
func (r *Runner) Plan(dir Direction, limit int) ([]*Migration, error) {
	if r.Profile == nil {
		return nil, errors.New("migration: runner has no dialect profile")
	}
	files, err := Discover(r.Dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMigrations, r.Dir)
	}
	Sort(files, dir)
	if limit > 0 && limit < len(files) {
		files = files[:limit]
	}

	parser := toml.NewParser()
	plans := make([]*Migration, 0, len(files))
	for _, f := range files {
		doc, err := parser.ParseFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("migration: %s: %w", f.Name(), err)
		}
		if doc.Table != f.Stem.Table {
			r.logger().Warn("migration table differs from file name",
				slog.String("file", f.Name()),
				slog.String("table", doc.Table))
		}
		m, err := Build(r.Profile, doc, f.Name(), dir)
		if err != nil {
			return nil, err
		}
		plans = append(plans, m)
	}
	return plans, nil
}

func (r *Runner) run(ctx context.Context, dir Direction, plans []*Migration) error {
	if r.Applier == nil {
		return errors.New("migration: runner has no applier")
	}
	log := r.logger().With(slog.String("direction", dir.String()), slog.String("dialect", string(r.Profile.Dialect())))
	for _, m := range plans {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Info("applying migration", slog.String("name", m.Name), slog.Int("statements", len(m.SQLStatements())))
		if err := r.Applier.Apply(ctx, m); err != nil {
			log.Error("migration failed", slog.String("name", m.Name), slog.Any("error", err))
			return fmt.Errorf("migration: %s: %w", m.Name, err)
		}
	}
	log.Info("migrations complete", slog.Int("count", len(plans)))
	return nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.DiscardHandler)
}
