package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dbforge/internal/apply"
	"dbforge/internal/migration"
	"dbforge/internal/output"
)

// runFlags are shared by migrate and rollback.
type runFlags struct {
	dir                   string
	dialect               string
	dryRun                bool
	preflight             bool
	format                string
	unsafe                bool
	transaction           bool
	allowNonTransactional bool
	timeout               int
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "dir", "d", "", "Migrations directory (default: migrations_dir from the config)")
	cmd.Flags().StringVar(&f.dialect, "dialect", "", "Render for this dialect instead of the connection's (dry run only)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Print the plan without connecting to the database")
	cmd.Flags().BoolVar(&f.preflight, "preflight", false, "With --dry-run, print the preflight report of every plan instead of formatting it")
	cmd.Flags().StringVarP(&f.format, "format", "f", "sql", "Dry run output format: sql, json or summary")
	cmd.Flags().BoolVarP(&f.unsafe, "unsafe", "u", false, "Allow destructive operations (DROP, TRUNCATE, etc.)")
	cmd.Flags().BoolVarP(&f.transaction, "transaction", "t", true, "Run each migration in a transaction if possible")
	cmd.Flags().BoolVar(&f.allowNonTransactional, "allow-non-transactional", false, "Allow non-transactional DDL when --transaction is set")
	cmd.Flags().IntVar(&f.timeout, "timeout", 300, "Timeout in seconds")
}

func (a *App) migrateCommand() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply every migration in ascending creation order",
		Long: `Migrate builds every migration file in the migrations directory for the
selected dialect and applies their up steps, oldest first.

Before anything runs, each plan passes preflight checks:
- Warns about potentially blocking DDL operations
- Refuses destructive operations (DROP, TRUNCATE, etc.) without --unsafe
- Checks transaction safety of the migration

Examples:
  dbforge migrate --dry-run --dialect postgresql
  dbforge migrate --connection staging --format summary --dry-run
  dbforge migrate --unsafe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), migration.Up, 0, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *App) rollbackCommand() *cobra.Command {
	var flags runFlags
	var steps int
	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Reverse the newest migrations",
		Long: `Rollback applies the down steps of the newest migrations, newest first.
--steps limits how many are reversed; 0 reverses all of them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps < 0 {
				return fmt.Errorf("--steps must not be negative, got %d", steps)
			}
			return a.run(cmd.Context(), migration.Down, steps, flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&steps, "steps", "s", 1, "Number of migrations to reverse (0 for all)")
	return cmd
}

func (a *App) run(ctx context.Context, dir migration.Direction, steps int, flags runFlags) error {
	if flags.dialect != "" && !flags.dryRun {
		return errors.New("--dialect is only allowed with --dry-run")
	}
	p, err := a.profile(flags.dialect)
	if err != nil {
		return err
	}
	if flags.dir == "" {
		flags.dir = a.cfg.MigrationsDir
	}
	runner := &migration.Runner{Dir: flags.dir, Profile: p, Logger: a.logger}

	if flags.dryRun && flags.preflight {
		runner.Applier = apply.NewApplier(nil, p, apply.Options{
			DryRun:                true,
			Transaction:           flags.transaction,
			AllowNonTransactional: flags.allowNonTransactional,
			Unsafe:                flags.unsafe,
			Out:                   a.Out,
			Logger:                a.logger,
		})
		_, err := a.execute(ctx, runner, dir, steps)
		return err
	}
	if flags.dryRun {
		formatter, err := output.NewFormatter(flags.format)
		if err != nil {
			return err
		}
		plans, err := runner.Plan(dir, steps)
		if err != nil {
			return err
		}
		for _, m := range plans {
			if m.HasBreaking() {
				a.warn("%s contains breaking changes", m.Name)
			}
		}
		return output.WritePlans(a.Out, formatter, plans)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(flags.timeout)*time.Second)
	defer cancel()

	a.info("Connecting to database...")
	conn, err := a.conns.Get(ctx, a.connName)
	if err != nil {
		return err
	}
	runner.Applier = apply.NewApplier(conn.DB, p, apply.Options{
		Transaction:           flags.transaction,
		AllowNonTransactional: flags.allowNonTransactional,
		Unsafe:                flags.unsafe,
		Out:                   a.Out,
		Logger:                a.logger,
	})

	applied, err := a.execute(ctx, runner, dir, steps)
	if err != nil {
		return err
	}

	verb := "Applied"
	if dir == migration.Down {
		verb = "Rolled back"
	}
	a.success("%s %d migration(s) on %s (%s)", verb, len(applied), conn.Name, conn.Dialect)
	return nil
}

func (a *App) execute(ctx context.Context, runner *migration.Runner, dir migration.Direction, steps int) ([]*migration.Migration, error) {
	var applied []*migration.Migration
	var err error
	if dir == migration.Up {
		applied, err = runner.Migrate(ctx)
	} else {
		applied, err = runner.Rollback(ctx, steps)
	}
	switch {
	case errors.Is(err, apply.ErrDestructive):
		a.warn("Re-run with --unsafe to allow destructive operations")
	case errors.Is(err, apply.ErrNonTransactional):
		a.warn("Re-run with --allow-non-transactional or --transaction=false")
	}
	return applied, err
}
