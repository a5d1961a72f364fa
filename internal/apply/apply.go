// Package apply runs migration plans against a database. Every plan goes
// through preflight analysis first, so destructive or non-transactional
// statements are reported, and refused unless the caller opted in.
package apply

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"dbforge/internal/dialect"
	"dbforge/internal/migration"
)

// PreflightResult contains the warnings and the transaction safety of a batch
// of statements.
type PreflightResult struct {
	Warnings        []Warning
	IsTransactional bool
	NonTxReasons    []string
}

// Warning contains the level of a warning, its message and the statement it
// was raised for.
type Warning struct {
	Level   WarningLevel
	Message string
	SQL     string
}

// WarningLevel orders warnings by danger.
type WarningLevel string

const (
	WarnCaution WarningLevel = "CAUTION"
	WarnDanger  WarningLevel = "DANGER"
)

// ErrDestructive is returned when a plan contains destructive statements and
// Options.Unsafe is not set.
var ErrDestructive = errors.New("destructive operations detected without --unsafe flag")

// ErrNonTransactional is returned when Options.Transaction is set, the plan
// cannot run in one transaction and Options.AllowNonTransactional is not set.
var ErrNonTransactional = errors.New("migration contains non-transactional DDL statements; use --allow-non-transactional to proceed")

// Options control how plans are applied.
type Options struct {
	DryRun                bool
	Transaction           bool
	AllowNonTransactional bool
	Unsafe                bool
	Out                   io.Writer
	Logger                *slog.Logger
}

// Applier executes migration plans on db. It implements migration.Applier.
type Applier struct {
	db       *sql.DB
	options  Options
	analyzer *StatementAnalyzer
	out      io.Writer
	logger   *slog.Logger
}

var _ migration.Applier = (*Applier)(nil)

// NewApplier returns an Applier for statements rendered by p. db may be nil
// in dry-run mode.
func NewApplier(db *sql.DB, p *dialect.Profile, options Options) *Applier {
	out := options.Out
	if out == nil {
		out = io.Discard
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Applier{
		db:       db,
		options:  options,
		analyzer: NewStatementAnalyzer(p),
		out:      out,
		logger:   logger,
	}
}

func (a *Applier) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *Applier) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}

// PreflightChecks analyzes statements without running them.
func (a *Applier) PreflightChecks(statements []string) *PreflightResult {
	return a.analyzer.AnalyzeStatements(statements, a.options.Unsafe)
}

// Apply runs the forward statements of m. A dry run prints them with the
// preflight report instead.
func (a *Applier) Apply(ctx context.Context, m *migration.Migration) error {
	statements := m.SQLStatements()
	preflight := a.PreflightChecks(statements)

	if a.options.DryRun {
		return a.dryRun(m.Name, statements, preflight)
	}
	if err := a.validatePreflight(preflight); err != nil {
		return err
	}
	if len(statements) == 0 {
		a.logger.Info("nothing to apply", slog.String("migration", m.Name))
		return nil
	}
	if a.db == nil {
		return errors.New("apply: no database connection")
	}

	if a.options.Transaction && preflight.IsTransactional {
		return a.applyWithTransaction(ctx, m.Name, statements)
	}
	return a.applyWithoutTransaction(ctx, m.Name, statements)
}

func (a *Applier) validatePreflight(preflight *PreflightResult) error {
	if HasDestructiveOperations(preflight) && !a.options.Unsafe {
		return fmt.Errorf("preflight checks failed: %w", ErrDestructive)
	}
	if a.options.Transaction && !preflight.IsTransactional && !a.options.AllowNonTransactional {
		return fmt.Errorf("preflight checks failed: %w", ErrNonTransactional)
	}
	return nil
}

func truncateSQL(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if len(stmt) > 80 {
		return stmt[:77] + "..."
	}
	return stmt
}

func (a *Applier) dryRun(name string, statements []string, preflight *PreflightResult) error {
	a.printf("=== DRY RUN: %s ===\n", name)

	a.println("--- Preflight Checks ---")
	if len(preflight.Warnings) == 0 {
		a.println("No warnings")
	} else {
		for _, w := range preflight.Warnings {
			a.printf("[%s] %s\n", w.Level, w.Message)
			if w.SQL != "" {
				a.printf("    SQL: %s\n", truncateSQL(w.SQL))
			}
		}
	}

	a.println("--- Transaction Safety ---")
	if preflight.IsTransactional {
		a.println("All statements are transaction-safe")
	} else {
		a.println("Migration is NOT transaction-safe")
		for _, reason := range preflight.NonTxReasons {
			a.printf("  - %s\n", reason)
		}
	}

	a.println("--- Statements to Execute ---")
	for i, stmt := range statements {
		a.printf("%d. %s\n\n", i+1, stmt)
	}

	if err := a.validatePreflight(preflight); err != nil {
		return err
	}
	a.println("=== DRY RUN COMPLETE ===")
	return nil
}

func (a *Applier) applyWithTransaction(ctx context.Context, name string, statements []string) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for i, stmt := range statements {
		a.printf("Executing statement %d/%d...\n", i+1, len(statements))
		a.logger.Debug("exec", slog.String("migration", name), slog.String("sql", stmt))
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("execute failed: %w; rollback also failed: %v", err, rbErr)
			}
			return fmt.Errorf("execute failed (rolled back): %w\n  Statement: %s", err, truncateSQL(stmt))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	a.printf("Successfully applied %d statements\n", len(statements))
	return nil
}

func (a *Applier) applyWithoutTransaction(ctx context.Context, name string, statements []string) error {
	for i, stmt := range statements {
		a.printf("Executing statement %d/%d...\n", i+1, len(statements))
		a.logger.Debug("exec", slog.String("migration", name), slog.String("sql", stmt))
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d failed: %w\n  Statement: %s\n  %d statements were already applied and cannot be automatically rolled back",
				i+1, err, truncateSQL(stmt), i)
		}
	}

	a.printf("Successfully applied %d statements\n", len(statements))
	return nil
}

// HasDestructiveOperations reports whether preflight holds a DANGER warning.
func HasDestructiveOperations(preflight *PreflightResult) bool {
	for _, w := range preflight.Warnings {
		if w.Level == WarnDanger {
			return true
		}
	}
	return false
}
