// Package output renders migration plans for review: as a SQL script, as JSON
// for tooling, or as a short summary.
package output

import (
	"fmt"
	"io"
	"strings"

	"dbforge/internal/migration"
)

// Format is an enum type representing the available output formats.
type Format string

const (
	FormatSQL     Format = "sql"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// Formatter renders one plan or a batch of plans.
type Formatter interface {
	FormatMigration(*migration.Migration) (string, error)
	FormatPlans([]*migration.Migration) (string, error)
}

// NewFormatter creates a new Formatter instance based on the given name.
// If no format is specified, defaults to SQL format.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatSQL:
		return sqlFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatSummary:
		return summaryFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s; use 'sql', 'json', or 'summary'", name)
	}
}

// WritePlans formats plans with f and writes the result to w.
func WritePlans(w io.Writer, f Formatter, plans []*migration.Migration) error {
	content, err := f.FormatPlans(plans)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, content)
	return err
}

func normalizeStatements(stmts []string) []string {
	var out []string
	for _, stmt := range stmts {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if !strings.HasSuffix(stmt, ";") {
			stmt += ";"
		}
		out = append(out, stmt)
	}
	return out
}
