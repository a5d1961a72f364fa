package output

import (
	"fmt"
	"strings"

	"dbforge/internal/migration"
)

type summaryFormatter struct{}

// FormatMigration formats a migration as a compact summary.
func (summaryFormatter) FormatMigration(m *migration.Migration) (string, error) {
	if m == nil || len(m.Operations) == 0 {
		return "No migration operations.\n", nil
	}

	var sb strings.Builder
	title := "Migration Summary"
	if m.Name != "" {
		title += ": " + m.Name
	}
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	fmt.Fprintf(&sb, "SQL Statements:      %d\n", len(m.SQLStatements()))
	fmt.Fprintf(&sb, "Rollback Statements: %d\n", len(m.RollbackStatements()))

	writeList(&sb, "Breaking Changes", m.BreakingNotes())
	writeList(&sb, "Notes", m.InfoNotes())
	return sb.String(), nil
}

// FormatPlans summarizes each plan and ends with the batch totals.
func (f summaryFormatter) FormatPlans(plans []*migration.Migration) (string, error) {
	if len(plans) == 0 {
		return "No migrations.\n", nil
	}

	var sb strings.Builder
	var statements, breaking int
	for _, m := range plans {
		s, err := f.FormatMigration(m)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
		sb.WriteString("\n")
		if m != nil {
			statements += len(m.SQLStatements())
			breaking += len(m.BreakingNotes())
		}
	}
	fmt.Fprintf(&sb, "Total: %d migrations, %d statements, %d breaking changes\n", len(plans), statements, breaking)
	return sb.String(), nil
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s: %d\n", title, len(items))
	for _, item := range items {
		fmt.Fprintf(sb, "   - %s\n", item)
	}
}
