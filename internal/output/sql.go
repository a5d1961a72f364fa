package output

import (
	"strings"

	"dbforge/internal/core"
	"dbforge/internal/migration"
)

type sqlFormatter struct{}

// FormatMigration formats a migration as a reviewable SQL script with the
// rollback statements commented out at the end.
func (sqlFormatter) FormatMigration(m *migration.Migration) (string, error) {
	if m == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("-- dbforge migration")
	if m.Name != "" {
		sb.WriteString(": " + m.Name)
	}
	sb.WriteString("\n-- Review before running in production.\n")

	writeCommentSection(&sb, "BREAKING CHANGES (manual review required)", m.BreakingNotes())
	writeCommentSection(&sb, "NOTES", m.InfoNotes())

	rb := m.RollbackStatements()
	ops := sqlOperations(m)
	if len(ops) == 0 {
		sb.WriteString("\n-- No SQL statements generated.\n")
	} else {
		sb.WriteString("\n-- SQL\n")
		for _, op := range ops {
			if op.Risk != "" && op.Risk != core.RiskInfo {
				sb.WriteString("-- [" + string(op.Risk) + "]\n")
			}
			writeStatement(&sb, "", op.SQL)
		}
	}

	if len(rb) > 0 {
		sb.WriteString("\n-- ROLLBACK SQL (run separately)\n")
		for _, stmt := range rb {
			for _, line := range splitCommentLines(stmt) {
				if line != "" {
					writeStatement(&sb, "-- ", line)
				}
			}
		}
	}
	return sb.String(), nil
}

// FormatPlans concatenates the scripts of plans separated by a blank line.
func (f sqlFormatter) FormatPlans(plans []*migration.Migration) (string, error) {
	if len(plans) == 0 {
		return "-- No migrations.\n", nil
	}
	parts := make([]string, 0, len(plans))
	for _, m := range plans {
		s, err := f.FormatMigration(m)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n"), nil
}

func writeStatement(sb *strings.Builder, prefix, stmt string) {
	sb.WriteString(prefix)
	sb.WriteString(stmt)
	if !strings.HasSuffix(stmt, ";") {
		sb.WriteString(";")
	}
	sb.WriteString("\n")
}

func sqlOperations(m *migration.Migration) []core.Operation {
	var ops []core.Operation
	for _, op := range m.Plan() {
		if op.Kind == core.OperationSQL && strings.TrimSpace(op.SQL) != "" {
			op.SQL = strings.TrimSpace(op.SQL)
			ops = append(ops, op)
		}
	}
	return ops
}

func writeCommentSection(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n-- " + title + "\n")
	for _, item := range items {
		for _, line := range splitCommentLines(item) {
			if line == "" {
				continue
			}
			sb.WriteString("-- - " + line + "\n")
		}
	}
}

func splitCommentLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}
