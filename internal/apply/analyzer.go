package apply

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver" // registers the TiDB value expression driver

	"dbforge/internal/core"
	"dbforge/internal/dialect"
)

type alterTableSpecEffect struct {
	destructiveReason string
	blockingReason    string
}

var alterTableSpecEffects = map[ast.AlterTableType]alterTableSpecEffect{
	ast.AlterTableAddColumns: {
		blockingReason: "ADD COLUMN may require a table rebuild depending on the server version and column position",
	},
	ast.AlterTableDropColumn: {
		destructiveReason: "DROP COLUMN will permanently delete the column and its data",
		blockingReason:    "DROP COLUMN typically requires a full table rebuild and will lock the table",
	},
	ast.AlterTableModifyColumn: {
		blockingReason: "MODIFY COLUMN may require a table rebuild if changing column type or size",
	},
	ast.AlterTableChangeColumn: {
		blockingReason: "CHANGE COLUMN may require a table rebuild",
	},
	ast.AlterTableDropIndex: {
		blockingReason: "DROP INDEX may briefly lock the table",
	},
	ast.AlterTableDropForeignKey: {
		blockingReason: "DROP FOREIGN KEY may briefly lock the table",
	},
	ast.AlterTableDropPrimaryKey: {
		blockingReason: "DROP PRIMARY KEY requires a full table rebuild and will lock the table",
	},
	ast.AlterTableRenameTable: {
		blockingReason: "RENAME TABLE acquires an exclusive lock but is typically fast",
	},
}

// StatementAnalysis contains the results of analyzing a SQL statement.
type StatementAnalysis struct {
	IsBlocking        bool
	BlockingReasons   []string
	IsDestructive     bool
	DestructiveReason string
	IsTransactionSafe bool
	TxUnsafeReason    string
	StatementType     string
}

func (s *StatementAnalysis) block(reason string) {
	s.IsBlocking = true
	s.BlockingReasons = append(s.BlockingReasons, reason)
}

func (s *StatementAnalysis) destroy(reason string) {
	s.IsDestructive = true
	s.DestructiveReason = reason
}

// StatementAnalyzer classifies statements before they run. MySQL and MariaDB
// statements are parsed with the TiDB parser; other dialects, and statements
// TiDB cannot parse, are classified by their leading keywords.
type StatementAnalyzer struct {
	profile *dialect.Profile
	parser  *parser.Parser
}

// NewStatementAnalyzer creates an analyzer for statements rendered by p.
func NewStatementAnalyzer(p *dialect.Profile) *StatementAnalyzer {
	a := &StatementAnalyzer{profile: p}
	switch p.Dialect() {
	case core.DialectMySQL, core.DialectMariaDB:
		a.parser = parser.New()
	}
	return a
}

// AnalyzeStatement classifies a single SQL statement.
func (a *StatementAnalyzer) AnalyzeStatement(sql string) *StatementAnalysis {
	if a.parser != nil {
		nodes, _, err := a.parser.Parse(sql, "", "")
		if err == nil {
			if len(nodes) == 0 {
				return &StatementAnalysis{IsTransactionSafe: true}
			}
			if analysis, ok := a.analyzeNode(nodes[0]); ok {
				return analysis
			}
		}
	}
	return a.analyzeKeywords(sql)
}

// AnalyzeStatements analyzes statements and collects the warnings and the
// transaction safety of the whole batch.
func (a *StatementAnalyzer) AnalyzeStatements(statements []string, unsafeAllowed bool) *PreflightResult {
	result := &PreflightResult{IsTransactional: true}
	for _, stmt := range statements {
		analysis := a.AnalyzeStatement(stmt)
		for _, reason := range analysis.BlockingReasons {
			result.Warnings = append(result.Warnings, Warning{
				Level:   WarnCaution,
				Message: "Potentially blocking DDL: " + reason,
				SQL:     stmt,
			})
		}
		if analysis.IsDestructive {
			msg := analysis.DestructiveReason
			if !unsafeAllowed {
				msg += " (requires --unsafe flag)"
			}
			result.Warnings = append(result.Warnings, Warning{Level: WarnDanger, Message: msg, SQL: stmt})
		}
		if !analysis.IsTransactionSafe {
			result.IsTransactional = false
			result.NonTxReasons = append(result.NonTxReasons, fmt.Sprintf("%s: %s", analysis.TxUnsafeReason, stmt))
		}
	}
	return result
}

// implicitCommit marks analysis as unsafe inside a transaction unless the
// dialect runs DDL transactionally.
func (a *StatementAnalyzer) implicitCommit(analysis *StatementAnalysis) {
	if a.profile.Supports(core.CapabilityTransactionalDDL) {
		return
	}
	analysis.IsTransactionSafe = false
	analysis.TxUnsafeReason = fmt.Sprintf("%s causes an implicit commit in %s", analysis.StatementType, a.profile.Dialect())
}

func (a *StatementAnalyzer) analyzeNode(node ast.StmtNode) (*StatementAnalysis, bool) {
	analysis := &StatementAnalysis{IsTransactionSafe: true}
	ddl := true

	switch stmt := node.(type) {
	case *ast.DropTableStmt:
		analysis.StatementType = "DROP TABLE"
		analysis.destroy("DROP TABLE will permanently delete the table and all its data")
	case *ast.DropDatabaseStmt:
		analysis.StatementType = "DROP DATABASE"
		analysis.destroy("DROP DATABASE will permanently delete the entire database")
	case *ast.DropIndexStmt:
		analysis.StatementType = "DROP INDEX"
		analysis.block("DROP INDEX may briefly lock the table")
	case *ast.CreateTableStmt:
		analysis.StatementType = "CREATE TABLE"
	case *ast.CreateDatabaseStmt:
		analysis.StatementType = "CREATE DATABASE"
	case *ast.CreateIndexStmt:
		analysis.StatementType = "CREATE INDEX"
		analysis.block("CREATE INDEX may lock the table for the duration of index creation")
	case *ast.CreateViewStmt:
		analysis.StatementType = "CREATE VIEW"
	case *ast.AlterTableStmt:
		analysis.StatementType = "ALTER TABLE"
		for _, spec := range stmt.Specs {
			analyzeAlterTableSpec(spec, analysis)
		}
	case *ast.AlterDatabaseStmt:
		analysis.StatementType = "ALTER DATABASE"
	case *ast.RenameTableStmt:
		analysis.StatementType = "RENAME TABLE"
		analysis.block("RENAME TABLE acquires an exclusive lock but is typically fast")
	case *ast.TruncateTableStmt:
		analysis.StatementType = "TRUNCATE TABLE"
		analysis.destroy("TRUNCATE TABLE will delete all rows from the table")
		analysis.block("TRUNCATE TABLE acquires an exclusive lock and removes all data instantly")
	case *ast.DeleteStmt:
		analysis.StatementType = "DELETE"
		analysis.destroy("DELETE will remove rows from the table")
		ddl = false
	case *ast.InsertStmt:
		analysis.StatementType = "INSERT"
		ddl = false
	case *ast.UpdateStmt:
		analysis.StatementType = "UPDATE"
		ddl = false
	case *ast.SelectStmt:
		analysis.StatementType = "SELECT"
		ddl = false
	default:
		return nil, false
	}

	if ddl {
		a.implicitCommit(analysis)
	}
	return analysis, true
}

func analyzeAlterTableSpec(spec *ast.AlterTableSpec, analysis *StatementAnalysis) {
	if spec.Tp == ast.AlterTableAddConstraint {
		reason := "ADD CONSTRAINT may lock the table while validating existing data"
		if spec.Constraint != nil {
			switch spec.Constraint.Tp {
			case ast.ConstraintForeignKey:
				reason = "ADD FOREIGN KEY may lock the table while validating existing data"
			case ast.ConstraintIndex, ast.ConstraintKey, ast.ConstraintUniq,
				ast.ConstraintUniqKey, ast.ConstraintUniqIndex:
				reason = "ADD INDEX may lock the table for the duration of index creation on large tables"
			}
		}
		analysis.block(reason)
		return
	}

	effect, ok := alterTableSpecEffects[spec.Tp]
	if !ok {
		return
	}
	if effect.destructiveReason != "" {
		analysis.destroy(effect.destructiveReason)
	}
	if effect.blockingReason != "" {
		analysis.block(effect.blockingReason)
	}
}

type keywordRule struct {
	prefix            string
	statementType     string
	destructiveReason string
	blockingReason    string
	dml               bool
}

// keywordRules are matched in order against the upper-cased statement, so
// longer prefixes come first.
var keywordRules = []keywordRule{
	{prefix: "DROP TABLE", statementType: "DROP TABLE", destructiveReason: "DROP TABLE will permanently delete the table and all its data"},
	{prefix: "DROP DATABASE", statementType: "DROP DATABASE", destructiveReason: "DROP DATABASE will permanently delete the entire database"},
	{prefix: "DROP INDEX", statementType: "DROP INDEX", blockingReason: "DROP INDEX may briefly lock the table"},
	{prefix: "TRUNCATE", statementType: "TRUNCATE TABLE", destructiveReason: "TRUNCATE TABLE will delete all rows from the table", blockingReason: "TRUNCATE TABLE acquires an exclusive lock and removes all data instantly"},
	{prefix: "CREATE TABLE", statementType: "CREATE TABLE"},
	{prefix: "CREATE INDEX", statementType: "CREATE INDEX", blockingReason: "CREATE INDEX may lock the table for the duration of index creation"},
	{prefix: "CREATE UNIQUE INDEX", statementType: "CREATE INDEX", blockingReason: "CREATE INDEX may lock the table for the duration of index creation"},
	{prefix: "CREATE FULLTEXT INDEX", statementType: "CREATE INDEX", blockingReason: "CREATE INDEX may lock the table for the duration of index creation"},
	{prefix: "CREATE SPATIAL INDEX", statementType: "CREATE INDEX", blockingReason: "CREATE INDEX may lock the table for the duration of index creation"},
	{prefix: "ALTER TABLE", statementType: "ALTER TABLE"},
	{prefix: "RENAME TABLE", statementType: "RENAME TABLE", blockingReason: "RENAME TABLE acquires an exclusive lock but is typically fast"},
	{prefix: "EXEC SP_RENAME", statementType: "RENAME", blockingReason: "sp_rename acquires a schema modification lock"},
	{prefix: "DELETE", statementType: "DELETE", destructiveReason: "DELETE will remove rows from the table", dml: true},
	{prefix: "INSERT", statementType: "INSERT", dml: true},
	{prefix: "UPDATE", statementType: "UPDATE", dml: true},
	{prefix: "SELECT", statementType: "SELECT", dml: true},
}

var (
	reStringLiteral = regexp.MustCompile(`N?'(?:[^']|'')*'`)
	reSpaces        = regexp.MustCompile(`\s+`)
)

// normalizeStatement upper-cases sql with string literals blanked out and
// whitespace collapsed, so keywords inside literals are never matched.
func normalizeStatement(sql string) string {
	sql = reStringLiteral.ReplaceAllString(sql, "''")
	return strings.ToUpper(strings.TrimSpace(reSpaces.ReplaceAllString(sql, " ")))
}

func (a *StatementAnalyzer) analyzeKeywords(sql string) *StatementAnalysis {
	analysis := &StatementAnalysis{IsTransactionSafe: true, StatementType: "OTHER"}
	upper := normalizeStatement(sql)

	var rule *keywordRule
	for i := range keywordRules {
		if strings.HasPrefix(upper, keywordRules[i].prefix) {
			rule = &keywordRules[i]
			break
		}
	}
	if rule == nil {
		if strings.HasPrefix(upper, "CREATE ") || strings.HasPrefix(upper, "DROP ") || strings.HasPrefix(upper, "ALTER ") {
			analysis.StatementType = "DDL"
			a.implicitCommit(analysis)
		}
		return analysis
	}

	analysis.StatementType = rule.statementType
	if rule.destructiveReason != "" {
		analysis.destroy(rule.destructiveReason)
	}
	if rule.blockingReason != "" {
		analysis.block(rule.blockingReason)
	}
	if rule.dml {
		return analysis
	}

	if rule.statementType == "ALTER TABLE" {
		analyzeAlterKeywords(upper, analysis)
	}
	a.implicitCommit(analysis)
	if strings.Contains(upper, " CONCURRENTLY ") {
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = analysis.StatementType + " CONCURRENTLY cannot run inside a transaction block"
	}
	return analysis
}

func analyzeAlterKeywords(upper string, analysis *StatementAnalysis) {
	switch {
	case strings.Contains(upper, " DROP COLUMN "):
		analysis.destroy("DROP COLUMN will permanently delete the column and its data")
		analysis.block("DROP COLUMN may rewrite the table and will lock it")
	case strings.Contains(upper, " ADD "):
		analysis.block("ADD may lock the table while the change is applied")
	case strings.Contains(upper, " ALTER COLUMN "), strings.Contains(upper, " MODIFY "):
		analysis.block("changing a column type may rewrite the table")
	case strings.Contains(upper, " DROP CONSTRAINT "), strings.Contains(upper, " DROP PRIMARY KEY"):
		analysis.block("dropping a constraint briefly locks the table")
	case strings.Contains(upper, " RENAME "):
		analysis.block("renaming acquires an exclusive lock but is typically fast")
	}
}
