package dml

import (
	"fmt"
	"strings"

	"dbforge/internal/core"
	"dbforge/internal/dialect"
)

const (
	and = "AND"
	or  = "OR"
)

// Where appends `column op ?`.
func (b *Builder) Where(column, op string, value any) *Builder {
	return b.compare(BucketWhere, and, "Where", column, op, value)
}

func (b *Builder) OrWhere(column, op string, value any) *Builder {
	return b.compare(BucketWhere, or, "OrWhere", column, op, value)
}

// Having appends `column op ?` to the HAVING bucket.
func (b *Builder) Having(column, op string, value any) *Builder {
	return b.compare(BucketHaving, and, "Having", column, op, value)
}

func (b *Builder) OrHaving(column, op string, value any) *Builder {
	return b.compare(BucketHaving, or, "OrHaving", column, op, value)
}

func (b *Builder) compare(bucket Bucket, conj, operation, ref, op string, value any) *Builder {
	if b.err != nil {
		return b
	}
	normalized, err := normalizeOperator(op)
	if err != nil {
		return b.fail(err)
	}
	if err := scalar(operation, value); err != nil {
		return b.fail(err)
	}
	col, err := column(b.profile, ref)
	if err != nil {
		return b.fail(err)
	}
	e := new(expr).text(col + " " + normalized + " ").arg(value)
	return b.push(bucket, conj, e.fragment())
}

// WhereColumn compares two columns.
func (b *Builder) WhereColumn(first, op, second string) *Builder {
	return b.compareColumns(and, first, op, second)
}

func (b *Builder) OrWhereColumn(first, op, second string) *Builder {
	return b.compareColumns(or, first, op, second)
}

func (b *Builder) compareColumns(conj, first, op, second string) *Builder {
	if b.err != nil {
		return b
	}
	normalized, err := normalizeOperator(op)
	if err != nil {
		return b.fail(err)
	}
	left, err := column(b.profile, first)
	if err != nil {
		return b.fail(err)
	}
	right, err := column(b.profile, second)
	if err != nil {
		return b.fail(err)
	}
	return b.push(BucketWhere, conj, new(expr).text(left+" "+normalized+" "+right).fragment())
}

func (b *Builder) WhereNull(column string) *Builder    { return b.null(and, column, "IS NULL") }
func (b *Builder) WhereNotNull(column string) *Builder { return b.null(and, column, "IS NOT NULL") }
func (b *Builder) OrWhereNull(column string) *Builder  { return b.null(or, column, "IS NULL") }

func (b *Builder) OrWhereNotNull(column string) *Builder {
	return b.null(or, column, "IS NOT NULL")
}

func (b *Builder) null(conj, ref, test string) *Builder {
	if b.err != nil {
		return b
	}
	col, err := column(b.profile, ref)
	if err != nil {
		return b.fail(err)
	}
	return b.push(BucketWhere, conj, new(expr).text(col+" "+test).fragment())
}

// WhereIn appends `column IN (?, ...)`. values must be a slice or array of
// scalars. An empty list matches nothing.
func (b *Builder) WhereIn(column string, values any) *Builder {
	return b.in(and, "WhereIn", column, values, false)
}

// WhereNotIn appends `column NOT IN (?, ...)`. An empty list matches everything.
func (b *Builder) WhereNotIn(column string, values any) *Builder {
	return b.in(and, "WhereNotIn", column, values, true)
}

func (b *Builder) OrWhereIn(column string, values any) *Builder {
	return b.in(or, "OrWhereIn", column, values, false)
}

func (b *Builder) in(conj, operation, ref string, values any, negate bool) *Builder {
	if b.err != nil {
		return b
	}
	items, err := list(operation, values)
	if err != nil {
		return b.fail(err)
	}
	col, err := column(b.profile, ref)
	if err != nil {
		return b.fail(err)
	}
	e := new(expr)
	switch {
	case len(items) == 0 && negate:
		e.text("1 = 1")
	case len(items) == 0:
		e.text("1 = 0")
	default:
		if negate {
			e.text(col + " NOT IN (")
		} else {
			e.text(col + " IN (")
		}
		for i, v := range items {
			if i > 0 {
				e.text(", ")
			}
			e.arg(v)
		}
		e.text(")")
	}
	return b.push(BucketWhere, conj, e.fragment())
}

// WhereBetween appends `column BETWEEN ? AND ?`.
func (b *Builder) WhereBetween(ref string, low, high any) *Builder {
	if b.err != nil {
		return b
	}
	for _, v := range []any{low, high} {
		if err := scalar("WhereBetween", v); err != nil {
			return b.fail(err)
		}
	}
	col, err := column(b.profile, ref)
	if err != nil {
		return b.fail(err)
	}
	e := new(expr).text(col + " BETWEEN ").arg(low).text(" AND ").arg(high)
	return b.push(BucketWhere, and, e.fragment())
}

// WhereGroup wraps the predicates fn adds to b in parentheses. fn receives
// the same builder.
func (b *Builder) WhereGroup(fn func(*Builder)) *Builder {
	return b.group(and, fn)
}

func (b *Builder) OrWhereGroup(fn func(*Builder)) *Builder {
	return b.group(or, fn)
}

func (b *Builder) group(conj string, fn func(*Builder)) *Builder {
	if b.err != nil {
		return b
	}
	before := len(b.buckets[BucketWhere])
	b.push(BucketWhere, conj, fragment{kind: kindOpen})
	opened := len(b.buckets[BucketWhere])
	fn(b)
	if b.err != nil {
		return b
	}
	if len(b.buckets[BucketWhere]) == opened {
		b.buckets[BucketWhere] = b.buckets[BucketWhere][:before]
		return b
	}
	b.buckets[BucketWhere] = append(b.buckets[BucketWhere], fragment{kind: kindClose})
	return b
}

// WhereNested builds a parenthesized group on a fresh builder.
func (b *Builder) WhereNested(fn func(*Builder)) *Builder {
	return b.nested(and, fn)
}

func (b *Builder) OrWhereNested(fn func(*Builder)) *Builder {
	return b.nested(or, fn)
}

func (b *Builder) nested(conj string, fn func(*Builder)) *Builder {
	if b.err != nil {
		return b
	}
	sub := New(b.profile)
	fn(sub)
	if sub.err != nil {
		return b.fail(sub.err)
	}
	if sub.Empty(BucketWhere) {
		return b
	}
	return b.push(BucketWhere, conj, fragment{kind: kindSub, sub: sub, prefix: "(", suffix: ")"})
}

// WhereExists appends `EXISTS (SELECT 1 FROM table WHERE ...)` where the
// inner predicates come from fn applied to a fresh builder.
func (b *Builder) WhereExists(table string, fn func(*Builder)) *Builder {
	return b.exists(and, "EXISTS", table, fn)
}

func (b *Builder) WhereNotExists(table string, fn func(*Builder)) *Builder {
	return b.exists(and, "NOT EXISTS", table, fn)
}

func (b *Builder) exists(conj, keyword, table string, fn func(*Builder)) *Builder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(table) == "" {
		return b.fail(&core.ValidationError{Entity: "clause", Name: keyword, Field: "table", Message: "subquery table is empty"})
	}
	sub := New(b.profile)
	if fn != nil {
		fn(sub)
	}
	if sub.err != nil {
		return b.fail(sub.err)
	}
	prefix := keyword + " (SELECT 1 FROM " + b.profile.QuoteIdentifier(table)
	if sub.Empty(BucketWhere) {
		return b.push(BucketWhere, conj, new(expr).text(prefix+")").fragment())
	}
	return b.push(BucketWhere, conj, fragment{kind: kindSub, sub: sub, prefix: prefix + " WHERE ", suffix: ")"})
}

// WhereFullText appends the profile's full-text predicate for modifier over
// columns. An empty modifier selects natural language mode.
func (b *Builder) WhereFullText(columns []string, value string, modifier string) *Builder {
	return b.fullText(and, columns, value, modifier)
}

func (b *Builder) OrWhereFullText(columns []string, value string, modifier string) *Builder {
	return b.fullText(or, columns, value, modifier)
}

func (b *Builder) fullText(conj string, columns []string, value, modifier string) *Builder {
	if b.err != nil {
		return b
	}
	mod, err := core.ParseFullTextModifier(modifier)
	if err != nil {
		return b.fail(err)
	}
	tpl, err := b.profile.FullText(mod)
	if err != nil {
		return b.fail(err)
	}
	if len(columns) == 0 {
		return b.fail(&core.ValidationError{Entity: "clause", Name: "WhereFullText", Field: "columns", Message: "at least one column is required"})
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		if quoted[i], err = column(b.profile, c); err != nil {
			return b.fail(err)
		}
	}
	rendered := tpl.Substitute(dialect.Values{
		"columns": strings.Join(quoted, b.profile.FullTextSeparator()),
		"value":   valueMarker,
	})
	return b.push(BucketWhere, conj, new(expr).template(rendered, value).fragment())
}

// WhereRaw appends sql verbatim, binding args to its `?` markers in order.
func (b *Builder) WhereRaw(sql string, args ...any) *Builder {
	return b.raw(BucketWhere, and, "WhereRaw", sql, args)
}

func (b *Builder) OrWhereRaw(sql string, args ...any) *Builder {
	return b.raw(BucketWhere, or, "OrWhereRaw", sql, args)
}

func (b *Builder) HavingRaw(sql string, args ...any) *Builder {
	return b.raw(BucketHaving, and, "HavingRaw", sql, args)
}

func (b *Builder) raw(bucket Bucket, conj, operation, sql string, args []any) *Builder {
	if b.err != nil {
		return b
	}
	parts := strings.Split(sql, "?")
	if len(parts)-1 != len(args) {
		return b.fail(&core.ValidationError{
			Entity:  "clause",
			Name:    operation,
			Field:   "bindings",
			Message: fmt.Sprintf("%d markers, %d values", len(parts)-1, len(args)),
		})
	}
	e := new(expr)
	for i, part := range parts {
		e.text(part)
		if i < len(args) {
			if err := scalar(operation, args[i]); err != nil {
				return b.fail(err)
			}
			e.arg(args[i])
		}
	}
	return b.push(bucket, conj, e.fragment())
}
