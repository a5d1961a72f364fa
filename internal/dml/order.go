package dml

import (
	"strings"

	"dbforge/internal/core"
	"dbforge/internal/dialect"
)

type direction struct {
	order string
	nulls string
}

var directions = map[string]direction{
	"asc":              {order: "ASC"},
	"desc":             {order: "DESC"},
	"nulls first":      {order: "ASC", nulls: "nulls first"},
	"nulls last":       {order: "DESC", nulls: "nulls last"},
	"asc nulls first":  {order: "ASC", nulls: "nulls first"},
	"asc nulls last":   {order: "ASC", nulls: "nulls last"},
	"desc nulls first": {order: "DESC", nulls: "nulls first"},
	"desc nulls last":  {order: "DESC", nulls: "nulls last"},
}

// parseDirection normalizes dir. An empty direction sorts ascending.
func parseDirection(p *dialect.Profile, dir string) (string, error) {
	n := strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(dir, "_", " ")), " "))
	if n == "" {
		n = "asc"
	}
	d, ok := directions[n]
	if !ok {
		return "", &core.InvalidSortDirectionError{Value: dir}
	}
	if d.nulls == "" {
		return d.order, nil
	}
	if err := p.RequireCapability(core.CapabilityNullsOrdering); err != nil {
		return "", err
	}
	return d.order + " " + d.nulls, nil
}

// OrderBy appends `column DIRECTION` to the ORDER BY bucket.
func (b *Builder) OrderBy(ref, dir string) *Builder {
	if b.err != nil {
		return b
	}
	d, err := parseDirection(b.profile, dir)
	if err != nil {
		return b.fail(err)
	}
	col, err := column(b.profile, ref)
	if err != nil {
		return b.fail(err)
	}
	return b.push(BucketOrder, ",", new(expr).text(col+" "+d).fragment())
}

// Set appends an assignment to the SET bucket. A json path reference such as
// `meta->address->city` writes into the document with the profile's json set
// template.
func (b *Builder) Set(ref string, value any) *Builder {
	if b.err != nil {
		return b
	}
	if err := scalar("Set", value); err != nil {
		return b.fail(err)
	}
	root, segments := splitPath(ref)
	if strings.TrimSpace(root) == "" {
		return b.fail(&core.ValidationError{Entity: "clause", Name: "Set", Field: "column", Message: "column is empty"})
	}
	col := b.profile.QuoteIdentifier(root)
	e := new(expr).text(col + " = ")
	if len(segments) == 0 {
		e.arg(value)
		return b.push(BucketSet, ",", e.fragment())
	}
	tpl, err := b.profile.JSONSet()
	if err != nil {
		return b.fail(err)
	}
	rendered := tpl.Substitute(dialect.Values{
		"column": col,
		"path":   writePath(b.profile, segments),
		"value":  valueMarker,
	})
	e.template(rendered, value)
	return b.push(BucketSet, ",", e.fragment())
}
