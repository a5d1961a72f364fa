package dml

import (
	"strings"

	"dbforge/internal/core"
	"dbforge/internal/dialect"
)

const jsonArrow = "->"

// splitPath splits `col->a->b` into the column and its segments.
func splitPath(ref string) (string, []string) {
	parts := strings.Split(ref, jsonArrow)
	root := strings.TrimSpace(parts[0])
	segments := make([]string, 0, len(parts)-1)
	for _, s := range parts[1:] {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	return root, segments
}

// column renders a column reference, following json paths for reads.
func column(p *dialect.Profile, ref string) (string, error) {
	root, segments := splitPath(ref)
	if len(segments) == 0 {
		return p.QuoteIdentifier(root), nil
	}
	if p.JSONPathStyle() == core.JSONPathArrow {
		var sb strings.Builder
		sb.WriteString(p.QuoteIdentifier(root))
		for _, s := range segments {
			sb.WriteString(jsonArrow)
			sb.WriteString(p.QuoteLiteral(s))
		}
		return sb.String(), nil
	}
	tpl, err := p.JSONExtract()
	if err != nil {
		return "", err
	}
	return tpl.Substitute(dialect.Values{
		"column": p.QuoteIdentifier(root),
		"path":   extractPath(p, segments),
	}), nil
}

// extractPath renders '$."a"."b"'.
func extractPath(p *dialect.Profile, segments []string) string {
	quoted := make([]string, len(segments))
	for i, s := range segments {
		quoted[i] = `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return p.QuoteLiteral("$." + strings.Join(quoted, "."))
}

// writePath renders the path argument of a json write: '{a,b}' for arrow
// dialects and the extraction path otherwise.
func writePath(p *dialect.Profile, segments []string) string {
	if p.JSONPathStyle() == core.JSONPathArrow {
		return p.QuoteLiteral("{" + strings.Join(segments, ",") + "}")
	}
	return extractPath(p, segments)
}
