package dialect

import (
	"errors"
	"strings"
)

// QuotePair is the opening and closing character sequence used to wrap a token.
type QuotePair struct {
	Open  string
	Close string
}

func (q QuotePair) wrap(token string) string {
	return q.Open + strings.ReplaceAll(token, q.Close, q.Close+q.Close) + q.Close
}

// isWrapped reports whether token is already a complete quoted token.
func (q QuotePair) isWrapped(token string) bool {
	if len(token) < len(q.Open)+len(q.Close) {
		return false
	}
	if !strings.HasPrefix(token, q.Open) || !strings.HasSuffix(token, q.Close) {
		return false
	}
	inner := token[len(q.Open) : len(token)-len(q.Close)]
	return !strings.Contains(strings.ReplaceAll(inner, q.Close+q.Close, ""), q.Close)
}

// Grammar holds the quoting rules of a dialect.
type Grammar struct {
	identifier QuotePair
	literal    QuotePair
	// backslash escapes are significant inside MySQL-family string literals
	escapeBackslash bool
}

// NewGrammar validates the quote pairs and returns a Grammar.
func NewGrammar(identifier, literal QuotePair, escapeBackslash bool) (Grammar, error) {
	if identifier.Open == "" || identifier.Close == "" {
		return Grammar{}, errors.New("identifier quote pair must not be empty")
	}
	if literal.Open == "" || literal.Close == "" {
		return Grammar{}, errors.New("literal quote pair must not be empty")
	}
	return Grammar{identifier: identifier, literal: literal, escapeBackslash: escapeBackslash}, nil
}

// IdentifierQuotes returns the identifier quote pair.
func (g Grammar) IdentifierQuotes() QuotePair { return g.identifier }

// LiteralQuotes returns the string literal quote pair.
func (g Grammar) LiteralQuotes() QuotePair { return g.literal }

// QuoteIdentifier wraps a table or column name. Dotted names are quoted per
// segment, `*` stays bare and segments that are already quoted are kept as is.
func (g Grammar) QuoteIdentifier(name string) string {
	segments := strings.Split(name, ".")
	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		switch {
		case seg == "*":
		case g.identifier.isWrapped(seg):
		default:
			seg = g.identifier.wrap(seg)
		}
		segments[i] = seg
	}
	return strings.Join(segments, ".")
}

// QuoteIdentifiers quotes every name and joins them with ", ".
func (g Grammar) QuoteIdentifiers(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = g.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}

// QuoteLiteral wraps a string value as a SQL string literal.
func (g Grammar) QuoteLiteral(value string) string {
	if g.escapeBackslash {
		var b strings.Builder
		for _, r := range value {
			switch r {
			case '\\':
				b.WriteString(`\\`)
			case 0:
				b.WriteString(`\0`)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\x1a':
				b.WriteString(`\Z`)
			default:
				b.WriteRune(r)
			}
		}
		value = b.String()
	}
	return g.literal.wrap(value)
}

// QuoteLiterals quotes every value and joins them with ", ".
func (g Grammar) QuoteLiterals(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = g.QuoteLiteral(v)
	}
	return strings.Join(quoted, ", ")
}
