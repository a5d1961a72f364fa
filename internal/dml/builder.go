// Package dml composes WHERE, HAVING, ORDER BY and SET clauses for a driver
// profile. Predicates are appended to named buckets and compiled into SQL text
// plus the ordered list of bound values in the profile's placeholder style.
package dml

import (
	"strings"

	"dbforge/internal/core"
	"dbforge/internal/dialect"
)

// Bucket names an independently compiled clause.
type Bucket string

const (
	BucketWhere  Bucket = "where"
	BucketHaving Bucket = "having"
	BucketOrder  Bucket = "order"
	BucketSet    Bucket = "set"
)

var keywords = map[Bucket]string{
	BucketWhere:  "WHERE",
	BucketHaving: "HAVING",
	BucketOrder:  "ORDER BY",
	BucketSet:    "SET",
}

type fragmentKind int

const (
	kindToken fragmentKind = iota
	kindOpen
	kindClose
	kindExpr
	kindSub
)

// piece is a run of SQL text or a single bound value inside an expression.
type piece struct {
	text  string
	value any
	bound bool
}

type fragment struct {
	kind   fragmentKind
	text   string
	pieces []piece
	sub    *Builder
	prefix string
	suffix string
}

// Builder accumulates clause fragments. It is owned by one caller and
// mutated through its fluent methods; the first failing call is kept and
// returned by every compile.
type Builder struct {
	profile *dialect.Profile
	buckets map[Bucket][]fragment
	err     error
}

// New returns an empty builder for profile p.
func New(p *dialect.Profile) *Builder {
	return &Builder{profile: p, buckets: make(map[Bucket][]fragment)}
}

// Profile returns the profile the builder renders for.
func (b *Builder) Profile() *dialect.Profile { return b.profile }

// Err returns the first error recorded by a fluent call.
func (b *Builder) Err() error { return b.err }

// Empty reports whether bucket holds no fragments.
func (b *Builder) Empty(bucket Bucket) bool { return len(b.buckets[bucket]) == 0 }

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// connect appends conj unless the bucket is empty or was just opened.
func (b *Builder) connect(bucket Bucket, conj string) {
	frags := b.buckets[bucket]
	if len(frags) == 0 || frags[len(frags)-1].kind == kindOpen {
		return
	}
	b.buckets[bucket] = append(frags, fragment{kind: kindToken, text: conj})
}

func (b *Builder) push(bucket Bucket, conj string, f fragment) *Builder {
	b.connect(bucket, conj)
	b.buckets[bucket] = append(b.buckets[bucket], f)
	return b
}

// expr collects the pieces of one predicate or assignment.
type expr struct {
	pieces []piece
}

func (e *expr) text(s string) *expr {
	if s == "" {
		return e
	}
	if n := len(e.pieces); n > 0 && !e.pieces[n-1].bound {
		e.pieces[n-1].text += s
		return e
	}
	e.pieces = append(e.pieces, piece{text: s})
	return e
}

func (e *expr) arg(v any) *expr {
	e.pieces = append(e.pieces, piece{value: v, bound: true})
	return e
}

// valueMarker stands in for {value} during substitution so the bound value can
// be spliced in at compile time.
const valueMarker = "\x00value\x00"

// template appends rendered template text, binding value at every
// valueMarker.
func (e *expr) template(rendered string, value any) *expr {
	parts := strings.Split(rendered, valueMarker)
	for i, part := range parts {
		e.text(part)
		if i < len(parts)-1 {
			e.arg(value)
		}
	}
	return e
}

func (e *expr) fragment() fragment {
	return fragment{kind: kindExpr, pieces: e.pieces}
}

// Compile renders bucket and returns its SQL and bound values. An empty
// bucket compiles to "".
func (b *Builder) Compile(bucket Bucket) (string, []any, error) {
	if err := b.err; err != nil {
		return "", nil, err
	}
	c := &compiler{style: b.profile.PlaceholderStyle()}
	sql, err := c.bucket(b, bucket)
	if err != nil {
		return "", nil, err
	}
	return sql, c.args, nil
}

// Clause is Compile with the clause keyword prefixed, e.g. "WHERE ...".
func (b *Builder) Clause(bucket Bucket) (string, []any, error) {
	sql, args, err := b.Compile(bucket)
	if err != nil || sql == "" {
		return sql, args, err
	}
	return keywords[bucket] + " " + sql, args, nil
}

// CompileBucket compiles one bucket of b.
func CompileBucket(b *Builder, bucket Bucket) (string, []any, error) {
	return b.Compile(bucket)
}

type compiler struct {
	style core.PlaceholderStyle
	args  []any
}

func (c *compiler) bucket(b *Builder, bucket Bucket) (string, error) {
	if err := b.err; err != nil {
		return "", err
	}
	frags := b.buckets[bucket]
	depth := 0
	var sb strings.Builder
	for i, f := range frags {
		if i > 0 && frags[i-1].kind != kindOpen && f.kind != kindClose && !(f.kind == kindToken && f.text == ",") {
			sb.WriteByte(' ')
		}
		switch f.kind {
		case kindToken:
			sb.WriteString(f.text)
		case kindOpen:
			depth++
			sb.WriteByte('(')
		case kindClose:
			depth--
			sb.WriteByte(')')
		case kindExpr:
			for _, p := range f.pieces {
				if p.bound {
					c.args = append(c.args, p.value)
					sb.WriteString(c.style.Placeholder(len(c.args)))
					continue
				}
				sb.WriteString(p.text)
			}
		case kindSub:
			inner, err := c.bucket(f.sub, BucketWhere)
			if err != nil {
				return "", err
			}
			sb.WriteString(f.prefix)
			sb.WriteString(inner)
			sb.WriteString(f.suffix)
		}
	}
	if depth != 0 {
		return "", &core.ValidationError{Entity: "clause", Name: string(bucket), Message: "unbalanced group"}
	}
	return sb.String(), nil
}
