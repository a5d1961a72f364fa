package migration

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"dbforge/internal/parser/toml"
)

// Direction selects which step of a migration document runs.
type Direction int

const (
	Up Direction = iota
	Down
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Down {
		return Up
	}
	return Down
}

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

const (
	// Extension is the file extension of migration documents.
	Extension = ".toml"

	stampLayout = "02-01-2006-15-04-05"
	stemSuffix  = "-table"
)

// Stem is the parsed name of a migration file:
// <dd-mm-YYYY-HH-MM-SS>-<action>-<table>-table.
type Stem struct {
	Created time.Time
	Action  toml.Action
	Table   string
}

// String returns the stem without the extension.
func (s Stem) String() string {
	return s.Created.Format(stampLayout) + "-" + string(s.Action) + "-" + s.Table + stemSuffix
}

// FileName returns the file name of a new migration for table created at t.
func FileName(action toml.Action, table string, t time.Time) string {
	return Stem{Created: t, Action: action, Table: table}.String() + Extension
}

// ParseFileName parses a migration file name or path. The extension is
// optional.
func ParseFileName(name string) (Stem, error) {
	base := strings.TrimSuffix(filepath.Base(name), Extension)
	if len(base) <= len(stampLayout)+1 || base[len(stampLayout)] != '-' {
		return Stem{}, fmt.Errorf("migration: %q is not a migration file name", name)
	}
	created, err := time.Parse(stampLayout, base[:len(stampLayout)])
	if err != nil {
		return Stem{}, fmt.Errorf("migration: %q has an invalid timestamp: %w", name, err)
	}

	rest, ok := strings.CutSuffix(base[len(stampLayout)+1:], stemSuffix)
	if !ok {
		return Stem{}, fmt.Errorf("migration: %q does not end with %q", name, stemSuffix)
	}
	word, table, ok := strings.Cut(rest, "-")
	if !ok || table == "" {
		return Stem{}, fmt.Errorf("migration: %q has no table name", name)
	}
	action, ok := toml.ParseAction(word)
	if !ok || string(action) != word {
		return Stem{}, fmt.Errorf("migration: %q has unknown action %q", name, word)
	}
	return Stem{Created: created, Action: action, Table: table}, nil
}

// File is a discovered migration file.
type File struct {
	Path string
	Stem Stem
}

// Name returns the stem of the file.
func (f File) Name() string { return f.Stem.String() }

// Sort orders files by creation time, ascending for Up and descending for
// Down. Files created in the same second keep name order for Up and reverse
// name order for Down.
func Sort(files []File, dir Direction) {
	slices.SortStableFunc(files, func(a, b File) int {
		c := a.Stem.Created.Compare(b.Stem.Created)
		if c == 0 {
			c = cmp.Compare(a.Path, b.Path)
		}
		if dir == Down {
			return -c
		}
		return c
	})
}
