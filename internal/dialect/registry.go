package dialect

import (
	"fmt"
	"slices"

	"dbforge/internal/core"
)

// Registry maps dialect tags to their profiles. It is built once at startup
// and only read afterwards.
type Registry struct {
	profiles map[core.Dialect]*Profile
}

// NewRegistry registers the given profiles. Registering a dialect twice is an error.
func NewRegistry(profiles ...*Profile) (*Registry, error) {
	r := &Registry{profiles: make(map[core.Dialect]*Profile, len(profiles))}
	for _, p := range profiles {
		if p == nil {
			return nil, fmt.Errorf("nil profile")
		}
		if _, dup := r.profiles[p.Dialect()]; dup {
			return nil, fmt.Errorf("dialect %s registered twice", p.Dialect())
		}
		r.profiles[p.Dialect()] = p
	}
	return r, nil
}

// Get returns the profile for d.
func (r *Registry) Get(d core.Dialect) (*Profile, error) {
	if p, ok := r.profiles[d]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("no profile registered for dialect %q", d)
}

// Lookup resolves a user supplied dialect name, aliases included.
func (r *Registry) Lookup(name string) (*Profile, error) {
	d, err := core.ParseDialect(name)
	if err != nil {
		return nil, err
	}
	return r.Get(d)
}

// Dialects returns the registered dialects in the order of core.SupportedDialects.
func (r *Registry) Dialects() []core.Dialect {
	var out []core.Dialect
	for _, d := range core.SupportedDialects() {
		if _, ok := r.profiles[d]; ok {
			out = append(out, d)
		}
	}
	return slices.Clip(out)
}
