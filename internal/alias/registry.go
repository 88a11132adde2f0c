// Package alias maps known nicknames and alternate spellings to canonical
// player names before identity matching runs.
package alias

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"rosterid/internal/namenorm"
)

// Entry maps one observed alias to a canonical name. Team and Pos, when set,
// constrain the entry: it only applies when the query supplies matching
// metadata. An entry with a constraint never matches a query that omits the
// corresponding field.
type Entry struct {
	Alias     string `toml:"alias"`
	Canonical string `toml:"canonical"`
	Team      string `toml:"team,omitempty"`
	Pos       string `toml:"pos,omitempty"`
}

// Metadata carries the optional disambiguation fields supplied with a lookup.
type Metadata struct {
	Team string
	Pos  string
}

// Registry is an explicitly owned alias table. Construct one at startup and
// pass it by reference; there is no package-level shared instance.
type Registry struct {
	entries []Entry
}

// NewRegistry builds a registry from the provided entries. Entries with an
// empty alias or canonical name are ignored.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{}
	for _, entry := range entries {
		r.Add(entry)
	}
	return r
}

// Add appends an alias entry. This is an explicit administrative operation;
// the resolution engine never adds entries on its own. Duplicate or
// contradictory entries are kept as-is and resolved by first match.
func (r *Registry) Add(entry Entry) {
	if strings.TrimSpace(entry.Alias) == "" || strings.TrimSpace(entry.Canonical) == "" {
		return
	}
	r.entries = append(r.entries, entry)
}

// Len returns the number of entries in the registry.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Entries returns a copy of the registry contents for inspection.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	cp := make([]Entry, len(r.entries))
	copy(cp, r.entries)
	return cp
}

// Lookup resolves a raw name to its canonical matching key. The input is
// normalized first; if a satisfying alias entry exists its canonical name's
// normalized form is returned, otherwise the input's own normalized form is
// returned unchanged. An empty normalized input stays empty.
func (r *Registry) Lookup(name string, meta Metadata) string {
	key := namenorm.Normalize(name)
	if key == "" || r == nil {
		return key
	}
	for _, entry := range r.entries {
		if namenorm.Normalize(entry.Alias) != key {
			continue
		}
		if !constraintSatisfied(entry.Team, meta.Team) {
			continue
		}
		if !constraintSatisfied(entry.Pos, meta.Pos) {
			continue
		}
		return namenorm.Normalize(entry.Canonical)
	}
	return key
}

// constraintSatisfied applies the conservative matching rule: no constraint
// always passes, a constraint with missing metadata always fails, otherwise
// case-insensitive equality decides.
func constraintSatisfied(constraint, value string) bool {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return true
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return strings.EqualFold(constraint, value)
}

type registryFile struct {
	Aliases []Entry `toml:"aliases"`
}

// LoadFile reads alias entries from a TOML file and appends them to a new
// registry seeded with the builtin table.
func LoadFile(path string) (*Registry, error) {
	registry := NewRegistry(Builtin()...)
	if strings.TrimSpace(path) == "" {
		return registry, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}
	var file registryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse alias file: %w", err)
	}
	for _, entry := range file.Aliases {
		registry.Add(entry)
	}
	return registry, nil
}
