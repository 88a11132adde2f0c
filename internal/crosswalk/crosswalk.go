// Package crosswalk holds trusted cross-source identifier mappings, used to
// resolve an external id to a player already known under a different source
// without touching name matching.
package crosswalk

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Ref identifies a player within one source platform.
type Ref struct {
	Source     string
	ExternalID string
}

// Link asserts that two source-specific ids refer to the same person. Links
// come from curated crosswalk data, never from inference.
type Link struct {
	SourceA string `toml:"source_a"`
	IDA     string `toml:"id_a"`
	SourceB string `toml:"source_b"`
	IDB     string `toml:"id_b"`
}

// Table is an in-memory crosswalk index keyed by (source, external_id).
type Table struct {
	links map[Ref][]Ref
}

// NewTable builds a table from the provided links. Each link is indexed in
// both directions.
func NewTable(links ...Link) *Table {
	t := &Table{links: make(map[Ref][]Ref)}
	for _, link := range links {
		t.Add(link)
	}
	return t
}

// Add indexes one link. Links with blank fields are ignored.
func (t *Table) Add(link Link) {
	a := Ref{Source: normalizeTag(link.SourceA), ExternalID: strings.TrimSpace(link.IDA)}
	b := Ref{Source: normalizeTag(link.SourceB), ExternalID: strings.TrimSpace(link.IDB)}
	if a.Source == "" || a.ExternalID == "" || b.Source == "" || b.ExternalID == "" {
		return
	}
	t.links[a] = append(t.links[a], b)
	t.links[b] = append(t.links[b], a)
}

// Lookup returns all refs linked to the given source id.
func (t *Table) Lookup(source, externalID string) []Ref {
	if t == nil {
		return nil
	}
	key := Ref{Source: normalizeTag(source), ExternalID: strings.TrimSpace(externalID)}
	refs := t.links[key]
	if len(refs) == 0 {
		return nil
	}
	cp := make([]Ref, len(refs))
	copy(cp, refs)
	return cp
}

// Len returns the number of indexed refs.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.links)
}

func normalizeTag(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

type tableFile struct {
	Links []Link `toml:"links"`
}

// LoadFile reads crosswalk links from a TOML file. An empty path yields an
// empty table.
func LoadFile(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return NewTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read crosswalk file: %w", err)
	}
	var file tableFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse crosswalk file: %w", err)
	}
	return NewTable(file.Links...), nil
}
