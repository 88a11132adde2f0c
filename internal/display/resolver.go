package display

import (
	"fmt"
	"strings"
)

// UnknownPlayer is the terminal display-name fallback. Lookups never produce
// an empty or null name.
const UnknownPlayer = "(Unknown Player)"

// NotAvailable is the sentinel shown for missing position or team values.
const NotAvailable = "—"

// Kind names one identifier namespace a row may carry.
type Kind string

const (
	KindSleeper  Kind = "sleeper"
	KindGsis     Kind = "gsis"
	KindEspn     Kind = "espn"
	KindPlayerID Kind = "player_id"
)

// namePriority is the one ordered list used whenever a row's id fields are
// probed for a human-facing attribute.
var namePriority = []Kind{KindSleeper, KindGsis, KindEspn, KindPlayerID}

// canonicalPriority orders id kinds for join-key resolution.
var canonicalPriority = []Kind{KindSleeper, KindPlayerID, KindGsis, KindEspn}

// Row is one consumer-side record carrying whatever partial id fields its
// source happened to include.
type Row struct {
	Name      string
	SleeperID string
	GsisID    string
	EspnID    string
	PlayerID  string
	Headshot  string
	Position  string
	Team      string
}

func (r Row) id(kind Kind) string {
	switch kind {
	case KindSleeper:
		return strings.TrimSpace(r.SleeperID)
	case KindGsis:
		return strings.TrimSpace(r.GsisID)
	case KindEspn:
		return strings.TrimSpace(r.EspnID)
	case KindPlayerID:
		return strings.TrimSpace(r.PlayerID)
	}
	return ""
}

// Entry is the indexed data behind one (kind, id) pair.
type Entry struct {
	Name     string
	Headshot string
	Position string
	Team     string
}

// Index maps (kind, id) pairs to known player attributes, typically prebuilt
// from the identity store before rendering a batch of rows.
type Index struct {
	entries map[string]Entry
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]Entry)}
}

// Add registers the attributes for one external id.
func (idx *Index) Add(kind Kind, id string, entry Entry) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	idx.entries[string(kind)+"\x00"+id] = entry
}

// LookupState distinguishes a missing index entry from one that exists but
// cannot serve the requested attribute.
type LookupState int

const (
	// LookupAbsent means the index has no entry for the id at all.
	LookupAbsent LookupState = iota
	// LookupUnusable means an entry exists but its value is empty or id-shaped.
	LookupUnusable
	// LookupFound means a usable value was resolved.
	LookupFound
)

// LookupResult is the outcome of probing the index for one attribute.
type LookupResult struct {
	State LookupState
	Value string
}

// Name probes the index for a usable display name.
func (idx *Index) Name(kind Kind, id string) LookupResult {
	entry, ok := idx.lookup(kind, id)
	if !ok {
		return LookupResult{State: LookupAbsent}
	}
	if !UsableName(entry.Name) {
		return LookupResult{State: LookupUnusable}
	}
	return LookupResult{State: LookupFound, Value: entry.Name}
}

func (idx *Index) lookup(kind Kind, id string) (Entry, bool) {
	if idx == nil {
		return Entry{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Entry{}, false
	}
	entry, ok := idx.entries[string(kind)+"\x00"+id]
	return entry, ok
}

// Resolver renders human-facing fields for rows, falling through name sources
// in a fixed order and terminating at the UnknownPlayer sentinel.
type Resolver struct {
	// Index is the primary prebuilt (kind, id) -> attributes map.
	Index *Index
	// SecondaryNames holds per-kind raw name maps consulted after the index.
	SecondaryNames map[Kind]map[string]string
	// Directory maps raw ids of any kind to names, consulted last.
	Directory map[string]string
}

// DisplayName resolves a human-facing name for the row. The row's own name
// wins unless it is id-shaped; then the index, the secondary maps, and the
// directory are probed in priority order; the final fallback is the
// UnknownPlayer literal, never an empty string.
func (r *Resolver) DisplayName(row Row) string {
	if UsableName(row.Name) {
		return strings.TrimSpace(row.Name)
	}
	for _, kind := range namePriority {
		id := row.id(kind)
		if id == "" {
			continue
		}
		if result := r.Index.Name(kind, id); result.State == LookupFound {
			return result.Value
		}
	}
	for _, kind := range namePriority {
		id := row.id(kind)
		if id == "" {
			continue
		}
		if name, ok := r.SecondaryNames[kind][id]; ok && UsableName(name) {
			return strings.TrimSpace(name)
		}
	}
	for _, kind := range namePriority {
		id := row.id(kind)
		if id == "" {
			continue
		}
		if name, ok := r.Directory[id]; ok && UsableName(name) {
			return strings.TrimSpace(name)
		}
	}
	return UnknownPlayer
}

// sleeperHeadshotURL is the CDN pattern used to synthesize a headshot from a
// numeric sleeper id when no explicit URL is known.
const sleeperHeadshotURL = "https://sleepercdn.com/content/nfl/players/%s.jpg"

// Headshot returns the first non-empty headshot URL for the row: the row's
// own field, an indexed entry in priority order, else a URL synthesized from
// a numeric sleeper id. Empty string means no headshot is resolvable.
func (r *Resolver) Headshot(row Row) string {
	if url := strings.TrimSpace(row.Headshot); url != "" {
		return url
	}
	for _, kind := range namePriority {
		entry, ok := r.Index.lookup(kind, row.id(kind))
		if ok && strings.TrimSpace(entry.Headshot) != "" {
			return strings.TrimSpace(entry.Headshot)
		}
	}
	if id := row.id(KindSleeper); id != "" && ClassifyIDShape(id) == ShapeNumeric {
		return fmt.Sprintf(sleeperHeadshotURL, id)
	}
	return ""
}

// Position returns the row's position, an indexed one, or the NotAvailable
// sentinel.
func (r *Resolver) Position(row Row) string {
	if pos := strings.TrimSpace(row.Position); pos != "" {
		return pos
	}
	for _, kind := range namePriority {
		if entry, ok := r.Index.lookup(kind, row.id(kind)); ok && strings.TrimSpace(entry.Position) != "" {
			return strings.TrimSpace(entry.Position)
		}
	}
	return NotAvailable
}

// Team returns the row's team, an indexed one, or the NotAvailable sentinel.
func (r *Resolver) Team(row Row) string {
	if team := strings.TrimSpace(row.Team); team != "" {
		return team
	}
	for _, kind := range namePriority {
		if entry, ok := r.Index.lookup(kind, row.id(kind)); ok && strings.TrimSpace(entry.Team) != "" {
			return strings.TrimSpace(entry.Team)
		}
	}
	return NotAvailable
}

// PositionOrDash maps an empty position to the NotAvailable sentinel.
func PositionOrDash(position string) string {
	if strings.TrimSpace(position) == "" {
		return NotAvailable
	}
	return strings.TrimSpace(position)
}

// TeamOrDash maps an empty team to the NotAvailable sentinel.
func TeamOrDash(team string) string {
	if strings.TrimSpace(team) == "" {
		return NotAvailable
	}
	return strings.TrimSpace(team)
}

// CanonicalID resolves the join key for a row: the highest-priority id the
// index knows, else the highest-priority id the row carries, else the raw
// supplied id. Never null; empty string signals "irresolvable".
func (r *Resolver) CanonicalID(row Row, rawID string) string {
	for _, kind := range canonicalPriority {
		id := row.id(kind)
		if id == "" {
			continue
		}
		if _, ok := r.Index.lookup(kind, id); ok {
			return id
		}
	}
	for _, kind := range canonicalPriority {
		if id := row.id(kind); id != "" {
			return id
		}
	}
	return strings.TrimSpace(rawID)
}
