// Package registry indexes savegame records by record kind and internal
// identifier, and resolves the cross-references that join them.
// It maps (kind, id) pairs to the records they denote, enabling extractors
// to turn opaque save identifiers into names, categories and metrics.
package registry

import (
	"io"
	"log/slog"
	"strconv"
)

// Record kinds understood by the built-in extractors. The collection each
// kind is read from is configurable (see DefaultCollections), so a renamed
// or newly introduced save collection is a config change, not a code change.
const (
	KindNation    = "nation"
	KindRegion    = "region"
	KindFaction   = "faction"
	KindHab       = "hab"
	KindFleet     = "fleet"
	KindCouncilor = "councilor"
	KindMission   = "mission"
	KindTime      = "time"
)

// statePrefix is the namespace Terra Invicta uses for its gamestate
// collections inside the save document.
const statePrefix = "PavonisInteractive.TerraInvicta"

// rootKey is the top-level container holding the gamestate collections.
// Older saves place the collections directly at the document root.
const rootKey = "gamestates"

// DefaultCollections maps record kinds to the save collections they are
// read from.
func DefaultCollections() map[string]string {
	return map[string]string{
		KindNation:    statePrefix + ".TINationState",
		KindRegion:    statePrefix + ".TIRegionState",
		KindFaction:   statePrefix + ".TIFactionState",
		KindHab:       statePrefix + ".TIHabState",
		KindFleet:     statePrefix + ".TISpaceFleetState",
		KindCouncilor: statePrefix + ".TICouncilorState",
		KindMission:   statePrefix + ".TIMissionState",
		KindTime:      statePrefix + ".TITimeState",
	}
}

// Record is one savegame entity classified under a record kind.
// Fields holds the unwrapped record body; it is nil when the save entry was
// not an object, which extractors treat as a malformed record.
type Record struct {
	Kind   string
	ID     string
	Fields map[string]any
}

// Collision records a duplicate (kind, id) pair found while indexing.
// The later record in document order wins.
type Collision struct {
	Kind string
	ID   string
}

type key struct {
	kind string
	id   string
}

// Registry is the read-only index of all records in one save snapshot.
// It is safe for concurrent lookups after Build returns.
type Registry struct {
	byKey      map[key]*Record
	order      map[string][]*Record
	collisions []Collision
}

// Build indexes the raw save tree. collections maps record kinds to the
// top-level collection key each kind is read from; kinds whose collection
// is absent from the document simply have an empty index.
func Build(doc map[string]any, collections map[string]string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	states := doc
	if inner, ok := doc[rootKey].(map[string]any); ok {
		states = inner
	}

	r := &Registry{
		byKey: make(map[key]*Record),
		order: make(map[string][]*Record),
	}

	for kind, collection := range collections {
		entries, ok := states[collection].([]any)
		if !ok {
			logger.Debug("collection absent from save", "kind", kind, "collection", collection)
			continue
		}

		for _, entry := range entries {
			rec := newRecord(kind, entry)
			r.order[kind] = append(r.order[kind], rec)

			if rec.ID == "" {
				continue
			}
			k := key{kind: kind, id: rec.ID}
			if _, dup := r.byKey[k]; dup {
				r.collisions = append(r.collisions, Collision{Kind: kind, ID: rec.ID})
				logger.Warn("duplicate record identifier", "kind", kind, "id", rec.ID)
			}
			r.byKey[k] = rec
		}
	}

	return r
}

// newRecord classifies one raw collection entry. Save entries are usually
// {"Key": ..., "Value": {...}} wrappers; older saves store the record body
// directly.
func newRecord(kind string, entry any) *Record {
	body, _ := entry.(map[string]any)
	if body != nil {
		if inner, ok := body["Value"].(map[string]any); ok {
			body = inner
		}
	}

	rec := &Record{Kind: kind, Fields: body}
	if body != nil {
		if idObj, ok := body["ID"].(map[string]any); ok {
			rec.ID = FormatID(idObj["value"])
		}
	}
	return rec
}

// FormatID canonicalizes a raw identifier value to its string form.
// Save identifiers are JSON numbers (decoded as float64) or strings; two
// identifiers are the same iff their canonical forms are equal.
func FormatID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	default:
		return ""
	}
}

// Kind returns all records of a kind in save document order, including
// records without an identifier.
func (r *Registry) Kind(kind string) []*Record {
	return r.order[kind]
}

// Count returns the number of indexed (identified) records of a kind.
func (r *Registry) Count(kind string) int {
	n := 0
	for _, rec := range r.order[kind] {
		if rec.ID != "" {
			n++
		}
	}
	return n
}

// Collisions returns the duplicate-identifier diagnostics found during Build.
func (r *Registry) Collisions() []Collision {
	return r.collisions
}
