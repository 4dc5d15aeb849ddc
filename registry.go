package xlmap

import (
	"sort"
	"sync"
)

// Registry is the authoritative in-memory set of source fields, keyed by the
// composite (name, field type) identity.
//
// Concurrency model: a single RWMutex guards the map; writers mutate under
// the write lock and bump the version. Consumers never see the live map —
// Snapshot returns value copies in insertion order, and imports install a
// fully built replacement via Replace only after the decode has succeeded.
type Registry struct {
	mu      sync.RWMutex
	version int64
	entries map[FieldKey]*FieldEntry
	order   []FieldKey // insertion order, drives workbook row order
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[FieldKey]*FieldEntry)}
}

// Upsert inserts the entry or updates the entry stored under its identity.
// The identity itself is never rewritten; annotations, mapping state, and
// status are replaced wholesale with the given value.
func (r *Registry) Upsert(e FieldEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := e.Key()
	if existing, ok := r.entries[key]; ok {
		e.ID = existing.ID
		*existing = e
	} else {
		stored := e
		r.entries[key] = &stored
		r.order = append(r.order, key)
	}
	r.version++
}

// Get returns a copy of the entry stored under key.
func (r *Registry) Get(key FieldKey) (FieldEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[key]
	if !ok {
		return FieldEntry{}, false
	}
	return *e, true
}

// Snapshot returns value copies of all entries in insertion order.
func (r *Registry) Snapshot() []FieldEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]FieldEntry, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.entries[key])
	}
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Version returns the monotonically increasing write counter.
func (r *Registry) Version() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Replace discards the current map and installs the given entries as the new
// registry content in one swap. Later duplicates of the same identity win.
func (r *Registry) Replace(entries []FieldEntry) {
	next := make(map[FieldKey]*FieldEntry, len(entries))
	var order []FieldKey
	for _, e := range entries {
		stored := e
		key := e.Key()
		if _, ok := next[key]; !ok {
			order = append(order, key)
		}
		next[key] = &stored
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = next
	r.order = order
	r.version++
}

// Clear empties the registry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[FieldKey]*FieldEntry)
	r.order = nil
	r.version++
}

// BuildMappingIndex derives the per-identity lookup from a mapping history.
// Policy: for duplicate identities the record with the highest CreatedAt
// wins; records with equal timestamps resolve to the later sequence
// position. This replaces the implicit last-iteration-wins behavior with a
// documented rule.
func BuildMappingIndex(records []MappingRecord) map[FieldKey]MappingRecord {
	index := make(map[FieldKey]MappingRecord, len(records))
	for _, rec := range records {
		key := rec.Key()
		if prev, ok := index[key]; ok && prev.CreatedAt.After(rec.CreatedAt) {
			continue
		}
		index[key] = rec
	}
	return index
}

// SortedKeys returns the identities of an index in a stable order, for
// deterministic fallback row ordering when no field list is available.
func SortedKeys(index map[FieldKey]MappingRecord) []FieldKey {
	keys := make([]FieldKey, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].FieldType < keys[j].FieldType
	})
	return keys
}
