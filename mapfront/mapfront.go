// Package mapfront defines the dispatch surface the core exposes to the
// hash-map and trie-map modules (component G): spec.md treats their
// bucket/node algorithms as out of scope, specifying only the interface the
// core exports to them (alloc_cells, declare_child, rope_compare,
// rope_hash_chunks, and the shared map iterator) plus this front-end's own
// iterator contract (§4.8, §6).
//
// The ReadOnly/mutable interface split, and the Stats reporting shape,
// mirror the teacher's hive/index package: a build-heavy hash map and a
// read-heavy ordered trie map implement the same front-end so callers can
// swap one for the other without touching call sites.
package mapfront

import "github.com/wordcell/corevm/value"

// ReadOnlyMap is the query-only half of the front-end.
type ReadOnlyMap interface {
	// Get returns the value bound to key and whether it was present.
	Get(key value.Value) (value.Value, bool)

	// Len returns the number of entries.
	Len() int

	// Stats reports implementation-specific metrics.
	Stats() Stats

	// Begin returns an iterator positioned at the map's first entry in its
	// native order (insertion order for a hash map, key order for a trie).
	Begin() Iterator
}

// Map is the full read/write front-end both hashmap.Map and triemap.Map
// implement.
type Map interface {
	ReadOnlyMap

	// Set inserts or overwrites the value bound to key.
	Set(key, val value.Value)

	// Unset removes key, reporting whether it was present.
	Unset(key value.Value) bool

	// Find locates key, optionally creating a zero-value entry for it when
	// create is true and it's absent (§6 "find(map, key, create_out)").
	// created reports whether a new entry was created.
	Find(key value.Value, create bool) (it Iterator, created bool)
}

// Stats reports map metrics (§4.8 surface, shaped like hive/index.Stats).
type Stats struct {
	EntryCount int
	Impl       string
}

// Iterator is the shared cursor surface for both map kinds (§6 "Iterator
// ops"): Find/GetKey/GetValue/SetValue/Next/Prev/End.
type Iterator interface {
	// End reports whether the iterator has advanced past the last entry.
	End() bool

	// Next advances to the next entry in the map's order.
	Next()

	// Prev moves to the previous entry in the map's order.
	Prev()

	// GetKey returns the current entry's key. Invalid at End.
	GetKey() value.Value

	// GetValue returns the current entry's value. Invalid at End.
	GetValue() value.Value

	// SetValue overwrites the current entry's value in place. Invalid at
	// End.
	SetValue(v value.Value)
}
