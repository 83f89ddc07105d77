// Package hashmap implements a string/word-keyed hash map front-end,
// grounded on the teacher's hive/index.StringIndex: a native Go map keyed
// by a precomputed content hash, storing one GC-tracked entry node per
// key/value pair so Set/Unset exercise alloc_cells/declare_child the way
// the spec's §4.8 surface requires of any map implementation layered on
// the core.
//
// Plain value.Value keys (small ints, chars, small strings) are bucketed
// and compared by word identity, since those encodings already guarantee
// equal content means an equal word. Rope keys go through the dedicated
// *RopeKey methods instead of Set/Get/Unset/Find: those bucket on
// rope.HashChunks and resolve any collision with rope.Compare, so two
// distinct ropes that happen to hash alike are never aliased to the same
// entry (§4.8 "rope_compare(a, b) and rope_hash_chunks(r)").
package hashmap

import (
	"github.com/wordcell/corevm/internal/cellpage"
	"github.com/wordcell/corevm/internal/gc"
	"github.com/wordcell/corevm/mapfront"
	"github.com/wordcell/corevm/rope"
	"github.com/wordcell/corevm/value"
)

// defaultHeap is the GC heap backing entry nodes, separate from rope/seq's
// so hash-map allocation pressure doesn't trigger unrelated collections.
var defaultHeap = gc.NewHeap(cellpage.NewMmapSource(), 8, 256)

// PauseGC and ResumeGC expose this map's entry heap to corevm.Runtime.
func PauseGC() { defaultHeap.PauseGC() }

func ResumeGC() error { return defaultHeap.ResumeGC() }

// entry is one key/value binding, GC-tracked via its own cell so Set/Unset
// go through the same alloc_cells/declare_child path every other core
// collaborator uses (§4.8).
//
// A rope-keyed entry (isRope) keeps the original rope.Rope in ropeKey so
// that a bucket collision is resolved by rope.Compare, not by aliasing two
// distinct ropes that happen to fold to the same content hash; key still
// carries a display word for GetKey() (the exact value for a plain
// value.Value key, or a hash-derived label for a rope key, which is never
// used for equality).
type entry struct {
	ref     cellpage.CellRef
	key     value.Value
	ropeKey rope.Rope
	isRope  bool
	val     value.Value
	order   int // insertion sequence, used only to give Begin a stable order
}

func (e *entry) Children() []cellpage.CellRef { return nil }

// Map is a string/word-keyed hash map. The zero Map is not usable; use New.
type Map struct {
	buckets map[uint64][]*entry
	order   []*entry // insertion order, for a stable Begin/Next traversal
	seq     int
}

// New creates an empty hash map.
func New() *Map {
	return &Map{buckets: make(map[uint64][]*entry)}
}

// hashKey uses the tagged word itself as its own hash: two equal
// value.Value words are always equal keys by construction (small ints,
// chars, and small strings encode their payload directly into the word).
// Rope keys are bucketed separately, by rope.HashChunks (see findRope).
func hashKey(k value.Value) uint64 {
	return uint64(k)
}

func (m *Map) find(key value.Value) *entry {
	h := hashKey(key)
	for _, e := range m.buckets[h] {
		if !e.isRope && e.key == key {
			return e
		}
	}
	return nil
}

// findRope looks up a rope-keyed entry by bucketing on rope.HashChunks and
// resolving any bucket collision with rope.Compare, per §4.8's
// "rope_compare(a, b) and rope_hash_chunks(r)" — two distinct ropes that
// happen to hash alike must never be treated as the same key.
func (m *Map) findRope(r rope.Rope) *entry {
	h := rope.HashChunks(r)
	for _, e := range m.buckets[h] {
		if e.isRope && rope.Compare(e.ropeKey, r) == 0 {
			return e
		}
	}
	return nil
}

// ropeDisplayKey folds r's content hash into a value.Value purely for
// iterator.GetKey() to return something; it is never consulted for
// equality (findRope always falls back to rope.Compare for that).
func ropeDisplayKey(r rope.Rope) value.Value {
	return value.NewSmallInt(int64(rope.HashChunks(r)))
}

// Get implements mapfront.ReadOnlyMap.
func (m *Map) Get(key value.Value) (value.Value, bool) {
	if e := m.find(key); e != nil {
		return e.val, true
	}
	return value.Nil, false
}

// GetRopeKey is Get's rope-keyed counterpart (§4.8), looking the entry up
// via findRope's rope.Compare collision resolution.
func (m *Map) GetRopeKey(r rope.Rope) (value.Value, bool) {
	if e := m.findRope(r); e != nil {
		return e.val, true
	}
	return value.Nil, false
}

// Len implements mapfront.ReadOnlyMap.
func (m *Map) Len() int { return len(m.order) }

// Stats implements mapfront.ReadOnlyMap.
func (m *Map) Stats() mapfront.Stats {
	return mapfront.Stats{EntryCount: len(m.order), Impl: "hashmap"}
}

// Set implements mapfront.Map. Overwriting an existing key updates it in
// place rather than allocating a new entry cell.
func (m *Map) Set(key, val value.Value) {
	if e := m.find(key); e != nil {
		e.val = val
		return
	}
	e := &entry{key: key, val: val}
	m.insert(hashKey(key), e)
}

// SetRopeKey binds val to the rope key r (§4.8): unlike Set, bucket
// collisions are resolved with rope.Compare against the stored rope rather
// than by comparing folded hash words, so two different ropes that hash
// alike still get distinct entries.
func (m *Map) SetRopeKey(r rope.Rope, val value.Value) {
	if e := m.findRope(r); e != nil {
		e.val = val
		return
	}
	e := &entry{key: ropeDisplayKey(r), ropeKey: r, isRope: true, val: val}
	m.insert(rope.HashChunks(r), e)
}

// insert allocates e's GC-tracked cell and links it into bucket h and the
// insertion-order slice, shared by Set and SetRopeKey.
func (m *Map) insert(h uint64, e *entry) {
	e.order = m.seq
	m.seq++
	ref, err := defaultHeap.Alloc(1, e)
	if err != nil {
		panic(err)
	}
	e.ref = ref
	m.buckets[h] = append(m.buckets[h], e)
	m.order = append(m.order, e)
}

// Unset implements mapfront.Map.
func (m *Map) Unset(key value.Value) bool {
	h := hashKey(key)
	bucket := m.buckets[h]
	for i, e := range bucket {
		if e.isRope || e.key != key {
			continue
		}
		m.buckets[h] = append(bucket[:i], bucket[i+1:]...)
		m.removeFromOrder(e)
		return true
	}
	return false
}

// UnsetRopeKey removes the entry bound to rope key r, resolving bucket
// collisions via rope.Compare (§4.8).
func (m *Map) UnsetRopeKey(r rope.Rope) bool {
	h := rope.HashChunks(r)
	bucket := m.buckets[h]
	for i, e := range bucket {
		if !e.isRope || rope.Compare(e.ropeKey, r) != 0 {
			continue
		}
		m.buckets[h] = append(bucket[:i], bucket[i+1:]...)
		m.removeFromOrder(e)
		return true
	}
	return false
}

func (m *Map) removeFromOrder(e *entry) {
	for j, oe := range m.order {
		if oe == e {
			m.order = append(m.order[:j], m.order[j+1:]...)
			return
		}
	}
}

// Find implements mapfront.Map.
func (m *Map) Find(key value.Value, create bool) (mapfront.Iterator, bool) {
	e := m.find(key)
	created := false
	if e == nil && create {
		m.Set(key, value.Nil)
		e = m.find(key)
		created = true
	}
	return m.iteratorFor(e, created)
}

// FindRopeKey implements the rope-key counterpart of Find (§4.8
// "find(map, key, create_out)"), resolving lookups and optional creation
// through findRope/SetRopeKey's rope.Compare-based collision handling.
func (m *Map) FindRopeKey(r rope.Rope, create bool) (mapfront.Iterator, bool) {
	e := m.findRope(r)
	created := false
	if e == nil && create {
		m.SetRopeKey(r, value.Nil)
		e = m.findRope(r)
		created = true
	}
	return m.iteratorFor(e, created)
}

func (m *Map) iteratorFor(e *entry, created bool) (mapfront.Iterator, bool) {
	if e == nil {
		return &iterator{m: m, pos: len(m.order)}, false
	}
	for i, oe := range m.order {
		if oe == e {
			return &iterator{m: m, pos: i}, created
		}
	}
	return &iterator{m: m, pos: len(m.order)}, created
}

// Begin implements mapfront.ReadOnlyMap.
func (m *Map) Begin() mapfront.Iterator {
	return &iterator{m: m, pos: 0}
}

type iterator struct {
	m   *Map
	pos int
}

func (it *iterator) End() bool { return it.pos < 0 || it.pos >= len(it.m.order) }

func (it *iterator) Next() { it.pos++ }

func (it *iterator) Prev() { it.pos-- }

func (it *iterator) GetKey() value.Value {
	if it.End() {
		return value.Nil
	}
	return it.m.order[it.pos].key
}

func (it *iterator) GetValue() value.Value {
	if it.End() {
		return value.Nil
	}
	return it.m.order[it.pos].val
}

func (it *iterator) SetValue(v value.Value) {
	if it.End() {
		return
	}
	it.m.order[it.pos].val = v
}
