// Package triemap implements an integer-keyed, order-preserving map
// front-end, grounded on the teacher's hive/index.NumericIndex: keys are
// folded to a flat numeric space, and lookup goes through one table rather
// than a name-by-name comparison tree. NumericIndex trades ordering for
// raw lookup speed with a native Go map; this front-end needs the reverse
// trade (the whole point of a trie map per §4.8 is ordered forward/backward
// iteration), so the keys are kept in a sorted slice instead, with
// insertion position found by binary search (sort.Search) rather than a
// real radix/digit trie — the example pack carries no ordered-tree
// library, so this falls back to the standard library (see DESIGN.md).
package triemap

import (
	"sort"

	"github.com/wordcell/corevm/internal/cellpage"
	"github.com/wordcell/corevm/internal/gc"
	"github.com/wordcell/corevm/mapfront"
	"github.com/wordcell/corevm/value"
)

// defaultHeap is the GC heap backing entry nodes, separate from the other
// front-ends' so allocation pressure doesn't cross-trigger collections.
var defaultHeap = gc.NewHeap(cellpage.NewMmapSource(), 8, 256)

// PauseGC and ResumeGC expose this map's entry heap to corevm.Runtime.
func PauseGC() { defaultHeap.PauseGC() }

func ResumeGC() error { return defaultHeap.ResumeGC() }

// entry is one key/value binding, GC-tracked via its own cell (§4.8
// alloc_cells/declare_child surface).
type entry struct {
	ref cellpage.CellRef
	key int64
	val value.Value
}

func (e *entry) Children() []cellpage.CellRef { return nil }

// Map is an integer-keyed map ordered by key. The zero Map is not usable;
// use New.
type Map struct {
	entries []*entry // sorted ascending by key
}

// New creates an empty trie map.
func New() *Map {
	return &Map{}
}

// search returns the index of key in m.entries, or the index it would be
// inserted at, and whether it was found.
func (m *Map) search(key int64) (int, bool) {
	i := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].key >= key })
	if i < len(m.entries) && m.entries[i].key == key {
		return i, true
	}
	return i, false
}

// Get implements mapfront.ReadOnlyMap.
func (m *Map) Get(key value.Value) (value.Value, bool) {
	i, ok := m.search(key.SmallInt())
	if !ok {
		return value.Nil, false
	}
	return m.entries[i].val, true
}

// Len implements mapfront.ReadOnlyMap.
func (m *Map) Len() int { return len(m.entries) }

// Stats implements mapfront.ReadOnlyMap.
func (m *Map) Stats() mapfront.Stats {
	return mapfront.Stats{EntryCount: len(m.entries), Impl: "triemap"}
}

// Set implements mapfront.Map. Overwriting an existing key updates it in
// place; a new key is inserted keeping entries sorted by key.
func (m *Map) Set(key, val value.Value) {
	k := key.SmallInt()
	i, ok := m.search(k)
	if ok {
		m.entries[i].val = val
		return
	}
	e := &entry{key: k, val: val}
	ref, err := defaultHeap.Alloc(1, e)
	if err != nil {
		panic(err)
	}
	e.ref = ref
	m.entries = append(m.entries, nil)
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = e
}

// Unset implements mapfront.Map.
func (m *Map) Unset(key value.Value) bool {
	i, ok := m.search(key.SmallInt())
	if !ok {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	return true
}

// Find implements mapfront.Map.
func (m *Map) Find(key value.Value, create bool) (mapfront.Iterator, bool) {
	k := key.SmallInt()
	i, ok := m.search(k)
	created := false
	if !ok && create {
		m.Set(key, value.Nil)
		i, ok = m.search(k)
		created = true
	}
	if !ok {
		return &iterator{m: m, pos: len(m.entries)}, false
	}
	return &iterator{m: m, pos: i}, created
}

// Begin implements mapfront.ReadOnlyMap: the iterator starts at the
// smallest key.
func (m *Map) Begin() mapfront.Iterator {
	return &iterator{m: m, pos: 0}
}

// End returns an iterator positioned one past the largest key, so
// repeated Prev() visits keys in strictly decreasing order (§8 scenario 5).
func (m *Map) End() mapfront.Iterator {
	return &iterator{m: m, pos: len(m.entries)}
}

type iterator struct {
	m   *Map
	pos int
}

func (it *iterator) End() bool { return it.pos < 0 || it.pos >= len(it.m.entries) }

func (it *iterator) Next() { it.pos++ }

func (it *iterator) Prev() { it.pos-- }

func (it *iterator) GetKey() value.Value {
	if it.End() {
		return value.Nil
	}
	return value.NewSmallInt(it.m.entries[it.pos].key)
}

func (it *iterator) GetValue() value.Value {
	if it.End() {
		return value.Nil
	}
	return it.m.entries[it.pos].val
}

func (it *iterator) SetValue(v value.Value) {
	if it.End() {
		return
	}
	it.m.entries[it.pos].val = v
}
