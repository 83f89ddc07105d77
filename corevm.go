// Package corevm is the public surface and glue (component H): a Runtime
// bundles the rope, list, string-buffer, and map-front-end engines behind
// one matched init/cleanup lifecycle, grounded on the teacher's
// hive.Open/hive.Close pairing (§4.9).
//
// spec.md leaves this layer almost entirely unspecified ("only their
// interfaces to the core are specified"); the shape below is this port's
// own choice of how a Go caller would want to reach the engines, not a
// translation of anything in the original.
package corevm

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/wordcell/corevm/mapfront"
	"github.com/wordcell/corevm/mapfront/hashmap"
	"github.com/wordcell/corevm/mapfront/triemap"
	"github.com/wordcell/corevm/rope"
	"github.com/wordcell/corevm/seq"
	"github.com/wordcell/corevm/strbuf"
	"github.com/wordcell/corevm/value"
)

// Mode selects the threading profile a Runtime operates under (§5).
type Mode int

const (
	// Single is one mutator thread doing its own synchronous collection
	// between pause/resume pairs.
	Single Mode = iota
	// Async is one mutator thread with collection run by a separate
	// goroutine, synchronized at allocation points.
	Async
	// SharedGroup is several mutator threads sharing one heap, where a
	// collection may only start once every thread in the group is paused.
	SharedGroup
)

func (m Mode) String() string {
	switch m {
	case Single:
		return "single"
	case Async:
		return "async"
	case SharedGroup:
		return "shared"
	default:
		return "unknown"
	}
}

// Level distinguishes fatal errors (allocation failure, invariant
// violation — unrecoverable) from recoverable ones (type mismatch,
// out-of-range index, double-bind, length overflow), per §7.
type Level int

const (
	Recoverable Level = iota
	Fatal
)

func (l Level) String() string {
	if l == Fatal {
		return "FATAL"
	}
	return "recoverable"
}

// ErrorHook receives every error the core reports, in place of exceptions
// (§7 "No exceptions propagate through the core").
type ErrorHook func(level Level, format string, args ...any)

// defaultHook writes to stderr and terminates the process on a Fatal
// report, matching §7's "default hook ... for fatal errors, terminates."
func defaultHook(level Level, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "corevm: %s: %s\n", level, fmt.Sprintf(format, args...))
	if level == Fatal {
		os.Exit(1)
	}
}

// ErrAlreadyInitialized is returned by Reinit when called on a Runtime that
// is already initialized (§6 "double-init is an error").
var ErrAlreadyInitialized = errors.New("corevm: already initialized")

// ErrNotInitialized is returned by Cleanup when called on a Runtime that
// was never successfully initialized or was already cleaned up. Other
// operations do not check for it.
var ErrNotInitialized = errors.New("corevm: not initialized")

// Option configures a Runtime at Init time.
type Option func(*Runtime)

// WithErrorHook installs hook as the Runtime's error hook in place of the
// default (§6 "set_error_proc").
func WithErrorHook(hook ErrorHook) Option {
	return func(r *Runtime) { r.hook = hook }
}

// Runtime owns one mutator's (or mutator group's) view of the engines:
// the rope, list, string-buffer, and map-front-end packages each keep
// their own process-wide heap (see each package's defaultHeap), so a
// Runtime's pause/resume and error-hook state is what's actually
// thread-local here, mirroring §5's "pools are thread-local in
// single/async modes, group-local in shared mode."
type Runtime struct {
	mu          sync.Mutex
	mode        Mode
	hook        ErrorHook
	initialized bool
	pauseDepth  int
}

// Init creates and initializes a Runtime for the given threading mode.
func Init(mode Mode, opts ...Option) (*Runtime, error) {
	r := &Runtime{hook: defaultHook}
	for _, opt := range opts {
		opt(r)
	}
	r.mode = mode
	r.initialized = true
	return r, nil
}

// Reinit implements §6's "double-init is an error" for a single Runtime
// value: Go's Init returns a fresh Runtime per call so there's no process
// singleton to double-init against, but a Runtime that's been Cleanup'd
// can be brought back via Reinit, and doing so on one that's still live
// is the error case §6 describes.
func (r *Runtime) Reinit(mode Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initialized {
		return ErrAlreadyInitialized
	}
	r.mode = mode
	r.initialized = true
	return nil
}

// Cleanup tears down the Runtime. It must be matched with a prior Init
// (§6 "must match init, thread-local").
func (r *Runtime) Cleanup() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return ErrNotInitialized
	}
	r.initialized = false
	return nil
}

// Mode returns the Runtime's threading profile.
func (r *Runtime) Mode() Mode { return r.mode }

// SetErrorHook installs hook as the Runtime's error hook (§6
// "set_error_proc"), replacing whatever was set at Init time.
func (r *Runtime) SetErrorHook(hook ErrorHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hook = hook
}

func (r *Runtime) report(level Level, format string, args ...any) {
	r.mu.Lock()
	hook := r.hook
	r.mu.Unlock()
	if hook != nil {
		hook(level, format, args...)
	}
}

// PauseGC implements pause_gc(): defers automatic collection across every
// engine heap until a matching ResumeGC (§5, §6).
func (r *Runtime) PauseGC() {
	r.mu.Lock()
	r.pauseDepth++
	r.mu.Unlock()
	rope.PauseGC()
	seq.PauseGC()
	hashmap.PauseGC()
	triemap.PauseGC()
}

// ErrResumeWithoutPause is returned by ResumeGC when called without a
// matching PauseGC (§6 "resume without pause is an error").
var ErrResumeWithoutPause = errors.New("corevm: resume_gc without matching pause_gc")

// ResumeGC implements resume_gc(): the inverse of PauseGC.
func (r *Runtime) ResumeGC() error {
	r.mu.Lock()
	if r.pauseDepth == 0 {
		r.mu.Unlock()
		r.report(Recoverable, "resume_gc without matching pause_gc")
		return ErrResumeWithoutPause
	}
	r.pauseDepth--
	r.mu.Unlock()

	if err := rope.ResumeGC(); err != nil {
		return err
	}
	if err := seq.ResumeGC(); err != nil {
		return err
	}
	if err := hashmap.ResumeGC(); err != nil {
		return err
	}
	return triemap.ResumeGC()
}

// --- Rope operations (§4.4, §6) -------------------------------------------

// NewRope decodes bytes under format into a new rope (§6 "new_rope").
func (r *Runtime) NewRope(format rope.Format, bytes []byte) rope.Rope {
	return rope.NewRope(format, bytes)
}

// RopeAt returns the character at index i, or value.Nil if i is
// out-of-range (§6 "rope_at", "out-of-range → INVALID").
func (r *Runtime) RopeAt(rp rope.Rope, i int) value.Value {
	c := rope.At(rp, i)
	if c == rope.InvalidChar {
		r.report(Recoverable, "rope_at: index %d out of range [0,%d)", i, rp.Length())
		return value.Nil
	}
	return value.NewChar(c)
}

func (r *Runtime) Subrope(rp rope.Rope, first, last int) rope.Rope { return rope.Subrope(rp, first, last) }

func (r *Runtime) ConcatRope(a, b rope.Rope) rope.Rope { return rope.Concat(a, b) }

func (r *Runtime) RepeatRope(rp rope.Rope, n int) rope.Rope { return rope.Repeat(rp, n) }

func (r *Runtime) InsertRope(rp rope.Rope, i int, ins rope.Rope) rope.Rope {
	return rope.Insert(rp, i, ins)
}

func (r *Runtime) RemoveRope(rp rope.Rope, first, last int) rope.Rope {
	return rope.Remove(rp, first, last)
}

func (r *Runtime) ReplaceRope(rp rope.Rope, first, last int, with rope.Rope) rope.Rope {
	return rope.Replace(rp, first, last, with)
}

func (r *Runtime) CompareRope(a, b rope.Rope) int { return rope.Compare(a, b) }

// --- Vector and list operations (§4.5, §6) --------------------------------

// NewVector builds an immutable flat vector from elems (§4.5
// "new_vector").
func (r *Runtime) NewVector(elems []value.Value) seq.List {
	return seq.NewVector(elems)
}

// NewMVector builds a mutable vector with the given capacity (§4.5
// "new_mvector").
func (r *Runtime) NewMVector(capacity int) seq.List {
	return seq.NewMVector(capacity)
}

// SetLength implements set_length (§4.5): length overflow reports a
// recoverable error and returns l unchanged.
func (r *Runtime) SetLength(l seq.List, n int) seq.List {
	if n < 0 || n > seq.VectorMaxLength {
		r.report(Recoverable, "set_length: length %d exceeds VectorMaxLength", n)
		return l
	}
	return seq.SetLength(l, n)
}

// SetAt implements set_at (§4.5); out-of-range indices report via the
// error hook and return l unchanged.
func (r *Runtime) SetAt(l seq.List, i int, v value.Value) seq.List {
	out, err := seq.SetAt(l, i, v)
	if err != nil {
		r.report(Recoverable, "set_at: %v", err)
		return l
	}
	return out
}

func (r *Runtime) SetLoop(l seq.List, k int) seq.List {
	out, err := seq.SetLoop(l, k)
	if err != nil {
		r.report(Recoverable, "set_loop: %v", err)
		return l
	}
	return out
}

func (r *Runtime) FreezeMList(l seq.List) seq.List { return seq.FreezeMList(l) }

func (r *Runtime) SublistOf(l seq.List, first, last int) seq.List { return seq.Sublist(l, first, last) }

func (r *Runtime) ConcatList(a, b seq.List) seq.List { return seq.Concat(a, b) }

func (r *Runtime) InsertList(l seq.List, i int, ins seq.List) seq.List {
	return seq.Insert(l, i, ins)
}

func (r *Runtime) RemoveList(l seq.List, first, last int) seq.List {
	return seq.Remove(l, first, last)
}

func (r *Runtime) ReplaceList(l seq.List, first, last int, with seq.List) seq.List {
	return seq.Replace(l, first, last, with)
}

// --- String buffer (§4.7, §6) ----------------------------------------------

// NewStringBuffer creates a string buffer targeting format (§4.7).
func (r *Runtime) NewStringBuffer(format rope.Format) *strbuf.Builder {
	return strbuf.New(format)
}

// --- Map front-ends (§4.8, §6) ---------------------------------------------

// NewHashMap creates an empty hash-map front-end (§4.8).
func (r *Runtime) NewHashMap() mapfront.Map {
	return hashmap.New()
}

// NewTrieMap creates an empty ordered trie-map front-end (§4.8).
func (r *Runtime) NewTrieMap() mapfront.Map {
	return triemap.New()
}

// --- Roots (§3.4, §6) -------------------------------------------------------

// PreserveRope and ReleaseRope implement preserve(word)/release(word)
// (§3.4, §6) for a rope.
func (r *Runtime) PreserveRope(rp rope.Rope) { rope.Preserve(rp) }

func (r *Runtime) ReleaseRope(rp rope.Rope) error { return rope.Release(rp) }

// PreserveList and ReleaseList implement preserve(word)/release(word)
// (§3.4, §6) for a list.
func (r *Runtime) PreserveList(l seq.List) { seq.Preserve(l) }

func (r *Runtime) ReleaseList(l seq.List) error { return seq.Release(l) }
