package gc

import "errors"

var (
	// ErrResumeWithoutPause indicates resume_gc() was called with no
	// matching pause_gc() outstanding (spec.md §6).
	ErrResumeWithoutPause = errors.New("gc: resume without matching pause")

	// ErrDoubleRelease indicates release(word) was called on a root whose
	// refcount had already reached zero.
	ErrDoubleRelease = errors.New("gc: release without matching preserve")

	// ErrUnknownCell indicates a CellRef not tracked by this heap's
	// registry was dereferenced.
	ErrUnknownCell = errors.New("gc: dereferenced an unregistered cell")
)
