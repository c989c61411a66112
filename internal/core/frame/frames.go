package frame

import (
	"fmt"
	"time"

	"github.com/davidag/xtimetracker/internal/clock"
)

// Key addresses a frame in the collection either by sequence position or by
// id prefix. The two lookup strategies are distinct: positions index the
// backing slice directly (negative values count from the end), id prefixes
// are resolved by a linear scan.
type Key struct {
	index   int
	id      string
	byIndex bool
}

// IndexKey addresses a frame by position. Negative positions count from the
// end of the collection, -1 being the last frame.
func IndexKey(i int) Key {
	return Key{index: i, byIndex: true}
}

// IDKey addresses a frame by id prefix.
func IDKey(id string) Key {
	return Key{id: id}
}

// Frames is the ordered, mutable collection of recorded frames. Order is
// insertion order, not time order; sorting for display is the caller's
// responsibility. The collection tracks the span covering all contained
// frames and a dirty flag signalling that it differs from the persisted
// state.
type Frames struct {
	rows    []Frame
	span    Span
	changed bool
	clk     clock.Clock
}

// NewFrames builds a collection from already-constructed frames. An empty
// collection starts with a degenerate span (creation time down to the epoch)
// that is corrected as soon as the first frame is added.
func NewFrames(rows []Frame, clk clock.Clock) *Frames {
	if clk == nil {
		clk = clock.RealClock{}
	}
	fs := &Frames{clk: clk}
	minStart, maxStop := clk.Now(), time.Unix(0, 0)
	for _, f := range rows {
		if f.Start.Before(minStart) {
			minStart = f.Start
		}
		if f.Stop.After(maxStop) {
			maxStop = f.Stop
		}
		fs.rows = append(fs.rows, f)
	}
	fs.span = NewSpan(minStart, maxStop, TimeframeDay)
	return fs
}

// Len returns the number of contained frames.
func (fs *Frames) Len() int {
	return len(fs.rows)
}

// Span returns the day-snapped range covering every contained frame. The
// span only grows; deleting frames does not shrink it.
func (fs *Frames) Span() Span {
	return fs.span
}

// Changed reports whether the collection has been mutated since it was built
// or last marked saved.
func (fs *Frames) Changed() bool {
	return fs.changed
}

// MarkSaved clears the dirty flag after a successful persistence write.
func (fs *Frames) MarkSaved() {
	fs.changed = false
}

// MarkChanged raises the dirty flag for bulk in-place rewrites such as
// project or tag renames.
func (fs *Frames) MarkChanged() {
	fs.changed = true
}

// Get resolves a key to the frame it addresses.
func (fs *Frames) Get(key Key) (Frame, error) {
	if key.byIndex {
		return fs.ByIndex(key.index)
	}
	return fs.ByID(key.id)
}

// ByIndex returns the frame at the given position, counting from the end for
// negative positions.
func (fs *Frames) ByIndex(i int) (Frame, error) {
	resolved, err := fs.resolveIndex(i)
	if err != nil {
		return Frame{}, err
	}
	return fs.rows[resolved], nil
}

// ByID returns the first frame, in collection order, whose id starts with
// the given prefix. Ambiguous prefixes matching several frames are not
// detected: first match wins.
func (fs *Frames) ByID(prefix string) (Frame, error) {
	i, err := fs.indexByID(prefix)
	if err != nil {
		return Frame{}, err
	}
	return fs.rows[i], nil
}

// IDs returns every frame id in collection order.
func (fs *Frames) IDs() []string {
	ids := make([]string, len(fs.rows))
	for i, f := range fs.rows {
		ids[i] = f.ID
	}
	return ids
}

// Set replaces the frame addressed by key, marking the collection dirty.
// Setting by an id that is not present appends the frame instead of erroring;
// in both id cases the frame's id is forced to the key. This upsert behavior
// carries the synthetic "current" frame used by reporting and the merge flow.
func (fs *Frames) Set(key Key, f Frame) error {
	fs.changed = true

	if key.byIndex {
		resolved, err := fs.resolveIndex(key.index)
		if err != nil {
			return err
		}
		fs.rows[resolved] = f
	} else {
		f.ID = key.id
		if i, err := fs.indexByID(key.id); err == nil {
			fs.rows[i] = f
		} else {
			fs.rows = append(fs.rows, f)
		}
	}

	fs.updateSpan(f)
	return nil
}

// Delete removes the frame addressed by key and marks the collection dirty.
func (fs *Frames) Delete(key Key) error {
	fs.changed = true

	i := key.index
	if key.byIndex {
		resolved, err := fs.resolveIndex(key.index)
		if err != nil {
			return err
		}
		i = resolved
	} else {
		resolved, err := fs.indexByID(key.id)
		if err != nil {
			return err
		}
		i = resolved
	}

	fs.rows = append(fs.rows[:i], fs.rows[i+1:]...)
	return nil
}

// AddOption customizes a frame created through Add.
type AddOption func(*Frame)

// WithID fixes the id of the added frame instead of generating one.
func WithID(id string) AddOption {
	return func(f *Frame) { f.ID = id }
}

// WithUpdatedAt fixes the last-modified time of the added frame.
func WithUpdatedAt(t time.Time) AddOption {
	return func(f *Frame) { f.UpdatedAt = t }
}

// Add constructs and appends a new frame, generating an id when none is
// supplied, growing the running span to cover it and marking the collection
// dirty. The created frame is returned.
func (fs *Frames) Add(project string, start, stop time.Time, tags []string, opts ...AddOption) Frame {
	f := New(start, stop, project, "", tags, fs.clk.Now())
	for _, opt := range opts {
		opt(&f)
	}
	if f.ID == "" {
		f.ID = NewID()
	}

	fs.changed = true
	fs.rows = append(fs.rows, f)
	fs.updateSpan(f)
	return f
}

// Dump returns every contained frame in collection order, ready for
// serialization into the persisted row shape. The dirty flag is left
// untouched; the persistence layer clears it after a successful write.
func (fs *Frames) Dump() []Frame {
	out := make([]Frame, len(fs.rows))
	copy(out, fs.rows)
	return out
}

// FilterOptions restricts the frames yielded by Filter. Nil or empty slices
// leave the corresponding predicate inactive. Include and exclude sets are
// evaluated independently; validating that they are disjoint is the caller's
// job.
type FilterOptions struct {
	Projects       []string
	Tags           []string
	IgnoreProjects []string
	IgnoreTags     []string
	Span           *Span
}

// Filter returns the frames satisfying every active predicate, in collection
// order. When a span is given, frames fully inside it are returned unchanged,
// frames partially overlapping it are returned as copies clamped to the span
// boundaries, and frames outside it are dropped.
func (fs *Frames) Filter(opt FilterOptions) []Frame {
	var out []Frame
	for _, f := range fs.rows {
		if len(opt.Projects) > 0 && !containsString(opt.Projects, f.Project) {
			continue
		}
		if len(opt.IgnoreProjects) > 0 && containsString(opt.IgnoreProjects, f.Project) {
			continue
		}
		if len(opt.Tags) > 0 && !containsAny(f.Tags, opt.Tags) {
			continue
		}
		if len(opt.IgnoreTags) > 0 && containsAny(f.Tags, opt.IgnoreTags) {
			continue
		}

		switch {
		case opt.Span == nil:
			out = append(out, f)
		case opt.Span.Contains(f):
			out = append(out, f)
		case opt.Span.Overlaps(f):
			start, stop := f.Start, f.Stop
			if start.Before(opt.Span.Start) {
				start = opt.Span.Start
			}
			if stop.After(opt.Span.Stop) {
				stop = opt.Span.Stop
			}
			out = append(out, f.WithBounds(start, stop))
		}
	}
	return out
}

// resolveIndex maps a possibly negative position onto the backing slice.
func (fs *Frames) resolveIndex(i int) (int, error) {
	resolved := i
	if resolved < 0 {
		resolved += len(fs.rows)
	}
	if resolved < 0 || resolved >= len(fs.rows) {
		return 0, fmt.Errorf("%w: no frame at index %d", ErrFrameNotFound, i)
	}
	return resolved, nil
}

// indexByID finds the first frame whose id starts with the given prefix.
func (fs *Frames) indexByID(prefix string) (int, error) {
	for i, f := range fs.rows {
		if len(f.ID) >= len(prefix) && f.ID[:len(prefix)] == prefix {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: id %q", ErrFrameNotFound, prefix)
}

// updateSpan grows the running span to cover the given frame.
func (fs *Frames) updateSpan(f Frame) {
	minStart, maxStop := fs.span.Start, fs.span.Stop
	if f.Start.Before(minStart) {
		minStart = f.Start
	}
	if f.Stop.After(maxStop) {
		maxStop = f.Stop
	}
	fs.span = NewSpan(minStart, maxStop, TimeframeDay)
}

// containsString reports whether values includes v.
func containsString(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

// containsAny reports whether any element of values appears in candidates.
func containsAny(values, candidates []string) bool {
	for _, v := range values {
		if containsString(candidates, v) {
			return true
		}
	}
	return false
}
