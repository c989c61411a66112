// Package tracker orchestrates the frame collection, the in-progress
// activity and persistence: it is the application-layer service the commands
// talk to.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/davidag/xtimetracker/internal/clock"
	"github.com/davidag/xtimetracker/internal/config"
	"github.com/davidag/xtimetracker/internal/core/frame"
	"github.com/davidag/xtimetracker/internal/core/report"
	"github.com/davidag/xtimetracker/internal/data/storage"
)

var (
	// ErrNoProject indicates a start or add without a project name.
	ErrNoProject = errors.New("no project given")
	// ErrAlreadyStarted indicates a start while a project is running.
	ErrAlreadyStarted = errors.New("project already started")
	// ErrNotStarted indicates a stop or cancel with nothing running.
	ErrNotStarted = errors.New("no project started")
	// ErrInvalidTime indicates an interval that ends before it starts or
	// in the future.
	ErrInvalidTime = errors.New("invalid time")
	// ErrUnknownName indicates a rename of a project or tag that does not
	// exist.
	ErrUnknownName = errors.New("unknown name")
)

// Current is the in-progress activity: started but not yet stopped, so not
// yet part of the frame collection.
type Current struct {
	Project string
	Start   time.Time
	Tags    []string
}

// Tracker ties together the frame collection, the current activity, the
// configuration and the storage backend.
type Tracker struct {
	store *storage.Store
	cfg   *config.Config
	clk   clock.Clock

	frames       *frame.Frames
	current      *Current
	stateChanged bool
}

// New loads the persisted frames and state from the store.
func New(store *storage.Store, cfg *config.Config, clk clock.Clock) (*Tracker, error) {
	if clk == nil {
		clk = clock.RealClock{}
	}

	rows, err := store.LoadFrames()
	if err != nil {
		return nil, err
	}

	state, err := store.LoadState()
	if err != nil {
		return nil, err
	}
	var current *Current
	if state != nil {
		start, err := frame.ParseTime(state.Start)
		if err != nil {
			return nil, err
		}
		current = &Current{Project: state.Project, Start: start, Tags: state.Tags}
	}

	log.Debug().Int("frames", len(rows)).Bool("started", current != nil).
		Msg("tracker state loaded")

	return &Tracker{
		store:   store,
		cfg:     cfg,
		clk:     clk,
		frames:  frame.NewFrames(rows, clk),
		current: current,
	}, nil
}

// Frames exposes the underlying collection.
func (t *Tracker) Frames() *frame.Frames {
	return t.frames
}

// Config exposes the loaded configuration.
func (t *Tracker) Config() *config.Config {
	return t.cfg
}

// IsStarted reports whether an activity is currently running.
func (t *Tracker) IsStarted() bool {
	return t.current != nil
}

// Current returns a copy of the in-progress activity, or nil.
func (t *Tracker) Current() *Current {
	if t.current == nil {
		return nil
	}
	cur := *t.current
	cur.Tags = append([]string(nil), t.current.Tags...)
	return &cur
}

// Start begins tracking a project. Configured default tags for the project
// are appended to the given ones. With gap disabled, the new activity starts
// at the stop time of the last recorded frame instead of now.
func (t *Tracker) Start(project string, tags []string, gap bool) (*Current, error) {
	if project == "" {
		return nil, ErrNoProject
	}
	if t.current != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyStarted, t.current.Project)
	}

	start := t.clk.Now()
	if !gap {
		last, err := t.frames.ByIndex(-1)
		if err != nil {
			return nil, fmt.Errorf("no previous frame to continue from: %w", err)
		}
		start = last.Stop
	}

	tags = append(append([]string(nil), tags...), t.cfg.DefaultTagsFor(project)...)
	t.current = &Current{Project: project, Start: start, Tags: frame.DedupeTags(tags)}
	t.stateChanged = true

	log.Info().Str("project", project).Time("start", start).Msg("started")
	return t.Current(), nil
}

// Stop ends the running activity at the given time (or now when zero) and
// records it as a frame.
func (t *Tracker) Stop(at time.Time) (frame.Frame, error) {
	if t.current == nil {
		return frame.Frame{}, ErrNotStarted
	}

	now := t.clk.Now()
	if at.IsZero() {
		at = now
	}
	if t.current.Start.After(at) {
		return frame.Frame{}, fmt.Errorf("%w: task cannot end before it starts", ErrInvalidTime)
	}
	if at.After(now) {
		return frame.Frame{}, fmt.Errorf("%w: task cannot end in the future", ErrInvalidTime)
	}

	f := t.frames.Add(t.current.Project, t.current.Start, at, t.current.Tags)
	t.current = nil
	t.stateChanged = true

	log.Info().Str("project", f.Project).Str("id", f.ID).Msg("stopped")
	return f, nil
}

// Cancel drops the running activity without recording a frame.
func (t *Tracker) Cancel() (*Current, error) {
	if t.current == nil {
		return nil, ErrNotStarted
	}
	old := t.Current()
	t.current = nil
	t.stateChanged = true
	return old, nil
}

// Add records a finished interval directly, merging configured default tags.
func (t *Tracker) Add(project string, from, to time.Time, tags []string) (frame.Frame, error) {
	if project == "" {
		return frame.Frame{}, ErrNoProject
	}
	if from.After(to) {
		return frame.Frame{}, fmt.Errorf("%w: task cannot end before it starts", ErrInvalidTime)
	}

	tags = append(append([]string(nil), tags...), t.cfg.DefaultTagsFor(project)...)
	return t.frames.Add(project, from, to, tags), nil
}

// Projects returns the sorted distinct project names. When tags are given,
// only projects carrying every one of them (on some frame) are returned.
func (t *Tracker) Projects(tags []string) []string {
	frames := t.frames.Filter(frame.FilterOptions{Tags: tags})
	matched := make(map[string]map[string]bool)
	projects := make(map[string]bool)
	for _, f := range frames {
		for _, tag := range f.Tags {
			if matched[tag] == nil {
				matched[tag] = make(map[string]bool)
			}
			matched[tag][f.Project] = true
		}
		projects[f.Project] = true
	}

	var out []string
	for project := range projects {
		ok := true
		for _, tag := range tags {
			if !matched[tag][project] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, project)
		}
	}
	sort.Strings(out)
	return out
}

// Tags returns the sorted distinct tag names. When projects are given, only
// tags appearing in every one of them are returned.
func (t *Tracker) Tags(projects []string) []string {
	frames := t.frames.Filter(frame.FilterOptions{Projects: projects})
	matched := make(map[string]map[string]bool)
	tags := make(map[string]bool)
	for _, f := range frames {
		for _, tag := range f.Tags {
			if matched[f.Project] == nil {
				matched[f.Project] = make(map[string]bool)
			}
			matched[f.Project][tag] = true
			tags[tag] = true
		}
	}

	var out []string
	for tag := range tags {
		ok := true
		for _, project := range projects {
			if !matched[project][tag] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

// Span returns the full date range ever recorded, optionally extended to
// cover the running activity.
func (t *Tracker) Span(includeCurrent bool) frame.Span {
	s := t.frames.Span()
	if includeCurrent && t.current != nil {
		s = s.Union(frame.NewSpan(t.current.Start, t.clk.Now(), frame.TimeframeDay))
	}
	return s
}

// Log returns the filtered, clipped frames for a window. includeCurrent
// overrides the configured report_current option when non-nil.
func (t *Tracker) Log(opt report.Options, includeCurrent *bool) ([]frame.Frame, error) {
	return report.Log(t.frames, t.clk, t.reportOptions(opt, includeCurrent))
}

// Report builds the aggregated report for a window. includeCurrent overrides
// the configured report_current option when non-nil.
func (t *Tracker) Report(opt report.Options, includeCurrent *bool) (*report.Report, error) {
	return report.Generate(t.frames, t.clk, t.reportOptions(opt, includeCurrent))
}

func (t *Tracker) reportOptions(opt report.Options, includeCurrent *bool) report.Options {
	opt.WeekStart = t.cfg.Options.WeekStart

	include := t.cfg.Options.ReportCurrent
	if includeCurrent != nil {
		include = *includeCurrent
	}
	if include && t.current != nil {
		opt.Current = &report.Current{
			Project: t.current.Project,
			Start:   t.current.Start,
			Tags:    t.current.Tags,
		}
	}
	return opt
}

// RenameProject renames a project on every affected frame and saves.
func (t *Tracker) RenameProject(oldName, newName string) error {
	return t.rename(oldName, t.Projects(nil), func(f frame.Frame) (frame.Frame, bool) {
		if f.Project != oldName {
			return f, false
		}
		f.Project = newName
		return f, true
	})
}

// RenameTag renames a tag on every affected frame and saves.
func (t *Tracker) RenameTag(oldName, newName string) error {
	return t.rename(oldName, t.Tags(nil), func(f frame.Frame) (frame.Frame, bool) {
		changed := false
		tags := make([]string, len(f.Tags))
		for i, tag := range f.Tags {
			if tag == oldName {
				tags[i] = newName
				changed = true
			} else {
				tags[i] = tag
			}
		}
		f.Tags = tags
		return f, changed
	})
}

func (t *Tracker) rename(oldName string, known []string, apply func(frame.Frame) (frame.Frame, bool)) error {
	found := false
	for _, name := range known {
		if name == oldName {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %q does not exist", ErrUnknownName, oldName)
	}

	updatedAt := t.clk.Now()
	for _, f := range t.frames.Dump() {
		renamed, changed := apply(f)
		if !changed {
			continue
		}
		renamed.UpdatedAt = updatedAt
		if err := t.frames.Set(frame.IDKey(f.ID), renamed); err != nil {
			return err
		}
	}
	t.frames.MarkChanged()
	return t.Save()
}

// Remove deletes a frame from the collection and saves.
func (t *Tracker) Remove(key frame.Key) error {
	if err := t.frames.Delete(key); err != nil {
		return err
	}
	return t.Save()
}

// Merge compares a conflict frames file against the collection: frames with
// a known id but different data are conflicting, frames with an unknown id
// can be merged as-is.
func (t *Tracker) Merge(path string) (conflicting, merging []frame.Frame, err error) {
	candidates, err := storage.ReadFrames(path)
	if err != nil {
		return nil, nil, err
	}

	for _, candidate := range candidates {
		original, err := t.frames.ByID(candidate.ID)
		switch {
		case errors.Is(err, frame.ErrFrameNotFound):
			merging = append(merging, candidate)
		case err != nil:
			return nil, nil, err
		case !original.Equal(candidate):
			conflicting = append(conflicting, candidate)
		}
	}
	return conflicting, merging, nil
}

// ApplyMerge upserts the given frames into the collection by id and saves.
func (t *Tracker) ApplyMerge(frames []frame.Frame) error {
	for _, f := range frames {
		if err := t.frames.Set(frame.IDKey(f.ID), f); err != nil {
			return err
		}
	}
	return t.Save()
}

// Watch invokes onChange whenever another process rewrites the tracker
// files, until the context is cancelled.
func (t *Tracker) Watch(ctx context.Context, onChange func()) error {
	return t.store.Watch(ctx, onChange)
}

// Save persists the frame collection when dirty and the activity state when
// it changed. The dirty flag is cleared only after a successful write.
func (t *Tracker) Save() error {
	if t.frames.Changed() {
		if err := t.store.SaveFrames(t.frames.Dump()); err != nil {
			return err
		}
		t.frames.MarkSaved()
	}

	if t.stateChanged {
		var state *storage.State
		if t.current != nil {
			state = &storage.State{
				Project: t.current.Project,
				Start:   t.current.Start.UTC().Unix(),
				Tags:    t.current.Tags,
			}
		}
		if err := t.store.SaveState(state); err != nil {
			return err
		}
		t.stateChanged = false
	}
	return nil
}
