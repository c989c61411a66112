package tracker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidag/xtimetracker/internal/config"
	"github.com/davidag/xtimetracker/internal/core/frame"
	"github.com/davidag/xtimetracker/internal/core/report"
	"github.com/davidag/xtimetracker/internal/data/storage"
)

type mockClock struct {
	now time.Time
}

func (c *mockClock) Now() time.Time {
	return c.now
}

func (c *mockClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestTracker(t *testing.T) (*Tracker, *mockClock, string) {
	t.Helper()
	dir := t.TempDir()
	clk := &mockClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)}
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	tr, err := New(storage.NewStore(dir), cfg, clk)
	require.NoError(t, err)
	return tr, clk, dir
}

func TestStartStopFlow(t *testing.T) {
	tr, clk, _ := newTestTracker(t)

	assert.False(t, tr.IsStarted())
	assert.Nil(t, tr.Current())

	cur, err := tr.Start("apollo11", []string{"module", "module"}, true)
	require.NoError(t, err)
	assert.True(t, tr.IsStarted())
	assert.Equal(t, "apollo11", cur.Project)
	assert.Equal(t, []string{"module"}, cur.Tags)
	assert.True(t, cur.Start.Equal(clk.now))

	_, err = tr.Start("gemini", nil, true)
	assert.ErrorIs(t, err, ErrAlreadyStarted)

	clk.advance(time.Hour)
	f, err := tr.Stop(time.Time{})
	require.NoError(t, err)
	assert.False(t, tr.IsStarted())
	assert.Equal(t, "apollo11", f.Project)
	assert.Equal(t, time.Hour, f.Duration())
	assert.Equal(t, 1, tr.Frames().Len())
}

func TestStartValidation(t *testing.T) {
	tr, _, _ := newTestTracker(t)

	_, err := tr.Start("", nil, true)
	assert.ErrorIs(t, err, ErrNoProject)

	// No previous frame to continue from.
	_, err = tr.Start("apollo11", nil, false)
	assert.Error(t, err)
}

func TestStartWithoutGap(t *testing.T) {
	tr, clk, _ := newTestTracker(t)

	from := clk.now.Add(-2 * time.Hour)
	to := clk.now.Add(-time.Hour)
	_, err := tr.Add("apollo11", from, to, nil)
	require.NoError(t, err)

	cur, err := tr.Start("gemini", nil, false)
	require.NoError(t, err)
	assert.True(t, cur.Start.Equal(to), "no-gap start continues from the last stop")
}

func TestStopValidation(t *testing.T) {
	tr, clk, _ := newTestTracker(t)

	_, err := tr.Stop(time.Time{})
	assert.ErrorIs(t, err, ErrNotStarted)

	_, err = tr.Start("apollo11", nil, true)
	require.NoError(t, err)

	_, err = tr.Stop(clk.now.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = tr.Stop(clk.now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTime)

	assert.True(t, tr.IsStarted(), "a failed stop leaves the activity running")
}

func TestCancelDropsCurrent(t *testing.T) {
	tr, _, _ := newTestTracker(t)

	_, err := tr.Cancel()
	assert.ErrorIs(t, err, ErrNotStarted)

	_, err = tr.Start("apollo11", nil, true)
	require.NoError(t, err)

	old, err := tr.Cancel()
	require.NoError(t, err)
	assert.Equal(t, "apollo11", old.Project)
	assert.False(t, tr.IsStarted())
	assert.Equal(t, 0, tr.Frames().Len())
}

func TestAddValidation(t *testing.T) {
	tr, clk, _ := newTestTracker(t)

	_, err := tr.Add("", clk.now.Add(-time.Hour), clk.now, nil)
	assert.ErrorIs(t, err, ErrNoProject)

	_, err = tr.Add("apollo11", clk.now, clk.now.Add(-time.Hour), nil)
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestDefaultTagsAreMerged(t *testing.T) {
	dir := t.TempDir()
	yaml := "default_tags:\n  apollo11:\n    - module\n    - brakes\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	clk := &mockClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)}
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	tr, err := New(storage.NewStore(dir), cfg, clk)
	require.NoError(t, err)

	cur, err := tr.Start("apollo11", []string{"extra", "module"}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"extra", "module", "brakes"}, cur.Tags)
}

func TestProjectsAndTagsCrossFilter(t *testing.T) {
	tr, clk, _ := newTestTracker(t)

	from := clk.now.Add(-4 * time.Hour)
	_, err := tr.Add("apollo11", from, from.Add(time.Hour), []string{"module", "brakes"})
	require.NoError(t, err)
	_, err = tr.Add("gemini", from.Add(time.Hour), from.Add(2*time.Hour), []string{"module"})
	require.NoError(t, err)

	assert.Equal(t, []string{"apollo11", "gemini"}, tr.Projects(nil))
	assert.Equal(t, []string{"apollo11", "gemini"}, tr.Projects([]string{"module"}))
	assert.Equal(t, []string{"apollo11"}, tr.Projects([]string{"brakes"}))

	assert.Equal(t, []string{"brakes", "module"}, tr.Tags(nil))
	assert.Equal(t, []string{"module"}, tr.Tags([]string{"apollo11", "gemini"}))
}

func TestSaveAndReload(t *testing.T) {
	tr, clk, dir := newTestTracker(t)

	_, err := tr.Start("apollo11", []string{"module"}, true)
	require.NoError(t, err)
	clk.advance(time.Hour)
	f, err := tr.Stop(time.Time{})
	require.NoError(t, err)
	require.NoError(t, tr.Save())

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	reloaded, err := New(storage.NewStore(dir), cfg, clk)
	require.NoError(t, err)

	require.Equal(t, 1, reloaded.Frames().Len())
	got, err := reloaded.Frames().ByID(f.ID)
	require.NoError(t, err)
	assert.True(t, f.Equal(got))
	assert.False(t, reloaded.IsStarted())
}

func TestSavePersistsRunningState(t *testing.T) {
	tr, clk, dir := newTestTracker(t)

	_, err := tr.Start("apollo11", []string{"module"}, true)
	require.NoError(t, err)
	require.NoError(t, tr.Save())

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	reloaded, err := New(storage.NewStore(dir), cfg, clk)
	require.NoError(t, err)

	require.True(t, reloaded.IsStarted())
	cur := reloaded.Current()
	assert.Equal(t, "apollo11", cur.Project)
	assert.Equal(t, []string{"module"}, cur.Tags)
	assert.True(t, cur.Start.Equal(clk.now.Truncate(time.Second)))
}

func TestRenameProject(t *testing.T) {
	tr, clk, _ := newTestTracker(t)

	from := clk.now.Add(-2 * time.Hour)
	f, err := tr.Add("apollo11", from, from.Add(time.Hour), nil)
	require.NoError(t, err)

	require.NoError(t, tr.RenameProject("apollo11", "apollo12"))

	got, err := tr.Frames().ByID(f.ID)
	require.NoError(t, err)
	assert.Equal(t, "apollo12", got.Project)
	assert.True(t, got.UpdatedAt.Equal(clk.now))

	assert.ErrorIs(t, tr.RenameProject("mercury", "x"), ErrUnknownName)
}

func TestRenameTag(t *testing.T) {
	tr, clk, _ := newTestTracker(t)

	from := clk.now.Add(-2 * time.Hour)
	f, err := tr.Add("apollo11", from, from.Add(time.Hour), []string{"module", "brakes"})
	require.NoError(t, err)

	require.NoError(t, tr.RenameTag("module", "command-module"))

	got, err := tr.Frames().ByID(f.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"command-module", "brakes"}, got.Tags)

	assert.ErrorIs(t, tr.RenameTag("nope", "x"), ErrUnknownName)
}

func TestReportIncludesCurrentOnRequest(t *testing.T) {
	tr, clk, _ := newTestTracker(t)

	_, err := tr.Start("apollo11", nil, true)
	require.NoError(t, err)
	clk.advance(2 * time.Hour)

	opt := report.Options{From: clk.now.Add(-24 * time.Hour), To: clk.now}

	r, err := tr.Report(opt, nil)
	require.NoError(t, err)
	assert.Empty(t, r.Projects, "report_current defaults to off")

	include := true
	r, err = tr.Report(opt, &include)
	require.NoError(t, err)
	require.Len(t, r.Projects, 1)
	assert.Equal(t, "apollo11", r.Projects[0].Name)
	assert.Equal(t, (2 * time.Hour).Seconds(), r.Projects[0].Time)
}

func TestMergeSplitsConflictingAndNew(t *testing.T) {
	tr, clk, dir := newTestTracker(t)

	from := clk.now.Add(-4 * time.Hour)
	known, err := tr.Add("apollo11", from, from.Add(time.Hour), nil)
	require.NoError(t, err)

	conflicting := known
	conflicting.Project = "gemini"
	incoming := frame.New(from.Add(2*time.Hour), from.Add(3*time.Hour), "mercury", frame.NewID(), nil, clk.now)

	path := filepath.Join(dir, "frames-conflict")
	data, err := sonic.Marshal([]frame.Frame{conflicting, known, incoming})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	gotConflicting, gotMerging, err := tr.Merge(path)
	require.NoError(t, err)
	require.Len(t, gotConflicting, 1)
	assert.Equal(t, "gemini", gotConflicting[0].Project)
	require.Len(t, gotMerging, 1)
	assert.Equal(t, "mercury", gotMerging[0].Project)

	require.NoError(t, tr.ApplyMerge(gotMerging))
	assert.Equal(t, 2, tr.Frames().Len())
}

func TestRemoveDeletesAndSaves(t *testing.T) {
	tr, clk, dir := newTestTracker(t)

	from := clk.now.Add(-2 * time.Hour)
	f, err := tr.Add("apollo11", from, from.Add(time.Hour), nil)
	require.NoError(t, err)

	require.NoError(t, tr.Remove(frame.IDKey(f.ID)))
	assert.Equal(t, 0, tr.Frames().Len())

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	reloaded, err := New(storage.NewStore(dir), cfg, clk)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Frames().Len())
}

func TestSpanCoversCurrent(t *testing.T) {
	tr, clk, _ := newTestTracker(t)

	from := clk.now.Add(-2 * time.Hour)
	_, err := tr.Add("apollo11", from, from.Add(time.Hour), nil)
	require.NoError(t, err)

	_, err = tr.Start("gemini", nil, true)
	require.NoError(t, err)
	clk.advance(26 * time.Hour)

	without := tr.Span(false)
	with := tr.Span(true)
	assert.True(t, with.Stop.After(without.Stop))
}
