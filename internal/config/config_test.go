package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.False(t, cfg.Options.ReportCurrent)
	assert.False(t, cfg.Options.StopOnStart)
	assert.Equal(t, "monday", cfg.Options.WeekStart)
	assert.Empty(t, cfg.DefaultTags)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `options:
  report_current: true
  week_start: sunday
default_tags:
  apollo11:
    - module
    - brakes
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.True(t, cfg.Options.ReportCurrent)
	assert.False(t, cfg.Options.StopOnStart)
	assert.Equal(t, "sunday", cfg.Options.WeekStart)
	assert.Equal(t, []string{"module", "brakes"}, cfg.DefaultTagsFor("apollo11"))
	assert.Nil(t, cfg.DefaultTagsFor("gemini"))
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("options: ["), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("XTIMETRACKER_OPTIONS_WEEK_START", "friday")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "friday", cfg.Options.WeekStart)
}

func TestSetWritesFileBack(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.Set("options.week_start", "sunday"))
	assert.Equal(t, "sunday", cfg.Options.WeekStart)
	assert.Equal(t, "sunday", cfg.Get("options.week_start"))

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sunday", reloaded.Options.WeekStart)
}

func TestGetUnknownKey(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg.Get("options.nope"))
}
