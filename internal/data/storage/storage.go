// Package storage persists the tracker state to local files: the frames file
// holding the durable JSON array-of-arrays contract and the state file
// holding the in-progress activity. Writes go through a temp file and keep a
// .bak copy of the previous version.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/davidag/xtimetracker/internal/core/frame"
)

const (
	framesFileName = "frames"
	stateFileName  = "state"
	backupExt      = ".bak"
)

// State is the persisted shape of the in-progress activity.
type State struct {
	Project string   `json:"project"`
	Start   int64    `json:"start"`
	Tags    []string `json:"tags"`
}

// Store reads and writes the tracker files under one directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on the
// first write, not here.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory holding the tracker files.
func (s *Store) Dir() string {
	return s.dir
}

// FramesFile returns the path of the frames file.
func (s *Store) FramesFile() string {
	return filepath.Join(s.dir, framesFileName)
}

// StateFile returns the path of the state file.
func (s *Store) StateFile() string {
	return filepath.Join(s.dir, stateFileName)
}

// LoadFrames reads the persisted frames. A missing or empty file yields an
// empty list; anything else that fails to parse is an error so a corrupt
// file is never silently overwritten.
func (s *Store) LoadFrames() ([]frame.Frame, error) {
	data, err := os.ReadFile(s.FramesFile())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.FramesFile(), err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var frames []frame.Frame
	if err := sonic.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("invalid JSON file %s: %w", s.FramesFile(), err)
	}
	return frames, nil
}

// ReadFrames parses a frames file at an arbitrary path, as used by the merge
// flow to inspect a conflict file.
func ReadFrames(path string) ([]frame.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var frames []frame.Frame
	if err := sonic.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("invalid JSON file %s: %w", path, err)
	}
	return frames, nil
}

// SaveFrames writes the frames file in the durable row shape.
func (s *Store) SaveFrames(frames []frame.Frame) error {
	if frames == nil {
		frames = []frame.Frame{}
	}
	data, err := sonic.MarshalIndent(frames, "", " ")
	if err != nil {
		return fmt.Errorf("encoding frames: %w", err)
	}
	return s.safeSave(s.FramesFile(), data)
}

// LoadState reads the in-progress activity. A missing, empty or `{}` state
// file yields nil.
func (s *Store) LoadState() (*State, error) {
	data, err := os.ReadFile(s.StateFile())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.StateFile(), err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var state State
	if err := sonic.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("invalid JSON file %s: %w", s.StateFile(), err)
	}
	if state.Project == "" {
		return nil, nil
	}
	return &state, nil
}

// SaveState writes the in-progress activity, or an empty object when nothing
// is being tracked.
func (s *Store) SaveState(state *State) error {
	var payload any = map[string]any{}
	if state != nil {
		if state.Tags == nil {
			state.Tags = []string{}
		}
		payload = state
	}
	data, err := sonic.MarshalIndent(payload, "", " ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	return s.safeSave(s.StateFile(), data)
}

// Watch invokes onChange whenever another process rewrites the frames or
// state file, until the context is cancelled. Used by the live status view.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watching %s: %w", s.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(event.Name)
			if name != framesFileName && name != stateFileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("file watch error")
		}
	}
}

// safeSave writes data to a temp file first, backs up an existing target to
// <path>.bak and moves the temp file into place. A failed write leaves the
// target untouched.
func (s *Store) safeSave(path string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}

	if _, err := os.Stat(path); err == nil {
		os.Remove(path + backupExt)
		if err := os.Rename(path, path+backupExt); err != nil {
			os.Remove(tmpName)
			return fmt.Errorf("backing up %s: %w", path, err)
		}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
