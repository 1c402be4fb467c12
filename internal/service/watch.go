package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/smartchef/backend/internal/types"
)

// ErrNoFrame means the frame source has nothing new to offer yet.
var ErrNoFrame = errors.New("no frame available")

// FrameSource yields camera frames.
type FrameSource interface {
	Next(ctx context.Context) (image []byte, name string, err error)
}

// SnapshotSource reads a file that a camera process keeps overwriting and
// only returns it when its modification time changes.
type SnapshotSource struct {
	path    string
	lastMod time.Time
}

// NewSnapshotSource creates a SnapshotSource for path.
func NewSnapshotSource(path string) *SnapshotSource {
	return &SnapshotSource{path: path}
}

// Next returns the snapshot if it changed since the previous call.
func (s *SnapshotSource) Next(ctx context.Context) ([]byte, string, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrNoFrame
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to stat snapshot: %w", err)
	}
	if !info.ModTime().After(s.lastMod) {
		return nil, "", ErrNoFrame
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read snapshot: %w", err)
	}
	s.lastMod = info.ModTime()
	return data, filepath.Base(s.path), nil
}

// Suggestion is a recipe generated for a newly seen set of items.
type Suggestion struct {
	Items    []string     `json:"items"`
	Recipe   types.Recipe `json:"recipe"`
	Fallback bool         `json:"fallback"`
	At       time.Time    `json:"at"`
}

// Watcher polls a frame source and suggests a recipe whenever a different
// set of food items shows up, at most once per MinGap.
type Watcher struct {
	Frames    FrameSource
	Detector  Detector
	Generator IRecipeGenerator
	Prefs     types.Preferences
	Interval  time.Duration
	MinGap    time.Duration
	Logger    *zap.Logger
	// Wake, when set, triggers a poll ahead of the next tick.
	Wake <-chan struct{}

	now        func() time.Time
	lastItems  []string
	lastSuggAt time.Time
	// pending holds a new item set held back by MinGap.
	pending []string
}

// Run polls until ctx is done, calling onSuggestion from the polling goroutine.
func (w *Watcher) Run(ctx context.Context, onSuggestion func(Suggestion)) error {
	if w.Interval <= 0 {
		w.Interval = time.Second
	}
	if w.MinGap <= 0 {
		w.MinGap = 5 * time.Second
	}
	if w.Logger == nil {
		w.Logger = zap.NewNop()
	}

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		if s, ok := w.Poll(ctx); ok {
			onSuggestion(s)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-w.Wake:
		}
	}
}

// Poll processes at most one frame and reports whether a suggestion was made.
func (w *Watcher) Poll(ctx context.Context) (Suggestion, bool) {
	if w.now == nil {
		w.now = time.Now
	}
	if w.Logger == nil {
		w.Logger = zap.NewNop()
	}

	var items []string
	image, name, err := w.Frames.Next(ctx)
	switch {
	case err == nil:
		detected, err := w.Detector.Detect(ctx, image, name)
		if err != nil {
			w.Logger.Warn("detection failed", zap.Error(err))
			return Suggestion{}, false
		}
		items = NormalizeItems(detected)
		w.pending = nil
	case errors.Is(err, ErrNoFrame) && w.pending != nil:
		items = w.pending
	default:
		if !errors.Is(err, ErrNoFrame) {
			w.Logger.Warn("failed to read frame", zap.Error(err))
		}
		return Suggestion{}, false
	}

	now := w.now()
	if !w.shouldSuggest(items, now) {
		if len(items) > 0 && !slices.Equal(items, w.lastItems) {
			w.pending = items
		}
		return Suggestion{}, false
	}
	w.pending = nil
	w.Logger.Info("new items detected", zap.Strings("items", items))

	res := w.Generator.Run(ctx, items, w.Prefs)
	w.lastItems = items
	w.lastSuggAt = now
	return Suggestion{Items: items, Recipe: res.Recipe, Fallback: res.Fallback, At: now}, true
}

func (w *Watcher) shouldSuggest(items []string, now time.Time) bool {
	if len(items) == 0 || slices.Equal(items, w.lastItems) {
		return false
	}
	return w.lastSuggAt.IsZero() || now.Sub(w.lastSuggAt) > w.MinGap
}

// NotifySnapshots signals whenever the file at path is written or replaced.
// The parent directory is watched so snapshots replaced by rename are seen.
// The watcher stops when ctx ends.
func NotifySnapshots(ctx context.Context, path string, logger *zap.Logger) (<-chan struct{}, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	target := filepath.Clean(path)
	wake := make(chan struct{}, 1)
	go func() {
		defer fw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				select {
				case wake <- struct{}{}:
				default:
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logger.Warn("snapshot watcher error", zap.Error(err))
			}
		}
	}()
	return wake, nil
}
