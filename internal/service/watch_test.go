package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartchef/backend/internal/types"
)

type queuedFrames struct {
	frames int
}

func (q *queuedFrames) Next(ctx context.Context) ([]byte, string, error) {
	if q.frames == 0 {
		return nil, "", ErrNoFrame
	}
	q.frames--
	return []byte("frame"), "frame.jpg", nil
}

type sequenceDetector struct {
	seq [][]string
	i   int
}

func (s *sequenceDetector) Detect(ctx context.Context, image []byte, filename string) ([]string, error) {
	out := s.seq[s.i]
	if s.i < len(s.seq)-1 {
		s.i++
	}
	return out, nil
}

type countingGenerator struct {
	calls [][]string
}

func (c *countingGenerator) Run(ctx context.Context, items []string, prefs types.Preferences) GenerationResult {
	c.calls = append(c.calls, items)
	return GenerationResult{Items: items, Recipe: FallbackRecipe(items), Fallback: true, Attempts: 1}
}

func TestWatcherPollThrottles(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	gen := &countingGenerator{}
	w := &Watcher{
		Frames: &queuedFrames{frames: 5},
		Detector: &sequenceDetector{seq: [][]string{
			{"apple"},
			{"Apple "},          // same set
			{"apple", "banana"}, // new set but too soon
			{"apple", "banana"}, // gap has passed
			{"pizza"},
		}},
		Generator: gen,
		MinGap:    5 * time.Second,
		now:       func() time.Time { return clock },
	}

	s, ok := w.Poll(context.Background())
	require.True(t, ok)
	assert.Equal(t, []string{"apple"}, s.Items)
	assert.Equal(t, "Apple Quick Snack", s.Recipe.Title)

	clock = clock.Add(time.Second)
	_, ok = w.Poll(context.Background())
	assert.False(t, ok, "unchanged items")

	clock = clock.Add(time.Second)
	_, ok = w.Poll(context.Background())
	assert.False(t, ok, "within min gap")

	clock = clock.Add(10 * time.Second)
	s, ok = w.Poll(context.Background())
	require.True(t, ok, "items differ from the last suggestion and the gap has passed")
	assert.Equal(t, []string{"apple", "banana"}, s.Items)

	clock = clock.Add(10 * time.Second)
	s, ok = w.Poll(context.Background())
	require.True(t, ok)
	assert.Equal(t, []string{"pizza"}, s.Items)

	_, ok = w.Poll(context.Background())
	assert.False(t, ok, "no frames left")
	assert.Len(t, gen.calls, 3)
}

func TestWatcherSuggestsHeldBackItemsAfterGap(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	gen := &countingGenerator{}
	w := &Watcher{
		Frames:    &queuedFrames{frames: 2},
		Detector:  &sequenceDetector{seq: [][]string{{"apple"}, {"banana"}}},
		Generator: gen,
		MinGap:    5 * time.Second,
		now:       func() time.Time { return clock },
	}

	_, ok := w.Poll(context.Background())
	require.True(t, ok)

	clock = clock.Add(time.Second)
	_, ok = w.Poll(context.Background())
	assert.False(t, ok, "within min gap")

	clock = clock.Add(time.Second)
	_, ok = w.Poll(context.Background())
	assert.False(t, ok, "still within min gap, no new frame")

	clock = clock.Add(10 * time.Second)
	s, ok := w.Poll(context.Background())
	require.True(t, ok, "snapshot did not change again but the gap has passed")
	assert.Equal(t, []string{"banana"}, s.Items)

	clock = clock.Add(10 * time.Second)
	_, ok = w.Poll(context.Background())
	assert.False(t, ok, "held back items are suggested once")
	assert.Len(t, gen.calls, 2)
}

func TestWatcherIgnoresEmptyDetections(t *testing.T) {
	gen := &countingGenerator{}
	w := &Watcher{
		Frames:    &queuedFrames{frames: 1},
		Detector:  &sequenceDetector{seq: [][]string{{}}},
		Generator: gen,
	}
	_, ok := w.Poll(context.Background())
	assert.False(t, ok)
	assert.Empty(t, gen.calls)
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var got []Suggestion
	w := &Watcher{
		Frames:    &queuedFrames{frames: 1},
		Detector:  &sequenceDetector{seq: [][]string{{"carrot"}}},
		Generator: &countingGenerator{},
		Interval:  5 * time.Millisecond,
	}
	err := w.Run(ctx, func(s Suggestion) { got = append(got, s) })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"carrot"}, got[0].Items)
}

func TestSnapshotSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.jpg")
	src := NewSnapshotSource(path)

	_, _, err := src.Next(context.Background())
	assert.ErrorIs(t, err, ErrNoFrame)

	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))
	data, name, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
	assert.Equal(t, "latest.jpg", name)

	_, _, err = src.Next(context.Background())
	assert.ErrorIs(t, err, ErrNoFrame, "unchanged snapshot")

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.WriteFile(path, []byte("two"), 0o644))
	require.NoError(t, os.Chtimes(path, later, later))
	data, _, err = src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestNotifySnapshots(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latest.jpg")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wake, err := NotifySnapshots(ctx, path, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("frame"), 0o644))

	select {
	case <-wake:
	case <-time.After(2 * time.Second):
		t.Fatal("no notification for snapshot write")
	}
}

func TestNotifySnapshotsMissingDir(t *testing.T) {
	_, err := NotifySnapshots(context.Background(), filepath.Join(t.TempDir(), "nope", "latest.jpg"), nil)
	assert.Error(t, err)
}
