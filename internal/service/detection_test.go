package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartchef/backend/internal/metrics"
)

func TestHTTPDetector_Detect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "fake-jpeg", string(data))
		assert.Equal(t, "fridge.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"detections":[{"label":"Apple","confidence":0.91},{"label":"person","confidence":0.88},{"label":"banana","confidence":0.2}]}`))
	}))
	defer server.Close()

	d := NewHTTPDetector(server.URL, time.Second, nil)
	labels, err := d.Detect(context.Background(), []byte("fake-jpeg"), "/tmp/x/fridge.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "person", "banana"}, labels)
}

func TestHTTPDetector_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	d := NewHTTPDetector(server.URL, time.Second, nil)
	_, err := d.Detect(context.Background(), []byte("x"), "a.jpg")
	assert.True(t, errors.Is(err, ErrDetectorUnavailable))

	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()
	_, err = NewHTTPDetector(url, time.Second, nil).Detect(context.Background(), []byte("x"), "a.jpg")
	assert.True(t, errors.Is(err, ErrDetectorUnavailable))
}

type labelDetector struct {
	labels []string
	err    error
}

func (l labelDetector) Detect(ctx context.Context, image []byte, filename string) ([]string, error) {
	return l.labels, l.err
}

func TestFoodDetector(t *testing.T) {
	d := NewFoodDetector(labelDetector{labels: []string{"Pizza", "person", "pizza", "dining table", "hot dog", " Banana "}}, DefaultFoodClasses, metrics.New())
	labels, err := d.Detect(context.Background(), nil, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"banana", "hot dog", "pizza"}, labels)

	_, err = NewFoodDetector(labelDetector{err: errors.New("boom")}, DefaultFoodClasses, nil).Detect(context.Background(), nil, "a.jpg")
	assert.Error(t, err)

	labels, err = NewFoodDetector(labelDetector{labels: []string{"car"}}, DefaultFoodClasses, nil).Detect(context.Background(), nil, "a.jpg")
	require.NoError(t, err)
	assert.NotNil(t, labels)
	assert.Empty(t, labels)
}

func TestLoadFoodClasses(t *testing.T) {
	classes, err := LoadFoodClasses("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFoodClasses, classes)

	path := filepath.Join(t.TempDir(), "food_classes.txt")
	require.NoError(t, os.WriteFile(path, []byte("# custom\nEgg\n\n tomato \nspinach\n"), 0o644))
	classes, err = LoadFoodClasses(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"egg", "tomato", "spinach"}, classes)

	_, err = LoadFoodClasses(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
