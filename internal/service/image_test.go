package service

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uploadNamePattern = regexp.MustCompile(`^[0-9a-f-]{36}_`)

func TestUploadName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fridge.jpg", "fridge.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\my photo.png`, "my_photo.png"},
		{"", "upload"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name := UploadName(tt.in)
			assert.Regexp(t, uploadNamePattern, name)
			assert.True(t, strings.HasSuffix(name, "_"+tt.want), name)
		})
	}
	assert.NotEqual(t, UploadName("a.jpg"), UploadName("a.jpg"))
}

func TestLocalImageStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalImageStore(dir, nil)
	require.NoError(t, err)

	path, err := store.Save(context.Background(), "abc_fridge.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc_fridge.jpg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	// directory components in the name never escape the upload dir
	path, err = store.Save(context.Background(), "../escape.jpg", "", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
}
