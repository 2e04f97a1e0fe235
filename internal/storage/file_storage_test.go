package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_SaveImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "static", "generated")
	fs, err := NewFileStorage(dir, "static/generated/")
	require.NoError(t, err)

	url, err := fs.SaveImage("dream_image_1.png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "/static/generated/dream_image_1.png", url)
	assert.True(t, fs.DirExists())
	assert.True(t, fs.FileExists("dream_image_1.png"))
	assert.NoFileExists(t, filepath.Join(dir, "dream_image_1.png.tmp"))

	data, err := os.ReadFile(filepath.Join(dir, "dream_image_1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestFileStorage_RejectsPaths(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir(), "/static")
	require.NoError(t, err)

	_, err = fs.SaveImage("../escape.png", []byte("x"))
	assert.Error(t, err)
	_, err = fs.SaveImage("", []byte("x"))
	assert.Error(t, err)
}
