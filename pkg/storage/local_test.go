package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUploadPath(t *testing.T) {
	testCases := []struct {
		image string
		want  bool
	}{
		{image: "/uploads/image-123.jpg", want: true},
		{image: "/uploads", want: true},
		{image: "/uploads/nested/dir/img.png", want: true},
		{image: "https://cdn.example.com/uploads/image.jpg", want: false},
		{image: "/uploadsextra/image.jpg", want: false},
		{image: "", want: false},
	}

	for _, tc := range testCases {
		assert.Equalf(t, tc.want, IsUploadPath(tc.image), "image %q", tc.image)
	}
}

func TestLocalDiskDelete(t *testing.T) {
	root := t.TempDir()
	disk := NewLocalDisk(root)

	path := filepath.Join(root, "image-123.jpg")
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))
	require.True(t, disk.Exists("/uploads/image-123.jpg"))

	require.NoError(t, disk.Delete("/uploads/image-123.jpg"))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.False(t, disk.Exists("/uploads/image-123.jpg"))
}

func TestLocalDiskDeleteMissingFile(t *testing.T) {
	disk := NewLocalDisk(t.TempDir())
	assert.NoError(t, disk.Delete("/uploads/never-written.jpg"))
}

func TestNewLocalDiskRelativeRoot(t *testing.T) {
	disk := NewLocalDisk("uploads")
	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "uploads"), disk.root)
}
