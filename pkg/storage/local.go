package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UploadPathPrefix marks image references that live on the local uploads
// disk, as opposed to external URLs which are never touched.
const UploadPathPrefix = "/uploads"

// LocalDisk resolves upload paths stored on product records against the
// uploads root on the local filesystem.
type LocalDisk struct {
	root string
}

func NewLocalDisk(root string) *LocalDisk {
	if !filepath.IsAbs(root) {
		cwd, _ := os.Getwd()
		root = filepath.Join(cwd, root)
	}
	return &LocalDisk{root: root}
}

// IsUploadPath reports whether an image reference points at the local
// uploads disk rather than an external URL.
func IsUploadPath(image string) bool {
	return strings.HasPrefix(image, UploadPathPrefix+"/") || image == UploadPathPrefix
}

func (d *LocalDisk) abs(image string) string {
	rel := strings.TrimPrefix(image, UploadPathPrefix)
	return filepath.Join(d.root, filepath.FromSlash(rel))
}

// Delete removes the file behind an upload path. A missing file is not an
// error: the record may have been created before the file, or cleaned up by
// hand.
func (d *LocalDisk) Delete(image string) error {
	err := os.Remove(d.abs(image))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete %s: %w", image, err)
	}
	return nil
}

// Exists reports whether the file behind an upload path is present.
func (d *LocalDisk) Exists(image string) bool {
	_, err := os.Stat(d.abs(image))
	return err == nil
}
