package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aircheck/internal/fileutil"
)

// Library copies recordings into a year/month tree under a local root.
type Library struct {
	root string
	when time.Time
}

// NewLibrary builds a library destination rooted at dir.
func NewLibrary(dir string, when time.Time) *Library {
	return &Library{root: dir, when: when}
}

func (l *Library) Name() string {
	return "library " + l.root
}

func (l *Library) Upload(_ context.Context, localPath string) error {
	target := filepath.Join(l.root, filepath.FromSlash(DatePath(l.when)))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("create library tree: %w", err)
	}
	dst := filepath.Join(target, filepath.Base(localPath))
	if err := fileutil.CopyFileVerified(localPath, dst); err != nil {
		return fmt.Errorf("copy to library: %w", err)
	}
	return nil
}

// FlatDir copies recordings straight into one directory with no subtree.
type FlatDir struct {
	dir string
}

// NewFlatDir builds a flat-directory destination.
func NewFlatDir(dir string) *FlatDir {
	return &FlatDir{dir: dir}
}

func (f *FlatDir) Name() string {
	return "directory " + f.dir
}

func (f *FlatDir) Upload(_ context.Context, localPath string) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	dst := filepath.Join(f.dir, filepath.Base(localPath))
	if err := fileutil.CopyFileVerified(localPath, dst); err != nil {
		return fmt.Errorf("copy to directory: %w", err)
	}
	return nil
}
