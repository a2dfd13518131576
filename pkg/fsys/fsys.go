// Package fsys defines the minimal filesystem capability the archive
// pipeline depends on: a directory handle that can enumerate named child
// entries and resolve them to sub-directories or byte-readable files.
//
// The pipeline never touches the os package directly; it only sees these
// interfaces. OSDir adapts a real directory, MapDir provides an in-memory
// implementation for tests.
package fsys

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirEntry is one named child of a directory.
type DirEntry struct {
	Name  string
	IsDir bool
}

// Dir is a handle to a directory.
type Dir interface {
	// Name returns the final path segment of the directory.
	Name() string

	// Entries enumerates the directory's immediate children. The order is
	// whatever the underlying enumeration yields; callers must not rely on it.
	Entries(ctx context.Context) ([]DirEntry, error)

	// Sub resolves a child directory by name.
	Sub(name string) (Dir, error)

	// File resolves a child file by name.
	File(name string) (File, error)
}

// File is a handle to a regular file.
type File interface {
	// Name returns the file's name.
	Name() string

	// Size returns the file's byte length at call time.
	Size() (int64, error)

	// Read returns the file's full content.
	Read(ctx context.Context) ([]byte, error)
}

// OSDir adapts a directory on the local filesystem.
type OSDir struct {
	path string
}

// NewOSDir returns a Dir for the directory at path.
func NewOSDir(path string) (*OSDir, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", absPath)
	}

	return &OSDir{path: absPath}, nil
}

// Path returns the absolute path of the directory.
func (d *OSDir) Path() string {
	return d.path
}

// Name returns the final path segment of the directory.
func (d *OSDir) Name() string {
	return filepath.Base(d.path)
}

// Entries enumerates the directory's immediate children.
func (d *OSDir) Entries(ctx context.Context) ([]DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	osEntries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.path, err)
	}

	entries := make([]DirEntry, 0, len(osEntries))
	for _, e := range osEntries {
		// Symlinks and other irregular entries are not followed.
		if !e.IsDir() && !e.Type().IsRegular() {
			continue
		}
		entries = append(entries, DirEntry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return entries, nil
}

// Sub resolves a child directory by name.
func (d *OSDir) Sub(name string) (Dir, error) {
	return &OSDir{path: filepath.Join(d.path, name)}, nil
}

// File resolves a child file by name.
func (d *OSDir) File(name string) (File, error) {
	return &osFile{path: filepath.Join(d.path, name)}, nil
}

type osFile struct {
	path string
}

func (f *osFile) Name() string {
	return filepath.Base(f.path)
}

func (f *osFile) Size() (int64, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat file %s: %w", f.path, err)
	}
	return info.Size(), nil
}

func (f *osFile) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", f.path, err)
	}
	return data, nil
}
