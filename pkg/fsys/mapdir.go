package fsys

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// MapDir is an in-memory Dir built from a map of slash-separated relative
// paths to file contents. Intended for tests.
type MapDir struct {
	name  string
	dirs  map[string]*MapDir
	files map[string][]byte

	// FailOn, when non-empty, makes Entries fail for the directory whose
	// name matches. Simulates permission errors during traversal.
	FailOn string
}

// NewMapDir builds a MapDir named name from files keyed by relative path.
func NewMapDir(name string, files map[string][]byte) *MapDir {
	d := &MapDir{
		name:  name,
		dirs:  make(map[string]*MapDir),
		files: make(map[string][]byte),
	}
	for path, content := range files {
		d.insert(path, content)
	}
	return d
}

func (d *MapDir) insert(path string, content []byte) {
	head, rest, nested := strings.Cut(path, "/")
	if !nested {
		d.files[head] = content
		return
	}
	sub, ok := d.dirs[head]
	if !ok {
		sub = NewMapDir(head, nil)
		d.dirs[head] = sub
	}
	sub.insert(rest, content)
}

// Name returns the directory's name.
func (d *MapDir) Name() string {
	return d.name
}

// Entries enumerates the directory's children sorted by name, matching
// what os.ReadDir yields.
func (d *MapDir) Entries(ctx context.Context) ([]DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.FailOn != "" && d.FailOn == d.name {
		return nil, fmt.Errorf("access denied: %s", d.name)
	}

	entries := make([]DirEntry, 0, len(d.dirs)+len(d.files))
	for name := range d.dirs {
		entries = append(entries, DirEntry{Name: name, IsDir: true})
	}
	for name := range d.files {
		entries = append(entries, DirEntry{Name: name, IsDir: false})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Sub resolves a child directory by name.
func (d *MapDir) Sub(name string) (Dir, error) {
	sub, ok := d.dirs[name]
	if !ok {
		return nil, fmt.Errorf("no such directory: %s", name)
	}
	if d.FailOn != "" {
		sub.FailOn = d.FailOn
	}
	return sub, nil
}

// File resolves a child file by name.
func (d *MapDir) File(name string) (File, error) {
	content, ok := d.files[name]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", name)
	}
	return &mapFile{name: name, content: content}, nil
}

type mapFile struct {
	name    string
	content []byte
}

func (f *mapFile) Name() string {
	return f.name
}

func (f *mapFile) Size() (int64, error) {
	return int64(len(f.content)), nil
}

func (f *mapFile) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.content, nil
}
