// Package tree builds the in-memory model of a scanned directory: every
// file and directory that survives pattern exclusion, with per-file sizes.
package tree

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/chrishacia/ZipDrop/pkg/fsys"
	"github.com/chrishacia/ZipDrop/pkg/pattern"
)

// Kind discriminates file and directory nodes.
type Kind int

const (
	// File is a regular file node.
	File Kind = iota
	// Dir is a directory node.
	Dir
)

// Node is one filesystem entry that survived pattern exclusion.
//
// A Dir node exists only if it has at least one surviving descendant file.
// Children are sorted directories-first then case-insensitively by name;
// the order is for display and carries no other meaning.
type Node struct {
	Path     string // slash-joined path relative to the scanned root; "" for the root itself
	Name     string
	Kind     Kind
	Size     int64   // files only
	Children []*Node // directories only
}

// Build walks root depth-first and materializes the surviving tree.
//
// Entries whose relative path the matcher excludes are skipped before any
// descent, so excluded subtrees are never enumerated. Directories whose
// subtree collapses to nothing are omitted. The returned node is nil when
// the whole root collapses. Any enumeration or stat error aborts the build;
// no partial tree is returned.
func Build(ctx context.Context, root fsys.Dir, m *pattern.Matcher) (*Node, error) {
	children, err := buildDir(ctx, root, "", m)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, nil
	}

	return &Node{
		Path:     "",
		Name:     root.Name(),
		Kind:     Dir,
		Children: children,
	}, nil
}

func buildDir(ctx context.Context, dir fsys.Dir, rel string, m *pattern.Matcher) ([]*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := dir.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", displayPath(rel, dir), err)
	}

	var nodes []*Node
	for _, entry := range entries {
		path := joinRel(rel, entry.Name)
		if m.Excluded(path) {
			continue
		}

		if entry.IsDir {
			sub, err := dir.Sub(entry.Name)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve directory %s: %w", path, err)
			}
			children, err := buildDir(ctx, sub, path, m)
			if err != nil {
				return nil, err
			}
			if len(children) == 0 {
				continue
			}
			nodes = append(nodes, &Node{
				Path:     path,
				Name:     entry.Name,
				Kind:     Dir,
				Children: children,
			})
		} else {
			f, err := dir.File(entry.Name)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve file %s: %w", path, err)
			}
			size, err := f.Size()
			if err != nil {
				return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
			}
			nodes = append(nodes, &Node{
				Path: path,
				Name: entry.Name,
				Kind: File,
				Size: size,
			})
		}
	}

	sortNodes(nodes)
	return nodes, nil
}

func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		if (nodes[i].Kind == Dir) != (nodes[j].Kind == Dir) {
			return nodes[i].Kind == Dir
		}
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}

func displayPath(rel string, dir fsys.Dir) string {
	if rel == "" {
		return dir.Name()
	}
	return rel
}

// Walk visits n and every descendant depth-first. The visit function
// returns false to skip the current node's subtree.
func (n *Node) Walk(visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// Paths returns the path of n and every descendant.
func (n *Node) Paths() []string {
	var paths []string
	n.Walk(func(node *Node) bool {
		paths = append(paths, node.Path)
		return true
	})
	return paths
}

// Find returns the node with the given path, or nil.
func (n *Node) Find(path string) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if found != nil {
			return false
		}
		if node.Path == path {
			found = node
			return false
		}
		return true
	})
	return found
}
