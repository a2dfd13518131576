// Package selection tracks manually-deselected paths over a built tree and
// derives the live aggregate counts shown during preview.
//
// Sets are copy-on-write: every operation returns a new Set and never
// mutates its input, so a renderer holding an old Set never observes a
// torn update.
package selection

import (
	"github.com/chrishacia/ZipDrop/pkg/tree"
)

// Set is the set of manually-excluded paths. The zero value (nil) is an
// empty set.
type Set map[string]struct{}

// Has reports whether path is excluded.
func (s Set) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Len returns the number of excluded paths.
func (s Set) Len() int {
	return len(s)
}

func (s Set) clone() Set {
	out := make(Set, len(s))
	for path := range s {
		out[path] = struct{}{}
	}
	return out
}

// Toggle flips the manual exclusion of node's entire subtree and returns
// the resulting set.
//
// The subtree's paths are collected fresh from the node at call time. If
// the node itself is currently excluded, every collected path is removed
// (re-include); otherwise every collected path is added (exclude). Either
// way the subtree ends fully in or fully out, and toggling twice restores
// the original membership for every path in it.
func Toggle(s Set, node *tree.Node) Set {
	if node == nil {
		return s
	}

	paths := node.Paths()
	out := s.clone()
	if s.Has(node.Path) {
		for _, p := range paths {
			delete(out, p)
		}
	} else {
		for _, p := range paths {
			out[p] = struct{}{}
		}
	}
	return out
}

// SelectAll returns the empty set: nothing manually excluded.
func SelectAll() Set {
	return Set{}
}

// DeselectAll returns a set holding every path in the tree.
func DeselectAll(root *tree.Node) Set {
	out := Set{}
	if root == nil {
		return out
	}
	for _, p := range root.Paths() {
		out[p] = struct{}{}
	}
	return out
}

// Prune returns s restricted to paths that still exist in the tree.
// Called after a rebuild so stale entries from a previous tree do not
// linger in the set.
func Prune(s Set, root *tree.Node) Set {
	out := Set{}
	if root == nil {
		return out
	}
	root.Walk(func(n *tree.Node) bool {
		if s.Has(n.Path) {
			out[n.Path] = struct{}{}
		}
		return true
	})
	return out
}

// Totals are the aggregate counts over the included portion of a tree.
type Totals struct {
	Files   int
	Folders int
	Bytes   int64
}

// Stats walks the tree top-down, skipping any node found in s together
// with its entire subtree, and aggregates file count, folder count, and
// cumulative file bytes. The root node itself is the scanned folder and is
// not counted.
func Stats(root *tree.Node, s Set) Totals {
	var t Totals
	if root == nil {
		return t
	}

	root.Walk(func(n *tree.Node) bool {
		if s.Has(n.Path) {
			return false
		}
		switch {
		case n == root:
		case n.Kind == tree.Dir:
			t.Folders++
		default:
			t.Files++
			t.Bytes += n.Size
		}
		return true
	})
	return t
}
