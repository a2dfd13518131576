package tree

import (
	"fmt"
	"strings"
)

// Render returns a textual view of the tree with box-drawing connectors,
// suitable for previews. Directories carry a trailing slash. Nodes whose
// path is in excluded are marked and their subtrees elided.
func Render(root *Node, excluded func(path string) bool) string {
	if root == nil {
		return ""
	}
	if excluded == nil {
		excluded = func(string) bool { return false }
	}

	var b strings.Builder
	b.WriteString(root.Name + "/\n")
	renderChildren(&b, root.Children, "", excluded)
	return b.String()
}

func renderChildren(b *strings.Builder, children []*Node, prefix string, excluded func(string) bool) {
	for i, child := range children {
		connector := "├── "
		extension := "│   "
		if i == len(children)-1 {
			connector = "└── "
			extension = "    "
		}

		name := child.Name
		if child.Kind == Dir {
			name += "/"
		}

		if excluded(child.Path) {
			fmt.Fprintf(b, "%s%s%s (excluded)\n", prefix, connector, name)
			continue
		}

		fmt.Fprintf(b, "%s%s%s\n", prefix, connector, name)
		if child.Kind == Dir {
			renderChildren(b, child.Children, prefix+extension, excluded)
		}
	}
}
