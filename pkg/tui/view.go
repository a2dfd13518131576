package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chrishacia/ZipDrop/pkg/format"
	"github.com/chrishacia/ZipDrop/pkg/tree"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	excludedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Strikethrough(true)
	cursorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("8")).Foreground(lipgloss.Color("15"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// treeHeight is the number of rows available for the tree listing.
func (m Model) treeHeight() int {
	// header + stats + blank + footer + status
	h := m.height - 5
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the browser.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("ZipDrop — "+m.folder) + "\n")

	switch {
	case m.scanning:
		b.WriteString(fmt.Sprintf("%s scanning...\n", m.spin.View()))
		return b.String()

	case m.building:
		current := m.progress.current.Load()
		total := m.progress.total.Load()
		b.WriteString(fmt.Sprintf("%s archiving %d/%d files\n", m.spin.View(), current, total))
		return b.String()
	}

	totals := m.sess.Stats()
	excluded := m.sess.Excluded()
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d files, %d folders, %s selected",
		totals.Files, totals.Folders, format.Bytes(totals.Bytes))) + "\n\n")

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("nothing to show") + "\n")
	}

	visible := m.treeHeight()
	end := m.scroll + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.scroll; i < end; i++ {
		r := m.rows[i]
		line := m.renderRow(r, excluded.Has(r.node.Path))
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("space toggle · a select all · n deselect all · z create zip · q quit") + "\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s: %v", m.status, m.err)) + "\n")
	case m.status != "":
		b.WriteString(okStyle.Render(m.status) + "\n")
	}

	return b.String()
}

func (m Model) renderRow(r row, isExcluded bool) string {
	indent := strings.Repeat("  ", r.depth)

	marker := "[x]"
	if isExcluded {
		marker = "[ ]"
	}

	name := r.node.Name
	if r.node.Kind == tree.Dir {
		prefix := "▸ "
		if m.expanded[r.node.Path] {
			prefix = "▾ "
		}
		name = prefix + name + "/"
	} else {
		name = "  " + name + dimStyle.Render(" "+format.Bytes(r.node.Size))
	}

	line := fmt.Sprintf("%s%s %s", indent, marker, name)
	if isExcluded {
		return excludedStyle.Render(fmt.Sprintf("%s%s %s", indent, marker, r.node.Name))
	}
	return line
}
