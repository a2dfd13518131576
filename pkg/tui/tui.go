// Package tui is the interactive front end: it shows the surviving tree,
// lets the user toggle manual exclusions with live stats, and triggers the
// archive build. It drives the session; all pipeline rules (combined
// predicate, single-flight builds, tree invalidation) live there.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/chrishacia/ZipDrop/pkg/archive"
	"github.com/chrishacia/ZipDrop/pkg/fsys"
	"github.com/chrishacia/ZipDrop/pkg/session"
	"github.com/chrishacia/ZipDrop/pkg/tree"
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Collapse    key.Binding
	Expand      key.Binding
	Toggle      key.Binding
	SelectAll   key.Binding
	DeselectAll key.Binding
	Build       key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Collapse:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Expand:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		SelectAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		DeselectAll: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "deselect all")),
		Build:       key.NewBinding(key.WithKeys("z", "enter"), key.WithHelp("z", "create zip")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type row struct {
	node  *tree.Node
	depth int
}

type progressState struct {
	current atomic.Int64
	total   atomic.Int64
}

type scanDoneMsg struct {
	err error
}

type buildDoneMsg struct {
	path   string
	result *archive.Result
	err    error
}

// Model is the bubbletea model for the browser.
type Model struct {
	logger *zap.Logger
	sess   *session.Session

	folder string
	outDir string

	keys     keyMap
	spin     spinner.Model
	scanning bool
	building bool
	progress *progressState

	expanded map[string]bool
	rows     []row
	cursor   int
	scroll   int
	width    int
	height   int

	status string
	err    error
}

// Run launches the interactive browser over the given folder.
func Run(logger *zap.Logger, sess *session.Session, folder, outDir string) error {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		logger:   logger,
		sess:     sess,
		folder:   folder,
		outDir:   outDir,
		keys:     defaultKeyMap(),
		spin:     sp,
		scanning: true,
		progress: &progressState{},
		expanded: map[string]bool{"": true},
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts the initial folder scan.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.scanCmd())
}

func (m Model) scanCmd() tea.Cmd {
	sess, folder := m.sess, m.folder
	return func() tea.Msg {
		root, err := fsys.NewOSDir(folder)
		if err != nil {
			return scanDoneMsg{err: err}
		}
		return scanDoneMsg{err: sess.SetRoot(context.Background(), root)}
	}
}

func (m Model) buildCmd() tea.Cmd {
	sess, outDir := m.sess, m.outDir
	name := filepath.Base(m.folder)
	progress := m.progress
	return func() tea.Msg {
		result, err := sess.Build(context.Background(), name, func(current, total int) {
			progress.current.Store(int64(current))
			progress.total.Store(int64(total))
		})
		if err != nil {
			return buildDoneMsg{err: err}
		}
		outPath := filepath.Join(outDir, name+".zip")
		if err := os.WriteFile(outPath, result.Blob, 0644); err != nil {
			return buildDoneMsg{err: err}
		}
		return buildDoneMsg{path: outPath, result: result}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.scanning || m.building {
			return m, cmd
		}
		return m, nil

	case scanDoneMsg:
		m.scanning = false
		if msg.err != nil {
			m.err = msg.err
			m.status = "scan failed"
			return m, nil
		}
		m.refreshRows()
		if m.sess.Tree() == nil {
			m.status = "every entry is excluded"
		}
		return m, nil

	case buildDoneMsg:
		m.building = false
		if msg.err != nil {
			m.err = msg.err
			m.status = "archive build failed"
			return m, nil
		}
		saved := 0.0
		if msg.result.RawBytes > 0 {
			saved = float64(msg.result.RawBytes-msg.result.CompressedBytes) / float64(msg.result.RawBytes) * 100
		}
		m.status = fmt.Sprintf("created %s (%d files, %.1f%% saved)", msg.path, msg.result.FilesAdded, saved)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case m.scanning || m.building:
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.adjustScroll()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.adjustScroll()
		}

	case key.Matches(msg, m.keys.Collapse):
		if node := m.current(); node != nil && node.Kind == tree.Dir && m.expanded[node.Path] {
			m.expanded[node.Path] = false
			m.refreshRows()
		}

	case key.Matches(msg, m.keys.Expand):
		if node := m.current(); node != nil && node.Kind == tree.Dir && !m.expanded[node.Path] {
			m.expanded[node.Path] = true
			m.refreshRows()
		}

	case key.Matches(msg, m.keys.Toggle):
		if node := m.current(); node != nil {
			if err := m.sess.Toggle(node.Path); err != nil {
				m.logger.Warn("Toggle failed", zap.String("path", node.Path), zap.Error(err))
			}
		}

	case key.Matches(msg, m.keys.SelectAll):
		m.sess.SelectAll()

	case key.Matches(msg, m.keys.DeselectAll):
		m.sess.DeselectAll()

	case key.Matches(msg, m.keys.Build):
		if m.sess.Tree() == nil {
			m.status = "nothing to archive"
			return m, nil
		}
		m.building = true
		m.err = nil
		m.status = ""
		m.progress.current.Store(0)
		m.progress.total.Store(0)
		return m, tea.Batch(m.spin.Tick, m.buildCmd())
	}
	return m, nil
}

func (m Model) current() *tree.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

// refreshRows flattens the tree into the visible row list, honoring the
// expanded state.
func (m *Model) refreshRows() {
	m.rows = nil
	t := m.sess.Tree()
	if t == nil {
		return
	}
	m.appendRows(t, 0)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) appendRows(n *tree.Node, depth int) {
	m.rows = append(m.rows, row{node: n, depth: depth})
	if n.Kind == tree.Dir && m.expanded[n.Path] {
		for _, child := range n.Children {
			m.appendRows(child, depth+1)
		}
	}
}

func (m *Model) adjustScroll() {
	visible := m.treeHeight()
	if visible <= 0 {
		return
	}
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	} else if m.cursor >= m.scroll+visible {
		m.scroll = m.cursor - visible + 1
	}
}
