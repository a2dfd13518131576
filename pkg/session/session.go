// Package session owns the per-session pipeline state: the picked root,
// the compiled pattern set, the materialized tree, and the manual
// selection. It enforces the lifecycle rules the pipeline assumes: any
// change to the root or the patterns discards the prior tree before a new
// one is built, stale manual exclusions are pruned on every rebuild, and
// only one archive build may be in flight at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrishacia/ZipDrop/pkg/archive"
	"github.com/chrishacia/ZipDrop/pkg/fsys"
	"github.com/chrishacia/ZipDrop/pkg/pattern"
	"github.com/chrishacia/ZipDrop/pkg/selection"
	"github.com/chrishacia/ZipDrop/pkg/stats"
	"github.com/chrishacia/ZipDrop/pkg/store"
	"github.com/chrishacia/ZipDrop/pkg/tree"
)

var (
	// ErrBuildInProgress is returned when a build is started while another
	// one is still running.
	ErrBuildInProgress = errors.New("archive build already in progress")

	// ErrNoRoot is returned when an operation needs a picked root and none
	// is set.
	ErrNoRoot = errors.New("no folder selected")
)

// Session holds the pipeline state for one picked folder.
type Session struct {
	logger *zap.Logger
	store  *store.Store
	sinks  []stats.Sink

	mu       sync.Mutex
	root     fsys.Dir
	matcher  *pattern.Matcher
	tree     *tree.Node
	excluded selection.Set
	building bool
}

// New creates a Session, loading the persisted pattern set (seeding the
// defaults on first run).
func New(logger *zap.Logger, st *store.Store, sinks ...stats.Sink) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	patterns, err := st.LoadPatterns()
	if err != nil {
		return nil, fmt.Errorf("failed to load exclusion patterns: %w", err)
	}

	return &Session{
		logger:   logger,
		store:    st,
		sinks:    sinks,
		matcher:  pattern.Compile(patterns),
		excluded: selection.SelectAll(),
	}, nil
}

// SetRoot picks a new root directory, discarding the previous tree and
// selection and building a fresh tree against the current pattern set.
func (s *Session) SetRoot(ctx context.Context, root fsys.Dir) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.root = root
	s.tree = nil
	s.excluded = selection.SelectAll()
	return s.rebuild(ctx)
}

// SetPatterns replaces the pattern set. When persist is true the new set
// is written through to the store. The tree is rebuilt immediately if a
// root is picked, and manual exclusions referring to paths that vanished
// are pruned.
func (s *Session) SetPatterns(ctx context.Context, patterns []string, persist bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if persist {
		if err := s.store.SavePatterns(patterns); err != nil {
			return err
		}
	}
	s.matcher = pattern.Compile(patterns)

	if s.root == nil {
		return nil
	}
	return s.rebuild(ctx)
}

// rebuild discards the current tree, builds a new one, and restricts the
// manual exclusion set to paths that still exist. Callers hold s.mu.
func (s *Session) rebuild(ctx context.Context) error {
	s.tree = nil

	t, err := tree.Build(ctx, s.root, s.matcher)
	if err != nil {
		s.excluded = selection.SelectAll()
		return fmt.Errorf("failed to build tree: %w", err)
	}

	s.tree = t
	s.excluded = selection.Prune(s.excluded, t)
	s.logger.Debug("Tree rebuilt", zap.Int("excludedPaths", s.excluded.Len()))
	return nil
}

// Tree returns the current tree, nil when none is built or the root
// collapsed to empty. The tree is read-only.
func (s *Session) Tree() *tree.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// Patterns returns the current normalized pattern set.
func (s *Session) Patterns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matcher.Patterns()
}

// Excluded returns the current manual exclusion set.
func (s *Session) Excluded() selection.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.excluded
}

// Toggle flips manual exclusion of the subtree rooted at path.
func (s *Session) Toggle(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tree == nil {
		return ErrNoRoot
	}
	node := s.tree.Find(path)
	if node == nil {
		return fmt.Errorf("no such path in tree: %s", path)
	}
	s.excluded = selection.Toggle(s.excluded, node)
	return nil
}

// SelectAll clears the manual exclusion set.
func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.excluded = selection.SelectAll()
}

// DeselectAll excludes every path in the current tree.
func (s *Session) DeselectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.excluded = selection.DeselectAll(s.tree)
}

// Stats derives the live aggregate counts over the included portion of
// the tree.
func (s *Session) Stats() selection.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return selection.Stats(s.tree, s.excluded)
}

// Build assembles the archive for the current root and combined exclusion
// predicate. Exactly one build may run at a time; a second call while one
// is in flight returns ErrBuildInProgress. On success the completion event
// is emitted to the configured sinks and a record is appended to the
// history; failures there never surface.
func (s *Session) Build(ctx context.Context, outputName string, progress func(current, total int)) (*archive.Result, error) {
	s.mu.Lock()
	if s.root == nil {
		s.mu.Unlock()
		return nil, ErrNoRoot
	}
	if s.building {
		s.mu.Unlock()
		return nil, ErrBuildInProgress
	}
	s.building = true
	root := s.root
	matcher := s.matcher
	excluded := s.excluded
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.building = false
		s.mu.Unlock()
	}()

	predicate := func(path string) bool {
		return matcher.Excluded(path) || excluded.Has(path)
	}
	if excluded.Has("") {
		// The root itself is manually excluded. The walk starts inside the
		// root and never evaluates its own path, so force the same
		// everything-hidden outcome the preview stats show.
		predicate = func(string) bool { return true }
	}

	asm := archive.New(s.logger)
	asm.Progress = progress

	result, err := asm.Build(ctx, root, predicate, outputName)
	if err != nil {
		return nil, err
	}

	s.recordCompletion(ctx, outputName, root.Name(), result)
	return result, nil
}

// recordCompletion emits the completion event and appends the build to the
// persisted history. Neither may fail the build.
func (s *Session) recordCompletion(ctx context.Context, outputName, sourceFolder string, result *archive.Result) {
	stats.Emit(ctx, s.logger, stats.Event{
		FilesCount:      result.FilesAdded,
		RawSizeBytes:    result.RawBytes,
		ZippedSizeBytes: result.CompressedBytes,
	}, s.sinks...)

	err := s.store.AppendHistory(store.BuildRecord{
		ID:              uuid.NewString(),
		Archive:         outputName + ".zip",
		SourceFolder:    sourceFolder,
		Files:           result.FilesAdded,
		RawBytes:        result.RawBytes,
		CompressedBytes: result.CompressedBytes,
		Digest:          result.Digest,
		CreatedAt:       time.Now(),
	})
	if err != nil {
		s.logger.Warn("Failed to append build history", zap.Error(err))
	}
}
