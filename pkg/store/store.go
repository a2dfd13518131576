// Package store persists small JSON documents under a config directory,
// one file per key. It backs the exclusion-pattern list, the running
// statistics totals, and the build history.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Keys for the documents the application persists. No schema versioning;
// a document that fails to decode is treated as absent.
const (
	PatternsKey = "exclude_patterns"
	TotalsKey   = "stats_totals"
	HistoryKey  = "build_history"
)

// HistoryLimit bounds the number of retained build records.
const HistoryLimit = 50

// DefaultPatterns seed the exclusion list on first run.
var DefaultPatterns = []string{
	"node_modules",
	".git",
	".DS_Store",
	"dist",
	"build",
	"coverage",
	"__pycache__",
	".cache",
}

// Store is a file-backed key-value store rooted at a directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

// DefaultDir returns the per-user config directory for the application.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".zipdrop"), nil
}

// Open creates the store directory if needed and returns a Store.
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Get decodes the document stored under key into v. The second return is
// false when no document exists or it cannot be decoded.
func (s *Store) Get(key string, v any) (bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("Discarding undecodable store document", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

// Put encodes v and rewrites the document stored under key.
func (s *Store) Put(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := os.WriteFile(s.path(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	s.logger.Debug("Persisted store document", zap.String("key", key))
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// LoadPatterns returns the persisted exclusion patterns, seeding and
// persisting the defaults on first run.
func (s *Store) LoadPatterns() ([]string, error) {
	var patterns []string
	ok, err := s.Get(PatternsKey, &patterns)
	if err != nil {
		return nil, err
	}
	if !ok {
		patterns = append([]string(nil), DefaultPatterns...)
		if err := s.SavePatterns(patterns); err != nil {
			return nil, err
		}
	}
	return patterns, nil
}

// SavePatterns rewrites the persisted exclusion patterns.
func (s *Store) SavePatterns(patterns []string) error {
	return s.Put(PatternsKey, patterns)
}
