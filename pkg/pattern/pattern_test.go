package pattern

import "testing"

func TestCompileNormalizesBareNames(t *testing.T) {
	m := Compile([]string{"node_modules"})

	t.Run("matches at root", func(t *testing.T) {
		if !m.Excluded("node_modules") {
			t.Error("expected node_modules to be excluded at root")
		}
	})

	t.Run("matches at depth", func(t *testing.T) {
		if !m.Excluded("packages/app/node_modules") {
			t.Error("expected node_modules to be excluded at any depth")
		}
	})

	t.Run("does not match partial names", func(t *testing.T) {
		if m.Excluded("my_node_modules_backup") {
			t.Error("bare name should not match as a substring")
		}
	})
}

func TestCompileKeepsPathPatterns(t *testing.T) {
	m := Compile([]string{"src/*.tmp"})

	if !m.Excluded("src/a.tmp") {
		t.Error("expected src/a.tmp to be excluded")
	}
	if m.Excluded("other/a.tmp") {
		t.Error("path-qualified pattern must not be rewritten to match anywhere")
	}
}

func TestExcludedIsOrAcrossPatterns(t *testing.T) {
	m := Compile([]string{"*.log", "dist"})

	for _, path := range []string{"a.log", "deep/b.log", "dist", "pkg/dist"} {
		if !m.Excluded(path) {
			t.Errorf("expected %q to be excluded", path)
		}
	}
	if m.Excluded("a.txt") {
		t.Error("a.txt should not be excluded")
	}
}

func TestWildcardExtension(t *testing.T) {
	m := Compile([]string{"*.log"})

	if !m.Excluded("a.log") {
		t.Error("expected a.log excluded")
	}
	if m.Excluded("b.txt") {
		t.Error("b.txt should not be excluded")
	}
}

func TestDotfilesMatchLikeOrdinaryNames(t *testing.T) {
	m := Compile([]string{".DS_Store"})

	if !m.Excluded(".DS_Store") {
		t.Error("expected .DS_Store excluded at root")
	}
	if !m.Excluded("photos/.DS_Store") {
		t.Error("expected .DS_Store excluded at depth")
	}
}

func TestMalformedPatternNeverMatches(t *testing.T) {
	m := Compile([]string{"[unclosed"})

	if m.Excluded("anything") {
		t.Error("malformed pattern must fall through to no-match")
	}
}

func TestEmptyPatternsDropped(t *testing.T) {
	m := Compile([]string{"", "   ", "dist"})

	if got := len(m.Patterns()); got != 1 {
		t.Errorf("expected 1 compiled pattern, got %d", got)
	}
}

func TestExplicitRecursivePrefixKept(t *testing.T) {
	m := Compile([]string{"**/vendor"})

	if !m.Excluded("a/b/vendor") {
		t.Error("expected **/vendor to match nested vendor")
	}
	patterns := m.Patterns()
	if patterns[0] != "**/vendor" {
		t.Errorf("pattern should not be double-prefixed, got %q", patterns[0])
	}
}
