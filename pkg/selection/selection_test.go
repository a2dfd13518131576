package selection

import (
	"context"
	"testing"

	"github.com/chrishacia/ZipDrop/pkg/fsys"
	"github.com/chrishacia/ZipDrop/pkg/pattern"
	"github.com/chrishacia/ZipDrop/pkg/tree"
)

func buildTree(t *testing.T, files map[string][]byte, patterns ...string) *tree.Node {
	t.Helper()
	root := fsys.NewMapDir("project", files)
	node, err := tree.Build(context.Background(), root, pattern.Compile(patterns))
	if err != nil {
		t.Fatalf("failed to build tree: %v", err)
	}
	return node
}

func TestToggleExcludesWholeSubtree(t *testing.T) {
	root := buildTree(t, map[string][]byte{
		"src/a.go":     []byte("a"),
		"src/sub/b.go": []byte("b"),
		"top.txt":      []byte("t"),
	})

	src := root.Find("src")
	set := Toggle(Set{}, src)

	for _, p := range []string{"src", "src/a.go", "src/sub", "src/sub/b.go"} {
		if !set.Has(p) {
			t.Errorf("expected %q excluded after toggling src", p)
		}
	}
	if set.Has("top.txt") {
		t.Error("top.txt must not be affected")
	}
}

func TestToggleRoundTripRestoresMembership(t *testing.T) {
	root := buildTree(t, map[string][]byte{
		"src/a.go":     []byte("a"),
		"src/sub/b.go": []byte("b"),
	})

	src := root.Find("src")

	t.Run("from included", func(t *testing.T) {
		set := Set{}
		twice := Toggle(Toggle(set, src), src)
		if twice.Len() != 0 {
			t.Errorf("round-trip left %d paths excluded, want 0", twice.Len())
		}
	})

	t.Run("from excluded", func(t *testing.T) {
		set := Toggle(Set{}, src)
		twice := Toggle(Toggle(set, src), src)
		if twice.Len() != set.Len() {
			t.Fatalf("round-trip changed set size: %d != %d", twice.Len(), set.Len())
		}
		for p := range set {
			if !twice.Has(p) {
				t.Errorf("round-trip lost %q", p)
			}
		}
	})

	t.Run("mixed subtree collapses to consistent state", func(t *testing.T) {
		// A transiently mixed subtree: toggling the directory always yields
		// all-in or all-out, never another mixed state.
		set := Toggle(Set{}, root.Find("src/sub/b.go"))
		once := Toggle(set, src)
		for _, p := range []string{"src", "src/a.go", "src/sub", "src/sub/b.go"} {
			if !once.Has(p) {
				t.Errorf("expected %q excluded after toggling mixed subtree", p)
			}
		}
	})
}

func TestToggleIsCopyOnWrite(t *testing.T) {
	root := buildTree(t, map[string][]byte{"a.txt": []byte("a")})

	original := Set{}
	_ = Toggle(original, root.Find("a.txt"))

	if len(original) != 0 {
		t.Error("Toggle mutated its input set")
	}
}

func TestSelectAllAndDeselectAll(t *testing.T) {
	files := map[string][]byte{
		"a.txt":   make([]byte, 1),
		"b.txt":   make([]byte, 2),
		"c/d.txt": make([]byte, 3),
		"c/e.txt": make([]byte, 4),
		"f.txt":   make([]byte, 5),
	}
	root := buildTree(t, files)

	set := DeselectAll(root)
	if got := Stats(root, set); got.Files != 0 || got.Bytes != 0 {
		t.Errorf("after deselect-all stats = %+v, want zero", got)
	}

	set = SelectAll()
	got := Stats(root, set)
	if got.Files != 5 {
		t.Errorf("files = %d, want 5", got.Files)
	}
	if got.Bytes != 15 {
		t.Errorf("bytes = %d, want 15", got.Bytes)
	}
}

func TestStatsSkipsExcludedSubtrees(t *testing.T) {
	root := buildTree(t, map[string][]byte{
		"src/a.go":     make([]byte, 100),
		"src/sub/b.go": make([]byte, 50),
		"top.txt":      make([]byte, 7),
	})

	set := Toggle(Set{}, root.Find("src"))
	got := Stats(root, set)

	if got.Files != 1 || got.Bytes != 7 {
		t.Errorf("stats = %+v, want 1 file of 7 bytes", got)
	}
	if got.Folders != 0 {
		t.Errorf("folders = %d, want 0 after excluding src", got.Folders)
	}
}

func TestStatsMatchesPatternScenario(t *testing.T) {
	// Pattern *.log over {a.log 10B, b.txt 20B}: only b.txt survives.
	root := buildTree(t, map[string][]byte{
		"a.log": make([]byte, 10),
		"b.txt": make([]byte, 20),
	}, "*.log")

	if root.Find("a.log") != nil {
		t.Fatal("a.log should not be in the tree")
	}
	got := Stats(root, Set{})
	if got.Files != 1 || got.Bytes != 20 {
		t.Errorf("stats = %+v, want files=1 bytes=20", got)
	}
}

func TestStatsCountsFolders(t *testing.T) {
	root := buildTree(t, map[string][]byte{
		"a/x.txt":   make([]byte, 1),
		"a/b/y.txt": make([]byte, 1),
	})

	got := Stats(root, Set{})
	if got.Folders != 2 {
		t.Errorf("folders = %d, want 2 (a and a/b; root not counted)", got.Folders)
	}
}

func TestPruneDropsDeadPaths(t *testing.T) {
	root := buildTree(t, map[string][]byte{
		"keep.txt": []byte("k"),
	})

	set := Set{"keep.txt": {}, "gone.txt": {}, "old/dir": {}}
	pruned := Prune(set, root)

	if !pruned.Has("keep.txt") {
		t.Error("surviving path was pruned")
	}
	if pruned.Len() != 1 {
		t.Errorf("pruned set size = %d, want 1", pruned.Len())
	}
}

func TestStatsOnNilTree(t *testing.T) {
	got := Stats(nil, Set{})
	if got.Files != 0 || got.Folders != 0 || got.Bytes != 0 {
		t.Errorf("stats on nil tree = %+v, want zero", got)
	}
}
