package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vibegraph/vibegraph/internal/store"
)

type capturingNotifier struct {
	paths []string
}

func (c *capturingNotifier) NotifyChanged(paths []string) {
	c.paths = append(c.paths, paths...)
}

func TestReindexAllResolvesCrossFileCall(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "util.py"), `def helper():
    return 1
`)
	mustWrite(t, filepath.Join(root, "main.py"), `from util import helper


def run():
    return helper()
`)

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	notifier := &capturingNotifier{}
	d := New(s, root)
	d.Notifier = notifier

	if err := d.ReindexAll(context.Background()); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	run, err := s.FindNodeByQN("main.run")
	if err != nil || run == nil {
		t.Fatalf("main.run not found: %v", err)
	}
	helper, err := s.FindNodeByQN("util.helper")
	if err != nil || helper == nil {
		t.Fatalf("util.helper not found: %v", err)
	}

	edges, err := s.EdgesFrom(run.ID, store.RelationCalls)
	if err != nil {
		t.Fatalf("edges from: %v", err)
	}
	found := false
	for _, e := range edges {
		if e.ToID == helper.ID {
			found = true
		}
	}
	if !found {
		t.Error("expected a calls edge from main.run to util.helper")
	}
	if len(notifier.paths) != 2 {
		t.Errorf("notified paths = %d, want 2", len(notifier.paths))
	}
}

func TestReindexAllUnresolvedCallBecomesPlaceholder(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "main.py"), `def run():
    return mystery_function()
`)

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	d := New(s, root)
	if err := d.ReindexAll(context.Background()); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	run, err := s.FindNodeByQN("main.run")
	if err != nil || run == nil {
		t.Fatalf("main.run not found: %v", err)
	}
	edges, err := s.EdgesFrom(run.ID, store.RelationCalls)
	if err != nil {
		t.Fatalf("edges from: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("calls edges = %d, want 1", len(edges))
	}
	target, err := s.FindNodeByID(edges[0].ToID)
	if err != nil || target == nil {
		t.Fatalf("placeholder node not found: %v", err)
	}
	if target.FilePath != store.ExternalFile {
		t.Errorf("placeholder file_path = %q, want %q", target.FilePath, store.ExternalFile)
	}
}

func TestClearPathRemovesNodes(t *testing.T) {
	root := t.TempDir()
	filePath := filepath.Join(root, "only.py")
	mustWrite(t, filePath, `def solo():
    return 1
`)

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	d := New(s, root)
	if err := d.ReindexAll(context.Background()); err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if n, _ := s.FindNodeByQN("only.solo"); n == nil {
		t.Fatal("expected only.solo to exist before clear")
	}

	if err := d.ClearPath(filePath); err != nil {
		t.Fatalf("clear path: %v", err)
	}
	n, err := s.FindNodeByQN("only.solo")
	if err != nil {
		t.Fatalf("find after clear: %v", err)
	}
	if n != nil {
		t.Error("expected only.solo to be removed after ClearPath")
	}
}

func TestReindexPathDoesNotTouchOtherFiles(t *testing.T) {
	root := t.TempDir()
	utilPath := filepath.Join(root, "util.py")
	mainPath := filepath.Join(root, "main.py")
	mustWrite(t, utilPath, `def helper():
    return 1
`)
	mustWrite(t, mainPath, `from util import helper


def run():
    return helper()
`)

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	d := New(s, root)
	if err := d.ReindexAll(context.Background()); err != nil {
		t.Fatalf("reindex all: %v", err)
	}

	before, err := s.FindNodeByQN("util.helper")
	if err != nil || before == nil {
		t.Fatalf("util.helper not found before: %v", err)
	}

	// Re-indexing only main.py must leave util.py's row untouched: same
	// node, same ID, still present.
	if err := d.ReindexPath(context.Background(), mainPath); err != nil {
		t.Fatalf("reindex path: %v", err)
	}

	after, err := s.FindNodeByQN("util.helper")
	if err != nil || after == nil {
		t.Fatalf("util.helper not found after: %v", err)
	}
	if after.ID != before.ID {
		t.Errorf("util.helper ID changed across an unrelated reindex: %s -> %s", before.ID, after.ID)
	}

	run, err := s.FindNodeByQN("main.run")
	if err != nil || run == nil {
		t.Fatalf("main.run not found after reindex: %v", err)
	}
	edges, err := s.EdgesFrom(run.ID, store.RelationCalls)
	if err != nil {
		t.Fatalf("edges from: %v", err)
	}
	found := false
	for _, e := range edges {
		if e.ToID == after.ID {
			found = true
		}
	}
	if !found {
		t.Error("expected main.run to still call util.helper after a single-path reindex")
	}
}

func TestReindexAllResolvesCrossFileGoMethod(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "store.go"), `package store

type Store struct {
	path string
}
`)
	mustWrite(t, filepath.Join(root, "nodes.go"), `package store

func (s *Store) UpsertNode(id string) error {
	return nil
}
`)

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	d := New(s, root)
	if err := d.ReindexAll(context.Background()); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	structNode, err := s.FindNodeByQN("store.Store")
	if err != nil || structNode == nil {
		t.Fatalf("store.Store not found: %v", err)
	}
	method, err := s.FindNodeByQN("nodes.Store.UpsertNode")
	if err != nil || method == nil {
		t.Fatalf("nodes.Store.UpsertNode not found: %v", err)
	}

	edges, err := s.EdgesFrom(structNode.ID, store.RelationDefines)
	if err != nil {
		t.Fatalf("edges from: %v", err)
	}
	found := false
	for _, e := range edges {
		if e.ToID == method.ID {
			found = true
		}
	}
	if !found {
		t.Error("expected a defines edge from Store to UpsertNode even though they are declared in different files")
	}
}

func TestReindexAllUnresolvedMethodReceiverBecomesPlaceholder(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "orphan.go"), `package orphan

func (o *Orphan) Run() error {
	return nil
}
`)

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	d := New(s, root)
	if err := d.ReindexAll(context.Background()); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	method, err := s.FindNodeByQN("orphan.Orphan.Run")
	if err != nil || method == nil {
		t.Fatalf("orphan.Orphan.Run not found: %v", err)
	}
	edges, err := s.EdgesTo(method.ID, store.RelationDefines)
	if err != nil {
		t.Fatalf("edges to: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("defines edges into Run = %d, want 1", len(edges))
	}
	parent, err := s.FindNodeByID(edges[0].FromID)
	if err != nil || parent == nil {
		t.Fatalf("placeholder parent not found: %v", err)
	}
	if parent.FilePath != store.ExternalFile {
		t.Errorf("placeholder file_path = %q, want %q", parent.FilePath, store.ExternalFile)
	}
}

func TestReindexAllIsIdempotent(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "util.py"), `def helper():
    return 1
`)
	mustWrite(t, filepath.Join(root, "main.py"), `from util import helper


def run():
    return helper()
`)

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	d := New(s, root)
	if err := d.ReindexAll(context.Background()); err != nil {
		t.Fatalf("first reindex: %v", err)
	}
	nodesBefore, _ := s.CountNodes()
	edgesBefore, _ := s.CountEdges()
	helperBefore, err := s.FindNodeByQN("util.helper")
	if err != nil || helperBefore == nil {
		t.Fatalf("util.helper not found: %v", err)
	}

	if err := d.ReindexAll(context.Background()); err != nil {
		t.Fatalf("second reindex: %v", err)
	}
	nodesAfter, _ := s.CountNodes()
	edgesAfter, _ := s.CountEdges()
	if nodesAfter != nodesBefore || edgesAfter != edgesBefore {
		t.Errorf("row counts changed across identical reindexes: nodes %d->%d, edges %d->%d",
			nodesBefore, nodesAfter, edgesBefore, edgesAfter)
	}
	helperAfter, err := s.FindNodeByQN("util.helper")
	if err != nil || helperAfter == nil {
		t.Fatalf("util.helper lost: %v", err)
	}
	if helperAfter.ID != helperBefore.ID {
		t.Errorf("node ID changed across identical reindexes: %s -> %s", helperBefore.ID, helperAfter.ID)
	}
}

func TestReindexAllHandlesCrossFileCycle(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "x.py"), `from y import b


def a():
    return b()
`)
	mustWrite(t, filepath.Join(root, "y.py"), `from x import a


def b():
    return a()
`)

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	d := New(s, root)
	if err := d.ReindexAll(context.Background()); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	a, _ := s.FindNodeByQN("x.a")
	b, _ := s.FindNodeByQN("y.b")
	if a == nil || b == nil {
		t.Fatal("expected both cycle participants to exist")
	}
	for _, pair := range [][2]*store.Node{{a, b}, {b, a}} {
		edges, err := s.EdgesFrom(pair[0].ID, store.RelationCalls)
		if err != nil {
			t.Fatalf("edges from: %v", err)
		}
		found := false
		for _, e := range edges {
			if e.ToID == pair[1].ID {
				found = true
			}
		}
		if !found {
			t.Errorf("missing calls edge %s -> %s", pair[0].QualifiedName, pair[1].QualifiedName)
		}
	}
}

func TestReindexPathKeepsIncomingCrossFileEdges(t *testing.T) {
	root := t.TempDir()
	utilPath := filepath.Join(root, "util.py")
	mustWrite(t, utilPath, `def helper():
    return 1
`)
	mustWrite(t, filepath.Join(root, "main.py"), `from util import helper


def run():
    return helper()
`)

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	d := New(s, root)
	if err := d.ReindexAll(context.Background()); err != nil {
		t.Fatalf("reindex all: %v", err)
	}

	// Re-indexing the callee file clears its rows, which takes the caller's
	// cross-file edge with them; the commit must restore that edge.
	if err := d.ReindexPath(context.Background(), utilPath); err != nil {
		t.Fatalf("reindex path: %v", err)
	}

	run, _ := s.FindNodeByQN("main.run")
	helper, _ := s.FindNodeByQN("util.helper")
	if run == nil || helper == nil {
		t.Fatal("expected both nodes to survive")
	}
	edges, err := s.EdgesFrom(run.ID, store.RelationCalls)
	if err != nil {
		t.Fatalf("edges from: %v", err)
	}
	found := false
	for _, e := range edges {
		if e.ToID == helper.ID {
			found = true
		}
	}
	if !found {
		t.Error("expected main.run's call into util.helper to survive re-indexing util.py")
	}
}

func TestReindexPathSubtree(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "pkg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	mustWrite(t, filepath.Join(root, "top.py"), `def top():
    return 1
`)
	mustWrite(t, filepath.Join(root, "pkg", "a.py"), `def a():
    return 1
`)

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	d := New(s, root)
	if err := d.ReindexAll(context.Background()); err != nil {
		t.Fatalf("reindex all: %v", err)
	}
	topBefore, _ := s.FindNodeByQN("top.top")
	if topBefore == nil {
		t.Fatal("top.top not found")
	}

	// A file added inside the subtree is picked up by a directory-scoped
	// reindex; files outside the subtree are untouched.
	mustWrite(t, filepath.Join(root, "pkg", "b.py"), `def b():
    return 2
`)
	if err := d.ReindexPath(context.Background(), filepath.Join(root, "pkg")); err != nil {
		t.Fatalf("reindex subtree: %v", err)
	}

	if n, _ := s.FindNodeByQN("pkg.b.b"); n == nil {
		t.Error("expected pkg.b.b after a subtree reindex")
	}
	if n, _ := s.FindNodeByQN("pkg.a.a"); n == nil {
		t.Error("expected pkg.a.a to survive a subtree reindex")
	}
	topAfter, _ := s.FindNodeByQN("top.top")
	if topAfter == nil || topAfter.ID != topBefore.ID {
		t.Errorf("file outside the subtree changed: %+v -> %+v", topBefore, topAfter)
	}
}

func TestPlaceholderRewrittenWhenTargetAppears(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "b.py"), `import a
`)

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	d := New(s, root)
	if err := d.ReindexAll(context.Background()); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	bModule, _ := s.FindNodeByQN("b")
	if bModule == nil {
		t.Fatal("module node b not found")
	}
	imports, err := s.EdgesFrom(bModule.ID, store.RelationImports)
	if err != nil || len(imports) != 1 {
		t.Fatalf("imports = %v (%v), want 1", imports, err)
	}
	target, _ := s.FindNodeByID(imports[0].ToID)
	if target == nil || target.FilePath != store.ExternalFile {
		t.Fatalf("expected a placeholder import target, got %+v", target)
	}

	// The imported module appears later; its reindex rewrites the edge.
	aPath := filepath.Join(root, "a.py")
	mustWrite(t, aPath, `def f():
    return 1
`)
	if err := d.ReindexPath(context.Background(), aPath); err != nil {
		t.Fatalf("reindex path: %v", err)
	}

	imports, err = s.EdgesFrom(bModule.ID, store.RelationImports)
	if err != nil || len(imports) != 1 {
		t.Fatalf("imports after rewrite = %v (%v), want 1", imports, err)
	}
	target, _ = s.FindNodeByID(imports[0].ToID)
	if target == nil || target.FilePath != "a.py" {
		t.Fatalf("expected the import edge rewritten to a.py's module node, got %+v", target)
	}
	if ph, _ := s.FindNodesByFile(store.ExternalFile); len(ph) != 0 {
		t.Errorf("expected the orphaned placeholder to be deleted, got %+v", ph)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
