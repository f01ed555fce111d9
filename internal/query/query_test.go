package query

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vibegraph/vibegraph/internal/driver"
	"github.com/vibegraph/vibegraph/internal/store"
	"github.com/vibegraph/vibegraph/internal/vgerr"
)

func buildTestGraph(t *testing.T) (*store.Store, string) {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"util.py": `def helper():
    return 1
`,
		"main.py": `from util import helper


def run():
    return helper()


def run_twice():
    return run() + run()
`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	d := driver.New(s, root)
	if err := d.ReindexAll(context.Background()); err != nil {
		t.Fatalf("reindex: %v", err)
	}
	return s, root
}

func TestGetStructuralSummary(t *testing.T) {
	s, _ := buildTestGraph(t)
	defer s.Close()
	e := New(s)

	summary, err := e.GetStructuralSummary("main.py", 0, 10)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalCount < 2 {
		t.Fatalf("expected at least 2 nodes, got %d", summary.TotalCount)
	}

	_, err = e.GetStructuralSummary("missing.py", 0, 10)
	if err == nil {
		t.Error("expected not-found error for missing file")
	}
}

func TestGetStructuralSummaryRejectsInvalidPagination(t *testing.T) {
	s, _ := buildTestGraph(t)
	defer s.Close()
	e := New(s)

	_, err := e.GetStructuralSummary("main.py", -1, 10)
	if verr, ok := err.(*vgerr.Error); !ok || verr.Code != vgerr.InvalidInput {
		t.Errorf("expected INVALID_INPUT for negative offset, got %v", err)
	}

	_, err = e.GetStructuralSummary("main.py", 0, -1)
	if verr, ok := err.(*vgerr.Error); !ok || verr.Code != vgerr.InvalidInput {
		t.Errorf("expected INVALID_INPUT for negative limit, got %v", err)
	}
}

func TestGetCallStackDown(t *testing.T) {
	s, _ := buildTestGraph(t)
	defer s.Close()
	e := New(s)

	cs, err := e.GetCallStack("main.run", "", "down", 2)
	if err != nil {
		t.Fatalf("call stack: %v", err)
	}
	if len(cs.Origins) != 1 {
		t.Fatalf("expected a single origin for an unambiguous qualified name, got %d", len(cs.Origins))
	}
	found := false
	for _, hop := range cs.Origins[0].Hops {
		if hop.Node.QualifiedName == "util.helper" {
			found = true
		}
	}
	if !found {
		t.Error("expected util.helper reachable downward from main.run")
	}
}

func TestGetCallStackRejectsInvalidDepth(t *testing.T) {
	s, _ := buildTestGraph(t)
	defer s.Close()
	e := New(s)

	_, err := e.GetCallStack("main.run", "", "down", 0)
	if verr, ok := err.(*vgerr.Error); !ok || verr.Code != vgerr.InvalidInput {
		t.Errorf("expected INVALID_INPUT for depth 0, got %v", err)
	}

	_, err = e.GetCallStack("main.run", "", "down", -1)
	if verr, ok := err.(*vgerr.Error); !ok || verr.Code != vgerr.InvalidInput {
		t.Errorf("expected INVALID_INPUT for negative depth, got %v", err)
	}

	_, err = e.GetCallStack("main.run", "", "down", 11)
	if verr, ok := err.(*vgerr.Error); !ok || verr.Code != vgerr.InvalidInput {
		t.Errorf("expected INVALID_INPUT for depth > 10, got %v", err)
	}
}

func TestImpactAnalysis(t *testing.T) {
	s, _ := buildTestGraph(t)
	defer s.Close()
	e := New(s)

	impact, err := e.GetImpactAnalysis("util.py")
	if err != nil {
		t.Fatalf("impact: %v", err)
	}
	if impact.Summary.Total == 0 {
		t.Error("expected at least one impacted node")
	}
	found := false
	for _, fi := range impact.Files {
		if fi.FilePath == "main.py" {
			found = true
		}
	}
	if !found {
		t.Error("expected main.py to appear as an impacted file for changes to util.py")
	}
}

func TestFindReferences(t *testing.T) {
	s, _ := buildTestGraph(t)
	defer s.Close()
	e := New(s)

	refs, err := e.FindReferences("util.helper", "")
	if err != nil {
		t.Fatalf("references: %v", err)
	}

	// Every relation counts as a reference: the calls edge from main.py and
	// the defines edge from util.py's own module node.
	var mainSites []ReferenceSite
	for _, f := range refs.Files {
		if f.FilePath == "main.py" {
			mainSites = f.Sites
		}
	}
	if len(mainSites) == 0 {
		t.Fatalf("expected reference sites in main.py, got %+v", refs.Files)
	}
	foundCall := false
	for _, site := range mainSites {
		if site.Relation == store.RelationCalls {
			foundCall = true
		}
	}
	if !foundCall {
		t.Error("expected a calls reference site in main.py")
	}
}

func TestUnderScope(t *testing.T) {
	tests := []struct {
		filePath, scope string
		want            bool
	}{
		{"src/foo.py", "src", true},
		{"src/foo.py", "src/", true},
		{"src/foo.py", "src/foo.py", true},
		{"srcfoo.py", "src", false},
		{"other/foo.py", "src", false},
	}
	for _, tt := range tests {
		if got := underScope(tt.filePath, tt.scope); got != tt.want {
			t.Errorf("underScope(%q, %q) = %v, want %v", tt.filePath, tt.scope, got, tt.want)
		}
	}
}

func TestGetDependencies(t *testing.T) {
	s, _ := buildTestGraph(t)
	defer s.Close()
	e := New(s)

	deps, err := e.GetDependencies("main.py")
	if err != nil {
		t.Fatalf("dependencies: %v", err)
	}
	if len(deps.Internal) != 1 || deps.Internal[0] != "util.py" {
		t.Fatalf("expected util.py as the sole internal dependency, got %+v", deps.Internal)
	}
}

func TestSearchBySignature(t *testing.T) {
	s, _ := buildTestGraph(t)
	defer s.Close()
	e := New(s)

	nodes, err := e.SearchBySignature("%helper%", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(nodes) == 0 {
		t.Error("expected at least one signature match")
	}
}
