package store

import "testing"

func mustOpen(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertNodeConflictUpdatesInPlace(t *testing.T) {
	s := mustOpen(t)

	n := &Node{ID: "n1", Kind: KindFunction, Name: "f", QualifiedName: "a.f", FilePath: "a.py", StartLine: 1, EndLine: 2, Visibility: VisibilityPublic}
	if err := s.UpsertNode(n); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	n.EndLine = 5
	n.Signature = "f()"
	if err := s.UpsertNode(n); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	count, err := s.CountNodes()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 node after re-upsert, got %d", count)
	}

	got, err := s.FindNodeByID("n1")
	if err != nil || got == nil {
		t.Fatalf("find: %v", err)
	}
	if got.EndLine != 5 || got.Signature != "f()" {
		t.Fatalf("upsert did not update in place: %+v", got)
	}
}

func TestClearFileIsLocalizedRefresh(t *testing.T) {
	s := mustOpen(t)

	a := &Node{ID: "a", Kind: KindFunction, Name: "f", QualifiedName: "a.f", FilePath: "a.py"}
	b := &Node{ID: "b", Kind: KindFunction, Name: "h", QualifiedName: "b.h", FilePath: "b.py"}
	for _, n := range []*Node{a, b} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	if err := s.InsertEdge(&Edge{FromID: "b", ToID: "a", Relation: RelationCalls}); err != nil {
		t.Fatalf("insert edge: %v", err)
	}

	if err := s.ClearFile("a.py"); err != nil {
		t.Fatalf("clear file: %v", err)
	}

	if n, _ := s.FindNodeByID("a"); n != nil {
		t.Fatalf("expected node a to be gone after clearing a.py")
	}
	if n, _ := s.FindNodeByID("b"); n == nil {
		t.Fatalf("expected node b to survive clearing a.py")
	}
	edges, err := s.EdgesFrom("b", RelationCalls)
	if err != nil {
		t.Fatalf("edges from: %v", err)
	}
	if len(edges) != 0 {
		t.Fatalf("expected the cross-file edge to be dropped with its endpoint, got %v", edges)
	}
}

func TestInsertEdgeDuplicateIsNoOp(t *testing.T) {
	s := mustOpen(t)
	for _, n := range []*Node{{ID: "a", Kind: KindFunction, Name: "a"}, {ID: "b", Kind: KindFunction, Name: "b"}} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	if err := s.InsertEdge(&Edge{FromID: "a", ToID: "b", Relation: RelationCalls, SiteLine: 3}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.InsertEdge(&Edge{FromID: "a", ToID: "b", Relation: RelationCalls, SiteLine: 3}); err != nil {
		t.Fatalf("insert duplicate: %v", err)
	}
	count, err := s.CountEdges()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected duplicate insert to be a no-op, got %d edges", count)
	}
}

func TestBFSDetectsCycle(t *testing.T) {
	s := mustOpen(t)
	for _, n := range []*Node{{ID: "a", Kind: KindFunction, Name: "a"}, {ID: "b", Kind: KindFunction, Name: "b"}} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	if err := s.InsertEdge(&Edge{FromID: "a", ToID: "b", Relation: RelationCalls}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.InsertEdge(&Edge{FromID: "b", ToID: "a", Relation: RelationCalls}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	result, err := s.BFS("a", "outbound", RelationCalls, 5)
	if err != nil {
		t.Fatalf("bfs: %v", err)
	}
	if len(result.Visited) != 1 || result.Visited[0].Node.ID != "b" {
		t.Fatalf("expected exactly one hop to b, got %+v", result.Visited)
	}
	if len(result.CycleEdges) != 1 {
		t.Fatalf("expected one cycle marker, got %d", len(result.CycleEdges))
	}
}

func TestSchemaCountsKindsAndRelations(t *testing.T) {
	s := mustOpen(t)
	nodes := []*Node{
		{ID: "m", Kind: KindModule, Name: "m"},
		{ID: "f1", Kind: KindFunction, Name: "f1"},
		{ID: "f2", Kind: KindFunction, Name: "f2"},
	}
	for _, n := range nodes {
		if err := s.UpsertNode(n); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	for _, e := range []*Edge{
		{FromID: "m", ToID: "f1", Relation: RelationDefines},
		{FromID: "m", ToID: "f2", Relation: RelationDefines},
		{FromID: "f1", ToID: "f2", Relation: RelationCalls},
	} {
		if err := s.InsertEdge(e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	info, err := s.Schema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if info.NodeCount != 3 || info.EdgeCount != 3 {
		t.Fatalf("counts = %d nodes, %d edges; want 3 and 3", info.NodeCount, info.EdgeCount)
	}
	if len(info.NodeKinds) != 2 || info.NodeKinds[0].Kind != KindFunction || info.NodeKinds[0].Count != 2 {
		t.Fatalf("node kinds = %+v, want function first with count 2", info.NodeKinds)
	}
	if len(info.EdgeTypes) != 2 || info.EdgeTypes[0].Relation != RelationDefines || info.EdgeTypes[0].Count != 2 {
		t.Fatalf("edge types = %+v, want defines first with count 2", info.EdgeTypes)
	}
}

func TestAllNodesAndAllEdges(t *testing.T) {
	s := mustOpen(t)
	nodes := []*Node{
		{ID: "b1", Kind: KindFunction, Name: "h", QualifiedName: "b.h", FilePath: "b.py", StartLine: 1},
		{ID: "a2", Kind: KindFunction, Name: "g", QualifiedName: "a.g", FilePath: "a.py", StartLine: 10},
		{ID: "a1", Kind: KindFunction, Name: "f", QualifiedName: "a.f", FilePath: "a.py", StartLine: 1},
	}
	for _, n := range nodes {
		if err := s.UpsertNode(n); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	if err := s.InsertEdge(&Edge{FromID: "b1", ToID: "a1", Relation: RelationCalls}); err != nil {
		t.Fatalf("insert edge: %v", err)
	}

	all, err := s.AllNodes()
	if err != nil {
		t.Fatalf("all nodes: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(all))
	}
	if all[0].ID != "a1" || all[1].ID != "a2" || all[2].ID != "b1" {
		t.Fatalf("expected file/line ordering a1,a2,b1, got %s,%s,%s", all[0].ID, all[1].ID, all[2].ID)
	}

	edges, err := s.AllEdges()
	if err != nil {
		t.Fatalf("all edges: %v", err)
	}
	if len(edges) != 1 || edges[0].FromID != "b1" {
		t.Fatalf("expected the single inserted edge, got %+v", edges)
	}
}

func TestSignatureSearchScopeRespectsPathBoundary(t *testing.T) {
	s := mustOpen(t)
	nodes := []*Node{
		{ID: "1", Kind: KindFunction, Name: "a", FilePath: "src/a.py", Signature: "a(x: Node)"},
		{ID: "2", Kind: KindFunction, Name: "b", FilePath: "srcfoo.py", Signature: "b(x: Node)"},
	}
	for _, n := range nodes {
		if err := s.UpsertNode(n); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	results, err := s.SignatureSearch("%Node%", "src")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "1" {
		t.Fatalf("expected scope src to match only src/a.py, got %+v", results)
	}
}

func TestSignatureSearchRanksExactMatchFirst(t *testing.T) {
	s := mustOpen(t)
	nodes := []*Node{
		{ID: "1", Kind: KindMethod, Name: "upsert_node", Signature: "upsert_node(self, node: Node) -> None"},
		{ID: "2", Kind: KindFunction, Name: "other", Signature: "other(node: Node) -> bool"},
	}
	for _, n := range nodes {
		if err := s.UpsertNode(n); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	results, err := s.SignatureSearch("%Node%", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected both signatures to match, got %d", len(results))
	}

	exact, err := s.SignatureSearch("upsert_node(self, node: Node) -> None", "")
	if err != nil {
		t.Fatalf("exact search: %v", err)
	}
	if len(exact) != 1 || exact[0].ID != "1" {
		t.Fatalf("expected exact match to return only the exact node, got %+v", exact)
	}
}
