// Package query implements the six read-only graph operations the MCP
// tool surface exposes: structural summary, call-stack traversal,
// transitive impact analysis, dependency categorization, reference
// lookup and signature search. Each operates directly on internal/store's
// primitives; none mutates the graph.
package query

import (
	"sort"
	"strings"

	"github.com/vibegraph/vibegraph/internal/store"
	"github.com/vibegraph/vibegraph/internal/vgerr"
)

// Engine answers read queries against one project's graph store.
type Engine struct {
	Store *store.Store
}

// New returns an Engine backed by s.
func New(s *store.Store) *Engine {
	return &Engine{Store: s}
}

// StructuralSummary is a paginated page of a file's top-level and nested
// definitions, ordered by start_line.
type StructuralSummary struct {
	FilePath   string
	Nodes      []*store.Node
	TotalCount int
	Offset     int
	Limit      int
	HasMore    bool
}

// ParentChain returns a node's enclosing definition chain, derived from its
// qualified name rather than stored redundantly ("ClassA.method_b" ->
// "ClassA"). Empty for top-level symbols.
func ParentChain(n *store.Node) string {
	if idx := strings.LastIndex(n.QualifiedName, "."); idx > 0 {
		return n.QualifiedName[:idx]
	}
	return ""
}

// GetStructuralSummary returns the definitions in filePath, paginated.
// limit == 0 means unbounded (return every node from offset onward); a
// negative offset or limit is a caller error, not a value to clamp.
func (e *Engine) GetStructuralSummary(filePath string, offset, limit int) (*StructuralSummary, error) {
	if offset < 0 {
		return nil, vgerr.InvalidInputf("offset must be >= 0, got %d", offset)
	}
	if limit < 0 {
		return nil, vgerr.InvalidInputf("limit must be >= 0, got %d", limit)
	}
	nodes, err := e.Store.FindNodesByFile(filePath)
	if err != nil {
		return nil, vgerr.Wrap(vgerr.Internal, "list nodes by file", err)
	}
	if len(nodes) == 0 {
		return nil, vgerr.NotFoundf("no nodes found for file %q", filePath)
	}
	total := len(nodes)
	if limit == 0 {
		limit = total
	}
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return &StructuralSummary{
		FilePath:   filePath,
		Nodes:      nodes[offset:end],
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
		HasMore:    end < total,
	}, nil
}

// resolveNodes finds every node identifier names: an exact qualified-name
// match if one exists, else every node sharing that simple name. When
// scopeFile is non-empty, simple-name matches are narrowed to that file.
// An ambiguous simple name is not an error:
// the caller traverses each match independently and groups the output.
func (e *Engine) resolveNodes(identifier, scopeFile string) ([]*store.Node, error) {
	n, err := e.Store.FindNodeByQN(identifier)
	if err != nil {
		return nil, vgerr.Wrap(vgerr.Internal, "lookup by qualified name", err)
	}
	if n != nil {
		return []*store.Node{n}, nil
	}
	candidates, err := e.Store.FindNodesByName(identifier)
	if err != nil {
		return nil, vgerr.Wrap(vgerr.Internal, "lookup by name", err)
	}
	if scopeFile != "" {
		var scoped []*store.Node
		for _, c := range candidates {
			if c.FilePath == scopeFile {
				scoped = append(scoped, c)
			}
		}
		candidates = scoped
	}
	if len(candidates) == 0 {
		return nil, vgerr.NotFoundf("no definition found for %q", identifier)
	}
	return candidates, nil
}

func sortByFileThenLine(nodes []*store.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].FilePath != nodes[j].FilePath {
			return nodes[i].FilePath < nodes[j].FilePath
		}
		return nodes[i].StartLine < nodes[j].StartLine
	})
}
