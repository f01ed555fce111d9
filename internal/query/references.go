package query

import (
	"sort"
	"strings"

	"github.com/vibegraph/vibegraph/internal/store"
	"github.com/vibegraph/vibegraph/internal/vgerr"
)

// ReferenceSite is one edge pointing at a matched definition.
type ReferenceSite struct {
	Caller   *store.Node
	Relation store.Relation
	SiteLine int
	Target   *store.Node // which matched definition this site references
}

// FileReferences groups the reference sites found in one caller file.
type FileReferences struct {
	FilePath string
	Sites    []ReferenceSite
}

// References is every edge found into any node named identifier, grouped by
// the referencing node's file_path. Targets holds every definition the name
// matched: every match is kept
// and tagged on its sites rather than narrowed to one.
type References struct {
	Targets []*store.Node
	Files   []FileReferences
}

// FindReferences returns every edge (of any relation) terminating at a node
// named identifier, optionally scoped to files under scopePath. The spec
// names no upper bound here, unlike the capped impact-analysis traversal.
func (e *Engine) FindReferences(identifier, scopePath string) (*References, error) {
	var candidates []*store.Node
	if exact, err := e.Store.FindNodeByQN(identifier); err != nil {
		return nil, vgerr.Wrap(vgerr.Internal, "lookup by qualified name", err)
	} else if exact != nil {
		candidates = []*store.Node{exact}
	} else {
		byName, err := e.Store.FindNodesByName(identifier)
		if err != nil {
			return nil, vgerr.Wrap(vgerr.Internal, "lookup by name", err)
		}
		candidates = byName
	}
	if scopePath != "" {
		filtered := candidates[:0]
		for _, c := range candidates {
			if underScope(c.FilePath, scopePath) {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}
	if len(candidates) == 0 {
		return nil, vgerr.NotFoundf("no definition found for %q", identifier)
	}

	byFile := make(map[string][]ReferenceSite)
	var order []string
	for _, target := range candidates {
		edges, err := e.Store.EdgesTo(target.ID, "")
		if err != nil {
			return nil, vgerr.Wrap(vgerr.Internal, "list incoming edges", err)
		}
		for _, edge := range edges {
			caller, err := e.Store.FindNodeByID(edge.FromID)
			if err != nil || caller == nil {
				continue
			}
			if _, ok := byFile[caller.FilePath]; !ok {
				order = append(order, caller.FilePath)
			}
			byFile[caller.FilePath] = append(byFile[caller.FilePath], ReferenceSite{
				Caller: caller, Relation: edge.Relation, SiteLine: edge.SiteLine, Target: target,
			})
		}
	}
	sort.Strings(order)

	files := make([]FileReferences, 0, len(order))
	for _, path := range order {
		sites := byFile[path]
		sort.SliceStable(sites, func(i, j int) bool {
			if sites[i].Caller.StartLine != sites[j].Caller.StartLine {
				return sites[i].Caller.StartLine < sites[j].Caller.StartLine
			}
			return sites[i].SiteLine < sites[j].SiteLine
		})
		files = append(files, FileReferences{FilePath: path, Sites: sites})
	}

	return &References{Targets: candidates, Files: files}, nil
}

// underScope reports whether filePath is scope itself or sits beneath it as
// a directory. A bare prefix match is not enough: scope "src" must match
// "src/foo.py" but not "srcfoo.py".
func underScope(filePath, scope string) bool {
	scope = strings.TrimSuffix(scope, "/")
	return filePath == scope || strings.HasPrefix(filePath, scope+"/")
}
