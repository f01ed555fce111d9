package query

import (
	"sort"

	"github.com/vibegraph/vibegraph/internal/store"
	"github.com/vibegraph/vibegraph/internal/vgerr"
)

// FileImpact groups the impacted nodes found in one file, at the closest
// hop distance any of its nodes were reached at.
type FileImpact struct {
	FilePath string
	Level    store.ImpactLevel
	Nodes    []*store.Node
}

// ImpactAnalysis is the transitive blast radius of changing filePath: every
// node that transitively calls into one of filePath's own definitions, up
// to 3 hops away, grouped by file and classified into impact levels.
type ImpactAnalysis struct {
	FilePath string
	Origin   []*store.Node
	Files    []FileImpact
	Summary  store.ImpactSummary
}

// GetImpactAnalysis finds every node that transitively calls into filePath,
// up to 3 hops away, grouped by file and classified into impact levels. The
// BFS never crosses back into filePath itself and never re-adds a node
// already reached at a shallower level.
func (e *Engine) GetImpactAnalysis(filePath string) (*ImpactAnalysis, error) {
	origin, err := e.Store.FindNodesByFile(filePath)
	if err != nil {
		return nil, vgerr.Wrap(vgerr.Internal, "list nodes by file", err)
	}
	if len(origin) == 0 {
		return nil, vgerr.NotFoundf("no nodes found for file %q", filePath)
	}

	visited := make(map[string]*store.NodeHop)
	var order []string
	level := origin
	for hop := 1; hop <= 3 && len(level) > 0; hop++ {
		var next []*store.Node
		seenThisHop := make(map[string]bool)
		for _, n := range level {
			edges, err := e.Store.EdgesTo(n.ID, store.RelationCalls)
			if err != nil {
				return nil, vgerr.Wrap(vgerr.Internal, "impact traversal", err)
			}
			for _, edge := range edges {
				caller, err := e.Store.FindNodeByID(edge.FromID)
				if err != nil {
					return nil, vgerr.Wrap(vgerr.Internal, "impact traversal", err)
				}
				if caller == nil || caller.FilePath == filePath {
					continue // never cross back into the origin file
				}
				if _, ok := visited[caller.ID]; ok {
					continue // never re-add a node already reached
				}
				if seenThisHop[caller.ID] {
					continue
				}
				seenThisHop[caller.ID] = true
				nh := &store.NodeHop{Node: caller, Hop: hop}
				visited[caller.ID] = nh
				order = append(order, caller.ID)
				next = append(next, caller)
			}
		}
		level = next
	}

	hops := make([]*store.NodeHop, 0, len(order))
	for _, id := range order {
		hops = append(hops, visited[id])
	}
	summary := store.BuildImpactSummary(hops)

	byFile := make(map[string]*FileImpact)
	var fileOrder []string
	for _, nh := range hops {
		fi, ok := byFile[nh.Node.FilePath]
		level := store.HopToLevel(nh.Hop)
		if !ok {
			fi = &FileImpact{FilePath: nh.Node.FilePath, Level: level}
			byFile[nh.Node.FilePath] = fi
			fileOrder = append(fileOrder, nh.Node.FilePath)
		} else if level < fi.Level {
			fi.Level = level
		}
		fi.Nodes = append(fi.Nodes, nh.Node)
	}

	files := make([]FileImpact, 0, len(fileOrder))
	for _, path := range fileOrder {
		fi := *byFile[path]
		sortByName(fi.Nodes)
		files = append(files, fi)
	}

	return &ImpactAnalysis{FilePath: filePath, Origin: origin, Files: files, Summary: summary}, nil
}

func sortByName(nodes []*store.Node) {
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
}
