package query

import (
	"github.com/vibegraph/vibegraph/internal/store"
	"github.com/vibegraph/vibegraph/internal/vgerr"
)

// OriginStack is one origin node's traversal result.
type OriginStack struct {
	Origin     *store.Node
	Hops       []*store.NodeHop
	CycleEdges []store.EdgeInfo
}

// CallStack is the result of a call-stack traversal, grouped by origin: a
// name that matches more than one definition and carries no file scope
// traverses each match independently rather than erroring.
type CallStack struct {
	Direction string
	Origins   []OriginStack
}

// GetCallStack traverses the call graph from every node identifier names
// (optionally narrowed to scopeFile). direction is "up" (callers), "down"
// (callees) or "both"; depth must be in [1,10].
func (e *Engine) GetCallStack(identifier, scopeFile, direction string, depth int) (*CallStack, error) {
	if depth < 1 || depth > 10 {
		return nil, vgerr.InvalidInputf("depth must be in [1,10], got %d", depth)
	}
	if direction != "up" && direction != "down" && direction != "both" {
		return nil, vgerr.InvalidInputf("direction must be one of up, down, both; got %q", direction)
	}

	origins, err := e.resolveNodes(identifier, scopeFile)
	if err != nil {
		return nil, err
	}

	result := &CallStack{Direction: direction}
	for _, origin := range origins {
		var hops []*store.NodeHop
		var cycles []store.EdgeInfo

		if direction == "up" || direction == "both" {
			h, c, err := e.bfsFrom(origin.ID, "inbound", depth)
			if err != nil {
				return nil, err
			}
			hops = append(hops, h...)
			cycles = append(cycles, c...)
		}
		if direction == "down" || direction == "both" {
			h, c, err := e.bfsFrom(origin.ID, "outbound", depth)
			if err != nil {
				return nil, err
			}
			hops = append(hops, h...)
			cycles = append(cycles, c...)
		}
		result.Origins = append(result.Origins, OriginStack{Origin: origin, Hops: hops, CycleEdges: cycles})
	}
	return result, nil
}

func (e *Engine) bfsFrom(nodeID, direction string, depth int) ([]*store.NodeHop, []store.EdgeInfo, error) {
	result, err := e.Store.BFS(nodeID, direction, store.RelationCalls, depth)
	if err != nil {
		return nil, nil, vgerr.Wrap(vgerr.Internal, "call-stack traversal", err)
	}
	return result.Visited, result.CycleEdges, nil
}
