package store

// NodeHop is a node reached during BFS, tagged with its hop distance and
// the breadcrumb path of names from the traversal root.
type NodeHop struct {
	Node       *Node
	Hop        int
	Breadcrumb []string
}

// TraverseResult holds BFS traversal results. CycleEdges records edges that
// would have re-expanded an already-visited node: the query engine needs the
// cycle surfaced, not just survived.
type TraverseResult struct {
	Visited    []*NodeHop
	CycleEdges []EdgeInfo
}

// EdgeInfo is a simplified edge for output.
type EdgeInfo struct {
	FromName string
	ToName   string
	Relation Relation
}

// BFS performs breadth-first traversal following edges of the given
// relation from startNodeID. direction "outbound" follows from->to
// (call-stack "down"); "inbound" follows to->from ("up"). maxDepth caps
// the BFS depth (spec bounds this to [1,10]).
func (s *Store) BFS(startNodeID string, direction string, relation Relation, maxDepth int) (*TraverseResult, error) {
	if maxDepth <= 0 {
		maxDepth = 1
	}

	result := &TraverseResult{}
	visited := map[string]bool{startNodeID: true}

	type queueItem struct {
		nodeID     string
		hop        int
		breadcrumb []string
	}
	start, err := s.FindNodeByID(startNodeID)
	if err != nil {
		return nil, err
	}
	if start == nil {
		return result, nil
	}
	queue := []queueItem{{startNodeID, 0, []string{start.Name}}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if item.hop >= maxDepth {
			continue
		}

		var edges []*Edge
		var err error
		if direction == "outbound" {
			edges, err = s.EdgesFrom(item.nodeID, relation)
		} else {
			edges, err = s.EdgesTo(item.nodeID, relation)
		}
		if err != nil {
			return nil, err
		}

		for _, e := range edges {
			nextID := e.ToID
			if direction != "outbound" {
				nextID = e.FromID
			}

			nextNode, err := s.FindNodeByID(nextID)
			if err != nil || nextNode == nil {
				continue
			}

			if visited[nextID] {
				fromName := ""
				if len(item.breadcrumb) > 0 {
					fromName = item.breadcrumb[len(item.breadcrumb)-1]
				}
				info := EdgeInfo{FromName: fromName, ToName: nextNode.Name, Relation: relation}
				if direction != "outbound" {
					info.FromName, info.ToName = info.ToName, info.FromName
				}
				result.CycleEdges = append(result.CycleEdges, info)
				continue
			}
			visited[nextID] = true

			crumb := append(append([]string{}, item.breadcrumb...), nextNode.Name)
			result.Visited = append(result.Visited, &NodeHop{Node: nextNode, Hop: item.hop + 1, Breadcrumb: crumb})
			queue = append(queue, queueItem{nextID, item.hop + 1, crumb})
		}
	}

	return result, nil
}
