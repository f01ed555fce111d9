package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vibegraph/vibegraph/internal/query"
	"github.com/vibegraph/vibegraph/internal/vgerr"
)

func (s *Server) registerCallStack() {
	s.addTool(&mcp.Tool{
		Name:        "vibegraph_get_call_stack",
		Description: "Traverse the call graph from a function or method, either upward (who calls it), downward (what it calls), or both. A name matching more than one definition is traversed once per match unless file_path narrows it to one.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"node_name": {
					"type": "string",
					"description": "Simple or fully-qualified name of the function/method to trace"
				},
				"file_path": {
					"type": "string",
					"description": "Optional file path narrowing node_name to one definition"
				},
				"direction": {
					"type": "string",
					"description": "'up' (callers), 'down' (callees), or 'both' (default 'down')",
					"enum": ["up", "down", "both"]
				},
				"depth": {
					"type": "integer",
					"description": "Maximum traversal depth, 1-10 (default 1)"
				},
				"response_format": {
					"type": "string",
					"enum": ["markdown", "json"]
				}
			},
			"required": ["node_name"]
		}`),
	}, s.handleGetCallStack)
}

func (s *Server) handleGetCallStack(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errorResult(err), nil
	}

	nodeName := getStringArg(args, "node_name", "")
	if nodeName == "" {
		return errorResult(vgerr.InvalidInputf("node_name is required")), nil
	}
	filePath := getStringArg(args, "file_path", "")
	direction := getStringArg(args, "direction", "down")
	depth := getIntArg(args, "depth", 1)

	cs, err := s.engine.GetCallStack(nodeName, filePath, direction, depth)
	if err != nil {
		return errorResult(err), nil
	}

	return toolResult(responseFormat(args), cs, func() string { return renderCallStack(cs) }), nil
}

func renderCallStack(cs *query.CallStack) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# call stack (%s)\n\n", cs.Direction)
	for _, origin := range cs.Origins {
		fmt.Fprintf(&sb, "## %s (%s)\n\n", origin.Origin.QualifiedName, origin.Origin.FilePath)
		if len(origin.Hops) == 0 {
			sb.WriteString("no hops found\n\n")
		}
		for _, hop := range origin.Hops {
			fmt.Fprintf(&sb, "- %s (%s:%d)\n", strings.Join(hop.Breadcrumb, " > "), hop.Node.FilePath, hop.Node.StartLine)
		}
		for _, c := range origin.CycleEdges {
			fmt.Fprintf(&sb, "- cycle: %s -> %s (%s)\n", c.FromName, c.ToName, c.Relation)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
