package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vibegraph/vibegraph/internal/store"
	"github.com/vibegraph/vibegraph/internal/vgerr"
)

func (s *Server) registerSearchBySignature() {
	s.addTool(&mcp.Tool{
		Name:        "vibegraph_search_by_signature",
		Description: "Search definitions by signature text using SQL '%' wildcards. An exact-match pattern ranks first, then prefix matches, then substring matches.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"pattern": {
					"type": "string",
					"description": "Signature pattern to match, e.g. '%Node) -> None' or an exact signature string"
				},
				"scope_path": {
					"type": "string",
					"description": "Optional path prefix narrowing the search to files under it"
				},
				"response_format": {
					"type": "string",
					"enum": ["markdown", "json"]
				}
			},
			"required": ["pattern"]
		}`),
	}, s.handleSearchBySignature)
}

func (s *Server) handleSearchBySignature(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errorResult(err), nil
	}

	pattern := getStringArg(args, "pattern", "")
	if pattern == "" {
		return errorResult(vgerr.InvalidInputf("pattern is required")), nil
	}
	scopePath := getStringArg(args, "scope_path", "")

	nodes, err := s.engine.SearchBySignature(pattern, scopePath)
	if err != nil {
		return errorResult(err), nil
	}

	return toolResult(responseFormat(args), nodes, func() string { return renderSignatureResults(pattern, nodes) }), nil
}

func renderSignatureResults(pattern string, nodes []*store.Node) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# signature search: %s\n\n", pattern)
	for _, n := range nodes {
		fmt.Fprintf(&sb, "- %s (%s:%d) `%s`\n", n.QualifiedName, n.FilePath, n.StartLine, n.Signature)
	}
	if len(nodes) == 0 {
		sb.WriteString("no matches\n")
	}
	return sb.String()
}
