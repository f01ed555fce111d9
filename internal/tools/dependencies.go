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

func (s *Server) registerDependencies() {
	s.addTool(&mcp.Tool{
		Name:        "vibegraph_get_dependencies",
		Description: "List one file's outgoing imports, categorized as Internal (resolved to another project file), StdLib, or ThirdParty.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file_path": {
					"type": "string",
					"description": "Project-relative path of the file whose imports to categorize"
				},
				"response_format": {
					"type": "string",
					"enum": ["markdown", "json"]
				}
			},
			"required": ["file_path"]
		}`),
	}, s.handleGetDependencies)
}

func (s *Server) handleGetDependencies(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errorResult(err), nil
	}

	filePath := getStringArg(args, "file_path", "")
	if filePath == "" {
		return errorResult(vgerr.InvalidInputf("file_path is required")), nil
	}

	deps, err := s.engine.GetDependencies(filePath)
	if err != nil {
		return errorResult(err), nil
	}

	return toolResult(responseFormat(args), deps, func() string { return renderDependencies(deps) }), nil
}

func renderDependencies(deps *query.Dependencies) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# dependencies of %s\n\n", deps.FilePath)
	renderDependencyGroup(&sb, "Internal", deps.Internal)
	renderDependencyGroup(&sb, "StdLib", deps.StdLib)
	renderDependencyGroup(&sb, "ThirdParty", deps.ThirdParty)
	return sb.String()
}

func renderDependencyGroup(sb *strings.Builder, label string, items []string) {
	fmt.Fprintf(sb, "## %s\n\n", label)
	if len(items) == 0 {
		sb.WriteString("(none)\n\n")
		return
	}
	for _, it := range items {
		fmt.Fprintf(sb, "- %s\n", it)
	}
	sb.WriteString("\n")
}
