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

func (s *Server) registerStructuralSummary() {
	s.addTool(&mcp.Tool{
		Name:        "vibegraph_get_structural_summary",
		Description: "List the top-level and nested definitions found in one file: functions, classes, methods and their signatures, ordered by source position. Paginate with limit/offset for large files.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file_path": {
					"type": "string",
					"description": "Project-relative path of the file to summarize (e.g. 'src/util.py')"
				},
				"limit": {
					"type": "integer",
					"description": "Maximum number of definitions to return (default 100)"
				},
				"offset": {
					"type": "integer",
					"description": "Number of definitions to skip before the page starts (default 0)"
				},
				"response_format": {
					"type": "string",
					"description": "'markdown' (default) or 'json'",
					"enum": ["markdown", "json"]
				}
			},
			"required": ["file_path"]
		}`),
	}, s.handleGetStructuralSummary)
}

func (s *Server) handleGetStructuralSummary(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errorResult(err), nil
	}

	filePath := getStringArg(args, "file_path", "")
	if filePath == "" {
		return errorResult(vgerr.InvalidInputf("file_path is required")), nil
	}
	limit := getIntArg(args, "limit", 100)
	offset := getIntArg(args, "offset", 0)

	summary, err := s.engine.GetStructuralSummary(filePath, offset, limit)
	if err != nil {
		return errorResult(err), nil
	}

	return toolResult(responseFormat(args), summary, func() string { return renderStructuralSummary(summary) }), nil
}

func renderStructuralSummary(summary *query.StructuralSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", summary.FilePath)
	fmt.Fprintf(&sb, "%d definition(s), showing %d-%d of %d", len(summary.Nodes), summary.Offset+1, summary.Offset+len(summary.Nodes), summary.TotalCount)
	if summary.HasMore {
		sb.WriteString(" (more available)")
	}
	sb.WriteString("\n\n")
	for _, n := range summary.Nodes {
		label := n.Name
		if parent := query.ParentChain(n); parent != "" {
			label = parent + " > " + n.Name
		}
		fmt.Fprintf(&sb, "- `%s` **%s** (%s) — line %d-%d\n", n.Kind, label, n.Visibility, n.StartLine, n.EndLine)
		if len(n.Decorators) > 0 {
			fmt.Fprintf(&sb, "  %s\n", strings.Join(n.Decorators, " "))
		}
		if n.Signature != "" {
			fmt.Fprintf(&sb, "  `%s`\n", n.Signature)
		}
		if n.Docstring != "" {
			fmt.Fprintf(&sb, "  %s\n", firstLine(n.Docstring))
		}
	}
	return sb.String()
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
