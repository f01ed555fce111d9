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

func (s *Server) registerImpactAnalysis() {
	s.addTool(&mcp.Tool{
		Name:        "vibegraph_impact_analysis",
		Description: "Find everything that would be affected by changing one file: callers reached transitively over up to 3 hops of the reverse call graph, grouped by file and ranked Level 1 (direct) through Level 3.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file_path": {
					"type": "string",
					"description": "Project-relative path of the file whose change impact to assess"
				},
				"response_format": {
					"type": "string",
					"enum": ["markdown", "json"]
				}
			},
			"required": ["file_path"]
		}`),
	}, s.handleImpactAnalysis)
}

func (s *Server) handleImpactAnalysis(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errorResult(err), nil
	}

	filePath := getStringArg(args, "file_path", "")
	if filePath == "" {
		return errorResult(vgerr.InvalidInputf("file_path is required")), nil
	}

	impact, err := s.engine.GetImpactAnalysis(filePath)
	if err != nil {
		return errorResult(err), nil
	}

	return toolResult(responseFormat(args), impact, func() string { return renderImpactAnalysis(impact) }), nil
}

func renderImpactAnalysis(impact *query.ImpactAnalysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# impact of %s\n\n", impact.FilePath)
	fmt.Fprintf(&sb, "Level 1: %d, Level 2: %d, Level 3: %d, total: %d\n\n",
		impact.Summary.Level1, impact.Summary.Level2, impact.Summary.Level3, impact.Summary.Total)
	for _, fi := range impact.Files {
		fmt.Fprintf(&sb, "## %s — Level %d\n\n", fi.FilePath, fi.Level)
		for _, n := range fi.Nodes {
			fmt.Fprintf(&sb, "- %s (%s:%d)\n", n.QualifiedName, n.FilePath, n.StartLine)
		}
		sb.WriteString("\n")
	}
	if len(impact.Files) == 0 {
		sb.WriteString("no transitive callers found\n")
	}
	return sb.String()
}
