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

func (s *Server) registerFindReferences() {
	s.addTool(&mcp.Tool{
		Name:        "vibegraph_find_references",
		Description: "Find every edge of any relation (calls, imports, inherits, implements, references) pointing at a definition, grouped by the referencing file. A symbol name matching multiple definitions reports sites against every match.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"symbol_name": {
					"type": "string",
					"description": "Simple or fully-qualified name of the symbol to find references to"
				},
				"scope_path": {
					"type": "string",
					"description": "Optional path prefix narrowing which definitions count as matches"
				},
				"response_format": {
					"type": "string",
					"enum": ["markdown", "json"]
				}
			},
			"required": ["symbol_name"]
		}`),
	}, s.handleFindReferences)
}

func (s *Server) handleFindReferences(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errorResult(err), nil
	}

	symbolName := getStringArg(args, "symbol_name", "")
	if symbolName == "" {
		return errorResult(vgerr.InvalidInputf("symbol_name is required")), nil
	}
	scopePath := getStringArg(args, "scope_path", "")

	refs, err := s.engine.FindReferences(symbolName, scopePath)
	if err != nil {
		return errorResult(err), nil
	}

	return toolResult(responseFormat(args), refs, func() string { return renderReferences(refs) }), nil
}

func renderReferences(refs *query.References) string {
	var sb strings.Builder
	sb.WriteString("# references\n\n")
	sb.WriteString("matched definitions:\n")
	for _, t := range refs.Targets {
		fmt.Fprintf(&sb, "- %s (%s:%d)\n", t.QualifiedName, t.FilePath, t.StartLine)
	}
	sb.WriteString("\n")
	for _, fr := range refs.Files {
		fmt.Fprintf(&sb, "## %s\n\n", fr.FilePath)
		for _, site := range fr.Sites {
			fmt.Fprintf(&sb, "- %s (line %d, %s) -> %s\n",
				site.Caller.QualifiedName, site.SiteLine, site.Relation, site.Target.QualifiedName)
		}
		sb.WriteString("\n")
	}
	if len(refs.Files) == 0 {
		sb.WriteString("no references found\n")
	}
	return sb.String()
}
