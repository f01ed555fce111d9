package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vibegraph/vibegraph/internal/vgerr"
)

func (s *Server) registerReindexProject() {
	s.addTool(&mcp.Tool{
		Name:        "vibegraph_reindex_project",
		Description: "Re-index the whole project, or only the file or directory given by path: discover source files, extract definitions and relations, resolve calls and imports, and commit the result. The only mutating tool in this surface.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {
					"type": "string",
					"description": "File or directory to re-index, relative to the project root (default '.' for the whole project)"
				},
				"response_format": {
					"type": "string",
					"enum": ["markdown", "json"]
				}
			}
		}`),
	}, s.handleReindexProject)
}

type reindexResult struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

func (s *Server) handleReindexProject(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errorResult(err), nil
	}
	path := getStringArg(args, "path", ".")

	s.reindexMu.Lock()
	defer s.reindexMu.Unlock()

	if path == "." {
		if err := s.driver.ReindexAll(ctx); err != nil {
			return errorResult(vgerr.Wrap(vgerr.IOError, "reindex project", err)), nil
		}
	} else {
		if err := s.driver.ReindexPath(ctx, filepath.Join(s.driver.Root, path)); err != nil {
			return errorResult(vgerr.Wrap(vgerr.IOError, "reindex "+path, err)), nil
		}
	}

	res := reindexResult{Path: path, Status: "reindexed"}
	return toolResult(responseFormat(args), res, func() string {
		return fmt.Sprintf("# reindex complete\n\npath: %s\nstatus: %s\n", res.Path, res.Status)
	}), nil
}
