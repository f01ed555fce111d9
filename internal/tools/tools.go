// Package tools exposes the graph via the MCP tool surface: six
// read-only query operations plus the one mutating reindex operation, each
// prefixed "vibegraph_" and selectable between a markdown or a structured
// JSON response via response_format.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vibegraph/vibegraph/internal/driver"
	"github.com/vibegraph/vibegraph/internal/query"
	"github.com/vibegraph/vibegraph/internal/store"
	"github.com/vibegraph/vibegraph/internal/vgerr"
	"github.com/vibegraph/vibegraph/internal/watch"
)

// Version is the MCP handshake version reported to clients.
const Version = "0.1.0"

// Server wraps the MCP server with the seven vibegraph_ tool handlers,
// backed by one project's store, query engine and indexing driver.
type Server struct {
	mcp    *mcp.Server
	store  *store.Store
	engine *query.Engine
	driver *driver.Driver

	reindexMu sync.Mutex
	handlers  map[string]mcp.ToolHandler

	subMu       sync.Mutex
	subscribers []chan string
}

// NewServer creates an MCP server wired to the project rooted at root,
// persisting its graph in s.
func NewServer(s *store.Store, root string) *Server {
	srv := &Server{
		store:    s,
		engine:   query.New(s),
		handlers: make(map[string]mcp.ToolHandler),
	}
	srv.driver = driver.New(s, root)
	srv.driver.Notifier = srv

	srv.mcp = mcp.NewServer(
		&mcp.Implementation{Name: "vibegraph", Version: Version},
		nil,
	)
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server, for transport binding.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Driver returns the indexing driver, for the change watcher and CLI.
func (s *Server) Driver() *driver.Driver {
	return s.driver
}

// NotifyChanged implements driver.Notifier: a committed re-index broadcasts
// one "refresh" event per the graph data surface's streaming channel
// contract, to every active subscriber. Non-blocking: a subscriber
// that isn't receiving is skipped rather than stalling the driver.
func (s *Server) NotifyChanged(paths []string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- "refresh":
		default:
		}
	}
}

// GraphData is the bulk read a visualiser consumes: every node followed by
// every edge.
type GraphData struct {
	Nodes []*store.Node `json:"nodes"`
	Edges []*store.Edge `json:"edges"`
}

// GraphData returns the whole graph, nodes first. Pairs with Subscribe,
// whose "refresh" events signal when a re-index has made a previously read
// snapshot stale.
func (s *Server) GraphData() (*GraphData, error) {
	nodes, err := s.store.AllNodes()
	if err != nil {
		return nil, vgerr.Wrap(vgerr.IOError, "read nodes", err)
	}
	edges, err := s.store.AllEdges()
	if err != nil {
		return nil, vgerr.Wrap(vgerr.IOError, "read edges", err)
	}
	return &GraphData{Nodes: nodes, Edges: edges}, nil
}

// Subscribe registers a channel that receives a "refresh" event after every
// committed re-index batch. Callers must Unsubscribe when done.
func (s *Server) Subscribe() chan string {
	ch := make(chan string, 1)
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.subMu.Unlock()
	return ch
}

// Unsubscribe removes a channel previously returned by Subscribe.
func (s *Server) Unsubscribe(ch chan string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for i, c := range s.subscribers {
		if c == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// StartWatcher launches the background change watcher, which triggers
// incremental re-indexing through the same Driver. It stops when ctx is
// cancelled.
func (s *Server) StartWatcher(ctx context.Context) {
	w := watch.New(s.driver)
	go func() {
		if err := w.Run(ctx); err != nil {
			slog.Error("watch.stopped", "err", err)
		}
	}()
}

func (s *Server) addTool(tool *mcp.Tool, handler mcp.ToolHandler) {
	s.mcp.AddTool(tool, handler)
	s.handlers[tool.Name] = handler
}

// CallTool invokes a registered tool handler directly by name, bypassing
// MCP transport. Used by tests.
func (s *Server) CallTool(ctx context.Context, name string, argsJSON json.RawMessage) (*mcp.CallToolResult, error) {
	handler, ok := s.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	if len(argsJSON) == 0 {
		argsJSON = json.RawMessage(`{}`)
	}
	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Name: name, Arguments: argsJSON},
	}
	return handler(ctx, req)
}

// ToolNames returns every registered tool name, sorted.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) registerTools() {
	s.registerStructuralSummary()
	s.registerCallStack()
	s.registerImpactAnalysis()
	s.registerDependencies()
	s.registerFindReferences()
	s.registerSearchBySignature()
	s.registerReindexProject()
}

// --- argument + response helpers ---

func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

func getStringArg(args map[string]any, key, defaultVal string) string {
	v, ok := args[key]
	if !ok {
		return defaultVal
	}
	str, ok := v.(string)
	if !ok || str == "" {
		return defaultVal
	}
	return str
}

func getIntArg(args map[string]any, key string, defaultVal int) int {
	v, ok := args[key]
	if !ok {
		return defaultVal
	}
	f, ok := v.(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}

// responseFormat reads the common response_format field, defaulting to markdown.
func responseFormat(args map[string]any) string {
	return getStringArg(args, "response_format", "markdown")
}

// toolResult renders data as markdown (via md) or as indented JSON,
// selected by format.
func toolResult(format string, data any, md func() string) *mcp.CallToolResult {
	if format == "json" {
		return jsonResult(data)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: md()}}}
}

func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errorResult(vgerr.Wrap(vgerr.Internal, "marshal response", err))
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(b)}}}
}

// errorEnvelope is the stable, machine-readable error shape every tool
// reports on failure: a fixed code plus a human-readable message.
type errorEnvelope struct {
	Error struct {
		Code    vgerr.Code `json:"code"`
		Message string     `json:"message"`
	} `json:"error"`
}

// errorResult builds a well-formed error response. Any error not already
// carrying one of the fixed codes is reported as INTERNAL, never as a bare
// panic or an empty success.
func errorResult(err error) *mcp.CallToolResult {
	var env errorEnvelope
	var ve *vgerr.Error
	if errors.As(err, &ve) {
		env.Error.Code = ve.Code
		env.Error.Message = ve.Message
	} else {
		env.Error.Code = vgerr.Internal
		env.Error.Message = err.Error()
	}
	b, _ := json.MarshalIndent(env, "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
		IsError: true,
	}
}
