package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/policytree"
	"github.com/aretw0/policytree/pkg/domain"
	"github.com/aretw0/policytree/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const treesURI = "policytree://trees"

// ToolResponse is the structured output of the tree tools.
type ToolResponse struct {
	Table  domain.Table            `json:"table" jsonschema_description:"Breadth-first flattened table, 1-indexed"`
	Report *policytree.PruneReport `json:"report,omitempty" jsonschema_description:"Effect of the simplification pass"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	Prune(ctx context.Context, root domain.Node) (domain.Node, policytree.PruneReport)
	Flatten(ctx context.Context, root domain.Node) domain.Table
	List(ctx context.Context) ([]string, error)
}

// Server wraps the policytree Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("policytree-mcp", strings.TrimSpace(policytree.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	pruneTool := mcp.NewTool("prune_tree",
		mcp.WithDescription("Simplify a policy tree once and return its flattened table."),
		mcp.WithString("tree", mcp.Required(), mcp.Description("JSON tree document (leaf: action, reward; branch: axis, cut_point, left, right)")),
		mcp.WithOutputSchema[ToolResponse](),
	)
	s.mcpServer.AddTool(pruneTool, mcp.NewStructuredToolHandler(s.handlePrune))

	flattenTool := mcp.NewTool("flatten_tree",
		mcp.WithDescription("Flatten a policy tree into its breadth-first table without simplifying it."),
		mcp.WithString("tree", mcp.Required(), mcp.Description("JSON tree document")),
		mcp.WithOutputSchema[ToolResponse](),
	)
	s.mcpServer.AddTool(flattenTool, mcp.NewStructuredToolHandler(s.handleFlatten))
}

func (s *Server) handlePrune(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ToolResponse, error) {
	root, err := treeArg(args)
	if err != nil {
		return ToolResponse{}, err
	}

	pruned, report := s.engine.Prune(ctx, root)
	return ToolResponse{
		Table:  s.engine.Flatten(ctx, pruned),
		Report: &report,
	}, nil
}

func (s *Server) handleFlatten(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ToolResponse, error) {
	root, err := treeArg(args)
	if err != nil {
		return ToolResponse{}, err
	}
	return ToolResponse{Table: s.engine.Flatten(ctx, root)}, nil
}

func treeArg(args map[string]interface{}) (domain.Node, error) {
	raw, ok := args["tree"].(string)
	if !ok || raw == "" {
		return nil, errors.New("argument 'tree' is required")
	}
	root, err := schema.Parse([]byte(raw), schema.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}
	return root, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(treesURI, "Stored Policy Trees",
		mcp.WithMIMEType("application/json"),
	), s.handleListTrees)
}

func (s *Server) handleListTrees(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ids, err := s.engine.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trees: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	jsonBytes, _ := json.Marshal(ids)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      treesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
