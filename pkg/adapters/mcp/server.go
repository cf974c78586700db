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

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/plenum"
	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/ports"
)

const protocolsURI = "plenum://protocols"

// ParseResponse is the structured result of parse_protocol.
type ParseResponse struct {
	ID       string         `json:"id" jsonschema_description:"Document id derived from the protocol number"`
	Stored   bool           `json:"stored" jsonschema_description:"Whether the document was written to the store"`
	Degraded []string       `json:"degraded,omitempty" jsonschema_description:"Sections that could not be parsed"`
	Protocol map[string]any `json:"protocol" jsonschema_description:"The segmented protocol"`
}

// Server exposes a ProtocolParser and a ProtocolStore as MCP tools.
type Server struct {
	parser    ports.ProtocolParser
	store     ports.ProtocolStore
	logger    *slog.Logger
	mcpServer *server.MCPServer
	now       func() time.Time
}

// NewServer creates a new MCP Server instance. store may be nil, in which
// case parsed protocols are returned but never stored.
func NewServer(parser ports.ProtocolParser, store ports.ProtocolStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		parser:    parser,
		store:     store,
		logger:    logger,
		mcpServer: server.NewMCPServer("plenum-mcp", strings.TrimSpace(plenum.Version)),
		now:       time.Now,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	parseTool := mcp.NewTool("parse_protocol",
		mcp.WithDescription("Segment the raw text of a Bundestag plenary protocol into header, agenda, session header, speeches and attachments."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Full protocol text, CRLF line endings preserved")),
		mcp.WithString("id", mcp.Description("Fallback document id if the header carries no number")),
		mcp.WithString("source", mcp.Description("Where the text came from, e.g. a file name")),
		mcp.WithBoolean("store", mcp.Description("Write the result to the configured store")),
		mcp.WithOutputSchema[ParseResponse](),
	)
	s.mcpServer.AddTool(parseTool, mcp.NewStructuredToolHandler(s.handleParse))

	getTool := mcp.NewTool("get_protocol",
		mcp.WithDescription("Load a stored protocol by document id, e.g. 18-230."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document id")),
		mcp.WithOutputSchema[domain.Document](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGet))

	s.mcpServer.AddTool(mcp.NewTool("list_protocols",
		mcp.WithDescription("List the ids of all stored protocols."),
	), s.handleList)
}

func (s *Server) handleParse(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ParseResponse, error) {
	text, _ := args["text"].(string)
	if strings.TrimSpace(text) == "" {
		return ParseResponse{}, fmt.Errorf("text must not be empty")
	}
	fallback, _ := args["id"].(string)
	if fallback == "" {
		fallback = fmt.Sprintf("upload-%d", s.now().UnixNano())
	}
	source, _ := args["source"].(string)
	store, _ := args["store"].(bool)

	record, err := s.parser.Parse(ctx, strings.NewReader(text))
	if err != nil {
		s.logger.Warn("MCP parse_protocol: parse failed", "error", err)
		return ParseResponse{}, fmt.Errorf("parse failed: %w", err)
	}

	doc, err := domain.NewDocument(domain.DocumentID(record, fallback), source, record, s.now())
	if err != nil {
		return ParseResponse{}, fmt.Errorf("snapshot failed: %w", err)
	}

	resp := ParseResponse{ID: doc.ID, Degraded: record.Degraded(), Protocol: doc.Protocol}
	if store {
		if s.store == nil {
			return ParseResponse{}, fmt.Errorf("no store configured")
		}
		if err := s.store.Save(ctx, doc); err != nil {
			return ParseResponse{}, fmt.Errorf("save failed: %w", err)
		}
		resp.Stored = true
	}
	return resp, nil
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Document, error) {
	if s.store == nil {
		return domain.Document{}, fmt.Errorf("no store configured")
	}
	id, _ := args["id"].(string)
	doc, err := s.store.Load(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("load failed: %w", err)
	}
	return doc, nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.listIDs(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(ids)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) listIDs(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return []string{}, nil
	}
	ids, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(protocolsURI, "Stored protocol ids",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.listIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list protocols: %w", err)
		}
		jsonBytes, _ := json.Marshal(ids)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      protocolsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
