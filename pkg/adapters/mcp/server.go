// Package mcp exposes the coordinate store and the stroke stitcher as MCP tools.
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

	"github.com/aretw0/inkmap"
	"github.com/aretw0/inkmap/internal/logging"
	"github.com/aretw0/inkmap/internal/runtime"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CoordinatesResponse is the structured result of the coordinate tools.
type CoordinatesResponse struct {
	WordID      domain.WordID      `json:"word_id,omitempty" jsonschema_description:"The word the coordinates belong to"`
	Coordinates domain.Coordinates `json:"coordinates" jsonschema_description:"Ordered [x, y] pairs, null when nothing is stored"`
}

// WordsResponse lists the words that have coordinates.
type WordsResponse struct {
	Words []domain.WordID `json:"words" jsonschema_description:"Word ids with persisted coordinates"`
}

// Server wraps a CoordinateStore and exposes it as an MCP Server.
type Server struct {
	store     ports.CoordinateStore
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(store ports.CoordinateStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		store:     store,
		logger:    logger,
		mcpServer: server.NewMCPServer("inkmap-mcp", strings.TrimSpace(inkmap.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
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

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_coordinates",
		mcp.WithDescription("Get the persisted region path of a word."),
		mcp.WithString("word_id", mcp.Required(), mcp.Description("Word ID")),
		mcp.WithOutputSchema[CoordinatesResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetCoordinates))

	s.mcpServer.AddTool(mcp.NewTool("save_coordinates",
		mcp.WithDescription("Persist a region path for a word, replacing any previous one."),
		mcp.WithString("word_id", mcp.Required(), mcp.Description("Word ID")),
		mcp.WithString("coordinates", mcp.Required(), mcp.Description("JSON array of [x, y] pairs")),
		mcp.WithOutputSchema[CoordinatesResponse](),
	), mcp.NewStructuredToolHandler(s.handleSaveCoordinates))

	s.mcpServer.AddTool(mcp.NewTool("delete_coordinates",
		mcp.WithDescription("Remove the persisted region path of a word."),
		mcp.WithString("word_id", mcp.Required(), mcp.Description("Word ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		wordID := domain.WordID(request.GetString("word_id", ""))
		if err := wordID.Validate(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.store.Delete(ctx, wordID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
		}
		return mcp.NewToolResultText("deleted " + string(wordID)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("list_words",
		mcp.WithDescription("List the words that have a persisted region path."),
		mcp.WithOutputSchema[WordsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListWords))

	s.mcpServer.AddTool(mcp.NewTool("stitch_strokes",
		mcp.WithDescription("Order freehand strokes into one continuous path by nearest endpoint."),
		mcp.WithString("strokes", mcp.Required(), mcp.Description(`JSON array of strokes: [{"path": [{"x": 0, "y": 0}, ...]}, ...]`)),
		mcp.WithOutputSchema[CoordinatesResponse](),
	), mcp.NewStructuredToolHandler(s.handleStitch))
}

func (s *Server) handleGetCoordinates(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CoordinatesResponse, error) {
	wordID, err := wordArg(args)
	if err != nil {
		return CoordinatesResponse{}, err
	}
	coords, err := s.store.Load(ctx, wordID)
	if err != nil && !errors.Is(err, domain.ErrWordNotFound) {
		return CoordinatesResponse{}, fmt.Errorf("load failed: %w", err)
	}
	return CoordinatesResponse{WordID: wordID, Coordinates: coords}, nil
}

func (s *Server) handleSaveCoordinates(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CoordinatesResponse, error) {
	wordID, err := wordArg(args)
	if err != nil {
		return CoordinatesResponse{}, err
	}
	raw, _ := args["coordinates"].(string)
	var coords domain.Coordinates
	if err := json.Unmarshal([]byte(raw), &coords); err != nil {
		return CoordinatesResponse{}, fmt.Errorf("invalid coordinates: %w", err)
	}
	if len(coords) == 0 {
		return CoordinatesResponse{}, &domain.EmptyAnnotationError{WordID: wordID, Mode: domain.ModeLasso}
	}
	if err := s.store.Save(ctx, wordID, coords); err != nil {
		s.logger.Error("MCP save failed", "word_id", string(wordID), "error", err)
		return CoordinatesResponse{}, fmt.Errorf("save failed: %w", err)
	}
	return CoordinatesResponse{WordID: wordID, Coordinates: coords}, nil
}

func (s *Server) handleListWords(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WordsResponse, error) {
	words, err := s.store.List(ctx)
	if err != nil {
		return WordsResponse{}, fmt.Errorf("list failed: %w", err)
	}
	if words == nil {
		words = []domain.WordID{}
	}
	return WordsResponse{Words: words}, nil
}

func (s *Server) handleStitch(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CoordinatesResponse, error) {
	raw, _ := args["strokes"].(string)
	var strokes []domain.Stroke
	if err := json.Unmarshal([]byte(raw), &strokes); err != nil {
		return CoordinatesResponse{}, fmt.Errorf("invalid strokes: %w", err)
	}
	for i, st := range strokes {
		if len(st.Path) == 0 {
			return CoordinatesResponse{}, fmt.Errorf("stroke %d has an empty path", i)
		}
	}
	return CoordinatesResponse{Coordinates: domain.FromPoints(runtime.Order(strokes))}, nil
}

func wordArg(args map[string]interface{}) (domain.WordID, error) {
	var wordID domain.WordID
	switch v := args["word_id"].(type) {
	case string:
		wordID = domain.WordID(v)
	case float64:
		wordID = domain.WordID(fmt.Sprint(v))
	}
	if err := wordID.Validate(); err != nil {
		return "", err
	}
	return wordID, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("inkmap://words", "Annotated Words",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		words, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list words: %w", err)
		}
		jsonBytes, _ := json.Marshal(words)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "inkmap://words",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
