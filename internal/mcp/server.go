package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mealforge/recipesearch/internal/embedder"
	"github.com/mealforge/recipesearch/internal/searcher"
	"github.com/mealforge/recipesearch/internal/storage"
	"github.com/mealforge/recipesearch/internal/vectorizer"
)

const (
	// ServerName is the MCP server name
	ServerName = "recipesearch"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the catalog database
	DefaultDBPath = "~/.recipesearch"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp        *server.MCPServer
	storage    storage.Storage
	embedder   embedder.Embedder
	vectorizer *vectorizer.Vectorizer
	searcher   *searcher.Searcher
}

// NewServer creates a new MCP server instance backed by the catalog at
// dbPath
func NewServer(dbPath string) (*Server, error) {
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".recipesearch")
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbFile := filepath.Join(dbPath, "recipesearch.db")

	store, err := storage.NewSQLiteStorage(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:        mcpServer,
		storage:    store,
		embedder:   emb,
		vectorizer: vectorizer.New(store, emb),
		searcher:   searcher.New(store, emb),
	}

	if err := s.registerTools(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	defer func() { _ = s.embedder.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(searchByIngredientsTool(), s.handleSearchByIngredients)
	s.mcp.AddTool(semanticSearchTool(), s.handleSemanticSearch)
	s.mcp.AddTool(hybridSearchTool(), s.handleHybridSearch)
	s.mcp.AddTool(suggestIngredientsTool(), s.handleSuggestIngredients)
	s.mcp.AddTool(reindexEmbeddingsTool(), s.handleReindexEmbeddings)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}
