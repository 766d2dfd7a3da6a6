package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"appinsights-mcp/internal/constants"
	"appinsights-mcp/internal/models"

	last9mcp "github.com/last9/mcp-go-sdk/mcp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// HTTPServer wraps the MCP server for HTTP transport
type HTTPServer struct {
	server *last9mcp.Last9MCPServer
	config models.Config
	logger *zap.Logger
}

// NewHTTPServer creates a new HTTP-based MCP server
func NewHTTPServer(server *last9mcp.Last9MCPServer, config models.Config, logger *zap.Logger) *HTTPServer {
	return &HTTPServer{
		server: server,
		config: config,
		logger: logger,
	}
}

// Handler serves MCP on / and /mcp plus a /health probe.
func (h *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// Stateless handler: every request is served by the same MCP server
	httpHandler := mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return h.server.Server
	}, nil)

	mux.Handle("/", httpHandler)
	mux.Handle("/mcp", httpHandler)
	mux.HandleFunc("/health", h.handleHealth)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (h *HTTPServer) Start(ctx context.Context) error {
	addr := net.JoinHostPort(h.config.Host, h.config.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      h.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	h.logger.Info("🚀 MCP server listening", zap.String("addr", addr), zap.String("environment", string(h.config.Environment)))

	serverErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		h.logger.Info("🛑 Shutdown requested, initiating graceful shutdown")
	case err := <-serverErr:
		h.logger.Error("❌ Server error", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		h.logger.Error("❌ Graceful shutdown failed", zap.Error(err))
		return err
	}
	h.logger.Info("✅ HTTP server shutdown complete")

	if err := h.server.Shutdown(shutdownCtx); err != nil {
		h.logger.Error("❌ MCP server shutdown error", zap.Error(err))
		return err
	}

	h.logger.Info("✅ MCP server shutdown complete")
	return nil
}

func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", constants.HeaderContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":      "healthy",
		"server":      constants.ServerName,
		"version":     Version,
		"environment": string(h.config.Environment),
	})
}
