// Package mcp provides an MCP (Model Context Protocol) server exposing the
// simulation engine: running experiments, sweeping parameter grids, and
// querying stored results.
package mcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/knowsim/internal/experiment"
	"github.com/nvandessel/knowsim/internal/results"
)

// Server wraps the MCP SDK server around the simulation engine.
type Server struct {
	server *sdk.Server
	store  results.ResultStore
	runner *experiment.Runner
}

// Config holds server configuration.
type Config struct {
	Name       string // Server name (e.g., "knowsim")
	Version    string // Server version
	ResultsDir string // Directory for the SQLite result store
}

// NewServer creates a new MCP server with knowsim tools.
func NewServer(cfg *Config) (*Server, error) {
	store, err := results.NewSQLiteStore(cfg.ResultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create result store: %w", err)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	// MCP uses stdout for the protocol; engine logs would corrupt it.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := &Server{
		server: mcpServer,
		store:  store,
		runner: experiment.NewRunner(store, log, nil),
	}
	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		cancel()
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.store.Close()

	return err
}

// Close closes the server and releases resources.
func (s *Server) Close() error {
	return s.store.Close()
}
