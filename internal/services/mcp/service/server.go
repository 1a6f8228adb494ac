package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cosmichub/cosmichub/internal/platform/branding"
	"github.com/cosmichub/cosmichub/internal/services/mcp/domain"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

// serverName identifies this MCP server to clients.
var serverName = branding.AppName + " MCP"

// Server exposes the calculation tools over an MCP transport.
type Server struct {
	mcpServer *mcp.Server
}

// New creates a configured MCP server with every calculation tool registered.
func New() *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	registerTools(mcpServer)
	return &Server{mcpServer: mcpServer}
}

func registerTools(server *mcp.Server) {
	mcp.AddTool(server, domain.CalculateChartTool(), domain.CalculateChartHandler())
	mcp.AddTool(server, domain.CalculateNumerologyTool(), domain.CalculateNumerologyHandler())
	mcp.AddTool(server, domain.CurrentTransitsTool(), domain.CurrentTransitsHandler())
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.ServeWithTransport(ctx, &mcp.StdioTransport{})
}

// ServeWithTransport starts the MCP server using the provided transport.
func (s *Server) ServeWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
