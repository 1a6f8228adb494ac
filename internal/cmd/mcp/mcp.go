// Package mcp parses MCP command flags and runs the stdio tool server.
package mcp

import (
	"context"
	"flag"

	platformcmd "github.com/cosmichub/cosmichub/internal/platform/cmd"
	"github.com/cosmichub/cosmichub/internal/services/mcp/service"
)

// Config holds MCP command configuration. The tool server is self-contained;
// calculations run in-process, so only telemetry knobs remain.
type Config struct{}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP tool server on stdio.
func Run(ctx context.Context, _ Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceMCP, func(ctx context.Context) error {
		return service.New().Serve(ctx)
	})
}
