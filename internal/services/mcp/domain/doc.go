// Package domain defines the MCP tool schemas and handlers for the
// astrology calculation surface.
package domain
