// Package service wires the astrology calculation tools into an MCP server.
package service
