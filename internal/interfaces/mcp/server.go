// Package mcp exposes the invoice tool catalog over the Model Context
// Protocol so desktop assistants can query invoices directly.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/application/port"
	"github.com/garyjia/invoice-assistant/internal/tools"
)

const (
	serverName    = "invoice-assistant"
	serverVersion = "1.0.0"
)

// NewServer creates an MCP server with every registry tool and the
// invoice list resource registered.
func NewServer(registry *tools.Registry, invoices port.InvoiceReader, logger *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, registry, logger)
	registerResources(s, invoices)

	return s
}
