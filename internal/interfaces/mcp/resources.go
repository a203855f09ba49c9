package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/garyjia/invoice-assistant/internal/application/port"
)

// InvoicesURI is the resource holding the current invoice list
const InvoicesURI = "invoices://all"

func registerResources(s *server.MCPServer, invoices port.InvoiceReader) {
	s.AddResource(
		mcplib.NewResource(
			InvoicesURI,
			"Invoices",
			mcplib.WithResourceDescription("All invoices from the active data source"),
			mcplib.WithMIMEType("application/json"),
		),
		handleInvoicesResource(invoices),
	)
}

func handleInvoicesResource(invoices port.InvoiceReader) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(invoices.ListInvoices(ctx), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling invoices: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      InvoicesURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
