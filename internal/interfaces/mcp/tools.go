package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/tools"
)

// registerTools mirrors the registry catalog one-to-one
func registerTools(s *server.MCPServer, registry *tools.Registry, logger *zap.Logger) {
	for _, tool := range registry.Tools() {
		s.AddTool(toMCPTool(tool), handleTool(registry, tool.Name, logger))
	}
}

func toMCPTool(tool *tools.Tool) mcplib.Tool {
	opts := []mcplib.ToolOption{mcplib.WithDescription(tool.Description)}

	for _, p := range tool.Parameters {
		props := []mcplib.PropertyOption{mcplib.Description(p.Description)}
		if p.Required {
			props = append(props, mcplib.Required())
		}
		if len(p.Enum) > 0 {
			props = append(props, mcplib.Enum(p.Enum...))
		}
		opts = append(opts, mcplib.WithString(p.Name, props...))
	}

	return mcplib.NewTool(tool.Name, opts...)
}

func handleTool(registry *tools.Registry, name string, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		result, err := registry.Execute(ctx, name, request.GetArguments())
		if err != nil {
			logger.Debug("MCP tool call failed", zap.String("tool", name), zap.Error(err))
			return errorResult(err.Error()), nil
		}
		return jsonResult(result)
	}
}

// jsonResult returns an indented JSON text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
