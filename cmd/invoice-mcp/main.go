package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/garyjia/invoice-assistant/internal/config"
	"github.com/garyjia/invoice-assistant/internal/container"
	mcpadapter "github.com/garyjia/invoice-assistant/internal/interfaces/mcp"
	"github.com/garyjia/invoice-assistant/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "invoice-mcp",
		Short: "Serve the invoice tools over MCP (stdio)",
		Long:  "Start an MCP server on stdio exposing getInvoice, listInvoices, summarizeInvoice and analyzeInvoices over the configured invoice data.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&configPath, "config", "configs/config.yaml", "Path to the YAML config file")

	return cmd
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// stdout carries the protocol, so logs go to stderr
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: "stderr",
		Format:     "json",
		Service:    "invoice-mcp",
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		return fmt.Errorf("create container: %w", err)
	}
	if err := c.Start(ctx); err != nil {
		return fmt.Errorf("start container: %w", err)
	}
	defer c.Close()

	s := mcpadapter.NewServer(c.Registry(), c.Repository(), logger)
	return server.ServeStdio(s)
}
