package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/config"
	"github.com/garyjia/invoice-assistant/internal/container"
	httpapi "github.com/garyjia/invoice-assistant/internal/interfaces/http"
	"github.com/garyjia/invoice-assistant/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
		Service:    "invoice-assistant",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting invoice assistant",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port))

	if cfg.Logger.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cc := cfg.ToContainerConfig()
	c, err := container.NewContainer(cc, logger)
	if err != nil {
		logger.Fatal("Failed to create container", zap.Error(err))
	}
	if err := c.Start(ctx); err != nil {
		logger.Fatal("Failed to start container", zap.Error(err))
	}
	defer c.Close()

	if cc.QuickBooks.ClientID == "" {
		logger.Warn("QuickBooks client id not configured; serving mock invoices only")
	}

	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:         cc.Server.Host,
		Port:         cc.Server.Port,
		ReadTimeout:  cc.Server.ReadTimeout,
		WriteTimeout: cc.Server.WriteTimeout,
	}, httpapi.Dependencies{
		Invoices: c.Repository(),
		Tools:    c.Registry(),
		Chat:     c.Responder(),
		Sessions: c.Sessions(),
		Exporter: c.Exporter(),
		Cookie: httpapi.CookieConfig{
			Name:   cc.Session.CookieName,
			MaxAge: cc.Session.MaxAge,
			Secure: cc.Production,
		},
	}, logger)

	if err := server.Start(ctx); err != nil {
		logger.Error("HTTP server exited with error", zap.Error(err))
		return
	}

	logger.Info("Invoice assistant stopped")
}
