package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/application/port"
	"github.com/garyjia/invoice-assistant/internal/auth"
	"github.com/garyjia/invoice-assistant/internal/chat"
	"github.com/garyjia/invoice-assistant/internal/export"
	"github.com/garyjia/invoice-assistant/internal/repository"
	"github.com/garyjia/invoice-assistant/internal/tools"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order.
type Container struct {
	config *Config
	logger *zap.Logger

	// Data
	repository *repository.InvoiceRepository

	// External
	factory     port.ProviderFactory
	oauthClient port.OAuthClient

	// Application
	registry  *tools.Registry
	responder chat.Responder
	sessions  *auth.SessionManager
	exporter  *export.Writer

	// Lifecycle
	mu     sync.RWMutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. External clients (QuickBooks API factory, OAuth)
// 2. Mock dataset and invoice repository
// 3. Tool registry, chat responder, session manager and exporter
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}

	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	c.initExternalClients()
	c.logger.Info("External clients initialized")

	c.initRepository(ctx)
	c.logger.Info("Invoice repository initialized",
		zap.String("mode", string(c.repository.Mode())))

	c.initServices()
	c.logger.Info("Application services initialized",
		zap.String("chat_mode", c.config.Chat.Mode))

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close marks the container closed.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.closed.Store(true)
	c.ready.Store(false)

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	if c.repository != nil {
		status.Components["repository"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("mode: %s", c.repository.Mode()),
		}
	} else {
		status.Components["repository"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	// Missing credentials only disable the connect flow
	if c.config.QuickBooks.ClientID == "" {
		status.Components["quickbooks_oauth"] = ComponentHealth{
			Healthy: false,
			Message: "client id not configured",
		}
	} else {
		status.Components["quickbooks_oauth"] = ComponentHealth{Healthy: true}
	}

	if c.responder != nil {
		status.Components["chat"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("mode: %s", c.config.Chat.Mode),
		}
	} else {
		status.Components["chat"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	return status
}

func (c *Container) initExternalClients() {
	c.factory = ProvideProviderFactory(&c.config.QuickBooks, c.logger)
	c.oauthClient = ProvideOAuthClient(&c.config.QuickBooks, c.logger)
}

func (c *Container) initRepository(ctx context.Context) {
	invoices := ProvideMockInvoices(ctx, &c.config.Mock, c.logger)
	c.repository = ProvideRepository(invoices, c.factory, c.logger)
}

func (c *Container) initServices() {
	c.registry = tools.NewInvoiceRegistry(c.repository, c.logger)
	c.responder = ProvideResponder(c.config, c.repository, c.registry, c.logger)
	c.sessions = auth.NewSessionManager(c.oauthClient, c.repository, c.config.Session.State, c.logger)
	c.exporter = export.NewWriter(c.logger)
}

// Repository returns the invoice repository
func (c *Container) Repository() *repository.InvoiceRepository {
	return c.repository
}

// Registry returns the tool registry
func (c *Container) Registry() *tools.Registry {
	return c.registry
}

// Responder returns the chat responder
func (c *Container) Responder() chat.Responder {
	return c.responder
}

// Sessions returns the OAuth session manager
func (c *Container) Sessions() *auth.SessionManager {
	return c.sessions
}

// Exporter returns the workbook writer
func (c *Container) Exporter() *export.Writer {
	return c.exporter
}

// Logger returns the logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container config
func (c *Container) Config() *Config {
	return c.config
}
