package container

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/application/port"
	"github.com/garyjia/invoice-assistant/internal/chat"
	"github.com/garyjia/invoice-assistant/internal/domain/entity"
	"github.com/garyjia/invoice-assistant/internal/infrastructure/external/openai"
	"github.com/garyjia/invoice-assistant/internal/infrastructure/external/placeholder"
	"github.com/garyjia/invoice-assistant/internal/infrastructure/external/quickbooks"
	"github.com/garyjia/invoice-assistant/internal/mock"
	"github.com/garyjia/invoice-assistant/internal/repository"
	"github.com/garyjia/invoice-assistant/internal/tools"
)

// ProvideMockInvoices returns the mock dataset. With a feed URL configured
// the feed is loaded once; any feed failure falls back to the compiled-in set.
func ProvideMockInvoices(ctx context.Context, cfg *MockConfig, logger *zap.Logger) []entity.Invoice {
	if cfg.FeedURL == "" {
		return mock.Invoices()
	}

	feed := placeholder.NewFeed(cfg.FeedURL, cfg.FeedTimeout, logger)
	invoices, err := feed.LoadInvoices(ctx, time.Now())
	if err == nil && len(invoices) == 0 {
		err = errors.New("feed returned no posts")
	}
	if err != nil {
		logger.Warn("Demo feed unavailable, using built-in mock invoices",
			zap.String("feed_url", cfg.FeedURL),
			zap.Error(err))
		return mock.Invoices()
	}

	logger.Info("Mock invoices loaded from demo feed", zap.Int("count", len(invoices)))
	return invoices
}

// ProvideProviderFactory creates the QuickBooks client factory.
func ProvideProviderFactory(cfg *QuickBooksConfig, logger *zap.Logger) port.ProviderFactory {
	return quickbooks.NewFactory(quickbooks.Options{
		BaseURL:           cfg.BaseURL,
		MinorVersion:      strconv.Itoa(cfg.MinorVersion),
		Timeout:           cfg.Timeout,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}, logger)
}

// ProvideRepository creates the invoice repository in mock mode.
func ProvideRepository(invoices []entity.Invoice, factory port.ProviderFactory, logger *zap.Logger) *repository.InvoiceRepository {
	return repository.NewInvoiceRepository(invoices, factory, logger)
}

// ProvideOAuthClient creates the Intuit OAuth client.
func ProvideOAuthClient(cfg *QuickBooksConfig, logger *zap.Logger) port.OAuthClient {
	return quickbooks.NewOAuthClient(quickbooks.OAuthConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
	}, logger)
}

// ProvideResponder creates the chat responder selected by cfg.Mode.
func ProvideResponder(cfg *Config, invoices port.InvoiceReader, registry *tools.Registry, logger *zap.Logger) chat.Responder {
	if cfg.Chat.Mode == "openai" {
		logger.Info("Using OpenAI chat responder", zap.String("model", cfg.OpenAI.Model))
		return openai.NewResponder(openai.Config{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			MaxTokens:   cfg.OpenAI.MaxTokens,
		}, registry, logger)
	}

	return chat.NewRuleResponder(invoices, chat.Options{
		ThinkingDelay: cfg.Chat.ThinkingDelay,
		WordDelay:     cfg.Chat.WordDelay,
	}, logger)
}
