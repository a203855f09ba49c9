package config

import (
	"github.com/garyjia/invoice-assistant/internal/container"
	"github.com/garyjia/invoice-assistant/internal/infrastructure/external/quickbooks"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	baseURL := quickbooks.SandboxBaseURL
	if c.QuickBooks.Environment == QuickBooksProduction {
		baseURL = quickbooks.ProductionBaseURL
	}

	return &container.Config{
		Production: c.IsProduction(),
		QuickBooks: container.QuickBooksConfig{
			ClientID:          c.QuickBooks.ClientID,
			ClientSecret:      c.QuickBooks.ClientSecret,
			RedirectURL:       c.QuickBooks.RedirectURL,
			BaseURL:           baseURL,
			MinorVersion:      c.QuickBooks.MinorVersion,
			Timeout:           c.QuickBooks.Timeout,
			RequestsPerMinute: c.QuickBooks.RequestsPerMinute,
		},
		Session: container.SessionConfig{
			CookieName: c.Session.CookieName,
			MaxAge:     c.Session.MaxAge,
			State:      c.Session.State,
		},
		Chat: container.ChatConfig{
			Mode:          c.Chat.Mode,
			ThinkingDelay: c.Chat.ThinkingDelay,
			WordDelay:     c.Chat.WordDelay,
		},
		OpenAI: container.OpenAIConfig{
			APIKey:      c.OpenAI.APIKey,
			BaseURL:     c.OpenAI.BaseURL,
			Model:       c.OpenAI.Model,
			Temperature: c.OpenAI.Temperature,
			MaxTokens:   c.OpenAI.MaxTokens,
			Timeout:     c.OpenAI.Timeout,
		},
		Mock: container.MockConfig{
			FeedURL:     c.Mock.FeedURL,
			FeedTimeout: c.Mock.FeedTimeout,
		},
		Server: container.ServerConfig{
			Host:         c.Server.Host,
			Port:         c.Server.Port,
			ReadTimeout:  c.Server.ReadTimeout,
			WriteTimeout: c.Server.WriteTimeout,
		},
	}
}
