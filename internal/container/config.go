// Package container wires the invoice assistant's components and manages
// their lifecycle.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Production toggles secure cookies
	Production bool

	// QuickBooks API and OAuth configuration
	QuickBooks QuickBooksConfig

	// Session cookie configuration
	Session SessionConfig

	// Chat responder configuration
	Chat ChatConfig

	// OpenAI configuration
	OpenAI OpenAIConfig

	// Mock dataset configuration
	Mock MockConfig

	// Server configuration
	Server ServerConfig
}

// QuickBooksConfig holds Intuit app and API settings.
type QuickBooksConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// BaseURL is the accounting API host for the chosen environment
	BaseURL string

	MinorVersion      int
	Timeout           time.Duration
	RequestsPerMinute int
}

// SessionConfig holds OAuth session settings.
type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration

	// State is the anti-forgery token sent with authorization requests
	State string
}

// ChatConfig selects the chat responder.
type ChatConfig struct {
	// Mode is "rules" or "openai"
	Mode string

	ThinkingDelay time.Duration
	WordDelay     time.Duration
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// MockConfig holds the demo feed used to seed mock data.
type MockConfig struct {
	// FeedURL is empty to use the compiled-in dataset
	FeedURL     string
	FeedTimeout time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		QuickBooks: QuickBooksConfig{
			RedirectURL:       "http://localhost:3000/api/auth/callback",
			MinorVersion:      73,
			Timeout:           30 * time.Second,
			RequestsPerMinute: 500,
		},
		Session: SessionConfig{
			CookieName: "qbo_token",
			MaxAge:     24 * time.Hour,
			State:      "teststate",
		},
		Chat: ChatConfig{
			Mode:          "rules",
			ThinkingDelay: 500 * time.Millisecond,
			WordDelay:     50 * time.Millisecond,
		},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
			MaxTokens:   1000,
			Timeout:     60 * time.Second,
		},
		Mock: MockConfig{
			FeedTimeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        3000,
			ReadTimeout: 30 * time.Second,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}

	switch c.Chat.Mode {
	case "rules":
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required")
		}
	default:
		return fmt.Errorf("unknown chat mode %q", c.Chat.Mode)
	}

	return nil
}
