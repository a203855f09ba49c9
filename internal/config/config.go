package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// QuickBooks environments. Unset, the environment follows app.environment.
const (
	QuickBooksSandbox    = "sandbox"
	QuickBooksProduction = "production"
)

// Chat modes
const (
	ChatModeRules  = "rules"
	ChatModeOpenAI = "openai"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	App        AppConfig        `mapstructure:"app"`
	QuickBooks QuickBooksConfig `mapstructure:"quickbooks"`
	Session    SessionConfig    `mapstructure:"session"`
	Chat       ChatConfig       `mapstructure:"chat"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Mock       MockConfig       `mapstructure:"mock"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AppConfig holds deployment settings
type AppConfig struct {
	Environment string `mapstructure:"environment"`
	BaseURL     string `mapstructure:"base_url"`
}

// QuickBooksConfig holds Intuit app credentials and API settings
type QuickBooksConfig struct {
	ClientID          string        `mapstructure:"client_id"`
	ClientSecret      string        `mapstructure:"client_secret"`
	Environment       string        `mapstructure:"environment"` // sandbox or production
	RedirectURL       string        `mapstructure:"redirect_url"`
	MinorVersion      int           `mapstructure:"minor_version"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// SessionConfig holds the OAuth session cookie settings
type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	MaxAge     time.Duration `mapstructure:"max_age"`
	State      string        `mapstructure:"state"`
}

// ChatConfig selects and paces the chat responder
type ChatConfig struct {
	Mode          string        `mapstructure:"mode"` // rules or openai
	ThinkingDelay time.Duration `mapstructure:"thinking_delay"`
	WordDelay     time.Duration `mapstructure:"word_delay"`
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// MockConfig controls where the mock dataset comes from
type MockConfig struct {
	FeedURL     string        `mapstructure:"feed_url"`
	FeedTimeout time.Duration `mapstructure:"feed_timeout"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from an optional YAML file, a .env file in the
// working directory and environment variables, in increasing precedence.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 0)

	v.SetDefault("app.environment", EnvDevelopment)
	v.SetDefault("app.base_url", "http://localhost:3000")

	// QuickBooks defaults
	v.SetDefault("quickbooks.minor_version", 73)
	v.SetDefault("quickbooks.timeout", 30*time.Second)
	v.SetDefault("quickbooks.requests_per_minute", 500)

	v.SetDefault("session.cookie_name", "qbo_token")
	v.SetDefault("session.max_age", 24*time.Hour)
	v.SetDefault("session.state", "teststate")

	// Chat defaults
	v.SetDefault("chat.mode", ChatModeRules)
	v.SetDefault("chat.thinking_delay", 500*time.Millisecond)
	v.SetDefault("chat.word_delay", 50*time.Millisecond)

	// OpenAI defaults
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.3)
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.timeout", 60*time.Second)

	v.SetDefault("mock.feed_url", "")
	v.SetDefault("mock.feed_timeout", 10*time.Second)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	// Sensitive credentials from environment
	_ = v.BindEnv("quickbooks.client_id", "QUICKBOOKS_CLIENT_ID")
	_ = v.BindEnv("quickbooks.client_secret", "QUICKBOOKS_CLIENT_SECRET")
	_ = v.BindEnv("quickbooks.environment", "QUICKBOOKS_ENVIRONMENT")
	_ = v.BindEnv("quickbooks.redirect_url", "QUICKBOOKS_REDIRECT_URI")
	_ = v.BindEnv("app.base_url", "APP_BASE_URL")
	_ = v.BindEnv("app.environment", "APP_ENV")
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("chat.mode", "CHAT_MODE")
}

func (c *Config) applyDerived() {
	c.App.BaseURL = strings.TrimRight(c.App.BaseURL, "/")
	if c.QuickBooks.Environment == "" {
		c.QuickBooks.Environment = QuickBooksSandbox
		if c.IsProduction() {
			c.QuickBooks.Environment = QuickBooksProduction
		}
	}
	if c.QuickBooks.RedirectURL == "" {
		c.QuickBooks.RedirectURL = c.App.BaseURL + "/api/auth/callback"
	}
}

// IsProduction reports whether the app runs against production services
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	switch c.App.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("app.environment must be %q or %q", EnvDevelopment, EnvProduction)
	}

	switch c.QuickBooks.Environment {
	case QuickBooksSandbox, QuickBooksProduction:
	default:
		return fmt.Errorf("quickbooks.environment must be sandbox or production")
	}

	// Validate chat mode
	switch c.Chat.Mode {
	case ChatModeRules:
	case ChatModeOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required when chat.mode is openai")
		}
	default:
		return fmt.Errorf("chat.mode must be %q or %q", ChatModeRules, ChatModeOpenAI)
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}

	return nil
}
