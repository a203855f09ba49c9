package quickbooks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/garyjia/invoice-assistant/internal/domain/entity"
)

// Intuit OAuth 2.0 endpoints, shared by sandbox and production
const (
	AuthURL  = "https://appcenter.intuit.com/connect/oauth2"
	TokenURL = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"
)

// Intuit scopes
const (
	ScopeAccounting = "com.intuit.quickbooks.accounting"
	ScopeOpenID     = "openid"
	ScopeProfile    = "profile"
	ScopeEmail      = "email"
)

var (
	// ErrClientNotConfigured is returned when no client id is configured
	ErrClientNotConfigured = errors.New("quickbooks oauth client id is not configured")

	// ErrMissingCode is returned when a callback carries no authorization code
	ErrMissingCode = errors.New("callback is missing the authorization code")
)

// OAuthConfig holds the Intuit app credentials
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// AuthURL and TokenURL override the Intuit endpoints (tests)
	AuthURL  string
	TokenURL string

	// HTTPClient is used for the token exchange when set
	HTTPClient *http.Client
}

// OAuthClient implements port.OAuthClient with golang.org/x/oauth2
type OAuthClient struct {
	config     oauth2.Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOAuthClient creates an Intuit OAuth client
func NewOAuthClient(cfg OAuthConfig, logger *zap.Logger) *OAuthClient {
	endpoint := oauth2.Endpoint{
		AuthURL:   AuthURL,
		TokenURL:  TokenURL,
		AuthStyle: oauth2.AuthStyleInHeader,
	}
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	return &OAuthClient{
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
		},
		httpClient: cfg.HTTPClient,
		logger:     logger,
	}
}

// AuthCodeURL builds the Intuit consent URL
func (c *OAuthClient) AuthCodeURL(state string, scopes []string) (string, error) {
	if c.config.ClientID == "" {
		return "", ErrClientNotConfigured
	}
	if _, err := url.Parse(c.config.Endpoint.AuthURL); err != nil {
		return "", fmt.Errorf("invalid authorization endpoint: %w", err)
	}

	conf := c.config
	conf.Scopes = scopes
	return conf.AuthCodeURL(state), nil
}

// Exchange trades the authorization code in callback for a token.
// Intuit passes the company id as the realmId query parameter.
func (c *OAuthClient) Exchange(ctx context.Context, callback *url.URL) (*entity.Token, error) {
	query := callback.Query()
	if providerErr := query.Get("error"); providerErr != "" {
		return nil, fmt.Errorf("authorization denied: %s", providerErr)
	}

	code := query.Get("code")
	if code == "" {
		return nil, ErrMissingCode
	}

	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}

	tok, err := c.config.Exchange(ctx, code)
	if err != nil {
		c.logger.Error("Token exchange failed", zap.Error(err))
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	token := &entity.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		RealmID:      query.Get("realmId"),
		Expiry:       tok.Expiry,
	}
	if idToken, ok := tok.Extra("id_token").(string); ok {
		token.IDToken = idToken
	}
	if expiresIn, ok := tok.Extra("x_refresh_token_expires_in").(float64); ok {
		token.RefreshTokenExpiresIn = int64(expiresIn)
	}

	c.logger.Info("QuickBooks token issued",
		zap.String("realm_id", token.RealmID),
		zap.Time("expiry", token.Expiry))

	return token, nil
}
