// Package auth runs the QuickBooks authorization-code flow and switches the
// invoice repository to live data once a token is issued.
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/application/port"
	"github.com/garyjia/invoice-assistant/internal/domain/entity"
	"github.com/garyjia/invoice-assistant/internal/infrastructure/external/quickbooks"
)

// DefaultState is the anti-forgery state token sent with every authorization request
const DefaultState = "teststate"

// Scopes requested on every authorization
var Scopes = []string{
	quickbooks.ScopeAccounting,
	quickbooks.ScopeOpenID,
	quickbooks.ScopeProfile,
	quickbooks.ScopeEmail,
}

var (
	// ErrAuthURL is returned when the authorization URL cannot be built
	ErrAuthURL = errors.New("failed to build authorization url")

	// ErrCallback is returned when a callback cannot be turned into a token
	ErrCallback = errors.New("oauth callback failed")

	// ErrStateMismatch is returned when the callback state does not match
	ErrStateMismatch = errors.New("state mismatch")

	// ErrInvalidToken is returned when a cookie value cannot be decoded
	ErrInvalidToken = errors.New("invalid token encoding")
)

// SessionManager drives the OAuth flow
type SessionManager struct {
	client  port.OAuthClient
	session port.LiveSessionInitializer
	state   string
	logger  *zap.Logger
}

// NewSessionManager creates a new session manager. An empty state falls
// back to DefaultState.
func NewSessionManager(client port.OAuthClient, session port.LiveSessionInitializer, state string, logger *zap.Logger) *SessionManager {
	if state == "" {
		state = DefaultState
	}
	return &SessionManager{
		client:  client,
		session: session,
		state:   state,
		logger:  logger,
	}
}

// AuthorizationURL returns the provider consent URL
func (m *SessionManager) AuthorizationURL() (string, error) {
	authURL, err := m.client.AuthCodeURL(m.state, Scopes)
	if err != nil {
		m.logger.Error("Failed to build authorization URL", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrAuthURL, err)
	}
	return authURL, nil
}

// HandleCallback exchanges the callback for a token. A token bound to a
// company starts a live repository session.
func (m *SessionManager) HandleCallback(ctx context.Context, requestURL *url.URL) (*entity.Token, error) {
	if state := requestURL.Query().Get("state"); state != m.state {
		m.logger.Warn("OAuth callback rejected", zap.String("reason", "state mismatch"))
		return nil, fmt.Errorf("%w: %w", ErrCallback, ErrStateMismatch)
	}

	token, err := m.client.Exchange(ctx, requestURL)
	if err != nil {
		m.logger.Error("OAuth token exchange failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCallback, err)
	}

	if token.HasRealm() {
		live := m.session.InitializeLiveSession(token.AccessToken, token.RealmID)
		m.logger.Info("OAuth callback completed",
			zap.String("realm_id", token.RealmID),
			zap.Bool("live", live))
	} else {
		m.logger.Warn("OAuth token has no realm id, staying on mock data")
	}

	return token, nil
}

// EncodeToken serializes a token for the session cookie
func EncodeToken(token *entity.Token) (string, error) {
	data, err := json.Marshal(token)
	if err != nil {
		return "", fmt.Errorf("failed to encode token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeToken parses a session cookie value
func DecodeToken(value string) (*entity.Token, error) {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var token entity.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &token, nil
}
