package entity

import "time"

// Token is an OAuth token issued by the accounting provider.
// RealmID identifies the QuickBooks company the token is scoped to.
type Token struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token,omitempty"`
	TokenType             string    `json:"token_type,omitempty"`
	IDToken               string    `json:"id_token,omitempty"`
	RealmID               string    `json:"realmId,omitempty"`
	Expiry                time.Time `json:"expiry"`
	RefreshTokenExpiresIn int64     `json:"x_refresh_token_expires_in,omitempty"`
}

// HasRealm reports whether the token is bound to a provider tenant
func (t *Token) HasRealm() bool {
	return t != nil && t.RealmID != ""
}
