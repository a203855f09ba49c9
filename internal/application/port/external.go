package port

import (
	"context"
	"net/url"

	"github.com/garyjia/invoice-assistant/internal/domain/entity"
	"github.com/garyjia/invoice-assistant/internal/invoice"
)

// ListOptions controls a provider invoice query
type ListOptions struct {
	Limit   int
	OrderBy string
	Desc    bool
}

// InvoiceProvider is a live accounting data source bound to one tenant.
// Failures are reported as *entity.ProviderError.
type InvoiceProvider interface {
	ListInvoices(ctx context.Context, opts ListOptions) ([]invoice.RawInvoice, error)
	GetInvoice(ctx context.Context, id string) (*invoice.RawInvoice, error)
}

// ProviderFactory builds an InvoiceProvider from OAuth credentials
type ProviderFactory func(accessToken, realmID string) (InvoiceProvider, error)

// OAuthClient performs the provider's authorization-code flow
type OAuthClient interface {
	// AuthCodeURL builds the consent URL for the given scopes and state
	AuthCodeURL(state string, scopes []string) (string, error)

	// Exchange trades the code carried by a callback URL for a token
	Exchange(ctx context.Context, callback *url.URL) (*entity.Token, error)
}

// DemoFeed loads demo records used to seed the mock dataset
type DemoFeed interface {
	FetchPosts(ctx context.Context) ([]invoice.DemoPost, error)
}
