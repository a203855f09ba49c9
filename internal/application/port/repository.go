package port

import (
	"context"

	"github.com/garyjia/invoice-assistant/internal/domain/entity"
)

// InvoiceReader is the read side of the invoice repository consumed by
// tools, the chat responder and HTTP handlers.
type InvoiceReader interface {
	// ListInvoices never fails; it degrades to mock data instead
	ListInvoices(ctx context.Context) []entity.Invoice

	// GetInvoice resolves an id or display number such as "INV-3" or "#3"
	GetInvoice(ctx context.Context, ref string) (*entity.Invoice, error)
}

// LiveSessionInitializer switches a repository to live provider data
type LiveSessionInitializer interface {
	InitializeLiveSession(accessToken, realmID string) bool
}
