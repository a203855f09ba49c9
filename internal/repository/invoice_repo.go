package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/application/port"
	"github.com/garyjia/invoice-assistant/internal/domain/entity"
	"github.com/garyjia/invoice-assistant/internal/invoice"
)

// Mode is the data source a repository currently serves from
type Mode string

const (
	ModeMock Mode = "mock"
	ModeLive Mode = "live"
)

const (
	listLimit   = 100
	listSortKey = "Invoice"
)

var refPrefix = regexp.MustCompile(`(?i)^#?\s*(?:inv-)?#?\s*`)

// Session is an initialized live provider session. It is never mutated
// after construction; re-initialization swaps in a new Session.
type Session struct {
	Provider port.InvoiceProvider
	RealmID  string
}

// InvoiceRepository serves invoices from a live provider session when one
// is initialized and from the static mock dataset otherwise.
type InvoiceRepository struct {
	mock    []entity.Invoice
	factory port.ProviderFactory
	session atomic.Pointer[Session]
	logger  *zap.Logger
}

// NewInvoiceRepository creates a repository in mock mode
func NewInvoiceRepository(mock []entity.Invoice, factory port.ProviderFactory, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		mock:    mock,
		factory: factory,
		logger:  logger,
	}
}

// Mode reports the active data source
func (r *InvoiceRepository) Mode() Mode {
	if r.session.Load() != nil {
		return ModeLive
	}
	return ModeMock
}

// InitializeLiveSession builds a provider client and switches to live mode.
// It returns false and keeps the current mode if the client cannot be built.
func (r *InvoiceRepository) InitializeLiveSession(accessToken, realmID string) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Provider construction panicked", zap.Any("panic", p))
			ok = false
		}
	}()

	if r.factory == nil {
		r.logger.Warn("No provider factory configured; staying in mock mode")
		return false
	}

	provider, err := r.factory(accessToken, realmID)
	if err != nil {
		r.logger.Error("Failed to initialize provider client",
			zap.String("realm_id", realmID),
			zap.Error(err))
		return false
	}

	r.session.Store(&Session{Provider: provider, RealmID: realmID})
	r.logger.Info("Live provider session initialized", zap.String("realm_id", realmID))
	return true
}

// ListInvoices returns up to 100 live invoices, newest first, or the mock
// dataset. Provider failures are logged and answered with mock data.
func (r *InvoiceRepository) ListInvoices(ctx context.Context) []entity.Invoice {
	session := r.session.Load()
	if session == nil {
		return r.mockInvoices()
	}

	raws, err := session.Provider.ListInvoices(ctx, port.ListOptions{
		Limit:   listLimit,
		OrderBy: listSortKey,
		Desc:    true,
	})
	if err != nil {
		r.logger.Error("Error fetching invoices; serving mock data",
			zap.String("realm_id", session.RealmID),
			zap.Error(err))
		return r.mockInvoices()
	}

	return invoice.NormalizeAll(raws)
}

// GetInvoice resolves ref, which may be a raw id or a display number such
// as "3", "INV-3", "inv-3" or "#3".
func (r *InvoiceRepository) GetInvoice(ctx context.Context, ref string) (*entity.Invoice, error) {
	session := r.session.Load()
	if session == nil {
		if inv := r.findMock(ref); inv != nil {
			return inv, nil
		}
		return nil, &entity.NotFoundError{Ref: ref}
	}

	id := CleanRef(ref)
	raw, err := session.Provider.GetInvoice(ctx, id)
	if err == nil {
		inv := invoice.Normalize(*raw)
		return &inv, nil
	}

	mapped := mapProviderError(ref, err)
	r.logger.Error("Error fetching invoice",
		zap.String("ref", ref),
		zap.String("realm_id", session.RealmID),
		zap.Error(err))

	if inv := r.findMock(ref); inv != nil {
		r.logger.Info("Serving invoice from mock data", zap.String("ref", ref))
		return inv, nil
	}
	return nil, mapped
}

// CleanRef strips display prefixes ("#", "INV-") from an invoice reference
func CleanRef(ref string) string {
	return strings.TrimSpace(refPrefix.ReplaceAllString(strings.TrimSpace(ref), ""))
}

func (r *InvoiceRepository) mockInvoices() []entity.Invoice {
	invoices := make([]entity.Invoice, len(r.mock))
	copy(invoices, r.mock)
	return invoices
}

// findMock matches the display number exactly first, then the cleaned id
func (r *InvoiceRepository) findMock(ref string) *entity.Invoice {
	for i := range r.mock {
		if r.mock[i].DocNumber == ref {
			inv := r.mock[i]
			return &inv
		}
	}

	id := CleanRef(ref)
	for i := range r.mock {
		if r.mock[i].ID == id {
			inv := r.mock[i]
			return &inv
		}
	}
	return nil
}

func mapProviderError(ref string, err error) error {
	var perr *entity.ProviderError
	if errors.As(err, &perr) && perr.StatusCode == http.StatusNotFound {
		return &entity.NotFoundError{Ref: ref}
	}
	if perr != nil {
		return perr
	}
	return &entity.ProviderError{Message: fmt.Sprintf("failed to fetch invoice: %v", err)}
}
