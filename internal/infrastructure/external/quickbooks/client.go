// Package quickbooks implements the QuickBooks Online accounting API and
// the Intuit OAuth 2.0 flow behind the application ports.
package quickbooks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/garyjia/invoice-assistant/internal/application/port"
	"github.com/garyjia/invoice-assistant/internal/domain/entity"
	"github.com/garyjia/invoice-assistant/internal/invoice"
)

// API base URLs per environment
const (
	SandboxBaseURL    = "https://sandbox-quickbooks.api.intuit.com"
	ProductionBaseURL = "https://quickbooks.api.intuit.com"
)

// faultCodeObjectNotFound is reported by QuickBooks for unknown entity ids
const faultCodeObjectNotFound = "610"

var (
	// ErrMissingAccessToken is returned when a client is built without a token
	ErrMissingAccessToken = errors.New("quickbooks access token is required")

	// ErrMissingRealmID is returned when a client is built without a company id
	ErrMissingRealmID = errors.New("quickbooks realm id is required")
)

// Options configures API clients built by the factory
type Options struct {
	BaseURL           string
	MinorVersion      string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Client is a QuickBooks Online API client bound to one company (realm)
type Client struct {
	http         *resty.Client
	realmID      string
	minorVersion string
	limiter      *rate.Limiter
	logger       *zap.Logger
}

type queryResponse struct {
	QueryResponse struct {
		Invoice       []invoice.RawInvoice `json:"Invoice"`
		StartPosition int                  `json:"startPosition"`
		MaxResults    int                  `json:"maxResults"`
	} `json:"QueryResponse"`
}

type invoiceResponse struct {
	Invoice *invoice.RawInvoice `json:"Invoice"`
}

type faultResponse struct {
	Fault struct {
		Error []struct {
			Message string `json:"Message"`
			Detail  string `json:"Detail"`
			Code    string `json:"code"`
		} `json:"Error"`
		Type string `json:"type"`
	} `json:"Fault"`
}

// NewClient creates an API client for the given credentials
func NewClient(accessToken, realmID string, opts Options, logger *zap.Logger) (*Client, error) {
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}
	if realmID == "" {
		return nil, ErrMissingRealmID
	}
	if opts.BaseURL == "" {
		opts.BaseURL = SandboxBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	// QuickBooks throttles at 500 requests per minute per realm
	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}

	httpClient := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetAuthToken(accessToken).
		SetHeader("Accept", "application/json")

	return &Client{
		http:         httpClient,
		realmID:      realmID,
		minorVersion: opts.MinorVersion,
		limiter:      rate.NewLimiter(limit, 1),
		logger:       logger,
	}, nil
}

// NewFactory returns a port.ProviderFactory building clients with opts
func NewFactory(opts Options, logger *zap.Logger) port.ProviderFactory {
	return func(accessToken, realmID string) (port.InvoiceProvider, error) {
		return NewClient(accessToken, realmID, opts, logger)
	}
}

// ListInvoices runs an invoice query against the company
func (c *Client) ListInvoices(ctx context.Context, opts port.ListOptions) ([]invoice.RawInvoice, error) {
	query := buildInvoiceQuery(opts)

	c.logger.Debug("Querying QuickBooks invoices",
		zap.String("realm_id", c.realmID),
		zap.String("query", query))

	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetQueryParam("query", query).
		SetResult(&queryResponse{}).
		Get("/v3/company/{realmId}/query")
	if err != nil {
		return nil, &entity.ProviderError{Message: err.Error()}
	}
	if resp.IsError() {
		return nil, toProviderError(resp)
	}

	result := resp.Result().(*queryResponse)
	c.logger.Info("Fetched QuickBooks invoices",
		zap.String("realm_id", c.realmID),
		zap.Int("count", len(result.QueryResponse.Invoice)))

	return result.QueryResponse.Invoice, nil
}

// GetInvoice reads a single invoice by its QuickBooks id
func (c *Client) GetInvoice(ctx context.Context, id string) (*invoice.RawInvoice, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetPathParam("id", id).
		SetResult(&invoiceResponse{}).
		Get("/v3/company/{realmId}/invoice/{id}")
	if err != nil {
		return nil, &entity.ProviderError{Message: err.Error()}
	}
	if resp.IsError() {
		return nil, toProviderError(resp)
	}

	result := resp.Result().(*invoiceResponse)
	if result.Invoice == nil {
		return nil, &entity.ProviderError{StatusCode: http.StatusNotFound, Message: "empty invoice response"}
	}

	return result.Invoice, nil
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &entity.ProviderError{Message: fmt.Sprintf("rate limiter: %v", err)}
	}

	req := c.http.R().
		SetContext(ctx).
		SetPathParam("realmId", c.realmID).
		SetError(&faultResponse{})
	if c.minorVersion != "" {
		req.SetQueryParam("minorversion", c.minorVersion)
	}
	return req, nil
}

func buildInvoiceQuery(opts port.ListOptions) string {
	query := "SELECT * FROM Invoice"
	if opts.OrderBy != "" {
		query += " ORDERBY " + opts.OrderBy
		if opts.Desc {
			query += " DESC"
		}
	}
	if opts.Limit > 0 {
		query += " MAXRESULTS " + strconv.Itoa(opts.Limit)
	}
	return query
}

func toProviderError(resp *resty.Response) error {
	perr := &entity.ProviderError{
		StatusCode: resp.StatusCode(),
		Message:    resp.Status(),
	}

	fault, ok := resp.Error().(*faultResponse)
	if ok && fault != nil && len(fault.Fault.Error) > 0 {
		first := fault.Fault.Error[0]
		perr.Message = first.Message
		if first.Detail != "" {
			perr.Message += ": " + first.Detail
		}
		if first.Code == faultCodeObjectNotFound {
			perr.StatusCode = http.StatusNotFound
		}
	}

	return perr
}
