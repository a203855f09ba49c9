// Package placeholder loads demo invoice seeds from a jsonplaceholder-style
// posts endpoint.
package placeholder

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/domain/entity"
	"github.com/garyjia/invoice-assistant/internal/invoice"
)

// DefaultFeedURL is the public demo endpoint
const DefaultFeedURL = "https://jsonplaceholder.typicode.com/posts"

// Feed implements port.DemoFeed
type Feed struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// NewFeed creates a demo feed reader for url
func NewFeed(url string, timeout time.Duration, logger *zap.Logger) *Feed {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Feed{
		client: resty.New().SetTimeout(timeout).SetHeader("Accept", "application/json"),
		url:    url,
		logger: logger,
	}
}

// FetchPosts reads all posts from the feed
func (f *Feed) FetchPosts(ctx context.Context) ([]invoice.DemoPost, error) {
	var posts []invoice.DemoPost

	resp, err := f.client.R().
		SetContext(ctx).
		SetResult(&posts).
		Get(f.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch demo feed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("demo feed returned status %d", resp.StatusCode())
	}

	f.logger.Debug("Fetched demo feed", zap.String("url", f.url), zap.Int("count", len(posts)))
	return posts, nil
}

// LoadInvoices fetches the feed and derives one invoice per post, dated now
func (f *Feed) LoadInvoices(ctx context.Context, now time.Time) ([]entity.Invoice, error) {
	posts, err := f.FetchPosts(ctx)
	if err != nil {
		return nil, err
	}

	invoices := make([]entity.Invoice, 0, len(posts))
	for _, post := range posts {
		invoices = append(invoices, invoice.FromDemoPost(post, now))
	}
	return invoices, nil
}
