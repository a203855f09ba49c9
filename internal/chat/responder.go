package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/application/port"
	"github.com/garyjia/invoice-assistant/internal/domain/entity"
)

// Responder produces a reply stream for a transcript
type Responder interface {
	Respond(ctx context.Context, messages []entity.ChatMessage) (Stream, error)
}

// Options controls reply pacing
type Options struct {
	ThinkingDelay time.Duration
	WordDelay     time.Duration
}

// DefaultOptions returns the standard pacing
func DefaultOptions() Options {
	return Options{
		ThinkingDelay: 500 * time.Millisecond,
		WordDelay:     50 * time.Millisecond,
	}
}

// RuleResponder answers with pattern-matched canned replies
type RuleResponder struct {
	composer *Composer
	opts     Options
}

// NewRuleResponder creates a new rule-based responder
func NewRuleResponder(invoices port.InvoiceReader, opts Options, logger *zap.Logger) *RuleResponder {
	return &RuleResponder{
		composer: NewComposer(invoices, logger),
		opts:     opts,
	}
}

// Respond composes the reply and returns it as a word stream
func (r *RuleResponder) Respond(ctx context.Context, messages []entity.ChatMessage) (Stream, error) {
	reply, err := r.composer.Reply(ctx, messages)
	if err != nil {
		return nil, err
	}
	return NewWordStream(ctx, reply, r.opts.ThinkingDelay, r.opts.WordDelay), nil
}

// ApologyStream is the reply used when a turn fails outright
func ApologyStream(ctx context.Context) Stream {
	return NewWordStream(ctx, GenericApology, 0, 0)
}
