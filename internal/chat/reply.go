// Package chat turns a conversation transcript into an assistant reply.
// Replies are composed from pattern-matched intents and delivered as a
// stream of text fragments.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/application/port"
	"github.com/garyjia/invoice-assistant/internal/domain/entity"
	"github.com/garyjia/invoice-assistant/internal/invoice"
)

// Canned replies
const (
	Greeting = "Hello! How can I help you with your invoices today?"

	GenericApology = "I'm having trouble accessing the invoice data. Please try again later."

	HelpText = "I can help you with your invoices. You can ask me to:\n" +
		"• Show a specific invoice (e.g., 'show me invoice 1')\n" +
		"• List all invoices (e.g., 'show all invoices')\n" +
		"• Summarize an invoice (e.g., 'summarize invoice 1')\n\n" +
		"What would you like to know about your invoices?"

	showHints = "\n\nYou can use any of these formats:\n" +
		"• show me invoice [number]\n" +
		"• show me invoice INV-[number]\n" +
		"• show me invoice #[number]"

	summarizeHints = "\n\nYou can use any of these formats:\n" +
		"• summarize invoice [number]\n" +
		"• summarize invoice INV-[number]\n" +
		"• summarize invoice #[number]"
)

// ErrNoUserMessage is returned for a transcript without a user turn
var ErrNoUserMessage = errors.New("conversation has no user message")

// Composer builds replies against an invoice source
type Composer struct {
	invoices port.InvoiceReader
	logger   *zap.Logger
}

// NewComposer creates a new reply composer
func NewComposer(invoices port.InvoiceReader, logger *zap.Logger) *Composer {
	return &Composer{
		invoices: invoices,
		logger:   logger,
	}
}

// Reply returns the full reply text for the latest user message.
// Any failure while composing yields GenericApology instead of an error.
func (c *Composer) Reply(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	content, ok := entity.LastUserMessage(messages)
	if !ok {
		return "", ErrNoUserMessage
	}

	match := Classify(content)
	c.logger.Debug("Classified chat message",
		zap.String("intent", match.Intent.String()),
		zap.String("ref", match.Ref))

	return c.compose(ctx, match), nil
}

func (c *Composer) compose(ctx context.Context, match Match) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Chat reply panicked",
				zap.String("intent", match.Intent.String()),
				zap.Any("panic", r))
			reply = GenericApology
		}
	}()

	var err error
	switch match.Intent {
	case IntentGreeting:
		return Greeting
	case IntentShowInvoice:
		reply, err = c.withInvoice(ctx, match.Ref, showHints, detailBlock)
	case IntentSummarizeInvoice:
		reply, err = c.withInvoice(ctx, match.Ref, summarizeHints, oneLineSummary)
	case IntentListInvoices:
		reply = "Here are all your invoices:\n" + c.lines(ctx, func(inv entity.Invoice) string {
			return fmt.Sprintf("- Invoice #%s: %s - $%s", inv.DocNumber, inv.CustomerName(), plainAmount(inv.TotalAmt))
		})
	default:
		return HelpText
	}

	if err != nil {
		c.logger.Error("Chat reply failed",
			zap.String("intent", match.Intent.String()),
			zap.Error(err))
		return GenericApology
	}
	return reply
}

func (c *Composer) withInvoice(ctx context.Context, ref, hints string, format func(*entity.Invoice) string) (string, error) {
	if ref == "" {
		return "Please provide a valid invoice number. Here are your available invoices:\n\n" +
			c.lines(ctx, func(inv entity.Invoice) string {
				return fmt.Sprintf("• Invoice #%s - %s ($%s)", inv.DocNumber, inv.CustomerName(), plainAmount(inv.TotalAmt))
			}) +
			hints, nil
	}

	inv, err := c.invoices.GetInvoice(ctx, ref)
	if errors.Is(err, entity.ErrNotFound) {
		return fmt.Sprintf("I'm sorry, but I couldn't find Invoice #%s. Here are the available invoice numbers:\n", ref) +
			c.lines(ctx, func(inv entity.Invoice) string {
				return "- " + inv.DocNumber
			}), nil
	}
	if err != nil {
		return "", err
	}
	return format(inv), nil
}

func (c *Composer) lines(ctx context.Context, line func(entity.Invoice) string) string {
	invoices := c.invoices.ListInvoices(ctx)
	out := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, line(inv))
	}
	return strings.Join(out, "\n")
}

func detailBlock(inv *entity.Invoice) string {
	return fmt.Sprintf("Here are the details for Invoice #%s:\n", inv.DocNumber) +
		fmt.Sprintf("Customer: %s\n", inv.CustomerName()) +
		fmt.Sprintf("Amount: $%s\n", plainAmount(inv.TotalAmt)) +
		fmt.Sprintf("Date: %s\n", invoice.FormatDate(inv.TxnDate)) +
		fmt.Sprintf("Balance: $%s", plainAmount(inv.Balance))
}

func oneLineSummary(inv *entity.Invoice) string {
	return fmt.Sprintf("Invoice #%s for %s with total amount $%s, dated %s",
		inv.DocNumber, inv.CustomerName(), plainAmount(inv.TotalAmt), invoice.FormatDate(inv.TxnDate))
}

// plainAmount prints the shortest decimal form: 1500, 1500.5
func plainAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
