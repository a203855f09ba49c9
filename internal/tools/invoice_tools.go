package tools

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/application/port"
	"github.com/garyjia/invoice-assistant/internal/domain/entity"
	"github.com/garyjia/invoice-assistant/internal/invoice"
)

// Tool names
const (
	GetInvoice       = "getInvoice"
	ListInvoices     = "listInvoices"
	SummarizeInvoice = "summarizeInvoice"
	AnalyzeInvoices  = "analyzeInvoices"
)

// Analysis types
const (
	AnalysisTrends   = "trends"
	AnalysisCustomer = "customer"
	AnalysisAmounts  = "amounts"
)

const noMemo = "No memo"

type invoiceArgs struct {
	ID string `json:"id" validate:"required"`
}

type listArgs struct{}

type analyzeArgs struct {
	AnalysisType string `json:"analysisType" validate:"required,oneof=trends customer amounts"`
	Timeframe    string `json:"timeframe" validate:"omitempty,oneof=week month year"`
}

// Summary is the result of summarizeInvoice
type Summary struct {
	Summary string         `json:"summary"`
	Details SummaryDetails `json:"details"`
}

// SummaryDetails holds display-formatted invoice values
type SummaryDetails struct {
	Amount  string `json:"amount"`
	Date    string `json:"date"`
	DueDate string `json:"dueDate"`
	Balance string `json:"balance"`
	Memo    string `json:"memo"`
}

// Analysis is the result of analyzeInvoices
type Analysis struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// AmountStats aggregates invoice totals
type AmountStats struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// NewInvoiceRegistry builds the invoice tool catalog over invoices
func NewInvoiceRegistry(invoices port.InvoiceReader, logger *zap.Logger) *Registry {
	v := newValidator()
	idParam := func(action string) []Parameter {
		return []Parameter{{
			Name:        "id",
			Type:        "string",
			Description: fmt.Sprintf("The ID of the invoice to %s", action),
			Required:    true,
		}}
	}

	return newRegistry(logger,
		define(v, GetInvoice, "Get details of a specific invoice by ID", idParam("retrieve"),
			func(ctx context.Context, args invoiceArgs) (any, error) {
				inv, err := invoices.GetInvoice(ctx, args.ID)
				if err != nil {
					return nil, err
				}
				return inv, nil
			}),
		define(v, ListInvoices, "List all invoices", nil,
			func(ctx context.Context, _ listArgs) (any, error) {
				return invoices.ListInvoices(ctx), nil
			}),
		define(v, SummarizeInvoice, "Get a natural language summary of an invoice", idParam("summarize"),
			func(ctx context.Context, args invoiceArgs) (any, error) {
				inv, err := invoices.GetInvoice(ctx, args.ID)
				if err != nil {
					return nil, err
				}
				return Summarize(inv), nil
			}),
		define(v, AnalyzeInvoices, "Perform analysis of invoices",
			[]Parameter{
				{
					Name:        "analysisType",
					Type:        "string",
					Description: "Type of analysis to perform",
					Enum:        []string{AnalysisTrends, AnalysisCustomer, AnalysisAmounts},
					Required:    true,
				},
				{
					Name:        "timeframe",
					Type:        "string",
					Description: "Time period to analyze",
					Enum:        []string{"week", "month", "year"},
				},
			},
			func(ctx context.Context, args analyzeArgs) (any, error) {
				// timeframe is accepted but does not filter yet
				return Analyze(args.AnalysisType, invoices.ListInvoices(ctx)), nil
			}),
	)
}

// Summarize formats an invoice for display
func Summarize(inv *entity.Invoice) Summary {
	memo := inv.Memo()
	if memo == "" {
		memo = noMemo
	}

	return Summary{
		Summary: fmt.Sprintf("Invoice #%s for %s", inv.DocNumber, inv.CustomerName()),
		Details: SummaryDetails{
			Amount:  invoice.FormatAmount(inv.TotalAmt),
			Date:    invoice.FormatDate(inv.TxnDate),
			DueDate: invoice.FormatDate(inv.DueDate),
			Balance: invoice.FormatAmount(inv.Balance),
			Memo:    memo,
		},
	}
}

// Analyze aggregates invoices for the given analysis type
func Analyze(analysisType string, invoices []entity.Invoice) Analysis {
	switch analysisType {
	case AnalysisTrends:
		byDate := make(map[string]float64)
		for _, inv := range invoices {
			byDate[invoice.FormatDate(inv.TxnDate)] += inv.TotalAmt
		}
		return Analysis{Type: AnalysisTrends, Data: byDate}

	case AnalysisCustomer:
		byCustomer := make(map[string]float64)
		for _, inv := range invoices {
			byCustomer[inv.CustomerName()] += inv.TotalAmt
		}
		return Analysis{Type: AnalysisCustomer, Data: byCustomer}

	default:
		return Analysis{Type: AnalysisAmounts, Data: amountStats(invoices)}
	}
}

// amountStats reports a zero average for an empty set
func amountStats(invoices []entity.Invoice) AmountStats {
	stats := AmountStats{Count: len(invoices)}
	for _, inv := range invoices {
		stats.Total += inv.TotalAmt
	}
	if stats.Count > 0 {
		stats.Average = stats.Total / float64(stats.Count)
	}
	return stats
}
