package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/domain/entity"
)

type fakeInvoices struct {
	invoices  []entity.Invoice
	listCalls int
	getCalls  int
}

func (f *fakeInvoices) ListInvoices(ctx context.Context) []entity.Invoice {
	f.listCalls++
	return f.invoices
}

func (f *fakeInvoices) GetInvoice(ctx context.Context, ref string) (*entity.Invoice, error) {
	f.getCalls++
	for i := range f.invoices {
		if f.invoices[i].ID == ref || f.invoices[i].DocNumber == ref {
			inv := f.invoices[i]
			return &inv, nil
		}
	}
	return nil, &entity.NotFoundError{Ref: ref}
}

func threeInvoices() []entity.Invoice {
	return []entity.Invoice{
		{ID: "1", DocNumber: "INV-1", TxnDate: "2024-01-15", DueDate: "2024-02-14", TotalAmt: 100, Balance: 100, CustomerRef: entity.CustomerRef{Name: "Acme"}},
		{ID: "2", DocNumber: "INV-2", TxnDate: "2024-01-15", DueDate: "2024-02-14", TotalAmt: 200, Balance: 50, CustomerRef: entity.CustomerRef{Name: "Globex"},
			CustomerMemo: &entity.CustomerMemo{Value: "Net 30"}},
		{ID: "3", DocNumber: "INV-3", TxnDate: "2024-02-01", DueDate: "2024-03-02", TotalAmt: 300, Balance: 300, CustomerRef: entity.CustomerRef{Name: "Acme"}},
	}
}

func newTestRegistry() (*Registry, *fakeInvoices) {
	fake := &fakeInvoices{invoices: threeInvoices()}
	return NewInvoiceRegistry(fake, zap.NewNop()), fake
}

func TestRegistry_Catalog(t *testing.T) {
	registry, _ := newTestRegistry()

	names := make([]string, 0)
	for _, tool := range registry.Tools() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{GetInvoice, ListInvoices, SummarizeInvoice, AnalyzeInvoices}, names)

	defs := registry.Definitions()
	require.Len(t, defs, 4)

	getDef := defs[0]
	assert.Equal(t, []string{"id"}, getDef.Parameters["required"])

	listDef := defs[1]
	assert.NotContains(t, listDef.Parameters, "required")

	analyzeProps := defs[3].Parameters["properties"].(map[string]any)
	analysisType := analyzeProps["analysisType"].(map[string]any)
	assert.Equal(t, []string{"trends", "customer", "amounts"}, analysisType["enum"])
}

func TestRegistry_UnknownTool(t *testing.T) {
	registry, _ := newTestRegistry()

	_, err := registry.Execute(context.Background(), "deleteInvoice", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestRegistry_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		tool  string
		args  map[string]any
		field string
	}{
		{"getInvoice missing id", GetInvoice, map[string]any{}, "id"},
		{"getInvoice nil args", GetInvoice, nil, "id"},
		{"getInvoice numeric id", GetInvoice, map[string]any{"id": 2}, "id"},
		{"summarizeInvoice empty id", SummarizeInvoice, map[string]any{"id": ""}, "id"},
		{"analyze missing type", AnalyzeInvoices, map[string]any{}, "analysisType"},
		{"analyze bad type", AnalyzeInvoices, map[string]any{"analysisType": "forecast"}, "analysisType"},
		{"analyze bad timeframe", AnalyzeInvoices, map[string]any{"analysisType": "trends", "timeframe": "decade"}, "timeframe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, fake := newTestRegistry()

			_, err := registry.Execute(ctx, tt.tool, tt.args)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.tool, verr.Tool)
			require.NotEmpty(t, verr.Fields)
			assert.Equal(t, tt.field, verr.Fields[0].Field)

			assert.Zero(t, fake.getCalls, "handler must not run")
			assert.Zero(t, fake.listCalls, "handler must not run")
		})
	}
}

func TestRegistry_GetInvoice(t *testing.T) {
	registry, _ := newTestRegistry()

	result, err := registry.Execute(context.Background(), GetInvoice, map[string]any{"id": "2"})
	require.NoError(t, err)

	inv := result.(*entity.Invoice)
	assert.Equal(t, "INV-2", inv.DocNumber)

	_, err = registry.Execute(context.Background(), GetInvoice, map[string]any{"id": "404"})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestRegistry_ListInvoices(t *testing.T) {
	registry, _ := newTestRegistry()

	result, err := registry.Execute(context.Background(), ListInvoices, map[string]any{"ignored": true})
	require.NoError(t, err)
	assert.Equal(t, threeInvoices(), result)
}

func TestRegistry_SummarizeInvoice(t *testing.T) {
	registry, _ := newTestRegistry()

	t.Run("with memo", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), SummarizeInvoice, map[string]any{"id": "2"})
		require.NoError(t, err)

		assert.Equal(t, Summary{
			Summary: "Invoice #INV-2 for Globex",
			Details: SummaryDetails{
				Amount:  "$200.00",
				Date:    "1/15/2024",
				DueDate: "2/14/2024",
				Balance: "$50.00",
				Memo:    "Net 30",
			},
		}, result)
	})

	t.Run("memo defaults", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), SummarizeInvoice, map[string]any{"id": "1"})
		require.NoError(t, err)
		assert.Equal(t, "No memo", result.(Summary).Details.Memo)
	})
}

func TestRegistry_AnalyzeInvoices(t *testing.T) {
	ctx := context.Background()

	t.Run("amounts", func(t *testing.T) {
		registry, _ := newTestRegistry()

		result, err := registry.Execute(ctx, AnalyzeInvoices, map[string]any{"analysisType": "amounts"})
		require.NoError(t, err)
		assert.Equal(t, Analysis{Type: "amounts", Data: AmountStats{Total: 600, Average: 200, Count: 3}}, result)
	})

	t.Run("customer groups shared names", func(t *testing.T) {
		registry, _ := newTestRegistry()

		result, err := registry.Execute(ctx, AnalyzeInvoices, map[string]any{"analysisType": "customer", "timeframe": "month"})
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"Acme": 400, "Globex": 200}, result.(Analysis).Data)
	})

	t.Run("trends by formatted date", func(t *testing.T) {
		registry, _ := newTestRegistry()

		result, err := registry.Execute(ctx, AnalyzeInvoices, map[string]any{"analysisType": "trends"})
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"1/15/2024": 300, "2/1/2024": 300}, result.(Analysis).Data)
	})

	t.Run("amounts over no invoices", func(t *testing.T) {
		registry := NewInvoiceRegistry(&fakeInvoices{}, zap.NewNop())

		result, err := registry.Execute(ctx, AnalyzeInvoices, map[string]any{"analysisType": "amounts"})
		require.NoError(t, err)
		assert.Equal(t, AmountStats{}, result.(Analysis).Data)
	})
}
