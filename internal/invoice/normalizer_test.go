package invoice

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/invoice-assistant/internal/domain/entity"
)

func floatPtr(v float64) *float64 { return &v }

func TestNormalize_Defaults(t *testing.T) {
	t.Run("fills missing fields", func(t *testing.T) {
		inv := Normalize(RawInvoice{ID: "42"})

		assert.Equal(t, "42", inv.ID)
		assert.Equal(t, "INV-42", inv.DocNumber)
		assert.Equal(t, 0.0, inv.TotalAmt)
		assert.Equal(t, 0.0, inv.Balance)
		assert.Equal(t, UnknownCustomer, inv.CustomerRef.Name)
		assert.NotNil(t, inv.Line)
		assert.Empty(t, inv.Line)
		assert.Nil(t, inv.CustomerMemo)
		assert.Nil(t, inv.DeliveryInfo)
	})

	t.Run("balance defaults to total", func(t *testing.T) {
		inv := Normalize(RawInvoice{ID: "7", TotalAmt: floatPtr(350)})

		assert.Equal(t, 350.0, inv.TotalAmt)
		assert.Equal(t, 350.0, inv.Balance)
	})

	t.Run("explicit zero balance is kept", func(t *testing.T) {
		inv := Normalize(RawInvoice{ID: "7", TotalAmt: floatPtr(350), Balance: floatPtr(0)})

		assert.Equal(t, 0.0, inv.Balance)
	})

	t.Run("empty customer name falls back", func(t *testing.T) {
		inv := Normalize(RawInvoice{ID: "1", CustomerRef: &RawCustomerRef{Value: "58"}})
		assert.Equal(t, UnknownCustomer, inv.CustomerRef.Name)
	})
}

func TestNormalize_Lines(t *testing.T) {
	raw := RawInvoice{
		ID: "130",
		Line: []RawLine{
			{
				ID:          "1",
				LineNum:     1,
				Description: "Rock Fountain",
				Amount:      275,
				DetailType:  "SalesItemLineDetail",
				SalesItemLineDetail: &RawSalesItemDetail{
					ItemRef:   &RawItemRef{Value: "5", Name: "Rock Fountain"},
					UnitPrice: 275,
					Qty:       1,
				},
			},
			{Amount: 275, DetailType: "SubTotalLineDetail"},
			{ID: "2", SalesItemLineDetail: &RawSalesItemDetail{Qty: 2}},
		},
	}

	inv := Normalize(raw)
	require.Len(t, inv.Line, 3)

	first := inv.Line[0]
	require.NotNil(t, first.SalesItemLineDetail)
	assert.Equal(t, "Rock Fountain", first.SalesItemLineDetail.ItemRef.Name)
	assert.Equal(t, "5", first.SalesItemLineDetail.ItemRef.Value)
	assert.Equal(t, 275.0, first.SalesItemLineDetail.UnitPrice)

	subtotal := inv.Line[1]
	assert.Nil(t, subtotal.SalesItemLineDetail)
	assert.Equal(t, "", subtotal.ID)
	assert.Equal(t, "", subtotal.Description)

	partial := inv.Line[2]
	require.NotNil(t, partial.SalesItemLineDetail)
	assert.Equal(t, entity.ItemRef{}, partial.SalesItemLineDetail.ItemRef)
	assert.Equal(t, 2.0, partial.SalesItemLineDetail.Qty)
}

func TestNormalize_DecodesProviderJSON(t *testing.T) {
	payload := `{
		"Id": "145",
		"DocNumber": "1038",
		"TxnDate": "2024-03-01",
		"DueDate": "2024-03-31",
		"TotalAmt": 1200.5,
		"Balance": 200,
		"CustomerRef": {"value": "3", "name": "Cool Cars"},
		"CustomerMemo": {"value": "Thank you for your business"},
		"EmailStatus": "EmailSent",
		"DeliveryInfo": {"DeliveryType": "Email", "DeliveryTime": "2024-03-02T10:00:00-08:00"},
		"Line": []
	}`

	var raw RawInvoice
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	inv := Normalize(raw)
	assert.Equal(t, "1038", inv.DocNumber)
	assert.Equal(t, "Cool Cars", inv.CustomerName())
	assert.Equal(t, 1200.5, inv.TotalAmt)
	assert.Equal(t, 200.0, inv.Balance)
	assert.Equal(t, "Thank you for your business", inv.Memo())
	require.NotNil(t, inv.DeliveryInfo)
	assert.Equal(t, "Email", inv.DeliveryInfo.DeliveryType)
	assert.Equal(t, "EmailSent", inv.EmailStatus)
}

func TestNormalize_Idempotent(t *testing.T) {
	canonical := []entity.Invoice{
		Normalize(RawInvoice{ID: "1"}),
		Normalize(RawInvoice{
			ID:           "2",
			DocNumber:    "INV-2",
			TxnDate:      "2024-01-15",
			DueDate:      "2024-02-14",
			TotalAmt:     floatPtr(500),
			Balance:      floatPtr(0),
			CustomerRef:  &RawCustomerRef{Name: "Acme Corp"},
			CustomerMemo: &RawMemo{Value: ""},
			PrivateNote:  "net 30",
			Line: []RawLine{{
				ID:                  "1",
				LineNum:             1,
				Amount:              500,
				DetailType:          "SalesItemLineDetail",
				SalesItemLineDetail: &RawSalesItemDetail{ItemRef: &RawItemRef{Value: "9", Name: "Consulting"}, UnitPrice: 250, Qty: 2},
			}},
		}),
	}

	for _, inv := range canonical {
		t.Run(inv.DocNumber, func(t *testing.T) {
			data, err := json.Marshal(inv)
			require.NoError(t, err)

			var raw RawInvoice
			require.NoError(t, json.Unmarshal(data, &raw))

			assert.Equal(t, inv, Normalize(raw))
		})
	}
}

func TestFromDemoPost(t *testing.T) {
	now := time.Date(2024, time.May, 10, 15, 0, 0, 0, time.UTC)

	inv := FromDemoPost(DemoPost{ID: 3, Title: "qui est esse"}, now)

	assert.Equal(t, "3", inv.ID)
	assert.Equal(t, "INV-3", inv.DocNumber)
	assert.Equal(t, 300.0, inv.TotalAmt)
	assert.Equal(t, 300.0, inv.Balance)
	assert.Equal(t, "2024-05-10", inv.TxnDate)
	assert.Equal(t, "2024-06-09", inv.DueDate)
	assert.Equal(t, "Customer 3", inv.CustomerName())
	assert.Equal(t, "qui est esse", inv.Memo())
	assert.Empty(t, inv.Line)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$250.00", FormatAmount(250))
	assert.Equal(t, "$99.95", FormatAmount(99.95))

	assert.Equal(t, "1/15/2024", FormatDate("2024-01-15"))
	assert.Equal(t, "3/2/2024", FormatDate("2024-03-02T10:00:00-08:00"))
	assert.Equal(t, "soon", FormatDate("soon"))
	assert.Equal(t, "", FormatDate(""))
}
