// Package mock holds the compiled-in demo dataset served when no live
// QuickBooks session exists.
package mock

import (
	"github.com/garyjia/invoice-assistant/internal/domain/entity"
	"github.com/garyjia/invoice-assistant/internal/invoice"
)

func amount(v float64) *float64 { return &v }

func salesLine(id string, num int, item, itemID, description string, unitPrice, qty float64) invoice.RawLine {
	return invoice.RawLine{
		ID:          id,
		LineNum:     num,
		Description: description,
		Amount:      unitPrice * qty,
		DetailType:  "SalesItemLineDetail",
		SalesItemLineDetail: &invoice.RawSalesItemDetail{
			ItemRef:   &invoice.RawItemRef{Value: itemID, Name: item},
			UnitPrice: unitPrice,
			Qty:       qty,
		},
	}
}

var records = []invoice.RawInvoice{
	{
		ID:          "1",
		DocNumber:   "INV-1",
		TxnDate:     "2024-01-15",
		DueDate:     "2024-02-14",
		TotalAmt:    amount(1500),
		Balance:     amount(1500),
		CustomerRef: &invoice.RawCustomerRef{Value: "1", Name: "Acme Corporation"},
		Line: []invoice.RawLine{
			salesLine("1", 1, "Consulting", "10", "Architecture review", 150, 10),
		},
		CustomerMemo: &invoice.RawMemo{Value: "Thank you for your business!"},
		EmailStatus:  "EmailSent",
		DeliveryInfo: &invoice.RawDeliveryInfo{DeliveryType: "Email", DeliveryTime: "2024-01-15T09:30:00-08:00"},
	},
	{
		ID:          "2",
		DocNumber:   "INV-2",
		TxnDate:     "2024-01-22",
		DueDate:     "2024-02-21",
		TotalAmt:    amount(2750),
		Balance:     amount(1000),
		CustomerRef: &invoice.RawCustomerRef{Value: "2", Name: "Globex Industries"},
		Line: []invoice.RawLine{
			salesLine("1", 1, "Hardware", "11", "Network switches", 450, 5),
			salesLine("2", 2, "Installation", "12", "On-site installation", 125, 4),
		},
		CustomerMemo: &invoice.RawMemo{Value: "Partial payment received"},
		PrivateNote:  "Remaining balance due on delivery of second batch",
		EmailStatus:  "EmailSent",
	},
	{
		ID:          "3",
		DocNumber:   "INV-3",
		TxnDate:     "2024-02-03",
		DueDate:     "2024-03-04",
		TotalAmt:    amount(850),
		Balance:     amount(0),
		CustomerRef: &invoice.RawCustomerRef{Value: "1", Name: "Acme Corporation"},
		Line: []invoice.RawLine{
			salesLine("1", 1, "Support", "13", "Monthly support plan", 850, 1),
		},
		EmailStatus: "NotSet",
	},
	{
		ID:          "4",
		DocNumber:   "INV-4",
		TxnDate:     "2024-02-17",
		DueDate:     "2024-03-18",
		TotalAmt:    amount(4200),
		Balance:     amount(4200),
		CustomerRef: &invoice.RawCustomerRef{Value: "3", Name: "Initech LLC"},
		Line: []invoice.RawLine{
			salesLine("1", 1, "Software License", "14", "Annual license, 12 seats", 350, 12),
		},
		CustomerMemo: &invoice.RawMemo{Value: "License period Feb 2024 - Jan 2025"},
		EmailStatus:  "NeedToSend",
	},
	{
		ID:          "5",
		DocNumber:   "INV-5",
		TxnDate:     "2024-03-05",
		DueDate:     "2024-04-04",
		TotalAmt:    amount(620),
		CustomerRef: &invoice.RawCustomerRef{Value: "4", Name: "Umbrella Health"},
		Line: []invoice.RawLine{
			salesLine("1", 1, "Training", "15", "Half-day onboarding workshop", 620, 1),
		},
	},
}

// Invoices returns a fresh copy of the compiled-in dataset
func Invoices() []entity.Invoice {
	return invoice.NormalizeAll(records)
}
