// Package invoice maps raw provider and demo records into the canonical
// entity.Invoice shape and formats invoice values for display.
package invoice

import (
	"strconv"
	"time"

	"github.com/garyjia/invoice-assistant/internal/domain/entity"
)

// UnknownCustomer is used when a record carries no customer name
const UnknownCustomer = "Unknown Customer"

// RawInvoice is an invoice as returned by the QuickBooks Online API.
// Pointer fields distinguish "absent" from a zero value.
type RawInvoice struct {
	ID           string           `json:"Id"`
	DocNumber    string           `json:"DocNumber"`
	TxnDate      string           `json:"TxnDate"`
	DueDate      string           `json:"DueDate"`
	TotalAmt     *float64         `json:"TotalAmt"`
	Balance      *float64         `json:"Balance"`
	CustomerRef  *RawCustomerRef  `json:"CustomerRef"`
	Line         []RawLine        `json:"Line"`
	CustomerMemo *RawMemo         `json:"CustomerMemo"`
	PrivateNote  string           `json:"PrivateNote"`
	EmailStatus  string           `json:"EmailStatus"`
	DeliveryInfo *RawDeliveryInfo `json:"DeliveryInfo"`
}

// RawCustomerRef is the QuickBooks reference to the billed customer
type RawCustomerRef struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

// RawMemo is a QuickBooks memo block
type RawMemo struct {
	Value string `json:"value"`
}

// RawDeliveryInfo is the QuickBooks delivery block
type RawDeliveryInfo struct {
	DeliveryType string `json:"DeliveryType"`
	DeliveryTime string `json:"DeliveryTime"`
}

// RawLine is a QuickBooks invoice line
type RawLine struct {
	ID                  string              `json:"Id"`
	LineNum             int                 `json:"LineNum"`
	Description         string              `json:"Description"`
	Amount              float64             `json:"Amount"`
	DetailType          string              `json:"DetailType"`
	SalesItemLineDetail *RawSalesItemDetail `json:"SalesItemLineDetail"`
}

// RawSalesItemDetail is the sales item block of a QuickBooks line
type RawSalesItemDetail struct {
	ItemRef   *RawItemRef `json:"ItemRef"`
	UnitPrice float64     `json:"UnitPrice"`
	Qty       float64     `json:"Qty"`
}

// RawItemRef references a QuickBooks catalog item
type RawItemRef struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

// DemoPost is a record from the demo feed (a jsonplaceholder-style /posts endpoint)
type DemoPost struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Normalize converts a raw provider record into the canonical invoice.
// Missing fields degrade to defaults; it never fails.
func Normalize(raw RawInvoice) entity.Invoice {
	inv := entity.Invoice{
		ID:          raw.ID,
		DocNumber:   raw.DocNumber,
		TxnDate:     raw.TxnDate,
		DueDate:     raw.DueDate,
		PrivateNote: raw.PrivateNote,
		EmailStatus: raw.EmailStatus,
		CustomerRef: entity.CustomerRef{Name: UnknownCustomer},
		Line:        make([]entity.LineItem, 0, len(raw.Line)),
	}

	if inv.DocNumber == "" {
		inv.DocNumber = "INV-" + raw.ID
	}
	if raw.TotalAmt != nil {
		inv.TotalAmt = *raw.TotalAmt
	}
	inv.Balance = inv.TotalAmt
	if raw.Balance != nil {
		inv.Balance = *raw.Balance
	}
	if raw.CustomerRef != nil && raw.CustomerRef.Name != "" {
		inv.CustomerRef.Name = raw.CustomerRef.Name
	}

	for _, line := range raw.Line {
		inv.Line = append(inv.Line, normalizeLine(line))
	}

	if raw.CustomerMemo != nil {
		inv.CustomerMemo = &entity.CustomerMemo{Value: raw.CustomerMemo.Value}
	}
	if raw.DeliveryInfo != nil {
		inv.DeliveryInfo = &entity.DeliveryInfo{
			DeliveryType: raw.DeliveryInfo.DeliveryType,
			DeliveryTime: raw.DeliveryInfo.DeliveryTime,
		}
	}

	return inv
}

func normalizeLine(line RawLine) entity.LineItem {
	item := entity.LineItem{
		ID:          line.ID,
		LineNum:     line.LineNum,
		Description: line.Description,
		Amount:      line.Amount,
		DetailType:  line.DetailType,
	}

	if detail := line.SalesItemLineDetail; detail != nil {
		item.SalesItemLineDetail = &entity.SalesItemDetail{
			UnitPrice: detail.UnitPrice,
			Qty:       detail.Qty,
		}
		if detail.ItemRef != nil {
			item.SalesItemLineDetail.ItemRef = entity.ItemRef{
				Value: detail.ItemRef.Value,
				Name:  detail.ItemRef.Name,
			}
		}
	}

	return item
}

// NormalizeAll normalizes a batch of raw records, preserving order
func NormalizeAll(raws []RawInvoice) []entity.Invoice {
	invoices := make([]entity.Invoice, 0, len(raws))
	for _, raw := range raws {
		invoices = append(invoices, Normalize(raw))
	}
	return invoices
}

// FromDemoPost derives a deterministic invoice from a demo feed record.
// Amounts scale with the id, the invoice is dated today and due in 30 days.
func FromDemoPost(post DemoPost, now time.Time) entity.Invoice {
	id := strconv.Itoa(post.ID)
	amount := float64(post.ID * 100)

	return Normalize(RawInvoice{
		ID:           id,
		DocNumber:    "INV-" + id,
		TxnDate:      now.Format(DateLayout),
		DueDate:      now.AddDate(0, 0, 30).Format(DateLayout),
		TotalAmt:     &amount,
		Balance:      &amount,
		CustomerRef:  &RawCustomerRef{Name: "Customer " + id},
		CustomerMemo: &RawMemo{Value: post.Title},
	})
}
