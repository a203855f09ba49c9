package entity

// Invoice is the canonical invoice record used throughout the application.
// JSON names follow the QuickBooks Online wire format so every data source
// renders the same shape to clients.
type Invoice struct {
	ID           string        `json:"Id"`
	DocNumber    string        `json:"DocNumber"`
	TxnDate      string        `json:"TxnDate"`
	DueDate      string        `json:"DueDate"`
	TotalAmt     float64       `json:"TotalAmt"`
	Balance      float64       `json:"Balance"`
	CustomerRef  CustomerRef   `json:"CustomerRef"`
	Line         []LineItem    `json:"Line"`
	CustomerMemo *CustomerMemo `json:"CustomerMemo,omitempty"`
	PrivateNote  string        `json:"PrivateNote,omitempty"`
	EmailStatus  string        `json:"EmailStatus,omitempty"`
	DeliveryInfo *DeliveryInfo `json:"DeliveryInfo,omitempty"`
}

// CustomerRef names the billed party
type CustomerRef struct {
	Name string `json:"name"`
}

// CustomerMemo is the customer-facing note printed on an invoice
type CustomerMemo struct {
	Value string `json:"value"`
}

// DeliveryInfo records how and when an invoice was delivered
type DeliveryInfo struct {
	DeliveryType string `json:"DeliveryType,omitempty"`
	DeliveryTime string `json:"DeliveryTime,omitempty"`
}

// LineItem is a single line of an invoice
type LineItem struct {
	ID                  string           `json:"Id"`
	LineNum             int              `json:"LineNum"`
	Description         string           `json:"Description"`
	Amount              float64          `json:"Amount"`
	DetailType          string           `json:"DetailType"`
	SalesItemLineDetail *SalesItemDetail `json:"SalesItemLineDetail,omitempty"`
}

// SalesItemDetail describes the product or service sold on a line
type SalesItemDetail struct {
	ItemRef   ItemRef `json:"ItemRef"`
	UnitPrice float64 `json:"UnitPrice"`
	Qty       float64 `json:"Qty"`
}

// ItemRef references a catalog item
type ItemRef struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

// CustomerName returns the display name of the billed party.
func (i *Invoice) CustomerName() string {
	return i.CustomerRef.Name
}

// Memo returns the customer memo text, or "" when the invoice has none.
func (i *Invoice) Memo() string {
	if i.CustomerMemo == nil {
		return ""
	}
	return i.CustomerMemo.Value
}
