// Package api holds the wire contract of the receiptsplit LedgerService:
// JSON message types, procedure names, the Connect handler constructor and
// a typed client.
//
// Monetary values are float64. Non-finite values are sent as 0.
package api

// Payer is a person in the shared ledger.
type Payer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Receipts  []Receipt `json:"receipts"`
	AmountDue float64   `json:"amountDue"`
}

// Receipt is one purchase made by a payer.
type Receipt struct {
	ID       int64         `json:"id"`
	PayerID  int64         `json:"payerId"`
	Name     string        `json:"name"`
	Items    []ReceiptItem `json:"items"`
	Total    float64       `json:"total"`
	Itemized bool          `json:"itemized"`
}

// ReceiptItem is a line item of a receipt.
type ReceiptItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Balance is a payer's position in the settlement.
// Positive AmountDue means the payer is owed money.
type Balance struct {
	PayerID     int64   `json:"payerId"`
	Name        string  `json:"name"`
	Contributed float64 `json:"contributed"`
	AmountDue   float64 `json:"amountDue"`
}

// Transfer is one payment that settles part of the group.
type Transfer struct {
	From   int64   `json:"from"`
	To     int64   `json:"to"`
	Amount float64 `json:"amount"`
}

// Settlement is the derived state of the whole ledger.
type Settlement struct {
	GroupTotal float64    `json:"groupTotal"`
	EqualShare float64    `json:"equalShare"`
	Balances   []Balance  `json:"balances"`
	Transfers  []Transfer `json:"transfers"`
}

// TaxRates are the sales tax rates applied by GetReceiptTaxes.
type TaxRates struct {
	TPS float64 `json:"tps"`
	TVQ float64 `json:"tvq"`
}

// TaxBreakdown shows a receipt total with taxes applied.
type TaxBreakdown struct {
	Subtotal float64 `json:"subtotal"`
	TPS      float64 `json:"tps"`
	TVQ      float64 `json:"tvq"`
	Total    float64 `json:"total"`
}

type GetPayerRequest struct {
	PayerID int64 `json:"payerId"`
}

type AddPayerRequest struct {
	Name string `json:"name"`
}

type RenamePayerRequest struct {
	PayerID int64  `json:"payerId"`
	Name    string `json:"name"`
}

type RemovePayerRequest struct {
	PayerID int64 `json:"payerId"`
}

type AddReceiptRequest struct {
	PayerID int64 `json:"payerId"`
}

type GetReceiptRequest struct {
	ReceiptID int64 `json:"receiptId"`
}

type RenameReceiptRequest struct {
	ReceiptID int64  `json:"receiptId"`
	Name      string `json:"name"`
}

type UpdateReceiptTotalRequest struct {
	PayerID   int64   `json:"payerId"`
	ReceiptID int64   `json:"receiptId"`
	Total     float64 `json:"total"`
}

type RemoveReceiptRequest struct {
	PayerID   int64 `json:"payerId"`
	ReceiptID int64 `json:"receiptId"`
}

type ItemizeReceiptRequest struct {
	ReceiptID int64 `json:"receiptId"`
}

type AddReceiptItemRequest struct {
	ReceiptID int64   `json:"receiptId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

// UpdateReceiptItemRequest changes only the fields that are set.
type UpdateReceiptItemRequest struct {
	ReceiptID int64    `json:"receiptId"`
	ItemID    string   `json:"itemId"`
	Name      *string  `json:"name,omitempty"`
	Price     *float64 `json:"price,omitempty"`
}

type RemoveReceiptItemRequest struct {
	ReceiptID int64  `json:"receiptId"`
	ItemID    string `json:"itemId"`
}

type GetReceiptTaxesRequest struct {
	ReceiptID int64 `json:"receiptId"`
}

type CommitReceiptTaxesRequest struct {
	PayerID   int64 `json:"payerId"`
	ReceiptID int64 `json:"receiptId"`
}

// ListPayersResponse lists payers ordered by ID.
type ListPayersResponse struct {
	Payers     []Payer    `json:"payers"`
	Settlement Settlement `json:"settlement"`
}

type PayerResponse struct {
	Payer      Payer      `json:"payer"`
	Settlement Settlement `json:"settlement"`
}

type ReceiptResponse struct {
	Receipt    Receipt    `json:"receipt"`
	Settlement Settlement `json:"settlement"`
}

type ItemResponse struct {
	Item       ReceiptItem `json:"item"`
	Receipt    Receipt     `json:"receipt"`
	Settlement Settlement  `json:"settlement"`
}

type SettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}

type ReceiptTaxesResponse struct {
	ReceiptID int64        `json:"receiptId"`
	Rates     TaxRates     `json:"rates"`
	Taxes     TaxBreakdown `json:"taxes"`
}
