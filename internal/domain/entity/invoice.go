package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer holds the party and transport fields printed on the bill.
// Name, From, To and Through are mandatory at submission.
type Customer struct {
	Name      string `validate:"required"`
	Address   string
	GSTIN     string
	LRNumber  string
	AgentName string
	From      string `validate:"required"`
	To        string `validate:"required"`
	Through   string `validate:"required"`
}

// LineItem is one frozen order line: product identity snapshot plus the cases
// booked and the per-line discount. Owned by the cart until finalized, then
// copied by value into the invoice.
type LineItem struct {
	Product         ProductRef
	Location        string
	Cases           int
	DiscountPercent decimal.Decimal
}

// Adjustments are the order-level pricing knobs applied after the line totals.
// ExtraTaxableAmount, when set, is added on top of subtotal+packing; it never
// replaces the computed value.
type Adjustments struct {
	ApplyPackingFee           bool
	PackingPercent            decimal.Decimal
	AdditionalDiscountPercent decimal.Decimal
	ExtraTaxableAmount        *decimal.Decimal
	ApplyCGST                 bool
	ApplySGST                 bool
	ApplyIGST                 bool
}

// InvoiceDraft is the immutable output of Cart.Finalize: the ordered lines and
// the adjustment parameters, ready for pricing and submission.
type InvoiceDraft struct {
	Lines       []LineItem
	Adjustments Adjustments
}

// InvoiceTotals is the computed breakdown. GrandTotal is whole currency units;
// RoundOff is the signed residual GrandTotal - net (always |RoundOff| < 1).
type InvoiceTotals struct {
	Subtotal            decimal.Decimal
	PackingCharges      decimal.Decimal
	SubtotalWithPacking decimal.Decimal
	TaxableUsed         decimal.Decimal
	AdditionalDiscount  decimal.Decimal
	NetBeforeTax        decimal.Decimal
	CGST                decimal.Decimal
	SGST                decimal.Decimal
	IGST                decimal.Decimal
	TotalTax            decimal.Decimal
	RoundOff            decimal.Decimal
	GrandTotal          decimal.Decimal
	TotalCases          int
}

// Invoice is the persisted bill: monotonic number, customer, frozen totals.
type Invoice struct {
	BillNumber     int64
	Customer       Customer
	Totals         InvoiceTotals
	IdempotencyKey string
	CreatedAt      time.Time
	CreatedBy      string
}

// InvoiceLine is one persisted line of an invoice, a value copy of the
// LineItem it was frozen from.
type InvoiceLine struct {
	ID              string
	BillNumber      int64
	StockID         string
	ProductType     string
	ProductName     string
	Brand           string
	Location        string
	PerCase         int
	Cases           int
	RatePerCase     decimal.Decimal
	DiscountPercent decimal.Decimal
	LineTotal       decimal.Decimal
}
