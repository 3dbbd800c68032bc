package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingItemRequest one order line as the console sends it: the product
// snapshot taken at selection time plus the chosen cases and discount.
// CurrentCases is the availability observed at selection; the cart clamps
// against it, the ledger re-checks at commit.
type BookingItemRequest struct {
	StockID         string          `json:"stock_id"`
	ProductType     string          `json:"product_type"`
	ProductName     string          `json:"product_name"`
	Brand           string          `json:"brand"`
	Godown          string          `json:"godown"`
	PerCase         int             `json:"per_case"`
	CurrentCases    int             `json:"current_cases"`
	Cases           int             `json:"cases"`
	RatePerCase     decimal.Decimal `json:"rate_per_case"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// CreateBookingRequest body for POST /api/bookings.
// TaxableValue is the manual extra taxable amount, added on top of
// subtotal+packing when present.
type CreateBookingRequest struct {
	CustomerName       string           `json:"customer_name"`
	Address            string           `json:"address"`
	GSTIN              string           `json:"gstin"`
	LRNumber           string           `json:"lr_number"`
	AgentName          string           `json:"agent_name"`
	From               string           `json:"from"`
	To                 string           `json:"to"`
	Through            string           `json:"through"`
	PackingPercent     decimal.Decimal  `json:"packing_percent"`
	ApplyPackingFee    bool             `json:"apply_packing_fee"`
	AdditionalDiscount decimal.Decimal  `json:"additional_discount"`
	TaxableValue       *decimal.Decimal `json:"taxable_value"`
	ApplyCGST          bool             `json:"apply_cgst"`
	ApplySGST          bool             `json:"apply_sgst"`
	ApplyIGST          bool             `json:"apply_igst"`
	Items              []BookingItemRequest `json:"items"`
}

// TotalsResponse the full pricing breakdown of a bill.
type TotalsResponse struct {
	Subtotal            decimal.Decimal `json:"subtotal"`
	PackingCharges      decimal.Decimal `json:"packing_charges"`
	SubtotalWithPacking decimal.Decimal `json:"subtotal_with_packing"`
	TaxableUsed         decimal.Decimal `json:"taxable_used"`
	AdditionalDiscount  decimal.Decimal `json:"additional_discount"`
	NetBeforeTax        decimal.Decimal `json:"net_before_tax"`
	CGST                decimal.Decimal `json:"cgst"`
	SGST                decimal.Decimal `json:"sgst"`
	IGST                decimal.Decimal `json:"igst"`
	TotalTax            decimal.Decimal `json:"total_tax"`
	RoundOff            decimal.Decimal `json:"round_off"`
	GrandTotal          decimal.Decimal `json:"grand_total"`
	TotalCases          int             `json:"total_cases"`
}

// BookingResponse returned on a successful submission.
type BookingResponse struct {
	BillNumber  int64          `json:"bill_number"`
	Totals      TotalsResponse `json:"totals"`
	ArtifactRef string         `json:"artifact_ref,omitempty"`
	Replayed    bool           `json:"replayed,omitempty"`
}

// BookingLineResponse one frozen line of a stored bill.
type BookingLineResponse struct {
	StockID         string          `json:"stock_id"`
	ProductType     string          `json:"product_type"`
	ProductName     string          `json:"product_name"`
	Brand           string          `json:"brand"`
	Location        string          `json:"location"`
	PerCase         int             `json:"per_case"`
	Cases           int             `json:"cases"`
	RatePerCase     decimal.Decimal `json:"rate_per_case"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// InvoiceResponse a stored bill with its lines, for GET /api/bookings/:bill_number.
type InvoiceResponse struct {
	BillNumber   int64                 `json:"bill_number"`
	CustomerName string                `json:"customer_name"`
	Address      string                `json:"address,omitempty"`
	GSTIN        string                `json:"gstin,omitempty"`
	LRNumber     string                `json:"lr_number,omitempty"`
	AgentName    string                `json:"agent_name,omitempty"`
	From         string                `json:"from"`
	To           string                `json:"to"`
	Through      string                `json:"through"`
	Totals       TotalsResponse        `json:"totals"`
	Lines        []BookingLineResponse `json:"lines"`
	CreatedAt    time.Time             `json:"created_at"`
	CreatedBy    string                `json:"created_by,omitempty"`
}
