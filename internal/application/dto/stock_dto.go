package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TakeStockRequest body for POST /api/stock/take.
type TakeStockRequest struct {
	StockID string `json:"stock_id"`
	Cases   int    `json:"cases"`
}

// AddStockRequest body for POST /api/stock/add.
type AddStockRequest struct {
	StockID string `json:"stock_id"`
	Cases   int    `json:"cases"`
}

// StockCountResponse updated count after a take or add.
type StockCountResponse struct {
	StockID      string `json:"stock_id"`
	CurrentCases int    `json:"current_cases"`
}

// AllocationEntryRequest one goods receipt in a bulk allocation.
type AllocationEntryRequest struct {
	LocationID  string          `json:"location_id"`
	ProductType string          `json:"product_type"`
	ProductName string          `json:"product_name"`
	Brand       string          `json:"brand"`
	PerCase     int             `json:"per_case"`
	RatePerCase decimal.Decimal `json:"rate_per_case"`
	Cases       int             `json:"cases"`
}

// BulkAllocateRequest body for POST /api/stock/bulk-allocate.
type BulkAllocateRequest struct {
	Entries []AllocationEntryRequest `json:"entries"`
}

// BulkAllocateResponse applied entry count (all-or-nothing batch).
type BulkAllocateResponse struct {
	AppliedCount int `json:"applied_count"`
}

// StockEventResponse one history entry.
type StockEventResponse struct {
	ID        string    `json:"id"`
	StockID   string    `json:"stock_id"`
	Action    string    `json:"action"`
	Cases     int       `json:"cases"`
	Items     int       `json:"items"`
	Reference string    `json:"reference,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StockRecordResponse availability snapshot row for a godown.
type StockRecordResponse struct {
	ID           string          `json:"id"`
	LocationID   string          `json:"location_id"`
	ProductType  string          `json:"product_type"`
	ProductName  string          `json:"product_name"`
	Brand        string          `json:"brand"`
	PerCase      int             `json:"per_case"`
	CurrentCases int             `json:"current_cases"`
	RatePerCase  decimal.Decimal `json:"rate_per_case"`
}
