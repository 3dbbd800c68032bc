package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock event actions.
const (
	StockActionAdded = "added" // cases received into a godown
	StockActionTaken = "taken" // cases removed (dispatch or booking)
)

// StockRecord is the current stock of one product in one godown.
// Created on first allocation; mutated only through Take/Add; never deleted
// (cases may fall to zero and stay there). CurrentCases never goes below zero.
type StockRecord struct {
	ID           string
	LocationID   string
	ProductType  string
	ProductName  string
	Brand        string
	PerCase      int // individual items per case
	CurrentCases int
	RatePerCase  decimal.Decimal
	UpdatedAt    time.Time
}

// StockEvent is one append-only ledger entry. Items is cases*per_case frozen
// at event time, so later changes to the record do not rewrite history.
type StockEvent struct {
	ID        string
	StockID   string
	Action    string // added | taken
	Cases     int
	Items     int
	Reference string // bill number or adjustment note, empty for plain take/add
	Actor     string
	CreatedAt time.Time
}
