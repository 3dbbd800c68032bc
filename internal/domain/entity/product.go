package entity

import "github.com/shopspring/decimal"

// ProductRef is the typed product identity resolved once at selection time and
// carried immutably through the cart into the invoice. StockID pins the
// (godown, product) pair the cases come from.
type ProductRef struct {
	StockID     string
	ProductType string
	ProductName string
	Brand       string
	PerCase     int
	RatePerCase decimal.Decimal
}
