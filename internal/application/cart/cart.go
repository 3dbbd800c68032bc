package cart

import (
	"github.com/shopspring/decimal"

	"github.com/Gokulkannan3/stock-manager/internal/domain"
	"github.com/Gokulkannan3/stock-manager/internal/domain/entity"
)

// Snapshot is the point-in-time view of one stock record the cart works
// against. Available is the count observed at selection time; the cart never
// locks stock, the real check happens again at commit.
type Snapshot struct {
	Product   entity.ProductRef
	Location  string
	Available int
}

// Line is one candidate order line while it is still being edited.
type Line struct {
	Snapshot        Snapshot
	Cases           int
	DiscountPercent decimal.Decimal
}

// Cart accumulates candidate lines against stock snapshots and enforces
// per-line bounds. It is the single authoritative assembler for an order:
// clamping and merge rules live here, nowhere else. Not safe for concurrent
// use; one cart belongs to one order in progress.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddLine adds a snapshot to the cart. Zero availability is rejected. A line
// for the same stock record gains one case, capped at the snapshot
// availability; otherwise a new line starts with one case and no discount.
func (c *Cart) AddLine(s Snapshot) error {
	if s.Product.StockID == "" {
		return domain.ErrInvalidInput
	}
	if s.Available <= 0 {
		return domain.ErrInsufficientStock
	}
	for i := range c.lines {
		if c.lines[i].Snapshot.Product.StockID == s.Product.StockID {
			if c.lines[i].Cases+1 <= c.lines[i].Snapshot.Available {
				c.lines[i].Cases++
			}
			return nil
		}
	}
	c.lines = append(c.lines, Line{Snapshot: s, Cases: 1, DiscountPercent: decimal.Zero})
	return nil
}

// UpdateCases sets the case count of a line, clamped into
// [1, snapshot availability]. Out-of-range input becomes the nearest bound
// rather than an error, to keep the interactive surface forgiving.
func (c *Cart) UpdateCases(index, cases int) error {
	if index < 0 || index >= len(c.lines) {
		return domain.ErrNotFound
	}
	if cases < 1 {
		cases = 1
	}
	if max := c.lines[index].Snapshot.Available; cases > max {
		cases = max
	}
	c.lines[index].Cases = cases
	return nil
}

// UpdateDiscount sets the per-line discount, clamped into [0, 100].
func (c *Cart) UpdateDiscount(index int, percent decimal.Decimal) error {
	if index < 0 || index >= len(c.lines) {
		return domain.ErrNotFound
	}
	if percent.IsNegative() {
		percent = decimal.Zero
	}
	if hundred := decimal.NewFromInt(100); percent.GreaterThan(hundred) {
		percent = hundred
	}
	c.lines[index].DiscountPercent = percent
	return nil
}

// RemoveLine drops a line by position.
func (c *Cart) RemoveLine(index int) error {
	if index < 0 || index >= len(c.lines) {
		return domain.ErrNotFound
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// Lines returns a copy of the current lines for display.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Finalize freezes the cart into an immutable draft: the lines are copied by
// value, so later cart edits cannot reach into a submitted order. Performs no
// stock ledger access.
func (c *Cart) Finalize(adjustments entity.Adjustments) entity.InvoiceDraft {
	lines := make([]entity.LineItem, 0, len(c.lines))
	for _, l := range c.lines {
		lines = append(lines, entity.LineItem{
			Product:         l.Snapshot.Product,
			Location:        l.Snapshot.Location,
			Cases:           l.Cases,
			DiscountPercent: l.DiscountPercent,
		})
	}
	return entity.InvoiceDraft{Lines: lines, Adjustments: adjustments}
}
