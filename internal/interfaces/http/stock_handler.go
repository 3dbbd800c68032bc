package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Gokulkannan3/stock-manager/internal/application/dto"
	"github.com/Gokulkannan3/stock-manager/internal/application/stock"
	"github.com/Gokulkannan3/stock-manager/internal/domain"
)

// StockHandler serves the stock ledger endpoints.
type StockHandler struct {
	ledger *stock.Ledger
}

// NewStockHandler builds the handler.
func NewStockHandler(ledger *stock.Ledger) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// Take removes cases from a record.
// POST /api/stock/take
func (h *StockHandler) Take(c *fiber.Ctx) error {
	var in dto.TakeStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	remaining, err := h.ledger.Take(c.Context(), in.StockID, in.Cases, GetActor(c))
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(dto.StockCountResponse{StockID: in.StockID, CurrentCases: remaining})
}

// Add puts cases back onto an existing record.
// POST /api/stock/add
func (h *StockHandler) Add(c *fiber.Ctx) error {
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	current, err := h.ledger.Add(c.Context(), in.StockID, in.Cases, GetActor(c))
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(dto.StockCountResponse{StockID: in.StockID, CurrentCases: current})
}

// BulkAllocate applies a batch of goods receipts, all-or-nothing.
// POST /api/stock/bulk-allocate
func (h *StockHandler) BulkAllocate(c *fiber.Ctx) error {
	var in dto.BulkAllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	entries := make([]stock.Allocation, 0, len(in.Entries))
	for _, e := range in.Entries {
		entries = append(entries, stock.Allocation{
			LocationID:  e.LocationID,
			ProductType: e.ProductType,
			ProductName: e.ProductName,
			Brand:       e.Brand,
			PerCase:     e.PerCase,
			RatePerCase: e.RatePerCase,
			Cases:       e.Cases,
		})
	}
	applied, err := h.ledger.BulkAllocate(c.Context(), entries, GetActor(c))
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.BulkAllocateResponse{AppliedCount: applied})
}

// History returns the event trail of a record, oldest first.
// GET /api/stock/:id/history
func (h *StockHandler) History(c *fiber.Ctx) error {
	events, err := h.ledger.History(c.Context(), c.Params("id"))
	if err != nil {
		return stockError(c, err)
	}
	out := make([]dto.StockEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, dto.StockEventResponse{
			ID:        ev.ID,
			StockID:   ev.StockID,
			Action:    ev.Action,
			Cases:     ev.Cases,
			Items:     ev.Items,
			Reference: ev.Reference,
			Actor:     ev.Actor,
			CreatedAt: ev.CreatedAt,
		})
	}
	return c.JSON(out)
}

// Snapshot returns the current availability of every record in a godown.
// GET /api/locations/:id/stock
func (h *StockHandler) Snapshot(c *fiber.Ctx) error {
	records, err := h.ledger.Snapshot(c.Context(), c.Params("id"))
	if err != nil {
		return stockError(c, err)
	}
	out := make([]dto.StockRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.StockRecordResponse{
			ID:           r.ID,
			LocationID:   r.LocationID,
			ProductType:  r.ProductType,
			ProductName:  r.ProductName,
			Brand:        r.Brand,
			PerCase:      r.PerCase,
			CurrentCases: r.CurrentCases,
			RatePerCase:  r.RatePerCase,
		})
	}
	return c.JSON(out)
}

func stockError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "insufficient stock", Retryable: true})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "stock record not found"})
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
