package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Gokulkannan3/stock-manager/internal/application/billing"
	"github.com/Gokulkannan3/stock-manager/internal/application/cart"
	"github.com/Gokulkannan3/stock-manager/internal/application/dto"
	"github.com/Gokulkannan3/stock-manager/internal/domain"
	"github.com/Gokulkannan3/stock-manager/internal/domain/entity"
)

// BookingHandler serves order submission and invoice lookup.
type BookingHandler struct {
	submit *billing.SubmitOrderUseCase
}

// NewBookingHandler builds the handler.
func NewBookingHandler(submit *billing.SubmitOrderUseCase) *BookingHandler {
	return &BookingHandler{submit: submit}
}

// Create assembles the request items through a cart, then submits the
// finalized draft. The cart clamps cases and discounts against the
// availability the client observed; the ledger re-checks under lock at commit.
// Clients may send X-Idempotency-Key to make retries safe.
// POST /api/bookings
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBookingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}

	ct := cart.New()
	for i, item := range in.Items {
		snap := cart.Snapshot{
			Product: entity.ProductRef{
				StockID:     item.StockID,
				ProductType: item.ProductType,
				ProductName: item.ProductName,
				Brand:       item.Brand,
				PerCase:     item.PerCase,
				RatePerCase: item.RatePerCase,
			},
			Location:  item.Godown,
			Available: item.CurrentCases,
		}
		if err := ct.AddLine(snap); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
					Code:      "INSUFFICIENT_STOCK",
					Message:   "item " + strconv.Itoa(i) + " has no available stock",
					Retryable: true,
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
		}
		idx := lineIndex(ct, item.StockID)
		if err := ct.UpdateCases(idx, item.Cases); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
		}
		if err := ct.UpdateDiscount(idx, item.DiscountPercent); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
		}
	}

	draft := ct.Finalize(entity.Adjustments{
		ApplyPackingFee:           in.ApplyPackingFee,
		PackingPercent:            in.PackingPercent,
		AdditionalDiscountPercent: in.AdditionalDiscount,
		ExtraTaxableAmount:        in.TaxableValue,
		ApplyCGST:                 in.ApplyCGST,
		ApplySGST:                 in.ApplySGST,
		ApplyIGST:                 in.ApplyIGST,
	})

	result, err := h.submit.Submit(c.Context(), billing.SubmitOrderInput{
		Customer: entity.Customer{
			Name:      in.CustomerName,
			Address:   in.Address,
			GSTIN:     in.GSTIN,
			LRNumber:  in.LRNumber,
			AgentName: in.AgentName,
			From:      in.From,
			To:        in.To,
			Through:   in.Through,
		},
		Draft:          draft,
		Actor:          GetActor(c),
		IdempotencyKey: c.Get("X-Idempotency-Key"),
	})
	if err != nil {
		return bookingError(c, err)
	}

	status := fiber.StatusCreated
	if result.Replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(dto.BookingResponse{
		BillNumber:  result.BillNumber,
		Totals:      totalsResponse(result.Totals),
		ArtifactRef: result.ArtifactRef,
		Replayed:    result.Replayed,
	})
}

// GetByBillNumber returns a stored bill with its lines.
// GET /api/bookings/:bill_number
func (h *BookingHandler) GetByBillNumber(c *fiber.Ctx) error {
	billNumber, err := strconv.ParseInt(c.Params("bill_number"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "bill number must be an integer"})
	}
	inv, lines, err := h.submit.GetInvoice(c.Context(), billNumber)
	if err != nil {
		return bookingError(c, err)
	}

	outLines := make([]dto.BookingLineResponse, 0, len(lines))
	for _, l := range lines {
		outLines = append(outLines, dto.BookingLineResponse{
			StockID:         l.StockID,
			ProductType:     l.ProductType,
			ProductName:     l.ProductName,
			Brand:           l.Brand,
			Location:        l.Location,
			PerCase:         l.PerCase,
			Cases:           l.Cases,
			RatePerCase:     l.RatePerCase,
			DiscountPercent: l.DiscountPercent,
			LineTotal:       l.LineTotal,
		})
	}
	return c.JSON(dto.InvoiceResponse{
		BillNumber:   inv.BillNumber,
		CustomerName: inv.Customer.Name,
		Address:      inv.Customer.Address,
		GSTIN:        inv.Customer.GSTIN,
		LRNumber:     inv.Customer.LRNumber,
		AgentName:    inv.Customer.AgentName,
		From:         inv.Customer.From,
		To:           inv.Customer.To,
		Through:      inv.Customer.Through,
		Totals:       totalsResponse(inv.Totals),
		Lines:        outLines,
		CreatedAt:    inv.CreatedAt,
		CreatedBy:    inv.CreatedBy,
	})
}

// lineIndex finds the cart line for a stock id. Duplicate items merge into one
// line, so the target is not always the newest line.
func lineIndex(ct *cart.Cart, stockID string) int {
	for i, l := range ct.Lines() {
		if l.Snapshot.Product.StockID == stockID {
			return i
		}
	}
	return -1
}

func totalsResponse(t entity.InvoiceTotals) dto.TotalsResponse {
	return dto.TotalsResponse{
		Subtotal:            t.Subtotal,
		PackingCharges:      t.PackingCharges,
		SubtotalWithPacking: t.SubtotalWithPacking,
		TaxableUsed:         t.TaxableUsed,
		AdditionalDiscount:  t.AdditionalDiscount,
		NetBeforeTax:        t.NetBeforeTax,
		CGST:                t.CGST,
		SGST:                t.SGST,
		IGST:                t.IGST,
		TotalTax:            t.TotalTax,
		RoundOff:            t.RoundOff,
		GrandTotal:          t.GrandTotal,
		TotalCases:          t.TotalCases,
	}
}

func bookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error(), Retryable: true})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error(), Retryable: true})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "bill not found"})
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrArithmetic):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PRICING", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
