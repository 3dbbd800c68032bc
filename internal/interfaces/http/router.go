package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Gokulkannan3/stock-manager/internal/application/billing"
	"github.com/Gokulkannan3/stock-manager/internal/application/stock"
)

// RouterDeps are the wired use cases the router serves.
type RouterDeps struct {
	Ledger      *stock.Ledger
	SubmitOrder *billing.SubmitOrderUseCase
	JWTSecret   string
}

// Router registers the API routes. Every route passes the actor middleware;
// requests without a token proceed anonymously.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", ActorMiddleware(deps.JWTSecret))

	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Ledger)
	stockGroup.Post("/take", stockHandler.Take)
	stockGroup.Post("/add", stockHandler.Add)
	stockGroup.Post("/bulk-allocate", stockHandler.BulkAllocate)
	stockGroup.Get("/:id/history", stockHandler.History)

	api.Get("/locations/:id/stock", stockHandler.Snapshot)

	bookings := api.Group("/bookings")
	bookingHandler := NewBookingHandler(deps.SubmitOrder)
	bookings.Post("/", bookingHandler.Create)
	bookings.Get("/:bill_number", bookingHandler.GetByBillNumber)
}
