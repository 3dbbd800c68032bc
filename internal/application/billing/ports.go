package billing

import (
	"context"
	"time"

	"github.com/Gokulkannan3/stock-manager/internal/domain/entity"
	"github.com/Gokulkannan3/stock-manager/internal/domain/repository"
)

// BillingTxRunner runs fn inside one transaction spanning the stock ledger,
// the bill number sequence and the invoice tables. This is the atomicity
// boundary: a half-committed submission must be structurally impossible.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		eventRepo repository.StockEventRepository,
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.BillSequenceRepository,
	) error) error
}

// StockTaker is the ledger-side port: a single locked take executed with the
// caller's transaction-bound repositories. An error (e.g. insufficient stock)
// makes the caller roll back everything.
type StockTaker interface {
	TakeInTx(
		stockRepo repository.StockRepository,
		eventRepo repository.StockEventRepository,
		stockID string, cases int, actor, reference string, now time.Time,
	) (*entity.StockRecord, error)
}

// DocumentRenderer is the external document service: it receives the committed
// invoice and returns an opaque artifact reference (the printable bill). The
// core never renders documents itself; a rendering failure is logged, not
// rolled back.
type DocumentRenderer interface {
	Render(ctx context.Context, invoice *entity.Invoice, lines []*entity.InvoiceLine) (string, error)
}
