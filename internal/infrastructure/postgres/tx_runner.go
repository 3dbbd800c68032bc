package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gokulkannan3/stock-manager/internal/application/billing"
	"github.com/Gokulkannan3/stock-manager/internal/application/stock"
	"github.com/Gokulkannan3/stock-manager/internal/domain/repository"
)

// Ensure TxRunner implements stock.TxRunner and billing.BillingTxRunner.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner executes callbacks inside a PostgreSQL transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner on the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run begins a transaction, executes fn with tx-bound ledger repositories and
// commits, or rolls back on error.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	eventRepo repository.StockEventRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockRepository(tx), NewStockEventRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunBilling begins a transaction spanning ledger, invoice and bill-number
// repositories (for order submission).
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	eventRepo repository.StockEventRepository,
	invoiceRepo repository.InvoiceRepository,
	seqRepo repository.BillSequenceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewStockRepository(tx),
		NewStockEventRepository(tx),
		NewInvoiceRepository(tx),
		NewBillSequenceRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
