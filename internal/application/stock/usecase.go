package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Gokulkannan3/stock-manager/internal/domain"
	"github.com/Gokulkannan3/stock-manager/internal/domain/entity"
	"github.com/Gokulkannan3/stock-manager/internal/domain/repository"
)

// Ledger owns per-product-per-godown stock counts and the append-only event
// history. Every mutation runs inside a transaction with the record row locked
// (SELECT FOR UPDATE), so the availability check and the decrement are one
// atomic step and a count can never be observed below zero.
type Ledger struct {
	txRunner  TxRunner
	stockRepo repository.StockRepository      // pool-bound, reads only
	eventRepo repository.StockEventRepository // pool-bound, reads only
}

// NewLedger builds the ledger. The two repositories are used for lock-free
// reads (History, snapshots); mutations go through the TxRunner.
func NewLedger(txRunner TxRunner, stockRepo repository.StockRepository, eventRepo repository.StockEventRepository) *Ledger {
	return &Ledger{txRunner: txRunner, stockRepo: stockRepo, eventRepo: eventRepo}
}

// Allocation is one goods receipt: full product identity plus cases, so the
// (godown, product) record can be created on first allocation.
type Allocation struct {
	LocationID  string
	ProductType string
	ProductName string
	Brand       string
	PerCase     int
	RatePerCase decimal.Decimal
	Cases       int
}

// Take removes cases from a record. Fails ErrInsufficientStock when cases <= 0
// or cases exceed the current count, leaving the record untouched. Returns the
// updated count. Actor is recorded on the event, never read from ambient state.
func (l *Ledger) Take(ctx context.Context, stockID string, cases int, actor string) (int, error) {
	if stockID == "" {
		return 0, domain.ErrInvalidInput
	}
	var remaining int
	err := l.txRunner.Run(ctx, func(stockRepo repository.StockRepository, eventRepo repository.StockEventRepository) error {
		rec, err := l.TakeInTx(stockRepo, eventRepo, stockID, cases, actor, "", time.Now())
		if err != nil {
			return err
		}
		remaining = rec.CurrentCases
		return nil
	})
	return remaining, err
}

// TakeInTx performs a take with the caller's transaction-bound repositories,
// so order submission can decrement several records atomically. Reference ties
// the taken event to the bill it was consumed by.
func (l *Ledger) TakeInTx(
	stockRepo repository.StockRepository,
	eventRepo repository.StockEventRepository,
	stockID string, cases int, actor, reference string, now time.Time,
) (*entity.StockRecord, error) {
	rec, err := stockRepo.GetForUpdate(stockID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if cases <= 0 || cases > rec.CurrentCases {
		return nil, domain.ErrInsufficientStock
	}
	rec.CurrentCases -= cases
	rec.UpdatedAt = now
	if err := stockRepo.UpdateCases(rec.ID, rec.CurrentCases); err != nil {
		return nil, err
	}
	event := &entity.StockEvent{
		StockID:   rec.ID,
		Action:    entity.StockActionTaken,
		Cases:     cases,
		Items:     cases * rec.PerCase,
		Reference: reference,
		Actor:     actor,
		CreatedAt: now,
	}
	if err := eventRepo.Append(event); err != nil {
		return nil, err
	}
	return rec, nil
}

// Add puts cases back onto an existing record. Fails ErrInvalidInput when
// cases <= 0 and ErrNotFound for an unknown id (creation happens on the
// allocation path, which carries the product identity a new record needs).
func (l *Ledger) Add(ctx context.Context, stockID string, cases int, actor string) (int, error) {
	if stockID == "" {
		return 0, domain.ErrInvalidInput
	}
	if cases <= 0 {
		return 0, domain.ErrInvalidInput
	}
	var current int
	err := l.txRunner.Run(ctx, func(stockRepo repository.StockRepository, eventRepo repository.StockEventRepository) error {
		now := time.Now()
		rec, err := stockRepo.GetForUpdate(stockID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		rec.CurrentCases += cases
		rec.UpdatedAt = now
		if err := stockRepo.UpdateCases(rec.ID, rec.CurrentCases); err != nil {
			return err
		}
		event := &entity.StockEvent{
			StockID:   rec.ID,
			Action:    entity.StockActionAdded,
			Cases:     cases,
			Items:     cases * rec.PerCase,
			Actor:     actor,
			CreatedAt: now,
		}
		if err := eventRepo.Append(event); err != nil {
			return err
		}
		current = rec.CurrentCases
		return nil
	})
	return current, err
}

// BulkAllocate applies a batch of goods receipts, all-or-nothing: the first
// invalid entry rolls back the whole batch. Each entry upserts its
// (godown, product) record and appends an added event. Returns applied count.
func (l *Ledger) BulkAllocate(ctx context.Context, entries []Allocation, actor string) (int, error) {
	if len(entries) == 0 {
		return 0, domain.ErrInvalidInput
	}
	for _, e := range entries {
		if e.LocationID == "" || e.ProductType == "" || e.ProductName == "" || e.Brand == "" {
			return 0, domain.ErrValidation
		}
		if e.Cases <= 0 || e.PerCase <= 0 || e.RatePerCase.IsNegative() {
			return 0, domain.ErrInvalidInput
		}
	}
	applied := 0
	err := l.txRunner.Run(ctx, func(stockRepo repository.StockRepository, eventRepo repository.StockEventRepository) error {
		now := time.Now()
		for _, e := range entries {
			rec, err := stockRepo.UpsertAllocation(&entity.StockRecord{
				LocationID:   e.LocationID,
				ProductType:  e.ProductType,
				ProductName:  e.ProductName,
				Brand:        e.Brand,
				PerCase:      e.PerCase,
				CurrentCases: e.Cases,
				RatePerCase:  e.RatePerCase,
				UpdatedAt:    now,
			})
			if err != nil {
				return err
			}
			event := &entity.StockEvent{
				StockID:   rec.ID,
				Action:    entity.StockActionAdded,
				Cases:     e.Cases,
				Items:     e.Cases * rec.PerCase,
				Actor:     actor,
				CreatedAt: now,
			}
			if err := eventRepo.Append(event); err != nil {
				return err
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}

// History returns the event trail for a record, oldest first. Read-only; safe
// to call concurrently with Take/Add (uncommitted mutations are not visible).
func (l *Ledger) History(ctx context.Context, stockID string) ([]*entity.StockEvent, error) {
	if stockID == "" {
		return nil, domain.ErrInvalidInput
	}
	rec, err := l.stockRepo.GetByID(stockID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return l.eventRepo.ListByStock(stockID)
}

// Snapshot returns the current availability of every record in a godown, the
// read-only feed the cart builds its point-in-time view from.
func (l *Ledger) Snapshot(ctx context.Context, locationID string) ([]*entity.StockRecord, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	return l.stockRepo.ListByLocation(locationID)
}
