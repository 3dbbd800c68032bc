package billing_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gokulkannan3/stock-manager/internal/application/billing"
	"github.com/Gokulkannan3/stock-manager/internal/application/stock"
	"github.com/Gokulkannan3/stock-manager/internal/domain"
	"github.com/Gokulkannan3/stock-manager/internal/domain/entity"
	"github.com/Gokulkannan3/stock-manager/internal/domain/repository"
	"github.com/Gokulkannan3/stock-manager/pkg/logger"
)

// billingStore is the in-memory database for submission tests: stock records,
// events, invoices, lines and the bill sequence in one place so a rollback
// restores them together.
type billingStore struct {
	mu       sync.Mutex
	records  map[string]*entity.StockRecord
	events   []*entity.StockEvent
	invoices map[int64]*entity.Invoice
	byKey    map[string]int64
	lines    map[int64][]*entity.InvoiceLine
	sequence int64
}

func newBillingStore() *billingStore {
	return &billingStore{
		records:  map[string]*entity.StockRecord{},
		invoices: map[int64]*entity.Invoice{},
		byKey:    map[string]int64{},
		lines:    map[int64][]*entity.InvoiceLine{},
	}
}

func (s *billingStore) seed(id string, cases int, rate int64) {
	s.records[id] = &entity.StockRecord{
		ID:           id,
		LocationID:   "godown-a",
		ProductType:  "beer",
		ProductName:  "Premium Lager",
		Brand:        "Northstar",
		PerCase:      12,
		CurrentCases: cases,
		RatePerCase:  decimal.NewFromInt(rate),
	}
}

type storeState struct {
	records  map[string]*entity.StockRecord
	events   []*entity.StockEvent
	invoices map[int64]*entity.Invoice
	byKey    map[string]int64
	lines    map[int64][]*entity.InvoiceLine
	sequence int64
}

func (s *billingStore) capture() storeState {
	st := storeState{
		records:  map[string]*entity.StockRecord{},
		invoices: map[int64]*entity.Invoice{},
		byKey:    map[string]int64{},
		lines:    map[int64][]*entity.InvoiceLine{},
		sequence: s.sequence,
	}
	for id, r := range s.records {
		cp := *r
		st.records[id] = &cp
	}
	st.events = append(st.events, s.events...)
	for n, inv := range s.invoices {
		cp := *inv
		st.invoices[n] = &cp
	}
	for k, n := range s.byKey {
		st.byKey[k] = n
	}
	for n, ls := range s.lines {
		st.lines[n] = append([]*entity.InvoiceLine{}, ls...)
	}
	return st
}

func (s *billingStore) restore(st storeState) {
	s.records = st.records
	s.events = st.events
	s.invoices = st.invoices
	s.byKey = st.byKey
	s.lines = st.lines
	s.sequence = st.sequence
}

type bStockRepo struct{ s *billingStore }

func (r *bStockRepo) GetByID(id string) (*entity.StockRecord, error) {
	rec, ok := r.s.records[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *bStockRepo) GetForUpdate(id string) (*entity.StockRecord, error) { return r.GetByID(id) }

func (r *bStockRepo) ListByLocation(locationID string) ([]*entity.StockRecord, error) {
	return nil, nil
}

func (r *bStockRepo) UpdateCases(id string, currentCases int) error {
	rec, ok := r.s.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.CurrentCases = currentCases
	return nil
}

func (r *bStockRepo) UpsertAllocation(rec *entity.StockRecord) (*entity.StockRecord, error) {
	return nil, nil
}

type bEventRepo struct{ s *billingStore }

func (r *bEventRepo) Append(event *entity.StockEvent) error {
	cp := *event
	cp.ID = fmt.Sprintf("evt-%03d", len(r.s.events)+1)
	r.s.events = append(r.s.events, &cp)
	return nil
}

func (r *bEventRepo) ListByStock(stockID string) ([]*entity.StockEvent, error) {
	var out []*entity.StockEvent
	for _, ev := range r.s.events {
		if ev.StockID == stockID {
			cp := *ev
			out = append(out, &cp)
		}
	}
	return out, nil
}

type bInvoiceRepo struct{ s *billingStore }

func (r *bInvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.IdempotencyKey != "" {
		if _, exists := r.s.byKey[invoice.IdempotencyKey]; exists {
			return fmt.Errorf("duplicate idempotency key: %w", domain.ErrConflict)
		}
		r.s.byKey[invoice.IdempotencyKey] = invoice.BillNumber
	}
	cp := *invoice
	r.s.invoices[invoice.BillNumber] = &cp
	return nil
}

func (r *bInvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	cp := *line
	cp.ID = fmt.Sprintf("line-%03d", len(r.s.lines[line.BillNumber])+1)
	r.s.lines[line.BillNumber] = append(r.s.lines[line.BillNumber], &cp)
	return nil
}

func (r *bInvoiceRepo) GetByBillNumber(billNumber int64) (*entity.Invoice, error) {
	inv, ok := r.s.invoices[billNumber]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *bInvoiceRepo) GetByIdempotencyKey(key string) (*entity.Invoice, error) {
	n, ok := r.s.byKey[key]
	if !ok {
		return nil, nil
	}
	return r.GetByBillNumber(n)
}

func (r *bInvoiceRepo) GetLinesByBillNumber(billNumber int64) ([]*entity.InvoiceLine, error) {
	return append([]*entity.InvoiceLine{}, r.s.lines[billNumber]...), nil
}

type bSeqRepo struct{ s *billingStore }

func (r *bSeqRepo) Next() (int64, error) {
	r.s.sequence++
	return r.s.sequence, nil
}

type bTxRunner struct{ s *billingStore }

func (t *bTxRunner) RunBilling(ctx context.Context, fn func(
	repository.StockRepository,
	repository.StockEventRepository,
	repository.InvoiceRepository,
	repository.BillSequenceRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	st := t.s.capture()
	err := fn(&bStockRepo{s: t.s}, &bEventRepo{s: t.s}, &bInvoiceRepo{s: t.s}, &bSeqRepo{s: t.s})
	if err != nil {
		t.s.restore(st)
		return err
	}
	return nil
}

func newSubmitUseCase(s *billingStore) *billing.SubmitOrderUseCase {
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	ledger := stock.NewLedger(nil, nil, nil)
	return billing.NewSubmitOrderUseCase(&bTxRunner{s: s}, ledger, &bInvoiceRepo{s: s}, nil, log)
}

func testCustomer() entity.Customer {
	return entity.Customer{
		Name:    "Sharma Traders",
		From:    "Chennai",
		To:      "Madurai",
		Through: "VRL Logistics",
	}
}

func draftFor(s *billingStore, stockID string, cases int) entity.InvoiceDraft {
	rec := s.records[stockID]
	return entity.InvoiceDraft{
		Lines: []entity.LineItem{{
			Product: entity.ProductRef{
				StockID:     rec.ID,
				ProductType: rec.ProductType,
				ProductName: rec.ProductName,
				Brand:       rec.Brand,
				PerCase:     rec.PerCase,
				RatePerCase: rec.RatePerCase,
			},
			Location: rec.LocationID,
			Cases:    cases,
		}},
		Adjustments: entity.Adjustments{ApplyCGST: true, ApplySGST: true},
	}
}

func TestSubmit_CommitsStockInvoiceAndBillNumber(t *testing.T) {
	s := newBillingStore()
	s.seed("stk-001", 10, 100)
	uc := newSubmitUseCase(s)

	// 2 cases x 12 x 100 = 2400; CGST+SGST 18% = 432; grand 2832.
	result, err := uc.Submit(context.Background(), billing.SubmitOrderInput{
		Customer: testCustomer(),
		Draft:    draftFor(s, "stk-001", 2),
		Actor:    "priya",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.BillNumber)
	assert.True(t, result.Totals.GrandTotal.Equal(decimal.NewFromInt(2832)), "grand total = %s", result.Totals.GrandTotal)
	assert.True(t, result.Totals.RoundOff.IsZero())
	require.Len(t, result.Lines, 1)
	assert.True(t, result.Lines[0].LineTotal.Equal(decimal.NewFromInt(2400)))

	assert.Equal(t, 8, s.records["stk-001"].CurrentCases)
	require.Len(t, s.events, 1)
	assert.Equal(t, entity.StockActionTaken, s.events[0].Action)
	assert.Equal(t, "1", s.events[0].Reference)
	assert.Equal(t, "priya", s.events[0].Actor)

	inv, lines, err := uc.GetInvoice(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Sharma Traders", inv.Customer.Name)
	assert.Len(t, lines, 1)
}

func TestSubmit_BillNumbersAreSequential(t *testing.T) {
	s := newBillingStore()
	s.seed("stk-001", 10, 100)
	uc := newSubmitUseCase(s)
	ctx := context.Background()

	first, err := uc.Submit(ctx, billing.SubmitOrderInput{Customer: testCustomer(), Draft: draftFor(s, "stk-001", 1)})
	require.NoError(t, err)
	second, err := uc.Submit(ctx, billing.SubmitOrderInput{Customer: testCustomer(), Draft: draftFor(s, "stk-001", 1)})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.BillNumber)
	assert.Equal(t, int64(2), second.BillNumber)
}

func TestSubmit_ValidationFailureHasNoSideEffects(t *testing.T) {
	s := newBillingStore()
	s.seed("stk-001", 10, 100)
	uc := newSubmitUseCase(s)

	in := billing.SubmitOrderInput{
		Customer: entity.Customer{Name: "Sharma Traders"}, // missing transport fields
		Draft:    draftFor(s, "stk-001", 2),
	}
	_, err := uc.Submit(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, 10, s.records["stk-001"].CurrentCases)
	assert.Empty(t, s.events)
	assert.Empty(t, s.invoices)
	assert.Equal(t, int64(0), s.sequence)
}

func TestSubmit_EmptyDraftRejected(t *testing.T) {
	s := newBillingStore()
	uc := newSubmitUseCase(s)

	_, err := uc.Submit(context.Background(), billing.SubmitOrderInput{Customer: testCustomer()})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSubmit_InsufficientStockRollsBackAllLines(t *testing.T) {
	s := newBillingStore()
	s.seed("stk-001", 10, 100)
	s.seed("stk-002", 1, 900)
	uc := newSubmitUseCase(s)

	draft := draftFor(s, "stk-001", 2)
	second := draftFor(s, "stk-002", 5) // only 1 available
	draft.Lines = append(draft.Lines, second.Lines...)

	_, err := uc.Submit(context.Background(), billing.SubmitOrderInput{
		Customer: testCustomer(),
		Draft:    draft,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// The first line's take is rolled back with the failed one.
	assert.Equal(t, 10, s.records["stk-001"].CurrentCases)
	assert.Equal(t, 1, s.records["stk-002"].CurrentCases)
	assert.Empty(t, s.events)
	assert.Empty(t, s.invoices)
	assert.Equal(t, int64(0), s.sequence)
}

func TestSubmit_IdempotentRetryReplaysStoredInvoice(t *testing.T) {
	s := newBillingStore()
	s.seed("stk-001", 10, 100)
	uc := newSubmitUseCase(s)
	ctx := context.Background()

	in := billing.SubmitOrderInput{
		Customer:       testCustomer(),
		Draft:          draftFor(s, "stk-001", 2),
		Actor:          "priya",
		IdempotencyKey: "console-7f3a",
	}
	first, err := uc.Submit(ctx, in)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	retry, err := uc.Submit(ctx, in)
	require.NoError(t, err)
	assert.True(t, retry.Replayed)
	assert.Equal(t, first.BillNumber, retry.BillNumber)
	assert.True(t, first.Totals.GrandTotal.Equal(retry.Totals.GrandTotal))

	// Stock moved once, one invoice exists, one bill number consumed.
	assert.Equal(t, 8, s.records["stk-001"].CurrentCases)
	assert.Len(t, s.events, 1)
	assert.Len(t, s.invoices, 1)
	assert.Equal(t, int64(1), s.sequence)
}

func TestSubmit_PricingFailureRollsBack(t *testing.T) {
	s := newBillingStore()
	s.seed("stk-001", 10, 100)
	uc := newSubmitUseCase(s)

	draft := draftFor(s, "stk-001", 2)
	draft.Lines[0].DiscountPercent = decimal.NewFromInt(150) // outside [0,100]

	_, err := uc.Submit(context.Background(), billing.SubmitOrderInput{
		Customer: testCustomer(),
		Draft:    draft,
	})
	assert.ErrorIs(t, err, domain.ErrArithmetic)
	assert.Equal(t, 10, s.records["stk-001"].CurrentCases)
	assert.Equal(t, int64(0), s.sequence)
}

func TestSubmit_LocksLinesInStockIDOrder(t *testing.T) {
	s := newBillingStore()
	s.seed("stk-002", 5, 100)
	s.seed("stk-001", 5, 100)
	uc := newSubmitUseCase(s)

	draft := draftFor(s, "stk-002", 1)
	other := draftFor(s, "stk-001", 1)
	draft.Lines = append(draft.Lines, other.Lines...)

	result, err := uc.Submit(context.Background(), billing.SubmitOrderInput{
		Customer: testCustomer(),
		Draft:    draft,
	})
	require.NoError(t, err)

	// Events record the take order: ascending stock id regardless of the
	// order lines were added in.
	require.Len(t, s.events, 2)
	assert.Equal(t, "stk-001", s.events[0].StockID)
	assert.Equal(t, "stk-002", s.events[1].StockID)

	// Stored lines keep the cart's order.
	require.Len(t, result.Lines, 2)
	assert.Equal(t, "stk-002", result.Lines[0].StockID)
	assert.Equal(t, "stk-001", result.Lines[1].StockID)
}

func TestGetInvoice_UnknownBillNumber(t *testing.T) {
	uc := newSubmitUseCase(newBillingStore())

	_, _, err := uc.GetInvoice(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
