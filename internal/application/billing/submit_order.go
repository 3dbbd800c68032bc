package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Gokulkannan3/stock-manager/internal/domain"
	"github.com/Gokulkannan3/stock-manager/internal/domain/entity"
	"github.com/Gokulkannan3/stock-manager/internal/domain/pricing"
	"github.com/Gokulkannan3/stock-manager/internal/domain/repository"
	"github.com/Gokulkannan3/stock-manager/pkg/logger"
)

// SubmitOrderUseCase commits a finalized draft: it decrements stock for every
// line, prices the order, allocates the bill number and persists the invoice,
// all inside one transaction. Any failure before commit leaves zero observable
// side effects.
type SubmitOrderUseCase struct {
	txRunner    BillingTxRunner
	stockTaker  StockTaker
	invoiceRepo repository.InvoiceRepository // pool-bound, reads only
	renderer    DocumentRenderer             // optional
	validate    *validator.Validate
	log         *logger.Logger
}

// NewSubmitOrderUseCase builds the use case. renderer may be nil when no
// document service is wired.
func NewSubmitOrderUseCase(
	txRunner BillingTxRunner,
	stockTaker StockTaker,
	invoiceRepo repository.InvoiceRepository,
	renderer DocumentRenderer,
	log *logger.Logger,
) *SubmitOrderUseCase {
	return &SubmitOrderUseCase{
		txRunner:    txRunner,
		stockTaker:  stockTaker,
		invoiceRepo: invoiceRepo,
		renderer:    renderer,
		validate:    validator.New(),
		log:         log,
	}
}

// SubmitOrderInput carries the finalized draft, the customer, the acting staff
// member and the optional client retry key.
type SubmitOrderInput struct {
	Customer       entity.Customer `validate:"required"`
	Draft          entity.InvoiceDraft
	Actor          string
	IdempotencyKey string
}

// SubmitOrderResult is returned on success: the allocated bill number, the
// full totals breakdown and, when a renderer is wired, the artifact reference.
type SubmitOrderResult struct {
	BillNumber  int64
	Totals      entity.InvoiceTotals
	Lines       []*entity.InvoiceLine
	ArtifactRef string
	Replayed    bool // true when an idempotency key matched a stored invoice
}

// Submit validates, then runs the whole commit in one transaction. Lines are
// locked in ascending stock id order so concurrent submissions sharing
// products cannot deadlock. The bill number is drawn inside the same
// transaction, so a failed submission never consumes one.
func (uc *SubmitOrderUseCase) Submit(ctx context.Context, in SubmitOrderInput) (*SubmitOrderResult, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	if len(in.Draft.Lines) == 0 {
		return nil, fmt.Errorf("%w: order has no lines", domain.ErrValidation)
	}
	for i, line := range in.Draft.Lines {
		if line.Product.StockID == "" {
			return nil, fmt.Errorf("%w: line %d has no stock id", domain.ErrValidation, i)
		}
	}

	// Client retries with the same key get the stored invoice back instead of
	// a second stock decrement.
	if in.IdempotencyKey != "" {
		if replay, err := uc.replay(in.IdempotencyKey); err != nil || replay != nil {
			return replay, err
		}
	}

	// Deterministic lock order across concurrent submissions.
	order := make([]int, len(in.Draft.Lines))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return in.Draft.Lines[order[a]].Product.StockID < in.Draft.Lines[order[b]].Product.StockID
	})

	var result *SubmitOrderResult
	err := uc.txRunner.RunBilling(ctx, func(
		stockRepo repository.StockRepository,
		eventRepo repository.StockEventRepository,
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.BillSequenceRepository,
	) error {
		totals, err := pricing.Compute(in.Draft)
		if err != nil {
			return err
		}
		billNumber, err := seqRepo.Next()
		if err != nil {
			return fmt.Errorf("allocate bill number: %w", err)
		}
		reference := strconv.FormatInt(billNumber, 10)
		now := time.Now()

		for _, idx := range order {
			line := in.Draft.Lines[idx]
			if _, err := uc.stockTaker.TakeInTx(
				stockRepo, eventRepo,
				line.Product.StockID, line.Cases, in.Actor, reference, now,
			); err != nil {
				return fmt.Errorf("line %d (%s %s): %w", idx, line.Product.Brand, line.Product.ProductName, err)
			}
		}

		invoice := &entity.Invoice{
			BillNumber:     billNumber,
			Customer:       in.Customer,
			Totals:         totals,
			IdempotencyKey: in.IdempotencyKey,
			CreatedAt:      now,
			CreatedBy:      in.Actor,
		}
		if err := invoiceRepo.Create(invoice); err != nil {
			return err
		}
		lines := make([]*entity.InvoiceLine, 0, len(in.Draft.Lines))
		for _, line := range in.Draft.Lines {
			invLine := &entity.InvoiceLine{
				BillNumber:      billNumber,
				StockID:         line.Product.StockID,
				ProductType:     line.Product.ProductType,
				ProductName:     line.Product.ProductName,
				Brand:           line.Product.Brand,
				Location:        line.Location,
				PerCase:         line.Product.PerCase,
				Cases:           line.Cases,
				RatePerCase:     line.Product.RatePerCase,
				DiscountPercent: line.DiscountPercent,
				LineTotal:       lineTotal(line),
			}
			if err := invoiceRepo.CreateLine(invLine); err != nil {
				return err
			}
			lines = append(lines, invLine)
		}
		result = &SubmitOrderResult{BillNumber: billNumber, Totals: totals, Lines: lines}
		return nil
	})
	if err != nil {
		// A racing duplicate with the same key loses on the unique index;
		// resolve it by returning the invoice the winner stored.
		if in.IdempotencyKey != "" && errors.Is(err, domain.ErrConflict) {
			if replay, rerr := uc.replay(in.IdempotencyKey); rerr == nil && replay != nil {
				return replay, nil
			}
		}
		return nil, err
	}

	if uc.renderer != nil {
		ref, err := uc.renderer.Render(ctx, &entity.Invoice{
			BillNumber: result.BillNumber,
			Customer:   in.Customer,
			Totals:     result.Totals,
		}, result.Lines)
		if err != nil {
			uc.log.Warn().Err(err).Int64("bill_number", result.BillNumber).Msg("document render failed")
		} else {
			result.ArtifactRef = ref
		}
	}
	return result, nil
}

// GetInvoice returns a persisted invoice with its lines.
func (uc *SubmitOrderUseCase) GetInvoice(ctx context.Context, billNumber int64) (*entity.Invoice, []*entity.InvoiceLine, error) {
	inv, err := uc.invoiceRepo.GetByBillNumber(billNumber)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := uc.invoiceRepo.GetLinesByBillNumber(billNumber)
	if err != nil {
		return nil, nil, err
	}
	return inv, lines, nil
}

func (uc *SubmitOrderUseCase) replay(key string) (*SubmitOrderResult, error) {
	inv, err := uc.invoiceRepo.GetByIdempotencyKey(key)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, nil
	}
	lines, err := uc.invoiceRepo.GetLinesByBillNumber(inv.BillNumber)
	if err != nil {
		return nil, err
	}
	return &SubmitOrderResult{
		BillNumber: inv.BillNumber,
		Totals:     inv.Totals,
		Lines:      lines,
		Replayed:   true,
	}, nil
}

func lineTotal(line entity.LineItem) decimal.Decimal {
	qty := decimal.NewFromInt(int64(line.Cases) * int64(line.Product.PerCase))
	gross := qty.Mul(line.Product.RatePerCase)
	discount := gross.Mul(line.DiscountPercent).Div(decimal.NewFromInt(100))
	return gross.Sub(discount)
}
