package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Gokulkannan3/stock-manager/internal/domain"
	"github.com/Gokulkannan3/stock-manager/internal/domain/entity"
	"github.com/Gokulkannan3/stock-manager/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository on PostgreSQL (usable with pool or tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the adapter. Pass a pool or tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persists the invoice header with its frozen totals. A duplicate
// idempotency key maps to ErrConflict so the caller can replay the stored
// invoice.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (
			bill_number, customer_name, address, gstin, lr_number, agent_name,
			from_place, to_place, through, idempotency_key,
			subtotal, packing_charges, subtotal_with_packing, taxable_used,
			additional_discount, net_before_tax, cgst, sgst, igst, total_tax,
			round_off, grand_total, total_cases, created_at, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)`
	t := invoice.Totals
	_, err := r.q.Exec(context.Background(), query,
		invoice.BillNumber, invoice.Customer.Name, nullIfEmpty(invoice.Customer.Address),
		nullIfEmpty(invoice.Customer.GSTIN), nullIfEmpty(invoice.Customer.LRNumber),
		nullIfEmpty(invoice.Customer.AgentName), invoice.Customer.From, invoice.Customer.To,
		invoice.Customer.Through, nullIfEmpty(invoice.IdempotencyKey),
		t.Subtotal, t.PackingCharges, t.SubtotalWithPacking, t.TaxableUsed,
		t.AdditionalDiscount, t.NetBeforeTax, t.CGST, t.SGST, t.IGST, t.TotalTax,
		t.RoundOff, t.GrandTotal, t.TotalCases, invoice.CreatedAt, nullIfEmpty(invoice.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert invoice: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLine persists one frozen invoice line.
func (r *InvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_lines (
			id, bill_number, stock_id, product_type, product_name, brand,
			location, per_case, cases, rate_per_case, discount_percent, line_total
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.BillNumber, line.StockID, line.ProductType, line.ProductName,
		line.Brand, line.Location, line.PerCase, line.Cases, line.RatePerCase,
		line.DiscountPercent, line.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

const invoiceColumns = `
	bill_number, customer_name, COALESCE(address,''), COALESCE(gstin,''),
	COALESCE(lr_number,''), COALESCE(agent_name,''), from_place, to_place, through,
	COALESCE(idempotency_key,''),
	subtotal, packing_charges, subtotal_with_packing, taxable_used,
	additional_discount, net_before_tax, cgst, sgst, igst, total_tax,
	round_off, grand_total, total_cases, created_at, COALESCE(created_by,'')`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.BillNumber, &inv.Customer.Name, &inv.Customer.Address, &inv.Customer.GSTIN,
		&inv.Customer.LRNumber, &inv.Customer.AgentName, &inv.Customer.From,
		&inv.Customer.To, &inv.Customer.Through, &inv.IdempotencyKey,
		&inv.Totals.Subtotal, &inv.Totals.PackingCharges, &inv.Totals.SubtotalWithPacking,
		&inv.Totals.TaxableUsed, &inv.Totals.AdditionalDiscount, &inv.Totals.NetBeforeTax,
		&inv.Totals.CGST, &inv.Totals.SGST, &inv.Totals.IGST, &inv.Totals.TotalTax,
		&inv.Totals.RoundOff, &inv.Totals.GrandTotal, &inv.Totals.TotalCases,
		&inv.CreatedAt, &inv.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	return &inv, nil
}

// GetByBillNumber returns an invoice, or nil when absent.
func (r *InvoiceRepo) GetByBillNumber(billNumber int64) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE bill_number = $1`
	return scanInvoice(r.q.QueryRow(context.Background(), query, billNumber))
}

// GetByIdempotencyKey returns the invoice stored under a retry key, or nil.
func (r *InvoiceRepo) GetByIdempotencyKey(key string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE idempotency_key = $1`
	return scanInvoice(r.q.QueryRow(context.Background(), query, key))
}

// GetLinesByBillNumber returns the frozen lines of an invoice.
func (r *InvoiceRepo) GetLinesByBillNumber(billNumber int64) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, bill_number, stock_id, product_type, product_name, brand,
		       location, per_case, cases, rate_per_case, discount_percent, line_total
		FROM invoice_lines WHERE bill_number = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, billNumber)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.BillNumber, &l.StockID, &l.ProductType, &l.ProductName,
			&l.Brand, &l.Location, &l.PerCase, &l.Cases, &l.RatePerCase,
			&l.DiscountPercent, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
