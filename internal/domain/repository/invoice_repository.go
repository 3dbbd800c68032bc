package repository

import "github.com/Gokulkannan3/stock-manager/internal/domain/entity"

// InvoiceRepository is the persistence port for invoices and their frozen lines.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLine(line *entity.InvoiceLine) error
	GetByBillNumber(billNumber int64) (*entity.Invoice, error)
	// GetByIdempotencyKey returns the invoice stored under a client retry key,
	// or nil when the key has not been seen.
	GetByIdempotencyKey(key string) (*entity.Invoice, error)
	GetLinesByBillNumber(billNumber int64) ([]*entity.InvoiceLine, error)
}
