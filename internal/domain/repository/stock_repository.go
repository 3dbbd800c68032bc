package repository

import "github.com/Gokulkannan3/stock-manager/internal/domain/entity"

// StockRepository is the persistence port for stock records. Used inside
// transactions to guarantee consistency; GetForUpdate must lock the row so the
// availability check and the mutation are one atomic step.
type StockRepository interface {
	GetByID(id string) (*entity.StockRecord, error)
	// GetForUpdate locks the row (SELECT FOR UPDATE). Returns nil when absent.
	GetForUpdate(id string) (*entity.StockRecord, error)
	ListByLocation(locationID string) ([]*entity.StockRecord, error)
	UpdateCases(id string, currentCases int) error
	// UpsertAllocation creates the (location, product) record on first
	// allocation or adds cases to the existing one. Returns the stored record
	// with its id and updated count.
	UpsertAllocation(rec *entity.StockRecord) (*entity.StockRecord, error)
}
