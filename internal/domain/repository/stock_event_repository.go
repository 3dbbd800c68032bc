package repository

import "github.com/Gokulkannan3/stock-manager/internal/domain/entity"

// StockEventRepository is the persistence port for the append-only mutation
// history. Events are immutable once written.
type StockEventRepository interface {
	Append(event *entity.StockEvent) error
	// ListByStock returns events ordered by timestamp ascending.
	ListByStock(stockID string) ([]*entity.StockEvent, error)
}
