package stock

import (
	"context"

	"github.com/Gokulkannan3/stock-manager/internal/domain/repository"
)

// TxRunner runs fn inside one database transaction, handing it repositories
// bound to that transaction. Commit on nil, rollback on error.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		eventRepo repository.StockEventRepository,
	) error) error
}
