package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Gokulkannan3/stock-manager/internal/domain/entity"
	"github.com/Gokulkannan3/stock-manager/internal/domain/repository"
)

var _ repository.StockEventRepository = (*StockEventRepo)(nil)

// StockEventRepo implements the append-only event history on PostgreSQL
// (usable with pool or tx). No update or delete statements exist here.
type StockEventRepo struct {
	q Querier
}

// NewStockEventRepository builds the adapter. Pass a pool or tx (Querier).
func NewStockEventRepository(q Querier) *StockEventRepo {
	return &StockEventRepo{q: q}
}

// Append persists one event.
func (r *StockEventRepo) Append(event *entity.StockEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_events (id, stock_id, action, cases, items, reference, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	reference := (*string)(nil)
	if event.Reference != "" {
		reference = &event.Reference
	}
	actor := (*string)(nil)
	if event.Actor != "" {
		actor = &event.Actor
	}
	_, err := r.q.Exec(context.Background(), query,
		event.ID, event.StockID, event.Action, event.Cases, event.Items,
		reference, actor, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append stock event: %w", err)
	}
	return nil
}

// ListByStock returns a record's events, oldest first.
func (r *StockEventRepo) ListByStock(stockID string) ([]*entity.StockEvent, error) {
	query := `
		SELECT id, stock_id, action, cases, items, COALESCE(reference, ''), COALESCE(actor, ''), created_at
		FROM stock_events WHERE stock_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, stockID)
	if err != nil {
		return nil, fmt.Errorf("list stock events: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockEvent
	for rows.Next() {
		var e entity.StockEvent
		if err := rows.Scan(&e.ID, &e.StockID, &e.Action, &e.Cases, &e.Items,
			&e.Reference, &e.Actor, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock event: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
