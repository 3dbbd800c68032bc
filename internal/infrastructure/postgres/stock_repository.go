package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Gokulkannan3/stock-manager/internal/domain/entity"
	"github.com/Gokulkannan3/stock-manager/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implements StockRepository on PostgreSQL (usable with pool or tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository builds the stock adapter. Pass a pool or tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, location_id, product_type, product_name, brand, per_case, current_cases, rate_per_case, updated_at`

func scanStock(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(
		&s.ID, &s.LocationID, &s.ProductType, &s.ProductName, &s.Brand,
		&s.PerCase, &s.CurrentCases, &s.RatePerCase, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan stock record: %w", err)
	}
	return &s, nil
}

// GetByID returns a record, or nil when absent.
func (r *StockRepo) GetByID(id string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records WHERE id = $1`
	return scanStock(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate returns the record with the row locked (SELECT FOR UPDATE), so
// the caller's check-and-mutate is one atomic step.
func (r *StockRepo) GetForUpdate(id string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records WHERE id = $1 FOR UPDATE`
	return scanStock(r.q.QueryRow(context.Background(), query, id))
}

// ListByLocation returns every record of a godown, stable order for display.
func (r *StockRepo) ListByLocation(locationID string) ([]*entity.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_records WHERE location_id = $1
		ORDER BY product_type, product_name, brand`
	rows, err := r.q.Query(context.Background(), query, locationID)
	if err != nil {
		return nil, fmt.Errorf("list stock by location: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ID, &s.LocationID, &s.ProductType, &s.ProductName, &s.Brand,
			&s.PerCase, &s.CurrentCases, &s.RatePerCase, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// UpdateCases writes the new case count. The CHECK (current_cases >= 0)
// constraint is the last line of defense behind the locked read.
func (r *StockRepo) UpdateCases(id string, currentCases int) error {
	query := `UPDATE stock_records SET current_cases = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, currentCases)
	if err != nil {
		return fmt.Errorf("update stock cases: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock cases: no row for id %s", id)
	}
	return nil
}

// UpsertAllocation creates the (location, product) record on first allocation
// or adds the cases to the existing count, returning the stored record.
func (r *StockRepo) UpsertAllocation(rec *entity.StockRecord) (*entity.StockRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_records (id, location_id, product_type, product_name, brand, per_case, current_cases, rate_per_case, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (location_id, product_type, product_name, brand)
		DO UPDATE SET current_cases = stock_records.current_cases + EXCLUDED.current_cases,
		              rate_per_case = EXCLUDED.rate_per_case,
		              updated_at    = now()
		RETURNING ` + stockColumns
	return scanStock(r.q.QueryRow(context.Background(), query,
		rec.ID, rec.LocationID, rec.ProductType, rec.ProductName, rec.Brand,
		rec.PerCase, rec.CurrentCases, rec.RatePerCase,
	))
}
