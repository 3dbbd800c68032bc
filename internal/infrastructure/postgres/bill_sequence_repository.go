package postgres

import (
	"context"
	"fmt"

	"github.com/Gokulkannan3/stock-manager/internal/domain/repository"
)

var _ repository.BillSequenceRepository = (*BillSequenceRepo)(nil)

// BillSequenceRepo allocates bill numbers from the single-row bill_sequence
// table. The UPDATE takes a row lock, so numbers are strictly increasing and
// never reused; run inside the submission transaction, a rollback returns the
// number to the pool unconsumed.
type BillSequenceRepo struct {
	q Querier
}

// NewBillSequenceRepository builds the adapter. Pass the submission tx.
func NewBillSequenceRepository(q Querier) *BillSequenceRepo {
	return &BillSequenceRepo{q: q}
}

// Next returns the next bill number.
func (r *BillSequenceRepo) Next() (int64, error) {
	query := `UPDATE bill_sequence SET value = value + 1 WHERE id = 1 RETURNING value`
	var n int64
	if err := r.q.QueryRow(context.Background(), query).Scan(&n); err != nil {
		return 0, fmt.Errorf("next bill number: %w", err)
	}
	return n, nil
}
