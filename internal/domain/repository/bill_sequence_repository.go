package repository

// BillSequenceRepository allocates bill numbers: strictly increasing, never
// reused. Next must run inside the same transaction as the stock commit so a
// failed submission never consumes a number.
type BillSequenceRepository interface {
	Next() (int64, error)
}
