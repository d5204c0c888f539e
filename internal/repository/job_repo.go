package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// GetActiveReservationIDsPastEndTime returns the active reservations whose
// end time is before now.
func (r *JobRepository) GetActiveReservationIDsPastEndTime(ctx context.Context, now time.Time) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM reservations WHERE status = 'active' AND end_time < $1`, now)
	if err != nil {
		return nil, fmt.Errorf("error querying active reservations past end time: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning reservation ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// UpdateReservationStatuses sets newStatus on every reservation in ids and
// returns the number of updated rows.
func (r *JobRepository) UpdateReservationStatuses(ctx context.Context, ids []int, newStatus string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.DB.ExecContext(ctx,
		`UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = ANY($2)`,
		newStatus, pq.Array(ids),
	)
	if err != nil {
		return 0, fmt.Errorf("error updating reservation statuses: %w", err)
	}
	return result.RowsAffected()
}

// DeletePendingReservationsOlderThan removes unpaid reservations created
// before the given time.
func (r *JobRepository) DeletePendingReservationsOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM reservations WHERE status = 'pending' AND payment_status = 'pending' AND created_at < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("error deleting stale pending reservations: %w", err)
	}
	return result.RowsAffected()
}
