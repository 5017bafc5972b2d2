package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bichocore/settler/internal/domain"
)

// ScheduleStore implements domain.ScheduleStore using PostgreSQL.
type ScheduleStore struct {
	pool *pgxpool.Pool
}

// NewScheduleStore creates a new ScheduleStore backed by the given connection pool.
func NewScheduleStore(pool *pgxpool.Pool) *ScheduleStore {
	return &ScheduleStore{pool: pool}
}

var _ domain.ScheduleStore = (*ScheduleStore)(nil)

const scheduleSelectCols = `id, lottery, draw_time, label, close_offset, active, created_at`

// ListActive returns every active draw slot ordered by lottery and time.
func (s *ScheduleStore) ListActive(ctx context.Context) ([]domain.DrawSchedule, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+scheduleSelectCols+` FROM draw_schedules
		 WHERE active ORDER BY lottery, draw_time`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list active schedules: %w", err)
	}
	defer rows.Close()
	return scanScheduleRows(rows)
}

// ListByLottery returns all slots for one lottery, active or not.
func (s *ScheduleStore) ListByLottery(ctx context.Context, lottery string) ([]domain.DrawSchedule, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+scheduleSelectCols+` FROM draw_schedules
		 WHERE lottery = $1 ORDER BY draw_time`, lottery)
	if err != nil {
		return nil, fmt.Errorf("postgres: list schedules for %s: %w", lottery, err)
	}
	defer rows.Close()
	return scanScheduleRows(rows)
}

func scanScheduleRows(rows pgx.Rows) ([]domain.DrawSchedule, error) {
	var schedules []domain.DrawSchedule
	for rows.Next() {
		var d domain.DrawSchedule
		err := rows.Scan(&d.ID, &d.Lottery, &d.DrawTime, &d.Label,
			&d.CloseOffset, &d.Active, &d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		schedules = append(schedules, d)
	}
	return schedules, rows.Err()
}
