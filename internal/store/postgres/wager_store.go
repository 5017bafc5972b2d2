package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bichocore/settler/internal/domain"
)

// WagerStore implements domain.WagerStore using PostgreSQL.
type WagerStore struct {
	pool *pgxpool.Pool
}

// NewWagerStore creates a new WagerStore backed by the given connection pool.
func NewWagerStore(pool *pgxpool.Pool) *WagerStore {
	return &WagerStore{pool: pool}
}

var _ domain.WagerStore = (*WagerStore)(nil)

// Create inserts a new wager and fills in its assigned ID and timestamp.
func (s *WagerStore) Create(ctx context.Context, w *domain.Wager) error {
	guesses, err := json.Marshal(w.Guesses)
	if err != nil {
		return fmt.Errorf("postgres: marshal guesses: %w", err)
	}

	const query = `
		INSERT INTO wagers (
			owner_id, lottery, draw_time, contest_date,
			modality, modality_name, guesses, positions,
			stake, division, projected_return, status, instant, details
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14
		)
		RETURNING id, created_at`

	err = s.pool.QueryRow(ctx, query,
		w.OwnerID, w.Lottery, w.DrawTime, w.ContestDate,
		string(w.Modality), w.ModalityName, guesses, w.Positions,
		w.Stake, string(w.Division), w.ProjectedReturn,
		string(w.Status), w.Instant, nullableJSON(w.Details),
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: create wager: %w", err)
	}
	return nil
}

const wagerSelectCols = `id, owner_id, lottery, draw_time, contest_date,
	modality, modality_name, guesses, positions,
	stake, division, projected_return, status, instant, details,
	created_at, settled_at`

func scanWagerFromRow(scanner interface{ Scan(dest ...any) error }) (domain.Wager, error) {
	var w domain.Wager
	var modality, division, status string
	var guesses []byte
	var details []byte

	err := scanner.Scan(
		&w.ID, &w.OwnerID, &w.Lottery, &w.DrawTime, &w.ContestDate,
		&modality, &w.ModalityName, &guesses, &w.Positions,
		&w.Stake, &division, &w.ProjectedReturn, &status, &w.Instant, &details,
		&w.CreatedAt, &w.SettledAt,
	)
	if err != nil {
		return domain.Wager{}, err
	}

	w.Modality = domain.Modality(modality)
	w.Division = domain.DivisionMode(division)
	w.Status = domain.WagerStatus(status)
	w.Details = details
	if err := json.Unmarshal(guesses, &w.Guesses); err != nil {
		return domain.Wager{}, fmt.Errorf("unmarshal guesses for wager %d: %w", w.ID, err)
	}
	return w, nil
}

func scanWagerRows(rows pgx.Rows) ([]domain.Wager, error) {
	var wagers []domain.Wager
	for rows.Next() {
		w, err := scanWagerFromRow(rows)
		if err != nil {
			return nil, err
		}
		wagers = append(wagers, w)
	}
	return wagers, rows.Err()
}

// GetByID retrieves a single wager by ID.
func (s *WagerStore) GetByID(ctx context.Context, id int64) (domain.Wager, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+wagerSelectCols+` FROM wagers WHERE id = $1`, id)

	w, err := scanWagerFromRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Wager{}, domain.ErrNotFound
		}
		return domain.Wager{}, fmt.Errorf("postgres: get wager %d: %w", id, err)
	}
	return w, nil
}

// ListPending returns pending wagers oldest first, so long-waiting ones
// settle before newly placed ones when a pass hits its deadline.
func (s *WagerStore) ListPending(ctx context.Context, opts domain.ListOpts) ([]domain.Wager, error) {
	query := `SELECT ` + wagerSelectCols + ` FROM wagers WHERE status = 'pending' ORDER BY created_at ASC`
	args := []any{}
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list pending wagers: %w", err)
	}
	defer rows.Close()

	wagers, err := scanWagerRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan pending wagers: %w", err)
	}
	return wagers, nil
}

// List returns wagers matching the filter, newest first.
func (s *WagerStore) List(ctx context.Context, filter domain.WagerFilter) ([]domain.Wager, error) {
	query := `SELECT ` + wagerSelectCols + ` FROM wagers WHERE 1=1`
	args := []any{}

	if filter.OwnerID != nil {
		query += fmt.Sprintf(" AND owner_id = $%d", len(args)+1)
		args = append(args, *filter.OwnerID)
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, string(*filter.Status))
	}
	if filter.Lottery != "" {
		query += fmt.Sprintf(" AND lottery = $%d", len(args)+1)
		args = append(args, filter.Lottery)
	}
	if filter.DrawTime != "" {
		query += fmt.Sprintf(" AND draw_time = $%d", len(args)+1)
		args = append(args, filter.DrawTime)
	}
	if filter.Date != nil {
		query += fmt.Sprintf(" AND contest_date = $%d", len(args)+1)
		args = append(args, *filter.Date)
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list wagers: %w", err)
	}
	defer rows.Close()

	wagers, err := scanWagerRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan wagers: %w", err)
	}
	return wagers, nil
}

// CountByStatus returns wager counts grouped by status.
func (s *WagerStore) CountByStatus(ctx context.Context) (map[domain.WagerStatus]int64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM wagers GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("postgres: count wagers by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.WagerStatus]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("postgres: scan wager counts: %w", err)
		}
		counts[domain.WagerStatus(status)] = n
	}
	return counts, rows.Err()
}

// nullableJSON maps an empty blob to SQL NULL instead of invalid empty JSON.
func nullableJSON(b json.RawMessage) any {
	if len(b) == 0 {
		return nil
	}
	return []byte(b)
}
