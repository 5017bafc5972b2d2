package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bichocore/settler/internal/domain"
)

// LedgerStore implements domain.LedgerStore using PostgreSQL.
type LedgerStore struct {
	pool *pgxpool.Pool
}

// NewLedgerStore creates a new LedgerStore backed by the given connection pool.
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

var _ domain.LedgerStore = (*LedgerStore)(nil)

// Insert records one wallet movement.
func (s *LedgerStore) Insert(ctx context.Context, e domain.LedgerEntry) error {
	const query = `
		INSERT INTO ledger_entries (user_id, wager_id, kind, amount, reference, note)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query,
		e.UserID, e.WagerID, string(e.Kind), e.Amount, e.Reference, e.Note)
	if err != nil {
		return fmt.Errorf("postgres: insert ledger entry for user %d: %w", e.UserID, err)
	}
	return nil
}

// ListByUser returns a user's wallet movements, newest first.
func (s *LedgerStore) ListByUser(ctx context.Context, userID int64, opts domain.ListOpts) ([]domain.LedgerEntry, error) {
	query := `SELECT id, user_id, wager_id, kind, amount, reference, note, created_at
		FROM ledger_entries WHERE user_id = $1`
	args := []any{userID}

	if opts.Since != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", len(args)+1)
		args = append(args, *opts.Since)
	}
	if opts.Until != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", len(args)+1)
		args = append(args, *opts.Until)
	}

	query += " ORDER BY created_at DESC"

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
		return nil, fmt.Errorf("postgres: list ledger for user %d: %w", userID, err)
	}
	defer rows.Close()

	entries, err := scanLedgerRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan ledger for user %d: %w", userID, err)
	}
	return entries, nil
}

func scanLedgerRows(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var kind string
		err := rows.Scan(&e.ID, &e.UserID, &e.WagerID, &kind,
			&e.Amount, &e.Reference, &e.Note, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		e.Kind = domain.LedgerKind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
