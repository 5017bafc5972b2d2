package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bichocore/settler/internal/domain"
)

// UserStore implements domain.UserStore using PostgreSQL.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new UserStore backed by the given connection pool.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

var _ domain.UserStore = (*UserStore)(nil)

// GetByID retrieves a single user by ID.
func (s *UserStore) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, balance, bonus, created_at, updated_at
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Balance, &u.Bonus, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("postgres: get user %d: %w", id, err)
	}
	return u, nil
}

// DebitStake takes amount from balance first, then bonus, in one guarded
// update. Zero rows affected means the combined funds could not cover it.
func (s *UserStore) DebitStake(ctx context.Context, userID int64, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("postgres: debit stake: non-positive amount %.2f", amount)
	}

	const query = `
		UPDATE users SET
			balance = balance - LEAST(balance, $2),
			bonus = bonus - ($2 - LEAST(balance, $2)),
			updated_at = NOW()
		WHERE id = $1 AND balance + bonus >= $2`

	tag, err := s.pool.Exec(ctx, query, userID, amount)
	if err != nil {
		return fmt.Errorf("postgres: debit stake for user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing account from an underfunded one.
		var exists bool
		if err := s.pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", userID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("postgres: check user %d: %w", userID, err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientBalance
	}
	return nil
}

// Credit returns amount to the user's cash balance. Used to undo a stake
// debit when wager creation fails after the charge.
func (s *UserStore) Credit(ctx context.Context, userID int64, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("postgres: credit: non-positive amount %.2f", amount)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET balance = balance + $2, updated_at = NOW() WHERE id = $1`,
		userID, amount)
	if err != nil {
		return fmt.Errorf("postgres: credit user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
