package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bichocore/settler/internal/domain"
)

// SettlementStore implements domain.SettlementStore using PostgreSQL.
// The pending-status guard in the wager update is what makes concurrent
// settlement paths (batch, callback, instant) safe against double credit.
type SettlementStore struct {
	pool *pgxpool.Pool
}

// NewSettlementStore creates a new SettlementStore backed by the given connection pool.
func NewSettlementStore(pool *pgxpool.Pool) *SettlementStore {
	return &SettlementStore{pool: pool}
}

var _ domain.SettlementStore = (*SettlementStore)(nil)

// Settle flips the wager off pending, credits any prize to the owner's
// wallet, and records the ledger entry, all in one transaction. A wager
// that is no longer pending returns ErrAlreadySettled untouched.
func (s *SettlementStore) Settle(ctx context.Context, p domain.SettleParams) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: settle wager %d: begin: %w", p.WagerID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	const updateWager = `
		UPDATE wagers SET
			status = $2,
			details = COALESCE(details, '{}'::jsonb) || $3::jsonb,
			settled_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING owner_id`

	var ownerID int64
	err = tx.QueryRow(ctx, updateWager, p.WagerID, string(p.Outcome), []byte(p.Details)).Scan(&ownerID)
	if err != nil {
		// Zero rows: either the wager does not exist or it is already
		// settled. Check which without holding the row.
		var status string
		probe := s.pool.QueryRow(ctx, "SELECT status FROM wagers WHERE id = $1", p.WagerID)
		if probeErr := probe.Scan(&status); probeErr != nil {
			return domain.ErrNotFound
		}
		if status != string(domain.WagerPending) {
			return domain.ErrAlreadySettled
		}
		return fmt.Errorf("postgres: settle wager %d: %w", p.WagerID, err)
	}

	if p.Outcome == domain.WagerWon && p.Prize > 0 {
		const creditWallet = `
			UPDATE users SET balance = balance + $2, updated_at = NOW()
			WHERE id = $1`
		if _, err := tx.Exec(ctx, creditWallet, ownerID, p.Prize); err != nil {
			return fmt.Errorf("postgres: credit prize for wager %d: %w", p.WagerID, err)
		}

		const insertLedger = `
			INSERT INTO ledger_entries (user_id, wager_id, kind, amount, reference, note)
			VALUES ($1, $2, $3, $4, $5, $6)`
		note := fmt.Sprintf("settlement via %s", p.Source)
		if _, err := tx.Exec(ctx, insertLedger,
			ownerID, p.WagerID, string(domain.LedgerCreditPrize),
			p.Prize, p.Reference, note); err != nil {
			return fmt.Errorf("postgres: ledger prize for wager %d: %w", p.WagerID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: settle wager %d: commit: %w", p.WagerID, err)
	}
	return nil
}
