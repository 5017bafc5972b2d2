package domain

import (
	"context"
	"encoding/json"
	"time"
)

// ListOpts provides pagination and filtering for list queries.
type ListOpts struct {
	Limit  int
	Offset int
	Since  *time.Time
	Until  *time.Time
}

// WagerStore persists wagers.
type WagerStore interface {
	Create(ctx context.Context, w *Wager) error
	GetByID(ctx context.Context, id int64) (Wager, error)
	ListPending(ctx context.Context, opts ListOpts) ([]Wager, error)
	List(ctx context.Context, filter WagerFilter) ([]Wager, error)
	CountByStatus(ctx context.Context) (map[WagerStatus]int64, error)
}

// UserStore persists bettor accounts and wallet balances.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (User, error)
	// DebitStake takes amount from balance then bonus, returning
	// ErrInsufficientBalance when the two combined cannot cover it.
	DebitStake(ctx context.Context, userID int64, amount float64) error
	// Credit returns amount to the cash balance.
	Credit(ctx context.Context, userID int64, amount float64) error
}

// LedgerStore persists wallet movements.
type LedgerStore interface {
	Insert(ctx context.Context, entry LedgerEntry) error
	ListByUser(ctx context.Context, userID int64, opts ListOpts) ([]LedgerEntry, error)
}

// ScheduleStore persists configured draw slots.
type ScheduleStore interface {
	ListActive(ctx context.Context) ([]DrawSchedule, error)
	ListByLottery(ctx context.Context, lottery string) ([]DrawSchedule, error)
}

// SettleParams describes one settlement commit.
type SettleParams struct {
	WagerID   int64
	Outcome   WagerStatus
	Prize     float64
	Details   json.RawMessage // merged into the wager details blob
	Reference string          // ledger correlation id
	Source    string          // "batch", "callback", "instant"
}

// SettlementStore commits a settlement atomically: flip the wager status
// off pending, credit the prize, and record the ledger entry in one
// transaction. A wager no longer pending yields ErrAlreadySettled.
type SettlementStore interface {
	Settle(ctx context.Context, p SettleParams) error
}

// ResultCache caches normalized results keyed by (lottery code, date).
type ResultCache interface {
	Get(ctx context.Context, code string, date time.Time) ([]OfficialResult, error)
	Set(ctx context.Context, code string, date time.Time, results []OfficialResult) error
}

// SnapshotArchiver stores raw upstream payloads for settlement audits.
type SnapshotArchiver interface {
	Archive(ctx context.Context, code string, date time.Time, body []byte) error
}

// LockManager provides distributed locks so only one settlement pass
// runs at a time across replicas.
type LockManager interface {
	// Acquire returns an unlock function, or ErrLockHeld when another
	// holder has the key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// RateLimiter applies a sliding-window limit per key.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
