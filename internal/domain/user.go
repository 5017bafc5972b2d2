package domain

import "time"

// User is a bettor account. Balance and Bonus are in the house currency;
// stakes debit balance first, then bonus.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Balance   float64   `json:"balance"`
	Bonus     float64   `json:"bonus"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LedgerKind string

const (
	LedgerDebitStake  LedgerKind = "stake_debit"
	LedgerCreditPrize LedgerKind = "prize_credit"
	LedgerRefund      LedgerKind = "refund"
)

// LedgerEntry records one wallet movement. Reference carries an external
// correlation id (uuid) for audits.
type LedgerEntry struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	WagerID   *int64     `json:"wagerId,omitempty"`
	Kind      LedgerKind `json:"kind"`
	Amount    float64    `json:"amount"` // positive credit, negative debit
	Reference string     `json:"reference"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
