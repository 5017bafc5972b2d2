package domain

import (
	"encoding/json"
	"time"
)

type WagerStatus string

const (
	WagerPending WagerStatus = "pending"
	WagerWon     WagerStatus = "won"
	WagerLost    WagerStatus = "lost"
)

// DivisionMode controls how the displayed stake relates to each guess.
type DivisionMode string

const (
	// DivisionPerGuess charges the full stake for every guess.
	DivisionPerGuess DivisionMode = "each"
	// DivisionSplitTotal splits the stake evenly across the guesses.
	DivisionSplitTotal DivisionMode = "all"
)

// Guess is one line of a wager. Group modalities fill Groups; numeric
// modalities fill Number (digit string, leading zeros preserved).
type Guess struct {
	Groups []int  `json:"groups,omitempty"`
	Number string `json:"number,omitempty"`
}

// Wager is a placed bet awaiting or past settlement.
type Wager struct {
	ID              int64           `json:"id"`
	OwnerID         int64           `json:"ownerId"`
	Lottery         string          `json:"lottery"`
	DrawTime        string          `json:"drawTime"` // "HH:MM", empty when only a label was stored
	ContestDate     time.Time       `json:"contestDate"`
	Modality        Modality        `json:"modality"`
	ModalityName    string          `json:"modalityName"`
	Guesses         []Guess         `json:"guesses"`
	Positions       string          `json:"positions"` // raw label, e.g. "1st", "1-5"
	Stake           float64         `json:"stake"`
	Division        DivisionMode    `json:"division"`
	ProjectedReturn float64         `json:"projectedReturn"`
	Status          WagerStatus     `json:"status"`
	Instant         bool            `json:"instant"`
	Details         json.RawMessage `json:"details,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	SettledAt       *time.Time      `json:"settledAt,omitempty"`
}

// WagerFilter narrows listings of wagers.
type WagerFilter struct {
	OwnerID  *int64
	Status   *WagerStatus
	Lottery  string
	DrawTime string
	Date     *time.Time
	Limit    int
	Offset   int
}

// SettlementDetails is the snapshot merged into the wager details blob
// when a wager is settled.
type SettlementDetails struct {
	Outcome       WagerStatus `json:"outcome"`
	Prize         float64     `json:"prize"`
	Hits          int         `json:"hits"`
	ResultLottery string      `json:"resultLottery"`
	ResultTime    string      `json:"resultTime"`
	ResultNumbers []string    `json:"resultNumbers"`
	Source        string      `json:"source"`
	SettledAt     time.Time   `json:"settledAt"`
}
