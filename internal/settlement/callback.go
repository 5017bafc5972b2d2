package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/bichocore/settler/internal/domain"
)

// CallbackPayload is the external settlement notification shape. The
// external bot correlates by wager reference; everything past ref and
// outcome is optional enrichment.
type CallbackPayload struct {
	ExternalWagerRef string          `json:"externalWagerRef"`
	ExternalBotRef   string          `json:"externalBotRef,omitempty"`
	Outcome          string          `json:"outcome"`
	PrizeAmount      float64         `json:"prizeAmount,omitempty"`
	OfficialResult   json.RawMessage `json:"officialResult,omitempty"`
	Timestamp        time.Time       `json:"timestamp,omitempty"`
}

// CallbackResult reports what the intake did with a notification.
type CallbackResult struct {
	WagerID        int64  `json:"wagerId"`
	Applied        bool   `json:"applied"`
	AlreadySettled bool   `json:"alreadySettled"`
	Outcome        string `json:"outcome"`
}

// Callback applies settlements pushed by an external bot. The commit
// shares the engine's transactional path, so a race against the batch
// settles exactly once whichever side wins.
type Callback struct {
	wagers domain.WagerStore
	store  domain.SettlementStore
	logger *slog.Logger
}

func NewCallback(wagers domain.WagerStore, store domain.SettlementStore, logger *slog.Logger) *Callback {
	return &Callback{
		wagers: wagers,
		store:  store,
		logger: logger.With(slog.String("component", "callback")),
	}
}

// Apply processes one notification. A wager that is already terminal is
// acknowledged as success with no side effects.
func (c *Callback) Apply(ctx context.Context, p CallbackPayload) (CallbackResult, error) {
	if p.ExternalWagerRef == "" {
		return CallbackResult{}, fmt.Errorf("callback: missing wager reference: %w", domain.ErrInvalidGuess)
	}
	outcome, err := parseOutcome(p.Outcome)
	if err != nil {
		return CallbackResult{}, err
	}

	id, err := strconv.ParseInt(p.ExternalWagerRef, 10, 64)
	if err != nil {
		return CallbackResult{}, fmt.Errorf("callback: wager ref %q: %w", p.ExternalWagerRef, domain.ErrNotFound)
	}
	w, err := c.wagers.GetByID(ctx, id)
	if err != nil {
		return CallbackResult{}, fmt.Errorf("callback: wager %d: %w", id, err)
	}

	res := CallbackResult{WagerID: w.ID, Outcome: string(outcome)}
	if w.Status != domain.WagerPending {
		res.AlreadySettled = true
		return res, nil
	}

	prize := p.PrizeAmount
	if outcome == domain.WagerLost {
		prize = 0
	}
	details, err := json.Marshal(map[string]any{
		"outcome":        outcome,
		"prize":          prize,
		"source":         "callback",
		"externalBotRef": p.ExternalBotRef,
		"officialResult": p.OfficialResult,
		"settledAt":      time.Now().UTC(),
	})
	if err != nil {
		return res, fmt.Errorf("callback: marshal details: %w", err)
	}

	err = c.store.Settle(ctx, domain.SettleParams{
		WagerID:   w.ID,
		Outcome:   outcome,
		Prize:     prize,
		Details:   details,
		Reference: p.ExternalBotRef,
		Source:    "callback",
	})
	if errors.Is(err, domain.ErrAlreadySettled) {
		// The batch won the race after our status read.
		res.AlreadySettled = true
		return res, nil
	}
	if err != nil {
		return res, err
	}

	res.Applied = true
	c.logger.InfoContext(ctx, "external settlement applied",
		slog.Int64("wager", w.ID), slog.String("outcome", string(outcome)),
		slog.Float64("prize", prize))
	return res, nil
}

func parseOutcome(s string) (domain.WagerStatus, error) {
	switch s {
	case "won", "win", "liquidado":
		return domain.WagerWon, nil
	case "lost", "lose", "perdida":
		return domain.WagerLost, nil
	}
	return "", fmt.Errorf("callback: outcome %q: %w", s, domain.ErrInvalidGuess)
}
