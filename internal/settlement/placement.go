package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bichocore/settler/internal/domain"
	"github.com/bichocore/settler/internal/odds"
)

// instantPrizeCount is how many positions an instant draw synthesizes:
// five drawn plus the two derived.
const instantPrizeCount = 7

// PlacementRequest is a wager submission.
type PlacementRequest struct {
	OwnerID      int64               `json:"ownerId"`
	Lottery      string              `json:"lottery"`
	DrawTime     string              `json:"drawTime"`
	ContestDate  time.Time           `json:"contestDate"`
	ModalityName string              `json:"modalityName"`
	Guesses      []domain.Guess      `json:"guesses"`
	Positions    string              `json:"positions"`
	Stake        float64             `json:"stake"`
	Division     domain.DivisionMode `json:"division"`
	Instant      bool                `json:"instant"`
}

// Placement validates and persists new wagers. Stakes debit the wallet
// up front; instant wagers are settled immediately against a synthesized
// draw instead of waiting for an official result.
type Placement struct {
	users  domain.UserStore
	wagers domain.WagerStore
	ledger domain.LedgerStore
	store  domain.SettlementStore
	engine *Engine
	logger *slog.Logger
}

func NewPlacement(users domain.UserStore, wagers domain.WagerStore, ledger domain.LedgerStore,
	store domain.SettlementStore, engine *Engine, logger *slog.Logger) *Placement {
	return &Placement{
		users:  users,
		wagers: wagers,
		ledger: ledger,
		store:  store,
		engine: engine,
		logger: logger.With(slog.String("component", "placement")),
	}
}

// Place validates the request, charges the stake, and creates the wager.
// ErrInsufficientBalance means nothing was created or charged.
func (p *Placement) Place(ctx context.Context, req PlacementRequest) (*domain.Wager, error) {
	modality, ok := domain.ParseModality(req.ModalityName)
	if !ok {
		return nil, fmt.Errorf("placement: modality %q: %w", req.ModalityName, domain.ErrUnknownModality)
	}
	r := odds.ParseRange(req.Positions, 1)
	if modality.IsPasse() {
		r = odds.Range{From: 1, To: 2}
	}
	if len(req.Guesses) == 0 {
		return nil, fmt.Errorf("placement: no guesses: %w", domain.ErrInvalidGuess)
	}
	per := odds.StakePerGuess(req.Stake, len(req.Guesses), req.Division)
	var projected float64
	for _, g := range req.Guesses {
		calc, err := odds.Calculate(modality, g, r, per)
		if err != nil {
			return nil, err
		}
		odd, err := odds.Lookup(modality, r)
		if err != nil {
			return nil, err
		}
		projected += odd * calc.UnitValue
	}

	total := odds.TotalStake(req.Stake, len(req.Guesses), req.Division)
	if err := p.users.DebitStake(ctx, req.OwnerID, total); err != nil {
		return nil, err
	}

	w := &domain.Wager{
		OwnerID:         req.OwnerID,
		Lottery:         req.Lottery,
		DrawTime:        req.DrawTime,
		ContestDate:     req.ContestDate,
		Modality:        modality,
		ModalityName:    req.ModalityName,
		Guesses:         req.Guesses,
		Positions:       req.Positions,
		Stake:           req.Stake,
		Division:        req.Division,
		ProjectedReturn: projected,
		Status:          domain.WagerPending,
		Instant:         req.Instant,
	}
	if err := p.wagers.Create(ctx, w); err != nil {
		// The stake is already charged; put it back before failing.
		p.refundStake(ctx, req.OwnerID, total)
		return nil, fmt.Errorf("placement: create wager: %w", err)
	}

	wid := w.ID
	if err := p.ledger.Insert(ctx, domain.LedgerEntry{
		UserID:    req.OwnerID,
		WagerID:   &wid,
		Kind:      domain.LedgerDebitStake,
		Amount:    -total,
		Reference: uuid.NewString(),
	}); err != nil {
		p.logger.WarnContext(ctx, "stake ledger entry failed",
			slog.Int64("wager", w.ID), slog.String("error", err.Error()))
	}

	p.logger.InfoContext(ctx, "wager placed",
		slog.Int64("wager", w.ID), slog.Int64("owner", req.OwnerID),
		slog.Float64("stake", total), slog.Bool("instant", req.Instant))

	if req.Instant {
		if err := p.settleInstant(ctx, w); err != nil {
			p.logger.ErrorContext(ctx, "instant settlement failed",
				slog.Int64("wager", w.ID), slog.String("error", err.Error()))
		}
	}
	return w, nil
}

// refundStake reverses a stake debit whose wager never materialized.
func (p *Placement) refundStake(ctx context.Context, ownerID int64, amount float64) {
	if err := p.users.Credit(ctx, ownerID, amount); err != nil {
		p.logger.ErrorContext(ctx, "stake refund failed",
			slog.Int64("owner", ownerID), slog.Float64("amount", amount),
			slog.String("error", err.Error()))
		return
	}
	if err := p.ledger.Insert(ctx, domain.LedgerEntry{
		UserID:    ownerID,
		Kind:      domain.LedgerRefund,
		Amount:    amount,
		Reference: uuid.NewString(),
	}); err != nil {
		p.logger.WarnContext(ctx, "refund ledger entry failed",
			slog.Int64("owner", ownerID), slog.String("error", err.Error()))
	}
}

// settleInstant scores the wager against a synthesized draw right away.
func (p *Placement) settleInstant(ctx context.Context, w *domain.Wager) error {
	slot, err := odds.SynthesizeInstantResult(w.Lottery, instantPrizeCount)
	if err != nil {
		return err
	}
	score, err := p.engine.score(w, slot)
	if err != nil {
		return err
	}
	outcome := domain.WagerLost
	if score.TotalPrize > 0 {
		outcome = domain.WagerWon
	}
	if err := p.engine.commit(ctx, w, slot, outcome, score, "instant"); err != nil {
		return err
	}
	w.Status = outcome
	return nil
}
