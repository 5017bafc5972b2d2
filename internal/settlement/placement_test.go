package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bichocore/settler/internal/domain"
)

type fakeUserStore struct {
	balance float64
	bonus   float64
	debits  []float64
	credits []float64
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (domain.User, error) {
	return domain.User{ID: id, Balance: f.balance, Bonus: f.bonus}, nil
}

func (f *fakeUserStore) DebitStake(_ context.Context, _ int64, amount float64) error {
	if amount > f.balance+f.bonus {
		return domain.ErrInsufficientBalance
	}
	fromBalance := amount
	if fromBalance > f.balance {
		fromBalance = f.balance
	}
	f.balance -= fromBalance
	f.bonus -= amount - fromBalance
	f.debits = append(f.debits, amount)
	return nil
}

func (f *fakeUserStore) Credit(_ context.Context, _ int64, amount float64) error {
	f.balance += amount
	f.credits = append(f.credits, amount)
	return nil
}

type fakeLedgerStore struct {
	entries []domain.LedgerEntry
}

func (f *fakeLedgerStore) Insert(_ context.Context, e domain.LedgerEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeLedgerStore) ListByUser(_ context.Context, _ int64, _ domain.ListOpts) ([]domain.LedgerEntry, error) {
	return f.entries, nil
}

func newTestPlacement(users *fakeUserStore) (*Placement, *fakeWagerStore, *fakeLedgerStore, *fakeSettlementStore) {
	wagers := &fakeWagerStore{}
	ledger := &fakeLedgerStore{}
	store := &fakeSettlementStore{wagers: wagers}
	engine := NewEngine(wagers, store, &fakeSource{}, nil, nil, nil, nil, discardLogger())
	return NewPlacement(users, wagers, ledger, store, engine, discardLogger()), wagers, ledger, store
}

// brokenWagerStore fails every insert, for exercising the refund path.
type brokenWagerStore struct {
	fakeWagerStore
}

func (b *brokenWagerStore) Create(context.Context, *domain.Wager) error {
	return assert.AnError
}

func placementReq() PlacementRequest {
	return PlacementRequest{
		OwnerID:      1,
		Lottery:      "NACIONAL",
		DrawTime:     "21:00",
		ContestDate:  time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		ModalityName: "Grupo",
		Guesses:      []domain.Guess{{Groups: []int{8}}, {Groups: []int{14}}},
		Positions:    "1-5",
		Stake:        10,
		Division:     domain.DivisionPerGuess,
	}
}

func TestPlaceChargesTotalStake(t *testing.T) {
	users := &fakeUserStore{balance: 100}
	p, wagers, ledger, _ := newTestPlacement(users)

	w, err := p.Place(context.Background(), placementReq())
	require.NoError(t, err)
	require.NotNil(t, w)

	// "each": two guesses at 10 charge 20.
	require.Len(t, users.debits, 1)
	assert.InDelta(t, 20.0, users.debits[0], 1e-9)
	assert.InDelta(t, 80.0, users.balance, 1e-9)
	assert.Equal(t, domain.WagerPending, w.Status)
	assert.Len(t, wagers.wagers, 1)

	require.Len(t, ledger.entries, 1)
	assert.Equal(t, domain.LedgerDebitStake, ledger.entries[0].Kind)
	assert.InDelta(t, -20.0, ledger.entries[0].Amount, 1e-9)
	assert.NotEmpty(t, ledger.entries[0].Reference)
}

func TestPlaceSplitTotalChargesEnteredStake(t *testing.T) {
	users := &fakeUserStore{balance: 100}
	p, _, _, _ := newTestPlacement(users)

	req := placementReq()
	req.Division = domain.DivisionSplitTotal
	_, err := p.Place(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, users.debits, 1)
	assert.InDelta(t, 10.0, users.debits[0], 1e-9)
}

func TestPlaceInsufficientBalance(t *testing.T) {
	users := &fakeUserStore{balance: 5, bonus: 5}
	p, wagers, ledger, _ := newTestPlacement(users)

	_, err := p.Place(context.Background(), placementReq())
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Empty(t, wagers.wagers)
	assert.Empty(t, ledger.entries)
	assert.InDelta(t, 5.0, users.balance, 1e-9)
}

func TestPlaceDebitsBalanceThenBonus(t *testing.T) {
	users := &fakeUserStore{balance: 15, bonus: 10}
	p, _, _, _ := newTestPlacement(users)

	_, err := p.Place(context.Background(), placementReq())
	require.NoError(t, err)
	assert.Zero(t, users.balance)
	assert.InDelta(t, 5.0, users.bonus, 1e-9)
}

func TestPlaceRefundsStakeWhenCreateFails(t *testing.T) {
	users := &fakeUserStore{balance: 100}
	wagers := &brokenWagerStore{}
	ledger := &fakeLedgerStore{}
	store := &fakeSettlementStore{wagers: &wagers.fakeWagerStore}
	engine := NewEngine(wagers, store, &fakeSource{}, nil, nil, nil, nil, discardLogger())
	p := NewPlacement(users, wagers, ledger, store, engine, discardLogger())

	_, err := p.Place(context.Background(), placementReq())
	require.Error(t, err)

	// The 20 charged comes straight back; the ledger shows the reversal.
	require.Len(t, users.credits, 1)
	assert.InDelta(t, 20.0, users.credits[0], 1e-9)
	assert.InDelta(t, 100.0, users.balance, 1e-9)
	require.Len(t, ledger.entries, 1)
	assert.Equal(t, domain.LedgerRefund, ledger.entries[0].Kind)
	assert.InDelta(t, 20.0, ledger.entries[0].Amount, 1e-9)
}

func TestPlaceUnknownModality(t *testing.T) {
	users := &fakeUserStore{balance: 100}
	p, _, _, _ := newTestPlacement(users)

	req := placementReq()
	req.ModalityName = "Jogo do Tigre"
	_, err := p.Place(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrUnknownModality)
	assert.Empty(t, users.debits)
}

func TestPlaceInstantSettlesImmediately(t *testing.T) {
	users := &fakeUserStore{balance: 100}
	p, wagers, _, store := newTestPlacement(users)

	req := placementReq()
	req.Instant = true
	w, err := p.Place(context.Background(), req)
	require.NoError(t, err)

	// Instant wagers leave placement terminal either way.
	assert.Contains(t, []domain.WagerStatus{domain.WagerWon, domain.WagerLost}, w.Status)
	require.Len(t, store.calls, 1)
	assert.Equal(t, "instant", store.calls[0].Source)
	assert.Equal(t, w.Status, wagers.wagers[0].Status)
}
