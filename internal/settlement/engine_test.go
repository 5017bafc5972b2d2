package settlement

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bichocore/settler/internal/domain"
)

type fakeWagerStore struct {
	wagers []domain.Wager
	nextID int64
}

func (f *fakeWagerStore) Create(_ context.Context, w *domain.Wager) error {
	f.nextID++
	w.ID = f.nextID
	w.CreatedAt = time.Now()
	f.wagers = append(f.wagers, *w)
	return nil
}

func (f *fakeWagerStore) GetByID(_ context.Context, id int64) (domain.Wager, error) {
	for _, w := range f.wagers {
		if w.ID == id {
			return w, nil
		}
	}
	return domain.Wager{}, domain.ErrNotFound
}

func (f *fakeWagerStore) ListPending(_ context.Context, _ domain.ListOpts) ([]domain.Wager, error) {
	var out []domain.Wager
	for _, w := range f.wagers {
		if w.Status == domain.WagerPending {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWagerStore) List(_ context.Context, filter domain.WagerFilter) ([]domain.Wager, error) {
	var out []domain.Wager
	for _, w := range f.wagers {
		if filter.Status != nil && w.Status != *filter.Status {
			continue
		}
		if filter.Lottery != "" && w.Lottery != filter.Lottery {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (f *fakeWagerStore) CountByStatus(_ context.Context) (map[domain.WagerStatus]int64, error) {
	out := make(map[domain.WagerStatus]int64)
	for _, w := range f.wagers {
		out[w.Status]++
	}
	return out, nil
}

type fakeSettlementStore struct {
	wagers *fakeWagerStore
	calls  []domain.SettleParams
}

func (f *fakeSettlementStore) Settle(_ context.Context, p domain.SettleParams) error {
	for i := range f.wagers.wagers {
		w := &f.wagers.wagers[i]
		if w.ID != p.WagerID {
			continue
		}
		if w.Status != domain.WagerPending {
			return domain.ErrAlreadySettled
		}
		w.Status = p.Outcome
		f.calls = append(f.calls, p)
		return nil
	}
	return domain.ErrNotFound
}

type fakeSource struct {
	results []domain.OfficialResult
	err     error
	calls   int
}

func (f *fakeSource) ForDate(_ context.Context, _ string, _ time.Time) ([]domain.OfficialResult, error) {
	f.calls++
	return f.results, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeScheduleStore struct {
	schedules []domain.DrawSchedule
}

func (f *fakeScheduleStore) ListActive(context.Context) ([]domain.DrawSchedule, error) {
	return f.schedules, nil
}

func (f *fakeScheduleStore) ListByLottery(_ context.Context, lottery string) ([]domain.DrawSchedule, error) {
	var out []domain.DrawSchedule
	for _, s := range f.schedules {
		if s.Lottery == lottery {
			out = append(out, s)
		}
	}
	return out, nil
}

func newTestEngine(wagers *fakeWagerStore, source ResultSource) (*Engine, *fakeSettlementStore) {
	store := &fakeSettlementStore{wagers: wagers}
	return NewEngine(wagers, store, source, nil, nil, nil, nil, discardLogger()), store
}

func newTestEngineWithSchedules(wagers *fakeWagerStore, source ResultSource,
	schedules domain.ScheduleStore) (*Engine, *fakeSettlementStore) {
	store := &fakeSettlementStore{wagers: wagers}
	return NewEngine(wagers, store, source, nil, schedules, nil, nil, discardLogger()), store
}

func pastDate() time.Time {
	return time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC) // a Monday
}

func pendingWager(id int64, lottery, drawTime string, date time.Time) domain.Wager {
	return domain.Wager{
		ID:           id,
		OwnerID:      1,
		Lottery:      lottery,
		DrawTime:     drawTime,
		ContestDate:  date,
		ModalityName: "Grupo",
		Guesses:      []domain.Guess{{Groups: []int{8}}},
		Positions:    "1-5",
		Stake:        10,
		Division:     domain.DivisionPerGuess,
		Status:       domain.WagerPending,
	}
}

func TestRunSettlesWinningWager(t *testing.T) {
	date := pastDate()
	wagers := &fakeWagerStore{wagers: []domain.Wager{
		pendingWager(1, "NACIONAL", "21:00", date),
	}, nextID: 1}
	source := &fakeSource{results: []domain.OfficialResult{
		slotAt("NACIONAL", "21:00", date, 7), // group 8 at position 3
	}}
	engine, store := newTestEngine(wagers, source)

	summary, err := engine.Run(context.Background(), RunFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Settled)
	assert.InDelta(t, 36.0, summary.TotalPrize, 1e-9)
	assert.Equal(t, "direct", summary.Source)

	require.Len(t, store.calls, 1)
	assert.Equal(t, domain.WagerWon, store.calls[0].Outcome)
	assert.InDelta(t, 36.0, store.calls[0].Prize, 1e-9)
	assert.Equal(t, domain.WagerWon, wagers.wagers[0].Status)
}

func TestRunMarksLosingWager(t *testing.T) {
	date := pastDate()
	w := pendingWager(1, "NACIONAL", "21:00", date)
	w.Guesses = []domain.Guess{{Groups: []int{25}}} // group 25 not drawn in 1-5
	wagers := &fakeWagerStore{wagers: []domain.Wager{w}, nextID: 1}
	source := &fakeSource{results: []domain.OfficialResult{
		slotAt("NACIONAL", "21:00", date, 7),
	}}
	engine, store := newTestEngine(wagers, source)

	summary, err := engine.Run(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.Settled)
	require.Len(t, store.calls, 1)
	assert.Equal(t, domain.WagerLost, store.calls[0].Outcome)
	assert.Zero(t, store.calls[0].Prize)
}

func TestRunIncompleteResultStaysPending(t *testing.T) {
	date := pastDate()
	wagers := &fakeWagerStore{wagers: []domain.Wager{
		pendingWager(1, "NACIONAL", "21:00", date),
	}, nextID: 1}
	source := &fakeSource{results: []domain.OfficialResult{
		slotAt("NACIONAL", "21:00", date, 5), // only 5 of 7 positions
	}}
	engine, store := newTestEngine(wagers, source)

	summary, err := engine.Run(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Zero(t, summary.Processed)
	assert.Empty(t, store.calls)
	assert.Equal(t, domain.WagerPending, wagers.wagers[0].Status)
}

func TestRunWeekdayGate(t *testing.T) {
	sunday := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)
	wagers := &fakeWagerStore{wagers: []domain.Wager{
		pendingWager(1, "FEDERAL", "20:00", sunday),
	}, nextID: 1}
	source := &fakeSource{results: []domain.OfficialResult{
		slotAt("FEDERAL", "20:00", sunday, 7),
	}}
	engine, store := newTestEngine(wagers, source)

	summary, err := engine.Run(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Zero(t, summary.Processed)
	assert.Empty(t, store.calls)
	assert.Equal(t, domain.WagerPending, wagers.wagers[0].Status)
}

func TestRunIdempotent(t *testing.T) {
	date := pastDate()
	wagers := &fakeWagerStore{wagers: []domain.Wager{
		pendingWager(1, "NACIONAL", "21:00", date),
	}, nextID: 1}
	source := &fakeSource{results: []domain.OfficialResult{
		slotAt("NACIONAL", "21:00", date, 7),
	}}
	engine, store := newTestEngine(wagers, source)

	_, err := engine.Run(context.Background(), RunFilter{})
	require.NoError(t, err)
	require.Len(t, store.calls, 1)

	// Second pass finds nothing pending; no second credit.
	summary, err := engine.Run(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Zero(t, summary.Processed)
	assert.Len(t, store.calls, 1)
}

func TestRunTotalFetchFailure(t *testing.T) {
	date := pastDate()
	wagers := &fakeWagerStore{wagers: []domain.Wager{
		pendingWager(1, "NACIONAL", "21:00", date),
	}, nextID: 1}
	source := &fakeSource{err: domain.ErrUpstreamTimeout}
	engine, _ := newTestEngine(wagers, source)

	_, err := engine.Run(context.Background(), RunFilter{})
	assert.ErrorIs(t, err, domain.ErrUpstreamTimeout)
}

func TestRunContinuesPastBadWager(t *testing.T) {
	date := pastDate()
	bad := pendingWager(1, "NACIONAL", "21:00", date)
	bad.ModalityName = "Modalidade Inexistente"
	good := pendingWager(2, "NACIONAL", "21:00", date)
	wagers := &fakeWagerStore{wagers: []domain.Wager{bad, good}, nextID: 2}
	source := &fakeSource{results: []domain.OfficialResult{
		slotAt("NACIONAL", "21:00", date, 7),
	}}
	engine, store := newTestEngine(wagers, source)

	summary, err := engine.Run(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	require.Len(t, store.calls, 1)
	assert.Equal(t, int64(2), store.calls[0].WagerID)
}

func TestRunResolvesScheduleIDReference(t *testing.T) {
	date := pastDate()
	wagers := &fakeWagerStore{wagers: []domain.Wager{
		pendingWager(1, "3", "21:00", date), // stored by schedule id, not name
	}, nextID: 1}
	source := &fakeSource{results: []domain.OfficialResult{
		slotAt("NACIONAL", "21:00", date, 7),
	}}
	schedules := &fakeScheduleStore{schedules: []domain.DrawSchedule{
		{ID: 3, Lottery: "NACIONAL", DrawTime: "21:00", Active: true},
	}}
	engine, store := newTestEngineWithSchedules(wagers, source, schedules)

	summary, err := engine.Run(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Settled)
	require.Len(t, store.calls, 1)
	assert.Positive(t, source.calls, "the id must resolve to a fetchable lottery")
}

func TestRunHourOnlyLabelMatchesLoosely(t *testing.T) {
	date := pastDate()
	wagers := &fakeWagerStore{wagers: []domain.Wager{
		pendingWager(1, "NACIONAL", "21h", date), // hour only, no exact minute
	}, nextID: 1}
	source := &fakeSource{results: []domain.OfficialResult{
		slotAt("NACIONAL", "21:10", date, 7),
	}}
	engine, store := newTestEngine(wagers, source)

	// 10 minutes off is fine for an hour-only label; only "HH:MM" wagers
	// get the 5-minute gate.
	summary, err := engine.Run(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	require.Len(t, store.calls, 1)
	assert.Equal(t, domain.WagerWon, store.calls[0].Outcome)
}

func TestCallbackIdempotent(t *testing.T) {
	date := pastDate()
	wagers := &fakeWagerStore{wagers: []domain.Wager{
		pendingWager(7, "NACIONAL", "21:00", date),
	}, nextID: 7}
	store := &fakeSettlementStore{wagers: wagers}
	cb := NewCallback(wagers, store, discardLogger())

	res, err := cb.Apply(context.Background(), CallbackPayload{
		ExternalWagerRef: "7",
		Outcome:          "won",
		PrizeAmount:      50,
	})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.False(t, res.AlreadySettled)
	require.Len(t, store.calls, 1)
	assert.InDelta(t, 50.0, store.calls[0].Prize, 1e-9)

	// Replay acknowledges without a second commit.
	res, err = cb.Apply(context.Background(), CallbackPayload{
		ExternalWagerRef: "7",
		Outcome:          "won",
		PrizeAmount:      50,
	})
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.True(t, res.AlreadySettled)
	assert.Len(t, store.calls, 1)
}

func TestCallbackValidation(t *testing.T) {
	wagers := &fakeWagerStore{}
	store := &fakeSettlementStore{wagers: wagers}
	cb := NewCallback(wagers, store, discardLogger())

	_, err := cb.Apply(context.Background(), CallbackPayload{Outcome: "won"})
	assert.Error(t, err)

	_, err = cb.Apply(context.Background(), CallbackPayload{ExternalWagerRef: "1", Outcome: "maybe"})
	assert.Error(t, err)

	_, err = cb.Apply(context.Background(), CallbackPayload{ExternalWagerRef: "99", Outcome: "lost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
