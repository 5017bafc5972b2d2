package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bichocore/settler/internal/domain"
	"github.com/bichocore/settler/internal/odds"
	"github.com/bichocore/settler/internal/results"
	"github.com/bichocore/settler/internal/schedule"
)

const (
	perFetchTimeout = 30 * time.Second
	batchDeadline   = 120 * time.Second
)

// ResultSource yields normalized result slots for a (code, date) pair.
// *results.Service satisfies it.
type ResultSource interface {
	ForDate(ctx context.Context, code string, date time.Time) ([]domain.OfficialResult, error)
}

// Aggregator is the fallback result feed used when the direct upstream
// path fails entirely.
type Aggregator interface {
	ForDay(ctx context.Context, date time.Time) ([]domain.OfficialResult, error)
}

// Broadcaster pushes settlement events to connected operator clients.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// Notifier delivers batch summaries out of band.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// RunFilter narrows one settlement pass.
type RunFilter struct {
	Lottery       string
	ContestDate   *time.Time
	DrawTime      string
	UseAggregator bool
}

// Summary is the outcome of one settlement pass.
type Summary struct {
	BatchID    string  `json:"batchId"`
	Processed  int     `json:"processed"`
	Settled    int     `json:"settled"`
	TotalPrize float64 `json:"totalPrize"`
	Source     string  `json:"source"`
}

// Engine drives batch settlement: fetch official results for every
// distinct (lottery code, contest date) pair among the pending wagers,
// then walk the wagers sequentially, each committing in its own
// transaction. A failed wager is logged and skipped, never fatal.
type Engine struct {
	wagers     domain.WagerStore
	store      domain.SettlementStore
	source     ResultSource
	aggregator Aggregator
	schedules  domain.ScheduleStore
	hub        Broadcaster
	notifier   Notifier
	logger     *slog.Logger
}

func NewEngine(wagers domain.WagerStore, store domain.SettlementStore, source ResultSource,
	aggregator Aggregator, schedules domain.ScheduleStore, hub Broadcaster, notifier Notifier,
	logger *slog.Logger) *Engine {
	return &Engine{
		wagers:     wagers,
		store:      store,
		source:     source,
		aggregator: aggregator,
		schedules:  schedules,
		hub:        hub,
		notifier:   notifier,
		logger:     logger.With(slog.String("component", "settlement")),
	}
}

// Run executes one settlement pass. Only a total fetch failure (no
// results source reachable at all) is returned as an error; everything
// per-wager is absorbed into the summary.
func (e *Engine) Run(ctx context.Context, filter RunFilter) (Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, batchDeadline)
	defer cancel()

	summary := Summary{BatchID: uuid.NewString(), Source: "direct"}

	pending, err := e.loadPending(ctx, filter)
	if err != nil {
		return summary, fmt.Errorf("settlement: load pending: %w", err)
	}
	if len(pending) == 0 {
		return summary, nil
	}
	e.logger.InfoContext(ctx, "settlement pass started",
		slog.String("batch", summary.BatchID), slog.Int("pending", len(pending)))

	candidates, source, err := e.fetchCandidates(ctx, pending, filter.UseAggregator)
	if err != nil {
		return summary, err
	}
	summary.Source = source

	now := schedule.NowInZone()
	for i := range pending {
		w := &pending[i]
		if ctx.Err() != nil {
			// Deadline hit; the rest stays pending for the next pass.
			break
		}
		outcome, prize, skip, err := e.settleOne(ctx, w, candidates, now)
		if err != nil {
			e.logger.ErrorContext(ctx, "wager settlement failed",
				slog.Int64("wager", w.ID), slog.String("error", err.Error()))
			continue
		}
		if skip != "" {
			e.logger.DebugContext(ctx, "wager skipped",
				slog.Int64("wager", w.ID), slog.String("reason", skip))
			continue
		}
		summary.Processed++
		if outcome == domain.WagerWon {
			summary.Settled++
			summary.TotalPrize += prize
		}
		if e.hub != nil {
			e.hub.Broadcast("wager_settled", map[string]any{
				"wagerId": w.ID, "outcome": outcome, "prize": prize,
			})
		}
	}

	e.finish(ctx, summary)
	return summary, nil
}

func (e *Engine) loadPending(ctx context.Context, filter RunFilter) ([]domain.Wager, error) {
	status := domain.WagerPending
	pending, err := e.wagers.List(ctx, domain.WagerFilter{
		Status:   &status,
		Lottery:  filter.Lottery,
		Date:     filter.ContestDate,
		DrawTime: filter.DrawTime,
	})
	if err != nil {
		return nil, err
	}
	e.resolveLotteryRefs(ctx, pending)
	return pending, nil
}

// resolveLotteryRefs rewrites numeric lottery references ("3") to the
// configured schedule's lottery name, so the code alias table and the
// window lookup see a real name. Unresolvable references stay as-is and
// fall through to the keyword stage.
func (e *Engine) resolveLotteryRefs(ctx context.Context, pending []domain.Wager) {
	numeric := false
	for i := range pending {
		if isDigits(pending[i].Lottery) {
			numeric = true
			break
		}
	}
	if !numeric || e.schedules == nil {
		return
	}

	scheds, err := e.schedules.ListActive(ctx)
	if err != nil {
		e.logger.WarnContext(ctx, "schedule lookup failed", slog.String("error", err.Error()))
		return
	}
	byID := make(map[string]string, len(scheds))
	for _, s := range scheds {
		byID[strconv.FormatInt(s.ID, 10)] = s.Lottery
	}
	for i := range pending {
		w := &pending[i]
		if !isDigits(w.Lottery) {
			continue
		}
		if name, ok := byID[w.Lottery]; ok && name != "" {
			w.Lottery = name
		}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// fetchCandidates fans out one fetch per distinct (code, date) pair. The
// aggregator covers a total direct failure, or leads when requested.
func (e *Engine) fetchCandidates(ctx context.Context, pending []domain.Wager, preferAggregator bool) ([]domain.OfficialResult, string, error) {
	type pair struct {
		code string
		date string
	}
	pairs := make(map[pair]time.Time)
	for _, w := range pending {
		code := results.CodeForLottery(w.Lottery)
		if code == "" {
			continue
		}
		pairs[pair{code, w.ContestDate.Format("2006-01-02")}] = w.ContestDate
	}

	if preferAggregator && e.aggregator != nil {
		if all, err := e.fetchAggregator(ctx, pending); err == nil {
			return all, "aggregator", nil
		}
		e.logger.WarnContext(ctx, "aggregator unavailable, using direct path")
	}

	var (
		mu  sync.Mutex
		all []domain.OfficialResult
	)
	g, gctx := errgroup.WithContext(ctx)
	for p, date := range pairs {
		p, date := p, date
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, perFetchTimeout)
			defer cancel()
			res, err := e.source.ForDate(fctx, p.code, date)
			if err != nil {
				// Per-pair failures only surface through diagnostics.
				e.logger.WarnContext(gctx, "fetch failed",
					slog.String("code", p.code), slog.String("date", p.date),
					slog.String("error", err.Error()))
				return nil
			}
			mu.Lock()
			all = append(all, res...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "direct", err
	}
	if len(all) > 0 {
		return all, "direct", nil
	}

	if e.aggregator != nil && !preferAggregator {
		if agg, err := e.fetchAggregator(ctx, pending); err == nil && len(agg) > 0 {
			return agg, "aggregator", nil
		}
	}
	if len(pairs) == 0 {
		// Nothing resolvable to fetch; not a gateway failure.
		return nil, "direct", nil
	}
	return nil, "direct", fmt.Errorf("settlement: no results source reachable: %w", domain.ErrUpstreamTimeout)
}

func (e *Engine) fetchAggregator(ctx context.Context, pending []domain.Wager) ([]domain.OfficialResult, error) {
	dates := make(map[string]time.Time)
	for _, w := range pending {
		dates[w.ContestDate.Format("2006-01-02")] = w.ContestDate
	}
	var all []domain.OfficialResult
	for _, date := range dates {
		res, err := e.aggregator.ForDay(ctx, date)
		if err != nil {
			return nil, err
		}
		all = append(all, res...)
	}
	return all, nil
}

// settleOne runs the full gate-match-score-commit ladder for a wager.
// skip names the gate that left it pending; err is a real failure.
func (e *Engine) settleOne(ctx context.Context, w *domain.Wager, candidates []domain.OfficialResult, now time.Time) (domain.WagerStatus, float64, string, error) {
	window, windowFound := schedule.ResolveRealWindow(w.Lottery, w.DrawTime)

	if !schedule.HasDrawOnWeekday(window, windowFound, schedule.ContestDay(w.ContestDate).Weekday()) {
		return "", 0, "no draw on this weekday", nil
	}
	if !schedule.WindowHasOpened(window, windowFound, w.ContestDate, now) {
		return "", 0, "apuration window not open", nil
	}

	slot, _, err := MatchSlot(candidates, w, window, windowFound)
	if err != nil {
		if errors.Is(err, domain.ErrNoMatch) {
			return "", 0, "no result matched", nil
		}
		return "", 0, "", err
	}
	if !slot.Complete() {
		return "", 0, "result not fully published", nil
	}
	if t := w.DrawTime; explicitDrawTime(t) {
		if d := schedule.ClockDiffMinutes(t, slot.TimeLabel); d < 0 || d > explicitTimeTolerance {
			return "", 0, "slot time outside explicit tolerance", nil
		}
	}

	score, err := e.score(w, slot)
	if err != nil {
		return "", 0, "", err
	}

	outcome := domain.WagerLost
	if score.TotalPrize > 0 {
		outcome = domain.WagerWon
	}
	if err := e.commit(ctx, w, slot, outcome, score, "batch"); err != nil {
		return "", 0, "", err
	}
	return outcome, score.TotalPrize, "", nil
}

func (e *Engine) score(w *domain.Wager, slot domain.OfficialResult) (odds.WagerScore, error) {
	modality, ok := domain.ParseModality(w.ModalityName)
	if !ok {
		if modality, ok = domain.ParseModality(string(w.Modality)); !ok {
			return odds.WagerScore{}, fmt.Errorf("settlement: wager %d modality %q: %w",
				w.ID, w.ModalityName, domain.ErrUnknownModality)
		}
	}
	r := odds.ParseRange(w.Positions, 1)
	if modality.IsPasse() {
		r = odds.Range{From: 1, To: 2}
	}
	return odds.ScoreWager(slot.Numbers(), modality, w.Guesses, r, w.Stake, w.Division)
}

func (e *Engine) commit(ctx context.Context, w *domain.Wager, slot domain.OfficialResult,
	outcome domain.WagerStatus, score odds.WagerScore, source string) error {

	details, err := json.Marshal(domain.SettlementDetails{
		Outcome:       outcome,
		Prize:         score.TotalPrize,
		Hits:          score.Hits,
		ResultLottery: slot.Lottery,
		ResultTime:    slot.TimeLabel,
		ResultNumbers: slot.Numbers(),
		Source:        source,
		SettledAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("settlement: marshal details: %w", err)
	}

	err = e.store.Settle(ctx, domain.SettleParams{
		WagerID:   w.ID,
		Outcome:   outcome,
		Prize:     score.TotalPrize,
		Details:   details,
		Reference: uuid.NewString(),
		Source:    source,
	})
	if errors.Is(err, domain.ErrAlreadySettled) {
		// Another path got there first; that commit stands.
		e.logger.InfoContext(ctx, "wager already settled elsewhere", slog.Int64("wager", w.ID))
		return nil
	}
	return err
}

func (e *Engine) finish(ctx context.Context, s Summary) {
	e.logger.InfoContext(ctx, "settlement pass finished",
		slog.String("batch", s.BatchID),
		slog.Int("processed", s.Processed),
		slog.Int("settled", s.Settled),
		slog.Float64("total_prize", s.TotalPrize),
		slog.String("source", s.Source))

	if e.hub != nil {
		e.hub.Broadcast("batch_finished", s)
	}
	if e.notifier != nil && s.Processed > 0 {
		msg := fmt.Sprintf("Settlement batch %s: %d processed, %d won, R$ %.2f paid (%s)",
			s.BatchID, s.Processed, s.Settled, s.TotalPrize, s.Source)
		if err := e.notifier.Send(ctx, msg); err != nil {
			e.logger.WarnContext(ctx, "batch notification failed", slog.String("error", err.Error()))
		}
	}
}
