package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/bichocore/settler/internal/results"
	"github.com/bichocore/settler/internal/schedule"
)

// WagerDiagnostic traces why a pending wager has not settled yet. Purely
// observational; nothing here feeds back into the engine.
type WagerDiagnostic struct {
	WagerID      int64     `json:"wagerId"`
	Lottery      string    `json:"lottery"`
	LotteryCode  string    `json:"lotteryCode"`
	DrawTime     string    `json:"drawTime"`
	ContestDate  time.Time `json:"contestDate"`
	WindowFound  bool      `json:"windowFound"`
	WindowStart  string    `json:"windowStart,omitempty"`
	WindowClose  string    `json:"windowClose,omitempty"`
	DrawsToday   bool      `json:"drawsToday"`
	WindowOpen   bool      `json:"windowOpen"`
	MatchTrace   []string  `json:"matchTrace,omitempty"`
	Matched      bool      `json:"matched"`
	SlotComplete bool      `json:"slotComplete"`
	SlotTime     string    `json:"slotTime,omitempty"`
	TimeGatePass bool      `json:"timeGatePass"`
	Verdict      string    `json:"verdict"`
}

// Diagnose walks every pending wager through the same gates as the
// engine, recording each decision instead of committing anything.
func (e *Engine) Diagnose(ctx context.Context, filter RunFilter) ([]WagerDiagnostic, error) {
	pending, err := e.loadPending(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("settlement: diagnostics load: %w", err)
	}

	candidates, _, fetchErr := e.fetchCandidates(ctx, pending, filter.UseAggregator)
	now := schedule.NowInZone()

	out := make([]WagerDiagnostic, 0, len(pending))
	for i := range pending {
		w := &pending[i]
		d := WagerDiagnostic{
			WagerID:     w.ID,
			Lottery:     w.Lottery,
			LotteryCode: results.CodeForLottery(w.Lottery),
			DrawTime:    w.DrawTime,
			ContestDate: w.ContestDate,
		}

		window, found := schedule.ResolveRealWindow(w.Lottery, w.DrawTime)
		d.WindowFound = found
		if found {
			d.WindowStart = window.StartReal
			d.WindowClose = window.CloseReal
		}
		d.DrawsToday = schedule.HasDrawOnWeekday(window, found, schedule.ContestDay(w.ContestDate).Weekday())
		d.WindowOpen = schedule.WindowHasOpened(window, found, w.ContestDate, now)

		switch {
		case !d.DrawsToday:
			d.Verdict = "no draw on this weekday"
		case !d.WindowOpen:
			d.Verdict = "apuration window not open"
		case fetchErr != nil:
			d.Verdict = "results unavailable: " + fetchErr.Error()
		default:
			slot, trace, err := MatchSlot(candidates, w, window, found)
			d.MatchTrace = trace
			if err != nil {
				d.Verdict = "no result matched after relaxation"
				break
			}
			d.Matched = true
			d.SlotTime = slot.TimeLabel
			d.SlotComplete = slot.Complete()
			d.TimeGatePass = true
			if t := w.DrawTime; explicitDrawTime(t) {
				if diff := schedule.ClockDiffMinutes(t, slot.TimeLabel); diff < 0 || diff > explicitTimeTolerance {
					d.TimeGatePass = false
				}
			}
			switch {
			case !d.SlotComplete:
				d.Verdict = "result not fully published"
			case !d.TimeGatePass:
				d.Verdict = "slot time outside explicit tolerance"
			default:
				d.Verdict = "ready to settle"
			}
		}
		out = append(out, d)
	}
	return out, nil
}
