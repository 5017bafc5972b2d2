package settlement

import (
	"fmt"
	"strings"
	"time"

	"github.com/bichocore/settler/internal/domain"
	"github.com/bichocore/settler/internal/results"
	"github.com/bichocore/settler/internal/schedule"
)

// Explicit wager times tolerate 5 minutes of drift; label-only wagers
// tolerate 15.
const (
	explicitTimeTolerance = 5
	looseTimeTolerance    = 15
)

// stage narrows the candidate slots. Stages never error; a stage that
// would eliminate every candidate is skipped instead, so matching only
// ever relaxes.
type stage func([]domain.OfficialResult) []domain.OfficialResult

func applyStages(candidates []domain.OfficialResult, stages ...stage) []domain.OfficialResult {
	for _, s := range stages {
		if next := s(candidates); len(next) > 0 {
			candidates = next
		}
	}
	return candidates
}

// MatchSlot selects the official result slot for a wager out of all
// fetched candidates, relaxing lottery identity, then contest date, then
// draw time. The trace records each stage for diagnostics.
func MatchSlot(candidates []domain.OfficialResult, w *domain.Wager,
	window domain.ApurationWindow, windowFound bool) (domain.OfficialResult, []string, error) {

	var trace []string
	note := func(format string, args ...any) {
		trace = append(trace, fmt.Sprintf(format, args...))
	}

	filtered := applyStages(candidates,
		traced(note, "lottery", lotteryStage(w.Lottery)),
		traced(note, "date", dateStage(w.ContestDate)),
	)

	filtered = applyStages(filtered, timeStages(note, w, window, windowFound)...)

	if len(filtered) == 0 {
		return domain.OfficialResult{}, trace,
			fmt.Errorf("settlement: wager %d: %w", w.ID, domain.ErrNoMatch)
	}

	// Several slots can survive; prefer the fullest one.
	best := filtered[0]
	for _, c := range filtered[1:] {
		if len(c.Prizes) > len(best.Prizes) {
			best = c
		}
	}
	note("selected slot %s %s with %d prizes", best.Lottery, best.TimeLabel, len(best.Prizes))
	return best, trace, nil
}

func traced(note func(string, ...any), name string, s stage) stage {
	return func(in []domain.OfficialResult) []domain.OfficialResult {
		out := s(in)
		if len(out) == 0 {
			note("%s stage would eliminate all %d candidates, skipped", name, len(in))
			return out
		}
		note("%s stage: %d -> %d candidates", name, len(in), len(out))
		return out
	}
}

// lotteryStage matches identity through the code alias table first, then
// by shared significant keywords.
func lotteryStage(lottery string) stage {
	return func(in []domain.OfficialResult) []domain.OfficialResult {
		if strings.TrimSpace(lottery) == "" {
			return in
		}
		wantCode := results.CodeForLottery(lottery)
		if wantCode != "" {
			var out []domain.OfficialResult
			for _, c := range in {
				if results.CodeForLottery(c.Lottery) == wantCode {
					out = append(out, c)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
		want := strings.ToLower(strings.TrimSpace(lottery))
		var out []domain.OfficialResult
		for _, c := range in {
			have := strings.ToLower(strings.TrimSpace(c.Lottery))
			if have == "" {
				continue
			}
			if strings.Contains(have, want) || strings.Contains(want, have) ||
				sharesKeyword(want, have) {
				out = append(out, c)
			}
		}
		return out
	}
}

func sharesKeyword(a, b string) bool {
	if len(a) <= 2 || len(b) <= 2 {
		return false
	}
	for _, word := range strings.Fields(a) {
		if len(word) > 2 && strings.Contains(b, word) {
			return true
		}
	}
	for _, word := range strings.Fields(b) {
		if len(word) > 2 && strings.Contains(a, word) {
			return true
		}
	}
	return false
}

// dateStage keeps slots for the wager's contest date, tolerating the
// upstream occasionally swapping day and month.
func dateStage(contestDate time.Time) stage {
	return func(in []domain.OfficialResult) []domain.OfficialResult {
		if contestDate.IsZero() {
			return in
		}
		want := contestDate.Format("2006-01-02")
		swapped := ""
		if contestDate.Day() <= 12 {
			swapped = fmt.Sprintf("%04d-%02d-%02d",
				contestDate.Year(), contestDate.Day(), int(contestDate.Month()))
		}
		var out []domain.OfficialResult
		for _, c := range in {
			have := c.ContestDate.Format("2006-01-02")
			if have == want || (swapped != "" && have == swapped) {
				out = append(out, c)
			}
		}
		return out
	}
}

// timeStages builds the relaxing draw-time ladder: exact label match,
// then within the real apuration window, then nearest within tolerance,
// then the busiest remaining slot.
func timeStages(note func(string, ...any), w *domain.Wager,
	window domain.ApurationWindow, windowFound bool) []stage {

	drawTime := strings.TrimSpace(w.DrawTime)
	if drawTime == "" || drawTime == "null" {
		note("time stage skipped, wager has no draw time")
		return nil
	}
	want := schedule.NormalizeClock(drawTime)

	exact := func(in []domain.OfficialResult) []domain.OfficialResult {
		var out []domain.OfficialResult
		for _, c := range in {
			have := schedule.NormalizeClock(c.TimeLabel)
			if have == want || strings.HasPrefix(have, want) || strings.HasPrefix(want, have) {
				out = append(out, c)
			}
		}
		return out
	}

	inWindow := func(in []domain.OfficialResult) []domain.OfficialResult {
		if !windowFound {
			return nil
		}
		var out []domain.OfficialResult
		for _, c := range in {
			have := schedule.NormalizeClock(c.TimeLabel)
			if clockBetween(have, window.StartReal, window.CloseReal) {
				out = append(out, c)
			}
		}
		return out
	}

	tolerance := looseTimeTolerance
	if explicitDrawTime(drawTime) {
		tolerance = explicitTimeTolerance
	}
	nearest := func(in []domain.OfficialResult) []domain.OfficialResult {
		bestDiff := -1
		var best []domain.OfficialResult
		for _, c := range in {
			d := schedule.ClockDiffMinutes(want, c.TimeLabel)
			if d < 0 || d > tolerance {
				continue
			}
			if bestDiff < 0 || d < bestDiff {
				bestDiff, best = d, []domain.OfficialResult{c}
			} else if d == bestDiff {
				best = append(best, c)
			}
		}
		return best
	}

	busiest := func(in []domain.OfficialResult) []domain.OfficialResult {
		var best domain.OfficialResult
		found := false
		for _, c := range in {
			if !found || len(c.Prizes) > len(best.Prizes) {
				best, found = c, true
			}
		}
		if !found {
			return nil
		}
		return []domain.OfficialResult{best}
	}

	return []stage{
		traced(note, "time-exact", exact),
		traced(note, "time-window", inWindow),
		traced(note, "time-nearest", nearest),
		traced(note, "time-busiest", busiest),
	}
}

// explicitDrawTime reports whether a label pins an exact minute
// ("21:20") rather than just the hour ("21h"). Only explicit labels get
// the tight 5-minute tolerance.
func explicitDrawTime(label string) bool {
	return strings.Contains(label, ":")
}

func clockBetween(t, start, end string) bool {
	ts := schedule.ClockDiffMinutes("00:00", t)
	ss := schedule.ClockDiffMinutes("00:00", start)
	es := schedule.ClockDiffMinutes("00:00", end)
	if ts < 0 || ss < 0 || es < 0 {
		return false
	}
	return ts >= ss && ts <= es
}
