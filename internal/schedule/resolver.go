package schedule

import (
	"strings"
	"time"

	"github.com/bichocore/settler/internal/domain"
)

// nearestMatchTolerance is how far the platform's scheduled time may sit
// from a window's time when no exact row exists.
const nearestMatchTolerance = 30 * time.Minute

// ResolveRealWindow finds the real publication window for a lottery name
// and the platform's scheduled "HH:MM" time. Exact name+time match wins;
// otherwise the nearest time for that name within 30 minutes.
func ResolveRealWindow(lottery, drawTime string) (domain.ApurationWindow, bool) {
	name := strings.ToUpper(strings.TrimSpace(lottery))
	hhmm := NormalizeClock(drawTime)

	for _, w := range realWindows {
		if strings.ToUpper(w.Lottery) == name && w.DrawTime == hhmm {
			return w, true
		}
	}

	want, ok := clockMinutes(hhmm)
	if !ok {
		return domain.ApurationWindow{}, false
	}
	best := domain.ApurationWindow{}
	bestDiff := -1
	for _, w := range realWindows {
		if strings.ToUpper(w.Lottery) != name {
			continue
		}
		have, ok := clockMinutes(w.DrawTime)
		if !ok {
			continue
		}
		diff := want - have
		if diff < 0 {
			diff = -diff
		}
		if diff <= int(nearestMatchTolerance.Minutes()) && (bestDiff < 0 || diff < bestDiff) {
			best, bestDiff = w, diff
		}
	}
	return best, bestDiff >= 0
}

// HasDrawOnWeekday applies the window's non-draw days. A missing window
// is permissive: without schedule data we never block a settlement.
func HasDrawOnWeekday(w domain.ApurationWindow, found bool, day time.Weekday) bool {
	if !found {
		return true
	}
	return w.HasDrawOn(day)
}

// NormalizeClock canonicalizes "9h30", "9:30", "09:30" to "09:30".
func NormalizeClock(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(strings.ToLower(s), "h", ":"))
	s = strings.TrimSuffix(s, ":")
	parts := strings.SplitN(s, ":", 2)
	if len(parts) == 1 {
		parts = append(parts, "00")
	}
	h, m := parts[0], parts[1]
	if len(h) == 1 {
		h = "0" + h
	}
	if len(m) == 1 {
		m = "0" + m
	}
	return h + ":" + m
}

func clockMinutes(hhmm string) (int, bool) {
	t, err := time.Parse("15:04", NormalizeClock(hhmm))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// ClockDiffMinutes is the absolute distance between two "HH:MM" clocks,
// or -1 when either does not parse.
func ClockDiffMinutes(a, b string) int {
	am, ok := clockMinutes(a)
	if !ok {
		return -1
	}
	bm, ok := clockMinutes(b)
	if !ok {
		return -1
	}
	d := am - bm
	if d < 0 {
		d = -d
	}
	return d
}
