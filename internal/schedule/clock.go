package schedule

import (
	"time"

	"github.com/bichocore/settler/internal/domain"
)

// House clocks run in Brazil's civil timezone regardless of where the
// process is deployed.
var saoPaulo = mustLoadZone()

func mustLoadZone() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		// UTC-3 without DST, which Brazil abolished in 2019.
		return time.FixedZone("America/Sao_Paulo", -3*60*60)
	}
	return loc
}

// NowInZone is the current instant in the house timezone.
func NowInZone() time.Time {
	return time.Now().In(saoPaulo)
}

// CivilDate truncates an instant to its calendar date in the house zone.
func CivilDate(t time.Time) time.Time {
	t = t.In(saoPaulo)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, saoPaulo)
}

// ContestDay reinterprets a stored contest date as a house-zone calendar
// date. Contest dates are plain dates (usually persisted at UTC
// midnight); converting the instant would shift them back a day.
func ContestDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, saoPaulo)
}

// WindowHasOpened reports whether the result for contestDate can already
// have been published. Past dates always qualify; today's qualify once
// the house clock passes the window's start; future dates never do.
func WindowHasOpened(w domain.ApurationWindow, found bool, contestDate, now time.Time) bool {
	day := ContestDay(contestDate)
	today := CivilDate(now)
	switch {
	case day.Before(today):
		return true
	case day.After(today):
		return false
	}
	if !found {
		return true
	}
	start, ok := clockMinutes(w.StartReal)
	if !ok {
		return true
	}
	nowSP := now.In(saoPaulo)
	return nowSP.Hour()*60+nowSP.Minute() >= start
}
