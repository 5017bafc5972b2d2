package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bichocore/settler/internal/domain"
)

func TestResolveRealWindowExact(t *testing.T) {
	w, ok := ResolveRealWindow("PT RIO", "09:20")
	require.True(t, ok)
	assert.Equal(t, "09:25", w.StartReal)
	assert.Equal(t, "10:00", w.CloseReal)
}

func TestResolveRealWindowNearest(t *testing.T) {
	// 09:30 is not a PT RIO row but sits within 30 min of 09:20.
	w, ok := ResolveRealWindow("pt rio", "09:30")
	require.True(t, ok)
	assert.Equal(t, "09:20", w.DrawTime)

	// 13:00 is more than 30 min from every PT RIO slot.
	_, ok = ResolveRealWindow("PT RIO", "13:00")
	assert.False(t, ok)

	_, ok = ResolveRealWindow("UNKNOWN HOUSE", "09:20")
	assert.False(t, ok)
}

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "09:30", NormalizeClock("9:30"))
	assert.Equal(t, "09:30", NormalizeClock("9h30"))
	assert.Equal(t, "09:30", NormalizeClock("09:30"))
	assert.Equal(t, "21:00", NormalizeClock("21h"))
}

func TestHasDrawOnWeekday(t *testing.T) {
	federal, ok := ResolveRealWindow("FEDERAL", "20:00")
	require.True(t, ok)
	assert.True(t, HasDrawOnWeekday(federal, true, time.Wednesday))
	assert.True(t, HasDrawOnWeekday(federal, true, time.Saturday))
	assert.False(t, HasDrawOnWeekday(federal, true, time.Sunday))
	assert.False(t, HasDrawOnWeekday(federal, true, time.Monday))

	// No window found is permissive.
	assert.True(t, HasDrawOnWeekday(domain.ApurationWindow{}, false, time.Sunday))
}

func TestWindowHasOpened(t *testing.T) {
	w, ok := ResolveRealWindow("PT RIO", "14:20")
	require.True(t, ok) // window 14:25-15:00

	day := func(y int, m time.Month, d, hh, mm int) time.Time {
		return time.Date(y, m, d, hh, mm, 0, 0, saoPaulo)
	}
	now := day(2026, time.March, 10, 14, 30)

	assert.True(t, WindowHasOpened(w, true, day(2026, time.March, 9, 0, 0), now), "past date")
	assert.False(t, WindowHasOpened(w, true, day(2026, time.March, 11, 0, 0), now), "future date")
	assert.True(t, WindowHasOpened(w, true, day(2026, time.March, 10, 0, 0), now), "today past start")

	early := day(2026, time.March, 10, 14, 0)
	assert.False(t, WindowHasOpened(w, true, day(2026, time.March, 10, 0, 0), early), "today before start")

	// Without a window, today is always considered open.
	assert.True(t, WindowHasOpened(domain.ApurationWindow{}, false, day(2026, time.March, 10, 0, 0), early))
}

func TestClockDiffMinutes(t *testing.T) {
	assert.Equal(t, 10, ClockDiffMinutes("14:20", "14:30"))
	assert.Equal(t, 0, ClockDiffMinutes("14:20", "14h20"))
	assert.Equal(t, -1, ClockDiffMinutes("14:20", "zz"))
}
