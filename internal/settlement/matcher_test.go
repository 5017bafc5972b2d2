package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bichocore/settler/internal/domain"
	"github.com/bichocore/settler/internal/schedule"
)

func slotAt(lottery, timeLabel string, date time.Time, prizeCount int) domain.OfficialResult {
	res := domain.OfficialResult{
		Lottery:     lottery,
		TimeLabel:   timeLabel,
		ContestDate: date,
	}
	numbers := []string{"1104", "2217", "5630", "7842", "9166", "3359", "0071"}
	for i := 0; i < prizeCount && i < len(numbers); i++ {
		res.Prizes = append(res.Prizes, domain.PrizeEntry{Position: i + 1, Number: numbers[i]})
	}
	return res
}

func TestMatchSlotExact(t *testing.T) {
	date := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	candidates := []domain.OfficialResult{
		slotAt("NACIONAL", "21:00", date, 7),
		slotAt("NACIONAL", "23:00", date, 7),
		slotAt("LOOK", "21:20", date, 7),
	}
	w := &domain.Wager{ID: 1, Lottery: "NACIONAL", DrawTime: "21:00", ContestDate: date}
	window, found := schedule.ResolveRealWindow(w.Lottery, w.DrawTime)

	slot, trace, err := MatchSlot(candidates, w, window, found)
	require.NoError(t, err)
	assert.Equal(t, "NACIONAL", slot.Lottery)
	assert.Equal(t, "21:00", slot.TimeLabel)
	assert.NotEmpty(t, trace)
}

func TestMatchSlotRelaxesLottery(t *testing.T) {
	date := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	candidates := []domain.OfficialResult{
		slotAt("LOOK", "21:20", date, 7),
	}
	// Unknown lottery name: the identity stage would wipe every
	// candidate, so it is skipped and the single slot survives.
	w := &domain.Wager{ID: 2, Lottery: "CASA NOVA", DrawTime: "21:20", ContestDate: date}

	slot, _, err := MatchSlot(candidates, w, domain.ApurationWindow{}, false)
	require.NoError(t, err)
	assert.Equal(t, "LOOK", slot.Lottery)
}

func TestMatchSlotDaySwapTolerance(t *testing.T) {
	// Wager dated March 9, upstream mislabeled it September 3.
	wagerDate := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	swapped := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	candidates := []domain.OfficialResult{
		slotAt("NACIONAL", "21:00", swapped, 7),
	}
	w := &domain.Wager{ID: 3, Lottery: "NACIONAL", DrawTime: "21:00", ContestDate: wagerDate}

	_, _, err := MatchSlot(candidates, w, domain.ApurationWindow{}, false)
	require.NoError(t, err)
}

func TestMatchSlotNearestTime(t *testing.T) {
	date := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	candidates := []domain.OfficialResult{
		slotAt("NACIONAL", "21:03", date, 7),
		slotAt("NACIONAL", "22:30", date, 7),
	}
	w := &domain.Wager{ID: 4, Lottery: "NACIONAL", DrawTime: "21:00", ContestDate: date}
	window, found := schedule.ResolveRealWindow(w.Lottery, w.DrawTime)

	slot, _, err := MatchSlot(candidates, w, window, found)
	require.NoError(t, err)
	assert.Equal(t, "21:03", slot.TimeLabel)
}

func TestMatchSlotNoCandidates(t *testing.T) {
	w := &domain.Wager{ID: 5, Lottery: "NACIONAL", DrawTime: "21:00"}
	_, _, err := MatchSlot(nil, w, domain.ApurationWindow{}, false)
	assert.ErrorIs(t, err, domain.ErrNoMatch)
}

func TestMatchSlotPrefersFullestSlot(t *testing.T) {
	date := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	candidates := []domain.OfficialResult{
		slotAt("NACIONAL", "21:00", date, 5),
		slotAt("NACIONAL", "21:00", date, 7),
	}
	w := &domain.Wager{ID: 6, Lottery: "NACIONAL", DrawTime: "21:00", ContestDate: date}

	slot, _, err := MatchSlot(candidates, w, domain.ApurationWindow{}, false)
	require.NoError(t, err)
	assert.Len(t, slot.Prizes, 7)
}
