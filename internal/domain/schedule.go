package domain

import "time"

// DrawSchedule is a configured draw slot for a lottery, as stored per
// deployment. DrawTime is "HH:MM" in the house zone.
type DrawSchedule struct {
	ID          int64     `json:"id"`
	Lottery     string    `json:"lottery"`
	DrawTime    string    `json:"drawTime"`
	Label       string    `json:"label,omitempty"`
	CloseOffset int       `json:"closeOffsetMinutes"` // minutes before the draw that betting closes
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ApurationWindow is the real-world window in which an extraction's
// result becomes available, keyed by lottery name and scheduled time.
type ApurationWindow struct {
	Lottery   string // canonical upstream name, e.g. "PT RIO"
	DrawTime  string // scheduled "HH:MM"
	StartReal string // earliest publication "HH:MM"
	CloseReal string // latest publication "HH:MM"
	// OffDays are weekdays with no draw for this slot.
	OffDays []time.Weekday
}

// HasDrawOn reports whether this slot draws on the given weekday.
func (w ApurationWindow) HasDrawOn(day time.Weekday) bool {
	for _, off := range w.OffDays {
		if off == day {
			return false
		}
	}
	return true
}
