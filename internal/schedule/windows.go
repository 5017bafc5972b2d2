package schedule

import (
	"time"

	"github.com/bichocore/settler/internal/domain"
)

// realWindows maps the house's scheduled draw times to the real-world
// windows in which the official result is published. The schedule times
// are the platform's own; the start/close pair is when the result
// actually appears upstream. Loaded once, never mutated.
var realWindows = []domain.ApurationWindow{
	// PT RIO DE JANEIRO
	{Lottery: "PT RIO", DrawTime: "09:20", StartReal: "09:25", CloseReal: "10:00"},
	{Lottery: "PT RIO", DrawTime: "11:20", StartReal: "11:25", CloseReal: "12:00"},
	{Lottery: "PT RIO", DrawTime: "14:20", StartReal: "14:25", CloseReal: "15:00"},
	{Lottery: "PT RIO", DrawTime: "16:20", StartReal: "16:25", CloseReal: "17:00"},
	{Lottery: "PT RIO", DrawTime: "18:20", StartReal: "18:25", CloseReal: "19:00",
		OffDays: []time.Weekday{time.Sunday, time.Tuesday, time.Wednesday, time.Thursday, time.Saturday}},
	{Lottery: "PT RIO", DrawTime: "21:20", StartReal: "21:30", CloseReal: "22:00",
		OffDays: []time.Weekday{time.Sunday}},

	// LOOK GOIAS
	{Lottery: "LOOK", DrawTime: "07:20", StartReal: "07:25", CloseReal: "08:00"},
	{Lottery: "LOOK", DrawTime: "09:20", StartReal: "09:25", CloseReal: "10:00"},
	{Lottery: "LOOK", DrawTime: "11:20", StartReal: "11:25", CloseReal: "12:00"},
	{Lottery: "LOOK", DrawTime: "14:20", StartReal: "14:25", CloseReal: "15:00"},
	{Lottery: "LOOK", DrawTime: "16:20", StartReal: "16:25", CloseReal: "17:00"},
	{Lottery: "LOOK", DrawTime: "18:20", StartReal: "18:25", CloseReal: "19:00"},
	{Lottery: "LOOK", DrawTime: "21:20", StartReal: "21:25", CloseReal: "22:00"},
	{Lottery: "LOOK", DrawTime: "23:20", StartReal: "23:25", CloseReal: "23:59"},

	// LOTERIA FEDERAL, Wednesday and Saturday only
	{Lottery: "FEDERAL", DrawTime: "20:00", StartReal: "20:00", CloseReal: "21:40",
		OffDays: []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Thursday, time.Friday}},

	// NACIONAL
	{Lottery: "NACIONAL", DrawTime: "02:00", StartReal: "02:00", CloseReal: "03:00"},
	{Lottery: "NACIONAL", DrawTime: "08:00", StartReal: "08:00", CloseReal: "09:00"},
	{Lottery: "NACIONAL", DrawTime: "10:00", StartReal: "10:00", CloseReal: "11:00"},
	{Lottery: "NACIONAL", DrawTime: "12:00", StartReal: "12:00", CloseReal: "13:00"},
	{Lottery: "NACIONAL", DrawTime: "15:00", StartReal: "15:00", CloseReal: "16:00"},
	{Lottery: "NACIONAL", DrawTime: "17:00", StartReal: "17:00", CloseReal: "18:00"},
	{Lottery: "NACIONAL", DrawTime: "21:00", StartReal: "21:00", CloseReal: "22:00"},
	{Lottery: "NACIONAL", DrawTime: "23:00", StartReal: "23:00", CloseReal: "23:59"},

	// PT SP / BANDEIRANTES
	{Lottery: "PT SP", DrawTime: "10:00", StartReal: "10:45", CloseReal: "11:00"},
	{Lottery: "PT SP", DrawTime: "13:15", StartReal: "13:45", CloseReal: "14:00"},
	{Lottery: "PT SP (Band)", DrawTime: "15:15", StartReal: "15:35", CloseReal: "16:00"},
	{Lottery: "PT SP", DrawTime: "17:15", StartReal: "17:45", CloseReal: "18:00"},

	// LOTECE, no Sunday draws
	{Lottery: "LOTECE", DrawTime: "11:00", StartReal: "11:00", CloseReal: "12:00",
		OffDays: []time.Weekday{time.Sunday}},
	{Lottery: "LOTECE", DrawTime: "14:00", StartReal: "14:00", CloseReal: "15:00",
		OffDays: []time.Weekday{time.Sunday}},
	{Lottery: "LOTECE", DrawTime: "15:40", StartReal: "15:30", CloseReal: "16:00",
		OffDays: []time.Weekday{time.Sunday}},
	{Lottery: "LOTECE", DrawTime: "19:40", StartReal: "19:00", CloseReal: "20:00",
		OffDays: []time.Weekday{time.Sunday}},

	// LOTEP / PT PARAIBA
	{Lottery: "LOTEP", DrawTime: "10:45", StartReal: "10:40", CloseReal: "11:00"},
	{Lottery: "LOTEP", DrawTime: "12:45", StartReal: "12:40", CloseReal: "13:00"},
	{Lottery: "LOTEP", DrawTime: "15:45", StartReal: "15:40", CloseReal: "16:00",
		OffDays: []time.Weekday{time.Sunday}},
	{Lottery: "LOTEP", DrawTime: "18:05", StartReal: "18:40", CloseReal: "19:00",
		OffDays: []time.Weekday{time.Sunday}},

	// PT BAHIA
	{Lottery: "PT BAHIA", DrawTime: "10:20", StartReal: "10:30", CloseReal: "11:00"},
	{Lottery: "PT BAHIA", DrawTime: "12:20", StartReal: "12:30", CloseReal: "13:00"},
	{Lottery: "PT BAHIA", DrawTime: "15:20", StartReal: "15:30", CloseReal: "16:00"},
	{Lottery: "PT BAHIA", DrawTime: "19:00", StartReal: "19:30", CloseReal: "20:00",
		OffDays: []time.Weekday{time.Sunday, time.Wednesday, time.Saturday}},
	{Lottery: "PT BAHIA", DrawTime: "21:20", StartReal: "21:30", CloseReal: "22:00",
		OffDays: []time.Weekday{time.Sunday}},
}

// Windows returns the full real-window table.
func Windows() []domain.ApurationWindow {
	return realWindows
}
