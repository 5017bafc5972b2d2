package domain

import "time"

// PrizeEntry is one row of an official draw result.
type PrizeEntry struct {
	Position int    `json:"position"` // 1-based
	Number   string `json:"number"`   // 4 digits, zero-padded
	Group    int    `json:"group"`    // 1..25
	Animal   string `json:"animal"`
}

// OfficialResult is a normalized draw extraction: one lottery, one date,
// one time slot, up to 7 prize rows ordered by position.
type OfficialResult struct {
	Lottery     string       `json:"lottery"`
	Region      string       `json:"region"`
	TimeLabel   string       `json:"timeLabel"` // "HH:MM" or a named slot
	ContestDate time.Time    `json:"contestDate"`
	Prizes      []PrizeEntry `json:"prizes"`
	FetchedAt   time.Time    `json:"fetchedAt"`
}

// Complete reports whether all seven prize positions are present. Wagers
// are only settled against complete results.
func (r *OfficialResult) Complete() bool {
	if len(r.Prizes) < 7 {
		return false
	}
	seen := make(map[int]bool, 7)
	for _, p := range r.Prizes {
		seen[p.Position] = true
	}
	for pos := 1; pos <= 7; pos++ {
		if !seen[pos] {
			return false
		}
	}
	return true
}

// Numbers returns the drawn numbers ordered by position.
func (r *OfficialResult) Numbers() []string {
	out := make([]string, 0, len(r.Prizes))
	for pos := 1; pos <= 7; pos++ {
		for _, p := range r.Prizes {
			if p.Position == pos {
				out = append(out, p.Number)
				break
			}
		}
	}
	return out
}

// PrizeAt returns the entry at a 1-based position, or false.
func (r *OfficialResult) PrizeAt(pos int) (PrizeEntry, bool) {
	for _, p := range r.Prizes {
		if p.Position == pos {
			return p, true
		}
	}
	return PrizeEntry{}, false
}
