package results

import (
	"fmt"
	"sort"
	"time"

	"github.com/bichocore/settler/internal/domain"
)

// Normalize parses a raw upstream page into OfficialResult records, one
// per time slot, tagged with the canonical lottery identity for the code
// and the requested contest date.
func Normalize(rawHTML []byte, code string, contestDate time.Time) ([]domain.OfficialResult, error) {
	blocks := parseDrawBlocks(sanitize(string(rawHTML)))
	if len(blocks) == 0 {
		return nil, fmt.Errorf("results: %s: no draw blocks: %w", code, domain.ErrUpstreamParse)
	}

	info := LotteryForCode(code)
	now := time.Now()
	out := make([]domain.OfficialResult, 0, len(blocks))
	for _, b := range blocks {
		prizes := parsePrizeRows(b.TableHTML)
		if len(prizes) == 0 {
			continue
		}
		sort.Slice(prizes, func(i, j int) bool { return prizes[i].Position < prizes[j].Position })
		out = append(out, domain.OfficialResult{
			Lottery:     info.Name,
			Region:      info.Region,
			TimeLabel:   b.TimeLabel,
			ContestDate: contestDate,
			Prizes:      prizes,
			FetchedAt:   now,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("results: %s: no prize rows: %w", code, domain.ErrUpstreamParse)
	}
	return out, nil
}
