package results

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bichocore/settler/internal/domain"
	"github.com/bichocore/settler/internal/odds"
)

var (
	trRe        = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	tdRe        = regexp.MustCompile(`(?is)<td[^>]*>(.*?)</td>`)
	positionRe  = regexp.MustCompile(`(?i)(\d+)[º°oO]?`)
	fourDigitRe = regexp.MustCompile(`\b(\d{4})\b`)
	threeDigRe  = regexp.MustCompile(`\b(\d{3})\b`)
	groupCellRe = regexp.MustCompile(`\b(\d{1,2})\b`)
	linkOrH5Re  = regexp.MustCompile(`(?is)<(?:a|h5)[^>]*>(.*?)</(?:a|h5)>`)
	allDigitsRe = regexp.MustCompile(`^\d+$`)
)

// parsePrizeRows pulls prize entries from one result table. Rows that
// cannot yield both a position and a 4-digit number are dropped, not
// fatal. Promotional "SUPER 5" rows are skipped, and a duplicated
// position keeps its first occurrence.
func parsePrizeRows(tableHTML string) []domain.PrizeEntry {
	var entries []domain.PrizeEntry
	seen := make(map[int]bool)

	for _, tr := range trRe.FindAllStringSubmatch(tableHTML, -1) {
		cells := tdRe.FindAllStringSubmatch(tr[1], -1)
		if len(cells) < 2 {
			continue
		}
		if text := stripTags(tr[1]); strings.Contains(text, "SUPER 5") ||
			strings.Contains(text, "SUPER5") {
			continue
		}

		position := rowPosition(cells)
		number, group, animal := rowNumber(cells)
		if position == 0 || number == "" {
			continue
		}
		if seen[position] {
			continue
		}
		seen[position] = true

		if group == 0 {
			group = odds.GroupFromNumber(number)
		}
		if animal == "" {
			animal = odds.AnimalName(group)
		}
		entries = append(entries, domain.PrizeEntry{
			Position: position,
			Number:   number,
			Group:    group,
			Animal:   animal,
		})
	}
	return entries
}

// rowPosition reads the ordinal from the first cell, then the next two
// cells when the first has none.
func rowPosition(cells [][]string) int {
	if m := positionRe.FindStringSubmatch(stripTags(cells[0][1])); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	for i := 1; i < len(cells) && i < 3; i++ {
		if m := positionRe.FindStringSubmatch(stripTags(cells[i][1])); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= 7 {
				return n
			}
		}
	}
	return 0
}

// rowNumber scans the cells for the drawn number. 4-digit values win;
// numbers inside links or headings come next; a bare 3-digit value is a
// thousand missing its leading zero. 1-2 digit values up to 25 are group
// cells, never numbers.
func rowNumber(cells [][]string) (number string, group int, animal string) {
	pick := func(idx int, raw string) bool {
		number = raw
		if idx+1 < len(cells) {
			if m := groupCellRe.FindStringSubmatch(stripTags(cells[idx+1][1])); m != nil {
				if g, err := strconv.Atoi(m[1]); err == nil && g >= 1 && g <= 25 {
					group = g
				}
			}
		}
		if len(cells) > idx+2 {
			last := stripTags(cells[len(cells)-1][1])
			if last != "" && !allDigitsRe.MatchString(last) {
				animal = last
			}
		}
		return true
	}

	for i, td := range cells {
		text := stripTags(td[1])
		if m := fourDigitRe.FindStringSubmatch(text); m != nil {
			pick(i, m[1])
			return
		}
		if lm := linkOrH5Re.FindStringSubmatch(td[1]); lm != nil {
			if m := fourDigitRe.FindStringSubmatch(stripTags(lm[1])); m != nil {
				pick(i, m[1])
				return
			}
		}
	}

	// No 4-digit number anywhere; accept a 3-digit thousand and pad it.
	for i, td := range cells {
		text := stripTags(td[1])
		if i == 0 && positionRe.MatchString(text) && len(text) <= 3 {
			continue
		}
		if m := threeDigRe.FindStringSubmatch(text); m != nil {
			pick(i, "0"+m[1])
			return
		}
	}
	return "", 0, ""
}
