package results

import (
	"fmt"
	"regexp"
	"strconv"
)

// drawBlock is one per-time-slot section of the upstream page.
type drawBlock struct {
	SlotID    string
	Title     string
	TimeLabel string
	TableHTML string
}

var (
	displayDivRe = regexp.MustCompile(`(?i)<div[^>]*id=["']div_display_(\d+)["'][^>]*>`)
	cardTitleRe  = regexp.MustCompile(`(?is)<h5[^>]*class="[^"]*card-title[^"]*"[^>]*>(.*?)</h5>`)
	anyHeadingRe = regexp.MustCompile(`(?is)<h[1-6][^>]*>(.*?)</h[1-6]>`)
	resultTextRe = regexp.MustCompile(`(?i)Resultado[^<]*`)
	clockRe      = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	hourRe       = regexp.MustCompile(`(?i)(\d{1,2})h`)
)

// parseDrawBlocks scans for the repeated per-slot container markers and
// slices the document between consecutive markers. The markup is too
// malformed for nesting-aware parsing, so each slice is searched for its
// matching table by identifier suffix.
func parseDrawBlocks(html string) []drawBlock {
	markers := displayDivRe.FindAllStringSubmatchIndex(html, -1)
	blocks := make([]drawBlock, 0, len(markers))

	for i, m := range markers {
		slotID := html[m[2]:m[3]]
		start := m[0]
		end := len(html)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		slice := html[start:end]

		tableRe := regexp.MustCompile(
			fmt.Sprintf(`(?is)<table[^>]*id=["']table_%s["'][^>]*>(.*?)</table>`, regexp.QuoteMeta(slotID)))
		tm := tableRe.FindStringSubmatch(slice)
		if tm == nil {
			// The table sometimes sits past the next marker.
			tm = tableRe.FindStringSubmatch(html[start:])
		}
		if tm == nil {
			continue
		}

		title := blockTitle(slice, slotID)
		blocks = append(blocks, drawBlock{
			SlotID:    slotID,
			Title:     title,
			TimeLabel: timeFromTitle(title, slotID),
			TableHTML: tm[1],
		})
	}
	return blocks
}

func blockTitle(slice, slotID string) string {
	if m := cardTitleRe.FindStringSubmatch(slice); m != nil {
		return stripTags(m[1])
	}
	if m := resultTextRe.FindString(slice); m != "" {
		return stripTags(m)
	}
	if m := anyHeadingRe.FindStringSubmatch(slice); m != nil {
		return stripTags(m[1])
	}
	return "Extração " + slotID + "h"
}

// timeFromTitle extracts "HH:MM" from a block title, falling back to the
// slot id as a whole hour.
func timeFromTitle(title, slotID string) string {
	if m := clockRe.FindStringSubmatch(title); m != nil {
		return pad2(m[1]) + ":" + pad2(m[2])
	}
	if m := hourRe.FindStringSubmatch(title); m != nil {
		return pad2(m[1]) + ":00"
	}
	if n, err := strconv.Atoi(slotID); err == nil && n >= 0 && n <= 23 {
		return fmt.Sprintf("%02d:00", n)
	}
	return pad2(slotID) + ":00"
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
