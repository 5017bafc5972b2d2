package results

import (
	"regexp"
	"strings"
)

// The upstream sometimes prepends inline JavaScript before the real
// markup. These strip it so block scanning starts at content.
var (
	scriptTagRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	jqueryRe    = regexp.MustCompile(`(?i)jQuery\([^)]*\)[^;]*;?`)
	domCallRe   = regexp.MustCompile(`(?i)document\.getElementById\([^)]*\)[^;]*;?`)
	firstDivRe  = regexp.MustCompile(`(?i)<div[^>]*id=["']div_display_`)
	tagRe       = regexp.MustCompile(`<[^>]*>`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// sanitize strips script noise and drops everything before the first
// result container marker.
func sanitize(html string) string {
	html = scriptTagRe.ReplaceAllString(html, "")
	html = jqueryRe.ReplaceAllString(html, "")
	html = domCallRe.ReplaceAllString(html, "")
	if loc := firstDivRe.FindStringIndex(html); loc != nil && loc[0] > 0 {
		html = html[loc[0]:]
	}
	return html
}

// stripTags flattens a markup fragment to its visible text.
func stripTags(html string) string {
	text := tagRe.ReplaceAllString(html, "")
	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
	text = replacer.Replace(text)
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}
