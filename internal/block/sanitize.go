package block

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SanitizeHTML strips script, style and iframe elements from block
// markup before it is served to the viewer. Content that does not parse
// as HTML is returned unchanged; extraction output is best-effort and
// sanitization must never reject a block.
func SanitizeHTML(s string) string {
	if s == "" || !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style, iframe").Remove()
	out, err := doc.Find("body").Html()
	if err != nil {
		return s
	}
	return out
}
