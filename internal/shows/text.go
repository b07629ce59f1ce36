package shows

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// StripHTML removes markup and trims surrounding whitespace.
func StripHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

// Snippet returns the summary as a single line of plain text.
func Snippet(s string) string {
	return whitespaceRun.ReplaceAllString(StripHTML(s), " ")
}

// SummaryMarkdown converts an HTML summary to Markdown. Plain text passes
// through unchanged; conversion failures fall back to stripped text.
func SummaryMarkdown(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return StripHTML(s)
	}
	return strings.TrimSpace(markdown)
}
