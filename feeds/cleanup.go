package feeds

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	reNbsp          = regexp.MustCompile(`\x{00a0}+`)
	reSpaces        = regexp.MustCompile(` {2,}`)
	reTrailingSpace = regexp.MustCompile(` +\n`)
	reBlankLines    = regexp.MustCompile(`\n{3,}`)
)

// Cleanup strips markup from text and tidies the whitespace that is left:
// non-breaking spaces become plain spaces, runs of spaces collapse, spaces
// before a newline are dropped and at most one blank line is kept.
func Cleanup(text string) string {
	if text == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err == nil {
		text = doc.Text()
	}

	text = reNbsp.ReplaceAllString(text, " ")
	text = reSpaces.ReplaceAllString(text, " ")
	text = reTrailingSpace.ReplaceAllString(text, "\n")
	text = reBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
