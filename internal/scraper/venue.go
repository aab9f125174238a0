package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gordoncheme/ctx-theatre-browser/internal/htmltext"
)

// ParseVenue extracts the venue from the first <address> block under root.
// The first <strong> (or <b>) element is the venue name; without one, the
// first line is. The remaining lines are joined as the address.
// A missing block yields two empty strings.
func ParseVenue(root *goquery.Selection) (name, address string) {
	block := root.Find("address").First()
	if block.Length() == 0 {
		return "", ""
	}
	block = block.Clone()

	nameSel := block.Find("strong, b").First()
	if nameSel.Length() > 0 {
		name = htmltext.Collapse(nameSel.Text())
		nameSel.Remove()
	}

	inner, err := block.Html()
	if err != nil {
		return name, ""
	}
	lines := htmltext.Lines(inner)
	if name == "" && len(lines) > 0 {
		name, lines = lines[0], lines[1:]
	}

	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Trim(line, ", "); line != "" {
			parts = append(parts, line)
		}
	}
	return name, strings.Join(parts, ", ")
}

// ParseVenueHTML is ParseVenue for a raw markup fragment.
func ParseVenueHTML(markup string) (name, address string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", ""
	}
	return ParseVenue(doc.Selection)
}
