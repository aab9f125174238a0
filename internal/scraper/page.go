package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gordoncheme/ctx-theatre-browser/internal/htmltext"
	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
)

// ParsePage parses a production detail page into a partial record holding
// the date range, venue and synopsis. Key, Title, URL and Category are left
// for the caller. Sections missing from the page leave their fields empty.
func ParsePage(r io.Reader) (*production.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return parseDocument(doc), nil
}

func parseDocument(doc *goquery.Document) *production.Record {
	rec := &production.Record{}

	// The page template puts the run dates in the first <h3>.
	heading := doc.Find("h3").First()
	var headingText string
	if heading.Length() > 0 {
		inner, _ := heading.Html()
		headingText = htmltext.Collapse(htmltext.Normalize(inner))
	}

	full, _ := doc.Html()
	dates := ParseDateRange(headingText, htmltext.Normalize(full))
	rec.DateText = dates.Text
	rec.StartDate = dates.Start
	rec.EndDate = dates.End
	rec.DaysOfWeek = dates.DaysOfWeek

	rec.VenueName, rec.VenueAddress = ParseVenue(doc.Selection)

	if heading.Length() > 0 {
		if p := firstParagraphAfter(doc, heading); p != nil {
			inner, _ := p.Html()
			rec.SynopsisHTML = strings.TrimSpace(inner)
			rec.SynopsisText = htmltext.Normalize(inner)
		}
	}

	return rec
}

// firstParagraphAfter returns the first <p> that follows heading in document
// order, or nil.
func firstParagraphAfter(doc *goquery.Document, heading *goquery.Selection) *goquery.Selection {
	headingNode := heading.Get(0)
	passed := false
	var found *goquery.Selection
	doc.Find("h3, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Get(0) == headingNode {
			passed = true
			return true
		}
		if passed && goquery.NodeName(s) == "p" && s.ParentsFiltered("h3").Length() == 0 {
			found = s
			return false
		}
		return true
	})
	return found
}
