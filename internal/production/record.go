package production

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	CategoryProductions = "Productions"
	CategoryManual      = "Manual"
)

// ErrInvalid is returned by Validate for records that break an invariant
var ErrInvalid = errors.New("invalid record")

// Record represents one theatre production
type Record struct {
	Key          string `json:"key"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Category     string `json:"category"`
	DateText     string `json:"date_text"`   // Raw date heading, kept for debugging
	StartDate    Date   `json:"start_date"`
	EndDate      Date   `json:"end_date"`
	DaysOfWeek   string `json:"days_of_week"` // e.g. "Fridays-Saturdays"
	VenueName    string `json:"venue_name"`
	VenueAddress string `json:"venue_address"`
	SynopsisText string `json:"synopsis_text"`
	SynopsisHTML string `json:"synopsis_html"`

	FeedDescriptionHTML string `json:"feed_description_html"`
	FeedDescription     string `json:"feed_description"`
}

// Validate checks the record invariants: a non-empty title and start <= end
// when both dates are known.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if !r.StartDate.IsZero() && !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalid, r.EndDate, r.StartDate)
	}
	return nil
}

// Clone returns a copy of the record
func (r *Record) Clone() *Record {
	c := *r
	return &c
}

// Weekdays returns the weekdays named in DaysOfWeek
func (r *Record) Weekdays() []time.Weekday {
	return ParseWeekdays(r.DaysOfWeek)
}

// KeyFromURL returns the last path segment of a detail-page URL.
//
//	https://ctxlivetheatre.com/productions/20260116-songs-for-a-new-world/
//	-> 20260116-songs-for-a-new-world
func KeyFromURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parsing url: %w", err)
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "", fmt.Errorf("url %q has no path segment", rawURL)
	}
	segments := strings.Split(path, "/")
	return segments[len(segments)-1], nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s, folds accented letters to ASCII and joins the
// remaining alphanumeric runs with hyphens. "Les Misérables!" -> "les-miserables".
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}
