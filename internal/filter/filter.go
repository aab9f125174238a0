package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/cases"

	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
)

var folder = cases.Fold()

// fold returns the Unicode case-folded form of s
func fold(s string) string {
	return folder.String(s)
}

// ListAll returns every record in the default order
func ListAll(records []*production.Record) []*production.Record {
	out := append([]*production.Record(nil), records...)
	Sort(out, SortByDate)
	return out
}

// Future returns records whose end date is known and not before asOf.
// Records with an unknown end date are never future productions.
func Future(records []*production.Record, asOf production.Date) []*production.Record {
	var out []*production.Record
	for _, rec := range records {
		if isFuture(rec, asOf) {
			out = append(out, rec)
		}
	}
	Sort(out, SortByDate)
	return out
}

func isFuture(rec *production.Record, asOf production.Date) bool {
	return !rec.EndDate.IsZero() && !rec.EndDate.Before(asOf)
}

// Search returns records whose title contains keyword, ignoring case.
// An empty keyword matches nothing.
func Search(records []*production.Record, keyword string) []*production.Record {
	needle := fold(strings.TrimSpace(keyword))
	if needle == "" {
		return nil
	}

	var out []*production.Record
	for _, rec := range records {
		if strings.Contains(fold(rec.Title), needle) {
			out = append(out, rec)
		}
	}
	Sort(out, SortByDate)
	return out
}

// Filter represents record filtering criteria. Zero fields are inactive.
type Filter struct {
	// Keyword is matched against titles (case-insensitive substring)
	Keyword string

	// Venue is matched against venue names (case-insensitive substring)
	Venue string

	// Category must equal the record category exactly
	Category string

	// EndingFrom keeps only productions ending on or after this date
	EndingFrom production.Date

	// From and To keep productions running at some point inside the window.
	// Records without dates never match an active window.
	From production.Date
	To   production.Date
}

// IsEmpty checks if the filter has any active criteria
func (f *Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Keyword) == "" &&
		strings.TrimSpace(f.Venue) == "" &&
		f.Category == "" &&
		f.EndingFrom.IsZero() &&
		f.From.IsZero() &&
		f.To.IsZero()
}

// Matches checks if a record matches all active filter criteria
func (f *Filter) Matches(rec *production.Record) bool {
	if kw := fold(strings.TrimSpace(f.Keyword)); kw != "" {
		if !strings.Contains(fold(rec.Title), kw) {
			return false
		}
	}

	if venue := fold(strings.TrimSpace(f.Venue)); venue != "" {
		if !strings.Contains(fold(rec.VenueName), venue) {
			return false
		}
	}

	if f.Category != "" && rec.Category != f.Category {
		return false
	}

	if !f.EndingFrom.IsZero() && !isFuture(rec, f.EndingFrom) {
		return false
	}

	if !f.From.IsZero() || !f.To.IsZero() {
		start, end := rec.StartDate, rec.EndDate
		if start.IsZero() {
			start = end
		}
		if end.IsZero() {
			end = start
		}
		if start.IsZero() {
			return false
		}
		if !f.From.IsZero() && end.Before(f.From) {
			return false
		}
		if !f.To.IsZero() && start.After(f.To) {
			return false
		}
	}

	return true
}

// Apply returns the matching records in the default order.
// The input slice is never modified.
func (f *Filter) Apply(records []*production.Record) []*production.Record {
	var out []*production.Record
	for _, rec := range records {
		if f.Matches(rec) {
			out = append(out, rec)
		}
	}
	Sort(out, SortByDate)
	return out
}

// String returns a human-readable description of the active filter criteria.
// Format: "Title: hamlet | Venue: zach | Ending from: 2026-01-01"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		parts = append(parts, fmt.Sprintf("Title: %s", kw))
	}
	if venue := strings.TrimSpace(f.Venue); venue != "" {
		parts = append(parts, fmt.Sprintf("Venue: %s", venue))
	}
	if f.Category != "" {
		parts = append(parts, fmt.Sprintf("Category: %s", f.Category))
	}
	if !f.EndingFrom.IsZero() {
		parts = append(parts, fmt.Sprintf("Ending from: %s", f.EndingFrom))
	}
	if !f.From.IsZero() {
		parts = append(parts, fmt.Sprintf("From: %s", f.From))
	}
	if !f.To.IsZero() {
		parts = append(parts, fmt.Sprintf("To: %s", f.To))
	}
	return strings.Join(parts, " | ")
}

// suggestionThreshold is the minimum Jaro-Winkler similarity for a suggestion
const suggestionThreshold = 0.7

// Suggest returns up to n titles most similar to keyword, best first.
// It is meant for "did you mean" hints after an empty search.
func Suggest(records []*production.Record, keyword string, n int) []string {
	needle := fold(strings.TrimSpace(keyword))
	if needle == "" || n <= 0 {
		return nil
	}

	type candidate struct {
		title string
		score float64
	}
	best := make(map[string]float64)
	for _, rec := range records {
		score := titleSimilarity(needle, fold(rec.Title))
		if score < suggestionThreshold {
			continue
		}
		if score > best[rec.Title] {
			best[rec.Title] = score
		}
	}

	candidates := make([]candidate, 0, len(best))
	for title, score := range best {
		candidates = append(candidates, candidate{title: title, score: score})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].title < candidates[j].title
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	titles := make([]string, len(candidates))
	for i, c := range candidates {
		titles[i] = c.title
	}
	return titles
}

// titleSimilarity scores the keyword against the whole title and each word of
// it, so "hamlit" still finds "Hamlet by Austin Shakespeare".
func titleSimilarity(needle, title string) float64 {
	score := matchr.JaroWinkler(needle, title, false)
	for _, word := range strings.Fields(title) {
		if s := matchr.JaroWinkler(needle, word, false); s > score {
			score = s
		}
	}
	return score
}
