// Package manual builds production records from user-supplied details and
// adds them to the store under a unique, readable key.
package manual

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
	"github.com/gordoncheme/ctx-theatre-browser/internal/storage"
)

// FallbackKey is used when the title slugs to nothing
const FallbackKey = "manual-production"

var (
	// ErrTitleRequired is returned when the title is empty
	ErrTitleRequired = errors.New("title is required")

	// ErrExists is returned when a URL-derived key is already stored and
	// Input.Overwrite is not set
	ErrExists = errors.New("production already exists")
)

// Store is the part of storage.Store the builder needs
type Store interface {
	Has(key string) bool
	Upsert(rec *production.Record) (storage.Result, error)
}

// Input holds the user-entered fields. Everything but Title is optional.
type Input struct {
	Title        string
	URL          string
	DateText     string
	StartDate    production.Date
	EndDate      production.Date
	DaysOfWeek   string
	VenueName    string
	VenueAddress string
	SynopsisText string

	// Overwrite replaces an existing record with the key taken from URL
	Overwrite bool
}

// Builder adds manual entries to a store
type Builder struct {
	store Store
}

func NewBuilder(store Store) *Builder {
	return &Builder{store: store}
}

// Add validates in, derives the key and upserts the record. A URL with a
// path gives the key directly, the same key a sync would use; otherwise a
// unique key is generated from the start date and title.
// The store is left untouched on any error.
func (b *Builder) Add(in Input) (*production.Record, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	rec := &production.Record{
		Title:        title,
		URL:          strings.TrimSpace(in.URL),
		Category:     production.CategoryManual,
		DateText:     strings.TrimSpace(in.DateText),
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		DaysOfWeek:   strings.TrimSpace(in.DaysOfWeek),
		VenueName:    strings.TrimSpace(in.VenueName),
		VenueAddress: strings.TrimSpace(in.VenueAddress),
		SynopsisText: strings.TrimSpace(in.SynopsisText),
	}
	if rec.DateText == "" {
		rec.DateText = dateText(rec.StartDate, rec.EndDate)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	if key, err := production.KeyFromURL(rec.URL); err == nil {
		if b.store.Has(key) && !in.Overwrite {
			return nil, fmt.Errorf("%w: %s", ErrExists, key)
		}
		rec.Key = key
	} else {
		rec.Key = b.uniqueKey(BaseKey(title, rec.StartDate))
	}
	if _, err := b.store.Upsert(rec); err != nil {
		return nil, fmt.Errorf("storing manual entry: %w", err)
	}
	return rec, nil
}

// BaseKey is the slug of "<start date>-<title>", with the date prefix only
// when the start date is known. An empty slug becomes FallbackKey.
func BaseKey(title string, start production.Date) string {
	base := title
	if !start.IsZero() {
		base = start.String() + "-" + title
	}
	if slug := production.Slugify(base); slug != "" {
		return slug
	}
	return FallbackKey
}

func (b *Builder) uniqueKey(base string) string {
	if !b.store.Has(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !b.store.Has(candidate) {
			return candidate
		}
	}
}

func dateText(start, end production.Date) string {
	switch {
	case start.IsZero() && end.IsZero():
		return ""
	case end.IsZero() || start.Equal(end):
		return start.String()
	case start.IsZero():
		return end.String()
	}
	return start.String() + " - " + end.String()
}

// ParseDate reads a user-typed date such as "2026-03-01", "3/1/2026" or
// "March 1, 2026". Blank input is the zero Date. Month-first is assumed for
// ambiguous numeric dates.
func ParseDate(s string) (production.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return production.Date{}, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return production.Date{}, fmt.Errorf("unrecognised date %q: %w", s, err)
	}
	return production.DateOf(t), nil
}
