package manual

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
	"github.com/gordoncheme/ctx-theatre-browser/internal/storage"
)

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.New(filepath.Join(t.TempDir(), "productions.json"))
	require.NoError(t, err)
	return s
}

func TestBuilder_Add(t *testing.T) {
	store := newStore(t)
	b := NewBuilder(store)

	rec, err := b.Add(Input{
		Title:        "  Rex Dexter of Mars ",
		StartDate:    production.MustDate(2025, time.November, 21),
		EndDate:      production.MustDate(2025, time.November, 23),
		DaysOfWeek:   "Fridays-Sundays",
		VenueName:    "City Theatre",
		SynopsisText: "A space romp.",
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-11-21-rex-dexter-of-mars", rec.Key)
	assert.Equal(t, "Rex Dexter of Mars", rec.Title)
	assert.Equal(t, production.CategoryManual, rec.Category)
	assert.Equal(t, "2025-11-21 - 2025-11-23", rec.DateText)

	stored, ok := store.Get(rec.Key)
	require.True(t, ok)
	assert.Equal(t, rec, stored)
}

func TestBuilder_AddUniqueKeys(t *testing.T) {
	store := newStore(t)
	b := NewBuilder(store)
	start := production.MustDate(2026, time.February, 1)

	var got []string
	for i := 0; i < 3; i++ {
		rec, err := b.Add(Input{Title: "Oz", StartDate: start})
		require.NoError(t, err)
		got = append(got, rec.Key)
	}

	assert.Equal(t, []string{"2026-02-01-oz", "2026-02-01-oz-2", "2026-02-01-oz-3"}, got)
	assert.Equal(t, 3, store.Len())
}

func TestBuilder_AddKeyFromURL(t *testing.T) {
	store := newStore(t)
	b := NewBuilder(store)
	url := "https://ctxlivetheatre.com/productions/20260116-oz/"

	rec, err := b.Add(Input{Title: "Oz", URL: url, StartDate: production.MustDate(2026, time.January, 16)})
	require.NoError(t, err)
	assert.Equal(t, "20260116-oz", rec.Key)
	assert.Equal(t, url, rec.URL)

	_, err = b.Add(Input{Title: "Oz again", URL: url})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExists))
	assert.Contains(t, err.Error(), "20260116-oz")
	stored, _ := store.Get("20260116-oz")
	assert.Equal(t, "Oz", stored.Title, "existing record kept")

	rec, err = b.Add(Input{Title: "Oz again", URL: url, Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, "20260116-oz", rec.Key)
	assert.Equal(t, 1, store.Len())
	stored, _ = store.Get("20260116-oz")
	assert.Equal(t, "Oz again", stored.Title)
}

func TestBuilder_AddURLWithoutPath(t *testing.T) {
	store := newStore(t)

	rec, err := NewBuilder(store).Add(Input{Title: "Oz", URL: "https://ctxlivetheatre.com/"})
	require.NoError(t, err)
	assert.Equal(t, "oz", rec.Key)
}

func TestBuilder_AddTitleRequired(t *testing.T) {
	store := newStore(t)
	_, err := NewBuilder(store).Add(Input{Title: "   ", StartDate: production.MustDate(2026, time.March, 1)})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTitleRequired))
	assert.Equal(t, 0, store.Len())
}

func TestBuilder_AddRejectsBackwardsDates(t *testing.T) {
	store := newStore(t)
	_, err := NewBuilder(store).Add(Input{
		Title:     "Backwards",
		StartDate: production.MustDate(2026, time.March, 2),
		EndDate:   production.MustDate(2026, time.March, 1),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, production.ErrInvalid))
	assert.Equal(t, 0, store.Len())
}

func TestBaseKey(t *testing.T) {
	tests := []struct {
		name  string
		title string
		start production.Date
		want  string
	}{
		{name: "with date", title: "Hamlet", start: production.MustDate(2026, time.March, 1), want: "2026-03-01-hamlet"},
		{name: "without date", title: "Hamlet", want: "hamlet"},
		{name: "diacritics", title: "Les Misérables", want: "les-miserables"},
		{name: "punctuation", title: "Oh, What a Night!", want: "oh-what-a-night"},
		{name: "nothing left", title: "!!!", want: FallbackKey},
		{name: "symbols with date", title: "???", start: production.MustDate(2026, time.March, 1), want: "2026-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseKey(tt.title, tt.start))
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    production.Date
		wantErr bool
	}{
		{input: "2026-03-01", want: production.MustDate(2026, time.March, 1)},
		{input: "3/1/2026", want: production.MustDate(2026, time.March, 1)},
		{input: "March 1, 2026", want: production.MustDate(2026, time.March, 1)},
		{input: "", want: production.Date{}},
		{input: "not a date", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}
