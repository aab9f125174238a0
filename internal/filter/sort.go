package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByTitle SortOrder = "title"
	SortByKey   SortOrder = "key"
)

// ParseSortOrder validates a user-supplied sort order. Empty means date.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByDate:
		return SortByDate, nil
	case SortByTitle:
		return SortByTitle, nil
	case SortByKey:
		return SortByKey, nil
	}
	return "", fmt.Errorf("invalid sort order %q: use date, title or key", s)
}

// Sort sorts records in place. The sort is stable and total, so equal
// inputs always produce the same order.
func Sort(records []*production.Record, order SortOrder) {
	switch order {
	case SortByTitle:
		sort.SliceStable(records, func(i, j int) bool {
			if c := compareTitle(records[i], records[j]); c != 0 {
				return c < 0
			}
			return compareByDate(records[i], records[j])
		})
	case SortByKey:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Key < records[j].Key
		})
	default:
		sort.SliceStable(records, func(i, j int) bool {
			return compareByDate(records[i], records[j])
		})
	}
}

// compareByDate compares two records by start date.
// Returns true if record i should come before record j.
func compareByDate(i, j *production.Record) bool {
	dateI, dateJ := i.StartDate, j.StartDate

	// If both dates are known, compare them
	if !dateI.IsZero() && !dateJ.IsZero() && !dateI.Equal(dateJ) {
		return dateI.Before(dateJ)
	}

	// Known dates before unknown ones
	if !dateI.IsZero() && dateJ.IsZero() {
		return true
	}
	if dateI.IsZero() && !dateJ.IsZero() {
		return false
	}

	if c := compareTitle(i, j); c != 0 {
		return c < 0
	}
	return i.Key < j.Key
}

func compareTitle(i, j *production.Record) int {
	if c := strings.Compare(fold(i.Title), fold(j.Title)); c != 0 {
		return c
	}
	return strings.Compare(i.Title, j.Title)
}
