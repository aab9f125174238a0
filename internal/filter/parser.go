package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
)

const monthNames = `jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december`

var (
	sameMonthRange  = regexp.MustCompile(`(?i)^(` + monthNames + `)\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	crossMonthRange = regexp.MustCompile(`(?i)^(` + monthNames + `)\s+(\d{1,2})\s*-\s*(` + monthNames + `)\s+(\d{1,2})$`)
	wholeMonth      = regexp.MustCompile(`(?i)^(` + monthNames + `)$`)
)

// ParseWindow parses a date window such as "Mar 1-15", "March 20 - April 5"
// or "March" into inclusive from/to dates.
//
// Years are inferred relative to today: a month earlier than today's month
// means next year, and a window whose end month is earlier than its start
// month ends in the following year.
func ParseWindow(input string, today production.Date) (production.Date, production.Date, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return production.Date{}, production.Date{}, fmt.Errorf("date window cannot be empty")
	}

	// "Mar 1-15"
	if m := sameMonthRange.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		year := yearForMonth(month, today)
		return window(year, month, m[2], year, month, m[3])
	}

	// "Mar 20 - Apr 5"
	if m := crossMonthRange.FindStringSubmatch(input); m != nil {
		month1, month2 := parseMonth(m[1]), parseMonth(m[3])
		year1 := yearForMonth(month1, today)
		year2 := year1
		if month2 < month1 {
			year2++
		}
		return window(year1, month1, m[2], year2, month2, m[4])
	}

	// "March"
	if m := wholeMonth.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		year := yearForMonth(month, today)
		from := production.MustDate(year, month, 1)
		to := production.DateOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))
		return from, to, nil
	}

	return production.Date{}, production.Date{}, fmt.Errorf("invalid date window %q: use 'Mar 1-15', 'March 20 - April 5' or 'March'", input)
}

func window(year1 int, month1 time.Month, day1 string, year2 int, month2 time.Month, day2 string) (production.Date, production.Date, error) {
	d1, _ := strconv.Atoi(day1)
	d2, _ := strconv.Atoi(day2)

	from, err := production.NewDate(year1, month1, d1)
	if err != nil {
		return production.Date{}, production.Date{}, err
	}
	to, err := production.NewDate(year2, month2, d2)
	if err != nil {
		return production.Date{}, production.Date{}, err
	}
	if to.Before(from) {
		return production.Date{}, production.Date{}, fmt.Errorf("start date must be before end date")
	}
	return from, to, nil
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parseMonth converts a month name to time.Month
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 3 {
		return 0
	}
	return months[name[:3]]
}

// yearForMonth returns today's year, or the next one if month has passed
func yearForMonth(month time.Month, today production.Date) int {
	if month < today.Month() {
		return today.Year() + 1
	}
	return today.Year()
}
